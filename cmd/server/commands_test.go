package main

import (
	"testing"

	"github.com/nsvirk/nsegateway/internal/nse"
)

func TestParseKind(t *testing.T) {
	tests := map[string]nse.Kind{
		"optionchain":  nse.OptionChain,
		"OC":           nse.OptionChain,
		"equity":       nse.EquityQuote,
		"quote":        nse.EquityQuote,
		"marketStatus": nse.MarketStatus,
	}
	for in, want := range tests {
		got, err := parseKind(in)
		if err != nil {
			t.Errorf("parseKind(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("parseKind(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := parseKind("futures"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestFetchRequiresKind(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"fetch"})
	if err := cmd.Execute(); err == nil {
		t.Error("fetch without arguments should fail")
	}
}
