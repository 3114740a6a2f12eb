package nse

import "strings"

// InstrumentClass selects the upstream option-chain path family
type InstrumentClass int

const (
	Equity InstrumentClass = iota
	Index
)

func (c InstrumentClass) String() string {
	if c == Index {
		return "index"
	}
	return "equity"
}

// indexSymbols are the derivative indices served from option-chain-indices
var indexSymbols = map[string]struct{}{
	"NIFTY":      {},
	"BANKNIFTY":  {},
	"FINNIFTY":   {},
	"MIDCPNIFTY": {},
}

// NormalizeIdentifier trims and uppercases an instrument identifier
func NormalizeIdentifier(identifier string) string {
	return strings.ToUpper(strings.TrimSpace(identifier))
}

// Classify reports whether identifier names one of the index symbols.
// Every other identifier is an equity.
func Classify(identifier string) InstrumentClass {
	if _, ok := indexSymbols[NormalizeIdentifier(identifier)]; ok {
		return Index
	}
	return Equity
}

// IndexSymbols returns the index symbol set in a stable order
func IndexSymbols() []string {
	return []string{"NIFTY", "BANKNIFTY", "FINNIFTY", "MIDCPNIFTY"}
}
