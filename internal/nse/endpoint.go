package nse

import (
	"fmt"
	"net/url"
)

// Kind is the type of data a caller asks the gateway for
type Kind int

const (
	OptionChain Kind = iota
	EquityQuote
	MarketStatus
)

func (k Kind) String() string {
	switch k {
	case OptionChain:
		return "option_chain"
	case EquityQuote:
		return "equity_quote"
	case MarketStatus:
		return "market_status"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// NeedsIdentifier reports whether requests of this kind name an instrument
func (k Kind) NeedsIdentifier() bool {
	return k != MarketStatus
}

// Upstream API paths, relative to the base URL
const (
	PathOptionChainIndices  = "/api/option-chain-indices"
	PathOptionChainEquities = "/api/option-chain-equities"
	PathQuoteEquity         = "/api/quote-equity"
	PathMarketStatus        = "/api/marketStatus"
)

// Endpoint is a resolved upstream target
type Endpoint struct {
	Path  string
	Query url.Values
	Class InstrumentClass
}

// Resolve maps a kind and a normalized identifier to its upstream endpoint
func Resolve(kind Kind, identifier string) (Endpoint, error) {
	switch kind {
	case OptionChain:
		class := Classify(identifier)
		path := PathOptionChainEquities
		if class == Index {
			path = PathOptionChainIndices
		}
		return Endpoint{Path: path, Query: url.Values{"symbol": {identifier}}, Class: class}, nil
	case EquityQuote:
		return Endpoint{Path: PathQuoteEquity, Query: url.Values{"symbol": {identifier}}, Class: Classify(identifier)}, nil
	case MarketStatus:
		return Endpoint{Path: PathMarketStatus}, nil
	default:
		return Endpoint{}, fmt.Errorf("unknown request kind %s", kind)
	}
}
