package shared

// PlaceholderSymbol is the fallback symbol for news items that could not be
// associated with any tracked instrument.
const PlaceholderSymbol = "MARKET"

// Instrument represents a tracked tradable instrument.
type Instrument struct {
	// Symbol is the local identifier for the instrument.
	Symbol string
	// ProviderSymbol is the instrument's identifier at the market data provider.
	ProviderSymbol string
}

// NewInstrument initializes a new instrument. The provider symbol defaults to
// the local symbol when not provided.
func NewInstrument(symbol string, providerSymbol string) Instrument {
	if providerSymbol == "" {
		providerSymbol = symbol
	}

	return Instrument{
		Symbol:         symbol,
		ProviderSymbol: providerSymbol,
	}
}
