package shared

// ScreeningCriteria represents the independently togglable screening
// predicates. Unset flags impose no filter.
type ScreeningCriteria struct {
	// BullishOnly keeps only instruments trading above their 50-period sma.
	BullishOnly bool `json:"bullishOnly"`
	// RSIOversold keeps only instruments with an rsi at or below 30.
	RSIOversold bool `json:"rsiOversold"`
	// Undervalued keeps only instruments with a trailing pe ratio at or
	// below 15. A missing ratio is treated as zero and passes.
	Undervalued bool `json:"undervalued"`
}

// ScreeningResult represents a single instrument matched by a screening scan.
type ScreeningResult struct {
	// Symbol is the local symbol of the matched instrument.
	Symbol string `json:"symbol"`
	// Price is the current price of the instrument.
	Price float64 `json:"price"`
	// Fundamentals are the fundamental ratios of the instrument.
	Fundamentals Fundamentals `json:"fundamentals"`
	// Snapshot is the derived technical indicator state of the instrument.
	Snapshot IndicatorSnapshot `json:"technical"`
}
