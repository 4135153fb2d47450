package shared

import "time"

// Quote represents a live market quote for an instrument.
type Quote struct {
	// Symbol is the local symbol of the quoted instrument.
	Symbol string `json:"symbol"`
	// Price is the last traded price.
	Price float64 `json:"price"`
	// ChangePercent is the percentage change for the current session.
	ChangePercent float64 `json:"changePercent"`
	// Volume is the session volume.
	Volume float64 `json:"volume"`
	// ObservedAt is the time the quote was observed.
	ObservedAt time.Time `json:"observedAt"`
}

// Fundamentals represents fundamental ratios for an instrument. Missing
// provider fields default to zero.
type Fundamentals struct {
	// PERatio is the trailing price-to-earnings ratio.
	PERatio float64 `json:"peRatio"`
	// MarketCap is the market capitalization.
	MarketCap float64 `json:"marketCap"`
}
