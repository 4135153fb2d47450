package shared

import "time"

// Candlestick represents a unit candlestick for an instrument.
type Candlestick struct {
	Open   float64
	Low    float64
	High   float64
	Close  float64
	Volume float64
	Date   time.Time

	// Symbol is the local symbol of the instrument the candle belongs to.
	Symbol string
}

// ClosingSeries extracts the ordered closing price series from the provided
// candlesticks.
func ClosingSeries(candles []Candlestick) []float64 {
	closes := make([]float64, len(candles))
	for idx := range candles {
		closes[idx] = candles[idx].Close
	}

	return closes
}
