package shared

// MACD represents a moving average convergence/divergence triple.
type MACD struct {
	// Value is the macd line (fast ema - slow ema).
	Value float64 `json:"value"`
	// Signal is the smoothed signal line of the macd line.
	Signal float64 `json:"signal"`
	// Histogram is the difference between the macd line and the signal line.
	Histogram float64 `json:"histogram"`
}

// BollingerBands represents bollinger bands around a moving average.
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// IndicatorSnapshot represents the derived technical indicator state for an
// instrument, recomputed wholesale from its closing price series.
type IndicatorSnapshot struct {
	// RSI is the most recent 14-period relative strength index value.
	RSI float64 `json:"rsi"`
	// SMA50 is the 50-period simple moving average of closes.
	SMA50 float64 `json:"sma50"`
	// MACD is the 12/26/9 convergence divergence triple.
	MACD MACD `json:"macd"`
	// Bollinger is the 20-period, 2 sigma bollinger bands triple.
	Bollinger BollingerBands `json:"bollinger"`
	// IsBullish reports whether the last price is above the 50-period sma.
	IsBullish bool `json:"isBullish"`
}
