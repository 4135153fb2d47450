package indicator

import (
	"fmt"

	"github.com/ghazalyy/SSIP-App/shared"
)

// MACDTriple computes the most recent macd line, signal line and histogram
// values for the provided series. A series shorter than the slow and signal
// periods combined yields a zeroed triple rather than an error, to allow
// partial display.
func MACDTriple(series []float64, fast int, slow int, signal int) shared.MACD {
	if len(series) < slow+signal {
		return shared.MACD{}
	}

	fastEMA := emaSeries(series, fast)
	slowEMA := emaSeries(series, slow)

	// The slow ema starts later than the fast one, offset the fast series so
	// both line up on the same input indices.
	line := make([]float64, len(slowEMA))
	offset := slow - fast
	for idx := range slowEMA {
		line[idx] = fastEMA[idx+offset] - slowEMA[idx]
	}

	signalEMA := emaSeries(line, signal)

	value := line[len(line)-1]
	signalValue := signalEMA[len(signalEMA)-1]

	return shared.MACD{
		Value:     value,
		Signal:    signalValue,
		Histogram: value - signalValue,
	}
}

// BollingerTriple computes the bollinger bands over the last period values
// of the provided series, using the population standard deviation of the
// window. A series shorter than the period yields a zeroed triple.
func BollingerTriple(series []float64, period int, stdDevs float64) shared.BollingerBands {
	if len(series) < period {
		return shared.BollingerBands{}
	}

	window := series[len(series)-period:]
	middle, _ := SMA(window, period)
	sigma := populationStdDev(window, middle)

	return shared.BollingerBands{
		Upper:  middle + stdDevs*sigma,
		Middle: middle,
		Lower:  middle - stdDevs*sigma,
	}
}

// ComputeSnapshot derives the full technical indicator snapshot from the
// provided closing price series. It is a pure function of the series, an
// identical series always yields identical results.
func ComputeSnapshot(series []float64) (*shared.IndicatorSnapshot, error) {
	if len(series) < SMAPeriod {
		return nil, fmt.Errorf("computing snapshot from %d closes: %w",
			len(series), shared.ErrInsufficientData)
	}

	rsi, err := RSI(series, RSIPeriod)
	if err != nil {
		return nil, fmt.Errorf("computing rsi: %w", err)
	}

	sma50, err := SMA(series, SMAPeriod)
	if err != nil {
		return nil, fmt.Errorf("computing sma: %w", err)
	}

	lastPrice := series[len(series)-1]

	snapshot := &shared.IndicatorSnapshot{
		RSI:       rsi,
		SMA50:     sma50,
		MACD:      MACDTriple(series, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod),
		Bollinger: BollingerTriple(series, BollingerPeriod, BollingerStdDevs),
		IsBullish: lastPrice > sma50,
	}

	return snapshot, nil
}
