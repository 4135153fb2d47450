package indicator

import (
	"fmt"
	"math"
)

const (
	// RSIPeriod is the lookback period for the relative strength index.
	RSIPeriod = 14
	// SMAPeriod is the lookback period for the trend moving average.
	SMAPeriod = 50
	// MACDFastPeriod is the fast ema period of the macd line.
	MACDFastPeriod = 12
	// MACDSlowPeriod is the slow ema period of the macd line.
	MACDSlowPeriod = 26
	// MACDSignalPeriod is the ema period of the macd signal line.
	MACDSignalPeriod = 9
	// BollingerPeriod is the lookback period for the bollinger bands.
	BollingerPeriod = 20
	// BollingerStdDevs is the band width in standard deviations.
	BollingerStdDevs = 2.0
)

// SMA computes the simple moving average of the last period values of the
// provided series.
func SMA(series []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("sma period must be positive, got %d", period)
	}
	if len(series) < period {
		return 0, fmt.Errorf("sma requires at least %d values, got %d", period, len(series))
	}

	var sum float64
	for idx := len(series) - period; idx < len(series); idx++ {
		sum += series[idx]
	}

	return sum / float64(period), nil
}

// RSI computes the most recent Wilder-smoothed relative strength index value
// over the provided series. The series must have at least period+1 values.
func RSI(series []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("rsi period must be positive, got %d", period)
	}
	if len(series) < period+1 {
		return 0, fmt.Errorf("rsi requires at least %d values, got %d", period+1, len(series))
	}

	// Seed the averages with the first period worth of deltas.
	var avgGain, avgLoss float64
	for idx := 1; idx <= period; idx++ {
		change := series[idx] - series[idx-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Apply the smoothing recurrence over the remaining deltas.
	for idx := period + 1; idx < len(series); idx++ {
		change := series[idx] - series[idx-1]

		var gain, loss float64
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100, nil
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}

// emaSeries computes the exponential moving average series of the provided
// values, seeded with the simple average of the first period values. The
// returned series is aligned such that element j corresponds to input index
// period-1+j.
func emaSeries(series []float64, period int) []float64 {
	out := make([]float64, 0, len(series)-period+1)

	var seed float64
	for idx := 0; idx < period; idx++ {
		seed += series[idx]
	}
	seed /= float64(period)
	out = append(out, seed)

	smoothing := 2 / float64(period+1)
	ema := seed
	for idx := period; idx < len(series); idx++ {
		ema = (series[idx]-ema)*smoothing + ema
		out = append(out, ema)
	}

	return out
}

// populationStdDev computes the population standard deviation of the
// provided window around its mean.
func populationStdDev(window []float64, mean float64) float64 {
	var sum float64
	for idx := range window {
		diff := window[idx] - mean
		sum += diff * diff
	}

	return math.Sqrt(sum / float64(len(window)))
}
