package indicator

import (
	"errors"
	"math"
	"testing"

	"github.com/ghazalyy/SSIP-App/shared"
	"github.com/peterldowns/testy/assert"
)

const tolerance = 1e-6

// referenceSeries is a fixed trending, oscillating series of 60 closes with
// independently precomputed indicator values.
var referenceSeries = []float64{
	100.0, 102.36, 104.51, 106.25, 107.43, 107.97, 107.86, 107.14, 105.94, 104.45,
	102.86, 101.39, 100.26, 99.63, 99.61, 100.25, 101.52, 103.33, 105.52, 107.9,
	110.24, 112.34, 114.0, 115.1, 115.54, 115.32, 114.53, 113.27, 111.75, 110.16,
	108.74, 107.67, 107.12, 107.2, 107.94, 109.3, 111.18, 113.41, 115.8, 118.12,
	120.16, 121.75, 122.74, 123.08, 122.78, 121.9, 120.6, 119.05, 117.47, 116.09,
	115.09, 114.63, 114.81, 115.65, 117.09, 119.04, 121.31, 123.7, 125.99, 127.98,
}

func approxEqual(t *testing.T, got float64, want float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("expected %v within %v of %v", got, tolerance, want)
	}
}

func constantSeries(value float64, length int) []float64 {
	series := make([]float64, length)
	for idx := range series {
		series[idx] = value
	}
	return series
}

func increasingSeries(start float64, step float64, length int) []float64 {
	series := make([]float64, length)
	for idx := range series {
		series[idx] = start + step*float64(idx)
	}
	return series
}

func TestSMA(t *testing.T) {
	// Ensure an invalid period is rejected.
	_, err := SMA([]float64{1, 2, 3}, 0)
	assert.Error(t, err)

	// Ensure a series shorter than the period is rejected.
	_, err = SMA([]float64{1, 2, 3}, 4)
	assert.Error(t, err)

	// Ensure the sma of a full-length window equals the arithmetic mean of
	// the whole series.
	series := increasingSeries(1, 1, 50)
	sma, err := SMA(series, 50)
	assert.NoError(t, err)
	approxEqual(t, sma, 25.5)

	// Ensure only the trailing window contributes.
	sma, err = SMA([]float64{1000, 2, 4, 6}, 3)
	assert.NoError(t, err)
	approxEqual(t, sma, 4)
}

func TestRSI(t *testing.T) {
	// Ensure an invalid period is rejected.
	_, err := RSI(constantSeries(10, 60), 0)
	assert.Error(t, err)

	// Ensure a series shorter than period+1 is rejected.
	_, err = RSI(constantSeries(10, 14), 14)
	assert.Error(t, err)

	// Ensure a constant series is undefined-safe, no losses yields 100.
	rsi, err := RSI(constantSeries(10, 60), 14)
	assert.NoError(t, err)
	approxEqual(t, rsi, 100)

	// Ensure a monotonically increasing series saturates at 100.
	rsi, err = RSI(increasingSeries(100, 0.5, 60), 14)
	assert.NoError(t, err)
	approxEqual(t, rsi, 100)

	// Ensure a monotonically decreasing series collapses to 0.
	rsi, err = RSI(increasingSeries(100, -0.5, 60), 14)
	assert.NoError(t, err)
	approxEqual(t, rsi, 0)
}

func TestMACDTriple(t *testing.T) {
	// Ensure a series shorter than slow+signal yields a zeroed triple.
	macd := MACDTriple(constantSeries(10, 34), MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
	assert.Equal(t, macd, shared.MACD{})

	// Ensure a constant series yields a flat macd.
	macd = MACDTriple(constantSeries(10, 60), MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
	approxEqual(t, macd.Value, 0)
	approxEqual(t, macd.Signal, 0)
	approxEqual(t, macd.Histogram, 0)

	// Ensure the histogram is the difference of the line and signal.
	macd = MACDTriple(referenceSeries, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
	approxEqual(t, macd.Histogram, macd.Value-macd.Signal)
}

func TestBollingerTriple(t *testing.T) {
	// Ensure a series shorter than the period yields a zeroed triple.
	bands := BollingerTriple(constantSeries(10, 19), BollingerPeriod, BollingerStdDevs)
	assert.Equal(t, bands, shared.BollingerBands{})

	// Ensure a constant window collapses all bands onto the mean.
	bands = BollingerTriple(constantSeries(10, 40), BollingerPeriod, BollingerStdDevs)
	approxEqual(t, bands.Upper, 10)
	approxEqual(t, bands.Middle, 10)
	approxEqual(t, bands.Lower, 10)

	// Ensure the band spread is exactly four population standard deviations
	// of the window.
	window := referenceSeries[len(referenceSeries)-BollingerPeriod:]
	mean, err := SMA(window, BollingerPeriod)
	assert.NoError(t, err)
	sigma := populationStdDev(window, mean)

	bands = BollingerTriple(referenceSeries, BollingerPeriod, BollingerStdDevs)
	approxEqual(t, bands.Upper-bands.Lower, 4*sigma)
}

func TestComputeSnapshotInsufficientData(t *testing.T) {
	// Ensure series shorter than the longest lookback window are rejected
	// with the insufficient data sentinel.
	_, err := ComputeSnapshot(constantSeries(10, 49))
	assert.Error(t, err)
	assert.Equal(t, errors.Is(err, shared.ErrInsufficientData), true)
}

func TestComputeSnapshotProperties(t *testing.T) {
	// Ensure a constant series is undefined-safe and not bullish, the last
	// price equals the moving average.
	snapshot, err := ComputeSnapshot(constantSeries(25, 60))
	assert.NoError(t, err)
	approxEqual(t, snapshot.RSI, 100)
	approxEqual(t, snapshot.SMA50, 25)
	assert.Equal(t, snapshot.IsBullish, false)

	// Ensure a monotonically increasing series is bullish with a saturated
	// rsi.
	snapshot, err = ComputeSnapshot(increasingSeries(100, 0.5, 60))
	assert.NoError(t, err)
	approxEqual(t, snapshot.RSI, 100)
	assert.Equal(t, snapshot.IsBullish, true)
}

func TestComputeSnapshotDeterminism(t *testing.T) {
	// Ensure recomputation from an identical series is bit-identical.
	first, err := ComputeSnapshot(referenceSeries)
	assert.NoError(t, err)

	second, err := ComputeSnapshot(referenceSeries)
	assert.NoError(t, err)
	assert.Equal(t, *first, *second)
}

func TestComputeSnapshotReferenceValues(t *testing.T) {
	// Ensure the full snapshot matches independently precomputed values for
	// the fixed 60-close reference series.
	snapshot, err := ComputeSnapshot(referenceSeries)
	assert.NoError(t, err)

	approxEqual(t, snapshot.RSI, 76.3234355843)
	approxEqual(t, snapshot.SMA50, 113.2382)
	approxEqual(t, snapshot.MACD.Value, 2.9343681573)
	approxEqual(t, snapshot.MACD.Signal, 2.2720485150)
	approxEqual(t, snapshot.MACD.Histogram, 0.6623196424)
	approxEqual(t, snapshot.Bollinger.Upper, 127.4952046250)
	approxEqual(t, snapshot.Bollinger.Middle, 120.0455)
	approxEqual(t, snapshot.Bollinger.Lower, 112.5957953750)
	assert.Equal(t, snapshot.IsBullish, true)
}
