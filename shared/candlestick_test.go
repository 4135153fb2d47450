package shared

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/peterldowns/testy/assert"
)

func TestClosingSeries(t *testing.T) {
	// Ensure an empty candle set yields an empty series.
	series := ClosingSeries(nil)
	assert.Equal(t, len(series), 0)

	// Ensure closes are extracted in candle order.
	candles := []Candlestick{
		{Open: 10, High: 12, Low: 9, Close: 11},
		{Open: 11, High: 14, Low: 10, Close: 13},
		{Open: 13, High: 13, Low: 11, Close: 12},
	}

	series = ClosingSeries(candles)
	if !cmp.Equal(series, []float64{11, 13, 12}) {
		t.Errorf("unexpected closing series: %v", cmp.Diff(series, []float64{11, 13, 12}))
	}
}

func TestNewInstrument(t *testing.T) {
	// Ensure the provider symbol defaults to the local symbol.
	instrument := NewInstrument("BBCA", "")
	assert.Equal(t, instrument.ProviderSymbol, "BBCA")

	// Ensure an explicit provider symbol is preserved.
	instrument = NewInstrument("BBCA", "BBCA.JK")
	assert.Equal(t, instrument.Symbol, "BBCA")
	assert.Equal(t, instrument.ProviderSymbol, "BBCA.JK")
}
