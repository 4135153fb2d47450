package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/ghazalyy/SSIP-App/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/tidwall/gjson"
)

func TestFMPClient(t *testing.T) {
	// Ensure the client requires an api key.
	_, err := NewFMPClient(&FMPConfig{})
	assert.Error(t, err)

	// Ensure the fmp client can be created.
	fc, err := NewFMPClient(&FMPConfig{
		APIKey:  "key",
		BaseURL: "http://base",
	})
	assert.NoError(t, err)

	// Ensure urls can be formed accurately.
	params := url.Values{}
	params.Add("a", "bbb")
	params.Add("b", "ccc")

	formedURL := fc.formURL("/path", params.Encode())
	assert.Equal(t, formedURL, "http://base/path?a=bbb&b=ccc")

	// Ensure fetching fails against an unreachable endpoint.
	instrument := shared.NewInstrument("BBCA", "BBCA.JK")
	_, err = fc.FetchQuote(context.Background(), instrument)
	assert.Error(t, err)

	// Ensure quote payloads can be parsed.
	quoteData := gjson.Parse(`{"symbol":"BBCA.JK","price":9500,"changePercentage":1.25,"volume":1250000}`)
	quote := fc.ParseQuote(quoteData, instrument.Symbol)
	assert.Equal(t, quote.Symbol, "BBCA")
	assert.Equal(t, quote.Price, float64(9500))
	assert.Equal(t, quote.ChangePercent, 1.25)
	assert.Equal(t, quote.Volume, float64(1250000))

	// Ensure candlestick payloads can be parsed and sorted ascending.
	historyData := `[{"open":104,"close":105,"high":106,"low":103,"volume":8,"date":"2026-08-28"},
		{"open":100,"close":102,"high":103,"low":99,"volume":5,"date":"2026-08-27"}]`
	candles, err := fc.ParseCandlesticks(gjson.Parse(historyData).Array(), instrument.Symbol)
	assert.NoError(t, err)
	assert.Equal(t, len(candles), 2)
	assert.Equal(t, candles[0].Close, float64(102))
	assert.Equal(t, candles[1].Close, float64(105))
	assert.Equal(t, candles[0].Date.Before(candles[1].Date), true)
	assert.Equal(t, candles[0].Date.Day(), 27)

	// Ensure malformed candle dates are rejected.
	badData := `[{"open":104,"close":105,"high":106,"low":103,"volume":8,"date":"28-08-2026"}]`
	_, err = fc.ParseCandlesticks(gjson.Parse(badData).Array(), instrument.Symbol)
	assert.Error(t, err)
}

func TestFMPClientConcurrentFetches(t *testing.T) {
	prices := map[string]float64{
		"BBCA.JK": 9500,
		"TLKM.JK": 3200,
		"GOTO.JK": 62,
		"BMRI.JK": 6100,
	}

	// Serve each symbol its own quote, rejecting any request whose url does
	// not parse cleanly to a known symbol.
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")
		price, ok := prices[symbol]
		if !ok {
			http.Error(w, "unknown symbol", http.StatusBadRequest)
			return
		}

		fmt.Fprintf(w, `[{"symbol":%q,"price":%v,"changePercentage":1,"volume":1000}]`, symbol, price)
	}))
	defer svr.Close()

	fc, err := NewFMPClient(&FMPConfig{
		APIKey:  "key",
		BaseURL: svr.URL,
	})
	assert.NoError(t, err)

	universe := []shared.Instrument{
		shared.NewInstrument("BBCA", "BBCA.JK"),
		shared.NewInstrument("TLKM", "TLKM.JK"),
		shared.NewInstrument("GOTO", "GOTO.JK"),
		shared.NewInstrument("BMRI", "BMRI.JK"),
	}

	// Ensure concurrent workers sharing one client each receive the quote
	// for their own instrument.
	const rounds = 25

	var wg sync.WaitGroup
	quotes := make([]shared.Quote, len(universe)*rounds)
	errs := make([]error, len(universe)*rounds)

	for round := 0; round < rounds; round++ {
		for idx := range universe {
			wg.Add(1)
			go func(slot int, instrument shared.Instrument) {
				defer wg.Done()
				quotes[slot], errs[slot] = fc.FetchQuote(context.Background(), instrument)
			}(round*len(universe)+idx, universe[idx])
		}
	}
	wg.Wait()

	for round := 0; round < rounds; round++ {
		for idx := range universe {
			slot := round*len(universe) + idx
			assert.NoError(t, errs[slot])
			assert.Equal(t, quotes[slot].Symbol, universe[idx].Symbol)
			assert.Equal(t, quotes[slot].Price, prices[universe[idx].ProviderSymbol])
		}
	}
}
