package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/ghazalyy/SSIP-App/shared"
	"github.com/tidwall/gjson"
)

const (
	// BaseURL is the production FMP api endpoint.
	BaseURL = "https://financialmodelingprep.com/stable"
	// eodDateLayout is the format layout for daily candle dates.
	eodDateLayout = "2006-01-02"
	// requestTimeout bounds every provider call so a stalled request cannot
	// stall a whole cycle.
	requestTimeout = time.Second * 5
)

// FMPConfig represents the configuration for the FMP client.
type FMPConfig struct {
	// APIkey is the FMP API Key.
	APIKey string
	// BaseURL is the api endpoint to query.
	BaseURL string
}

// FMPClient represents the Financial Modeling Preparation (FMP) API client.
// It is safe for concurrent use.
type FMPClient struct {
	cfg   *FMPConfig
	httpc http.Client
}

// Ensure the FMPClient implements the MarketFetcher interface.
var _ shared.MarketFetcher = (*FMPClient)(nil)

// NewFMPClient instantiates a new FMP client.
func NewFMPClient(cfg *FMPConfig) (*FMPClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("fmp api key cannot be an empty string")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}

	return &FMPClient{
		cfg:   cfg,
		httpc: http.Client{Timeout: requestTimeout},
	}, nil
}

// formURL creates full urls including parameters for the api. The client is
// called from concurrent workers, so the url is built in a per-call buffer.
func (c *FMPClient) formURL(path string, params string) string {
	var buf strings.Builder

	buf.WriteString(c.cfg.BaseURL)
	buf.WriteString(path)
	buf.WriteString("?")
	buf.WriteString(params)

	return buf.String()
}

// fetch executes a request against the provided url and returns the parsed
// response body.
func (c *FMPClient) fetch(ctx context.Context, url string) (gjson.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("executing request: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	return gjson.ParseBytes(body), nil
}

// ParseQuote parses a quote from the provided json data.
func (c *FMPClient) ParseQuote(data gjson.Result, symbol string) shared.Quote {
	return shared.Quote{
		Symbol:        symbol,
		Price:         data.Get("price").Float(),
		ChangePercent: data.Get("changePercentage").Float(),
		Volume:        data.Get("volume").Float(),
		ObservedAt:    time.Now().UTC(),
	}
}

// ParseCandlesticks parses daily candlesticks from the provided json data,
// sorted ascending by date.
func (c *FMPClient) ParseCandlesticks(data []gjson.Result, symbol string) ([]shared.Candlestick, error) {
	candles := make([]shared.Candlestick, len(data))

	for idx := range data {
		var candle shared.Candlestick

		candle.Open = data[idx].Get("open").Float()
		candle.Low = data[idx].Get("low").Float()
		candle.High = data[idx].Get("high").Float()
		candle.Close = data[idx].Get("close").Float()
		candle.Volume = data[idx].Get("volume").Float()
		candle.Symbol = symbol

		dt, err := time.Parse(eodDateLayout, data[idx].Get("date").String())
		if err != nil {
			return nil, fmt.Errorf("parsing candlestick date: %w", err)
		}

		candle.Date = dt
		candles[idx] = candle
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Date.Before(candles[j].Date)
	})

	return candles, nil
}

// FetchQuote fetches the current quote for the provided instrument.
func (c *FMPClient) FetchQuote(ctx context.Context, instrument shared.Instrument) (shared.Quote, error) {
	const quotePath = "/quote"

	params := url.Values{}
	params.Add("symbol", instrument.ProviderSymbol)
	params.Add("apikey", c.cfg.APIKey)

	data, err := c.fetch(ctx, c.formURL(quotePath, params.Encode()))
	if err != nil {
		return shared.Quote{}, fmt.Errorf("fetching quote for %s: %w", instrument.Symbol, err)
	}

	entries := data.Array()
	if len(entries) == 0 {
		return shared.Quote{}, fmt.Errorf("no quote data returned for %s", instrument.Symbol)
	}

	return c.ParseQuote(entries[0], instrument.Symbol), nil
}

// FetchDailyHistory fetches daily candlesticks for the provided instrument
// from the provided start date.
func (c *FMPClient) FetchDailyHistory(ctx context.Context, instrument shared.Instrument, start time.Time) ([]shared.Candlestick, error) {
	const dailyHistoricalPath = "/historical-price-eod/full"

	params := url.Values{}
	params.Add("symbol", instrument.ProviderSymbol)
	params.Add("apikey", c.cfg.APIKey)
	params.Add("from", start.Format(eodDateLayout))

	data, err := c.fetch(ctx, c.formURL(dailyHistoricalPath, params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("fetching daily history for %s: %w", instrument.Symbol, err)
	}

	candles, err := c.ParseCandlesticks(data.Array(), instrument.Symbol)
	if err != nil {
		return nil, fmt.Errorf("parsing candlesticks for %s: %w", instrument.Symbol, err)
	}

	return candles, nil
}

// FetchFundamentals fetches trailing fundamental ratios for the provided
// instrument. Missing provider fields default to zero.
func (c *FMPClient) FetchFundamentals(ctx context.Context, instrument shared.Instrument) (shared.Fundamentals, error) {
	const ratiosPath = "/ratios-ttm"

	params := url.Values{}
	params.Add("symbol", instrument.ProviderSymbol)
	params.Add("apikey", c.cfg.APIKey)

	data, err := c.fetch(ctx, c.formURL(ratiosPath, params.Encode()))
	if err != nil {
		return shared.Fundamentals{}, fmt.Errorf("fetching fundamentals for %s: %w", instrument.Symbol, err)
	}

	entries := data.Array()
	if len(entries) == 0 {
		return shared.Fundamentals{}, nil
	}

	return shared.Fundamentals{
		PERatio:   entries[0].Get("priceToEarningsRatioTTM").Float(),
		MarketCap: entries[0].Get("marketCap").Float(),
	}, nil
}
