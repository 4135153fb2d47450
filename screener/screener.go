package screener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ghazalyy/SSIP-App/indicator"
	"github.com/ghazalyy/SSIP-App/shared"
	"github.com/rs/zerolog"
)

const (
	// oversoldRSI is the rsi level at or below which an instrument passes
	// the oversold criterion.
	oversoldRSI = 30
	// undervaluedPERatio is the trailing pe ratio at or below which an
	// instrument passes the undervalued criterion.
	undervaluedPERatio = 15
	// historyLookbackMonths is how far back daily history is fetched for a
	// scan.
	historyLookbackMonths = 8
)

// ScreenerConfig represents the configuration for the screener.
type ScreenerConfig struct {
	// Universe is the ordered set of tracked instruments.
	Universe []shared.Instrument
	// Fetcher represents the market data fetcher.
	Fetcher shared.MarketFetcher
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *ScreenerConfig) Validate() error {
	var errs error

	if len(cfg.Universe) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no instruments provided for screener"))
	}
	if cfg.Fetcher == nil {
		errs = errors.Join(errs, fmt.Errorf("market fetcher cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Screener filters the tracked universe against screening criteria using
// fresh quotes, derived indicators and fundamental ratios.
type Screener struct {
	cfg *ScreenerConfig
}

// NewScreener initializes a new screener.
func NewScreener(cfg *ScreenerConfig) (*Screener, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating screener config: %w", err)
	}

	return &Screener{cfg: cfg}, nil
}

// evaluate fetches and derives the screening state for a single instrument.
// It returns the insufficient data sentinel when the instrument's history is
// too short for a snapshot.
func (s *Screener) evaluate(ctx context.Context, instrument shared.Instrument) (*shared.ScreeningResult, error) {
	quote, err := s.cfg.Fetcher.FetchQuote(ctx, instrument)
	if err != nil {
		return nil, fmt.Errorf("fetching quote for %s: %w", instrument.Symbol, err)
	}

	start := time.Now().AddDate(0, -historyLookbackMonths, 0)
	candles, err := s.cfg.Fetcher.FetchDailyHistory(ctx, instrument, start)
	if err != nil {
		return nil, fmt.Errorf("fetching history for %s: %w", instrument.Symbol, err)
	}

	snapshot, err := indicator.ComputeSnapshot(shared.ClosingSeries(candles))
	if err != nil {
		return nil, fmt.Errorf("computing snapshot for %s: %w", instrument.Symbol, err)
	}

	fundamentals, err := s.cfg.Fetcher.FetchFundamentals(ctx, instrument)
	if err != nil {
		return nil, fmt.Errorf("fetching fundamentals for %s: %w", instrument.Symbol, err)
	}

	return &shared.ScreeningResult{
		Symbol:       instrument.Symbol,
		Price:        quote.Price,
		Fundamentals: fundamentals,
		Snapshot:     *snapshot,
	}, nil
}

// matches applies the provided criteria to the provided screening result as
// an AND of the toggled predicates.
func matches(criteria *shared.ScreeningCriteria, result *shared.ScreeningResult) bool {
	if criteria.BullishOnly && !result.Snapshot.IsBullish {
		return false
	}
	if criteria.RSIOversold && result.Snapshot.RSI > oversoldRSI {
		return false
	}
	if criteria.Undervalued && result.Fundamentals.PERatio > undervaluedPERatio {
		return false
	}

	return true
}

// Scan evaluates the provided criteria against the tracked universe and
// returns the matching instruments in universe order. Instruments with
// insufficient history or failing provider calls are skipped, a scan never
// fails because of a single instrument.
func (s *Screener) Scan(ctx context.Context, criteria *shared.ScreeningCriteria) []shared.ScreeningResult {
	results := make([]shared.ScreeningResult, 0, len(s.cfg.Universe))

	for idx := range s.cfg.Universe {
		instrument := s.cfg.Universe[idx]

		result, err := s.evaluate(ctx, instrument)
		if err != nil {
			if !errors.Is(err, shared.ErrInsufficientData) {
				s.cfg.Logger.Error().Msgf("screening %s: %v", instrument.Symbol, err)
			}
			continue
		}

		if matches(criteria, result) {
			results = append(results, *result)
		}
	}

	return results
}
