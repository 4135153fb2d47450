package alert

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/ghazalyy/SSIP-App/shared"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// oversoldRSI is the rsi level at or below which an instrument is
	// considered oversold.
	oversoldRSI = 30
	// overboughtRSI is the rsi level at or above which an instrument is
	// considered overbought.
	overboughtRSI = 70
	// macdCrossoverCeiling bounds the histogram window treated as a fresh
	// bullish crossover.
	macdCrossoverCeiling = 0.5
	// volatilityChangePercent is the absolute session change beyond which a
	// volatility alert fires.
	volatilityChangePercent = 5
	// sentimentThreshold is the absolute sentiment score beyond which a
	// sentiment alert fires.
	sentimentThreshold = 0.5
)

// EngineConfig represents the configuration for the alert engine.
type EngineConfig struct {
	// LogCapacity is the maximum number of retained recent alerts.
	LogCapacity int
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *EngineConfig) Validate() error {
	var errs error

	if cfg.LogCapacity <= 0 {
		errs = errors.Join(errs, fmt.Errorf("alert log capacity must be positive"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Engine evaluates threshold rules against live quotes and indicator
// snapshots and retains a bounded log of recent alerts. Rule evaluation is
// memoryless per call, a sustained condition refires its alert every cycle.
type Engine struct {
	cfg *EngineConfig

	logMtx sync.Mutex
	log    []shared.AlertEvent
}

// NewEngine initializes a new alert engine.
func NewEngine(cfg *EngineConfig) (*Engine, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating alert engine config: %w", err)
	}

	return &Engine{
		cfg: cfg,
		log: make([]shared.AlertEvent, 0, cfg.LogCapacity),
	}, nil
}

// newEvent creates an alert event for the provided quote.
func newEvent(quote *shared.Quote, alertType shared.AlertType, severity shared.AlertSeverity, message string) shared.AlertEvent {
	return shared.AlertEvent{
		ID:        uuid.NewString(),
		Type:      alertType,
		Severity:  severity,
		Symbol:    quote.Symbol,
		Message:   message,
		EmittedAt: quote.ObservedAt,
	}
}

// Evaluate applies all alert rules to the provided quote, indicator snapshot
// and optional news item. The rules fire independently, a single call may
// yield zero or several events. Triggered events are appended to the recent
// alert log and returned for immediate publication.
func (e *Engine) Evaluate(quote *shared.Quote, snapshot *shared.IndicatorSnapshot, news *shared.NewsItem) []shared.AlertEvent {
	events := make([]shared.AlertEvent, 0, 4)

	if snapshot != nil {
		if snapshot.RSI < oversoldRSI {
			events = append(events, newEvent(quote, shared.TechnicalAlert, shared.Opportunity,
				fmt.Sprintf("RSI oversold (%.2f), potential buy signal", snapshot.RSI)))
		}
		if snapshot.RSI > overboughtRSI {
			events = append(events, newEvent(quote, shared.TechnicalAlert, shared.Warning,
				fmt.Sprintf("RSI overbought (%.2f), potential pullback", snapshot.RSI)))
		}
		if snapshot.IsBullish {
			events = append(events, newEvent(quote, shared.TechnicalAlert, shared.Info,
				"bullish trend detected, price above SMA50"))
		}
		if snapshot.MACD.Histogram > 0 && snapshot.MACD.Histogram < macdCrossoverCeiling {
			events = append(events, newEvent(quote, shared.TechnicalAlert, shared.Opportunity,
				"MACD bullish crossover potential"))
		}
		if quote.Price < snapshot.Bollinger.Lower {
			events = append(events, newEvent(quote, shared.TechnicalAlert, shared.Opportunity,
				"price below lower bollinger band"))
		}
		if quote.Price > snapshot.Bollinger.Upper {
			events = append(events, newEvent(quote, shared.TechnicalAlert, shared.Warning,
				"price above upper bollinger band"))
		}
	}

	if math.Abs(quote.ChangePercent) > volatilityChangePercent {
		events = append(events, newEvent(quote, shared.VolatilityAlert, shared.Danger,
			fmt.Sprintf("high volatility detected, price moved %.2f%%", quote.ChangePercent)))
	}

	if news != nil {
		if news.SentimentScore > sentimentThreshold {
			events = append(events, newEvent(quote, shared.SentimentAlert, shared.Success,
				"positive market sentiment detected from recent news"))
		}
		if news.SentimentScore < -sentimentThreshold {
			events = append(events, newEvent(quote, shared.SentimentAlert, shared.Warning,
				"negative market sentiment detected from recent news"))
		}
	}

	if len(events) > 0 {
		e.append(events)
	}

	return events
}

// append records the provided events in the bounded recent alert log,
// evicting the oldest entries first when at capacity.
func (e *Engine) append(events []shared.AlertEvent) {
	e.logMtx.Lock()
	defer e.logMtx.Unlock()

	e.log = append(e.log, events...)
	if excess := len(e.log) - e.cfg.LogCapacity; excess > 0 {
		e.log = e.log[excess:]
	}
}

// Recent returns up to limit of the most recently triggered alerts, newest
// first.
func (e *Engine) Recent(limit int) []shared.AlertEvent {
	e.logMtx.Lock()
	defer e.logMtx.Unlock()

	if limit <= 0 || limit > len(e.log) {
		limit = len(e.log)
	}

	recent := make([]shared.AlertEvent, limit)
	for idx := 0; idx < limit; idx++ {
		recent[idx] = e.log[len(e.log)-1-idx]
	}

	return recent
}
