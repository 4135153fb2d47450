package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/ghazalyy/SSIP-App/alert"
	"github.com/ghazalyy/SSIP-App/indicator"
	"github.com/ghazalyy/SSIP-App/news"
	"github.com/ghazalyy/SSIP-App/screener"
	"github.com/ghazalyy/SSIP-App/shared"
	"github.com/ghazalyy/SSIP-App/stream"
)

const (
	// maxWorkers is the maximum number of concurrent per-instrument workers
	// in a market cycle.
	maxWorkers = 8
	// historyLookbackMonths is how far back daily history is fetched for the
	// indicator cache.
	historyLookbackMonths = 8
	// warmupDelay is how long after startup the abbreviated news run fires.
	warmupDelay = time.Second * 2
	// warmupNewsLimit is the number of items processed by the warm-up run.
	warmupNewsLimit = 2
	// shutdownTimeout bounds the http server drain on shutdown.
	shutdownTimeout = time.Second * 5
)

// PipelineConfig represents the configuration struct for the pipeline
// service.
type PipelineConfig struct {
	// Universe is the ordered set of tracked instruments.
	Universe []shared.Instrument
	// MarketFetcher represents the market data fetcher.
	MarketFetcher shared.MarketFetcher
	// NewsFetcher represents the news crawler.
	NewsFetcher shared.NewsFetcher
	// Scorer represents the sentiment scorer.
	Scorer shared.SentimentScorer
	// QuoteStore persists observed quotes.
	QuoteStore shared.QuoteStorer
	// NewsStore persists enriched news items.
	NewsStore shared.NewsStorer
	// MarketInterval is the market cycle period.
	MarketInterval time.Duration
	// NewsInterval is the news cycle period.
	NewsInterval time.Duration
	// NewsBatchSize is the number of items processed per news cycle.
	NewsBatchSize int
	// AlertLogCapacity is the maximum number of retained recent alerts.
	AlertLogCapacity int
	// ListenAddr is the address of the http and websocket listener.
	ListenAddr string
	// Cancel is the context cancellation function.
	Cancel context.CancelFunc
}

// Validate asserts the config sane inputs.
func (cfg *PipelineConfig) Validate() error {
	var errs error

	if len(cfg.Universe) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no instruments provided for pipeline service"))
	}
	if cfg.MarketFetcher == nil {
		errs = errors.Join(errs, fmt.Errorf("market fetcher cannot be nil"))
	}
	if cfg.NewsFetcher == nil {
		errs = errors.Join(errs, fmt.Errorf("news fetcher cannot be nil"))
	}
	if cfg.Scorer == nil {
		errs = errors.Join(errs, fmt.Errorf("sentiment scorer cannot be nil"))
	}
	if cfg.QuoteStore == nil {
		errs = errors.Join(errs, fmt.Errorf("quote store cannot be nil"))
	}
	if cfg.NewsStore == nil {
		errs = errors.Join(errs, fmt.Errorf("news store cannot be nil"))
	}
	if cfg.MarketInterval <= 0 {
		errs = errors.Join(errs, fmt.Errorf("market interval must be positive"))
	}
	if cfg.NewsInterval <= 0 {
		errs = errors.Join(errs, fmt.Errorf("news interval must be positive"))
	}
	if cfg.NewsBatchSize <= 0 {
		errs = errors.Join(errs, fmt.Errorf("news batch size must be positive"))
	}
	if cfg.AlertLogCapacity <= 0 {
		errs = errors.Join(errs, fmt.Errorf("alert log capacity must be positive"))
	}
	if cfg.ListenAddr == "" {
		errs = errors.Join(errs, fmt.Errorf("listen address cannot be an empty string"))
	}
	if cfg.Cancel == nil {
		errs = errors.Join(errs, fmt.Errorf("context cancellation function cannot be nil"))
	}

	return errs
}

// instrumentHistory is the cached closing price series for an instrument.
type instrumentHistory struct {
	closes    []float64
	fetchedOn time.Time
}

// Pipeline represents the market intelligence pipeline service. It drives
// the periodic market and news cycles, feeds their results through the
// indicator and alert engines and fans the derived state out to all
// connected subscribers.
type Pipeline struct {
	cfg          *PipelineConfig
	alertEngine  *alert.Engine
	screener     *screener.Screener
	hub          *stream.Hub
	jobScheduler *gocron.Scheduler
	logger       *zerolog.Logger
	workers      chan struct{}

	historyMtx sync.Mutex
	histories  map[string]*instrumentHistory

	quotesMtx sync.Mutex
	quotes    map[string]shared.Quote

	wg sync.WaitGroup
}

// NewPipeline initializes a new pipeline service.
func NewPipeline(cfg *PipelineConfig) (*Pipeline, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating pipeline config: %w", err)
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logger := log.With().Str("service", "pipeline").Logger()

	alertLogger := logger.With().Str("component", "alertengine").Logger()
	alertEngine, err := alert.NewEngine(&alert.EngineConfig{
		LogCapacity: cfg.AlertLogCapacity,
		Logger:      &alertLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating alert engine: %w", err)
	}

	screenerLogger := logger.With().Str("component", "screener").Logger()
	scr, err := screener.NewScreener(&screener.ScreenerConfig{
		Universe: cfg.Universe,
		Fetcher:  cfg.MarketFetcher,
		Logger:   &screenerLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating screener: %w", err)
	}

	hubLogger := logger.With().Str("component", "hub").Logger()
	hub, err := stream.NewHub(&stream.HubConfig{Logger: &hubLogger})
	if err != nil {
		return nil, fmt.Errorf("creating subscriber hub: %w", err)
	}

	jobScheduler := gocron.NewScheduler(time.UTC)
	jobScheduler.SingletonModeAll()

	return &Pipeline{
		cfg:          cfg,
		alertEngine:  alertEngine,
		screener:     scr,
		hub:          hub,
		jobScheduler: jobScheduler,
		logger:       &logger,
		workers:      make(chan struct{}, maxWorkers),
		histories:    make(map[string]*instrumentHistory),
		quotes:       make(map[string]shared.Quote),
	}, nil
}

// fetchHistory returns the cached closing price series for the provided
// instrument, fetching it from the provider when missing or stale. The cache
// is refreshed once per day.
func (p *Pipeline) fetchHistory(ctx context.Context, instrument shared.Instrument) ([]float64, error) {
	now := time.Now().UTC()

	p.historyMtx.Lock()
	cached, ok := p.histories[instrument.Symbol]
	p.historyMtx.Unlock()

	if ok && cached.fetchedOn.YearDay() == now.YearDay() && cached.fetchedOn.Year() == now.Year() {
		return cached.closes, nil
	}

	start := now.AddDate(0, -historyLookbackMonths, 0)
	candles, err := p.cfg.MarketFetcher.FetchDailyHistory(ctx, instrument, start)
	if err != nil {
		return nil, fmt.Errorf("fetching history for %s: %w", instrument.Symbol, err)
	}

	closes := shared.ClosingSeries(candles)

	p.historyMtx.Lock()
	p.histories[instrument.Symbol] = &instrumentHistory{closes: closes, fetchedOn: now}
	p.historyMtx.Unlock()

	return closes, nil
}

// cacheQuote retains the most recent quote for an instrument so news-driven
// sentiment alerts can reference live prices.
func (p *Pipeline) cacheQuote(quote *shared.Quote) {
	p.quotesMtx.Lock()
	p.quotes[quote.Symbol] = *quote
	p.quotesMtx.Unlock()
}

// lastQuote returns the most recently observed quote for a symbol.
func (p *Pipeline) lastQuote(symbol string) (shared.Quote, bool) {
	p.quotesMtx.Lock()
	defer p.quotesMtx.Unlock()

	quote, ok := p.quotes[symbol]
	return quote, ok
}

// processInstrument derives the per-tick state for a single instrument. It
// returns a nil update when the instrument's quote could not be fetched, a
// missing indicator snapshot only excludes the derived fields.
func (p *Pipeline) processInstrument(ctx context.Context, instrument shared.Instrument) (*shared.InstrumentUpdate, []shared.AlertEvent) {
	quote, err := p.cfg.MarketFetcher.FetchQuote(ctx, instrument)
	if err != nil {
		p.logger.Error().Msgf("fetching quote for %s: %v", instrument.Symbol, err)
		return nil, nil
	}

	p.cacheQuote(&quote)

	var snapshot *shared.IndicatorSnapshot
	closes, err := p.fetchHistory(ctx, instrument)
	if err != nil {
		p.logger.Error().Msgf("fetching history for %s: %v", instrument.Symbol, err)
	} else {
		snapshot, err = indicator.ComputeSnapshot(closes)
		if err != nil && !errors.Is(err, shared.ErrInsufficientData) {
			p.logger.Error().Msgf("computing snapshot for %s: %v", instrument.Symbol, err)
		}
	}

	events := p.alertEngine.Evaluate(&quote, snapshot, nil)

	err = p.cfg.QuoteStore.InsertQuote(ctx, &quote)
	if err != nil {
		p.logger.Error().Msgf("persisting quote for %s: %v", instrument.Symbol, err)
	}

	return &shared.InstrumentUpdate{Quote: quote, Snapshot: snapshot}, events
}

// collectMarketBatch processes the full universe concurrently and assembles
// the per-tick update batch and alert list in universe order. A slow or
// failing instrument never delays the others.
func (p *Pipeline) collectMarketBatch(ctx context.Context) ([]shared.InstrumentUpdate, []shared.AlertEvent) {
	updates := make([]*shared.InstrumentUpdate, len(p.cfg.Universe))
	eventBatches := make([][]shared.AlertEvent, len(p.cfg.Universe))

	var wg sync.WaitGroup
	for idx := range p.cfg.Universe {
		p.workers <- struct{}{}
		wg.Add(1)

		go func(idx int, instrument shared.Instrument) {
			defer wg.Done()
			updates[idx], eventBatches[idx] = p.processInstrument(ctx, instrument)
			<-p.workers
		}(idx, p.cfg.Universe[idx])
	}
	wg.Wait()

	batch := make([]shared.InstrumentUpdate, 0, len(updates))
	events := make([]shared.AlertEvent, 0)
	for idx := range updates {
		if updates[idx] != nil {
			batch = append(batch, *updates[idx])
		}
		events = append(events, eventBatches[idx]...)
	}

	return batch, events
}

// runMarketCycle executes one market tick, the update batch and the alert
// batch are each published atomically as a single message per kind.
func (p *Pipeline) runMarketCycle(ctx context.Context) {
	batch, events := p.collectMarketBatch(ctx)

	if len(batch) > 0 {
		p.hub.Broadcast(shared.Message{Type: shared.MarketUpdateMessage, Data: batch})
	}
	if len(events) > 0 {
		p.hub.Broadcast(shared.Message{Type: shared.AlertsMessage, Data: events})
	}
}

// processArticles crawls, scores, associates and persists up to limit news
// items, returning them in feed order (newest first).
func (p *Pipeline) processArticles(ctx context.Context, limit int) []shared.NewsItem {
	articles := p.cfg.NewsFetcher.FetchArticles(ctx)
	if len(articles) > limit {
		articles = articles[:limit]
	}

	items := make([]shared.NewsItem, 0, len(articles))
	for idx := range articles {
		item := articles[idx]
		item.SentimentScore = p.cfg.Scorer.Score(ctx, item.Title, item.Summary)
		item.RelatedSymbol = news.AssociateInstrument(p.cfg.Universe, &item)

		_, err := p.cfg.NewsStore.InsertNewsItem(ctx, &item)
		if err != nil {
			p.logger.Error().Msgf("persisting news item: %v", err)
		}

		items = append(items, item)
	}

	return items
}

// runNewsCycle executes one news tick, each enriched item is published
// individually in feed order. Sentiment alerts fire for items whose
// associated instrument has a live quote.
func (p *Pipeline) runNewsCycle(ctx context.Context, limit int) {
	items := p.processArticles(ctx, limit)

	for idx := range items {
		item := items[idx]
		p.hub.Broadcast(shared.Message{Type: shared.NewsMessage, Data: item})

		quote, ok := p.lastQuote(item.RelatedSymbol)
		if !ok {
			continue
		}

		events := p.alertEngine.Evaluate(&quote, nil, &item)
		if len(events) > 0 {
			p.hub.Broadcast(shared.Message{Type: shared.AlertsMessage, Data: events})
		}
	}
}

// router builds the http request routes for the pipeline.
func (p *Pipeline) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/api/screener", p.handleScreener)
	router.GET("/api/alerts", p.handleAlerts)
	router.GET("/api/quotes/:symbol", p.handleQuotes)
	router.GET("/ws", func(c *gin.Context) {
		p.hub.HandleWebsocket(c.Writer, c.Request)
	})

	return router
}

// runServer manages the lifecycle of the http listener.
func (p *Pipeline) runServer(ctx context.Context) {
	server := &http.Server{
		Addr:    p.cfg.ListenAddr,
		Handler: p.router(),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			p.logger.Error().Msgf("shutting down http server: %v", err)
		}
	}()

	p.logger.Info().Msgf("listening on %s", p.cfg.ListenAddr)
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		p.logger.Error().Msgf("http server: %v", err)
		p.cfg.Cancel()
	}
}

// Run handles the lifecycle processes of the pipeline service.
func (p *Pipeline) Run(ctx context.Context) {
	p.wg.Add(2)

	go func() {
		p.hub.Run(ctx)
		p.wg.Done()
	}()

	go func() {
		p.runServer(ctx)
		p.wg.Done()
	}()

	_, err := p.jobScheduler.Every(p.cfg.MarketInterval).Do(func() {
		p.runMarketCycle(ctx)
	})
	if err != nil {
		p.logger.Error().Msgf("scheduling market cycle: %v", err)
		p.cfg.Cancel()
	}

	_, err = p.jobScheduler.Every(p.cfg.NewsInterval).Do(func() {
		p.runNewsCycle(ctx, p.cfg.NewsBatchSize)
	})
	if err != nil {
		p.logger.Error().Msgf("scheduling news cycle: %v", err)
		p.cfg.Cancel()
	}

	p.jobScheduler.StartAsync()

	// Run a single abbreviated news fetch shortly after startup so early
	// subscribers see content before the first full cycle completes.
	go func() {
		select {
		case <-time.After(warmupDelay):
			p.runNewsCycle(ctx, warmupNewsLimit)
		case <-ctx.Done():
		}
	}()

	<-ctx.Done()
	p.jobScheduler.Stop()
	p.wg.Wait()
}
