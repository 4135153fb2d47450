package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ghazalyy/SSIP-App/database"
	"github.com/ghazalyy/SSIP-App/fetch"
	"github.com/ghazalyy/SSIP-App/news"
	"github.com/ghazalyy/SSIP-App/service"
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)

	// Wait for the context to be cancelled or an interrupt signal.
	for {
		select {
		case <-ctx.Done():
			return

		case <-interrupt:
			cancel()
		}
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		stdlog.Printf("loading config: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	universe := cfg.ParseUniverse()

	dbLogger := log.With().Str("component", "database").Logger()
	db, err := database.NewDatabase(ctx, &database.DatabaseConfig{
		Endpoint: cfg.DatabaseEndpoint,
		User:     cfg.DatabaseUser,
		Pass:     cfg.DatabasePass,
		Logger:   &dbLogger,
	})
	if err != nil {
		stdlog.Printf("creating database: %v", err)
		return
	}

	err = db.SeedInstruments(ctx, universe)
	if err != nil {
		stdlog.Printf("seeding instruments: %v", err)
		return
	}

	fmpClient, err := fetch.NewFMPClient(&fetch.FMPConfig{
		APIKey: cfg.FMPAPIKey,
	})
	if err != nil {
		stdlog.Printf("creating fmp client: %v", err)
		return
	}

	crawlerLogger := log.With().Str("component", "newscrawler").Logger()
	crawler, err := news.NewCrawler(&news.CrawlerConfig{
		Feeds:  cfg.ParseFeeds(),
		Logger: &crawlerLogger,
	})
	if err != nil {
		stdlog.Printf("creating news crawler: %v", err)
		return
	}

	scorerLogger := log.With().Str("component", "sentimentscorer").Logger()
	scorer := news.NewScorer(&news.ScorerConfig{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.OpenAIModel,
		Logger: &scorerLogger,
	})

	pipelineCfg := service.PipelineConfig{
		Universe:         universe,
		MarketFetcher:    fmpClient,
		NewsFetcher:      crawler,
		Scorer:           scorer,
		QuoteStore:       db,
		NewsStore:        db,
		MarketInterval:   time.Duration(cfg.MarketIntervalSecs) * time.Second,
		NewsInterval:     time.Duration(cfg.NewsIntervalSecs) * time.Second,
		NewsBatchSize:    cfg.NewsBatchSize,
		AlertLogCapacity: cfg.AlertLogSize,
		ListenAddr:       cfg.ListenAddr,
		Cancel:           cancel,
	}
	pipeline, err := service.NewPipeline(&pipelineCfg)
	if err != nil {
		stdlog.Printf("creating pipeline service: %v", err)
		return
	}

	go handleTermination(ctx, cancel)
	pipeline.Run(ctx)
}
