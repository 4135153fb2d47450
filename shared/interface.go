package shared

import (
	"context"
	"time"
)

// MarketFetcher defines the requirements for fetching market data.
type MarketFetcher interface {
	// FetchQuote fetches the current quote for the provided instrument.
	FetchQuote(ctx context.Context, instrument Instrument) (Quote, error)
	// FetchDailyHistory fetches daily candlesticks for the provided
	// instrument from the provided start date, ordered ascending by date.
	FetchDailyHistory(ctx context.Context, instrument Instrument, start time.Time) ([]Candlestick, error)
	// FetchFundamentals fetches fundamental ratios for the provided
	// instrument. Missing provider fields default to zero.
	FetchFundamentals(ctx context.Context, instrument Instrument) (Fundamentals, error)
}

// NewsFetcher defines the requirements for crawling news articles.
type NewsFetcher interface {
	// FetchArticles fetches articles from all configured feeds, sorted
	// newest first. Per-feed failures are aggregated silently.
	FetchArticles(ctx context.Context) []NewsItem
}

// SentimentScorer defines the requirements for scoring text sentiment.
type SentimentScorer interface {
	// Score scores the sentiment of the provided article text in [-1, 1].
	// It returns a neutral zero on any internal failure.
	Score(ctx context.Context, title string, summary string) float64
}

// QuoteStorer defines the requirements for persisting and recalling quotes.
type QuoteStorer interface {
	// InsertQuote stores the provided quote.
	InsertQuote(ctx context.Context, quote *Quote) error
	// RecentQuotes returns up to limit stored quotes for the provided
	// symbol, newest first.
	RecentQuotes(ctx context.Context, symbol string, limit int) ([]Quote, error)
}

// NewsStorer defines the requirements for persisting news items.
type NewsStorer interface {
	// InsertNewsItem stores the provided news item and returns its id.
	InsertNewsItem(ctx context.Context, item *NewsItem) (int64, error)
}

// Publisher defines the requirements for publishing messages to all
// connected subscribers.
type Publisher interface {
	// Broadcast publishes the provided message to all connected subscribers.
	Broadcast(msg Message)
}
