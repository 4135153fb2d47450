package news

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ghazalyy/SSIP-App/shared"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
)

const (
	// maxItemsPerFeed caps the number of items taken from a single feed per
	// crawl to avoid spamming subscribers.
	maxItemsPerFeed = 5
	// feedTimeout bounds every feed fetch so a stalled feed cannot stall a
	// whole news cycle.
	feedTimeout = time.Second * 10
)

// Feed represents a single configured news feed.
type Feed struct {
	// Name is the display name of the feed.
	Name string
	// URL is the rss endpoint of the feed.
	URL string
}

// CrawlerConfig represents the configuration for the news crawler.
type CrawlerConfig struct {
	// Feeds are the rss feeds to crawl.
	Feeds []Feed
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *CrawlerConfig) Validate() error {
	var errs error

	if len(cfg.Feeds) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no feeds provided for news crawler"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Crawler fetches articles from the configured rss feeds.
type Crawler struct {
	cfg    *CrawlerConfig
	parser *gofeed.Parser
}

// Ensure the crawler implements the NewsFetcher interface.
var _ shared.NewsFetcher = (*Crawler)(nil)

// NewCrawler initializes a new news crawler.
func NewCrawler(cfg *CrawlerConfig) (*Crawler, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating news crawler config: %w", err)
	}

	return &Crawler{
		cfg:    cfg,
		parser: gofeed.NewParser(),
	}, nil
}

// fetchFeed fetches and converts a single feed's articles.
func (c *Crawler) fetchFeed(ctx context.Context, feed *Feed) ([]shared.NewsItem, error) {
	ctx, cancel := context.WithTimeout(ctx, feedTimeout)
	defer cancel()

	parsed, err := c.parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", feed.Name, err)
	}

	items := parsed.Items
	if len(items) > maxItemsPerFeed {
		items = items[:maxItemsPerFeed]
	}

	articles := make([]shared.NewsItem, 0, len(items))
	for idx := range items {
		item := items[idx]

		published := time.Now().UTC()
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		}

		articles = append(articles, shared.NewsItem{
			Title:       item.Title,
			Summary:     item.Description,
			Link:        item.Link,
			Source:      feed.Name,
			PublishedAt: published,
		})
	}

	return articles, nil
}

// FetchArticles fetches articles from all configured feeds, sorted newest
// first. Per-feed failures are logged and swallowed, a single failing feed
// never fails the crawl.
func (c *Crawler) FetchArticles(ctx context.Context) []shared.NewsItem {
	articles := make([]shared.NewsItem, 0, len(c.cfg.Feeds)*maxItemsPerFeed)

	for idx := range c.cfg.Feeds {
		feed := &c.cfg.Feeds[idx]

		items, err := c.fetchFeed(ctx, feed)
		if err != nil {
			c.cfg.Logger.Error().Msgf("crawling %s: %v", feed.Name, err)
			continue
		}

		articles = append(articles, items...)
	}

	sortNewestFirst(articles)

	return articles
}

// sortNewestFirst orders the provided articles by publication time, newest
// first.
func sortNewestFirst(articles []shared.NewsItem) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
}
