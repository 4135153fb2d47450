package shared

import "time"

// NewsItem represents a crawled news article, optionally enriched with a
// sentiment score and an associated instrument.
type NewsItem struct {
	// Title is the article headline.
	Title string `json:"title"`
	// Summary is the article snippet.
	Summary string `json:"summary"`
	// Link is the article url.
	Link string `json:"link"`
	// Source is the name of the feed the article was crawled from.
	Source string `json:"source"`
	// PublishedAt is the article publication time.
	PublishedAt time.Time `json:"publishedAt"`
	// SentimentScore is the scored sentiment in [-1, 1], zero when unscored.
	SentimentScore float64 `json:"sentimentScore"`
	// RelatedSymbol is the local symbol of the associated instrument, or the
	// placeholder symbol when no instrument matched.
	RelatedSymbol string `json:"relatedSymbol"`
}
