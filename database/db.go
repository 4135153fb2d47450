package database

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/ghazalyy/SSIP-App/shared"
	rqlitehttp "github.com/rqlite/rqlite-go-http"
	"github.com/rs/zerolog"
)

const (
	// SQL statements.
	createInstrumentTableSQL = "CREATE TABLE IF NOT EXISTS instrument (symbol TEXT PRIMARY KEY, providersymbol TEXT, createdon INTEGER)"
	createQuoteTableSQL      = "CREATE TABLE IF NOT EXISTS quote (id INTEGER PRIMARY KEY AUTOINCREMENT, symbol TEXT, price REAL, changepercent REAL, volume REAL, createdon INTEGER)"
	createNewsItemTableSQL   = "CREATE TABLE IF NOT EXISTS newsitem (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT, source TEXT, url TEXT, summary TEXT, sentimentscore REAL, relatedsymbol TEXT, publishedon INTEGER, createdon INTEGER)"
	seedInstrumentSQL        = "INSERT OR IGNORE INTO instrument(symbol, providersymbol, createdon) VALUES(?,?,?)"
	insertQuoteSQL           = "INSERT INTO quote(symbol, price, changepercent, volume, createdon) VALUES(?,?,?,?,?)"
	insertNewsItemSQL        = "INSERT INTO newsitem(title, source, url, summary, sentimentscore, relatedsymbol, publishedon, createdon) VALUES(?,?,?,?,?,?,?,?)"
	selectRecentQuotesSQL    = "SELECT symbol, price, changepercent, volume, createdon FROM quote WHERE symbol = ? ORDER BY id DESC LIMIT ?"
)

// DatabaseConfig is the configuration for the database.
type DatabaseConfig struct {
	// Endpoint represents the database connection endpoint.
	Endpoint string
	// User is the database user.
	User string
	// Pass is the database user pass.
	Pass string
	// Logger is the database logger.
	Logger *zerolog.Logger
}

// Database represents the database connection.
type Database struct {
	cfg    *DatabaseConfig
	client *rqlitehttp.Client
}

// Ensure the database implements the QuoteStorer and NewsStorer interfaces.
var _ shared.QuoteStorer = (*Database)(nil)
var _ shared.NewsStorer = (*Database)(nil)

// NewDatabase initializes a new database connection.
func NewDatabase(ctx context.Context, cfg *DatabaseConfig) (*Database, error) {
	httpc := &http.Client{Timeout: time.Second * 5}
	client, err := rqlitehttp.NewClient(cfg.Endpoint, httpc)
	if err != nil {
		return nil, fmt.Errorf("creating database client: %w", err)
	}

	client.SetBasicAuth(cfg.User, cfg.Pass)

	db := &Database{
		cfg:    cfg,
		client: client,
	}

	err = db.bootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping database: %w", err)
	}

	return db, nil
}

// bootstrap initializes the database tables.
func (db *Database) bootstrap(ctx context.Context) error {
	_, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
		{SQL: createInstrumentTableSQL},
		{SQL: createQuoteTableSQL},
		{SQL: createNewsItemTableSQL},
	}, &rqlitehttp.ExecuteOptions{
		Transaction: true,
		Timings:     true,
	})
	if err != nil {
		return err
	}

	return nil
}

// SeedInstruments stores the tracked universe, existing rows are left
// untouched.
func (db *Database) SeedInstruments(ctx context.Context, universe []shared.Instrument) error {
	now := time.Now().Unix()

	statements := make(rqlitehttp.SQLStatements, 0, len(universe))
	for idx := range universe {
		statements = append(statements, &rqlitehttp.SQLStatement{
			SQL:              seedInstrumentSQL,
			PositionalParams: []any{universe[idx].Symbol, universe[idx].ProviderSymbol, now},
		})
	}

	resp, err := db.client.Execute(ctx, statements, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
	if err != nil {
		return err
	}

	has, idx, errStr := resp.HasError()
	if has {
		return fmt.Errorf("seeding instruments: %d -> %s", idx, errStr)
	}

	return nil
}

// InsertQuote stores the provided quote.
func (db *Database) InsertQuote(ctx context.Context, quote *shared.Quote) error {
	resp, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
		{
			SQL: insertQuoteSQL,
			PositionalParams: []any{quote.Symbol, quote.Price, quote.ChangePercent,
				quote.Volume, quote.ObservedAt.Unix()},
		},
	}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
	if err != nil {
		return err
	}

	has, idx, errStr := resp.HasError()
	if has {
		db.cfg.Logger.Error().Msgf("unexpected quote insert state: %s", spew.Sdump(quote))
		return fmt.Errorf("inserting quote for %s: %d -> %s", quote.Symbol, idx, errStr)
	}

	return nil
}

// asFloat converts a query column value into a float64, non-numeric values
// return zero.
func asFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// RecentQuotes returns up to limit stored quotes for the provided symbol,
// newest first.
func (db *Database) RecentQuotes(ctx context.Context, symbol string, limit int) ([]shared.Quote, error) {
	resp, err := db.client.Query(ctx, rqlitehttp.SQLStatements{
		{
			SQL:              selectRecentQuotesSQL,
			PositionalParams: []any{symbol, limit},
		},
	}, &rqlitehttp.QueryOptions{Timings: true})
	if err != nil {
		return nil, err
	}

	results := resp.GetQueryResults()
	if len(results) == 0 {
		return nil, fmt.Errorf("no query result returned for %s", symbol)
	}

	result := results[0]
	if result.Error != "" {
		return nil, fmt.Errorf("querying quotes for %s: %s", symbol, result.Error)
	}

	quotes := make([]shared.Quote, 0, len(result.Values))
	for idx := range result.Values {
		row := result.Values[idx]
		if len(row) < 5 {
			db.cfg.Logger.Error().Msgf("unexpected quote row state: %s", spew.Sdump(row))
			continue
		}

		sym, _ := row[0].(string)
		quotes = append(quotes, shared.Quote{
			Symbol:        sym,
			Price:         asFloat(row[1]),
			ChangePercent: asFloat(row[2]),
			Volume:        asFloat(row[3]),
			ObservedAt:    time.Unix(int64(asFloat(row[4])), 0).UTC(),
		})
	}

	return quotes, nil
}

// InsertNewsItem stores the provided news item and returns its id.
func (db *Database) InsertNewsItem(ctx context.Context, item *shared.NewsItem) (int64, error) {
	resp, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
		{
			SQL: insertNewsItemSQL,
			PositionalParams: []any{item.Title, item.Source, item.Link, item.Summary,
				item.SentimentScore, item.RelatedSymbol, item.PublishedAt.Unix(),
				time.Now().Unix()},
		},
	}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
	if err != nil {
		return 0, err
	}

	has, idx, errStr := resp.HasError()
	if has {
		db.cfg.Logger.Error().Msgf("unexpected news insert state: %s", spew.Sdump(item))
		return 0, fmt.Errorf("inserting news item: %d -> %s", idx, errStr)
	}

	if len(resp.Results) == 0 {
		return 0, fmt.Errorf("no insert result returned for news item")
	}

	return resp.Results[0].LastInsertID, nil
}
