package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ghazalyy/SSIP-App/news"
	"github.com/ghazalyy/SSIP-App/shared"
)

const (
	// defaultListenAddr is the default http listener address.
	defaultListenAddr = ":3001"
	// defaultMarketIntervalSecs is the default market cycle period.
	defaultMarketIntervalSecs = 5
	// defaultNewsIntervalSecs is the default news cycle period.
	defaultNewsIntervalSecs = 300
	// defaultNewsBatchSize is the default number of items per news cycle.
	defaultNewsBatchSize = 5
	// defaultAlertLogSize is the default recent alert retention.
	defaultAlertLogSize = 100
)

// Config is the configuration struct for the service.
type Config struct {
	// Instruments represents the tracked universe, each entry is a local
	// symbol optionally followed by a colon and the provider symbol.
	Instruments []string
	// FMPAPIkey is the FMP service API Key.
	FMPAPIKey string
	// OpenAIAPIKey is the OpenAI API key used for sentiment scoring.
	OpenAIAPIKey string
	// OpenAIModel is the chat model used for sentiment scoring.
	OpenAIModel string
	// NewsFeeds are the crawled rss feeds, each entry is a display name
	// followed by a pipe and the feed url.
	NewsFeeds []string
	// DatabaseEndpoint represents the database connection endpoint.
	DatabaseEndpoint string
	// DatabaseUser is the database user.
	DatabaseUser string
	// DatabasePass is the database user pass.
	DatabasePass string
	// ListenAddr is the address of the http and websocket listener.
	ListenAddr string
	// MarketIntervalSecs is the market cycle period in seconds.
	MarketIntervalSecs int
	// NewsIntervalSecs is the news cycle period in seconds.
	NewsIntervalSecs int
	// NewsBatchSize is the number of items processed per news cycle.
	NewsBatchSize int
	// AlertLogSize is the maximum number of retained recent alerts.
	AlertLogSize int

	registeredFlags map[string]bool
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if len(cfg.Instruments) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no instruments provided for pipeline service"))
	}
	if cfg.FMPAPIKey == "" {
		errs = errors.Join(errs, fmt.Errorf("fmp api key cannot be an empty string"))
	}
	if cfg.DatabaseEndpoint == "" {
		errs = errors.Join(errs, fmt.Errorf("database endpoint cannot be an empty string"))
	}
	if cfg.ListenAddr == "" {
		errs = errors.Join(errs, fmt.Errorf("listen address cannot be an empty string"))
	}
	if cfg.MarketIntervalSecs <= 0 {
		errs = errors.Join(errs, fmt.Errorf("market interval must be positive"))
	}
	if cfg.NewsIntervalSecs <= 0 {
		errs = errors.Join(errs, fmt.Errorf("news interval must be positive"))
	}

	return errs
}

// ParseUniverse converts the configured instrument entries into the ordered
// tracked universe.
func (cfg *Config) ParseUniverse() []shared.Instrument {
	universe := make([]shared.Instrument, 0, len(cfg.Instruments))
	for idx := range cfg.Instruments {
		symbol, providerSymbol, _ := strings.Cut(cfg.Instruments[idx], ":")
		universe = append(universe, shared.NewInstrument(symbol, providerSymbol))
	}

	return universe
}

// ParseFeeds converts the configured feed entries into crawler feeds.
// Entries without a name take their url as display name.
func (cfg *Config) ParseFeeds() []news.Feed {
	feeds := make([]news.Feed, 0, len(cfg.NewsFeeds))
	for idx := range cfg.NewsFeeds {
		name, url, ok := strings.Cut(cfg.NewsFeeds[idx], "|")
		if !ok {
			url = name
		}

		feeds = append(feeds, news.Feed{Name: name, URL: url})
	}

	return feeds
}

// registerFlag registers command line arguments of any type and tracks them to avoid reregistration.
func (cfg *Config) registerFlag(name string, value interface{}, usage string) error {
	if cfg.registeredFlags == nil {
		cfg.registeredFlags = make(map[string]bool)
	}

	if cfg.registeredFlags[name] {
		return nil
	}

	cfg.registeredFlags[name] = true

	defValue := os.Getenv(name)
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("%s: value must be a non-nil pointer", name)
	}

	switch val.Elem().Kind() {
	case reflect.String:
		flag.StringVar(value.(*string), name, defValue, usage)
	case reflect.Bool:
		var def bool
		if defValue != "" {
			def, _ = strconv.ParseBool(defValue)
		}
		flag.BoolVar(value.(*bool), name, def, usage)
	case reflect.Int:
		var def int
		if defValue != "" {
			def, _ = strconv.Atoi(defValue)
		}
		flag.IntVar(value.(*int), name, def, usage)
	case reflect.Slice:
		// Only handle []string
		if val.Elem().Type().Elem().Kind() == reflect.String {
			var def []string
			if defValue != "" {
				def = strings.Split(defValue, ",")
			}
			flag.Func(name, usage, func(s string) error {
				*value.(*[]string) = strings.Split(s, ",")
				return nil
			})
			// Set default if not provided via flag
			if len(def) > 0 {
				*value.(*[]string) = def
			}
		} else {
			return fmt.Errorf("%s: unsupported slice type", name)
		}
	default:
		return fmt.Errorf("%s: unsupported type", name)
	}

	return nil
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	// Register command line arguments using loaded environment variables as defaults.
	err = cfg.registerFlag("instruments", &cfg.Instruments, "the tracked instruments")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("fmpapikey", &cfg.FMPAPIKey, "the FMP api key")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("openaiapikey", &cfg.OpenAIAPIKey, "the OpenAI api key")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("openaimodel", &cfg.OpenAIModel, "the OpenAI sentiment model")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("newsfeeds", &cfg.NewsFeeds, "the crawled rss feeds")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("dbendpoint", &cfg.DatabaseEndpoint, "the database endpoint")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("dbuser", &cfg.DatabaseUser, "the database user")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("dbpass", &cfg.DatabasePass, "the database user pass")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("listenaddr", &cfg.ListenAddr, "the http listener address")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("marketintervalsecs", &cfg.MarketIntervalSecs, "the market cycle period in seconds")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("newsintervalsecs", &cfg.NewsIntervalSecs, "the news cycle period in seconds")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("newsbatchsize", &cfg.NewsBatchSize, "the number of items per news cycle")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("alertlogsize", &cfg.AlertLogSize, "the recent alert retention size")
	if err != nil {
		return err
	}

	// Parse command-line flags.
	flag.Parse()

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if cfg.MarketIntervalSecs == 0 {
		cfg.MarketIntervalSecs = defaultMarketIntervalSecs
	}
	if cfg.NewsIntervalSecs == 0 {
		cfg.NewsIntervalSecs = defaultNewsIntervalSecs
	}
	if cfg.NewsBatchSize == 0 {
		cfg.NewsBatchSize = defaultNewsBatchSize
	}
	if cfg.AlertLogSize == 0 {
		cfg.AlertLogSize = defaultAlertLogSize
	}

	return cfg.Validate()
}
