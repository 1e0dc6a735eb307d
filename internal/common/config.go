package common

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig        `toml:"server"`
	Storage  StorageConfig       `toml:"storage"`
	Logging  LoggingConfig       `toml:"logging"`
	Finnhub  FinnhubConfig       `toml:"finnhub"`
	News     NewsConfig          `toml:"news"`
	Claude   ClaudeConfig        `toml:"claude"`
	Refresh  RefreshConfig       `toml:"refresh"`
	History  HistoryConfig       `toml:"history"`
	Universe map[string][]string `toml:"universe"` // Category name -> ticker symbols
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gte=0,lte=65535"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// FinnhubConfig configures the quote/fundamentals provider.
type FinnhubConfig struct {
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit" validate:"gte=1"` // requests per second
}

// NewsConfig configures the news provider and client-side cache.
type NewsConfig struct {
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit" validate:"gte=1"`
	CacheTTL  string `toml:"cache_ttl"` // e.g. "24h"
	CacheType string `toml:"cache_type" validate:"oneof=badger memory"`
}

// ClaudeConfig configures the analysis LLM.
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens" validate:"gte=1"`
	Temperature float64 `toml:"temperature" validate:"gte=0,lte=1"`
	Timeout     string  `toml:"timeout"`
}

// RefreshConfig holds the polling cadences for the two refresh jobs.
type RefreshConfig struct {
	OpportunityInterval string `toml:"opportunity_interval"` // full opportunity refresh, e.g. "5m"
	TickerInterval      string `toml:"ticker_interval"`      // lightweight quote strip, e.g. "1m"
}

// HistoryConfig configures the rolling daily snapshot file.
type HistoryConfig struct {
	Path      string `toml:"path"`
	MaxPoints int    `toml:"max_points" validate:"gte=1"`
}

// NewDefaultConfig returns the configuration defaults. The universe is the
// original watchlist of AI/tech equities grouped by theme.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/marketlens",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Finnhub: FinnhubConfig{
			BaseURL:   "https://finnhub.io/api/v1",
			RateLimit: 10,
		},
		News: NewsConfig{
			BaseURL:   "https://newsapi.org/v2",
			RateLimit: 5,
			CacheTTL:  "24h",
			CacheType: "badger",
		},
		Claude: ClaudeConfig{
			Model:       "claude-3-sonnet-20240229",
			MaxTokens:   150,
			Temperature: 0,
			Timeout:     "60s",
		},
		Refresh: RefreshConfig{
			OpportunityInterval: "5m",
			TickerInterval:      "1m",
		},
		History: HistoryConfig{
			Path:      "./data/historical_data.json",
			MaxPoints: 30,
		},
		Universe: map[string][]string{
			"Chips":          {"NVDA", "AMD", "INTC", "TSM", "QCOM"},
			"Cloud":          {"GOOGL", "MSFT", "AMZN", "CRM", "NOW"},
			"Energy":         {"TSLA", "ENPH", "SMCI", "AAPL", "ASML"},
			"Infrastructure": {"IBM", "ORCL", "CSCO", "ADSK"},
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier ones; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyFlagOverrides applies command-line flag values (highest priority).
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if len(c.Symbols()) == 0 {
		return fmt.Errorf("invalid configuration: universe has no symbols")
	}
	if _, err := time.ParseDuration(c.News.CacheTTL); err != nil {
		return fmt.Errorf("invalid news cache_ttl %q: %w", c.News.CacheTTL, err)
	}
	if _, err := time.ParseDuration(c.Refresh.OpportunityInterval); err != nil {
		return fmt.Errorf("invalid refresh opportunity_interval %q: %w", c.Refresh.OpportunityInterval, err)
	}
	if _, err := time.ParseDuration(c.Refresh.TickerInterval); err != nil {
		return fmt.Errorf("invalid refresh ticker_interval %q: %w", c.Refresh.TickerInterval, err)
	}
	return nil
}

// Symbols flattens the universe into one deduplicated list. Categories are
// walked in sorted name order so the result is stable across runs.
func (c *Config) Symbols() []string {
	categories := make([]string, 0, len(c.Universe))
	for name := range c.Universe {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	seen := make(map[string]bool)
	var symbols []string
	for _, name := range categories {
		for _, sym := range c.Universe[name] {
			if sym == "" || seen[sym] {
				continue
			}
			seen[sym] = true
			symbols = append(symbols, sym)
		}
	}
	return symbols
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("MARKETLENS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("MARKETLENS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if level := os.Getenv("MARKETLENS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if badgerPath := os.Getenv("MARKETLENS_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if historyPath := os.Getenv("MARKETLENS_HISTORY_PATH"); historyPath != "" {
		config.History.Path = historyPath
	}

	// Provider credentials are only required for their own call path, so a
	// missing key degrades that path rather than failing config load.
	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		config.Finnhub.APIKey = key
	}
	if key := os.Getenv("NEWS_API_KEY"); key != "" {
		config.News.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
}
