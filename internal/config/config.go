package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"MarketLens/internal/model"
)

// DefaultPath is read when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Index is one entry of the market summary.
type Index struct {
	Symbol string `yaml:"symbol" validate:"required"`
	Name   string `yaml:"name" validate:"required"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr         string        `yaml:"addr" validate:"required"`
		IndexFile    string        `yaml:"index_file"`
		ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gte=0"`
		WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"`
	} `yaml:"server"`
	Provider struct {
		Name      string        `yaml:"name" validate:"oneof=yahoo mock"`
		BaseURL   string        `yaml:"base_url" validate:"omitempty,url"`
		UserAgent string        `yaml:"user_agent"`
		Proxy     string        `yaml:"proxy" validate:"omitempty,url"`
		Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
		MockPrice float64       `yaml:"mock_price" validate:"gte=0"`
	} `yaml:"provider"`
	Analysis struct {
		HistoryDays int `yaml:"history_days" validate:"gte=2"`
	} `yaml:"analysis"`
	Search struct {
		MaxResults int `yaml:"max_results" validate:"gte=1,lte=100"`
	} `yaml:"search"`
	Markets  []model.MarketWindow `yaml:"markets" validate:"dive"`
	Indices  []Index              `yaml:"indices" validate:"dive"`
	Trending struct {
		Symbols []string `yaml:"symbols" validate:"dive,required"`
		Limit   int      `yaml:"limit" validate:"gte=1"`
	} `yaml:"trending"`
	Watchlist struct {
		Backend       string `yaml:"backend" validate:"oneof=memory sqlite redis"`
		SQLitePath    string `yaml:"sqlite_path" validate:"required_if=Backend sqlite"`
		RedisAddr     string `yaml:"redis_addr" validate:"required_if=Backend redis"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       int    `yaml:"redis_db" validate:"gte=0"`
	} `yaml:"watchlist"`
	Recorder struct {
		SQLitePath string `yaml:"sqlite_path"` // empty disables session history
	} `yaml:"recorder"`
	Schedule struct {
		SessionCron string `yaml:"session_cron"`
	} `yaml:"schedule"`
	Stream struct {
		Interval time.Duration `yaml:"interval" validate:"gt=0"`
	} `yaml:"stream"`
	Log struct {
		Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// Path returns CONFIG_PATH or DefaultPath.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Environment variable overrides
func (c *Config) applyEnv() error {
	str := map[string]*string{
		"LISTEN_ADDR":           &c.Server.Addr,
		"PROVIDER_NAME":         &c.Provider.Name,
		"PROVIDER_BASE_URL":     &c.Provider.BaseURL,
		"HTTPS_PROXY":           &c.Provider.Proxy,
		"WATCHLIST_BACKEND":     &c.Watchlist.Backend,
		"WATCHLIST_SQLITE_PATH": &c.Watchlist.SQLitePath,
		"REDIS_ADDR":            &c.Watchlist.RedisAddr,
		"REDIS_PASSWORD":        &c.Watchlist.RedisPassword,
		"SQLITE_PATH":           &c.Recorder.SQLitePath,
		"SESSION_CRON":          &c.Schedule.SessionCron,
		"LOG_LEVEL":             &c.Log.Level,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("PROVIDER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PROVIDER_TIMEOUT: %w", err)
		}
		c.Provider.Timeout = d
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOG_PRETTY: %w", err)
		}
		c.Log.Pretty = b
	}
	return nil
}

// Defaults
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Server.IndexFile == "" {
		c.Server.IndexFile = "web/index.html"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Provider.Name == "" {
		c.Provider.Name = "yahoo"
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 5 * time.Second
	}
	if c.Provider.Name == "mock" && c.Provider.MockPrice == 0 {
		c.Provider.MockPrice = 100
	}
	if c.Analysis.HistoryDays == 0 {
		c.Analysis.HistoryDays = 365
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = 20
	}
	// empty markets, indices and trending symbols select the built-in lists
	if c.Trending.Limit == 0 {
		c.Trending.Limit = 8
	}
	if c.Watchlist.Backend == "" {
		c.Watchlist.Backend = "memory"
	}
	if c.Watchlist.Backend == "sqlite" && c.Watchlist.SQLitePath == "" {
		c.Watchlist.SQLitePath = "data/watchlist.db"
	}
	if c.Schedule.SessionCron == "" {
		c.Schedule.SessionCron = "0 * * * * *"
	}
	if c.Stream.Interval == 0 {
		c.Stream.Interval = 5 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
}

// Validate checks field constraints and market ids.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	seen := make(map[string]bool, len(c.Markets))
	for _, m := range c.Markets {
		if seen[m.ID] {
			return fmt.Errorf("invalid config: duplicate market id %q", m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}

// IndexInstruments converts the index list for the collector.
func (c *Config) IndexInstruments() []model.Instrument {
	out := make([]model.Instrument, len(c.Indices))
	for i, idx := range c.Indices {
		out[i] = model.Instrument{Symbol: idx.Symbol, Name: idx.Name}
	}
	return out
}
