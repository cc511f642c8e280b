// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() builds a Config with defaults; Load layers file and env on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Defaults for the SingStat live-births table (M810051).
const (
	DefaultStatsURL       = "http://tablebuilder.singstat.gov.sg/api/table/tabledata/M810051"
	DefaultStatsReferer   = "https://tablebuilder.singstat.gov.sg/table/TS/M810051"
	DefaultStatsUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultStatsTimeoutMS = 10_000
	defaultMaxBatchSize   = 1000
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StatsURL is the birth statistics table endpoint.
	StatsURL string `koanf:"stats_url"`

	// StatsReferer and StatsUserAgent are sent with every statistics request;
	// the upstream rejects requests without them.
	StatsReferer   string `koanf:"stats_referer"`
	StatsUserAgent string `koanf:"stats_user_agent"`

	// StatsTimeoutMS bounds a single statistics fetch.
	StatsTimeoutMS int `koanf:"stats_timeout_ms"`

	// BatchWorkers caps concurrent checks in a batch validation.
	BatchWorkers int `koanf:"batch_workers"`

	// MaxBatchSize caps the identifiers accepted by POST /validate.
	MaxBatchSize int `koanf:"max_batch_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		StatsURL:       DefaultStatsURL,
		StatsReferer:   DefaultStatsReferer,
		StatsUserAgent: DefaultStatsUserAgent,
		StatsTimeoutMS: defaultStatsTimeoutMS,
		BatchWorkers:   runtime.NumCPU(),
		MaxBatchSize:   defaultMaxBatchSize,
	}
}

// StatsTimeout returns StatsTimeoutMS as a duration.
func (c *Config) StatsTimeout() time.Duration {
	return time.Duration(c.StatsTimeoutMS) * time.Millisecond
}

// Validate checks that required fields are set and sizes are positive.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StatsURL == "":
		return fmt.Errorf("%w: stats_url must not be empty", ErrInvalidConfig)
	case c.StatsTimeoutMS <= 0:
		return fmt.Errorf("%w: stats_timeout_ms must be positive", ErrInvalidConfig)
	case c.BatchWorkers <= 0:
		return fmt.Errorf("%w: batch_workers must be positive", ErrInvalidConfig)
	case c.MaxBatchSize <= 0:
		return fmt.Errorf("%w: max_batch_size must be positive", ErrInvalidConfig)
	}
	return nil
}
