// Package config reads run defaults from the environment. Command-line flags
// override every value loaded here.
package config

import (
	"time"

	"github.com/pfrederiksen/nba-rank/internal/logger"
	"github.com/pfrederiksen/nba-rank/internal/scraper"
	"github.com/pfrederiksen/nba-rank/internal/storage"
)

const (
	envURL      = "NBA_RANK_URL"
	envDataDir  = "NBA_RANK_DATA_DIR"
	envStore    = "NBA_RANK_STORE"
	envTimeout  = "NBA_RANK_TIMEOUT"
	envRetries  = "NBA_RANK_RETRIES"
	envInterval = "NBA_RANK_INTERVAL"
	envLayout   = "NBA_RANK_LAYOUT"
	envLogLevel = "NBA_RANK_LOG_LEVEL"

	defaultURL      = scraper.LeagueStatsURL
	defaultDataDir  = storage.DefaultDataDir
	defaultStore    = string(storage.KindJSON)
	defaultLogLevel = logger.LevelWarn
)

// Config holds the defaults for one run.
type Config struct {
	URL     string
	DataDir string
	Store   string
	// Layout is an optional page layout file; empty uses the built-in layout.
	Layout string
	// LogLevel applies when --verbose is not set.
	LogLevel logger.Level

	// zero disables timeouts, retries and request spacing
	Timeout  time.Duration
	Retries  int
	Interval time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		URL:      envOrDefault(envURL, defaultURL),
		DataDir:  envOrDefault(envDataDir, defaultDataDir),
		Store:    envOrDefault(envStore, defaultStore),
		Layout:   envOrDefault(envLayout, ""),
		LogLevel: levelEnvOrDefault(envLogLevel, defaultLogLevel),
		Timeout:  durationEnvOrDefault(envTimeout, 0),
		Retries:  intEnvOrDefault(envRetries, 0),
		Interval: durationEnvOrDefault(envInterval, 0),
	}
}
