// Package config contains everything related to configuration
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/j-veylop/artist-engagement/internal/chart"
	"github.com/j-veylop/artist-engagement/internal/engagement"
	"github.com/j-veylop/artist-engagement/internal/models"
)

// Source selects where hourly aggregates are computed.
type Source string

// Aggregation sources.
const (
	// SourceCore loads raw events and aggregates them in Go.
	SourceCore Source = "core"
	// SourceSQL localizes and groups events inside SQLite.
	SourceSQL Source = "sql"
)

// ParseSource parses "core" or "sql". Empty input selects SourceCore.
func ParseSource(s string) (Source, error) {
	switch s {
	case "", string(SourceCore):
		return SourceCore, nil
	case string(SourceSQL):
		return SourceSQL, nil
	default:
		return SourceCore, fmt.Errorf("unknown aggregation source %q", s)
	}
}

// Config holds the application configuration.
type Config struct {
	ReportDate        time.Time
	Tables            *Tables
	DatabasePath      string
	TablesPath        string
	MetricsTextfile   string
	AggregationSource Source
	ViewMode          models.ViewMode
	TimeRange         models.TimeRange
	ChartMode         chart.Mode
	DateBasis         engagement.DateBasis
	LogLevel          slog.Level
	WatchDebounce     time.Duration
	WatchMinInterval  time.Duration
	NotifyOnFailure   bool
}

// Default values
const (
	defaultWatchDebounce    = 500 * time.Millisecond
	defaultWatchMinInterval = 5 * time.Second
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DatabasePath:     getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		TablesPath:       getEnvString("TABLES_PATH", ""),
		MetricsTextfile:  getEnvString("METRICS_TEXTFILE", ""),
		WatchDebounce:    getEnvDuration("WATCH_DEBOUNCE", defaultWatchDebounce),
		WatchMinInterval: getEnvDuration("WATCH_MIN_INTERVAL", defaultWatchMinInterval),
		NotifyOnFailure:  getEnvBool("NOTIFY_ON_FAILURE", false),
	}

	var err error
	if cfg.ViewMode, err = models.ParseViewMode(os.Getenv("VIEW_MODE")); err != nil {
		return nil, fmt.Errorf("VIEW_MODE: %w", err)
	}
	if cfg.TimeRange, err = models.ParseTimeRange(os.Getenv("TIME_RANGE")); err != nil {
		return nil, fmt.Errorf("TIME_RANGE: %w", err)
	}
	if cfg.ReportDate, err = models.ParseDate(os.Getenv("REPORT_DATE"), time.Now()); err != nil {
		return nil, fmt.Errorf("REPORT_DATE: %w", err)
	}
	if cfg.ChartMode, err = chart.ParseMode(os.Getenv("CHART_MODE")); err != nil {
		return nil, fmt.Errorf("CHART_MODE: %w", err)
	}
	if cfg.AggregationSource, err = ParseSource(os.Getenv("AGGREGATION_SOURCE")); err != nil {
		return nil, fmt.Errorf("AGGREGATION_SOURCE: %w", err)
	}
	if cfg.DateBasis, err = engagement.ParseDateBasis(os.Getenv("DATE_BASIS")); err != nil {
		return nil, fmt.Errorf("DATE_BASIS: %w", err)
	}
	if cfg.LogLevel, err = parseLogLevel(os.Getenv("LOG_LEVEL")); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if cfg.TablesPath != "" {
		if cfg.Tables, err = LoadTables(cfg.TablesPath); err != nil {
			return nil, err
		}
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "aeng", ".env"),
			filepath.Join(home, ".aeng", ".env"),
		)
	}

	// Parent directory (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(cwd), ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "engagement.db"
	}
	return filepath.Join(home, ".config", "aeng", "engagement.db")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func parseLogLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
