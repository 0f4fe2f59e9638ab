package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alexanderramin/ironflow/internal/calendar"
)

// LogFormat selects the slog handler used for use-case events.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Config holds runtime settings for the ironflow CLI.
type Config struct {
	LookbackDays int
	LogLevel     slog.Level
	LogFormat    LogFormat
	LogCalls     bool
	// DateDisplay is the Go time layout used for dates in result tables.
	DateDisplay string
}

// DefaultConfig returns a Config with sensible defaults.
// Use-case logging is disabled by default.
func DefaultConfig() Config {
	return Config{
		LookbackDays: calendar.DefaultLookbackDays,
		LogLevel:     slog.LevelInfo,
		LogFormat:    LogFormatText,
		LogCalls:     false,
		DateDisplay:  "01-02",
	}
}

// LoadConfig reads configuration from environment variables,
// falling back to defaults for any unset or invalid values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("IRONFLOW_LOOKBACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LookbackDays = n
		}
	}
	if v := os.Getenv("IRONFLOW_LOG_LEVEL"); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			cfg.LogLevel = lvl
		}
	}
	if v := os.Getenv("IRONFLOW_LOG_FORMAT"); v != "" {
		switch LogFormat(strings.ToLower(v)) {
		case LogFormatText:
			cfg.LogFormat = LogFormatText
		case LogFormatJSON:
			cfg.LogFormat = LogFormatJSON
		}
	}
	if v := os.Getenv("IRONFLOW_LOG_CALLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogCalls = b
		}
	}
	if v := os.Getenv("IRONFLOW_DATE_DISPLAY"); v != "" {
		cfg.DateDisplay = v
	}

	return cfg
}

// NewLogger builds a slog.Logger writing to stderr per the config.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
