package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 730, cfg.LookbackDays)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.False(t, cfg.LogCalls)
	assert.Equal(t, "01-02", cfg.DateDisplay)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("IRONFLOW_LOOKBACK_DAYS", "90")
	t.Setenv("IRONFLOW_LOG_LEVEL", "debug")
	t.Setenv("IRONFLOW_LOG_FORMAT", "JSON")
	t.Setenv("IRONFLOW_LOG_CALLS", "true")
	t.Setenv("IRONFLOW_DATE_DISPLAY", "2006-01-02")

	cfg := LoadConfig()

	assert.Equal(t, 90, cfg.LookbackDays)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
	assert.True(t, cfg.LogCalls)
	assert.Equal(t, "2006-01-02", cfg.DateDisplay)
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("IRONFLOW_LOOKBACK_DAYS", "-3")
	t.Setenv("IRONFLOW_LOG_LEVEL", "loud")
	t.Setenv("IRONFLOW_LOG_FORMAT", "xml")
	t.Setenv("IRONFLOW_LOG_CALLS", "maybe")

	cfg := LoadConfig()

	assert.Equal(t, DefaultConfig(), cfg)
}
