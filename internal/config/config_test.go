package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Len(t, cfg.Assets, len(DefaultAssets))
	assert.Len(t, cfg.Windows, 5)
	assert.Len(t, cfg.Macro, 4)
	assert.Equal(t, 10.0, cfg.Strategy.DeviationThresholdPct)
	assert.Equal(t, 50.0, cfg.Strategy.AllocationCeilingPct)
	assert.Equal(t, []float64{15, 10, 5}, cfg.Strategy.ArbitrageThresholdsPct)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, 30*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
assets:
  - name: World
    symbol: VT
    target: 20
  - name: Emerging
    symbol: EEM
windows:
  - label: Weekly
    size: 5
strategy:
  deviation_threshold_pct: 12
  arbitrage_thresholds_pct: [8]
cache:
  ttl: 15m
`)
	t.Setenv("DEVIATION_THRESHOLD", "7.5")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 7.5, cfg.Strategy.DeviationThresholdPct)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.TelegramEnabled())

	p := cfg.Params()
	assert.InDelta(t, 0.075, p.Threshold, 1e-12)
	assert.Equal(t, 50.0, p.Ceiling)
	assert.Equal(t, []float64{8}, p.ArbitrageThresholds)
	assert.Equal(t, map[string]float64{"World": 20}, p.Targets)
	require.Len(t, p.Windows, 1)
	assert.Equal(t, "Weekly", p.Windows[0].Label)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"duplicate asset", "assets:\n  - {name: A, symbol: X}\n  - {name: A, symbol: Y}\n"},
		{"duplicate window", "windows:\n  - {label: W, size: 5}\n  - {label: W, size: 6}\n"},
		{"zero window", "windows:\n  - {label: W, size: 0}\n"},
		{"missing symbol", "assets:\n  - {name: A}\n"},
		{"bad provider", "data_source:\n  provider: bloomberg\n"},
		{"ceiling too large", "strategy:\n  allocation_ceiling_pct: 150\n"},
		{"half telegram", "telegram:\n  bot_token: abc\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.body))
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "assets: [unterminated"))
	assert.Error(t, err)
}
