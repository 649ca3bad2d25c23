package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/backtester/journal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, 1000.0, cfg.Strategy.StartAmount)
	assert.Equal(t, 0.01, cfg.Strategy.StopLoss)
	assert.Equal(t, "csv", cfg.Journal.Type)
	assert.NoError(t, cfg.Validate())
}

func TestStrategyOptions(t *testing.T) {
	cfg := Default()
	cfg.Strategy.StopLoss = 0.02
	cfg.Strategy.EnforceMaxOpen = true

	opts := cfg.StrategyOptions()
	assert.True(t, opts.StartAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, opts.StopLoss.Equal(decimal.RequireFromString("0.02")))
	assert.True(t, opts.StopLossAmount().Equal(decimal.NewFromInt(20)))
	assert.True(t, opts.TakeProfitAmount().Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 10, opts.MaxOpenPositions)
	assert.True(t, opts.EnforceMaxOpen)
}

func TestValidate(t *testing.T) {
	with := func(f func(*Config)) *Config {
		c := Default()
		f(c)
		return c
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			config: Default(),
		},
		{
			name:    "empty config",
			config:  &Config{},
			wantErr: true,
			errMsg:  "start_amount must be positive",
		},
		{
			name:    "zero transaction size",
			config:  with(func(c *Config) { c.Strategy.TransactionSize = 0 }),
			wantErr: true,
			errMsg:  "transaction_size must be positive",
		},
		{
			name:    "negative leverage",
			config:  with(func(c *Config) { c.Strategy.Leverage = -1 }),
			wantErr: true,
			errMsg:  "strategy",
		},
		{
			name:    "bad from",
			config:  with(func(c *Config) { c.Feed.From = "yesterday" }),
			wantErr: true,
			errMsg:  "feed.from",
		},
		{
			name: "window backwards",
			config: with(func(c *Config) {
				c.Feed.From = "2016-01-02T00:00:00Z"
				c.Feed.To = "2016-01-01T00:00:00Z"
			}),
			wantErr: true,
			errMsg:  "feed.to must be after feed.from",
		},
		{
			name:    "csv without balances file",
			config:  with(func(c *Config) { c.Journal.BalancesFile = "" }),
			wantErr: true,
			errMsg:  "balances_file required",
		},
		{
			name:    "sqlite without path",
			config:  with(func(c *Config) { c.Journal = JournalConfig{Type: "sqlite"} }),
			wantErr: true,
			errMsg:  "db_path required",
		},
		{
			name:    "unknown journal",
			config:  with(func(c *Config) { c.Journal.Type = "mongo" }),
			wantErr: true,
			errMsg:  "journal.type",
		},
		{
			name:   "no journal",
			config: with(func(c *Config) { c.Journal = JournalConfig{Type: "none"} }),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFeedWindow(t *testing.T) {
	from, to, err := FeedConfig{}.Window()
	require.NoError(t, err)
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())

	from, to, err = FeedConfig{From: "2016-01-01T00:00:00Z", To: "2016-02-01T00:00:00Z"}.Window()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Strategy.Leverage = 2
			cfg.Feed.From = "2016-01-01T00:00:00Z"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy:\n  start_amount: -5\n"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestJournalOpen(t *testing.T) {
	dir := t.TempDir()

	j, err := JournalConfig{Type: "none"}.Open()
	require.NoError(t, err)
	assert.IsType(t, journal.Discard{}, j)

	j, err = JournalConfig{
		Type:         "csv",
		TradesFile:   filepath.Join(dir, "trades.csv"),
		BalancesFile: filepath.Join(dir, "balances.csv"),
	}.Open()
	require.NoError(t, err)
	assert.IsType(t, &journal.CSV{}, j)
	require.NoError(t, j.Close())

	j, err = JournalConfig{Type: "sqlite", DBPath: filepath.Join(dir, "bt.sqlite")}.Open()
	require.NoError(t, err)
	assert.IsType(t, &journal.SQLite{}, j)
	require.NoError(t, j.Close())

	_, err = JournalConfig{Type: "mongo"}.Open()
	assert.Error(t, err)
}
