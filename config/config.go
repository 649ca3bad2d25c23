package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/sim"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the complete backtest configuration.
type Config struct {
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Feed     FeedConfig     `json:"feed" yaml:"feed"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Report   ReportConfig   `json:"report" yaml:"report"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// StrategyConfig mirrors sim.Options.
type StrategyConfig struct {
	StartAmount      float64 `json:"start_amount" yaml:"start_amount"`
	StopLoss         float64 `json:"stop_loss" yaml:"stop_loss"` // fraction of start_amount
	TPMulti          float64 `json:"tpmulti" yaml:"tpmulti"`
	TransactionSize  float64 `json:"transaction_size" yaml:"transaction_size"`
	Leverage         float64 `json:"leverage" yaml:"leverage"`
	MaxOpenPositions int     `json:"max_open_positions" yaml:"max_open_positions"`
	EnforceMaxOpen   bool    `json:"enforce_max_open,omitempty" yaml:"enforce_max_open,omitempty"`
}

// FeedConfig names the price file and an optional [from, to) window.
type FeedConfig struct {
	Path string `json:"path" yaml:"path"`
	From string `json:"from,omitempty" yaml:"from,omitempty"` // RFC3339
	To   string `json:"to,omitempty" yaml:"to,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type         string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile   string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	BalancesFile string `json:"balances_file,omitempty" yaml:"balances_file,omitempty"`
	DBPath       string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type ReportConfig struct {
	ChartPath string `json:"chart_path,omitempty" yaml:"chart_path,omitempty"`
	OrgPath   string `json:"org_path,omitempty" yaml:"org_path,omitempty"`
}

type LogConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	JSON  bool   `json:"json,omitempty" yaml:"json,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML, with JSON as a fallback)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.StrategyOptions().Validate(); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	if _, _, err := c.Feed.Window(); err != nil {
		return err
	}
	switch c.Journal.Type {
	case "none", "":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.BalancesFile == "" {
			return fmt.Errorf("journal trades_file and balances_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// StrategyOptions converts the strategy section into engine options.
func (c *Config) StrategyOptions() sim.Options {
	s := c.Strategy
	return sim.Options{
		StartAmount:      decimal.NewFromFloat(s.StartAmount),
		StopLoss:         decimal.NewFromFloat(s.StopLoss),
		TPMulti:          decimal.NewFromFloat(s.TPMulti),
		TransactionSize:  decimal.NewFromFloat(s.TransactionSize),
		Leverage:         decimal.NewFromFloat(s.Leverage),
		MaxOpenPositions: s.MaxOpenPositions,
		EnforceMaxOpen:   s.EnforceMaxOpen,
	}
}

// Window parses From and To. Empty bounds are returned as zero times.
func (f FeedConfig) Window() (from, to time.Time, err error) {
	if f.From != "" {
		if from, err = time.Parse(time.RFC3339, f.From); err != nil {
			return from, to, fmt.Errorf("feed.from: %w", err)
		}
	}
	if f.To != "" {
		if to, err = time.Parse(time.RFC3339, f.To); err != nil {
			return from, to, fmt.Errorf("feed.to: %w", err)
		}
	}
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return from, to, fmt.Errorf("feed.to must be after feed.from")
	}
	return from, to, nil
}

// Open creates the journal described by the section.
func (j JournalConfig) Open() (journal.Journal, error) {
	switch j.Type {
	case "csv":
		return journal.NewCSV(j.TradesFile, j.BalancesFile)
	case "sqlite":
		return journal.NewSQLite(j.DBPath)
	case "none", "":
		return journal.Discard{}, nil
	}
	return nil, fmt.Errorf("unknown journal type %q", j.Type)
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Strategy: StrategyConfig{
			StartAmount:      1000,
			StopLoss:         0.01,
			TPMulti:          2,
			TransactionSize:  10,
			Leverage:         1,
			MaxOpenPositions: 10,
		},
		Feed: FeedConfig{
			Path: "./prices.csv",
		},
		Journal: JournalConfig{
			Type:         "csv",
			TradesFile:   "./trades.csv",
			BalancesFile: "./balances.csv",
		},
		Report: ReportConfig{
			ChartPath: "./balance.html",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
