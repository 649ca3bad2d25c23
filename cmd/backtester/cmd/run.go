package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/feed"
	"github.com/rustyeddy/backtester/internal/logger"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/report"
	"github.com/rustyeddy/backtester/sim"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type runOptions struct {
	configPath   string
	skipRejected bool
}

func newRunCmd(ro *rootOptions) *cobra.Command {
	o := &runOptions{}
	cfg := config.Default()

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a backtest over a CSV price file",
		Long: `Run streams every price in the feed through the fixed-rule strategy,
journals closed trades and per-tick balances, and prints a summary.

Flags override values loaded with --config.

Example:
  backtester run -p data/prices.csv --stop-loss 0.02 --journal sqlite --db bt.sqlite --chart balance.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.configPath != "" {
				loaded, err := config.LoadFromFile(o.configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				overrideFlags(cmd.Flags(), cfg, loaded)
				cfg = loaded
				if !cmd.Flags().Changed("log-level") && cfg.Log.Level != "" {
					logger.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.JSON || ro.logJSON)
				}
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid options: %w", err)
			}
			return runBacktest(cmd, cfg, o)
		},
	}

	f := runCmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "", "config file (YAML or JSON)")
	f.StringVarP(&cfg.Feed.Path, "prices", "p", cfg.Feed.Path, "price CSV (time,value or time,instrument,bid,ask)")
	f.StringVar(&cfg.Feed.From, "from", "", "skip prices before this RFC3339 time")
	f.StringVar(&cfg.Feed.To, "to", "", "skip prices at or after this RFC3339 time")

	f.Float64Var(&cfg.Strategy.StartAmount, "start", cfg.Strategy.StartAmount, "starting amount")
	f.Float64Var(&cfg.Strategy.StopLoss, "stop-loss", cfg.Strategy.StopLoss, "stop-loss budget as a fraction of the start amount")
	f.Float64Var(&cfg.Strategy.TPMulti, "tpmulti", cfg.Strategy.TPMulti, "take-profit budget as a multiple of the stop-loss budget")
	f.Float64Var(&cfg.Strategy.TransactionSize, "size", cfg.Strategy.TransactionSize, "quantity bought per entry")
	f.Float64Var(&cfg.Strategy.Leverage, "leverage", cfg.Strategy.Leverage, "leverage applied to the start amount")
	f.IntVar(&cfg.Strategy.MaxOpenPositions, "max-open", cfg.Strategy.MaxOpenPositions, "maximum open positions")
	f.BoolVar(&cfg.Strategy.EnforceMaxOpen, "enforce-max-open", false, "refuse entries once max-open positions are open")

	f.StringVar(&cfg.Journal.Type, "journal", cfg.Journal.Type, "journal type (csv, sqlite, none)")
	f.StringVar(&cfg.Journal.TradesFile, "trades", cfg.Journal.TradesFile, "csv journal: trades file")
	f.StringVar(&cfg.Journal.BalancesFile, "balances", cfg.Journal.BalancesFile, "csv journal: balances file")
	f.StringVarP(&cfg.Journal.DBPath, "db", "d", "./backtest.sqlite", "sqlite journal: database path")

	f.StringVar(&cfg.Report.ChartPath, "chart", "", "write the balance chart (HTML) here")
	f.StringVar(&cfg.Report.OrgPath, "org", "", "write an Org-mode run summary here")
	f.BoolVar(&o.skipRejected, "skip-rejected", false, "skip prices with a missing or backwards time instead of failing")

	return runCmd
}

// overrideFlags copies every explicitly set flag from flagged into loaded.
func overrideFlags(fs *pflag.FlagSet, flagged, loaded *config.Config) {
	set := map[string]func(){
		"prices":           func() { loaded.Feed.Path = flagged.Feed.Path },
		"from":             func() { loaded.Feed.From = flagged.Feed.From },
		"to":               func() { loaded.Feed.To = flagged.Feed.To },
		"start":            func() { loaded.Strategy.StartAmount = flagged.Strategy.StartAmount },
		"stop-loss":        func() { loaded.Strategy.StopLoss = flagged.Strategy.StopLoss },
		"tpmulti":          func() { loaded.Strategy.TPMulti = flagged.Strategy.TPMulti },
		"size":             func() { loaded.Strategy.TransactionSize = flagged.Strategy.TransactionSize },
		"leverage":         func() { loaded.Strategy.Leverage = flagged.Strategy.Leverage },
		"max-open":         func() { loaded.Strategy.MaxOpenPositions = flagged.Strategy.MaxOpenPositions },
		"enforce-max-open": func() { loaded.Strategy.EnforceMaxOpen = flagged.Strategy.EnforceMaxOpen },
		"journal":          func() { loaded.Journal.Type = flagged.Journal.Type },
		"trades":           func() { loaded.Journal.TradesFile = flagged.Journal.TradesFile },
		"balances":         func() { loaded.Journal.BalancesFile = flagged.Journal.BalancesFile },
		"db":               func() { loaded.Journal.DBPath = flagged.Journal.DBPath },
		"chart":            func() { loaded.Report.ChartPath = flagged.Report.ChartPath },
		"org":              func() { loaded.Report.OrgPath = flagged.Report.OrgPath },
	}
	fs.Visit(func(fl *pflag.Flag) {
		if apply, ok := set[fl.Name]; ok {
			apply()
		}
	})
}

func runBacktest(cmd *cobra.Command, cfg *config.Config, o *runOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.L()

	from, to, err := cfg.Feed.Window()
	if err != nil {
		return err
	}
	src, err := feed.OpenCSV(cfg.Feed.Path, from, to)
	if err != nil {
		return fmt.Errorf("open prices: %w", err)
	}
	defer src.Close()

	strat, err := sim.NewStrategy(cfg.StrategyOptions())
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	j, err := cfg.Journal.Open()
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	runner := &backtest.Runner{
		Strategy: strat,
		Feed:     src,
		Journal:  j,
		Options:  backtest.RunnerOptions{SkipRejected: o.skipRejected},
		Logger:   log,
	}
	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	run := res.Run(cfg.Feed.Path, time.Now().UTC())
	run.ChartPath = cfg.Report.ChartPath
	run.OrgPath = cfg.Report.OrgPath

	if db, ok := j.(*journal.SQLite); ok {
		if err := db.RecordRun(ctx, run); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}
	if run.ChartPath != "" {
		title := fmt.Sprintf("Backtest %s", res.RunID)
		if err := report.WriteBalanceChartFile(run.ChartPath, title, strat.Balances(), strat.Trades()); err != nil {
			return err
		}
		log.Info("chart written", "path", run.ChartPath)
	}
	if run.OrgPath != "" {
		if err := journal.WriteRunOrg(run); err != nil {
			return fmt.Errorf("write org: %w", err)
		}
		log.Info("org summary written", "path", run.OrgPath)
	}

	backtest.PrintResult(cmd.OutOrStdout(), res)
	return nil
}
