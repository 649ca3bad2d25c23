package backtest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/backtester/feed"
	"github.com/rustyeddy/backtester/internal/logger"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/pkg/id"
	"github.com/rustyeddy/backtester/sim"
)

// RunnerOptions controls how the runner treats the feed.
type RunnerOptions struct {
	// SkipRejected drops prices the strategy rejects (missing time or
	// time going backwards) instead of stopping the run.
	SkipRejected bool
}

// Runner streams a feed into a strategy and journals the outcome.
type Runner struct {
	Strategy *sim.Strategy
	Feed     feed.Source
	Journal  journal.Journal // optional
	RunID    string          // generated when empty
	Options  RunnerOptions
	Logger   *slog.Logger // defaults to the shared logger
}

// Run executes the backtest loop:
//  1. read the next price
//  2. strategy.StreamPrice(price)
//  3. journal closed trades and the new balance
//
// The runner installs itself as the strategy's trade listener.
// Cancelling ctx stops the run between ticks.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Strategy == nil {
		return Result{}, fmt.Errorf("backtest: Strategy is required")
	}
	if r.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	if r.RunID == "" {
		r.RunID = id.New()
	}
	j := r.Journal
	if j == nil {
		j = journal.Discard{}
	}
	log := r.Logger
	if log == nil {
		log = logger.L()
	}

	rec := &recorder{runID: r.RunID, j: j, log: log}
	r.Strategy.SetTradeListener(rec)

	var (
		start, end time.Time
		rejected   int
	)
	log.Info("backtest started", "run", r.RunID)

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		p, ok, err := r.Feed.Next()
		if err != nil {
			return Result{}, fmt.Errorf("backtest: feed: %w", err)
		}
		if !ok {
			break
		}

		if err := r.Strategy.StreamPrice(p); err != nil {
			if r.Options.SkipRejected && rejectedPrice(err) {
				rejected++
				log.Warn("price rejected", "run", r.RunID, "price", p.String(), "err", err)
				continue
			}
			return Result{}, fmt.Errorf("backtest: %w", err)
		}
		if rec.err != nil {
			return Result{}, fmt.Errorf("backtest: record trade: %w", rec.err)
		}

		if start.IsZero() {
			start = p.Time
		}
		end = p.Time

		if err := j.RecordBalance(r.snapshot()); err != nil {
			return Result{}, fmt.Errorf("backtest: record balance: %w", err)
		}
	}

	res := Summarize(r.Strategy)
	res.RunID = r.RunID
	res.Start = start
	res.End = end
	res.Rejected = rejected

	log.Info("backtest finished",
		"run", r.RunID, "ticks", res.Ticks, "trades", res.Stats.TradesCount,
		"balance", res.EndBalance.String(), "rejected", rejected)
	return res, nil
}

func (r *Runner) snapshot() journal.BalanceSnapshot {
	last, _ := r.Strategy.LastBalance()
	st := r.Strategy.Status()
	return journal.BalanceSnapshot{
		RunID:           r.RunID,
		Time:            last.Time,
		Balance:         last.Value,
		RemainingAmount: st.RemainingAmount,
		OpenTrades:      st.OpenTradesCount,
		ClosedTrades:    st.ClosedTradesCount,
	}
}

func rejectedPrice(err error) bool {
	return errors.Is(err, sim.ErrInvalidPrice) || errors.Is(err, sim.ErrNonMonotonic)
}
