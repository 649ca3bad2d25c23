package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/sim"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Result is the summary of a backtest run.
type Result struct {
	RunID string

	Start    time.Time
	End      time.Time
	Ticks    int
	Rejected int

	Options sim.Options
	Status  sim.Status
	Stats   sim.Stats

	EndBalance decimal.Decimal
	NetPL      decimal.Decimal

	ReturnPct    float64
	WinRate      float64
	ProfitFactor float64 // zero when there are no losing trades
	MaxDDPct     float64
}

// Summarize derives the performance figures of a strategy from its
// book and balance history.
func Summarize(s *sim.Strategy) Result {
	opts := s.Options()
	res := Result{
		Ticks:      s.Ticks(),
		Options:    opts,
		Status:     s.Status(),
		Stats:      s.Stats(),
		EndBalance: opts.StartAmount,
	}
	if last, ok := s.LastBalance(); ok {
		res.EndBalance = last.Value
	}
	res.NetPL = res.EndBalance.Sub(opts.StartAmount)
	res.ReturnPct = res.NetPL.Div(opts.StartAmount).Mul(hundred).InexactFloat64()

	if decided := res.Stats.PositiveCount + res.Stats.NegativeCount; decided > 0 {
		res.WinRate = float64(res.Stats.PositiveCount) / float64(decided) * 100
	}

	grossProfit, grossLoss := decimal.Zero, decimal.Zero
	for _, t := range s.Trades() {
		if !t.Closed {
			continue
		}
		if t.ClosePL.IsPositive() {
			grossProfit = grossProfit.Add(t.ClosePL)
		} else {
			grossLoss = grossLoss.Add(t.ClosePL.Abs())
		}
	}
	if grossLoss.IsPositive() {
		res.ProfitFactor = grossProfit.Div(grossLoss).InexactFloat64()
	}

	res.MaxDDPct = maxDrawdownPct(opts.StartAmount, s.Balances())
	return res
}

// maxDrawdownPct is the largest fall from a running peak, as a
// percentage of that peak. The peak starts at the starting amount.
func maxDrawdownPct(start decimal.Decimal, balances []sim.Balance) float64 {
	peak := start
	worst := decimal.Zero
	for _, b := range balances {
		if b.Value.GreaterThan(peak) {
			peak = b.Value
			continue
		}
		if !peak.IsPositive() {
			continue
		}
		dd := peak.Sub(b.Value).Div(peak)
		if dd.GreaterThan(worst) {
			worst = dd
		}
	}
	return worst.Mul(hundred).InexactFloat64()
}

// Run converts the result into the journal's summary row.
func (r Result) Run(dataset string, created time.Time) journal.Run {
	return journal.Run{
		RunID:            r.RunID,
		Created:          created,
		Dataset:          dataset,
		Start:            r.Start,
		End:              r.End,
		StartAmount:      r.Options.StartAmount,
		StopLoss:         r.Options.StopLoss,
		TPMulti:          r.Options.TPMulti,
		TransactionSize:  r.Options.TransactionSize,
		Leverage:         r.Options.Leverage,
		MaxOpenPositions: r.Options.MaxOpenPositions,
		Ticks:            r.Ticks,
		Trades:           r.Stats.TradesCount,
		Wins:             r.Stats.PositiveCount,
		Losses:           r.Stats.NegativeCount,
		WinsInRow:        r.Stats.PositiveMaxInRow,
		LossesInRow:      r.Stats.NegativeMaxInRow,
		EndBalance:       r.EndBalance,
		NetPL:            r.NetPL,
		ReturnPct:        r.ReturnPct,
		WinRate:          r.WinRate,
		ProfitFactor:     r.ProfitFactor,
		MaxDDPct:         r.MaxDDPct,
	}
}

func PrintResult(w io.Writer, r Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.RFC3339))
	fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.RFC3339))
	fmt.Fprintf(w, "Ticks:         %d\n", r.Ticks)
	if r.Rejected > 0 {
		fmt.Fprintf(w, "Rejected:      %d\n", r.Rejected)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Strategy Configuration")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Amount:  %s\n", r.Options.StartAmount.StringFixed(2))
	fmt.Fprintf(w, "Stop Loss:     %s%%\n", r.Options.StopLoss.Mul(hundred).StringFixed(2))
	fmt.Fprintf(w, "TP Multiple:   %s\n", r.Options.TPMulti)
	fmt.Fprintf(w, "Trade Size:    %s\n", r.Options.TransactionSize)
	fmt.Fprintf(w, "Leverage:      %s\n", r.Options.Leverage)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d (%d open, %d closed)\n", r.Stats.TradesCount, r.Status.OpenTradesCount, r.Status.ClosedTradesCount)
	fmt.Fprintf(w, "Wins:          %d (max %d in a row)\n", r.Stats.PositiveCount, r.Stats.PositiveMaxInRow)
	fmt.Fprintf(w, "Losses:        %d (max %d in a row)\n", r.Stats.NegativeCount, r.Stats.NegativeMaxInRow)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", r.WinRate)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "End Balance:   %s\n", r.EndBalance.StringFixed(2))
	fmt.Fprintf(w, "Highest:       %s\n", r.Stats.BalanceHighest.StringFixed(2))
	fmt.Fprintf(w, "Lowest:        %s\n", r.Stats.BalanceLowest.StringFixed(2))
	fmt.Fprintf(w, "Remaining:     %s\n", r.Status.RemainingAmount.StringFixed(2))
	fmt.Fprintf(w, "Net P/L:       %s\n", r.NetPL.StringFixed(2))
	fmt.Fprintf(w, "Return:        %.2f%%\n", r.ReturnPct)

	if r.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", r.ProfitFactor)
	}
	if r.MaxDDPct > 0 {
		fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", r.MaxDDPct)
	}

	fmt.Fprintln(w)
}
