package sim

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the portfolio value recorded after one tick.
type Balance struct {
	Time  time.Time
	Value decimal.Decimal
}

type Status struct {
	RemainingAmount   decimal.Decimal
	OpenTradesCount   int
	ClosedTradesCount int
}

type Stats struct {
	TradesCount      int
	PositiveCount    int
	NegativeCount    int
	BalanceHighest   decimal.Decimal
	BalanceLowest    decimal.Decimal
	LastBalance      decimal.Decimal
	PositiveMaxInRow int
	NegativeMaxInRow int
}

func computeStatus(opts Options, book []*Transaction) Status {
	st := Status{RemainingAmount: opts.Capital()}
	for _, t := range book {
		if t.Closed {
			st.RemainingAmount = st.RemainingAmount.Add(t.ClosePL)
			st.ClosedTradesCount++
			continue
		}
		st.RemainingAmount = st.RemainingAmount.Sub(t.EntryAmount)
		st.OpenTradesCount++
	}
	return st
}

// computeStats rescans the whole book. A closed trade with zero P/L is
// skipped by the run counters: it neither extends nor breaks a run.
func computeStats(book []*Transaction, balances []Balance) Stats {
	s := Stats{TradesCount: len(book)}

	var posRun, negRun int
	for _, t := range book {
		if !t.Closed {
			continue
		}
		switch t.ClosePL.Sign() {
		case 1:
			s.PositiveCount++
			posRun++
			negRun = 0
		case -1:
			s.NegativeCount++
			negRun++
			posRun = 0
		default:
			continue
		}
		s.PositiveMaxInRow = max(s.PositiveMaxInRow, posRun)
		s.NegativeMaxInRow = max(s.NegativeMaxInRow, negRun)
	}

	if len(balances) == 0 {
		return s
	}
	s.BalanceHighest = balances[0].Value
	s.BalanceLowest = balances[0].Value
	for _, b := range balances[1:] {
		if b.Value.GreaterThan(s.BalanceHighest) {
			s.BalanceHighest = b.Value
		}
		if b.Value.LessThan(s.BalanceLowest) {
			s.BalanceLowest = b.Value
		}
	}
	s.LastBalance = balances[len(balances)-1].Value
	return s
}
