package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is a closed transaction as written to a journal.
type TradeRecord struct {
	RunID           string
	TradeID         string
	Side            string
	Quantity        decimal.Decimal
	EntryPrice      decimal.Decimal
	ExitPrice       decimal.Decimal
	StopLossPrice   decimal.Decimal
	TakeProfitPrice decimal.Decimal
	OpenTime        time.Time
	CloseTime       time.Time
	RealizedPL      decimal.Decimal
	Reason          string
}

// BalanceSnapshot is the portfolio state after one tick.
type BalanceSnapshot struct {
	RunID           string
	Time            time.Time
	Balance         decimal.Decimal
	RemainingAmount decimal.Decimal
	OpenTrades      int
	ClosedTrades    int
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordBalance(BalanceSnapshot) error
	Close() error
}

// Discard is a Journal that drops everything.
type Discard struct{}

func (Discard) RecordTrade(TradeRecord) error       { return nil }
func (Discard) RecordBalance(BalanceSnapshot) error { return nil }
func (Discard) Close() error                        { return nil }
