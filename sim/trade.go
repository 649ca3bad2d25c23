package sim

import (
	"fmt"
	"time"

	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/pkg/id"
	"github.com/shopspring/decimal"
)

type CloseReason string

const (
	StopLoss   CloseReason = "SL"
	TakeProfit CloseReason = "TP"
)

// EntryRequest describes a position to open.
type EntryRequest struct {
	Side     market.Side
	Price    market.Price
	Quantity decimal.Decimal
	Leverage decimal.Decimal

	// Risk budgets in account currency, not per unit.
	StopLossAmount   decimal.Decimal
	TakeProfitAmount decimal.Decimal
}

// Transaction is one simulated position. The stop-loss and take-profit
// prices are fixed when it is opened, and a closed transaction is never
// modified again.
type Transaction struct {
	ID          string
	Side        market.Side
	EntryPrice  decimal.Decimal
	Quantity    decimal.Decimal
	EntryTime   time.Time
	EntryAmount decimal.Decimal
	Leverage    decimal.Decimal

	StopLossAmount   decimal.Decimal
	TakeProfitAmount decimal.Decimal
	StopLossPrice    decimal.Decimal
	TakeProfitPrice  decimal.Decimal

	// Realized
	Closed      bool
	ClosePrice  decimal.Decimal
	CloseTime   time.Time
	CloseReason CloseReason
	ClosePL     decimal.Decimal
	CloseAmount decimal.Decimal
}

func NewTransaction(req EntryRequest) (*Transaction, error) {
	if !req.Side.Valid() {
		return nil, fmt.Errorf("new transaction: %w: %q", ErrInvalidSide, req.Side)
	}
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("new transaction: %w: %s", ErrInvalidQuantity, req.Quantity)
	}
	if req.Leverage.IsNegative() {
		return nil, fmt.Errorf("new transaction: %w: %s", ErrInvalidLeverage, req.Leverage)
	}
	if req.StopLossAmount.IsNegative() || req.TakeProfitAmount.IsNegative() {
		return nil, fmt.Errorf("new transaction: %w", ErrInvalidBudget)
	}

	slDiff := req.StopLossAmount.Div(req.Quantity)
	tpDiff := req.TakeProfitAmount.Div(req.Quantity)
	entry := req.Price.Value

	t := &Transaction{
		ID:               id.NewAt(req.Price.Time),
		Side:             req.Side,
		EntryPrice:       entry,
		Quantity:         req.Quantity,
		EntryTime:        req.Price.Time,
		EntryAmount:      entry.Mul(req.Quantity),
		Leverage:         req.Leverage,
		StopLossAmount:   req.StopLossAmount,
		TakeProfitAmount: req.TakeProfitAmount,
	}
	if req.Side == market.Buy {
		t.StopLossPrice = entry.Sub(slDiff)
		t.TakeProfitPrice = entry.Add(tpDiff)
	} else {
		t.StopLossPrice = entry.Add(slDiff)
		t.TakeProfitPrice = entry.Sub(tpDiff)
	}
	return t, nil
}

func (t *Transaction) Open() bool { return !t.Closed }

// UnrealizedPL marks the position to the given price. It works on
// closed transactions too.
func (t *Transaction) UnrealizedPL(p market.Price) decimal.Decimal {
	return t.plAt(p.Value)
}

func (t *Transaction) plAt(v decimal.Decimal) decimal.Decimal {
	pl := v.Sub(t.EntryPrice).Mul(t.Quantity)
	if t.Side == market.Sell {
		return pl.Neg()
	}
	return pl
}

// CheckAndMaybeClose closes the transaction at its stop-loss or
// take-profit price when p crosses one of them. Stop-loss wins when
// both are crossed. It reports whether the transaction was closed by
// this call.
func (t *Transaction) CheckAndMaybeClose(p market.Price) bool {
	if t.Closed {
		return false
	}

	var (
		reason    CloseReason
		threshold decimal.Decimal
	)
	switch {
	case hitStopLoss(t, p.Value):
		reason, threshold = StopLoss, t.StopLossPrice
	case hitTakeProfit(t, p.Value):
		reason, threshold = TakeProfit, t.TakeProfitPrice
	default:
		return false
	}

	t.ClosePrice = threshold
	t.CloseTime = p.Time
	t.CloseReason = reason
	t.ClosePL = t.closePL(reason)
	t.CloseAmount = threshold.Mul(t.Quantity)
	t.Closed = true
	return true
}

// closePL is the P/L at the threshold price. The threshold was derived
// from the budget by a division that may round, so the budget itself is
// the exact figure.
func (t *Transaction) closePL(reason CloseReason) decimal.Decimal {
	if reason == StopLoss {
		return t.StopLossAmount.Neg()
	}
	return t.TakeProfitAmount
}
