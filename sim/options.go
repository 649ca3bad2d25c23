package sim

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Options configure a Strategy. They are fixed once the Strategy is built.
type Options struct {
	StartAmount     decimal.Decimal
	StopLoss        decimal.Decimal // fraction of StartAmount risked per trade
	TPMulti         decimal.Decimal // take-profit as a multiple of the stop-loss budget
	TransactionSize decimal.Decimal // units bought on every entry
	Leverage        decimal.Decimal

	// MaxOpenPositions is only enforced when EnforceMaxOpen is set.
	MaxOpenPositions int
	EnforceMaxOpen   bool
}

func DefaultOptions(startAmount decimal.Decimal) Options {
	return Options{
		StartAmount:      startAmount,
		StopLoss:         decimal.RequireFromString("0.01"),
		TPMulti:          decimal.NewFromInt(2),
		TransactionSize:  decimal.NewFromInt(10),
		Leverage:         decimal.NewFromInt(1),
		MaxOpenPositions: 10,
	}
}

func (o Options) Validate() error {
	switch {
	case !o.StartAmount.IsPositive():
		return fmt.Errorf("%w: start_amount must be positive", ErrInvalidOptions)
	case !o.TransactionSize.IsPositive():
		return fmt.Errorf("%w: transaction_size must be positive", ErrInvalidOptions)
	case o.Leverage.IsNegative():
		return fmt.Errorf("%w: %w", ErrInvalidOptions, ErrInvalidLeverage)
	case o.StopLoss.IsNegative():
		return fmt.Errorf("%w: stop_loss must not be negative", ErrInvalidOptions)
	case o.TPMulti.IsNegative():
		return fmt.Errorf("%w: tpmulti must not be negative", ErrInvalidOptions)
	case o.MaxOpenPositions < 0:
		return fmt.Errorf("%w: max_open_positions must not be negative", ErrInvalidOptions)
	}
	return nil
}

// StopLossAmount is the currency budget risked on each entry.
func (o Options) StopLossAmount() decimal.Decimal {
	return o.StopLoss.Mul(o.StartAmount)
}

func (o Options) TakeProfitAmount() decimal.Decimal {
	return o.StopLossAmount().Mul(o.TPMulti)
}

// Capital is the tradable amount before any position is opened.
func (o Options) Capital() decimal.Decimal {
	return o.StartAmount.Mul(o.Leverage)
}
