package sim

import (
	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
)

func hitStopLoss(t *Transaction, price decimal.Decimal) bool {
	if t.Side == market.Buy {
		return price.LessThanOrEqual(t.StopLossPrice)
	}
	return price.GreaterThanOrEqual(t.StopLossPrice)
}

func hitTakeProfit(t *Transaction, price decimal.Decimal) bool {
	if t.Side == market.Buy {
		return price.GreaterThanOrEqual(t.TakeProfitPrice)
	}
	return price.LessThanOrEqual(t.TakeProfitPrice)
}
