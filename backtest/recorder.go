package backtest

import (
	"log/slog"

	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/sim"
)

// recorder forwards strategy events to a journal. Journal errors are
// held until the runner checks them after the tick.
type recorder struct {
	runID string
	j     journal.Journal
	log   *slog.Logger
	err   error
}

func (r *recorder) OnTradeOpened(t sim.Transaction) {
	r.log.Debug("trade opened",
		"run", r.runID, "trade", t.ID, "price", t.EntryPrice.String(),
		"sl", t.StopLossPrice.String(), "tp", t.TakeProfitPrice.String())
}

func (r *recorder) OnTradeClosed(t sim.Transaction) {
	r.log.Debug("trade closed",
		"run", r.runID, "trade", t.ID, "reason", string(t.CloseReason), "pl", t.ClosePL.String())
	if r.err != nil {
		return
	}
	r.err = r.j.RecordTrade(TradeRecord(r.runID, t))
}

// TradeRecord converts a closed transaction into its journal form.
func TradeRecord(runID string, t sim.Transaction) journal.TradeRecord {
	return journal.TradeRecord{
		RunID:           runID,
		TradeID:         t.ID,
		Side:            string(t.Side),
		Quantity:        t.Quantity,
		EntryPrice:      t.EntryPrice,
		ExitPrice:       t.ClosePrice,
		StopLossPrice:   t.StopLossPrice,
		TakeProfitPrice: t.TakeProfitPrice,
		OpenTime:        t.EntryTime,
		CloseTime:       t.CloseTime,
		RealizedPL:      t.ClosePL,
		Reason:          string(t.CloseReason),
	}
}
