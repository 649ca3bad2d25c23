package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var (
	tradesHeader   = []string{"run_id", "trade_id", "side", "quantity", "entry_price", "exit_price", "stop_loss_price", "take_profit_price", "open_time", "close_time", "realized_pl", "reason"}
	balancesHeader = []string{"run_id", "time", "balance", "remaining_amount", "open_trades", "closed_trades"}
)

type CSV struct {
	trades   *csv.Writer
	balances *csv.Writer
	tf, bf   *os.File
}

func NewCSV(tradesPath, balancesPath string) (*CSV, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	bf, err := os.Create(balancesPath)
	if err != nil {
		_ = tf.Close()
		return nil, err
	}

	j := &CSV{trades: csv.NewWriter(tf), balances: csv.NewWriter(bf), tf: tf, bf: bf}
	if err := j.write(j.trades, tradesHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	if err := j.write(j.balances, balancesHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSV) write(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSV) RecordTrade(t TradeRecord) error {
	return j.write(j.trades, []string{
		t.RunID,
		t.TradeID,
		t.Side,
		f(t.Quantity),
		f(t.EntryPrice),
		f(t.ExitPrice),
		f(t.StopLossPrice),
		f(t.TakeProfitPrice),
		ts(t.OpenTime),
		ts(t.CloseTime),
		f(t.RealizedPL),
		t.Reason,
	})
}

func (j *CSV) RecordBalance(b BalanceSnapshot) error {
	return j.write(j.balances, []string{
		b.RunID,
		ts(b.Time),
		f(b.Balance),
		f(b.RemainingAmount),
		strconv.Itoa(b.OpenTrades),
		strconv.Itoa(b.ClosedTrades),
	})
}

func (j *CSV) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.balances.Flush()
	if err := j.balances.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.bf.Close()
}

// Values are written in full; the CSV journal must not round.
func f(d decimal.Decimal) string {
	return d.String()
}

func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
