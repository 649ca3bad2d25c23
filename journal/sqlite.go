package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Times are stored in UTC so range queries compare like with like.
func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, side, quantity, entry_price, exit_price, stop_loss_price, take_profit_price,
		 open_time, close_time, realized_pl, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.Side, t.Quantity, t.EntryPrice, t.ExitPrice, t.StopLossPrice,
		t.TakeProfitPrice, t.OpenTime.UTC(), t.CloseTime.UTC(), t.RealizedPL, t.Reason,
	)
	return err
}

func (j *SQLite) RecordBalance(b BalanceSnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO balances
		(run_id, time, balance, remaining_amount, open_trades, closed_trades)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.RunID, b.Time.UTC(), b.Balance, b.RemainingAmount, b.OpenTrades, b.ClosedTrades,
	)
	return err
}

// RecordRun inserts or replaces the summary row of a run.
func (j *SQLite) RecordRun(ctx context.Context, r Run) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
		(run_id, created, dataset, start_time, end_time, start_amount, stop_loss, tpmulti,
		 transaction_size, leverage, max_open_positions, ticks, trades, wins, losses,
		 wins_in_row, losses_in_row, end_balance, net_pl, return_pct, win_rate, profit_factor, max_dd_pct,
		 org_path, chart_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created.UTC(), r.Dataset, r.Start.UTC(), r.End.UTC(), r.StartAmount, r.StopLoss, r.TPMulti,
		r.TransactionSize, r.Leverage, r.MaxOpenPositions, r.Ticks, r.Trades, r.Wins, r.Losses,
		r.WinsInRow, r.LossesInRow, r.EndBalance, r.NetPL, r.ReturnPct, r.WinRate, r.ProfitFactor, r.MaxDDPct,
		r.OrgPath, r.ChartPath,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
