package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

var (
	openT  = time.Date(2015, 12, 31, 12, 0, 0, 0, time.UTC)
	closeT = time.Date(2015, 12, 31, 13, 0, 0, 0, time.UTC)
)

func sampleTrade(runID, tradeID string) TradeRecord {
	return TradeRecord{
		RunID:           runID,
		TradeID:         tradeID,
		Side:            "BUY",
		Quantity:        d("10"),
		EntryPrice:      d("10"),
		ExitPrice:       d("14"),
		StopLossPrice:   d("8"),
		TakeProfitPrice: d("14"),
		OpenTime:        openT,
		CloseTime:       closeT,
		RealizedPL:      d("40"),
		Reason:          "TP",
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table'`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["runs"])
	assert.True(t, found["trades"])
	assert.True(t, found["balances"])
}

func TestSQLiteRecordTradeKeepsDecimals(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	rec := sampleTrade("R1", "T1")
	rec.EntryPrice = d("1.123456789012")
	require.NoError(t, j.RecordTrade(rec))

	got, err := j.GetTrade("T1")
	require.NoError(t, err)
	assert.Equal(t, "1.123456789012", got.EntryPrice.String())
	assert.True(t, got.RealizedPL.Equal(d("40")))
	assert.True(t, got.OpenTime.Equal(openT))
	assert.True(t, got.CloseTime.Equal(closeT))
	assert.Equal(t, "TP", got.Reason)
	assert.Equal(t, "R1", got.RunID)
}

func TestSQLiteDuplicateTradeID(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	require.NoError(t, j.RecordTrade(sampleTrade("R1", "T1")))
	assert.Error(t, j.RecordTrade(sampleTrade("R1", "T1")))
}

func TestSQLiteBalancesInTickOrder(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	values := []string{"1000", "1020", "1060"}
	for i, v := range values {
		require.NoError(t, j.RecordBalance(BalanceSnapshot{
			RunID:           "R1",
			Time:            openT.Add(time.Duration(i) * 30 * time.Minute),
			Balance:         d(v),
			RemainingAmount: d("780"),
			OpenTrades:      i + 1,
		}))
	}
	require.NoError(t, j.RecordBalance(BalanceSnapshot{RunID: "R2", Time: openT, Balance: d("5")}))

	got, err := j.ListBalancesByRunID(context.Background(), "R1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, v := range values {
		assert.True(t, got[i].Balance.Equal(d(v)), "row %d", i)
		assert.Equal(t, i+1, got[i].OpenTrades)
	}
}

func TestSQLiteRecordRun(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	run := Run{
		RunID:            "R1",
		Created:          closeT,
		Dataset:          "prices.csv",
		Start:            openT,
		End:              closeT,
		StartAmount:      d("1000"),
		StopLoss:         d("0.02"),
		TPMulti:          d("2"),
		TransactionSize:  d("10"),
		Leverage:         d("1"),
		MaxOpenPositions: 10,
		Ticks:            3,
		Trades:           3,
		Wins:             1,
		WinsInRow:        1,
		EndBalance:       d("1060"),
		NetPL:            d("60"),
		ReturnPct:        6,
		WinRate:          100,
		OrgPath:          "runs/R1.org",
		ChartPath:        "runs/R1.html",
	}
	require.NoError(t, j.RecordRun(ctx, run))

	got, err := j.GetRun(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, "prices.csv", got.Dataset)
	assert.True(t, got.EndBalance.Equal(d("1060")))
	assert.True(t, got.StopLoss.Equal(d("0.02")))
	assert.Equal(t, 3, got.Ticks)
	assert.Equal(t, 10, got.MaxOpenPositions)
	assert.InDelta(t, 6.0, got.ReturnPct, 1e-9)
	assert.Equal(t, "runs/R1.org", got.OrgPath)
	assert.Equal(t, "runs/R1.html", got.ChartPath)

	// Recording again replaces the row.
	run.Ticks = 4
	require.NoError(t, j.RecordRun(ctx, run))
	runs, err := j.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 4, runs[0].Ticks)
}

func TestSQLiteGetRunNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.GetRun(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
