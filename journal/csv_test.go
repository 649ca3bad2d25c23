package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()

	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	return rows
}

func newTestCSV(t *testing.T) (*CSV, string, string) {
	t.Helper()
	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	balancesPath := filepath.Join(dir, "balances.csv")

	j, err := NewCSV(tradesPath, balancesPath)
	require.NoError(t, err)
	return j, tradesPath, balancesPath
}

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	j, tradesPath, balancesPath := newTestCSV(t)
	require.NoError(t, j.Close())

	assert.Equal(t, [][]string{tradesHeader}, readCSV(t, tradesPath))
	assert.Equal(t, [][]string{balancesHeader}, readCSV(t, balancesPath))
}

func TestCSVJournalRecordTrade(t *testing.T) {
	t.Parallel()

	j, tradesPath, _ := newTestCSV(t)

	open := time.Date(2015, 12, 31, 12, 0, 0, 0, time.UTC)
	closeT := time.Date(2015, 12, 31, 13, 0, 0, 0, time.UTC)

	err := j.RecordTrade(TradeRecord{
		RunID:           "R1",
		TradeID:         "T1",
		Side:            "BUY",
		Quantity:        d("10"),
		EntryPrice:      d("10"),
		ExitPrice:       d("14"),
		StopLossPrice:   d("8"),
		TakeProfitPrice: d("14"),
		OpenTime:        open,
		CloseTime:       closeT,
		RealizedPL:      d("40"),
		Reason:          "TP",
	})
	require.NoError(t, err)
	require.NoError(t, j.Close())

	rows := readCSV(t, tradesPath)
	require.Len(t, rows, 2)
	want := []string{
		"R1", "T1", "BUY",
		"10", "10", "14", "8", "14",
		"2015-12-31T12:00:00Z", "2015-12-31T13:00:00Z",
		"40", "TP",
	}
	assert.Equal(t, want, rows[1])
}

func TestCSVJournalRecordBalance(t *testing.T) {
	t.Parallel()

	j, _, balancesPath := newTestCSV(t)

	ts := time.Date(2015, 12, 31, 12, 30, 0, 0, time.UTC)
	require.NoError(t, j.RecordBalance(BalanceSnapshot{
		RunID:           "R1",
		Time:            ts,
		Balance:         d("1020"),
		RemainingAmount: d("780"),
		OpenTrades:      2,
	}))
	require.NoError(t, j.Close())

	rows := readCSV(t, balancesPath)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"R1", "2015-12-31T12:30:00Z", "1020", "780", "2", "0"}, rows[1])
}

func TestCSVJournalKeepsPrecision(t *testing.T) {
	t.Parallel()

	j, _, balancesPath := newTestCSV(t)

	east := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2015, 12, 31, 14, 30, 0, 123456789, east)
	require.NoError(t, j.RecordBalance(BalanceSnapshot{
		RunID:           "R1",
		Time:            ts,
		Balance:         d("1000.123456789"),
		RemainingAmount: d("-0.0000001"),
	}))
	require.NoError(t, j.Close())

	rows := readCSV(t, balancesPath)
	require.Len(t, rows, 2)
	assert.Equal(t, "2015-12-31T12:30:00.123456789Z", rows[1][1])
	assert.Equal(t, "1000.123456789", rows[1][2])
	assert.Equal(t, "-0.0000001", rows[1][3])
}

func TestNewCSVBadPath(t *testing.T) {
	t.Parallel()

	_, err := NewCSV(filepath.Join(t.TempDir(), "missing", "trades.csv"), "balances.csv")
	assert.Error(t, err)
}
