package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTradeNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.GetTrade("nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestListTradesByRunID(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	require.NoError(t, j.RecordTrade(sampleTrade("R1", "A")))
	require.NoError(t, j.RecordTrade(sampleTrade("R2", "B")))
	require.NoError(t, j.RecordTrade(sampleTrade("R1", "C")))

	got, err := j.ListTradesByRunID(context.Background(), "R1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].TradeID)
	assert.Equal(t, "C", got[1].TradeID)

	none, err := j.ListTradesByRunID(context.Background(), "R9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListTradesClosedBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	day := time.Date(2016, 1, 4, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"before", "inside-1", "inside-2", "after"} {
		rec := sampleTrade("R1", id)
		rec.CloseTime = day.Add(time.Duration(i-1) * 12 * time.Hour)
		require.NoError(t, j.RecordTrade(rec))
	}

	got, err := j.ListTradesClosedBetween(day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "inside-1", got[0].TradeID)
	assert.Equal(t, "inside-2", got[1].TradeID)
}

func TestListTradesClosedBetweenOffsets(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	east := time.FixedZone("UTC+2", 2*60*60)
	west := time.FixedZone("UTC-5", -5*60*60)
	closes := map[string]time.Time{
		"late-jan3":  time.Date(2016, 1, 4, 1, 0, 0, 0, east),   // 2016-01-03 23:00Z
		"jan4":       time.Date(2016, 1, 4, 10, 0, 0, 0, east),  // 2016-01-04 08:00Z
		"early-jan5": time.Date(2016, 1, 4, 23, 30, 0, 0, west), // 2016-01-05 04:30Z
	}
	for _, id := range []string{"late-jan3", "jan4", "early-jan5"} {
		rec := sampleTrade("R1", id)
		rec.CloseTime = closes[id]
		require.NoError(t, j.RecordTrade(rec))
	}

	day := time.Date(2016, 1, 4, 0, 0, 0, 0, time.UTC)
	got, err := j.ListTradesClosedBetween(day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "jan4", got[0].TradeID)
	assert.True(t, got[0].CloseTime.Equal(closes["jan4"]))

	// Bounds given in another zone describe the same instants.
	got, err = j.ListTradesClosedBetween(day.In(west), day.Add(24*time.Hour).In(west))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "jan4", got[0].TradeID)
}
