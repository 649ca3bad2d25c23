package sim

import (
	"testing"
	"time"

	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2015, 12, 31, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func px(minutes int, v string) market.Price {
	return market.Price{Time: t0.Add(time.Duration(minutes) * time.Minute), Value: dec(v)}
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s got %s", want, got.String())
}

// referenceOptions mirrors the start=1000, sl=0.02, tpmulti=2 setup.
func referenceOptions() Options {
	opts := DefaultOptions(dec("1000"))
	opts.StopLoss = dec("0.02")
	return opts
}
