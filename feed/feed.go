// Package feed supplies prices to a backtest one at a time.
package feed

import (
	"github.com/rustyeddy/backtester/market"
)

// Source yields prices in time order. Next returns false once the
// source is exhausted.
type Source interface {
	Next() (market.Price, bool, error)
}

// Slice replays an in-memory list of prices.
type Slice struct {
	prices []market.Price
	pos    int
}

func NewSlice(prices ...market.Price) *Slice {
	return &Slice{prices: prices}
}

func (s *Slice) Next() (market.Price, bool, error) {
	if s.pos >= len(s.prices) {
		return market.Price{}, false, nil
	}
	p := s.prices[s.pos]
	s.pos++
	return p, true, nil
}
