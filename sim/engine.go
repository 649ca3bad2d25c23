package sim

import (
	"fmt"
	"time"

	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
)

// TradeListener is notified after a tick opens or closes a transaction.
// It receives copies; the book itself is only changed by StreamPrice.
type TradeListener interface {
	OnTradeOpened(Transaction)
	OnTradeClosed(Transaction)
}

// Strategy enters a BUY position on every tick that funds allow and
// lets each position exit on its own stop-loss or take-profit.
//
// A Strategy is not safe for concurrent use; ticks are processed one
// at a time in the order they are streamed.
type Strategy struct {
	opts Options

	trades   []*Transaction
	balances []Balance
	status   Status
	stats    Stats

	current  market.Price
	ticks    int
	listener TradeListener
}

func NewStrategy(opts Options) (*Strategy, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s := &Strategy{opts: opts}
	s.status = computeStatus(opts, nil)
	return s, nil
}

func (s *Strategy) SetTradeListener(l TradeListener) {
	s.listener = l
}

// StreamPrice processes one tick: it closes triggered positions, opens
// a new one when funds allow, then records the balance and recomputes
// status and stats. A rejected price leaves the Strategy untouched.
func (s *Strategy) StreamPrice(p market.Price) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("stream price: %w: %w", ErrInvalidPrice, err)
	}
	if s.ticks > 0 && p.Time.Before(s.current.Time) {
		return fmt.Errorf("stream price: %w: %s before %s", ErrNonMonotonic,
			p.Time.Format(time.RFC3339), s.current.Time.Format(time.RFC3339))
	}

	// The entry is built before anything changes so a failure leaves
	// the tick unapplied.
	candidate, err := s.newEntry(p)
	if err != nil {
		return fmt.Errorf("stream price: %w", err)
	}

	s.current = p
	s.ticks++

	var closed []*Transaction
	for _, t := range s.trades {
		if t.Open() && t.CheckAndMaybeClose(p) {
			closed = append(closed, t)
		}
	}

	opened := s.enter(candidate)

	s.balances = append(s.balances, Balance{Time: p.Time, Value: s.balance()})
	s.status = computeStatus(s.opts, s.trades)
	s.stats = computeStats(s.trades, s.balances)

	if s.listener != nil {
		for _, t := range closed {
			s.listener.OnTradeClosed(*t)
		}
		if opened != nil {
			s.listener.OnTradeOpened(*opened)
		}
	}
	return nil
}

func (s *Strategy) newEntry(p market.Price) (*Transaction, error) {
	return NewTransaction(EntryRequest{
		Side:             market.Buy,
		Price:            p,
		Quantity:         s.opts.TransactionSize,
		Leverage:         s.opts.Leverage,
		StopLossAmount:   s.opts.StopLossAmount(),
		TakeProfitAmount: s.opts.TakeProfitAmount(),
	})
}

// enter books t when funds allow and returns nil otherwise.
func (s *Strategy) enter(t *Transaction) *Transaction {
	// Remaining funds include anything freed by closes on this tick.
	st := computeStatus(s.opts, s.trades)

	if t.EntryAmount.GreaterThan(st.RemainingAmount) {
		return nil
	}
	if s.opts.EnforceMaxOpen && st.OpenTradesCount >= s.opts.MaxOpenPositions {
		return nil
	}
	s.trades = append(s.trades, t)
	return t
}

func (s *Strategy) balance() decimal.Decimal {
	bal := s.opts.StartAmount
	for _, t := range s.trades {
		if t.Closed {
			bal = bal.Add(t.ClosePL)
		} else {
			bal = bal.Add(t.UnrealizedPL(s.current))
		}
	}
	return bal
}

func (s *Strategy) Options() Options { return s.opts }
func (s *Strategy) Status() Status   { return s.status }
func (s *Strategy) Stats() Stats     { return s.stats }

// Ticks is the number of prices accepted so far.
func (s *Strategy) Ticks() int { return s.ticks }

// CurrentPrice returns the last accepted price and false before the
// first tick.
func (s *Strategy) CurrentPrice() (market.Price, bool) {
	return s.current, s.ticks > 0
}

func (s *Strategy) Balances() []Balance {
	out := make([]Balance, len(s.balances))
	copy(out, s.balances)
	return out
}

// LastBalance returns the balance recorded by the latest tick.
func (s *Strategy) LastBalance() (Balance, bool) {
	if len(s.balances) == 0 {
		return Balance{}, false
	}
	return s.balances[len(s.balances)-1], true
}

// Trades returns copies of every transaction in the order they were opened.
func (s *Strategy) Trades() []Transaction {
	out := make([]Transaction, len(s.trades))
	for i, t := range s.trades {
		out[i] = *t
	}
	return out
}
