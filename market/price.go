package market

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrMissingTime = errors.New("price has no timestamp")

// Price is a single observation of the traded asset.
type Price struct {
	Time  time.Time
	Value decimal.Decimal
}

func NewPrice(t time.Time, v float64) Price {
	return Price{Time: t, Value: decimal.NewFromFloat(v)}
}

// ParsePrice builds a Price from its textual value, keeping every digit.
func ParsePrice(t time.Time, v string) (Price, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return Price{}, fmt.Errorf("bad price value %q: %w", v, err)
	}
	return Price{Time: t, Value: d}, nil
}

func (p Price) Validate() error {
	if p.Time.IsZero() {
		return ErrMissingTime
	}
	return nil
}

func (p Price) String() string {
	return fmt.Sprintf("%s@%s", p.Value.String(), p.Time.UTC().Format(time.RFC3339))
}
