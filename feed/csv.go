package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
)

// CSV reads price rows in one of two layouts:
//
//	time,value
//	time,instrument,bid,ask[,event...]
//
// where time is RFC3339 or RFC3339Nano. The bid/ask layout is priced
// at the mid. A single header row ("time,...") is allowed, blank or
// short rows are skipped, and rows outside [From, To) are dropped when
// either bound is set.
type CSV struct {
	r      *csv.Reader
	closer io.Closer
	from   time.Time
	to     time.Time

	sawFirst bool
}

func OpenCSV(path string, from, to time.Time) (*CSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	c := NewCSV(f, from, to)
	c.closer = f
	return c, nil
}

func NewCSV(r io.Reader, from, to time.Time) *CSV {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &CSV{r: cr, from: from, to: to}
}

func (c *CSV) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

func (c *CSV) Next() (market.Price, bool, error) {
	for {
		row, err := c.r.Read()
		if err == io.EOF {
			return market.Price{}, false, nil
		}
		if err != nil {
			return market.Price{}, false, err
		}

		if !c.sawFirst {
			c.sawFirst = true
			if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		p, ok, err := parseRow(row)
		if err != nil {
			line, _ := c.r.FieldPos(0)
			return market.Price{}, false, fmt.Errorf("line %d: %w", line, err)
		}
		if !ok || !inRange(p.Time, c.from, c.to) {
			continue
		}
		return p, true, nil
	}
}

func parseRow(row []string) (market.Price, bool, error) {
	if len(row) < 2 || len(row) == 3 {
		return market.Price{}, false, nil
	}

	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return market.Price{}, false, nil
	}
	t, err := parseTime(ts)
	if err != nil {
		return market.Price{}, false, err
	}

	if len(row) == 2 {
		p, err := market.ParsePrice(t, strings.TrimSpace(row[1]))
		return p, err == nil, err
	}

	bid, err := decimal.NewFromString(strings.TrimSpace(row[2]))
	if err != nil {
		return market.Price{}, false, fmt.Errorf("bad bid %q: %w", row[2], err)
	}
	ask, err := decimal.NewFromString(strings.TrimSpace(row[3]))
	if err != nil {
		return market.Price{}, false, fmt.Errorf("bad ask %q: %w", row[3], err)
	}
	mid := bid.Add(ask).Div(decimal.NewFromInt(2))
	return market.Price{Time: t, Value: mid}, true, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	if t2, err2 := time.Parse(time.RFC3339Nano, s); err2 == nil {
		return t2, nil
	}
	return time.Time{}, fmt.Errorf("bad time %q: %w", s, err)
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}
