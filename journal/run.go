package journal

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
)

// Run is the summary row of one backtest.
type Run struct {
	RunID   string
	Created time.Time
	Dataset string

	Start time.Time
	End   time.Time

	// Strategy options
	StartAmount      decimal.Decimal
	StopLoss         decimal.Decimal
	TPMulti          decimal.Decimal
	TransactionSize  decimal.Decimal
	Leverage         decimal.Decimal
	MaxOpenPositions int

	// Results
	Ticks       int
	Trades      int
	Wins        int
	Losses      int
	WinsInRow   int
	LossesInRow int

	EndBalance decimal.Decimal
	NetPL      decimal.Decimal

	// Derived / computed in Go
	ReturnPct    float64
	WinRate      float64
	ProfitFactor float64
	MaxDDPct     float64

	OrgPath   string
	ChartPath string
}

var runOrgFuncs = template.FuncMap{
	"mul100": func(d decimal.Decimal) string { return d.Mul(decimal.NewFromInt(100)).StringFixed(2) },
	"money":  func(d decimal.Decimal) string { return d.StringFixed(2) },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var runOrgTemplate = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

// FormatRunOrg renders a Run as an Org-mode block.
func FormatRunOrg(r Run) (string, error) {
	var buf bytes.Buffer
	if err := runOrgTemplate.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("render run %s: %w", r.RunID, err)
	}
	return buf.String(), nil
}

// WriteRunOrg writes the Org block to r.OrgPath.
func WriteRunOrg(r Run) error {
	if r.OrgPath == "" {
		return fmt.Errorf("run %s: no org path", r.RunID)
	}
	s, err := FormatRunOrg(r)
	if err != nil {
		return err
	}
	return os.WriteFile(r.OrgPath, []byte(s), 0644)
}

const RunOrgTemplate = `* BACKTEST: fixed-rule {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:PROPERTIES:
:RUN_ID:      {{.RunID}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START_DATE:  {{.Start.Format "2006-01-02 15:04"}}
:END_DATE:    {{.End.Format "2006-01-02 15:04"}}
:START_BAL:   {{money .StartAmount}}
:END_BAL:     {{money .EndBalance}}
:NET_PL:      {{money .NetPL}}
:RETURN_PCT:  {{printf "%.2f" .ReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .MaxDDPct}}
:TICKS:       {{.Ticks}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:WIN_RATE:    {{printf "%.2f" .WinRate}}
:PROFIT_FAC:  {{if ne .ProfitFactor 0.0}}{{printf "%.2f" .ProfitFactor}}{{else}}(profit-factor?){{end}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Strategy Parameters
| Parameter          | Value |
|--------------------+-------|
| Start amount       | {{money .StartAmount}} |
| Stop loss %        | {{mul100 .StopLoss}} |
| TP multiple        | {{.TPMulti}} |
| Transaction size   | {{.TransactionSize}} |
| Leverage           | {{.Leverage}} |
| Max open positions | {{.MaxOpenPositions}} |

** Trade Distribution
| Outcome       | Count |
|---------------+-------|
| Wins          | {{.Wins}} |
| Losses        | {{.Losses}} |
| Wins in row   | {{.WinsInRow}} |
| Losses in row | {{.LossesInRow}} |
| Total         | {{.Trades}} |

** Balance Curve
{{- if .ChartPath }}
[[file:{{.ChartPath}}]]
{{- else }}
# (optional) render one with: backtester run --chart balance.html
{{- end }}
`
