// Package report renders backtest output for humans.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rustyeddy/backtester/sim"
)

const (
	axisTimeLayout = "2006-01-02 15:04:05"

	colorBalance    = "#5470c6"
	colorTakeProfit = "#26a69a"
	colorStopLoss   = "#ef5350"
)

// WriteBalanceChart renders the balance curve as a standalone HTML page.
// Closed trades are marked on the curve at the tick that closed them.
func WriteBalanceChart(w io.Writer, title string, balances []sim.Balance, trades []sim.Transaction) error {
	if len(balances) == 0 {
		return fmt.Errorf("report: no balances to chart")
	}

	xAxis := make([]string, len(balances))
	curve := make([]opts.LineData, len(balances))
	for i, b := range balances {
		xAxis[i] = b.Time.UTC().Format(axisTimeLayout)
		curve[i] = opts.LineData{Value: b.Value.InexactFloat64()}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d ticks, %d trades", len(balances), len(trades))}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Balance", Scale: opts.Bool(true)}),
	)
	line.SetXAxis(xAxis)
	line.AddSeries("Balance", curve,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorBalance, Width: 2}),
	)

	tp, sl := closeMarkers(balances, trades)
	line.AddSeries("Take profit", tp,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true), Symbol: "triangle", SymbolSize: 10}),
		charts.WithLineStyleOpts(opts.LineStyle{Opacity: opts.Float(0)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorTakeProfit}),
	)
	line.AddSeries("Stop loss", sl,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true), Symbol: "pin", SymbolSize: 10}),
		charts.WithLineStyleOpts(opts.LineStyle{Opacity: opts.Float(0)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorStopLoss}),
	)

	return line.Render(w)
}

// WriteBalanceChartFile is WriteBalanceChart into a new file at path.
func WriteBalanceChartFile(path, title string, balances []sim.Balance, trades []sim.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	if err := WriteBalanceChart(f, title, balances, trades); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// closeMarkers places each closed trade on the balance point of its
// close time. Points without a close stay empty.
func closeMarkers(balances []sim.Balance, trades []sim.Transaction) (tp, sl []opts.LineData) {
	tp = make([]opts.LineData, len(balances))
	sl = make([]opts.LineData, len(balances))

	index := make(map[time.Time]int, len(balances))
	for i, b := range balances {
		index[b.Time.UTC()] = i
	}

	for _, t := range trades {
		if !t.Closed {
			continue
		}
		i, ok := index[t.CloseTime.UTC()]
		if !ok {
			continue
		}
		v := opts.LineData{Value: balances[i].Value.InexactFloat64()}
		switch t.CloseReason {
		case sim.TakeProfit:
			tp[i] = v
		case sim.StopLoss:
			sl[i] = v
		}
	}
	return tp, sl
}
