package presenter

import (
	"fmt"
	"sort"
	"time"

	"github.com/guregu/null/v6"

	"TickerLens/internal/model"
	"TickerLens/internal/strategy"
)

// Line is one legend entry of a chart, aligned with Chart.Times.
type Line struct {
	Label  string
	Values []null.Float
}

// Chart is the rendering contract handed to a chart sink.
type Chart struct {
	Title          string
	Times          []time.Time
	Lines          []Line
	ReferenceLines []float64
}

// BuildCharts maps a result to its charts: price with moving averages,
// MACD with a zero line, and RSI with the 30/70 bands. Disabled indicators
// produce no chart.
func BuildCharts(res *model.AnalysisResult) []Chart {
	times := make([]time.Time, res.Series.Len())
	closes := make([]null.Float, res.Series.Len())
	for i, b := range res.Series.Bars {
		times[i] = b.Time
		closes[i] = null.FloatFrom(b.Close)
	}

	price := Chart{
		Title: fmt.Sprintf("%s price", res.Symbol),
		Times: times,
		Lines: []Line{{Label: "Close", Values: closes}},
	}
	windows := make([]int, 0, len(res.Indicators.SMA))
	for w := range res.Indicators.SMA {
		windows = append(windows, w)
	}
	sort.Ints(windows)
	for _, w := range windows {
		price.Lines = append(price.Lines, Line{Label: fmt.Sprintf("SMA%d", w), Values: res.Indicators.SMA[w]})
	}
	charts := []Chart{price}

	if len(res.Indicators.MACD) > 0 {
		charts = append(charts, Chart{
			Title: "MACD",
			Times: times,
			Lines: []Line{
				{Label: "MACD", Values: toNull(res.Indicators.MACD)},
				{Label: "Signal", Values: toNull(res.Indicators.Signal)},
			},
			ReferenceLines: []float64{0},
		})
	}

	if len(res.Indicators.RSI) > 0 {
		charts = append(charts, Chart{
			Title:          fmt.Sprintf("RSI(%d)", res.Indicators.RSIPeriod),
			Times:          times,
			Lines:          []Line{{Label: "RSI", Values: res.Indicators.RSI}},
			ReferenceLines: []float64{strategy.RSIOversold, strategy.RSIOverbought},
		})
	}
	return charts
}

func toNull(v []float64) []null.Float {
	out := make([]null.Float, len(v))
	for i, f := range v {
		out[i] = null.FloatFrom(f)
	}
	return out
}
