package strategy

import (
	"sort"

	"TickerLens/internal/model"
)

// Reading labels.
const (
	LabelUnavailable      = "Unavailable"
	LabelOverbought       = "Overbought"
	LabelOversold         = "Oversold"
	LabelNeutral          = "Neutral"
	LabelBullish          = "Bullish"
	LabelBearish          = "Bearish"
	LabelBullishCrossover = "Bullish crossover"
	LabelBearishCrossover = "Bearish crossover"
	LabelUptrend          = "Uptrend"
	LabelDowntrend        = "Downtrend"
	LabelMixed            = "Mixed"
	LabelNearHigh         = "Near period high"
	LabelNearLow          = "Near period low"
	LabelMidRange         = "Mid-range"
)

// RSI zone bounds, also drawn as reference lines on the RSI chart.
const (
	RSIOverbought = 70.0
	RSIOversold   = 30.0
)

// Evaluate interprets the indicators of one analysis run. Readings whose
// inputs are undefined or disabled are reported as unavailable.
func Evaluate(res *model.AnalysisResult) []model.Reading {
	short, long := trendWindows(res.Indicators)
	return []model.Reading{
		readRSI(res.Indicators),
		readMACD(res.Indicators),
		readTrend(res, short, long),
		readRange(res),
	}
}

// trendWindows picks the shortest and longest SMA windows computed.
func trendWindows(ind model.IndicatorSet) (short, long int) {
	windows := make([]int, 0, len(ind.SMA))
	for w := range ind.SMA {
		windows = append(windows, w)
	}
	if len(windows) < 2 {
		return 0, 0
	}
	sort.Ints(windows)
	return windows[0], windows[len(windows)-1]
}
