package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// PeriodRange is the high/low over the fetched window.
type PeriodRange struct {
	High     float64
	Low      float64
	Position float64 // latest close within [Low, High], 0.0 ~ 1.0
}

// Reading is one interpreted view of the indicators, e.g. "RSI overbought".
type Reading struct {
	Name       string
	Value      null.Float
	Label      string
	Commentary string
}

// AnalysisResult bundles everything one analysis run produces.
type AnalysisResult struct {
	Symbol       string
	Series       PriceSeries
	Indicators   IndicatorSet
	Fundamentals FundamentalSnapshot
	Move         ImpliedMove
	Range        PeriodRange
	Readings     []Reading
	GeneratedAt  time.Time
}

// LastClose returns the close of the most recent bar.
func (r *AnalysisResult) LastClose() null.Float {
	bar, ok := r.Series.Last()
	if !ok {
		return null.Float{}
	}
	return null.FloatFrom(bar.Close)
}
