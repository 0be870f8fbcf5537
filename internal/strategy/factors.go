package strategy

import (
	"fmt"

	"github.com/guregu/null/v6"

	"TickerLens/internal/model"
)

func unavailable(name, why string) model.Reading {
	return model.Reading{Name: name, Label: LabelUnavailable, Commentary: why}
}

// readRSI places the latest RSI in its zone.
func readRSI(ind model.IndicatorSet) model.Reading {
	rsi := ind.LastRSI()
	if !rsi.Valid {
		return unavailable("RSI", "not enough history or disabled")
	}
	label := LabelNeutral
	switch {
	case rsi.Float64 >= RSIOverbought:
		label = LabelOverbought
	case rsi.Float64 <= RSIOversold:
		label = LabelOversold
	}
	return model.Reading{
		Name:       "RSI",
		Value:      rsi,
		Label:      label,
		Commentary: fmt.Sprintf("RSI(%d) %.1f", ind.RSIPeriod, rsi.Float64),
	}
}

// readMACD compares MACD with its signal line and flags a crossover on the
// last bar. Value is the histogram (MACD - signal).
func readMACD(ind model.IndicatorSet) model.Reading {
	n := len(ind.MACD)
	if n == 0 || len(ind.Signal) != n {
		return unavailable("MACD", "disabled")
	}
	hist := ind.MACD[n-1] - ind.Signal[n-1]
	label := LabelBearish
	if hist > 0 {
		label = LabelBullish
	}
	if n >= 2 {
		prev := ind.MACD[n-2] - ind.Signal[n-2]
		switch {
		case prev <= 0 && hist > 0:
			label = LabelBullishCrossover
		case prev >= 0 && hist < 0:
			label = LabelBearishCrossover
		}
	}
	return model.Reading{
		Name:       "MACD",
		Value:      null.FloatFrom(hist),
		Label:      label,
		Commentary: fmt.Sprintf("MACD %.3f vs signal %.3f", ind.MACD[n-1], ind.Signal[n-1]),
	}
}

// readTrend checks the ordering of close, short SMA and long SMA.
func readTrend(res *model.AnalysisResult, short, long int) model.Reading {
	if short == 0 || short == long {
		return unavailable("Trend", "needs two moving averages")
	}
	closePx := res.LastClose()
	s := res.Indicators.LastSMA(short)
	l := res.Indicators.LastSMA(long)
	if !closePx.Valid || !s.Valid || !l.Valid {
		return unavailable("Trend", fmt.Sprintf("SMA%d not yet defined", long))
	}

	label := LabelMixed
	switch {
	case closePx.Float64 > s.Float64 && s.Float64 > l.Float64:
		label = LabelUptrend
	case closePx.Float64 < s.Float64 && s.Float64 < l.Float64:
		label = LabelDowntrend
	}
	return model.Reading{
		Name:       "Trend",
		Value:      closePx,
		Label:      label,
		Commentary: fmt.Sprintf("close %.2f, SMA%d %.2f, SMA%d %.2f", closePx.Float64, short, s.Float64, long, l.Float64),
	}
}

// readRange describes where the latest close sits in the period range.
func readRange(res *model.AnalysisResult) model.Reading {
	if res.Series.Empty() {
		return unavailable("Range", "no bars")
	}
	pos := res.Range.Position
	label := LabelMidRange
	switch {
	case pos >= 0.8:
		label = LabelNearHigh
	case pos <= 0.2:
		label = LabelNearLow
	}
	return model.Reading{
		Name:       "Range",
		Value:      null.FloatFrom(pos),
		Label:      label,
		Commentary: fmt.Sprintf("%.0f%% of %.2f-%.2f", pos*100, res.Range.Low, res.Range.High),
	}
}
