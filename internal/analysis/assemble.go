package analysis

import (
	"fmt"
	"time"

	"github.com/guregu/null/v6"

	"TickerLens/internal/calculator"
	"TickerLens/internal/model"
	"TickerLens/internal/strategy"
)

// Assemble computes the indicators for series and combines them with the
// fundamentals. An empty series is a *model.NoDataError. Null fundamentals
// stay null.
func Assemble(symbol string, series model.PriceSeries, fundamentals model.FundamentalSnapshot, opts Options) (*model.AnalysisResult, error) {
	if series.Empty() {
		return nil, &model.NoDataError{Symbol: symbol}
	}

	indicators, err := ComputeIndicators(series, opts)
	if err != nil {
		return nil, err
	}

	res := &model.AnalysisResult{
		Symbol:       symbol,
		Series:       series,
		Indicators:   indicators,
		Fundamentals: fundamentals,
		Move:         ComputeMove(fundamentals.CurrentPrice, fundamentals.ImpliedVolatility, opts),
		GeneratedAt:  time.Now(),
	}

	if r, err := calculator.PeriodRange(series.Bars); err == nil {
		res.Range = r
	}

	res.Readings = strategy.Evaluate(res)
	return res, nil
}

// ComputeIndicators runs the enabled indicators over the closing prices.
func ComputeIndicators(series model.PriceSeries, opts Options) (model.IndicatorSet, error) {
	closes := series.Closes()
	set := model.IndicatorSet{SMA: make(map[int][]null.Float, len(opts.SMAWindows))}

	for _, w := range opts.SMAWindows {
		sma, err := calculator.SMA(closes, w)
		if err != nil {
			return model.IndicatorSet{}, fmt.Errorf("sma%d: %w", w, err)
		}
		set.SMA[w] = sma
	}

	if opts.MACDEnabled {
		macdLine, signalLine, err := calculator.MACD(closes, opts.MACDFast, opts.MACDSlow, opts.MACDSignal)
		if err != nil {
			return model.IndicatorSet{}, err
		}
		set.MACD, set.Signal = macdLine, signalLine
	}

	if opts.RSIEnabled {
		rsi, err := calculator.RSI(closes, opts.RSIPeriod)
		if err != nil {
			return model.IndicatorSet{}, err
		}
		set.RSI = rsi
		set.RSIPeriod = opts.RSIPeriod
	}
	return set, nil
}

// ComputeMove derives the weekly and monthly implied moves. Both are null
// when either input is null.
func ComputeMove(price, iv null.Float, opts Options) model.ImpliedMove {
	move := model.ImpliedMove{
		WeeklyDays:  opts.WeeklyDays,
		MonthlyDays: opts.MonthlyDays,
		Formula:     string(opts.MoveFormula),
	}
	if !price.Valid || !iv.Valid {
		return move
	}
	weekly, monthly := calculator.WeeklyMonthlyMove(opts.MoveFormula, price.Float64, iv.Float64, opts.WeeklyDays, opts.MonthlyDays)
	move.Weekly = null.FloatFrom(weekly)
	move.Monthly = null.FloatFrom(monthly)
	return move
}
