package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the trailing window of daily bars for one symbol.
// Bars are in strictly increasing time order. An empty series means the
// provider had no data for the symbol.
type PriceSeries struct {
	Symbol    string
	Period    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s PriceSeries) Len() int { return len(s.Bars) }

// Empty reports whether the series carries no bars.
func (s PriceSeries) Empty() bool { return len(s.Bars) == 0 }

// Closes extracts the closing prices in order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Last returns the most recent bar. ok is false for an empty series.
func (s PriceSeries) Last() (bar OHLCV, ok bool) {
	if len(s.Bars) == 0 {
		return OHLCV{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}
