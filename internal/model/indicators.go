package model

import "github.com/guregu/null/v6"

// IndicatorSet is aligned index-for-index with the PriceSeries it was
// derived from. Rolling indicators are null until their window fills.
// Disabled indicators are nil slices.
type IndicatorSet struct {
	SMA    map[int][]null.Float // keyed by window, e.g. 20 and 50
	MACD   []float64
	Signal []float64
	RSI    []null.Float

	RSIPeriod int
}

// SMAWindow returns the SMA series for window, or nil when it was not computed.
func (s IndicatorSet) SMAWindow(window int) []null.Float {
	if s.SMA == nil {
		return nil
	}
	return s.SMA[window]
}

// LastRSI returns the most recent RSI value.
func (s IndicatorSet) LastRSI() null.Float {
	return lastNull(s.RSI)
}

// LastSMA returns the most recent SMA value for window.
func (s IndicatorSet) LastSMA(window int) null.Float {
	return lastNull(s.SMAWindow(window))
}

func lastNull(v []null.Float) null.Float {
	if len(v) == 0 {
		return null.Float{}
	}
	return v[len(v)-1]
}
