package calculator

import (
	"errors"

	"github.com/guregu/null/v6"

	"TickerLens/internal/model"
)

// SMA computes the simple moving average of closes over window. The result is
// aligned with closes; the first window-1 entries are null.
func SMA(closes []float64, window int) ([]null.Float, error) {
	if window <= 0 {
		return nil, errors.New("sma: window must be positive")
	}
	if len(closes) == 0 {
		return nil, &model.InsufficientDataError{Indicator: "sma"}
	}
	out := make([]null.Float, len(closes))
	for i := window - 1; i < len(closes); i++ {
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += closes[j]
		}
		out[i] = null.FloatFrom(sum / float64(window))
	}
	return out, nil
}

// EMA computes the exponential moving average with alpha = 2/(span+1),
// seeded with the first sample.
func EMA(values []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, errors.New("ema: span must be positive")
	}
	if len(values) == 0 {
		return nil, &model.InsufficientDataError{Indicator: "ema"}
	}
	alpha := 2.0 / float64(span+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out, nil
}
