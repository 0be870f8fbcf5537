package calculator

import (
	"errors"

	"github.com/guregu/null/v6"

	"TickerLens/internal/model"
)

// DefaultRSIPeriod is the conventional RSI lookback.
const DefaultRSIPeriod = 14

// RSI computes the relative strength index using simple rolling means of
// gains and losses over period. The first period entries are null. A window
// with no losses yields 100.
func RSI(closes []float64, period int) ([]null.Float, error) {
	if period <= 0 {
		return nil, errors.New("rsi: period must be positive")
	}
	if len(closes) == 0 {
		return nil, &model.InsufficientDataError{Indicator: "rsi"}
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	out := make([]null.Float, len(closes))
	for i := period; i < len(closes); i++ {
		var sumGain, sumLoss float64
		for j := i - period + 1; j <= i; j++ {
			sumGain += gains[j]
			sumLoss += losses[j]
		}
		avgGain := sumGain / float64(period)
		avgLoss := sumLoss / float64(period)
		if avgLoss == 0 {
			out[i] = null.FloatFrom(100)
			continue
		}
		rs := avgGain / avgLoss
		out[i] = null.FloatFrom(100.0 - 100.0/(1.0+rs))
	}
	return out, nil
}
