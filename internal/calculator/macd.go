package calculator

import (
	"fmt"

	"TickerLens/internal/model"
)

// Standard MACD spans.
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// MACD returns the MACD line (EMA(fast) - EMA(slow)) and its signal line
// (EMA(macd, signal)). Both are defined from the first sample.
func MACD(closes []float64, fast, slow, signal int) (macdLine, signalLine []float64, err error) {
	if len(closes) == 0 {
		return nil, nil, &model.InsufficientDataError{Indicator: "macd"}
	}
	emaFast, err := EMA(closes, fast)
	if err != nil {
		return nil, nil, fmt.Errorf("macd fast: %w", err)
	}
	emaSlow, err := EMA(closes, slow)
	if err != nil {
		return nil, nil, fmt.Errorf("macd slow: %w", err)
	}
	macdLine = make([]float64, len(closes))
	for i := range closes {
		macdLine[i] = emaFast[i] - emaSlow[i]
	}
	signalLine, err = EMA(macdLine, signal)
	if err != nil {
		return nil, nil, fmt.Errorf("macd signal: %w", err)
	}
	return macdLine, signalLine, nil
}
