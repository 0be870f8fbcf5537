package calculator

import (
	"math"

	"TickerLens/internal/model"
)

// PeriodRange returns the highest high and lowest low across bars, and where
// the last close sits between them: 0 at the low, 1 at the high. A close
// outside the bar extremes is clamped. A flat window reports 0.5.
func PeriodRange(bars []model.OHLCV) (model.PeriodRange, error) {
	if len(bars) == 0 {
		return model.PeriodRange{}, &model.InsufficientDataError{Indicator: "range"}
	}
	r := model.PeriodRange{High: math.Inf(-1), Low: math.Inf(1), Position: 0.5}
	for _, b := range bars {
		r.High = math.Max(r.High, b.High)
		r.Low = math.Min(r.Low, b.Low)
	}
	if width := r.High - r.Low; width > 0 {
		last := bars[len(bars)-1].Close
		r.Position = math.Min(1, math.Max(0, (last-r.Low)/width))
	}
	return r, nil
}
