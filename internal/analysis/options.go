package analysis

import (
	"TickerLens/internal/calculator"
	"TickerLens/internal/config"
)

// Options selects which indicators are computed and how.
type Options struct {
	SMAWindows  []int
	MACDEnabled bool
	MACDFast    int
	MACDSlow    int
	MACDSignal  int
	RSIEnabled  bool
	RSIPeriod   int
	MoveFormula calculator.MoveFormula
	WeeklyDays  float64
	MonthlyDays float64
}

// DefaultOptions enables every indicator with the conventional parameters.
func DefaultOptions() Options {
	return Options{
		SMAWindows:  []int{20, 50},
		MACDEnabled: true,
		MACDFast:    calculator.DefaultMACDFast,
		MACDSlow:    calculator.DefaultMACDSlow,
		MACDSignal:  calculator.DefaultMACDSignal,
		RSIEnabled:  true,
		RSIPeriod:   calculator.DefaultRSIPeriod,
		MoveFormula: calculator.DayCount,
		WeeklyDays:  7,
		MonthlyDays: 30,
	}
}

// OptionsFromConfig maps the indicators section of the config.
func OptionsFromConfig(ind config.Indicators) Options {
	opts := DefaultOptions()
	if len(ind.SMAWindows) > 0 {
		opts.SMAWindows = append([]int(nil), ind.SMAWindows...)
	}
	if ind.MACDEnabled != nil {
		opts.MACDEnabled = *ind.MACDEnabled
	}
	if ind.RSIEnabled != nil {
		opts.RSIEnabled = *ind.RSIEnabled
	}
	if ind.MACDFast > 0 {
		opts.MACDFast = ind.MACDFast
	}
	if ind.MACDSlow > 0 {
		opts.MACDSlow = ind.MACDSlow
	}
	if ind.MACDSignal > 0 {
		opts.MACDSignal = ind.MACDSignal
	}
	if ind.RSIPeriod > 0 {
		opts.RSIPeriod = ind.RSIPeriod
	}
	if ind.MoveFormula != "" {
		opts.MoveFormula = calculator.MoveFormula(ind.MoveFormula)
	}
	if ind.WeeklyDays > 0 {
		opts.WeeklyDays = ind.WeeklyDays
	}
	if ind.MonthlyDays > 0 {
		opts.MonthlyDays = ind.MonthlyDays
	}
	return opts
}
