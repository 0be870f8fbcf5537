package calculator

import "math"

// MoveFormula selects how a horizon is converted into a fraction of a year.
type MoveFormula string

const (
	// DayCount scales by sqrt(days/365) and works for any horizon.
	DayCount MoveFormula = "day_count"
	// Calendar scales a week by sqrt(1/52) and a month by sqrt(1/12).
	Calendar MoveFormula = "calendar"
)

// DaysPerYear is the day count used to de-annualize implied volatility.
const DaysPerYear = 365.0

// ImpliedMove returns the one-sigma expected move price * iv * sqrt(days/365).
// A non-positive horizon yields 0.
func ImpliedMove(price, iv, horizonDays float64) float64 {
	if horizonDays <= 0 {
		return 0
	}
	return price * iv * math.Sqrt(horizonDays/DaysPerYear)
}

// CalendarMove returns price * iv * sqrt(1/periodsPerYear).
func CalendarMove(price, iv, periodsPerYear float64) float64 {
	if periodsPerYear <= 0 {
		return 0
	}
	return price * iv * math.Sqrt(1/periodsPerYear)
}

// WeeklyMonthlyMove computes the weekly and monthly moves with formula.
// The calendar formula ignores the day counts.
func WeeklyMonthlyMove(formula MoveFormula, price, iv, weeklyDays, monthlyDays float64) (weekly, monthly float64) {
	if formula == Calendar {
		return CalendarMove(price, iv, 52), CalendarMove(price, iv, 12)
	}
	return ImpliedMove(price, iv, weeklyDays), ImpliedMove(price, iv, monthlyDays)
}
