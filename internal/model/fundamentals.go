package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// Quote is the price and growth summary reported by the market-data provider.
type Quote struct {
	CurrentPrice  null.Float
	RevenueGrowth null.Float
}

// AnnualRevenue is one fiscal year of total revenue.
type AnnualRevenue struct {
	FiscalYearEnd time.Time
	TotalRevenue  float64
}

// FundamentalSnapshot is the point-in-time fundamentals record. Every field
// is independently nullable; a null field is "unknown", never zero.
type FundamentalSnapshot struct {
	Symbol             string
	CurrentPrice       null.Float
	RevenueGrowth      null.Float // fraction, 0.08 = 8%
	PEGRatio           null.Float
	ImpliedVolatility  null.Float // annualized fraction
	RevenueGrowthTrend null.Float // average YoY growth over the last fiscal years

	// Issues lists the fields that could not be populated and why.
	Issues []MissingFieldError

	FetchedAt time.Time
}

// ImpliedMove is the expected one-sigma price move over a week and a month.
// Both are null when price or implied volatility is unknown.
type ImpliedMove struct {
	Weekly      null.Float
	Monthly     null.Float
	WeeklyDays  float64
	MonthlyDays float64
	Formula     string
}
