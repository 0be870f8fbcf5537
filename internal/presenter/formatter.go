package presenter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"TickerLens/internal/model"
)

// Unavailable is shown in place of any unknown value.
const Unavailable = "unavailable"

var hundred = decimal.NewFromInt(100)

func price(v null.Float) string {
	if !v.Valid {
		return Unavailable
	}
	return decimal.NewFromFloat(v.Float64).StringFixed(2)
}

func percent(v null.Float) string {
	if !v.Valid {
		return Unavailable
	}
	return decimal.NewFromFloat(v.Float64).Mul(hundred).StringFixed(2) + "%"
}

func ratio(v null.Float) string {
	if !v.Valid {
		return Unavailable
	}
	return decimal.NewFromFloat(v.Float64).StringFixed(2)
}

func move(v null.Float) string {
	if !v.Valid {
		return Unavailable
	}
	return "±" + decimal.NewFromFloat(v.Float64).StringFixed(2)
}

// FormatSummary renders the text summary block for one analysis run.
func FormatSummary(res *model.AnalysisResult) string {
	var b strings.Builder
	f := res.Fundamentals

	fmt.Fprintf(&b, "%s | %s daily | %s\n\n", res.Symbol, res.Series.Period, res.GeneratedAt.Format("2006-01-02 15:04"))

	fmt.Fprintf(&b, "Last close:         %s\n", price(res.LastClose()))
	fmt.Fprintf(&b, "Current price:      %s\n", price(f.CurrentPrice))
	fmt.Fprintf(&b, "Revenue growth:     %s\n", percent(f.RevenueGrowth))
	fmt.Fprintf(&b, "Revenue trend (3y): %s\n", percent(f.RevenueGrowthTrend))
	fmt.Fprintf(&b, "PEG ratio:          %s\n", ratio(f.PEGRatio))
	fmt.Fprintf(&b, "Implied volatility: %s\n", percent(f.ImpliedVolatility))
	fmt.Fprintf(&b, "Implied move (%gd):  %s\n", res.Move.WeeklyDays, move(res.Move.Weekly))
	fmt.Fprintf(&b, "Implied move (%gd): %s\n", res.Move.MonthlyDays, move(res.Move.Monthly))
	if !res.Series.Empty() {
		fmt.Fprintf(&b, "Period range:       %s - %s\n",
			decimal.NewFromFloat(res.Range.Low).StringFixed(2),
			decimal.NewFromFloat(res.Range.High).StringFixed(2))
	}

	if len(res.Readings) > 0 {
		b.WriteString("\nReadings:\n")
		for _, r := range res.Readings {
			fmt.Fprintf(&b, "  %-6s %s (%s)\n", r.Name+":", r.Label, r.Commentary)
		}
	}

	if len(f.Issues) > 0 {
		b.WriteString("\nNotes:\n")
		for _, is := range f.Issues {
			fmt.Fprintf(&b, "  %s %s from %s\n", is.Field, Unavailable, is.Provider)
		}
	}
	return b.String()
}

// ErrorMessage turns a failed run into the one message shown to the user.
func ErrorMessage(err error) string {
	var (
		nde *model.NoDataError
		ne  *model.NetworkError
		ce  *model.ConfigurationError
	)
	switch {
	case errors.As(err, &nde):
		return fmt.Sprintf("No data found for %s. Please check the symbol and try again.", nde.Symbol)
	case errors.As(err, &ne):
		return fmt.Sprintf("Could not reach the %s data provider. Please try again later. (%v)", ne.Provider, ne.Err)
	case errors.As(err, &ce):
		return fmt.Sprintf("Configuration error: %s %s.", ce.Field, ce.Reason)
	default:
		return fmt.Sprintf("Analysis failed: %v", err)
	}
}
