package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guregu/null/v6"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"TickerLens/internal/calculator"
	"TickerLens/internal/model"
)

// TrendYears is how many fiscal-year growth steps feed the revenue trend.
const TrendYears = 3

// Collector reconciles the history provider and the two fundamentals
// providers into one price series and one snapshot.
type Collector struct {
	History      HistoryProvider
	Fundamentals FundamentalsProvider
	Valuation    ValuationProvider // optional
	Logger       *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(history HistoryProvider, fundamentals FundamentalsProvider, valuation ValuationProvider, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		History:      history,
		Fundamentals: fundamentals,
		Valuation:    valuation,
		Logger:       logger,
	}
}

// FetchPriceHistory returns the trailing daily bars for symbol. An unknown
// symbol yields an empty series; transport failures are *model.NetworkError.
func (c *Collector) FetchPriceHistory(ctx context.Context, symbol, period string) (model.PriceSeries, error) {
	if symbol == "" {
		return model.PriceSeries{}, errors.New("symbol is required")
	}
	series, err := c.History.FetchPriceHistory(ctx, symbol, period)
	if err != nil {
		var ne *model.NetworkError
		if !errors.As(err, &ne) {
			err = &model.NetworkError{Provider: c.History.Name(), Op: "history", Err: err}
		}
		return model.PriceSeries{Symbol: symbol, Period: period}, err
	}
	c.Logger.Info("price history fetched",
		zap.String("symbol", symbol),
		zap.String("period", period),
		zap.Int("bars", series.Len()))
	return series, nil
}

// FetchFundamentals queries every fundamentals source independently. It never
// fails: a field whose source fails is left null and recorded in Issues.
func (c *Collector) FetchFundamentals(ctx context.Context, symbol string) model.FundamentalSnapshot {
	var (
		quote    model.Quote
		quoteErr error
		iv       null.Float
		ivErr    error
		revenue  []model.AnnualRevenue
		revErr   error
		peg      null.Float
		pegErr   error
	)

	// Each source writes only its own variables and never returns an error,
	// so one failing source cannot cancel the others.
	var g errgroup.Group
	g.Go(func() error {
		quote, quoteErr = c.Fundamentals.FetchQuote(ctx, symbol)
		return nil
	})
	g.Go(func() error {
		iv, ivErr = c.Fundamentals.FetchImpliedVolatility(ctx, symbol)
		return nil
	})
	g.Go(func() error {
		revenue, revErr = c.Fundamentals.FetchAnnualRevenue(ctx, symbol)
		return nil
	})
	if c.Valuation != nil {
		g.Go(func() error {
			peg, pegErr = c.Valuation.FetchPEGRatio(ctx, symbol)
			return nil
		})
	} else {
		pegErr = errors.New("no valuation provider configured")
	}
	_ = g.Wait()

	snap := model.FundamentalSnapshot{Symbol: symbol, FetchedAt: time.Now()}
	primary := c.Fundamentals.Name()

	snap.CurrentPrice = c.field(&snap, primary, "current_price", quote.CurrentPrice, quoteErr)
	if !snap.CurrentPrice.Valid && c.Valuation != nil {
		c.fallbackPrice(ctx, &snap, symbol)
	}
	snap.RevenueGrowth = c.field(&snap, primary, "revenue_growth", quote.RevenueGrowth, quoteErr)
	snap.ImpliedVolatility = c.field(&snap, primary, "implied_volatility", iv, ivErr)

	trend, trendErr := revenueTrend(revenue, revErr)
	snap.RevenueGrowthTrend = c.field(&snap, primary, "revenue_growth_trend", trend, trendErr)

	secondary := "valuation"
	if c.Valuation != nil {
		secondary = c.Valuation.Name()
	}
	snap.PEGRatio = c.field(&snap, secondary, "peg_ratio", peg, pegErr)

	return snap
}

// fallbackPrice replaces a missing current price with the secondary
// provider's global quote, clearing the primary's issue on success.
func (c *Collector) fallbackPrice(ctx context.Context, snap *model.FundamentalSnapshot, symbol string) {
	price, err := c.Valuation.FetchGlobalQuotePrice(ctx, symbol)
	if err != nil || !price.Valid {
		c.Logger.Warn("global quote fallback failed", zap.String("symbol", symbol), zap.Error(err))
		return
	}
	snap.CurrentPrice = price
	kept := snap.Issues[:0]
	for _, is := range snap.Issues {
		if is.Field != "current_price" {
			kept = append(kept, is)
		}
	}
	snap.Issues = kept
	c.Logger.Info("current price taken from global quote", zap.String("provider", c.Valuation.Name()))
}

// field returns v when it is usable and otherwise records why it is missing.
func (c *Collector) field(snap *model.FundamentalSnapshot, provider, name string, v null.Float, err error) null.Float {
	if err == nil && v.Valid {
		return v
	}
	if err == nil {
		err = model.ErrFieldAbsent
	}
	snap.Issues = append(snap.Issues, model.MissingFieldError{Provider: provider, Field: name, Err: err})
	c.Logger.Warn("fundamental field unavailable",
		zap.String("symbol", snap.Symbol),
		zap.String("provider", provider),
		zap.String("field", name),
		zap.Error(err))
	return null.Float{}
}

// revenueTrend averages the last TrendYears of year-over-year revenue growth.
func revenueTrend(revenue []model.AnnualRevenue, err error) (null.Float, error) {
	if err != nil {
		return null.Float{}, err
	}
	if len(revenue) < 2 {
		return null.Float{}, fmt.Errorf("%d fiscal years reported: %w", len(revenue), model.ErrFieldAbsent)
	}
	if len(revenue) > TrendYears+1 {
		revenue = revenue[len(revenue)-(TrendYears+1):]
	}
	values := make([]float64, len(revenue))
	for i, r := range revenue {
		values[i] = r.TotalRevenue
	}
	g, err := calculator.AverageGrowth(values)
	if err != nil {
		return null.Float{}, err
	}
	return null.FloatFrom(g), nil
}
