package collector

import (
	"context"

	"github.com/guregu/null/v6"

	"TickerLens/internal/model"
)

// HistoryProvider fetches daily OHLCV bars.
type HistoryProvider interface {
	Name() string
	// FetchPriceHistory returns an empty series, not an error, when the
	// provider has no data for symbol.
	FetchPriceHistory(ctx context.Context, symbol, period string) (model.PriceSeries, error)
}

// FundamentalsProvider is the general market-data provider.
type FundamentalsProvider interface {
	Name() string
	FetchQuote(ctx context.Context, symbol string) (model.Quote, error)
	FetchImpliedVolatility(ctx context.Context, symbol string) (null.Float, error)
	// FetchAnnualRevenue returns fiscal years ordered oldest first.
	FetchAnnualRevenue(ctx context.Context, symbol string) ([]model.AnnualRevenue, error)
}

// ValuationProvider is the secondary, key-authenticated quote provider.
type ValuationProvider interface {
	Name() string
	FetchPEGRatio(ctx context.Context, symbol string) (null.Float, error)
	FetchGlobalQuotePrice(ctx context.Context, symbol string) (null.Float, error)
}
