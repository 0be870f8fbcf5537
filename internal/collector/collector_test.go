package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerLens/internal/model"
)

func issueFields(snap model.FundamentalSnapshot) []string {
	var out []string
	for _, is := range snap.Issues {
		out = append(out, is.Field)
	}
	return out
}

func TestCollector_AllFieldsPopulated(t *testing.T) {
	m := NewMockProvider(190)
	c := NewCollector(m, m, m, nil)

	snap := c.FetchFundamentals(context.Background(), "AAPL")
	assert.Equal(t, 190.0, snap.CurrentPrice.Float64)
	assert.Equal(t, 0.061, snap.RevenueGrowth.Float64)
	assert.Equal(t, 0.24, snap.ImpliedVolatility.Float64)
	assert.Equal(t, 2.1, snap.PEGRatio.Float64)
	assert.True(t, snap.RevenueGrowthTrend.Valid)
	assert.Empty(t, snap.Issues)
}

func TestCollector_PEGProviderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	av, err := NewAlphaVantageClient("k", WithAlphaVantageURL(srv.URL), WithRequestsPerMinute(600))
	require.NoError(t, err)

	m := NewMockProvider(190)
	c := NewCollector(m, m, av, nil)

	snap := c.FetchFundamentals(context.Background(), "AAPL")
	assert.False(t, snap.PEGRatio.Valid)
	assert.True(t, snap.CurrentPrice.Valid)
	assert.True(t, snap.RevenueGrowth.Valid)
	assert.True(t, snap.ImpliedVolatility.Valid)
	assert.Equal(t, []string{"peg_ratio"}, issueFields(snap))
	assert.Equal(t, "alphavantage", snap.Issues[0].Provider)
}

func TestCollector_PrimaryFailureKeepsPEG(t *testing.T) {
	m := NewMockProvider(190)
	m.QuoteErr = &model.NetworkError{Provider: "mock", Op: "quote", Err: errors.New("connection reset")}
	m.IVErr = errors.New("no options")
	m.RevenueErr = errors.New("statement missing")
	v := NewMockProvider(190)
	v.GlobalQtErr = errors.New("down")

	c := NewCollector(m, m, v, nil)
	snap := c.FetchFundamentals(context.Background(), "AAPL")

	assert.True(t, snap.PEGRatio.Valid)
	assert.False(t, snap.CurrentPrice.Valid)
	assert.False(t, snap.RevenueGrowth.Valid)
	assert.False(t, snap.ImpliedVolatility.Valid)
	assert.False(t, snap.RevenueGrowthTrend.Valid)
	assert.ElementsMatch(t, []string{"current_price", "revenue_growth", "implied_volatility", "revenue_growth_trend"}, issueFields(snap))
}

func TestCollector_GlobalQuoteFallback(t *testing.T) {
	m := NewMockProvider(190)
	m.Quote.CurrentPrice = null.Float{}
	v := NewMockProvider(0)
	v.QuotePx = null.FloatFrom(188.25)

	c := NewCollector(m, m, v, nil)
	snap := c.FetchFundamentals(context.Background(), "AAPL")

	assert.Equal(t, 188.25, snap.CurrentPrice.Float64)
	assert.NotContains(t, issueFields(snap), "current_price")
}

func TestCollector_NoValuationProvider(t *testing.T) {
	m := NewMockProvider(190)
	c := NewCollector(m, m, nil, nil)

	snap := c.FetchFundamentals(context.Background(), "AAPL")
	assert.False(t, snap.PEGRatio.Valid)
	assert.Equal(t, []string{"peg_ratio"}, issueFields(snap))
}

func TestCollector_RevenueTrendUsesLastThreeYears(t *testing.T) {
	m := NewMockProvider(190)
	m.Revenues = []model.AnnualRevenue{
		{TotalRevenue: 10}, {TotalRevenue: 100}, {TotalRevenue: 110}, {TotalRevenue: 121}, {TotalRevenue: 133.1},
	}
	c := NewCollector(m, m, m, nil)

	snap := c.FetchFundamentals(context.Background(), "AAPL")
	assert.InDelta(t, 0.10, snap.RevenueGrowthTrend.Float64, 1e-9)
}

func TestCollector_FetchPriceHistory(t *testing.T) {
	m := NewMockProvider(100)
	c := NewCollector(m, m, m, nil)

	series, err := c.FetchPriceHistory(context.Background(), "AAPL", "6mo")
	require.NoError(t, err)
	assert.Equal(t, 126, series.Len())

	m.Bars = []model.OHLCV{}
	series, err = c.FetchPriceHistory(context.Background(), "ZZZZ", "6mo")
	require.NoError(t, err)
	assert.True(t, series.Empty())
}

func TestCollector_FetchPriceHistoryWrapsFailures(t *testing.T) {
	m := NewMockProvider(100)
	m.HistoryErr = errors.New("dial tcp: connection refused")
	c := NewCollector(m, m, m, nil)

	_, err := c.FetchPriceHistory(context.Background(), "AAPL", "6mo")
	var ne *model.NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, "mock", ne.Provider)

	_, err = c.FetchPriceHistory(context.Background(), "", "6mo")
	assert.Error(t, err)
}
