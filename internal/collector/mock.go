package collector

import (
	"context"
	"time"

	"github.com/guregu/null/v6"

	"TickerLens/internal/model"
)

// MockProvider returns controllable fixed data for offline runs and tests.
// It satisfies HistoryProvider, FundamentalsProvider and ValuationProvider.
type MockProvider struct {
	Price     float64
	Days      int
	Bars      []model.OHLCV
	Quote     model.Quote
	IV        null.Float
	Revenues  []model.AnnualRevenue
	PEG       null.Float
	QuotePx   null.Float
	Reference time.Time

	HistoryErr  error
	QuoteErr    error
	IVErr       error
	RevenueErr  error
	PEGErr      error
	GlobalQtErr error
}

// NewMockProvider builds a provider with a gently rising series around price
// and plausible fundamentals.
func NewMockProvider(price float64) *MockProvider {
	return &MockProvider{
		Price:     price,
		Days:      126,
		Quote:     model.Quote{CurrentPrice: null.FloatFrom(price), RevenueGrowth: null.FloatFrom(0.061)},
		IV:        null.FloatFrom(0.24),
		PEG:       null.FloatFrom(2.1),
		QuotePx:   null.FloatFrom(price),
		Reference: time.Now().UTC().Truncate(24 * time.Hour),
		Revenues: []model.AnnualRevenue{
			{FiscalYearEnd: time.Date(2021, 9, 30, 0, 0, 0, 0, time.UTC), TotalRevenue: 365.8e9},
			{FiscalYearEnd: time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC), TotalRevenue: 394.3e9},
			{FiscalYearEnd: time.Date(2023, 9, 30, 0, 0, 0, 0, time.UTC), TotalRevenue: 383.3e9},
			{FiscalYearEnd: time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC), TotalRevenue: 391.0e9},
		},
	}
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) FetchPriceHistory(_ context.Context, symbol, period string) (model.PriceSeries, error) {
	series := model.PriceSeries{Symbol: symbol, Period: period, FetchedAt: time.Now()}
	if m.HistoryErr != nil {
		return series, m.HistoryErr
	}
	if m.Bars != nil {
		series.Bars = m.Bars
		return series, nil
	}
	series.Bars = generateMockBars(m.Price, m.Days, m.Reference)
	return series, nil
}

func (m *MockProvider) FetchQuote(context.Context, string) (model.Quote, error) {
	return m.Quote, m.QuoteErr
}

func (m *MockProvider) FetchImpliedVolatility(context.Context, string) (null.Float, error) {
	return m.IV, m.IVErr
}

func (m *MockProvider) FetchAnnualRevenue(context.Context, string) ([]model.AnnualRevenue, error) {
	return m.Revenues, m.RevenueErr
}

func (m *MockProvider) FetchPEGRatio(context.Context, string) (null.Float, error) {
	return m.PEG, m.PEGErr
}

func (m *MockProvider) FetchGlobalQuotePrice(context.Context, string) (null.Float, error) {
	return m.QuotePx, m.GlobalQtErr
}

func generateMockBars(basePrice float64, count int, end time.Time) []model.OHLCV {
	if end.IsZero() {
		end = time.Now().UTC().Truncate(24 * time.Hour)
	}
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		// slow drift with a small sawtooth so RSI and MACD move
		p := basePrice * (1 + float64(i-count/2)*0.001 + float64(i%5-2)*0.002)
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
