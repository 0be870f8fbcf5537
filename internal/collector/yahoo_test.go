package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerLens/internal/httputil"
	"TickerLens/internal/model"
)

const chartBody = `{"chart":{"result":[{"timestamp":[1700179200,1700006400,1700092800,1700265600],
"indicators":{"quote":[{"open":[11,9,10,null],"high":[12,10,11,null],"low":[10,8,9,null],
"close":[11.5,9.5,10.5,null],"volume":[300,100,200,null]}]}}],"error":null}}`

func newTestYahoo(t *testing.T, h http.HandlerFunc) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewYahooFetcher(srv.URL, httputil.NewClient(5*time.Second, ""), httputil.SingleAttempt, nil)
}

func TestYahoo_FetchPriceHistory(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "6mo", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Write([]byte(chartBody))
	})

	series, err := f.FetchPriceHistory(context.Background(), "AAPL", "6mo")
	require.NoError(t, err)
	require.Equal(t, 3, series.Len(), "null bar must be skipped")
	assert.Equal(t, []float64{9.5, 10.5, 11.5}, series.Closes())
	for i := 1; i < series.Len(); i++ {
		assert.True(t, series.Bars[i].Time.After(series.Bars[i-1].Time))
	}
	assert.Equal(t, 100.0, series.Bars[0].Volume)
}

func TestYahoo_SymbolMap(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/^GSPC", r.URL.Path)
		w.Write([]byte(chartBody))
	})
	_, err := f.FetchPriceHistory(context.Background(), "SPX500", "6mo")
	require.NoError(t, err)
}

func TestYahoo_UnknownSymbolIsEmptySeries(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})

	series, err := f.FetchPriceHistory(context.Background(), "ZZZZ", "6mo")
	require.NoError(t, err)
	assert.True(t, series.Empty())
	assert.Equal(t, "ZZZZ", series.Symbol)
}

func TestYahoo_NotFoundErrorBodyIsEmptySeries(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})

	series, err := f.FetchPriceHistory(context.Background(), "ZZZZ", "6mo")
	require.NoError(t, err)
	assert.True(t, series.Empty())
}

func TestYahoo_OtherChartErrorIsNetworkError(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid input - interval=1d is not supported"}}}`))
	})

	_, err := f.FetchPriceHistory(context.Background(), "AAPL", "6mo")
	var ne *model.NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, "chart", ne.Op)
}

func TestYahoo_ServerErrorIsNetworkError(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := f.FetchPriceHistory(context.Background(), "AAPL", "6mo")
	var ne *model.NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, http.StatusBadGateway, ne.StatusCode)
	assert.Equal(t, "yahoo", ne.Provider)
}

func TestYahoo_TransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := NewYahooFetcher(url, httputil.NewClient(time.Second, ""), httputil.SingleAttempt, nil)
	_, err := f.FetchPriceHistory(context.Background(), "AAPL", "6mo")
	var ne *model.NetworkError
	assert.True(t, errors.As(err, &ne))
}

func TestYahoo_FetchQuote(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/finance/quoteSummary/AAPL", r.URL.Path)
		assert.Equal(t, "financialData", r.URL.Query().Get("modules"))
		w.Write([]byte(`{"quoteSummary":{"result":[{"financialData":{"currentPrice":{"raw":189.5,"fmt":"189.50"},"revenueGrowth":{}}}],"error":null}}`))
	})

	q, err := f.FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, q.CurrentPrice.Valid)
	assert.Equal(t, 189.5, q.CurrentPrice.Float64)
	assert.False(t, q.RevenueGrowth.Valid, "missing key stays null")
}

func TestYahoo_FetchAnnualRevenue(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":[{"incomeStatementHistory":{"incomeStatementHistory":[
			{"endDate":{"raw":1696032000},"totalRevenue":{"raw":383.0}},
			{"endDate":{"raw":1664496000},"totalRevenue":{"raw":394.0}},
			{"endDate":{"raw":1632960000},"totalRevenue":{}}]}}],"error":null}}`))
	})

	revs, err := f.FetchAnnualRevenue(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, 394.0, revs[0].TotalRevenue, "oldest first")
	assert.Equal(t, 383.0, revs[1].TotalRevenue)
}

func TestYahoo_FetchImpliedVolatility(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v7/finance/options/AAPL", r.URL.Path)
		w.Write([]byte(`{"optionChain":{"result":[{"quote":{"regularMarketPrice":101.2},"options":[{"calls":[
			{"strike":95,"impliedVolatility":0.31},
			{"strike":100,"impliedVolatility":0.27},
			{"strike":105,"impliedVolatility":0.25}]}]}],"error":null}}`))
	})

	iv, err := f.FetchImpliedVolatility(context.Background(), "AAPL")
	require.NoError(t, err)
	require.True(t, iv.Valid)
	assert.Equal(t, 0.27, iv.Float64)
}

func TestYahoo_ImpliedVolatilityWithoutChain(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"optionChain":{"result":[],"error":null}}`))
	})
	iv, err := f.FetchImpliedVolatility(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.False(t, iv.Valid)
}
