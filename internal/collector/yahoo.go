package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/guregu/null/v6"
	"go.uber.org/zap"

	"TickerLens/internal/httputil"
	"TickerLens/internal/model"
)

// DefaultYahooBaseURL is the public Yahoo Finance API host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements HistoryProvider and FundamentalsProvider using the
// Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	Retry     httputil.Policy
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	Logger    *zap.Logger
}

// NewYahooFetcher creates a Yahoo fetcher against baseURL (DefaultYahooBaseURL when empty).
func NewYahooFetcher(baseURL string, client *http.Client, retry httputil.Policy, logger *zap.Logger) *YahooFetcher {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	if client == nil {
		client = httputil.NewClient(30*time.Second, "")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YahooFetcher{
		BaseURL: baseURL,
		Client:  client,
		Retry:   retry,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
		Logger: logger,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooChart is the response structure from Yahoo Finance chart API.
// Quote arrays carry nulls for non-trading days.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooValue struct {
	Raw *float64 `json:"raw"`
}

func (v yahooValue) nullable() null.Float {
	if v.Raw == nil {
		return null.Float{}
	}
	return null.FloatFrom(*v.Raw)
}

type yahooQuoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData *struct {
				CurrentPrice  yahooValue `json:"currentPrice"`
				RevenueGrowth yahooValue `json:"revenueGrowth"`
			} `json:"financialData"`
			IncomeStatementHistory *struct {
				Statements []struct {
					EndDate      yahooValue `json:"endDate"`
					TotalRevenue yahooValue `json:"totalRevenue"`
				} `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

type yahooOptions struct {
	OptionChain struct {
		Result []struct {
			Quote struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
			} `json:"quote"`
			Options []struct {
				Calls []struct {
					Strike            float64  `json:"strike"`
					ImpliedVolatility *float64 `json:"impliedVolatility"`
				} `json:"calls"`
			} `json:"options"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"optionChain"`
}

// get performs one GET and returns the status and body. Transport failures
// and exhausted 5xx responses come back as *model.NetworkError.
func (f *YahooFetcher) get(ctx context.Context, op, path string, params url.Values) (int, []byte, error) {
	u := f.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	f.Logger.Debug("yahoo request", zap.String("op", op), zap.String("url", u))

	resp, err := httputil.Do(ctx, f.Client, f.Retry, f.Logger, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")
		return req, nil
	})
	if err != nil {
		return 0, nil, &model.NetworkError{Provider: f.Name(), Op: op, StatusCode: httputil.StatusCode(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &model.NetworkError{Provider: f.Name(), Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	return resp.StatusCode, body, nil
}

func (f *YahooFetcher) FetchPriceHistory(ctx context.Context, symbol, period string) (model.PriceSeries, error) {
	series := model.PriceSeries{Symbol: symbol, Period: period, FetchedAt: time.Now()}

	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", period)
	status, body, err := f.get(ctx, "chart", "/v8/finance/chart/"+url.PathEscape(f.yahooSymbol(symbol)), params)
	if err != nil {
		return series, err
	}
	if status == http.StatusNotFound {
		// unknown or delisted symbol
		return series, nil
	}
	if status != http.StatusOK {
		return series, &model.NetworkError{Provider: f.Name(), Op: "chart", StatusCode: status, Err: fmt.Errorf("body: %s", truncate(body))}
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return series, fmt.Errorf("yahoo decode chart: %w", err)
	}
	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			return series, nil
		}
		return series, &model.NetworkError{Provider: f.Name(), Op: "chart", Err: fmt.Errorf("api error: %s", chart.Chart.Error.Description)}
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return series, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if c == nil {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   valueOr(at(quote.Open, i), *c),
			High:   valueOr(at(quote.High, i), *c),
			Low:    valueOr(at(quote.Low, i), *c),
			Close:  *c,
			Volume: valueOr(at(quote.Volume, i), 0),
		})
	}
	series.Bars = chronological(bars)
	return series, nil
}

func (f *YahooFetcher) quoteSummary(ctx context.Context, op, symbol, modules string) (*yahooQuoteSummary, error) {
	params := url.Values{}
	params.Set("modules", modules)
	status, body, err := f.get(ctx, op, "/v10/finance/quoteSummary/"+url.PathEscape(f.yahooSymbol(symbol)), params)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &model.NetworkError{Provider: f.Name(), Op: op, StatusCode: status, Err: fmt.Errorf("body: %s", truncate(body))}
	}
	var qs yahooQuoteSummary
	if err := json.Unmarshal(body, &qs); err != nil {
		return nil, fmt.Errorf("yahoo decode %s: %w", op, err)
	}
	if qs.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo %s: %s", op, qs.QuoteSummary.Error.Description)
	}
	if len(qs.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", op, model.ErrFieldAbsent)
	}
	return &qs, nil
}

func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	qs, err := f.quoteSummary(ctx, "quote", symbol, "financialData")
	if err != nil {
		return model.Quote{}, err
	}
	fd := qs.QuoteSummary.Result[0].FinancialData
	if fd == nil {
		return model.Quote{}, nil
	}
	return model.Quote{
		CurrentPrice:  fd.CurrentPrice.nullable(),
		RevenueGrowth: fd.RevenueGrowth.nullable(),
	}, nil
}

func (f *YahooFetcher) FetchAnnualRevenue(ctx context.Context, symbol string) ([]model.AnnualRevenue, error) {
	qs, err := f.quoteSummary(ctx, "financials", symbol, "incomeStatementHistory")
	if err != nil {
		return nil, err
	}
	ish := qs.QuoteSummary.Result[0].IncomeStatementHistory
	if ish == nil {
		return nil, nil
	}
	out := make([]model.AnnualRevenue, 0, len(ish.Statements))
	for _, st := range ish.Statements {
		if st.EndDate.Raw == nil || st.TotalRevenue.Raw == nil {
			continue
		}
		out = append(out, model.AnnualRevenue{
			FiscalYearEnd: time.Unix(int64(*st.EndDate.Raw), 0).UTC(),
			TotalRevenue:  *st.TotalRevenue.Raw,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FiscalYearEnd.Before(out[j].FiscalYearEnd) })
	return out, nil
}

// FetchImpliedVolatility returns the implied volatility of the nearest-expiry
// call whose strike is closest to the market price.
func (f *YahooFetcher) FetchImpliedVolatility(ctx context.Context, symbol string) (null.Float, error) {
	status, body, err := f.get(ctx, "options", "/v7/finance/options/"+url.PathEscape(f.yahooSymbol(symbol)), nil)
	if err != nil {
		return null.Float{}, err
	}
	if status != http.StatusOK {
		return null.Float{}, &model.NetworkError{Provider: f.Name(), Op: "options", StatusCode: status, Err: fmt.Errorf("body: %s", truncate(body))}
	}
	var oc yahooOptions
	if err := json.Unmarshal(body, &oc); err != nil {
		return null.Float{}, fmt.Errorf("yahoo decode options: %w", err)
	}
	if len(oc.OptionChain.Result) == 0 || len(oc.OptionChain.Result[0].Options) == 0 {
		return null.Float{}, nil
	}
	res := oc.OptionChain.Result[0]
	if res.Quote.RegularMarketPrice == nil {
		return null.Float{}, nil
	}
	spot := *res.Quote.RegularMarketPrice

	best := null.Float{}
	bestDist := math.Inf(1)
	for _, call := range res.Options[0].Calls {
		if call.ImpliedVolatility == nil || *call.ImpliedVolatility <= 0 {
			continue
		}
		if d := math.Abs(call.Strike - spot); d < bestDist {
			bestDist = d
			best = null.FloatFrom(*call.ImpliedVolatility)
		}
	}
	return best, nil
}

func at(v []*float64, i int) *float64 {
	if i < len(v) {
		return v[i]
	}
	return nil
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// chronological sorts bars by time and drops duplicate timestamps so the
// series is strictly increasing.
func chronological(bars []model.OHLCV) []model.OHLCV {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := bars[:0]
	for _, b := range bars {
		if len(out) > 0 && !b.Time.After(out[len(out)-1].Time) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

func truncate(body []byte) string {
	if len(body) > 256 {
		return string(body[:256])
	}
	return string(body)
}
