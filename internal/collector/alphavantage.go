package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"TickerLens/internal/httputil"
	"TickerLens/internal/model"
)

const (
	// DefaultAlphaVantageURL is the Alpha Vantage query endpoint.
	DefaultAlphaVantageURL = "https://www.alphavantage.co/query"

	// DefaultAlphaVantageRPM matches the free tier allowance.
	DefaultAlphaVantageRPM = 5
)

// AlphaVantageClient implements ValuationProvider.
type AlphaVantageClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      httputil.Policy
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// AlphaVantageOption configures the client.
type AlphaVantageOption func(*AlphaVantageClient)

// WithAlphaVantageURL sets a custom endpoint.
func WithAlphaVantageURL(baseURL string) AlphaVantageOption {
	return func(c *AlphaVantageClient) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithAlphaVantageHTTPClient sets a custom HTTP client.
func WithAlphaVantageHTTPClient(client *http.Client) AlphaVantageOption {
	return func(c *AlphaVantageClient) {
		c.httpClient = client
	}
}

// WithRequestsPerMinute sets the client-side request allowance.
func WithRequestsPerMinute(rpm int) AlphaVantageOption {
	return func(c *AlphaVantageClient) {
		if rpm > 0 {
			c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm)
		}
	}
}

// WithAlphaVantageRetry sets the retry policy.
func WithAlphaVantageRetry(p httputil.Policy) AlphaVantageOption {
	return func(c *AlphaVantageClient) {
		c.retry = p
	}
}

// WithAlphaVantageLogger sets a logger.
func WithAlphaVantageLogger(logger *zap.Logger) AlphaVantageOption {
	return func(c *AlphaVantageClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewAlphaVantageClient creates a client. A missing key is a configuration
// error, reported before any request is made.
func NewAlphaVantageClient(apiKey string, opts ...AlphaVantageOption) (*AlphaVantageClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &model.ConfigurationError{Field: "alpha_vantage.api_key", Reason: "is required (set ALPHAVANTAGE_API_KEY)"}
	}
	c := &AlphaVantageClient{
		baseURL:    DefaultAlphaVantageURL,
		apiKey:     apiKey,
		httpClient: httputil.NewClient(30*time.Second, ""),
		retry:      httputil.SingleAttempt,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/DefaultAlphaVantageRPM), DefaultAlphaVantageRPM),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *AlphaVantageClient) Name() string { return "alphavantage" }

// query calls one Alpha Vantage function and decodes the JSON body into result.
func (c *AlphaVantageClient) query(ctx context.Context, function, symbol string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &model.NetworkError{Provider: c.Name(), Op: function, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	params := url.Values{}
	params.Set("function", function)
	params.Set("symbol", symbol)
	c.logger.Debug("alphavantage request", zap.String("function", function), zap.String("symbol", symbol))
	params.Set("apikey", c.apiKey)
	reqURL := c.baseURL + "?" + params.Encode()

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, c.logger, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	})
	if err != nil {
		return &model.NetworkError{Provider: c.Name(), Op: function, StatusCode: httputil.StatusCode(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &model.NetworkError{Provider: c.Name(), Op: function, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status")}
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("alphavantage decode %s: %w", function, err)
	}
	// Throttling and bad keys come back as 200 with a single message field.
	for _, k := range []string{"Error Message", "Note", "Information"} {
		if msg, ok := raw[k]; ok {
			var s string
			_ = json.Unmarshal(msg, &s)
			return fmt.Errorf("alphavantage %s: %s", function, s)
		}
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, result)
}

// FetchPEGRatio reads PEGRatio from the company overview.
func (c *AlphaVantageClient) FetchPEGRatio(ctx context.Context, symbol string) (null.Float, error) {
	var overview struct {
		Symbol   string `json:"Symbol"`
		PEGRatio string `json:"PEGRatio"`
	}
	if err := c.query(ctx, "OVERVIEW", symbol, &overview); err != nil {
		return null.Float{}, err
	}
	return parseNumber(overview.PEGRatio)
}

// FetchGlobalQuotePrice reads the latest price from GLOBAL_QUOTE.
func (c *AlphaVantageClient) FetchGlobalQuotePrice(ctx context.Context, symbol string) (null.Float, error) {
	var gq struct {
		GlobalQuote map[string]string `json:"Global Quote"`
	}
	if err := c.query(ctx, "GLOBAL_QUOTE", symbol, &gq); err != nil {
		return null.Float{}, err
	}
	return parseNumber(gq.GlobalQuote["05. price"])
}

// parseNumber converts an Alpha Vantage numeric string. "None", "-" and
// empty values mean the provider has no figure.
func parseNumber(s string) (null.Float, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "None", "-", "N/A":
		return null.Float{}, model.ErrFieldAbsent
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Float{}, fmt.Errorf("parse %q: %w", s, err)
	}
	return null.FloatFrom(v), nil
}
