package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"TickerLens/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Symbol string `yaml:"symbol" validate:"required"`
	Period string `yaml:"period" validate:"required,oneof=1mo 3mo 6mo 1y 2y 5y ytd max"`
	Proxy  string `yaml:"proxy" validate:"omitempty,url"`

	HTTP struct {
		Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
		MaxAttempts int           `yaml:"max_attempts" validate:"gte=1,lte=5"`
	} `yaml:"http"`

	Yahoo struct {
		BaseURL string `yaml:"base_url" validate:"omitempty,url"`
	} `yaml:"yahoo"`

	AlphaVantage struct {
		APIKey            string `yaml:"api_key"`
		BaseURL           string `yaml:"base_url" validate:"omitempty,url"`
		RequestsPerMinute int    `yaml:"requests_per_minute" validate:"gte=1"`
	} `yaml:"alpha_vantage"`

	Indicators Indicators `yaml:"indicators"`

	Watch struct {
		Cron string `yaml:"cron" validate:"required"`
	} `yaml:"watch"`

	Log struct {
		Level       string `yaml:"level" validate:"oneof=debug info warn error"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

// Indicators toggles and parameterizes the indicator engine.
type Indicators struct {
	SMAWindows  []int   `yaml:"sma_windows" validate:"dive,gt=0"`
	MACDEnabled *bool   `yaml:"macd_enabled"`
	MACDFast    int     `yaml:"macd_fast" validate:"gt=0"`
	MACDSlow    int     `yaml:"macd_slow" validate:"gtfield=MACDFast"`
	MACDSignal  int     `yaml:"macd_signal" validate:"gt=0"`
	RSIEnabled  *bool   `yaml:"rsi_enabled"`
	RSIPeriod   int     `yaml:"rsi_period" validate:"gt=0"`
	MoveFormula string  `yaml:"move_formula" validate:"oneof=day_count calendar"`
	WeeklyDays  float64 `yaml:"weekly_days" validate:"gt=0"`
	MonthlyDays float64 `yaml:"monthly_days" validate:"gt=0"`
}

// Load reads config from a YAML file, then the .env secret file, then
// applies environment variable overrides and defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// Environment variable overrides
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("TICKER_SYMBOL"); v != "" {
		cfg.Symbol = v
	}
	if v := os.Getenv("TICKER_PERIOD"); v != "" {
		cfg.Period = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("WATCH_CRON"); v != "" {
		cfg.Watch.Cron = v
	}
	if v := os.Getenv("HTTP_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.MaxAttempts = n
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Symbol == "" {
		c.Symbol = "AAPL"
	}
	c.Symbol = strings.ToUpper(strings.TrimSpace(c.Symbol))
	if c.Period == "" {
		c.Period = "6mo"
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = 30 * time.Second
	}
	if c.HTTP.MaxAttempts == 0 {
		c.HTTP.MaxAttempts = 1
	}
	if c.AlphaVantage.RequestsPerMinute == 0 {
		c.AlphaVantage.RequestsPerMinute = 5
	}
	if c.Watch.Cron == "" {
		c.Watch.Cron = "0 */15 * * * 1-5"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	ind := &c.Indicators
	if len(ind.SMAWindows) == 0 {
		ind.SMAWindows = []int{20, 50}
	}
	if ind.MACDEnabled == nil {
		ind.MACDEnabled = boolPtr(true)
	}
	if ind.MACDFast == 0 {
		ind.MACDFast = 12
	}
	if ind.MACDSlow == 0 {
		ind.MACDSlow = 26
	}
	if ind.MACDSignal == 0 {
		ind.MACDSignal = 9
	}
	if ind.RSIEnabled == nil {
		ind.RSIEnabled = boolPtr(true)
	}
	if ind.RSIPeriod == 0 {
		ind.RSIPeriod = 14
	}
	if ind.MoveFormula == "" {
		ind.MoveFormula = "day_count"
	}
	if ind.WeeklyDays == 0 {
		ind.WeeklyDays = 7
	}
	if ind.MonthlyDays == 0 {
		ind.MonthlyDays = 30
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &model.ConfigurationError{Field: fe.Namespace(), Reason: fmt.Sprintf("failed %q check (value %v)", fe.Tag(), fe.Value())}
		}
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// RequireCredentials fails when the Alpha Vantage key is absent. It runs
// before any provider is contacted.
func (c *Config) RequireCredentials() error {
	if strings.TrimSpace(c.AlphaVantage.APIKey) == "" {
		return &model.ConfigurationError{Field: "alpha_vantage.api_key", Reason: "is required (set ALPHAVANTAGE_API_KEY or add it to .env)"}
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }
