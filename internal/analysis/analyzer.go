package analysis

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"TickerLens/internal/model"
)

// Fetcher is the data side of an analysis run.
type Fetcher interface {
	FetchPriceHistory(ctx context.Context, symbol, period string) (model.PriceSeries, error)
	FetchFundamentals(ctx context.Context, symbol string) model.FundamentalSnapshot
}

// Analyzer runs fetch -> compute -> assemble for one symbol. It keeps no
// state between runs.
type Analyzer struct {
	Fetcher Fetcher
	Period  string
	Options Options
	Logger  *zap.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(fetcher Fetcher, period string, opts Options, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{Fetcher: fetcher, Period: period, Options: opts, Logger: logger}
}

// Run analyzes symbol. Series-level failures abort the run: a transport
// failure is a *model.NetworkError and an empty history a *model.NoDataError.
// Fundamentals are only fetched once the history is known to be usable.
func (a *Analyzer) Run(ctx context.Context, symbol string) (*model.AnalysisResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	log := a.Logger.With(zap.String("symbol", symbol))
	log.Info("analysis started", zap.String("period", a.Period))

	series, err := a.Fetcher.FetchPriceHistory(ctx, symbol, a.Period)
	if err != nil {
		log.Error("price history fetch failed", zap.Error(err))
		return nil, err
	}
	if series.Empty() {
		log.Warn("no price data for symbol")
		return nil, &model.NoDataError{Symbol: symbol}
	}

	fundamentals := a.Fetcher.FetchFundamentals(ctx, symbol)

	res, err := Assemble(symbol, series, fundamentals, a.Options)
	if err != nil {
		return nil, err
	}
	log.Info("analysis finished",
		zap.Int("bars", series.Len()),
		zap.Int("missing_fields", len(fundamentals.Issues)))
	return res, nil
}
