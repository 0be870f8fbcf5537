package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"TickerLens/internal/analysis"
	"TickerLens/internal/collector"
	"TickerLens/internal/config"
	"TickerLens/internal/httputil"
	"TickerLens/internal/logging"
	"TickerLens/internal/presenter"
	"TickerLens/internal/scheduler"
)

// offlinePrice seeds the mock provider used by --offline.
const offlinePrice = 180.0

type app struct {
	cfgPath string
	symbol  string
	period  string
	offline bool

	cfg    *config.Config
	logger *zap.Logger
	sink   *presenter.Terminal
}

func newRootCmd() *cobra.Command {
	a := &app{}

	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}

	analyze := &cobra.Command{
		Use:   "analyze [SYMBOL]",
		Short: "Fetch, compute and display the dashboard once",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runAnalyze,
	}

	var cronSpec string
	watch := &cobra.Command{
		Use:   "watch [SYMBOL]",
		Short: "Re-run the analysis on a cron schedule until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd, args, cronSpec)
		},
	}
	watch.Flags().StringVar(&cronSpec, "cron", "", "cron spec with a seconds field (default from config)")

	root := &cobra.Command{
		Use:           "tickerlens",
		Short:         "Single-ticker equity analysis dashboard",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runAnalyze,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", defaultCfg, "path to the YAML config file")
	root.PersistentFlags().StringVarP(&a.symbol, "symbol", "s", "", "ticker symbol (overrides config)")
	root.PersistentFlags().StringVarP(&a.period, "period", "p", "", "history period, e.g. 6mo or 1y (overrides config)")
	root.PersistentFlags().BoolVar(&a.offline, "offline", false, "use generated data instead of the network providers")

	root.AddCommand(analyze, watch)
	return root
}

// setup loads and validates the config and builds the logger and sink.
// Credentials are checked here, before any provider is contacted.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.sink = presenter.NewTerminal(cmd.OutOrStdout())

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return a.fail(err)
	}
	switch {
	case len(args) == 1:
		cfg.Symbol = args[0]
	case a.symbol != "":
		cfg.Symbol = a.symbol
	}
	cfg.Symbol = strings.ToUpper(strings.TrimSpace(cfg.Symbol))
	if a.period != "" {
		cfg.Period = a.period
	}
	if err := cfg.Validate(); err != nil {
		return a.fail(err)
	}
	if !a.offline {
		if err := cfg.RequireCredentials(); err != nil {
			return a.fail(err)
		}
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return a.fail(err)
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

func (a *app) fail(err error) error {
	a.sink.PresentError(err)
	return err
}

func (a *app) buildAnalyzer() (*analysis.Analyzer, error) {
	cfg := a.cfg
	var col *collector.Collector
	if a.offline {
		mock := collector.NewMockProvider(offlinePrice)
		col = collector.NewCollector(mock, mock, mock, a.logger)
		a.logger.Info("offline mode: using generated data")
	} else {
		client := httputil.NewClient(cfg.HTTP.Timeout, cfg.Proxy)
		retry := httputil.Policy{MaxAttempts: cfg.HTTP.MaxAttempts, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second}

		yahoo := collector.NewYahooFetcher(cfg.Yahoo.BaseURL, client, retry, a.logger.Named("yahoo"))
		av, err := collector.NewAlphaVantageClient(cfg.AlphaVantage.APIKey,
			collector.WithAlphaVantageURL(cfg.AlphaVantage.BaseURL),
			collector.WithAlphaVantageHTTPClient(client),
			collector.WithRequestsPerMinute(cfg.AlphaVantage.RequestsPerMinute),
			collector.WithAlphaVantageRetry(retry),
			collector.WithAlphaVantageLogger(a.logger.Named("alphavantage")),
		)
		if err != nil {
			return nil, err
		}
		col = collector.NewCollector(yahoo, yahoo, av, a.logger)
	}
	return analysis.NewAnalyzer(col, cfg.Period, analysis.OptionsFromConfig(cfg.Indicators), a.logger), nil
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string) error {
	if err := a.setup(cmd, args); err != nil {
		return err
	}
	analyzer, err := a.buildAnalyzer()
	if err != nil {
		return a.fail(err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := analyzer.Run(ctx, a.cfg.Symbol)
	if err != nil {
		return a.fail(err)
	}
	return a.sink.Present(res)
}

func (a *app) runWatch(cmd *cobra.Command, args []string, cronSpec string) error {
	if err := a.setup(cmd, args); err != nil {
		return err
	}
	if cronSpec == "" {
		cronSpec = a.cfg.Watch.Cron
	}
	analyzer, err := a.buildAnalyzer()
	if err != nil {
		return a.fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(ctx, analyzer, a.sink, a.cfg.Symbol, a.logger)
	if err := sched.Register(cronSpec); err != nil {
		return a.fail(err)
	}
	sched.Start()
	defer sched.Stop()

	sched.RunNow()
	a.logger.Info("watching", zap.String("symbol", a.cfg.Symbol), zap.String("cron", cronSpec))
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (%s). Press Ctrl+C to stop.\n", a.cfg.Symbol, cronSpec)

	<-ctx.Done()
	a.logger.Info("shutdown signal received, stopping")
	return nil
}
