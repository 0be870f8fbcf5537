package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"TickerLens/internal/model"
	"TickerLens/internal/presenter"
)

// Runner performs one analysis run.
type Runner interface {
	Run(ctx context.Context, symbol string) (*model.AnalysisResult, error)
}

// Scheduler re-runs the analysis for one symbol on a cron schedule. Runs
// share nothing; each one fetches and computes from scratch.
type Scheduler struct {
	Cron      *cron.Cron
	Analyzer  Runner
	Presenter presenter.Sink
	Symbol    string
	Logger    *zap.Logger
	Ctx       context.Context

	running sync.Mutex
}

// NewScheduler creates a new Scheduler. Cron specs carry a seconds field.
func NewScheduler(ctx context.Context, analyzer Runner, sink presenter.Sink, symbol string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		Analyzer:  analyzer,
		Presenter: sink,
		Symbol:    symbol,
		Logger:    logger,
		Ctx:       ctx,
	}
}

// Register adds the analysis task under spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.RunNow); err != nil {
		return fmt.Errorf("register watch task %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.String("symbol", s.Symbol), zap.Int("entries", len(s.Cron.Entries())))
}

// Stop stops the scheduler and waits for a running analysis to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunNow executes one analysis immediately and hands the outcome to the
// presenter. Failures are reported, never fatal. A call made while another
// run is in progress is skipped.
func (s *Scheduler) RunNow() {
	if s.Ctx.Err() != nil {
		return
	}
	if !s.running.TryLock() {
		s.Logger.Warn("previous analysis still running, skipping", zap.String("symbol", s.Symbol))
		return
	}
	defer s.running.Unlock()
	s.Logger.Info("running analysis", zap.String("symbol", s.Symbol))
	res, err := s.Analyzer.Run(s.Ctx, s.Symbol)
	if err != nil {
		s.Logger.Error("analysis failed", zap.String("symbol", s.Symbol), zap.Error(err))
		s.Presenter.PresentError(err)
		return
	}
	if err := s.Presenter.Present(res); err != nil {
		s.Logger.Error("present result", zap.Error(err))
	}
}
