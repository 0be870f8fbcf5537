package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerLens/internal/model"
)

type stubRunner struct {
	calls int
	err   error
}

func (r *stubRunner) Run(_ context.Context, symbol string) (*model.AnalysisResult, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &model.AnalysisResult{Symbol: symbol}, nil
}

type recordingSink struct {
	results []*model.AnalysisResult
	errs    []error
}

func (s *recordingSink) Present(res *model.AnalysisResult) error {
	s.results = append(s.results, res)
	return nil
}

func (s *recordingSink) PresentError(err error) { s.errs = append(s.errs, err) }

func TestRegister_InvalidSpec(t *testing.T) {
	s := NewScheduler(context.Background(), &stubRunner{}, &recordingSink{}, "AAPL", nil)
	assert.Error(t, s.Register("not a cron"))
	// five-field specs are rejected: a seconds field is required
	assert.Error(t, s.Register("*/15 * * * *"))
	assert.NoError(t, s.Register("0 */15 * * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)
}

func TestRunNow_PresentsResult(t *testing.T) {
	runner := &stubRunner{}
	sink := &recordingSink{}
	s := NewScheduler(context.Background(), runner, sink, "MSFT", nil)

	s.RunNow()
	s.RunNow()

	assert.Equal(t, 2, runner.calls)
	require.Len(t, sink.results, 2)
	assert.Equal(t, "MSFT", sink.results[0].Symbol)
	assert.Empty(t, sink.errs)
}

func TestRunNow_ReportsError(t *testing.T) {
	sink := &recordingSink{}
	want := &model.NoDataError{Symbol: "ZZZZ"}
	s := NewScheduler(context.Background(), &stubRunner{err: want}, sink, "ZZZZ", nil)

	s.RunNow()

	assert.Empty(t, sink.results)
	require.Len(t, sink.errs, 1)
	assert.True(t, errors.Is(sink.errs[0], want))
}

func TestRunNow_SkipsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &stubRunner{}
	s := NewScheduler(ctx, runner, &recordingSink{}, "AAPL", nil)

	s.RunNow()
	assert.Zero(t, runner.calls)
}

type blockingRunner struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (r *blockingRunner) Run(_ context.Context, symbol string) (*model.AnalysisResult, error) {
	r.calls.Add(1)
	r.started <- struct{}{}
	<-r.release
	return &model.AnalysisResult{Symbol: symbol}, nil
}

func TestRunNow_SkipsWhileRunning(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}, 1), release: make(chan struct{})}
	sink := &recordingSink{}
	s := NewScheduler(context.Background(), runner, sink, "AAPL", nil)

	done := make(chan struct{})
	go func() {
		s.RunNow()
		close(done)
	}()
	<-runner.started

	s.RunNow() // overlaps the first run
	assert.Equal(t, int32(1), runner.calls.Load())

	close(runner.release)
	<-done
	require.Len(t, sink.results, 1)

	// the guard is released once the run finishes
	runner.release = make(chan struct{})
	close(runner.release)
	s.RunNow()
	assert.Equal(t, int32(2), runner.calls.Load())
}
