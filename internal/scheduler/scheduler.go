// Package scheduler triggers catalog-wide synchronization on a fixed
// interval. It owns no synchronization logic, only timing.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"omnistock/internal/usecase"

	"go.uber.org/zap"
)

// ErrSyncInProgress is returned when a run is requested while another
// catalog-wide sync is still executing.
var ErrSyncInProgress = errors.New("sync already in progress")

// Scheduler runs SyncAll on a fixed cadence, plus an optional second
// cadence for the daily full pass. Ticks never overlap: when a run is
// still executing at the next tick, that tick is skipped.
type Scheduler struct {
	sync     *usecase.SyncUsecase
	interval time.Duration
	daily    time.Duration
	logger   *zap.Logger

	running sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(syncUC *usecase.SyncUsecase, interval, daily time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		sync:     syncUC,
		interval: interval,
		daily:    daily,
		logger:   logger,
	}
}

// Start launches the background tickers. Job failures are logged and do
// not crash the process; the next tick runs regardless.
func (s *Scheduler) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel

	s.loop(ctx, s.interval, "interval")
	if s.daily > 0 {
		s.loop(ctx, s.daily, "daily")
	}

	s.logger.Info("scheduler started",
		zap.Duration("interval", s.interval),
		zap.Duration("daily", s.daily),
	)
}

// Stop cancels the background tickers and waits for them to exit. A run
// already in flight completes; there is no mid-run cancellation.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// RunScheduledSync is the zero-argument trigger an external caller may
// invoke on demand, with the same semantics as a timer tick.
func (s *Scheduler) RunScheduledSync(ctx context.Context) (usecase.SyncAllResult, error) {
	if !s.running.TryLock() {
		return usecase.SyncAllResult{}, ErrSyncInProgress
	}
	defer s.running.Unlock()
	return s.sync.SyncAll(ctx, "")
}

func (s *Scheduler) loop(ctx context.Context, every time.Duration, name string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx, name)
			}
		}
	}()
}

func (s *Scheduler) tick(ctx context.Context, name string) {
	if !s.running.TryLock() {
		s.logger.Warn("skipping sync tick, previous run still in progress",
			zap.String("job", name),
		)
		return
	}
	defer s.running.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled sync panicked",
				zap.String("job", name),
				zap.Any("panic", r),
			)
		}
	}()

	res, err := s.sync.SyncAll(ctx, "")
	if err != nil {
		s.logger.Error("scheduled sync failed",
			zap.String("job", name),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("scheduled sync finished",
		zap.String("job", name),
		zap.Int("total", res.Total),
		zap.Int("successes", res.Successes),
		zap.Int("failures", res.Failures),
	)
}
