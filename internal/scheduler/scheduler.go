// Package scheduler runs the periodic jobs of the site backend.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/bytedocker/site/internal/content/service"
	"github.com/bytedocker/site/internal/logging"
)

// Syncer is implemented by *service.ContentService.
type Syncer interface {
	SyncServiceDetails(ctx context.Context) (service.SyncResult, error)
}

type Scheduler struct {
	cron    *cron.Cron
	syncer  Syncer
	log     *zap.Logger
	timeout time.Duration
}

// New builds a scheduler whose specs carry a leading seconds field. A run
// still in progress when the next tick fires is skipped.
func New(syncer Syncer, log *zap.Logger) *Scheduler {
	cl := cronLogger{log.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		syncer:  syncer,
		log:     log,
		timeout: 5 * time.Minute,
	}
}

// Start registers the detail sync on schedule and starts the cron loop.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.runSync); err != nil {
		return fmt.Errorf("schedule service detail sync %q: %w", schedule, err)
	}
	s.cron.Start()
	s.log.Info("scheduler started", zap.String("sync_cron", schedule))
	return nil
}

// Stop halts the loop and waits for a running job, or until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out")
	}
}

func (s *Scheduler) runSync() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	ctx = logging.WithContext(ctx, s.log.With(zap.String("job", "sync_service_details")))

	start := time.Now()
	res, err := s.syncer.SyncServiceDetails(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("nightly sync failed", zap.Error(err))
		return
	}
	logging.FromContext(ctx).Info("nightly sync done",
		zap.Int("created", res.Created),
		zap.Int("refreshed", res.Refreshed),
		zap.Int("removed", res.Removed),
		zap.Duration("took", time.Since(start)),
	)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
