package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/contractpay/settlement-backend/internal/metrics"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const warmTimeout = 30 * time.Second

// Warmer recomputes cached reports for a window.
type Warmer interface {
	Warm(ctx context.Context, w domain.Window, limit int) error
}

// Scheduler periodically warms the report cache for the trailing window.
type Scheduler struct {
	cron       *cron.Cron
	warmer     Warmer
	windowDays int
	logger     *zap.Logger
	now        func() time.Time
}

func NewScheduler(warmer Warmer, windowDays int, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		warmer:     warmer,
		windowDays: windowDays,
		logger:     logger,
		now:        time.Now,
	}
}

// Start registers the warm job on spec (six fields, seconds first) and starts
// the scheduler.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
		defer cancel()
		_ = s.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("failed to create cron job: %w", err)
	}

	s.logger.Info("report warm scheduler started", zap.String("schedule", spec), zap.Int("window_days", s.windowDays))
	s.cron.Start()
	return nil
}

// Stop stops scheduling and returns a context done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce warms both reports for the trailing window.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	w := TrailingWindow(s.now(), s.windowDays)
	start := time.Now()

	if err := s.warmer.Warm(ctx, w, domain.DefaultTopClientsLimit); err != nil {
		metrics.RecordWarmRun(false)
		s.logger.Error("report warm failed", zap.Error(err))
		return err
	}

	metrics.RecordWarmRun(true)
	s.logger.Info("report cache warmed",
		zap.Time("start", w.Start),
		zap.Time("end", w.End),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// TrailingWindow spans from midnight UTC days before now up to midnight UTC
// tomorrow, so today's jobs are included.
func TrailingWindow(now time.Time, days int) domain.Window {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return domain.Window{
		Start: today.AddDate(0, 0, -days),
		End:   today.AddDate(0, 0, 1),
	}
}
