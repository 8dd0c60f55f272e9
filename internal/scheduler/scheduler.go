package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"persona_fetcher/internal/domain"
)

const defaultRunTimeout = 5 * time.Minute

// Runner produces a persona report for a single handle.
type Runner interface {
	Run(ctx context.Context, handle string) (*domain.Report, error)
}

// Scheduler reruns the configured handles on every tick. Handles are
// processed one after another.
type Scheduler struct {
	runner     Runner
	handles    []string
	interval   time.Duration
	runTimeout time.Duration
	logger     *slog.Logger
}

func NewScheduler(runner Runner, handles []string, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:     runner,
		handles:    handles,
		interval:   interval,
		runTimeout: defaultRunTimeout,
		logger:     logger,
	}
}

// WithRunTimeout bounds each handle's run. Non-positive values are ignored.
func (s *Scheduler) WithRunTimeout(d time.Duration) *Scheduler {
	if d > 0 {
		s.runTimeout = d
	}
	return s
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval, "handles", len(s.handles))

	s.runAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runAll(ctx)
		}
	}
}

func (s *Scheduler) runAll(ctx context.Context) {
	for _, handle := range s.handles {
		if ctx.Err() != nil {
			return
		}
		s.runOne(ctx, handle)
	}
}

func (s *Scheduler) runOne(ctx context.Context, handle string) {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	report, err := s.runner.Run(runCtx, handle)
	switch {
	case errors.Is(err, domain.ErrNoActivity):
		s.logger.Warn("no public activity", "handle", handle)
	case err != nil:
		s.logger.Error("persona run failed", "handle", handle, "error", err)
	default:
		s.logger.Info("persona run completed",
			"handle", handle,
			"run_id", report.RunID,
			"transcript", report.TranscriptPath,
		)
	}
}
