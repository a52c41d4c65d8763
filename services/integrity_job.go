package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const integrityJobTimeout = 2 * time.Minute

// StartIntegrityScheduler запускает периодическую сверку всех соревнований.
// Вызывающий обязан вызвать Shutdown у возвращённого планировщика.
func StartIntegrityScheduler(svc IntegrityService, interval time.Duration, logger *slog.Logger) (gocron.Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("integrity interval must be positive, got %s", interval)
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), integrityJobTimeout)
			defer cancel()
			RunIntegrityCheck(ctx, svc, logger)
		}),
		gocron.WithName("competition-integrity"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("register integrity job: %w", err)
	}

	sched.Start()
	logger.Info("integrity scheduler started", slog.Duration("interval", interval))
	return sched, nil
}

// RunIntegrityCheck возвращает число соревнований с нарушениями.
func RunIntegrityCheck(ctx context.Context, svc IntegrityService, logger *slog.Logger) int {
	reports, err := svc.VerifyAll(ctx)
	if err != nil {
		logger.Error("integrity check failed", slog.Any("error", err))
	}
	broken := 0
	for _, r := range reports {
		if r.OK() {
			continue
		}
		broken++
		logger.Warn("competition failed integrity check",
			slog.String("competition_id", r.CompetitionID),
			slog.Any("violations", r.Violations))
	}
	logger.Info("integrity check finished",
		slog.Int("competitions", len(reports)),
		slog.Int("broken", broken))
	return broken
}
