package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/robfig/cron/v3"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
	publishRetries = 3
)

// BeachLister returns every registered beach.
type BeachLister interface {
	ListAll(ctx context.Context) ([]domain.Beach, error)
}

// ForecastBuilder builds a rated, time-grouped forecast for a set of beaches.
type ForecastBuilder interface {
	BuildForecast(ctx context.Context, beaches []domain.Beach) ([]domain.TimeForecast, error)
}

// Publisher writes one user's forecast to the destination.
type Publisher interface {
	Publish(ctx context.Context, userID string, forecasts []domain.TimeForecast) error
}

// Refresher periodically rebuilds every user's forecast and publishes it.
type Refresher struct {
	beaches   BeachLister
	builder   ForecastBuilder
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	schedule  string
	ready     atomic.Bool
}

// New creates a Refresher that runs on the given cron schedule
// (standard 5-field expression or descriptor such as "@hourly").
func New(b BeachLister, f ForecastBuilder, p Publisher, logger *slog.Logger, metrics *observability.Metrics, schedule string) *Refresher {
	return &Refresher{
		beaches:   b,
		builder:   f,
		publisher: p,
		logger:    logger,
		metrics:   metrics,
		schedule:  schedule,
	}
}

// CheckReadiness returns nil once a refresh has published every user's
// forecast, or an error describing why the refresher is not yet ready.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("forecast refresher has not completed a run yet")
	}
	return nil
}

// Run refreshes once immediately, then on every schedule tick until the
// context is cancelled. Overlapping ticks are skipped.
func (r *Refresher) Run(ctx context.Context) error {
	sched, err := cron.ParseStandard(r.schedule)
	if err != nil {
		return fmt.Errorf("parse schedule %q: %w", r.schedule, err)
	}

	r.logger.Info("forecast refresher started", "schedule", r.schedule)
	r.metrics.RefreshRunning.Set(1)
	defer r.metrics.RefreshRunning.Set(0)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(sched, cron.FuncJob(func() { r.refresh(ctx) }))

	r.refresh(ctx)
	c.Start()

	<-ctx.Done()
	r.logger.Info("forecast refresher stopping", "reason", ctx.Err())
	<-c.Stop().Done()
	return nil
}

func (r *Refresher) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := r.RunOnce(ctx); err != nil {
		r.logger.Error("forecast refresh incomplete", "error", err)
	}
}

// RunOnce rebuilds and publishes the forecast of every user with beaches.
// A failing user is logged and skipped; the returned error counts failures.
func (r *Refresher) RunOnce(ctx context.Context) error {
	start := time.Now()

	beaches, err := r.beaches.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list beaches: %w", err)
	}

	users, byUser := groupByUser(beaches)
	failed := 0
	for _, userID := range users {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		forecasts, err := r.builder.BuildForecast(ctx, byUser[userID])
		if err != nil {
			r.logger.Warn("forecast build failed, skipping user", "user_id", userID, "error", err)
			r.metrics.PublishErrors.Inc()
			failed++
			continue
		}

		if err := r.publishWithRetry(ctx, userID, forecasts); err != nil {
			r.logger.Error("forecast publish failed", "user_id", userID, "error", err)
			r.metrics.PublishErrors.Inc()
			failed++
			continue
		}
		r.metrics.ForecastsPublished.Inc()
	}

	r.logger.Info("forecast refresh finished",
		"users", len(users),
		"failed", failed,
		"duration", time.Since(start),
	)
	if failed > 0 {
		return fmt.Errorf("%d of %d user forecasts failed", failed, len(users))
	}
	r.ready.Store(true)
	return nil
}

// publishWithRetry retries with exponential backoff: start at 200ms, double
// each retry, cap at 5s.
func (r *Refresher) publishWithRetry(ctx context.Context, userID string, forecasts []domain.TimeForecast) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= publishRetries; attempt++ {
		if err = r.publisher.Publish(ctx, userID, forecasts); err == nil {
			return nil
		}
		if attempt == publishRetries {
			break
		}
		r.logger.Warn("publish attempt failed", "user_id", userID, "attempt", attempt, "error", err)
		if !retry.SleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	return err
}

// groupByUser keeps users in first-seen order and each user's beaches in list order.
func groupByUser(beaches []domain.Beach) ([]string, map[string][]domain.Beach) {
	var users []string
	byUser := make(map[string][]domain.Beach)
	for _, b := range beaches {
		if _, ok := byUser[b.UserID]; !ok {
			users = append(users, b.UserID)
		}
		byUser[b.UserID] = append(byUser[b.UserID], b)
	}
	return users, byUser
}
