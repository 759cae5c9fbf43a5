// Package expiry runs the recurring expiration scan. Expired passports are
// demoted through the lifecycle service so the transition is audited exactly
// like an admin action, with the system as performer.
package expiry

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"passreg/internal/passport/models"
	id "passreg/pkg/domain"
	"passreg/pkg/requestcontext"
)

// Lifecycle is the slice of the passport service the scheduler drives.
type Lifecycle interface {
	List(ctx context.Context) ([]*models.Person, error)
	MarkExpired(ctx context.Context, personID id.PersonID, performedBy *id.AdminID, details map[string]any) error
}

// Scheduler scans all passports on a cron cadence and expires the ones whose
// validity window has elapsed.
type Scheduler struct {
	passports Lifecycle
	logger    *slog.Logger
	metrics   *Metrics
	cron      *cron.Cron
	spec      string
	running   atomic.Bool
}

func New(passports Lifecycle, spec string, metrics *Metrics, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		passports: passports,
		logger:    logger,
		metrics:   metrics,
		cron:      cron.New(),
		spec:      spec,
	}
}

// Start registers the cron entry and begins ticking. The scan itself also
// runs once at startup so a long-stopped instance catches up immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(context.Background())
	}); err != nil {
		return err
	}
	s.cron.Start()
	go s.RunOnce(ctx)
	return nil
}

// Stop halts the cron ticker and waits for an in-flight scan to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// RunOnce performs one full scan. Overlapping invocations are skipped via
// the running flag; a failure on one record never stops the rest. Running
// the scan twice in a day is a no-op the second time because only active
// records qualify as expired.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.WarnContext(ctx, "expiration scan already running; skipping")
		return
	}
	defer s.running.Store(false)

	start := time.Now()
	now := requestcontext.Now(ctx)

	people, err := s.passports.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "expiration scan failed to list passports", "error", err)
		return
	}

	var expired, failed int
	for _, person := range people {
		if !person.IsExpiredOn(now) {
			continue
		}
		err := s.passports.MarkExpired(ctx, person.ID, nil, map[string]any{
			"full_name":  person.FullName,
			"expires_at": person.ExpiresAt.Format("2006-01-02"),
		})
		if err != nil {
			failed++
			s.logger.ErrorContext(ctx, "failed to expire passport",
				"person_id", person.ID.String(),
				"full_name", person.FullName,
				"error", err,
			)
			continue
		}
		expired++
	}

	duration := time.Since(start)
	s.metrics.ObserveRun(duration)
	s.logger.InfoContext(ctx, "expiration scan complete",
		"checked", len(people),
		"expired", expired,
		"failed", failed,
		"duration", duration.String(),
	)
}
