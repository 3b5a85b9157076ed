package audit

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// RetentionScheduler purges audit logs older than the retention window once a day
type RetentionScheduler struct {
	logger    *Logger
	retention time.Duration
	scheduler *gocron.Scheduler
	now       func() time.Time
}

// NewRetentionScheduler creates a scheduler; call Start to begin purging
func NewRetentionScheduler(logger *Logger, retentionDays int) *RetentionScheduler {
	return &RetentionScheduler{
		logger:    logger,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		scheduler: gocron.NewScheduler(time.UTC),
		now:       time.Now,
	}
}

// Start schedules the daily purge at 03:00 UTC
func (r *RetentionScheduler) Start() error {
	if _, err := r.scheduler.Every(1).Day().At("03:00").Do(r.Purge); err != nil {
		return err
	}
	r.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler
func (r *RetentionScheduler) Stop() {
	r.scheduler.Stop()
}

// Purge deletes audit logs outside the retention window
func (r *RetentionScheduler) Purge() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := r.now().Add(-r.retention)
	removed, err := r.logger.PurgeBefore(ctx, cutoff)
	if err != nil {
		log.Printf("audit: retention purge failed: %v", err)
		return
	}
	log.Printf("audit: purged %d audit logs older than %s", removed, cutoff.Format(time.RFC3339))
}
