package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// SweepFunc removes state idle for longer than the given age and returns how
// many entries it removed.
type SweepFunc func(idle time.Duration) int

// Janitor removes idle sessions on a cron schedule. Additional sweeps, such
// as per-session rate limit buckets, run in the same job.
type Janitor struct {
	store    *Store
	schedule string
	maxAge   time.Duration
	sweeps   map[string]SweepFunc

	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewJanitor creates a janitor for store. An empty schedule disables it.
func NewJanitor(store *Store, schedule string, maxAge time.Duration) *Janitor {
	return &Janitor{
		store:    store,
		schedule: schedule,
		maxAge:   maxAge,
		sweeps:   make(map[string]SweepFunc),
		cron:     cron.New(),
		logger:   slog.Default().With("component", "session.janitor"),
	}
}

// AddSweep registers fn to run after each session cleanup.
func (j *Janitor) AddSweep(name string, fn SweepFunc) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sweeps[name] = fn
}

// Start schedules cleanup using the cron expression given to NewJanitor.
//
// Common expressions:
//   - "@every 1h"    - Hourly
//   - "*/15 * * * *" - Every 15 minutes
//   - "0 3 * * *"    - Daily at 3 AM
//
// The janitor stops when ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.schedule == "" {
		j.logger.Info("cleanup schedule not configured, skipping janitor")
		return nil
	}
	if j.running {
		return nil
	}

	if _, err := cron.ParseStandard(j.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", j.schedule, err)
	}

	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce() }); err != nil {
		return fmt.Errorf("failed to schedule session cleanup: %w", err)
	}

	j.cron.Start()
	j.running = true

	j.logger.Info("session janitor started",
		"schedule", j.schedule,
		"max_age", j.maxAge.String(),
	)

	go func() {
		<-ctx.Done()
		j.Stop()
	}()

	return nil
}

// RunOnce runs one cleanup cycle and returns the number of sessions removed.
func (j *Janitor) RunOnce() int {
	removed := j.store.Cleanup(j.maxAge)
	if removed > 0 {
		j.logger.Info("idle sessions removed", "removed_count", removed)
	} else {
		j.logger.Debug("session cleanup completed, nothing removed")
	}

	j.mu.Lock()
	sweeps := make(map[string]SweepFunc, len(j.sweeps))
	for name, fn := range j.sweeps {
		sweeps[name] = fn
	}
	j.mu.Unlock()

	for name, fn := range sweeps {
		if n := fn(j.maxAge); n > 0 {
			j.logger.Debug("idle entries swept", "sweep", name, "removed_count", n)
		}
	}
	return removed
}

// Stop stops the schedule and waits for a running cleanup to finish.
func (j *Janitor) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	j.running = false
	j.mu.Unlock()

	<-j.cron.Stop().Done()
	j.logger.Info("session janitor stopped")
}

// IsRunning returns true if the janitor is scheduled.
func (j *Janitor) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

// NextRun returns the next scheduled cleanup time, or nil when not running.
func (j *Janitor) NextRun() *time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.running {
		return nil
	}
	entries := j.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
