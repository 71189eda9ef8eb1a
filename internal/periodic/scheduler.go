// Package periodic schedules calendar-based reboots, independent of
// memory pressure. It owns a single one-shot timer armed for the next
// occurrence of the configured weekday and time; after each firing the
// timer is re-armed from the previously scheduled instant, so a late
// firing never drifts the cadence. Reconfiguration stops the scheduler
// and builds a fresh one; cancelling the timer is the only cancellation
// mechanism.
package periodic

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aatumaykin/hubmon/internal/config"
	"github.com/aatumaykin/hubmon/internal/logger"
	"github.com/aatumaykin/hubmon/internal/metrics"
	"github.com/aatumaykin/hubmon/internal/schedule"
	"github.com/aatumaykin/hubmon/internal/state"
)

// Rebooter runs the shared reboot procedure. Satisfied by monitor.Engine.
type Rebooter interface {
	Reboot(ctx context.Context, cause state.Cause, freeMB int) error
}

// Scheduler arms and re-arms the periodic reboot timer.
type Scheduler struct {
	cfg      config.PeriodicConfig
	rebooter Rebooter
	store    *state.Store
	metrics  *metrics.Metrics
	logger   *logger.Logger

	freq schedule.Frequency
	day  time.Weekday
	tod  schedule.TimeOfDay

	timer   *time.Timer
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex

	// Test seam.
	now func() time.Time
}

// NewScheduler creates the periodic reboot scheduler.
func NewScheduler(cfg *config.Config, rebooter Rebooter, store *state.Store, m *metrics.Metrics, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cfg:      cfg.Periodic,
		rebooter: rebooter,
		store:    store,
		metrics:  m,
		logger:   log,
		now:      time.Now,
	}
}

// Start computes the next occurrence, persists it, and arms the one-shot
// timer. When periodic reboots are disabled or not fully configured, any
// previously persisted schedule is cleared instead.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("periodic scheduler already started")
	}

	if !s.configured() {
		s.logger.Info("periodic reboots disabled")
		if err := s.store.SetNextPeriodicReboot(nil); err != nil {
			s.logger.Error("failed to clear periodic reboot schedule", err)
		}
		s.metrics.SetNextPeriodicReboot(nil)
		return nil
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	next := schedule.NextWeekly(s.now(), s.tod, s.day)
	if err := s.store.SetNextPeriodicReboot(&next); err != nil {
		s.logger.Error("failed to persist periodic reboot schedule", err)
	}
	s.metrics.SetNextPeriodicReboot(&next)

	s.logger.Info("periodic reboot scheduled",
		logger.Field{Key: "next", Value: next},
		logger.Field{Key: "frequency", Value: s.freq.String()})

	s.arm(next)
	return nil
}

// Stop cancels the outstanding timer.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return fmt.Errorf("periodic scheduler not started")
	}

	s.cancel()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.started = false

	s.logger.Info("periodic scheduler stopped")
	return nil
}

// IsStarted reports whether a timer is armed.
func (s *Scheduler) IsStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// configured parses the schedule fields and reports whether the periodic
// path is fully set up. Incomplete configuration means "no schedule", not
// an error; validation upstream already complained if it was a mistake.
func (s *Scheduler) configured() bool {
	if !s.cfg.Enabled || s.cfg.DayOfWeek == "" || s.cfg.RebootTime == "" {
		return false
	}

	freq, err := schedule.ParseFrequency(s.cfg.Frequency)
	if err != nil {
		return false
	}
	day, err := schedule.ParseWeekday(s.cfg.DayOfWeek)
	if err != nil {
		return false
	}
	tod, err := schedule.ParseTimeOfDay(s.cfg.RebootTime)
	if err != nil {
		return false
	}

	s.freq, s.day, s.tod = freq, day, tod
	return true
}

// arm starts the one-shot timer for the scheduled instant. Caller holds
// the mutex.
func (s *Scheduler) arm(scheduled time.Time) {
	s.timer = time.NewTimer(scheduled.Sub(s.now()))

	go func() {
		select {
		case <-s.ctx.Done():
			return
		case <-s.timer.C:
			s.fire(scheduled)
		}
	}()
}

// fire runs the reboot procedure and re-arms the timer for the following
// occurrence, computed from the scheduled instant rather than the actual
// firing time.
func (s *Scheduler) fire(scheduled time.Time) {
	s.logger.Info("periodic reboot timer fired",
		logger.Field{Key: "scheduled", Value: scheduled})

	if err := s.rebooter.Reboot(s.ctx, state.CausePeriodic, 0); err != nil {
		// Already logged by the reboot procedure; the schedule continues.
		s.logger.Warn("periodic reboot attempt failed, keeping schedule")
	}

	next := schedule.NextRecurrence(scheduled, s.freq)
	if err := s.store.SetNextPeriodicReboot(&next); err != nil {
		s.logger.Error("failed to persist periodic reboot schedule", err)
	}
	s.metrics.SetNextPeriodicReboot(&next)

	s.logger.Info("next periodic reboot scheduled",
		logger.Field{Key: "next", Value: next})

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.arm(next)
}
