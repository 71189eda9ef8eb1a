// Package monitor implements the memory check engine: on a fixed cadence
// it samples the hub's free memory and, when the sample falls below the
// configured threshold inside the permitted reboot window, runs the shared
// reboot procedure. The same procedure serves the manual test trigger and
// the periodic scheduler.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aatumaykin/hubmon/internal/config"
	"github.com/aatumaykin/hubmon/internal/hub"
	"github.com/aatumaykin/hubmon/internal/logger"
	"github.com/aatumaykin/hubmon/internal/metrics"
	"github.com/aatumaykin/hubmon/internal/notify"
	"github.com/aatumaykin/hubmon/internal/schedule"
	"github.com/aatumaykin/hubmon/internal/state"
)

const (
	// preRebootPause lets the warning log line flush before the reboot
	// command goes out. A soft ordering guarantee, not a hard one.
	preRebootPause = 2 * time.Second

	// initialCheckDelay is how soon after startup the first check runs,
	// ahead of the regular cadence.
	initialCheckDelay = 10 * time.Second
)

// HubClient is the slice of the hub API the engine needs.
type HubClient interface {
	FreeMemory(ctx context.Context) (hub.MemorySample, error)
	HistorySampleCount(ctx context.Context) (int, error)
	Reboot(ctx context.Context, rebuild bool) error
}

// Engine owns the check cadence and the reboot procedure.
type Engine struct {
	cfg                    config.MonitorConfig
	windowStart, windowEnd *schedule.TimeOfDay
	hub                    HubClient
	store                  *state.Store
	events                 *state.EventLog
	metrics                *metrics.Metrics
	notifier               notify.Notifier
	logger                 *logger.Logger

	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.RWMutex

	// Test seams.
	now   func() time.Time
	pause time.Duration
	delay time.Duration
}

// NewEngine creates the monitor engine. The notifier may be notify.Noop.
func NewEngine(cfg *config.Config, hubClient HubClient, store *state.Store, events *state.EventLog, m *metrics.Metrics, notifier notify.Notifier, log *logger.Logger) *Engine {
	start, end := cfg.RebootWindow()
	return &Engine{
		cfg:         cfg.Monitor,
		windowStart: start,
		windowEnd:   end,
		hub:         hubClient,
		store:       store,
		events:      events,
		metrics:     m,
		notifier:    notifier,
		logger:      log,
		now:         time.Now,
		pause:       preRebootPause,
		delay:       initialCheckDelay,
	}
}

// Start arms the check cadence: one check shortly after startup, then one
// every check interval. It returns immediately; checks run on the cron's
// goroutine until the context is cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return fmt.Errorf("monitor engine already started")
	}

	if !e.cfg.Enabled {
		e.logger.Info("memory monitoring disabled in config")
		return nil
	}

	e.ctx, e.cancel = context.WithCancel(ctx)
	e.started = true

	e.cron = cron.New()
	spec := fmt.Sprintf("@every %dm", e.cfg.CheckIntervalMinutes)
	if _, err := e.cron.AddFunc(spec, func() { e.RunCheck(e.ctx) }); err != nil {
		e.started = false
		return fmt.Errorf("failed to schedule check cadence: %w", err)
	}
	e.cron.Start()

	e.logger.Info("monitor engine started",
		logger.Field{Key: "interval_minutes", Value: e.cfg.CheckIntervalMinutes},
		logger.Field{Key: "threshold_mb", Value: e.cfg.MemoryThresholdMB},
		logger.Field{Key: "auto_reboot", Value: e.cfg.AutoReboot})

	// First check ahead of the cadence.
	go func() {
		select {
		case <-e.ctx.Done():
		case <-time.After(e.delay):
			e.RunCheck(e.ctx)
		}
	}()

	go func() {
		<-e.ctx.Done()
		e.cron.Stop()
		e.logger.Info("monitor engine stopped")
	}()

	return nil
}

// Stop cancels the check cadence.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return fmt.Errorf("monitor engine not started")
	}

	e.cancel()
	e.started = false
	return nil
}

// IsStarted reports whether the engine is running.
func (e *Engine) IsStarted() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.started
}

// RunCheck executes one check cycle. Every failure is recoverable: the
// cycle aborts cleanly and the next tick re-evaluates from scratch.
func (e *Engine) RunCheck(ctx context.Context) {
	now := e.now()

	if err := e.store.RecordCheck(now); err != nil {
		e.logger.Error("failed to persist check timestamp", err)
	}

	sample, err := e.hub.FreeMemory(ctx)
	if err != nil {
		// Recoverable: no state change, no retry before the next tick.
		e.logger.Error("memory check failed, will retry on next interval", err)
		e.metrics.RecordCheck(metrics.OutcomeFetchError)
		return
	}

	e.metrics.SetMemory(sample.FreeMB, sample.PercentUsed)

	if sample.FreeMB >= e.cfg.MemoryThresholdMB {
		e.logger.Debug("memory above threshold",
			logger.Field{Key: "free_mb", Value: sample.FreeMB},
			logger.Field{Key: "threshold_mb", Value: e.cfg.MemoryThresholdMB})
		e.metrics.RecordCheck(metrics.OutcomeOK)
		return
	}

	if !e.cfg.AutoReboot {
		e.logger.Info("memory below threshold but auto reboot is disabled",
			logger.Field{Key: "free_mb", Value: sample.FreeMB},
			logger.Field{Key: "threshold_mb", Value: e.cfg.MemoryThresholdMB})
		e.metrics.RecordCheck(metrics.OutcomeBelowThreshold)
		return
	}

	if !schedule.WithinWindow(now, e.windowStart, e.windowEnd) {
		// No retry scheduling needed, the next tick re-evaluates.
		e.logger.Info("memory below threshold, reboot deferred until window opens",
			logger.Field{Key: "free_mb", Value: sample.FreeMB},
			logger.Field{Key: "window_start", Value: windowString(e.windowStart)},
			logger.Field{Key: "window_end", Value: windowString(e.windowEnd)})
		e.metrics.RecordCheck(metrics.OutcomeDeferred)
		return
	}

	e.metrics.RecordCheck(metrics.OutcomeReboot)
	if err := e.Reboot(ctx, state.CauseLowMemory, sample.FreeMB); err != nil {
		// Already logged with the operator hint; the counter commit stands.
		return
	}
}

// Reboot runs the shared reboot procedure for the given cause. CauseTest
// always logs and always issues the command but never mutates counters;
// other causes commit their counter and timestamp before the remote call,
// because the decision to reboot is taken regardless of transport outcome.
// freeMB is the triggering sample for CauseLowMemory, 0 otherwise.
func (e *Engine) Reboot(ctx context.Context, cause state.Cause, freeMB int) error {
	now := e.now()
	isTest := cause == state.CauseTest

	if e.cfg.NotifyBeforeReboot || isTest {
		msg := rebootMessage(cause, freeMB, e.cfg.RebuildDatabaseOnReboot)
		e.logger.Warn(msg,
			logger.Field{Key: "cause", Value: string(cause)},
			logger.Field{Key: "rebuild", Value: e.cfg.RebuildDatabaseOnReboot})

		if e.cfg.NotifyBeforeReboot {
			if err := e.notifier.Notify(ctx, msg); err != nil {
				e.logger.Error("failed to send reboot notification", err)
			}
		}
	}

	if !isTest {
		var err error
		switch cause {
		case state.CausePeriodic:
			err = e.store.RecordPeriodicReboot(now)
		default:
			err = e.store.RecordReboot(now)
		}
		if err != nil {
			e.logger.Error("failed to persist reboot state", err)
		}
	}

	// Give the warning line a moment to flush before the hub goes away.
	select {
	case <-ctx.Done():
	case <-time.After(e.pause):
	}

	err := e.hub.Reboot(ctx, e.cfg.RebuildDatabaseOnReboot)
	e.metrics.RecordReboot(string(cause), err == nil)

	ev := state.RebootEvent{
		Time:    now,
		Cause:   cause,
		Rebuild: e.cfg.RebuildDatabaseOnReboot,
		FreeMB:  freeMB,
		Success: err == nil,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	if logErr := e.events.Append(ev); logErr != nil {
		e.logger.Error("failed to append reboot event", logErr)
	}

	if err != nil {
		e.logger.Error("hub reboot command failed, reboot the hub manually", err,
			logger.Field{Key: "cause", Value: string(cause)})
		return err
	}

	e.logger.Info("hub reboot command accepted",
		logger.Field{Key: "cause", Value: string(cause)})
	return nil
}

// TestReboot runs the manual trigger: always issues the command, never
// touches counters, ignores threshold, window and schedule state.
func (e *Engine) TestReboot(ctx context.Context) error {
	return e.Reboot(ctx, state.CauseTest, 0)
}

// UptimeEstimate derives the hub's availability estimate from its memory
// history depth.
func (e *Engine) UptimeEstimate(ctx context.Context) (Uptime, error) {
	rows, err := e.hub.HistorySampleCount(ctx)
	if err != nil {
		return Uptime{}, err
	}
	return UptimeFromSamples(rows), nil
}

func rebootMessage(cause state.Cause, freeMB int, rebuild bool) string {
	var msg string
	switch cause {
	case state.CauseTest:
		msg = "test reboot requested, rebooting hub"
	case state.CausePeriodic:
		msg = "periodic reboot due, rebooting hub"
	default:
		msg = fmt.Sprintf("free memory %d MB below threshold, rebooting hub", freeMB)
	}
	if rebuild {
		msg += " with database rebuild"
	}
	return msg
}

func windowString(t *schedule.TimeOfDay) string {
	if t == nil {
		return "unset"
	}
	return t.String()
}
