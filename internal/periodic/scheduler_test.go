package periodic

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/hubmon/internal/config"
	"github.com/aatumaykin/hubmon/internal/logger"
	"github.com/aatumaykin/hubmon/internal/metrics"
	"github.com/aatumaykin/hubmon/internal/state"
)

type fakeRebooter struct {
	mu     sync.Mutex
	calls  int
	causes []state.Cause
	err    error
}

func (f *fakeRebooter) Reboot(_ context.Context, cause state.Cause, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.causes = append(f.causes, cause)
	return f.err
}

func (f *fakeRebooter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "debug", Format: "text", Output: "stdout"})
	require.NoError(t, err)
	return log
}

// monday is a fixed Monday 10:00 local reference instant.
var monday = time.Date(2024, time.January, 15, 10, 0, 0, 0, time.Local)

func newTestScheduler(t *testing.T, pc config.PeriodicConfig, r Rebooter) (*Scheduler, *state.Store) {
	t.Helper()

	log := testLogger(t)
	store := state.NewStore(t.TempDir(), log)
	require.NoError(t, store.Load())

	cfg := &config.Config{Periodic: pc}
	s := NewScheduler(cfg, r, store, metrics.New("hubmon", prometheus.NewRegistry()), log)
	s.now = func() time.Time { return monday }
	return s, store
}

func TestStartSchedulesNextOccurrence(t *testing.T) {
	s, store := newTestScheduler(t, config.PeriodicConfig{
		Enabled:    true,
		Frequency:  "weekly",
		DayOfWeek:  "SUN",
		RebootTime: "03:30",
	}, &fakeRebooter{})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop() //nolint:errcheck

	st := store.Snapshot()
	require.NotNil(t, st.NextPeriodicReboot)

	// Next Sunday 03:30 after Monday 10:00.
	want := time.Date(2024, time.January, 21, 3, 30, 0, 0, time.Local)
	assert.True(t, st.NextPeriodicReboot.Equal(want), "got %v", st.NextPeriodicReboot)
	assert.True(t, st.NextPeriodicReboot.After(monday))
	assert.True(t, s.IsStarted())
}

func TestStartDisabledClearsSchedule(t *testing.T) {
	s, store := newTestScheduler(t, config.PeriodicConfig{Enabled: false}, &fakeRebooter{})

	stale := monday.Add(time.Hour)
	require.NoError(t, store.SetNextPeriodicReboot(&stale))

	require.NoError(t, s.Start(context.Background()))

	assert.Nil(t, store.Snapshot().NextPeriodicReboot)
	assert.False(t, s.IsStarted())
}

func TestStartIncompleteConfigClearsSchedule(t *testing.T) {
	s, store := newTestScheduler(t, config.PeriodicConfig{
		Enabled:   true,
		Frequency: "weekly",
		DayOfWeek: "SUN",
		// RebootTime missing.
	}, &fakeRebooter{})

	require.NoError(t, s.Start(context.Background()))

	assert.Nil(t, store.Snapshot().NextPeriodicReboot)
	assert.False(t, s.IsStarted())
}

func TestFireRebootsAndReArmsWithoutDrift(t *testing.T) {
	r := &fakeRebooter{}
	s, store := newTestScheduler(t, config.PeriodicConfig{
		Enabled:    true,
		Frequency:  "fortnightly",
		DayOfWeek:  "SUN",
		RebootTime: "03:30",
	}, r)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop() //nolint:errcheck

	scheduled := *store.Snapshot().NextPeriodicReboot

	// The timer fires late in real life; firing directly stands in for
	// that. The next occurrence still derives from the scheduled instant.
	s.fire(scheduled)

	assert.Equal(t, 1, r.callCount())
	assert.Equal(t, state.CausePeriodic, r.causes[0])

	st := store.Snapshot()
	require.NotNil(t, st.NextPeriodicReboot)
	assert.True(t, st.NextPeriodicReboot.Equal(scheduled.Add(14*24*time.Hour)),
		"re-arm must use the scheduled instant, got %v", st.NextPeriodicReboot)
}

func TestFireKeepsScheduleOnRebootFailure(t *testing.T) {
	r := &fakeRebooter{err: errors.New("hub unreachable")}
	s, store := newTestScheduler(t, config.PeriodicConfig{
		Enabled:    true,
		Frequency:  "weekly",
		DayOfWeek:  "SUN",
		RebootTime: "03:30",
	}, r)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop() //nolint:errcheck

	scheduled := *store.Snapshot().NextPeriodicReboot
	s.fire(scheduled)

	st := store.Snapshot()
	require.NotNil(t, st.NextPeriodicReboot)
	assert.True(t, st.NextPeriodicReboot.Equal(scheduled.Add(7*24*time.Hour)))
}

func TestStopCancelsTimer(t *testing.T) {
	s, _ := newTestScheduler(t, config.PeriodicConfig{
		Enabled:    true,
		Frequency:  "weekly",
		DayOfWeek:  "SUN",
		RebootTime: "03:30",
	}, &fakeRebooter{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	assert.Error(t, s.Start(ctx), "double start should fail")

	require.NoError(t, s.Stop())
	assert.False(t, s.IsStarted())
	assert.Error(t, s.Stop(), "double stop should fail")
}
