package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/hubmon/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "debug", Format: "text", Output: "stdout"})
	require.NoError(t, err)
	return log
}

func TestLoadFreshInstall(t *testing.T) {
	s := NewStore(t.TempDir(), testLogger(t))
	require.NoError(t, s.Load())

	st := s.Snapshot()
	assert.Nil(t, st.LastCheck)
	assert.Nil(t, st.LastReboot)
	assert.Zero(t, st.RebootCount)
	assert.Zero(t, st.PeriodicRebootCount)
	assert.Nil(t, st.NextPeriodicReboot)
}

func TestStateSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	log := testLogger(t)

	s := NewStore(dir, log)
	require.NoError(t, s.Load())

	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordCheck(now))
	require.NoError(t, s.RecordReboot(now))
	require.NoError(t, s.RecordPeriodicReboot(now.Add(time.Hour)))
	next := now.Add(7 * 24 * time.Hour)
	require.NoError(t, s.SetNextPeriodicReboot(&next))

	// Simulate a restart.
	s2 := NewStore(dir, log)
	require.NoError(t, s2.Load())

	st := s2.Snapshot()
	require.NotNil(t, st.LastCheck)
	assert.True(t, st.LastCheck.Equal(now))
	assert.Equal(t, 1, st.RebootCount)
	assert.Equal(t, 1, st.PeriodicRebootCount)
	require.NotNil(t, st.NextPeriodicReboot)
	assert.True(t, st.NextPeriodicReboot.Equal(next))
}

func TestCountersMonotonic(t *testing.T) {
	s := NewStore(t.TempDir(), testLogger(t))
	require.NoError(t, s.Load())

	now := time.Now()
	prev := s.Snapshot()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.RecordReboot(now))
		require.NoError(t, s.RecordPeriodicReboot(now))

		st := s.Snapshot()
		assert.Greater(t, st.RebootCount, prev.RebootCount)
		assert.Greater(t, st.PeriodicRebootCount, prev.PeriodicRebootCount)
		prev = st
	}
	assert.Equal(t, 5, prev.RebootCount)
	assert.Equal(t, 5, prev.PeriodicRebootCount)
}

func TestLoadCorruptStateFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateFilename), []byte("{broken"), 0644))

	s := NewStore(dir, testLogger(t))
	assert.Error(t, s.Load())
}

func TestClearNextPeriodicReboot(t *testing.T) {
	s := NewStore(t.TempDir(), testLogger(t))
	require.NoError(t, s.Load())

	next := time.Now().Add(time.Hour)
	require.NoError(t, s.SetNextPeriodicReboot(&next))
	require.NotNil(t, s.Snapshot().NextPeriodicReboot)

	require.NoError(t, s.SetNextPeriodicReboot(nil))
	assert.Nil(t, s.Snapshot().NextPeriodicReboot)
}

func TestEventLogAppendLoad(t *testing.T) {
	l := NewEventLog(t.TempDir(), testLogger(t))

	require.NoError(t, l.Append(RebootEvent{
		Time:    time.Now(),
		Cause:   CauseLowMemory,
		FreeMB:  40,
		Success: true,
	}))
	require.NoError(t, l.Append(RebootEvent{
		Time:    time.Now(),
		Cause:   CauseTest,
		Success: false,
		Error:   "connection refused",
	}))

	events, err := l.Load()
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.NotEmpty(t, events[0].ID)
	assert.NotEmpty(t, events[1].ID)
	assert.NotEqual(t, events[0].ID, events[1].ID)
	assert.Equal(t, CauseLowMemory, events[0].Cause)
	assert.Equal(t, 40, events[0].FreeMB)
	assert.Equal(t, CauseTest, events[1].Cause)
	assert.Equal(t, "connection refused", events[1].Error)
}

func TestEventLogMissingFile(t *testing.T) {
	l := NewEventLog(t.TempDir(), testLogger(t))

	events, err := l.Load()
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventLogSkipsCorruptLines(t *testing.T) {
	dir := t.TempDir()
	l := NewEventLog(dir, testLogger(t))

	require.NoError(t, l.Append(RebootEvent{Cause: CausePeriodic, Success: true}))

	f, err := os.OpenFile(filepath.Join(dir, EventsFilename), os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, l.Append(RebootEvent{Cause: CauseTest, Success: true}))

	events, err := l.Load()
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
