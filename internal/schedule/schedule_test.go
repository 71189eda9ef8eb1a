package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tod(h, m int) *TimeOfDay {
	return &TimeOfDay{Hour: h, Minute: m}
}

// at builds an instant on a fixed reference day. 2024-01-15 is a Monday.
func at(day int, h, m int) time.Time {
	return time.Date(2024, time.January, day, h, m, 0, 0, time.Local)
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"22:00", TimeOfDay{22, 0}, false},
		{"06:30", TimeOfDay{6, 30}, false},
		{"0:05", TimeOfDay{0, 5}, false},
		{"24:00", TimeOfDay{}, true},
		{"12:60", TimeOfDay{}, true},
		{"noon", TimeOfDay{}, true},
		{"", TimeOfDay{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWeekday(t *testing.T) {
	got, err := ParseWeekday("SUN")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, got)

	got, err = ParseWeekday("sat")
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, got)

	_, err = ParseWeekday("MONDAY")
	assert.Error(t, err)
}

func TestFrequencyDays(t *testing.T) {
	assert.Equal(t, 7, Weekly.Days())
	assert.Equal(t, 14, Fortnightly.Days())
	assert.Equal(t, 28, Monthly.Days())
}

func TestParseFrequency(t *testing.T) {
	f, err := ParseFrequency("fortnightly")
	require.NoError(t, err)
	assert.Equal(t, Fortnightly, f)

	_, err = ParseFrequency("biweekly")
	assert.Error(t, err)
}

func TestWithinWindowSpanningMidnight(t *testing.T) {
	start, end := tod(22, 0), tod(6, 0)

	assert.True(t, WithinWindow(at(15, 23, 0), start, end))
	assert.True(t, WithinWindow(at(15, 5, 0), start, end))
	assert.False(t, WithinWindow(at(15, 12, 0), start, end))
	assert.True(t, WithinWindow(at(15, 22, 0), start, end), "window start is inclusive")
	assert.True(t, WithinWindow(at(15, 6, 0), start, end), "window end is inclusive")
}

func TestWithinWindowSameDay(t *testing.T) {
	start, end := tod(9, 0), tod(17, 0)

	assert.True(t, WithinWindow(at(15, 10, 0), start, end))
	assert.False(t, WithinWindow(at(15, 20, 0), start, end))
	assert.False(t, WithinWindow(at(15, 8, 59), start, end))
}

func TestWithinWindowUnconfigured(t *testing.T) {
	assert.False(t, WithinWindow(at(15, 12, 0), nil, tod(17, 0)))
	assert.False(t, WithinWindow(at(15, 12, 0), tod(9, 0), nil))
	assert.False(t, WithinWindow(at(15, 12, 0), nil, nil))
}

func TestNextWeeklySameDayTimePassed(t *testing.T) {
	// Monday 10:00, target Monday 09:00: a full week out, not today.
	now := at(15, 10, 0)
	got := NextWeekly(now, TimeOfDay{9, 0}, time.Monday)

	assert.Equal(t, at(22, 9, 0), got)
	assert.True(t, got.After(now))
}

func TestNextWeeklySameDayTimeAhead(t *testing.T) {
	// Monday 08:00, target Monday 09:00: later today.
	got := NextWeekly(at(15, 8, 0), TimeOfDay{9, 0}, time.Monday)
	assert.Equal(t, at(15, 9, 0), got)
}

func TestNextWeeklyOtherDay(t *testing.T) {
	// Monday 10:00, target Thursday 03:30.
	got := NextWeekly(at(15, 10, 0), TimeOfDay{3, 30}, time.Thursday)
	assert.Equal(t, at(18, 3, 30), got)
}

func TestNextWeeklyExactInstantAdvances(t *testing.T) {
	// The result is strictly in the future even when now is exactly the
	// target instant.
	now := at(15, 9, 0)
	got := NextWeekly(now, TimeOfDay{9, 0}, time.Monday)
	assert.Equal(t, at(22, 9, 0), got)
}

func TestNextRecurrence(t *testing.T) {
	prev := at(15, 3, 30)

	assert.Equal(t, prev.Add(7*24*time.Hour), NextRecurrence(prev, Weekly))
	assert.Equal(t, prev.Add(14*24*time.Hour), NextRecurrence(prev, Fortnightly))
	assert.Equal(t, prev.Add(28*24*time.Hour), NextRecurrence(prev, Monthly))
}
