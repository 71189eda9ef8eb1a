// Package schedule provides the time arithmetic behind reboot scheduling:
// daily permission windows (which may span midnight), the next occurrence
// of a weekday+time pair, and fixed-offset recurrence for periodic reboots.
// All functions are pure; validation happens at construction time.
package schedule

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time without a date, e.g. 22:30.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" in 24-hour notation.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var tod TimeOfDay
	if _, err := fmt.Sscanf(s, "%d:%d", &tod.Hour, &tod.Minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q (expected HH:MM): %w", s, err)
	}
	if tod.Hour < 0 || tod.Hour > 23 || tod.Minute < 0 || tod.Minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return tod, nil
}

// On resolves the time of day to a concrete instant on the same calendar
// day as ref, in ref's location.
func (t TimeOfDay) On(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour, t.Minute, 0, 0, ref.Location())
}

// String formats the time of day as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseWeekday parses a three-letter day name (SUN..SAT, case-insensitive).
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SUN":
		return time.Sunday, nil
	case "MON":
		return time.Monday, nil
	case "TUE":
		return time.Tuesday, nil
	case "WED":
		return time.Wednesday, nil
	case "THU":
		return time.Thursday, nil
	case "FRI":
		return time.Friday, nil
	case "SAT":
		return time.Saturday, nil
	default:
		return 0, fmt.Errorf("invalid day of week %q (expected SUN..SAT)", s)
	}
}

// Frequency is the cadence of periodic reboots.
type Frequency int

const (
	Weekly Frequency = iota
	Fortnightly
	Monthly
)

// ParseFrequency parses a frequency name.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly":
		return Weekly, nil
	case "fortnightly":
		return Fortnightly, nil
	case "monthly":
		return Monthly, nil
	default:
		return 0, fmt.Errorf("invalid frequency %q (expected weekly, fortnightly, monthly)", s)
	}
}

// Days returns the recurrence offset in days. Monthly is a fixed 28-day
// approximation, not calendar-month arithmetic; callers rely on the
// resulting dates staying stable, so this must not be "corrected".
func (f Frequency) Days() int {
	switch f {
	case Fortnightly:
		return 14
	case Monthly:
		return 28
	default:
		return 7
	}
}

// String returns the frequency name.
func (f Frequency) String() string {
	switch f {
	case Fortnightly:
		return "fortnightly"
	case Monthly:
		return "monthly"
	default:
		return "weekly"
	}
}

// WithinWindow reports whether now falls inside the daily window between
// start and end, both resolved to now's calendar day. A window whose end
// precedes its start spans midnight. A nil start or end means the window
// is not configured and the answer is false.
func WithinWindow(now time.Time, start, end *TimeOfDay) bool {
	if start == nil || end == nil {
		return false
	}

	s := start.On(now)
	e := end.On(now)

	if e.Before(s) {
		// Spans midnight, e.g. 22:00-06:00.
		return !now.Before(s) || !now.After(e)
	}
	return !now.Before(s) && !now.After(e)
}

// NextWeekly returns the first instant strictly after now that falls on
// target's weekday at the given time of day. If today is already the
// target weekday but the time has passed, the result is a full week out.
func NextWeekly(now time.Time, tod TimeOfDay, target time.Weekday) time.Time {
	candidate := tod.On(now)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	for candidate.Weekday() != target {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

// NextRecurrence returns the occurrence following prev for the given
// frequency. The offset is a fixed number of days from the previous
// scheduled instant, so late firings never drift the cadence.
func NextRecurrence(prev time.Time, freq Frequency) time.Time {
	return prev.Add(time.Duration(freq.Days()) * 24 * time.Hour)
}
