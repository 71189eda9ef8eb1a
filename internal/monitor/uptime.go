package monitor

import (
	"fmt"
	"strings"
)

// SampleIntervalMinutes is how often the hub records a memory history
// sample. One history row therefore stands for five minutes of uptime.
const SampleIntervalMinutes = 5

// Uptime is a lower-bound availability estimate derived from the depth of
// the hub's retained memory history, not a true boot-time uptime. It is
// bounded by how much history the hub keeps; callers must not treat it as
// authoritative.
type Uptime struct {
	Minutes int
}

// UptimeFromSamples converts a history row count into an estimate.
func UptimeFromSamples(rows int) Uptime {
	return Uptime{Minutes: rows * SampleIntervalMinutes}
}

// Days returns the whole-day component.
func (u Uptime) Days() int { return u.Minutes / (24 * 60) }

// Hours returns the hour component after whole days.
func (u Uptime) Hours() int { return (u.Minutes % (24 * 60)) / 60 }

// RemMinutes returns the minute component after whole hours.
func (u Uptime) RemMinutes() int { return u.Minutes % 60 }

// String formats the estimate for display. Minutes always appear; hours
// appear when nonzero or when days are shown; days appear when nonzero.
func (u Uptime) String() string {
	var parts []string

	days, hours, mins := u.Days(), u.Hours(), u.RemMinutes()
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	parts = append(parts, plural(mins, "minute"))

	return strings.Join(parts, ", ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
