package hub

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aatumaykin/hubmon/internal/logger"
)

// Confidence qualifies how a sample value was obtained.
type Confidence string

const (
	// ConfidenceHeuristic marks values inferred rather than measured.
	// The hub only reports free memory; total installed memory is guessed
	// from it, so everything derived from the total inherits this marker.
	ConfidenceHeuristic Confidence = "heuristic"
)

// MemorySample is one point-in-time view of hub memory. FreeMB comes from
// the hub; TotalMB, UsedMB and PercentUsed are derived via the total-memory
// heuristic and must not be treated as measured fact.
type MemorySample struct {
	FreeMB      int
	TotalMB     int
	UsedMB      int
	PercentUsed int
	Confidence  Confidence
}

// FreeMemory fetches the hub's current free memory and derives a sample.
// The endpoint returns free kilobytes as a bare numeric string.
func (c *Client) FreeMemory(ctx context.Context) (MemorySample, error) {
	body, err := c.get(ctx, pathFreeMemory)
	if err != nil {
		return MemorySample{}, err
	}

	raw := strings.TrimSpace(body)
	freeKB, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return MemorySample{}, fmt.Errorf("unparseable free memory value %q: %w", raw, err)
	}
	if freeKB < 0 {
		return MemorySample{}, fmt.Errorf("negative free memory value %q", raw)
	}

	sample := DeriveSample(freeKB)
	c.logger.Debug("fetched hub memory sample",
		logger.Field{Key: "free_mb", Value: sample.FreeMB},
		logger.Field{Key: "total_mb", Value: sample.TotalMB},
		logger.Field{Key: "percent_used", Value: sample.PercentUsed})

	return sample, nil
}

// DeriveSample builds a MemorySample from a free-kilobytes reading.
//
// The hub exposes no total-memory counter, so the total is inferred: more
// than 1000 MB free can only happen on a 2048 MB hub, anything else is
// assumed to be the 1024 MB model. A 1024 MB hub with exactly 1000 MB free
// stays at 1024 (the comparison is strict). This is a coarse, documented
// approximation; no better data source exists.
func DeriveSample(freeKB float64) MemorySample {
	freeMB := int(math.Round(freeKB / 1024))

	totalMB := 1024
	if freeMB > 1000 {
		totalMB = 2048
	}

	usedMB := totalMB - freeMB
	percent := int(math.Round(float64(usedMB) / float64(totalMB) * 100))

	return MemorySample{
		FreeMB:      freeMB,
		TotalMB:     totalMB,
		UsedMB:      usedMB,
		PercentUsed: percent,
		Confidence:  ConfidenceHeuristic,
	}
}

// HistorySampleCount fetches the hub's memory-sample history CSV and
// returns the number of data rows. Each row is one 5-minute sample; the
// first line is a header beginning with "Date/time".
func (c *Client) HistorySampleCount(ctx context.Context) (int, error) {
	body, err := c.get(ctx, pathMemoryHistory)
	if err != nil {
		return 0, err
	}

	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], historyHeaderPrefix) {
		return 0, fmt.Errorf("unexpected history format: missing %q header", historyHeaderPrefix)
	}

	count := 0
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}

	return count, nil
}
