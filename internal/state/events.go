package state

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aatumaykin/hubmon/internal/logger"
)

// EventsFilename is the reboot event log inside the state directory.
const EventsFilename = "events.jsonl"

// Cause identifies what triggered a reboot.
type Cause string

const (
	CauseTest      Cause = "test"
	CauseLowMemory Cause = "low_memory"
	CausePeriodic  Cause = "periodic"
)

// RebootEvent is one reboot attempt, successful or not.
type RebootEvent struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Cause   Cause     `json:"cause"`
	Rebuild bool      `json:"rebuild,omitempty"`
	FreeMB  int       `json:"free_mb,omitempty"` // memory at trigger, low_memory only
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

// EventLog is an append-only JSONL log of reboot events, one JSON object
// per line.
type EventLog struct {
	path   string
	logger *logger.Logger
	mu     sync.Mutex
}

// NewEventLog creates an event log rooted at dir.
func NewEventLog(dir string, log *logger.Logger) *EventLog {
	return &EventLog{
		path:   filepath.Join(dir, EventsFilename),
		logger: log,
	}
}

// Append writes one event to the log, assigning an ID if absent.
func (l *EventLog) Append(ev RebootEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	return nil
}

// Load reads all events from the log. A missing file yields an empty
// slice. Corrupt lines are skipped with a logged error so one bad write
// never hides the rest of the history.
func (l *EventLog) Load() ([]RebootEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RebootEvent{}, nil
		}
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	defer file.Close()

	var events []RebootEvent
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		var ev RebootEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			l.logger.Error("failed to unmarshal event line", err,
				logger.Field{Key: "file", Value: l.path},
				logger.Field{Key: "line", Value: lineNum})
			continue
		}

		events = append(events, ev)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning event log: %w", err)
	}

	return events, nil
}
