// Package state persists the agent's run state (check and reboot history)
// across restarts. RunState lives in a single JSON file, read at startup
// and rewritten after each mutation. An append-only JSONL log keeps one
// record per reboot attempt for auditing.
//
// The monitor cadence and the periodic one-shot timer fire on separate
// goroutines, so the store is the single writer and serializes every
// mutation behind a mutex.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aatumaykin/hubmon/internal/logger"
)

// StateFilename is the run-state file inside the state directory.
const StateFilename = "state.json"

// RunState is everything the agent remembers between restarts. Counters
// only ever grow; test reboots never touch them.
type RunState struct {
	LastCheck           *time.Time `json:"last_check,omitempty"`
	LastReboot          *time.Time `json:"last_reboot,omitempty"`
	RebootCount         int        `json:"reboot_count"`
	LastPeriodicReboot  *time.Time `json:"last_periodic_reboot,omitempty"`
	PeriodicRebootCount int        `json:"periodic_reboot_count"`
	NextPeriodicReboot  *time.Time `json:"next_periodic_reboot,omitempty"`
}

// Store owns the persisted RunState.
type Store struct {
	path   string
	logger *logger.Logger

	mu    sync.Mutex
	state RunState
}

// NewStore creates a store rooted at dir. Call Load before use.
func NewStore(dir string, log *logger.Logger) *Store {
	return &Store{
		path:   filepath.Join(dir, StateFilename),
		logger: log,
	}
}

// Load reads the state file. A missing file means a fresh install and
// yields zero state.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.state = RunState{}
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}

	var st RunState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}

	s.state = st
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RecordCheck stamps the latest check time.
func (s *Store) RecordCheck(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.LastCheck = &now
	return s.persist()
}

// RecordReboot commits a threshold-triggered reboot: bumps the counter and
// stamps the reboot time. Committed before the remote call goes out; the
// attempt counts even if transport later fails.
func (s *Store) RecordReboot(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.RebootCount++
	s.state.LastReboot = &now
	return s.persist()
}

// RecordPeriodicReboot commits a calendar-triggered reboot.
func (s *Store) RecordPeriodicReboot(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.PeriodicRebootCount++
	s.state.LastPeriodicReboot = &now
	return s.persist()
}

// SetNextPeriodicReboot records (or clears, with nil) the next scheduled
// periodic reboot instant.
func (s *Store) SetNextPeriodicReboot(t *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.NextPeriodicReboot = t
	return s.persist()
}

// persist writes the state file. Caller holds the mutex.
func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}
