package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aatumaykin/hubmon/internal/schedule"
)

// validCheckIntervals are the supported check cadences in minutes.
var validCheckIntervals = map[int]bool{1: true, 5: true, 10: true, 15: true, 30: true, 60: true}

// Load reads and parses a TOML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	expandEnvVars(&cfg)

	return &cfg, nil
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() []error {
	var errors []error

	if c.Hub.URL == "" {
		errors = append(errors, fmt.Errorf("hub.url is required"))
	} else if u, err := url.Parse(c.Hub.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, fmt.Errorf("hub.url must be a valid http(s) URL, got %q", c.Hub.URL))
	}

	if c.Hub.TimeoutSeconds < 1 {
		errors = append(errors, fmt.Errorf("hub.timeout_seconds must be >= 1"))
	}

	if c.Monitor.MemoryThresholdMB < 10 || c.Monitor.MemoryThresholdMB > 500 {
		errors = append(errors, fmt.Errorf("monitor.memory_threshold_mb must be between 10 and 500 (got %d)", c.Monitor.MemoryThresholdMB))
	}

	if !validCheckIntervals[c.Monitor.CheckIntervalMinutes] {
		errors = append(errors, fmt.Errorf("monitor.check_interval_minutes must be one of: 1, 5, 10, 15, 30, 60 (got %d)", c.Monitor.CheckIntervalMinutes))
	}

	// The reboot window is optional, but half a window is a config mistake
	// rather than "no window".
	if (c.Monitor.RebootWindowStart == "") != (c.Monitor.RebootWindowEnd == "") {
		errors = append(errors, fmt.Errorf("monitor.reboot_window_start and monitor.reboot_window_end must both be set or both be empty"))
	}
	if c.Monitor.RebootWindowStart != "" {
		if _, err := schedule.ParseTimeOfDay(c.Monitor.RebootWindowStart); err != nil {
			errors = append(errors, fmt.Errorf("monitor.reboot_window_start: %w", err))
		}
	}
	if c.Monitor.RebootWindowEnd != "" {
		if _, err := schedule.ParseTimeOfDay(c.Monitor.RebootWindowEnd); err != nil {
			errors = append(errors, fmt.Errorf("monitor.reboot_window_end: %w", err))
		}
	}

	if c.Periodic.Enabled {
		if _, err := schedule.ParseFrequency(c.Periodic.Frequency); err != nil {
			errors = append(errors, fmt.Errorf("periodic.frequency: %w", err))
		}
		if c.Periodic.DayOfWeek == "" {
			errors = append(errors, fmt.Errorf("periodic.day_of_week is required when periodic.enabled=true"))
		} else if _, err := schedule.ParseWeekday(c.Periodic.DayOfWeek); err != nil {
			errors = append(errors, fmt.Errorf("periodic.day_of_week: %w", err))
		}
		if c.Periodic.RebootTime == "" {
			errors = append(errors, fmt.Errorf("periodic.reboot_time is required when periodic.enabled=true"))
		} else if _, err := schedule.ParseTimeOfDay(c.Periodic.RebootTime); err != nil {
			errors = append(errors, fmt.Errorf("periodic.reboot_time: %w", err))
		}
	}

	if c.Notify.Telegram.Enabled {
		if c.Notify.Telegram.Token == "" {
			errors = append(errors, fmt.Errorf("notify.telegram.token is required when telegram is enabled"))
		}
		if c.Notify.Telegram.ChatID == 0 {
			errors = append(errors, fmt.Errorf("notify.telegram.chat_id is required when telegram is enabled"))
		}
	}

	if c.State.Path == "" {
		errors = append(errors, fmt.Errorf("state.path is required"))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errors = append(errors, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
	}
	if c.Logging.Output == "" {
		errors = append(errors, fmt.Errorf("logging.output is required"))
	}

	return errors
}

// RebootWindow returns the parsed reboot window bounds, or nils when the
// window is not configured. Call only after Validate.
func (c *Config) RebootWindow() (start, end *schedule.TimeOfDay) {
	if c.Monitor.RebootWindowStart == "" || c.Monitor.RebootWindowEnd == "" {
		return nil, nil
	}
	s, err := schedule.ParseTimeOfDay(c.Monitor.RebootWindowStart)
	if err != nil {
		return nil, nil
	}
	e, err := schedule.ParseTimeOfDay(c.Monitor.RebootWindowEnd)
	if err != nil {
		return nil, nil
	}
	return &s, &e
}

func expandEnvVars(c *Config) {
	if strings.HasPrefix(c.Hub.URL, "${") {
		c.Hub.URL = expandEnv(c.Hub.URL)
	}
	if strings.HasPrefix(c.Notify.Telegram.Token, "${") {
		c.Notify.Telegram.Token = expandEnv(c.Notify.Telegram.Token)
	}
	if strings.HasPrefix(c.State.Path, "${") {
		c.State.Path = expandEnv(c.State.Path)
	}
	c.State.Path = expandHome(c.State.Path)
}

// expandEnv resolves a ${VAR} or ${VAR:default} reference.
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}

	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	content := s[2:end]
	if parts := strings.SplitN(content, ":", 2); len(parts) == 2 {
		if val := os.Getenv(parts[0]); val != "" {
			return val
		}
		return parts[1]
	}

	return os.Getenv(content)
}

// expandHome resolves a leading ~ in a path.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
