// Package config provides configuration loading and validation for hubmon.
// It supports TOML configuration files with environment variable expansion,
// default values, and validation that collects every problem at once.
//
// Configuration structure:
//   - [hub]: Address and timeout of the managed hub
//   - [monitor]: Memory threshold checking and the reboot window
//   - [periodic]: Calendar-based reboot schedule
//   - [notify]: Pre-reboot notification channels (Telegram)
//   - [metrics]: Prometheus listener
//   - [state]: Persisted run-state location
//   - [logging]: Logging level, format, and output
//
// Environment variables can be referenced using ${VAR} or ${VAR:default}
// syntax, e.g. token = "${HUBMON_TELEGRAM_TOKEN}".
package config

// Config represents the main application configuration.
type Config struct {
	Hub      HubConfig      `toml:"hub"`
	Monitor  MonitorConfig  `toml:"monitor"`
	Periodic PeriodicConfig `toml:"periodic"`
	Notify   NotifyConfig   `toml:"notify"`
	Metrics  MetricsConfig  `toml:"metrics"`
	State    StateConfig    `toml:"state"`
	Logging  LoggingConfig  `toml:"logging"`
}

// HubConfig describes how to reach the managed hub.
type HubConfig struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// MonitorConfig controls the periodic memory check and threshold policy.
type MonitorConfig struct {
	Enabled                 bool   `toml:"enabled"`
	MemoryThresholdMB       int    `toml:"memory_threshold_mb"`
	AutoReboot              bool   `toml:"auto_reboot"`
	RebuildDatabaseOnReboot bool   `toml:"rebuild_database_on_reboot"`
	RebootWindowStart       string `toml:"reboot_window_start"` // "HH:MM", empty = no window
	RebootWindowEnd         string `toml:"reboot_window_end"`
	CheckIntervalMinutes    int    `toml:"check_interval_minutes"`
	NotifyBeforeReboot      bool   `toml:"notify_before_reboot"`
}

// PeriodicConfig controls calendar-based reboots independent of memory
// pressure.
type PeriodicConfig struct {
	Enabled    bool   `toml:"enabled"`
	Frequency  string `toml:"frequency"`   // weekly, fortnightly, monthly
	DayOfWeek  string `toml:"day_of_week"` // SUN..SAT
	RebootTime string `toml:"reboot_time"` // "HH:MM"
}

// NotifyConfig holds notification channel settings.
type NotifyConfig struct {
	Telegram TelegramConfig `toml:"telegram"`
}

// TelegramConfig holds the Telegram notification channel settings.
type TelegramConfig struct {
	Enabled bool   `toml:"enabled"`
	Token   string `toml:"token"`
	ChatID  int64  `toml:"chat_id"`
}

// MetricsConfig controls the Prometheus metrics listener.
type MetricsConfig struct {
	Listen string `toml:"listen"` // e.g. ":9091", empty = disabled
}

// StateConfig holds the persisted run-state location.
type StateConfig struct {
	Path string `toml:"path"` // directory for state.json and events.jsonl
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}
