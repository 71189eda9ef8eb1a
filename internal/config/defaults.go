package config

const (
	// DefaultThresholdMB is the free-memory floor below which the monitor
	// considers the hub under pressure.
	DefaultThresholdMB = 200

	// DefaultCheckIntervalMinutes is the cadence of memory checks.
	DefaultCheckIntervalMinutes = 15

	// DefaultHubTimeoutSeconds bounds every HTTP call to the hub.
	DefaultHubTimeoutSeconds = 5

	// DefaultStatePath is where run state and the reboot event log live.
	DefaultStatePath = "~/.hubmon"
)

func applyDefaults(c *Config) {
	if c.Hub.TimeoutSeconds == 0 {
		c.Hub.TimeoutSeconds = DefaultHubTimeoutSeconds
	}

	if c.Monitor.MemoryThresholdMB == 0 {
		c.Monitor.MemoryThresholdMB = DefaultThresholdMB
	}
	if c.Monitor.CheckIntervalMinutes == 0 {
		c.Monitor.CheckIntervalMinutes = DefaultCheckIntervalMinutes
	}

	if c.Periodic.Frequency == "" {
		c.Periodic.Frequency = "weekly"
	}

	if c.State.Path == "" {
		c.State.Path = DefaultStatePath
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}
