package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/hubmon/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Validate and inspect Hubmon configuration.`,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate a configuration file",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath := defaultConfigPath
		if len(args) > 0 {
			configPath = args[0]
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}

		if errors := cfg.Validate(); len(errors) > 0 {
			fmt.Fprintf(os.Stderr, "Configuration is invalid (%d errors):\n", len(errors))
			for _, e := range errors {
				fmt.Fprintf(os.Stderr, "  - %v\n", e)
			}
			os.Exit(1)
		}

		fmt.Println("Configuration is valid")
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show [config-file]",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after defaults and environment expansion.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath := defaultConfigPath
		if len(args) > 0 {
			configPath = args[0]
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("hub.url: %s\n", cfg.Hub.URL)
		fmt.Printf("hub.timeout_seconds: %d\n", cfg.Hub.TimeoutSeconds)
		fmt.Printf("monitor.enabled: %t\n", cfg.Monitor.Enabled)
		fmt.Printf("monitor.memory_threshold_mb: %d\n", cfg.Monitor.MemoryThresholdMB)
		fmt.Printf("monitor.auto_reboot: %t\n", cfg.Monitor.AutoReboot)
		fmt.Printf("monitor.rebuild_database_on_reboot: %t\n", cfg.Monitor.RebuildDatabaseOnReboot)
		fmt.Printf("monitor.reboot_window: %s-%s\n", cfg.Monitor.RebootWindowStart, cfg.Monitor.RebootWindowEnd)
		fmt.Printf("monitor.check_interval_minutes: %d\n", cfg.Monitor.CheckIntervalMinutes)
		fmt.Printf("monitor.notify_before_reboot: %t\n", cfg.Monitor.NotifyBeforeReboot)
		fmt.Printf("periodic.enabled: %t\n", cfg.Periodic.Enabled)
		fmt.Printf("periodic.frequency: %s\n", cfg.Periodic.Frequency)
		fmt.Printf("periodic.day_of_week: %s\n", cfg.Periodic.DayOfWeek)
		fmt.Printf("periodic.reboot_time: %s\n", cfg.Periodic.RebootTime)
		fmt.Printf("notify.telegram.enabled: %t\n", cfg.Notify.Telegram.Enabled)
		fmt.Printf("metrics.listen: %s\n", cfg.Metrics.Listen)
		fmt.Printf("state.path: %s\n", cfg.State.Path)
		fmt.Printf("logging: %s/%s/%s\n", cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}
