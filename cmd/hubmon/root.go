package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hubmon",
	Short: "Hubmon - hub memory watchdog and reboot agent",
	Long: `Hubmon watches a hub appliance's free memory over HTTP and reboots it
when memory drops below a threshold inside a permitted time window. It can
also reboot the hub on a fixed weekly, fortnightly or monthly schedule.`,
	Version: Version,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rebootCmd)
	rootCmd.AddCommand(statusCmd)
}
