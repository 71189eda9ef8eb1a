package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var rebootConfigPath string

// rebootCmd represents the manual test-reboot trigger. It always issues
// the reboot command, regardless of threshold, window or schedule, and
// never touches the reboot counters.
var rebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Issue a test reboot to the hub now",
	Long: `Run the reboot procedure immediately as a test: the reboot command is
sent regardless of memory state, reboot window or schedule, and the
reboot counters are left untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(rebootConfigPath, "")

		a, err := newApp(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := a.engine.TestReboot(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Test reboot failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Test reboot command accepted by hub")
	},
}

func init() {
	rebootCmd.Flags().StringVarP(&rebootConfigPath, "config", "c", "", "path to config file (default ./config.toml)")
}
