package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
)

var statusConfigPath string

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show hub memory, uptime estimate and run state",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(statusConfigPath, "error")

		a, err := newApp(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		fmt.Printf("Hub: %s\n", cfg.Hub.URL)

		sample, err := a.hub.FreeMemory(ctx)
		if err != nil {
			fmt.Printf("  memory: unavailable (%v)\n", err)
		} else {
			fmt.Printf("  memory: %d MB free of %d MB (%d%% used, total is a %s)\n",
				sample.FreeMB, sample.TotalMB, sample.PercentUsed, sample.Confidence)
		}

		up, err := a.engine.UptimeEstimate(ctx)
		if err != nil {
			fmt.Printf("  uptime: unavailable (%v)\n", err)
		} else {
			fmt.Printf("  uptime: at least %s (history-based estimate)\n", up)
		}

		st := a.store.Snapshot()
		fmt.Println("Run state:")
		fmt.Printf("  last check:            %s\n", formatTime(st.LastCheck))
		fmt.Printf("  last reboot:           %s (count %d)\n", formatTime(st.LastReboot), st.RebootCount)
		fmt.Printf("  last periodic reboot:  %s (count %d)\n", formatTime(st.LastPeriodicReboot), st.PeriodicRebootCount)
		fmt.Printf("  next periodic reboot:  %s\n", formatTime(st.NextPeriodicReboot))

		printAgentHostStats()
	},
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format(time.RFC3339)
}

// printAgentHostStats reports the machine hubmon itself runs on, handy
// when the agent host is a small always-on box of its own.
func printAgentHostStats() {
	fmt.Println("Agent host:")

	if vm, err := mem.VirtualMemory(); err == nil {
		fmt.Printf("  memory: %.0f MB free of %.0f MB (%.1f%% used)\n",
			float64(vm.Available)/1024/1024, float64(vm.Total)/1024/1024, vm.UsedPercent)
	}
	if up, err := host.Uptime(); err == nil {
		fmt.Printf("  uptime: %s\n", (time.Duration(up) * time.Second).String())
	}
}

func init() {
	statusCmd.Flags().StringVarP(&statusConfigPath, "config", "c", "", "path to config file (default ./config.toml)")
}
