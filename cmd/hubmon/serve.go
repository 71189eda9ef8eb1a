package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aatumaykin/hubmon/internal/logger"
	"github.com/aatumaykin/hubmon/internal/periodic"
)

var (
	serveConfigPath string
	serveLogLevel   string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the monitoring daemon (main command)",
	Long: `Start Hubmon with the given configuration. This initializes all
components (logger, hub client, monitor engine, periodic scheduler,
optional metrics listener) and handles graceful shutdown.`,
	Run: serveHandler,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "path to config file (default ./config.toml)")
	serveCmd.Flags().StringVarP(&serveLogLevel, "log-level", "l", "", "override logging level")
}

func serveHandler(cmd *cobra.Command, args []string) {
	cfg := loadConfig(serveConfigPath, serveLogLevel)

	a, err := newApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	log := a.log

	log.Info("starting hubmon",
		logger.Field{Key: "version", Value: Version},
		logger.Field{Key: "git_commit", Value: GitCommit},
		logger.Field{Key: "hub", Value: cfg.Hub.URL},
		logger.Field{Key: "state_path", Value: cfg.State.Path},
		logger.Field{Key: "monitor_enabled", Value: cfg.Monitor.Enabled},
		logger.Field{Key: "periodic_enabled", Value: cfg.Periodic.Enabled})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := a.engine.Start(ctx); err != nil {
		log.Error("failed to start monitor engine", err)
		os.Exit(1)
	}

	sched := periodic.NewScheduler(cfg, a.engine, a.store, a.metrics, log)
	if err := sched.Start(ctx); err != nil {
		log.Error("failed to start periodic scheduler", err)
		os.Exit(1)
	}

	if cfg.Metrics.Listen != "" {
		go serveMetrics(cfg.Metrics.Listen, log)
	}

	sig := <-sigChan
	log.Info("shutting down", logger.Field{Key: "signal", Value: sig.String()})

	if sched.IsStarted() {
		if err := sched.Stop(); err != nil {
			log.Error("failed to stop periodic scheduler", err)
		}
	}
	if a.engine.IsStarted() {
		if err := a.engine.Stop(); err != nil {
			log.Error("failed to stop monitor engine", err)
		}
	}
	cancel()
}

func serveMetrics(listen string, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	log.Info("metrics listener started", logger.Field{Key: "listen", Value: listen})
	if err := http.ListenAndServe(listen, mux); err != nil {
		log.Error("metrics listener failed", err)
	}
}
