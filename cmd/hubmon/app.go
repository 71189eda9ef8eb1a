package main

import (
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aatumaykin/hubmon/internal/config"
	"github.com/aatumaykin/hubmon/internal/hub"
	"github.com/aatumaykin/hubmon/internal/logger"
	"github.com/aatumaykin/hubmon/internal/metrics"
	"github.com/aatumaykin/hubmon/internal/monitor"
	"github.com/aatumaykin/hubmon/internal/notify"
	"github.com/aatumaykin/hubmon/internal/state"
)

const defaultConfigPath = "./config.toml"

// app bundles the wired components every subcommand needs.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	hub     *hub.Client
	store   *state.Store
	events  *state.EventLog
	metrics *metrics.Metrics
	engine  *monitor.Engine
}

// loadConfig loads and validates configuration, printing every problem
// before exiting on failure.
func loadConfig(path, logLevel string) *config.Config {
	if err := config.LoadEnvOptional("./.env"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if errors := cfg.Validate(); len(errors) > 0 {
		fmt.Fprintln(os.Stderr, "Configuration validation failed:")
		for _, e := range errors {
			fmt.Fprintf(os.Stderr, "  - %v\n", e)
		}
		os.Exit(1)
	}

	return cfg
}

// newApp wires the components from validated configuration.
func newApp(cfg *config.Config) (*app, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetDefault(log)

	hubClient := hub.NewClient(cfg.Hub.URL, time.Duration(cfg.Hub.TimeoutSeconds)*time.Second, log)

	store := state.NewStore(cfg.State.Path, log)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load run state: %w", err)
	}
	events := state.NewEventLog(cfg.State.Path, log)

	m := metrics.New("hubmon", prometheus.DefaultRegisterer)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.Notify.Telegram.Enabled {
		tg, err := notify.NewTelegram(cfg.Notify.Telegram, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telegram notifier: %w", err)
		}
		notifier = tg
	}

	engine := monitor.NewEngine(cfg, hubClient, store, events, m, notifier, log)

	return &app{
		cfg:     cfg,
		log:     log,
		hub:     hubClient,
		store:   store,
		events:  events,
		metrics: m,
		engine:  engine,
	}, nil
}
