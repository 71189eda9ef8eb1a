// Package metrics exposes Prometheus instrumentation for the monitor:
// check cycle outcomes, reboot attempts by cause, and the latest hub
// memory reading.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Check cycle outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeFetchError     = "fetch_error"
	OutcomeBelowThreshold = "below_threshold"
	OutcomeDeferred       = "deferred"
	OutcomeReboot         = "reboot"
)

// Metrics holds the registered collectors.
type Metrics struct {
	registry           prometheus.Registerer
	checksTotal        *prometheus.CounterVec
	rebootsTotal       *prometheus.CounterVec
	freeMemoryMB       prometheus.Gauge
	memoryUsedPercent  prometheus.Gauge
	nextPeriodicReboot prometheus.Gauge
}

// New creates and registers the monitor's collectors.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		registry: reg,
		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checks_total",
				Help:      "Total number of memory check cycles by outcome",
			},
			[]string{"outcome"},
		),
		rebootsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reboots_total",
				Help:      "Total number of reboot attempts by cause and result",
			},
			[]string{"cause", "result"},
		),
		freeMemoryMB: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "hub_free_memory_mb",
				Help:      "Free memory reported by the hub, in megabytes",
			},
		),
		memoryUsedPercent: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "hub_memory_used_percent",
				Help:      "Used memory percentage derived from the heuristic total",
			},
		),
		nextPeriodicReboot: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "next_periodic_reboot_timestamp_seconds",
				Help:      "Unix time of the next scheduled periodic reboot, 0 when unscheduled",
			},
		),
	}

	reg.MustRegister(
		m.checksTotal,
		m.rebootsTotal,
		m.freeMemoryMB,
		m.memoryUsedPercent,
		m.nextPeriodicReboot,
	)

	return m
}

// RecordCheck counts one check cycle with the given outcome.
func (m *Metrics) RecordCheck(outcome string) {
	m.checksTotal.WithLabelValues(outcome).Inc()
}

// RecordReboot counts one reboot attempt.
func (m *Metrics) RecordReboot(cause string, success bool) {
	result := "ok"
	if !success {
		result = "error"
	}
	m.rebootsTotal.WithLabelValues(cause, result).Inc()
}

// SetMemory records the latest hub memory reading.
func (m *Metrics) SetMemory(freeMB, percentUsed int) {
	m.freeMemoryMB.Set(float64(freeMB))
	m.memoryUsedPercent.Set(float64(percentUsed))
}

// SetNextPeriodicReboot records the next scheduled periodic reboot, or
// clears it when t is nil.
func (m *Metrics) SetNextPeriodicReboot(t *time.Time) {
	if t == nil {
		m.nextPeriodicReboot.Set(0)
		return
	}
	m.nextPeriodicReboot.Set(float64(t.Unix()))
}
