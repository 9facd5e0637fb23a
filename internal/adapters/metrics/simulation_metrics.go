package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/skirmish-go/internal/domain/player"
)

// SimulationMetricsCollector handles frame pacing and session metrics
type SimulationMetricsCollector struct {
	ticksTotal    prometheus.Counter
	tickDuration  prometheus.Histogram
	liveUnits     prometheus.Gauge
	notifications *prometheus.CounterVec
	autosaves     *prometheus.CounterVec
}

// NewSimulationMetricsCollector creates a new simulation metrics collector
func NewSimulationMetricsCollector() *SimulationMetricsCollector {
	return &SimulationMetricsCollector{
		ticksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ticks_total",
				Help:      "Total number of simulated frames",
			},
		),

		// Frame compute time, well under the 33ms budget of 30 frames per second
		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_duration_seconds",
				Help:      "Frame execution duration distribution",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.02, 0.033, 0.1},
			},
		),

		liveUnits: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "live_units",
				Help:      "Units registered after the last frame",
			},
		),

		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_total",
				Help:      "Total number of player messages by severity",
			},
			[]string{"severity"},
		),

		autosaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "autosaves_total",
				Help:      "Total number of autosave attempts by status",
			},
			[]string{"status"},
		),
	}
}

// Register registers all simulation metrics with the Prometheus registry
func (c *SimulationMetricsCollector) Register() error {
	return register(c.ticksTotal, c.tickDuration, c.liveUnits, c.notifications, c.autosaves)
}

// RecordTick records one simulated frame
func (c *SimulationMetricsCollector) RecordTick(durationSeconds float64, liveUnits int) {
	c.ticksTotal.Inc()
	c.tickDuration.Observe(durationSeconds)
	c.liveUnits.Set(float64(liveUnits))
}

// RecordNotification records a delivered player message
func (c *SimulationMetricsCollector) RecordNotification(severity player.Severity) {
	c.notifications.WithLabelValues(string(severity)).Inc()
}

// RecordAutosave records an autosave attempt
func (c *SimulationMetricsCollector) RecordAutosave(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	c.autosaves.WithLabelValues(status).Inc()
}
