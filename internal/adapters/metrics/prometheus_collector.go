package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
)

const (
	// Namespace for all metrics
	namespace = "skirmish"
	// Subsystem for simulation metrics
	subsystem = "simulation"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalSimulationCollector is the singleton frame metrics collector
	// Set by SetGlobalSimulationCollector() when metrics are enabled
	globalSimulationCollector SimulationMetricsRecorder

	// globalLedgerCollector is the singleton ledger metrics collector
	// Set by SetGlobalLedgerCollector() when metrics are enabled
	globalLedgerCollector LedgerMetricsRecorder
)

// SimulationMetricsRecorder defines the interface for recording frame and session events
type SimulationMetricsRecorder interface {
	RecordTick(durationSeconds float64, liveUnits int)
	RecordNotification(severity player.Severity)
	RecordAutosave(success bool)
}

// LedgerMetricsRecorder defines the interface for recording resource movements
type LedgerMetricsRecorder interface {
	RecordTransaction(tx *resource.Transaction)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalSimulationCollector sets the global frame metrics collector
func SetGlobalSimulationCollector(collector SimulationMetricsRecorder) {
	globalSimulationCollector = collector
}

// RecordTick records one simulated frame globally
func RecordTick(durationSeconds float64, liveUnits int) {
	if globalSimulationCollector != nil {
		globalSimulationCollector.RecordTick(durationSeconds, liveUnits)
	}
}

// RecordNotification records a delivered player message globally
func RecordNotification(severity player.Severity) {
	if globalSimulationCollector != nil {
		globalSimulationCollector.RecordNotification(severity)
	}
}

// RecordAutosave records an autosave attempt globally
func RecordAutosave(success bool) {
	if globalSimulationCollector != nil {
		globalSimulationCollector.RecordAutosave(success)
	}
}

// SetGlobalLedgerCollector sets the global ledger metrics collector
func SetGlobalLedgerCollector(collector LedgerMetricsRecorder) {
	globalLedgerCollector = collector
}

// RecordTransaction records a ledger movement globally
func RecordTransaction(tx *resource.Transaction) {
	if globalLedgerCollector != nil {
		globalLedgerCollector.RecordTransaction(tx)
	}
}

func register(collectors ...prometheus.Collector) error {
	if Registry == nil {
		return nil // Metrics not enabled
	}
	for _, c := range collectors {
		if err := Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}
