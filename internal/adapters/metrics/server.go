package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup initializes the registry, registers every collector and installs the
// global recorders. The returned repair collector is meant to be passed to the
// simulation as its order observer.
func Setup() (*RepairMetricsCollector, error) {
	InitRegistry()

	simulation := NewSimulationMetricsCollector()
	if err := simulation.Register(); err != nil {
		return nil, fmt.Errorf("failed to register simulation metrics: %w", err)
	}
	SetGlobalSimulationCollector(simulation)

	ledger := NewLedgerMetricsCollector()
	if err := ledger.Register(); err != nil {
		return nil, fmt.Errorf("failed to register ledger metrics: %w", err)
	}
	SetGlobalLedgerCollector(ledger)

	repair := NewRepairMetricsCollector()
	if err := repair.Register(); err != nil {
		return nil, fmt.Errorf("failed to register repair metrics: %w", err)
	}
	return repair, nil
}

// NewServer creates the HTTP server exposing the registry under path.
// Setup must have been called first.
func NewServer(addr, path string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry}))

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
