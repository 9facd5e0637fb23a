package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
)

// LedgerMetricsCollector handles resource stock and transaction metrics
type LedgerMetricsCollector struct {
	stockBalance      *prometheus.GaugeVec
	transactionsTotal *prometheus.CounterVec
	transactionAmount *prometheus.HistogramVec
}

// NewLedgerMetricsCollector creates a new ledger metrics collector
func NewLedgerMetricsCollector() *LedgerMetricsCollector {
	return &LedgerMetricsCollector{
		// Current stock gauge, updated from each journaled movement
		stockBalance: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "player_resource_stock",
				Help:      "Current stock of each resource for each player",
			},
			[]string{"player_id", "resource"},
		),

		transactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ledger_transactions_total",
				Help:      "Total number of ledger transactions by category",
			},
			[]string{"player_id", "resource", "category"},
		),

		transactionAmount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ledger_transaction_amount",
				Help:      "Absolute transaction amount distribution",
				Buckets:   []float64{1, 5, 10, 25, 50, 100, 500, 1000},
			},
			[]string{"category"},
		),
	}
}

// Register registers all ledger metrics with the Prometheus registry
func (c *LedgerMetricsCollector) Register() error {
	return register(c.stockBalance, c.transactionsTotal, c.transactionAmount)
}

// RecordTransaction records one journaled movement
func (c *LedgerMetricsCollector) RecordTransaction(tx *resource.Transaction) {
	playerIDStr := strconv.Itoa(tx.PlayerID().Value())
	kind := tx.Kind().String()
	category := tx.Category().String()

	amount := tx.Amount()
	if amount < 0 {
		amount = -amount
	}

	c.stockBalance.WithLabelValues(playerIDStr, kind).Set(float64(tx.BalanceAfter()))
	c.transactionsTotal.WithLabelValues(playerIDStr, kind, category).Inc()
	c.transactionAmount.WithLabelValues(category).Observe(float64(amount))
}
