package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/skirmish-go/internal/domain/order"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// RepairMetricsCollector implements order.Observer on Prometheus counters
type RepairMetricsCollector struct {
	repairSteps    *prometheus.CounterVec
	hpRestored     *prometheus.CounterVec
	resourcesSpent *prometheus.CounterVec
	ordersFinished *prometheus.CounterVec
}

// NewRepairMetricsCollector creates a new repair metrics collector
func NewRepairMetricsCollector() *RepairMetricsCollector {
	return &RepairMetricsCollector{
		repairSteps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "repair_steps_total",
				Help:      "Total number of paid repair steps by target type",
			},
			[]string{"player_id", "target_type"},
		),

		hpRestored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "repair_hp_restored_total",
				Help:      "Total hit points restored by repairs",
			},
			[]string{"player_id", "target_type"},
		),

		resourcesSpent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "repair_resources_spent_total",
				Help:      "Total resources spent on repairs by kind",
			},
			[]string{"player_id", "resource"},
		),

		ordersFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_finished_total",
				Help:      "Total number of retired orders by action and reason",
			},
			[]string{"action", "reason"},
		),
	}
}

// Register registers all repair metrics with the Prometheus registry
func (c *RepairMetricsCollector) Register() error {
	return register(c.repairSteps, c.hpRestored, c.resourcesSpent, c.ordersFinished)
}

// RepairStep implements order.Observer
func (c *RepairMetricsCollector) RepairStep(u, goal *unit.Unit, hpRestored int, costs resource.Costs) {
	playerIDStr := strconv.Itoa(u.Player.ID.Value())

	c.repairSteps.WithLabelValues(playerIDStr, goal.Type.Ident).Inc()
	c.hpRestored.WithLabelValues(playerIDStr, goal.Type.Ident).Add(float64(hpRestored))
	for _, k := range resource.Spendable() {
		if costs[k] > 0 {
			c.resourcesSpent.WithLabelValues(playerIDStr, k.String()).Add(float64(costs[k]))
		}
	}
}

// OrderFinished implements order.Observer
func (c *RepairMetricsCollector) OrderFinished(u *unit.Unit, action string, reason order.FinishReason) {
	c.ordersFinished.WithLabelValues(action, string(reason)).Inc()
}
