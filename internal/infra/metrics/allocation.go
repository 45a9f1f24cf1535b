package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(allocationsTotal, codesDelivered) }

var allocationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "allocations_total",
		Help: "Fulfillment requests by product type and outcome.",
	},
	// outcome: 'committed', 'insufficient_stock', 'delivery_failed',
	// 'commit_failed', 'store_error'
	[]string{"type", "outcome"},
)

var codesDelivered = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "codes_delivered_total",
		Help: "Total codes consumed by committed allocations.",
	},
	[]string{"type"},
)

func IncAllocation(productType, outcome string) {
	allocationsTotal.WithLabelValues(norm(productType), norm(outcome)).Inc()
}

func AddCodesDelivered(productType string, n int) {
	codesDelivered.WithLabelValues(norm(productType)).Add(float64(n))
}
