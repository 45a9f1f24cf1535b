package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(unusedCodes, codesImportedTotal) }

var unusedCodes = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "unused_codes",
		Help: "Current unused inventory per product type.",
	},
	[]string{"type"},
)

var codesImportedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "codes_imported_total",
		Help: "Codes added to inventory, by product type.",
	},
	[]string{"type"},
)

func SetUnusedCodes(productType string, n int) {
	unusedCodes.WithLabelValues(norm(productType)).Set(float64(n))
}

func AddCodesImported(productType string, n int) {
	codesImportedTotal.WithLabelValues(norm(productType)).Add(float64(n))
}
