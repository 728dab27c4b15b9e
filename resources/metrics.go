package resources

import "github.com/prometheus/client_golang/prometheus"

var resourceOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kubeutils",
	Subsystem: "resources",
	Name:      "ops_total",
	Help:      "Total lifecycle operations by resource, operation, and response code.",
}, []string{"resource", "operation", "code"})

func init() {
	prometheus.MustRegister(resourceOpsTotal)
}
