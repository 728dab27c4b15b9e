package k8s

import "github.com/prometheus/client_golang/prometheus"

var (
	k8sRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kubeutils",
		Subsystem: "k8s",
		Name:      "requests_total",
		Help:      "Total K8s API requests by method and status code.",
	}, []string{"method", "code"})

	k8sRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kubeutils",
		Subsystem: "k8s",
		Name:      "request_duration_seconds",
		Help:      "K8s API request duration in seconds.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"method"})
)

func init() {
	prometheus.MustRegister(k8sRequestsTotal, k8sRequestDuration)
}
