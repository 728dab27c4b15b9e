package v1

import "github.com/kubeutils/kubeutils/resources"

type ScaleRequest struct {
	Replicas *int32 `json:"replicas"`
}

type NamespaceCreateRequest struct {
	Name string `json:"name"`
}

type DeploymentListResponse struct {
	Deployments []resources.ListingEntry `json:"deployments"`
	Total       int                      `json:"total"`
}

type NamespaceListResponse struct {
	Namespaces []resources.ListingEntry `json:"namespaces"`
	Total      int                      `json:"total"`
}

type HealthResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	Commit        string            `json:"commit"`
	UptimeSeconds int               `json:"uptime_seconds"`
	Features      map[string]string `json:"features"`

	// set only when the server probes the API server
	Cluster          string `json:"cluster,omitempty"`
	ClusterLatencyMs int64  `json:"cluster_latency_ms,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
