package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/kubeutils/kubeutils/resources"

	"github.com/labstack/echo/v5"
	"github.com/rs/zerolog/log"
)

const clusterProbeTimeout = 5 * time.Second

// ClusterProbe returns nil when the API server answers.
type ClusterProbe func(ctx context.Context) error

// CheckCluster probes the API server's discovery endpoint. A nil client
// yields a nil probe.
func CheckCluster(client *resources.Client) ClusterProbe {
	if client == nil {
		return nil
	}
	return func(ctx context.Context) error {
		resp, err := client.Check(ctx)
		if err != nil {
			return err
		}
		return resp.Err()
	}
}

// Healthz reports build info and, with a probe, whether the API server is
// reachable. An unreachable API server turns the answer into a 503.
func Healthz(version, commit string, features map[string]string, probe ClusterProbe) echo.HandlerFunc {
	startTime := time.Now()

	return func(c *echo.Context) error {
		resp := HealthResponse{
			Status:        "ok",
			Version:       version,
			Commit:        commit,
			UptimeSeconds: int(time.Since(startTime).Seconds()),
			Features:      features,
		}
		if probe == nil {
			return c.JSON(http.StatusOK, resp)
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), clusterProbeTimeout)
		defer cancel()
		start := time.Now()
		err := probe(ctx)
		resp.ClusterLatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			log.Warn().Err(err).Msg("API server unreachable")
			resp.Status = "degraded"
			resp.Cluster = "unreachable"
			return c.JSON(http.StatusServiceUnavailable, resp)
		}
		resp.Cluster = "reachable"
		return c.JSON(http.StatusOK, resp)
	}
}
