package server

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kubeutils/kubeutils/config"
	"github.com/kubeutils/kubeutils/resources"
	v1 "github.com/kubeutils/kubeutils/server/api/v1"

	"github.com/labstack/echo/v5"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

var ErrNoTokens = errors.New("KUBEUTILS_API_TOKENS holds no name:token pair")

type Server struct {
	cfg     *config.ServerConfig
	client  *resources.Client
	version string
	commit  string
	echo    *echo.Echo
}

func New(cfg *config.ServerConfig, client *resources.Client, version, commit string) (*Server, error) {
	s := &Server{cfg: cfg, client: client, version: version, commit: commit}

	tokens := parseTokens(cfg.Tokens)
	if tokens == nil {
		return nil, ErrNoTokens
	}

	e := echo.New()
	e.Use(v1.MetricsMiddleware())

	features := map[string]string{
		"patch_type": cfg.Client.PatchType,
	}
	if cfg.Client.Registry.Complete() {
		features["pull_secret"] = cfg.Client.Registry.PullSecretName
	}

	// unauthenticated endpoints
	e.GET("/healthz", v1.Healthz(version, commit, features, v1.CheckCluster(client)))
	e.GET("/metrics", v1.MetricsHandler())

	h := &v1.Handler{Client: client}
	h.Register(e.Group("/v1", v1.AuthMiddleware(tokens), v1.MaxBodyMiddleware(v1.MaxBodyBytes)))

	s.echo = e
	return s, nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if s.cfg.TLSCert != "" && s.cfg.TLSKey != "" {
			srv.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			log.Info().Str("addr", s.cfg.ListenAddr).Msg("starting server with TLS")
			err = srv.ListenAndServeTLS(s.cfg.TLSCert, s.cfg.TLSKey)
		} else {
			log.Warn().Str("addr", s.cfg.ListenAddr).Msg("starting server without TLS - set KUBEUTILS_TLS_CERT and KUBEUTILS_TLS_KEY for production")
			err = srv.ListenAndServe()
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// parseTokens parses "name:token,name:token" into map[token]name.
// Returns nil if input is empty.
func parseTokens(s string) map[string]string {
	if s == "" {
		return nil
	}
	m := make(map[string]string)
	for _, entry := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) == 2 {
			name := strings.TrimSpace(parts[0])
			token := strings.TrimSpace(parts[1])
			if name == "" || token == "" {
				continue
			}
			m[token] = name
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
