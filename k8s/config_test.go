package k8s

import (
	"errors"
	"testing"
	"time"

	"github.com/kubeutils/kubeutils/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/rest"
)

func TestRESTConfig(t *testing.T) {
	origInCluster := inClusterConfig
	origBuild := buildConfigFromFlags
	defer func() {
		inClusterConfig = origInCluster
		buildConfigFromFlags = origBuild
	}()

	tests := []struct {
		name          string
		cfg           config.ClientConfig
		inClusterErr  error
		buildErr      error
		wantHost      string
		expectError   bool
		expectMessage string
	}{
		{
			name:     "explicit api server wins",
			cfg:      config.ClientConfig{APIServer: "https://api.example.com:6443", Token: "abc", Timeout: time.Second},
			wantHost: "https://api.example.com:6443",
		},
		{
			name:     "in-cluster config",
			cfg:      config.ClientConfig{Timeout: time.Second},
			wantHost: "https://in-cluster",
		},
		{
			name:         "falls back to kubeconfig",
			cfg:          config.ClientConfig{Kubeconfig: "/tmp/kubeconfig", Timeout: time.Second},
			inClusterErr: errors.New("not in cluster"),
			wantHost:     "https://from-kubeconfig",
		},
		{
			name:          "kubeconfig missing",
			cfg:           config.ClientConfig{Timeout: time.Second},
			inClusterErr:  errors.New("not in cluster"),
			buildErr:      errors.New("no such file"),
			expectError:   true,
			expectMessage: "load kubeconfig",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inClusterConfig = func() (*rest.Config, error) {
				if tt.inClusterErr != nil {
					return nil, tt.inClusterErr
				}
				return &rest.Config{Host: "https://in-cluster"}, nil
			}
			buildConfigFromFlags = func(_, path string) (*rest.Config, error) {
				if tt.buildErr != nil {
					return nil, tt.buildErr
				}
				assert.Equal(t, tt.cfg.Kubeconfig, path)
				return &rest.Config{Host: "https://from-kubeconfig"}, nil
			}

			rc, err := RESTConfig(tt.cfg)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectMessage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, rc.Host)
			assert.Equal(t, time.Second, rc.Timeout)
		})
	}
}

func TestNewClientFromConfigRejectsPatchType(t *testing.T) {
	_, err := NewClientFromConfig(config.ClientConfig{APIServer: "https://x", PatchType: "json-patch"})
	assert.Error(t, err)
}
