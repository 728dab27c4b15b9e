package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryComplete(t *testing.T) {
	full := RegistryConfig{User: "u", Password: "p", Server: "registry.example.com", Email: "u@example.com"}
	assert.True(t, full.Complete())

	for _, strip := range []func(*RegistryConfig){
		func(r *RegistryConfig) { r.User = "" },
		func(r *RegistryConfig) { r.Password = "" },
		func(r *RegistryConfig) { r.Server = "" },
		func(r *RegistryConfig) { r.Email = "" },
	} {
		r := full
		strip(&r)
		assert.False(t, r.Complete())
	}
}

func TestParseClientConfig(t *testing.T) {
	t.Setenv("DOCKER_USER", "u")
	t.Setenv("DOCKER_PASSWORD", "p")
	t.Setenv("DOCKER_REGISTRY_SERVER", "registry.example.com")
	t.Setenv("DOCKER_EMAIL", "u@example.com")
	t.Setenv("KUBE_TIMEOUT", "5s")

	cfg, err := env.ParseAs[ClientConfig]()
	require.NoError(t, err)

	assert.Equal(t, "strategic", cfg.PatchType)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.Registry.Complete())
	assert.Equal(t, "regsecret", cfg.Registry.PullSecretName)
}

func TestParseServerConfigRequiresTokens(t *testing.T) {
	t.Setenv("KUBEUTILS_API_TOKENS", "")
	_, err := env.ParseAs[ServerConfig]()
	assert.Error(t, err)

	t.Setenv("KUBEUTILS_API_TOKENS", "ci:secret")
	cfg, err := env.ParseAs[ServerConfig]()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "ci:secret", cfg.Tokens)
}
