package k8s

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kubeutils/kubeutils/config"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// swapped in tests
var (
	inClusterConfig      = rest.InClusterConfig
	buildConfigFromFlags = clientcmd.BuildConfigFromFlags
)

// RESTConfig resolves where the API server lives and how to authenticate:
// explicit KUBE_API_SERVER first, then the in-cluster service account,
// then the kubeconfig file.
func RESTConfig(cfg config.ClientConfig) (*rest.Config, error) {
	if cfg.APIServer != "" {
		return &rest.Config{
			Host:        cfg.APIServer,
			BearerToken: cfg.Token,
			Timeout:     cfg.Timeout,
			TLSClientConfig: rest.TLSClientConfig{
				Insecure: cfg.Insecure,
				CAFile:   cfg.CAFile,
			},
		}, nil
	}

	rc, err := inClusterConfig()
	if err != nil {
		kubeconfig := cfg.Kubeconfig
		if kubeconfig == "" {
			kubeconfig = filepath.Join(os.Getenv("HOME"), ".kube", "config")
		}
		rc, err = buildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("load kubeconfig: %w", err)
		}
	}
	rc.Timeout = cfg.Timeout
	return rc, nil
}

// NewClientFromConfig is RESTConfig + NewClient with the configured patch type.
func NewClientFromConfig(cfg config.ClientConfig) (*Client, error) {
	patchType, err := ParsePatchType(cfg.PatchType)
	if err != nil {
		return nil, err
	}
	rc, err := RESTConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewClient(rc, patchType)
}
