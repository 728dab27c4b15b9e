package resources

import (
	"context"

	"github.com/kubeutils/kubeutils/k8s"
	"github.com/kubeutils/kubeutils/manifest"
)

const resourcePullSecret = "pullsecret"

// PullSecrets manages the registry secret that manifests reference.
type PullSecrets struct {
	*base
	name  string
	creds manifest.RegistryCredentials
}

func newPullSecrets(b *base, name string, creds manifest.RegistryCredentials) *PullSecrets {
	return &PullSecrets{base: b, name: name, creds: creds}
}

func (p *PullSecrets) Name() string { return p.name }

// Create writes the pull secret into namespace. It fails without a request
// when the registry credentials are incomplete.
func (p *PullSecrets) Create(ctx context.Context, namespace string) (*k8s.Response, error) {
	o := op{resource: resourcePullSecret, operation: "create", namespace: namespace, name: p.name}
	secret, err := manifest.NewPullSecret(namespace, p.name, p.creds)
	if err != nil {
		l := p.logger(o)
		l.Error().Err(err).Msg("create pullsecret failed")
		return nil, err
	}
	// the secret carries credentials, keep it out of trace logs
	return p.do(ctx, o, nil, func(ctx context.Context) (*k8s.Response, error) {
		return p.req.Post(ctx, secretsPath(namespace), secret)
	})
}

func (p *PullSecrets) Get(ctx context.Context, namespace string) (*k8s.Response, error) {
	o := op{resource: resourcePullSecret, operation: "get", namespace: namespace, name: p.name}
	return p.do(ctx, o, nil, func(ctx context.Context) (*k8s.Response, error) {
		return p.req.Get(ctx, secretPath(namespace, p.name))
	})
}

func (p *PullSecrets) Delete(ctx context.Context, namespace string) (*k8s.Response, error) {
	o := op{resource: resourcePullSecret, operation: "delete", namespace: namespace, name: p.name}
	return p.do(ctx, o, nil, func(ctx context.Context) (*k8s.Response, error) {
		return p.req.Delete(ctx, secretPath(namespace, p.name), nil)
	})
}
