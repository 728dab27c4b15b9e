package resources

import (
	"context"

	"github.com/kubeutils/kubeutils/k8s"
	"github.com/kubeutils/kubeutils/manifest"
)

const resourceNamespace = "namespace"

type Namespaces struct {
	*base
}

func (n *Namespaces) List(ctx context.Context) ([]ListingEntry, error) {
	o := op{resource: resourceNamespace, operation: "list"}
	return listEntries(ctx, n.base, o, namespacesPath(), namespaceEntries)
}

func (n *Namespaces) Get(ctx context.Context, name string) (*k8s.Response, error) {
	o := op{resource: resourceNamespace, operation: "get", name: name}
	return n.do(ctx, o, nil, func(ctx context.Context) (*k8s.Response, error) {
		return n.req.Get(ctx, namespacePath(name))
	})
}

func (n *Namespaces) Create(ctx context.Context, name string) (*k8s.Response, error) {
	o := op{resource: resourceNamespace, operation: "create", name: name}
	body := manifest.NewNamespace(name)
	return n.do(ctx, o, body, func(ctx context.Context) (*k8s.Response, error) {
		return n.req.Post(ctx, namespacesPath(), body)
	})
}

func (n *Namespaces) Delete(ctx context.Context, name string) (*k8s.Response, error) {
	o := op{resource: resourceNamespace, operation: "delete", name: name}
	return n.do(ctx, o, nil, func(ctx context.Context) (*k8s.Response, error) {
		return n.req.Delete(ctx, namespacePath(name), nil)
	})
}
