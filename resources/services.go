package resources

import (
	"context"

	"github.com/kubeutils/kubeutils/k8s"
	"github.com/kubeutils/kubeutils/manifest"
)

const resourceService = "service"

type Services struct {
	*base
}

func (s *Services) List(ctx context.Context, namespace string) ([]ServiceEntry, error) {
	o := op{resource: resourceService, operation: "list", namespace: namespace}
	return listEntries(ctx, s.base, o, servicesPath(namespace), serviceEntries)
}

func (s *Services) Get(ctx context.Context, namespace, name string) (*k8s.Response, error) {
	o := op{resource: resourceService, operation: "get", namespace: namespace, name: name}
	return s.do(ctx, o, nil, func(ctx context.Context) (*k8s.Response, error) {
		return s.req.Get(ctx, servicePath(namespace, name))
	})
}

func (s *Services) Create(ctx context.Context, spec manifest.ServiceSpec) (*k8s.Response, error) {
	o := op{resource: resourceService, operation: "create", namespace: spec.Namespace, name: spec.Name}
	body := manifest.NewService(spec)
	return s.do(ctx, o, body, func(ctx context.Context) (*k8s.Response, error) {
		return s.req.Post(ctx, servicesPath(spec.Namespace), body)
	})
}

func (s *Services) Update(ctx context.Context, spec manifest.ServiceSpec) (*k8s.Response, error) {
	o := op{resource: resourceService, operation: "update", namespace: spec.Namespace, name: spec.Name}
	body := manifest.NewServicePatch(spec)
	return s.do(ctx, o, body, func(ctx context.Context) (*k8s.Response, error) {
		return s.req.Patch(ctx, servicePath(spec.Namespace, spec.Name), body)
	})
}

func (s *Services) Delete(ctx context.Context, namespace, name string) (*k8s.Response, error) {
	o := op{resource: resourceService, operation: "delete", namespace: namespace, name: name}
	return s.do(ctx, o, nil, func(ctx context.Context) (*k8s.Response, error) {
		return s.req.Delete(ctx, servicePath(namespace, name), nil)
	})
}
