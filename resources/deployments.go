package resources

import (
	"context"

	"github.com/kubeutils/kubeutils/k8s"
	"github.com/kubeutils/kubeutils/manifest"
)

const resourceDeployment = "deployment"

type Deployments struct {
	*base
	builder manifest.Builder
}

// ListAll lists deployments across all namespaces.
func (d *Deployments) ListAll(ctx context.Context) ([]ListingEntry, error) {
	o := op{resource: resourceDeployment, operation: "list"}
	return listEntries(ctx, d.base, o, appsV1+"/deployments", deploymentEntries)
}

func (d *Deployments) ListForNamespace(ctx context.Context, namespace string) ([]ListingEntry, error) {
	o := op{resource: resourceDeployment, operation: "list", namespace: namespace}
	return listEntries(ctx, d.base, o, deploymentsPath(namespace), deploymentEntries)
}

func (d *Deployments) Get(ctx context.Context, namespace, name string) (*k8s.Response, error) {
	o := op{resource: resourceDeployment, operation: "get", namespace: namespace, name: name}
	return d.do(ctx, o, nil, func(ctx context.Context) (*k8s.Response, error) {
		return d.req.Get(ctx, deploymentPath(namespace, name))
	})
}

// Create POSTs a full manifest with a single replica.
func (d *Deployments) Create(ctx context.Context, spec manifest.WorkloadSpec) (*k8s.Response, error) {
	o := op{resource: resourceDeployment, operation: "create", namespace: spec.Namespace, name: spec.Name}
	body := d.builder.Deployment(manifest.KindCreate, spec)
	return d.do(ctx, o, body, func(ctx context.Context) (*k8s.Response, error) {
		return d.req.Post(ctx, deploymentsPath(spec.Namespace), body)
	})
}

// Update PATCHes the pod template only. Replicas and selector are left out
// so the server's merge keeps their current values.
func (d *Deployments) Update(ctx context.Context, spec manifest.WorkloadSpec) (*k8s.Response, error) {
	o := op{resource: resourceDeployment, operation: "update", namespace: spec.Namespace, name: spec.Name}
	body := d.builder.Deployment(manifest.KindUpdate, spec)
	return d.do(ctx, o, body, func(ctx context.Context) (*k8s.Response, error) {
		return d.req.Patch(ctx, deploymentPath(spec.Namespace, spec.Name), body)
	})
}

func (d *Deployments) Delete(ctx context.Context, namespace, name string) (*k8s.Response, error) {
	o := op{resource: resourceDeployment, operation: "delete", namespace: namespace, name: name}
	return d.do(ctx, o, nil, func(ctx context.Context) (*k8s.Response, error) {
		return d.req.Delete(ctx, deploymentPath(namespace, name), nil)
	})
}

// Scale replaces the scale subresource.
func (d *Deployments) Scale(ctx context.Context, namespace, name string, replicas int32) (*k8s.Response, error) {
	o := op{resource: resourceDeployment, operation: "scale", namespace: namespace, name: name}
	body := manifest.NewScale(namespace, name, replicas)
	return d.do(ctx, o, body, func(ctx context.Context) (*k8s.Response, error) {
		return d.req.Put(ctx, deploymentPath(namespace, name)+"/scale", body)
	})
}
