// Package resources implements the lifecycle operations for Deployments and
// their sibling resources on top of a Requester.
//
// List operations validate the status code and return typed entries.
// Single-resource operations return the raw response whatever its status;
// their error is reserved for failures that produced no response at all.
package resources

import (
	"context"
	"strconv"

	"github.com/kubeutils/kubeutils/k8s"
	"github.com/kubeutils/kubeutils/manifest"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Requester issues one request against the API server. *k8s.Client
// implements it.
type Requester interface {
	Get(ctx context.Context, path string) (*k8s.Response, error)
	Post(ctx context.Context, path string, body any) (*k8s.Response, error)
	Put(ctx context.Context, path string, body any) (*k8s.Response, error)
	Patch(ctx context.Context, path string, body any) (*k8s.Response, error)
	Delete(ctx context.Context, path string, body any) (*k8s.Response, error)
}

type Client struct {
	Deployments *Deployments
	Namespaces  *Namespaces
	Services    *Services
	PullSecrets *PullSecrets

	base *base
}

type Option func(*options)

type options struct {
	log      zerolog.Logger
	registry manifest.RegistryCredentials
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithRegistry sets the credentials PullSecrets.Create writes.
func WithRegistry(creds manifest.RegistryCredentials) Option {
	return func(o *options) { o.registry = creds }
}

func New(req Requester, builder manifest.Builder, opts ...Option) *Client {
	o := options{log: log.Logger}
	for _, opt := range opts {
		opt(&o)
	}

	b := &base{req: req, log: o.log}
	return &Client{
		Deployments: &Deployments{base: b, builder: builder},
		Namespaces:  &Namespaces{base: b},
		Services:    &Services{base: b},
		PullSecrets: newPullSecrets(b, builder.PullSecrets.Name(), o.registry),
		base:        b,
	}
}

// Check probes the API server's group discovery endpoint.
func (c *Client) Check(ctx context.Context) (*k8s.Response, error) {
	o := op{resource: "api", operation: "check"}
	return c.base.do(ctx, o, nil, func(ctx context.Context) (*k8s.Response, error) {
		return c.base.req.Get(ctx, "/apis")
	})
}

type op struct {
	resource  string
	operation string
	namespace string
	name      string
}

type base struct {
	req Requester
	log zerolog.Logger
}

func (b *base) logger(o op) zerolog.Logger {
	ctx := b.log.With().Str("resource", o.resource).Str("operation", o.operation)
	if o.namespace != "" {
		ctx = ctx.Str("namespace", o.namespace)
	}
	if o.name != "" {
		ctx = ctx.Str("name", o.name)
	}
	return ctx.Logger()
}

// do runs one call with logging and metrics. body is only logged.
func (b *base) do(ctx context.Context, o op, body any, call func(context.Context) (*k8s.Response, error)) (*k8s.Response, error) {
	l := b.logger(o)
	l.Debug().Msg(o.operation + " " + o.resource)
	if body != nil {
		l.Trace().Interface("data", body).Msg("request")
	}

	resp, err := call(ctx)
	if err != nil {
		resourceOpsTotal.WithLabelValues(o.resource, o.operation, "error").Inc()
		l.Error().Err(err).Msg(o.operation + " " + o.resource + " failed")
		return nil, err
	}
	resourceOpsTotal.WithLabelValues(o.resource, o.operation, strconv.Itoa(resp.StatusCode)).Inc()
	l.Trace().Int("status", resp.StatusCode).Bytes("body", resp.Body).Msg("response")
	return resp, nil
}

// list runs a collection GET and hands the validated response to decode.
func listEntries[T any](ctx context.Context, b *base, o op, path string, decode func(*k8s.Response) ([]T, error)) ([]T, error) {
	resp, err := b.do(ctx, o, nil, func(ctx context.Context) (*k8s.Response, error) {
		return b.req.Get(ctx, path)
	})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		l := b.logger(o)
		l.Error().Err(err).Int("status", resp.StatusCode).Msg(o.operation + " " + o.resource + " failed")
		return nil, err
	}
	entries, err := decode(resp)
	if err != nil {
		l := b.logger(o)
		l.Error().Err(err).Msg(o.operation + " " + o.resource + " failed")
		return nil, err
	}
	return entries, nil
}
