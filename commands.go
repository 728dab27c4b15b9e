package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/kubeutils/kubeutils/config"
	"github.com/kubeutils/kubeutils/k8s"
	"github.com/kubeutils/kubeutils/manifest"
	"github.com/kubeutils/kubeutils/resources"
	"github.com/kubeutils/kubeutils/server"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"
)

// swapped in tests
var (
	stdout       io.Writer = os.Stdout
	newRequester           = func(cfg config.ClientConfig) (resources.Requester, error) {
		c, err := k8s.NewClientFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
)

func namespaceFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "namespace",
		Aliases: []string{"n"},
		Value:   "default",
		Usage:   "target namespace",
	}
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "workload spec (JSON or YAML), - for stdin",
		Required: true,
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    config.AppName,
		Usage:   "manage Kubernetes Deployments through the API server",
		Version: version + " (" + commit + ")",
		Commands: []*cli.Command{
			deploymentsCommand(),
			namespacesCommand(),
			servicesCommand(),
			pullSecretCommand(),
			{
				Name:  "render",
				Usage: "print the Deployment manifest for a workload spec without contacting the cluster",
				Flags: []cli.Flag{
					fileFlag(),
					&cli.StringFlag{Name: "kind", Value: manifest.KindCreate.String(), Usage: "create or update"},
					&cli.StringFlag{Name: "namespace", Aliases: []string{"n"}, Usage: "override the spec namespace"},
				},
				Action: runRender,
			},
			{
				Name:  "check",
				Usage: "probe the API server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					c, err := newClient()
					if err != nil {
						return err
					}
					return printResponse(c.Check(ctx))
				},
			},
			{
				Name:   "serve",
				Usage:  "start the HTTP API",
				Action: runServe,
			},
		},
	}
}

func deploymentsCommand() *cli.Command {
	return &cli.Command{
		Name:    "deployments",
		Aliases: []string{"deploy"},
		Usage:   "list, create, update, scale and delete Deployments",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list Deployments in a namespace, or in all namespaces with --all",
				Flags: []cli.Flag{
					namespaceFlag(),
					&cli.BoolFlag{Name: "all", Aliases: []string{"A"}, Usage: "all namespaces"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					c, err := newClient()
					if err != nil {
						return err
					}
					var entries []resources.ListingEntry
					if cmd.Bool("all") {
						entries, err = c.Deployments.ListAll(ctx)
					} else {
						entries, err = c.Deployments.ListForNamespace(ctx, cmd.String("namespace"))
					}
					if err != nil {
						return err
					}
					return printYAML(entries)
				},
			},
			{
				Name:      "get",
				ArgsUsage: "NAME",
				Flags:     []cli.Flag{namespaceFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					name, err := requireArg(cmd, 0, "NAME")
					if err != nil {
						return err
					}
					c, err := newClient()
					if err != nil {
						return err
					}
					return printResponse(c.Deployments.Get(ctx, cmd.String("namespace"), name))
				},
			},
			{
				Name:   "create",
				Flags:  []cli.Flag{fileFlag(), namespaceFlag()},
				Action: workloadAction(manifest.KindCreate),
			},
			{
				Name:   "update",
				Flags:  []cli.Flag{fileFlag(), namespaceFlag()},
				Action: workloadAction(manifest.KindUpdate),
			},
			{
				Name:      "scale",
				ArgsUsage: "NAME REPLICAS",
				Flags:     []cli.Flag{namespaceFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					name, err := requireArg(cmd, 0, "NAME")
					if err != nil {
						return err
					}
					replicas, err := parseReplicas(cmd.Args().Get(1))
					if err != nil {
						return err
					}
					c, err := newClient()
					if err != nil {
						return err
					}
					return printResponse(c.Deployments.Scale(ctx, cmd.String("namespace"), name, replicas))
				},
			},
			{
				Name:      "delete",
				ArgsUsage: "NAME",
				Flags:     []cli.Flag{namespaceFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					name, err := requireArg(cmd, 0, "NAME")
					if err != nil {
						return err
					}
					c, err := newClient()
					if err != nil {
						return err
					}
					return printResponse(c.Deployments.Delete(ctx, cmd.String("namespace"), name))
				},
			},
		},
	}
}

func namespacesCommand() *cli.Command {
	nameAction := func(call func(context.Context, *resources.Client, string) (*k8s.Response, error)) cli.ActionFunc {
		return func(ctx context.Context, cmd *cli.Command) error {
			name, err := requireArg(cmd, 0, "NAME")
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			return printResponse(call(ctx, c, name))
		}
	}

	return &cli.Command{
		Name:    "namespaces",
		Aliases: []string{"ns"},
		Commands: []*cli.Command{
			{
				Name: "list",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					c, err := newClient()
					if err != nil {
						return err
					}
					entries, err := c.Namespaces.List(ctx)
					if err != nil {
						return err
					}
					return printYAML(entries)
				},
			},
			{
				Name:      "get",
				ArgsUsage: "NAME",
				Action: nameAction(func(ctx context.Context, c *resources.Client, name string) (*k8s.Response, error) {
					return c.Namespaces.Get(ctx, name)
				}),
			},
			{
				Name:      "create",
				ArgsUsage: "NAME",
				Action: nameAction(func(ctx context.Context, c *resources.Client, name string) (*k8s.Response, error) {
					return c.Namespaces.Create(ctx, name)
				}),
			},
			{
				Name:      "delete",
				ArgsUsage: "NAME",
				Action: nameAction(func(ctx context.Context, c *resources.Client, name string) (*k8s.Response, error) {
					return c.Namespaces.Delete(ctx, name)
				}),
			},
		},
	}
}

func servicesCommand() *cli.Command {
	serviceFlags := []cli.Flag{
		namespaceFlag(),
		&cli.IntFlag{Name: "port", Required: true, Usage: "service port"},
		&cli.IntFlag{Name: "target-port", Usage: "container port, defaults to --port"},
		&cli.StringFlag{Name: "type", Usage: "ClusterIP, NodePort or LoadBalancer"},
	}
	serviceAction := func(update bool) cli.ActionFunc {
		return func(ctx context.Context, cmd *cli.Command) error {
			name, err := requireArg(cmd, 0, "NAME")
			if err != nil {
				return err
			}
			spec := manifest.ServiceSpec{
				Namespace:  cmd.String("namespace"),
				Name:       name,
				Port:       int32(cmd.Int("port")),
				TargetPort: int32(cmd.Int("target-port")),
				Type:       corev1.ServiceType(cmd.String("type")),
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			if update {
				return printResponse(c.Services.Update(ctx, spec))
			}
			return printResponse(c.Services.Create(ctx, spec))
		}
	}

	return &cli.Command{
		Name:    "services",
		Aliases: []string{"svc"},
		Commands: []*cli.Command{
			{
				Name:  "list",
				Flags: []cli.Flag{namespaceFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					c, err := newClient()
					if err != nil {
						return err
					}
					entries, err := c.Services.List(ctx, cmd.String("namespace"))
					if err != nil {
						return err
					}
					return printYAML(entries)
				},
			},
			{
				Name:      "create",
				ArgsUsage: "NAME",
				Flags:     serviceFlags,
				Action:    serviceAction(false),
			},
			{
				Name:      "update",
				ArgsUsage: "NAME",
				Flags:     serviceFlags,
				Action:    serviceAction(true),
			},
			{
				Name:      "delete",
				ArgsUsage: "NAME",
				Flags:     []cli.Flag{namespaceFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					name, err := requireArg(cmd, 0, "NAME")
					if err != nil {
						return err
					}
					c, err := newClient()
					if err != nil {
						return err
					}
					return printResponse(c.Services.Delete(ctx, cmd.String("namespace"), name))
				},
			},
		},
	}
}

func pullSecretCommand() *cli.Command {
	return &cli.Command{
		Name:  "pullsecret",
		Usage: "manage the registry pull secret built from DOCKER_* settings",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Flags: []cli.Flag{namespaceFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					c, err := newClient()
					if err != nil {
						return err
					}
					return printResponse(c.PullSecrets.Create(ctx, cmd.String("namespace")))
				},
			},
			{
				Name:  "delete",
				Flags: []cli.Flag{namespaceFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					c, err := newClient()
					if err != nil {
						return err
					}
					return printResponse(c.PullSecrets.Delete(ctx, cmd.String("namespace")))
				},
			},
		},
	}
}

func workloadAction(kind manifest.Kind) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		spec, err := readWorkload(cmd)
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		if kind == manifest.KindUpdate {
			return printResponse(c.Deployments.Update(ctx, spec))
		}
		return printResponse(c.Deployments.Create(ctx, spec))
	}
}

func runRender(_ context.Context, cmd *cli.Command) error {
	var kind manifest.Kind
	switch cmd.String("kind") {
	case manifest.KindCreate.String():
		kind = manifest.KindCreate
	case manifest.KindUpdate.String():
		kind = manifest.KindUpdate
	default:
		return fmt.Errorf("unknown kind %q, want create or update", cmd.String("kind"))
	}

	spec, err := readWorkload(cmd)
	if err != nil {
		return err
	}
	cfg, err := env.ParseAs[config.ClientConfig]()
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return printYAML(builderFor(cfg).Deployment(kind, spec))
}

func runServe(ctx context.Context, _ *cli.Command) error {
	log.Info().Str("version", version).Str("commit", commit).Msg("starting kubeutils server")

	cfg, err := env.ParseAs[config.ServerConfig]()
	if err != nil {
		return fmt.Errorf("parse server config: %w", err)
	}
	c, err := clientFor(cfg.Client)
	if err != nil {
		return err
	}
	srv, err := server.New(&cfg, c, version, commit)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

// readWorkload decodes --file and applies --namespace when it was given.
func readWorkload(cmd *cli.Command) (manifest.WorkloadSpec, error) {
	path := cmd.String("file")
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return manifest.WorkloadSpec{}, fmt.Errorf("read %s: %w", path, err)
	}

	spec, err := manifest.DecodeWorkloadSpec(data)
	if err != nil {
		return manifest.WorkloadSpec{}, err
	}
	if cmd.IsSet("namespace") || spec.Namespace == "" {
		spec.Namespace = cmd.String("namespace")
	}
	if spec.Name == "" || spec.Image == "" {
		return manifest.WorkloadSpec{}, fmt.Errorf("%s: name and image are required", path)
	}
	return spec, nil
}

func builderFor(cfg config.ClientConfig) manifest.Builder {
	return manifest.NewBuilder(manifest.PullSecretPolicy{
		Enabled:    cfg.Registry.Complete(),
		SecretName: cfg.Registry.PullSecretName,
	})
}

func clientFor(cfg config.ClientConfig) (*resources.Client, error) {
	req, err := newRequester(cfg)
	if err != nil {
		return nil, err
	}
	return resources.New(req, builderFor(cfg), resources.WithRegistry(manifest.RegistryCredentials{
		Server:   cfg.Registry.Server,
		User:     cfg.Registry.User,
		Password: cfg.Registry.Password,
		Email:    cfg.Registry.Email,
	})), nil
}

func newClient() (*resources.Client, error) {
	cfg, err := env.ParseAs[config.ClientConfig]()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return clientFor(cfg)
}

func requireArg(cmd *cli.Command, i int, name string) (string, error) {
	v := cmd.Args().Get(i)
	if v == "" {
		return "", fmt.Errorf("missing argument %s", name)
	}
	return v, nil
}

func parseReplicas(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid replica count %q", s)
	}
	return int32(n), nil
}

func printYAML(v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = stdout.Write(out)
	return err
}

// printResponse renders a successful response as YAML and turns any other
// status into an error.
func printResponse(resp *k8s.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.OK() {
		return resp.Err()
	}
	if len(resp.Body) == 0 {
		return nil
	}
	if !json.Valid(resp.Body) {
		_, err = stdout.Write(resp.Body)
		return err
	}
	out, err := yaml.JSONToYAML(resp.Body)
	if err != nil {
		return err
	}
	_, err = stdout.Write(out)
	return err
}
