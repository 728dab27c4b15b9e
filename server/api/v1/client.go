package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kubeutils/kubeutils/manifest"
)

// Client talks to a running kubeutils server.
type Client struct {
	url   string
	token string
	http  *http.Client
}

func NewClient(url, token string) *Client {
	return &Client{
		url:   url,
		token: token,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListDeployments lists one namespace, or all of them when namespace is empty.
func (c *Client) ListDeployments(ctx context.Context, namespace string) (*DeploymentListResponse, error) {
	path := "/v1/deployments"
	if namespace != "" {
		path = deploymentsPath(namespace)
	}
	var resp DeploymentListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetDeployment(ctx context.Context, namespace, name string) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := c.do(ctx, http.MethodGet, deploymentPath(namespace, name), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) CreateDeployment(ctx context.Context, spec manifest.WorkloadSpec) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := c.do(ctx, http.MethodPost, deploymentsPath(spec.Namespace), spec, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) UpdateDeployment(ctx context.Context, spec manifest.WorkloadSpec) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := c.do(ctx, http.MethodPatch, deploymentPath(spec.Namespace, spec.Name), spec, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) ScaleDeployment(ctx context.Context, namespace, name string, replicas int32) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := c.do(ctx, http.MethodPut, deploymentPath(namespace, name)+"/scale", ScaleRequest{Replicas: &replicas}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) DeleteDeployment(ctx context.Context, namespace, name string) error {
	return c.do(ctx, http.MethodDelete, deploymentPath(namespace, name), nil, nil)
}

func (c *Client) ListNamespaces(ctx context.Context) (*NamespaceListResponse, error) {
	var resp NamespaceListResponse
	if err := c.do(ctx, http.MethodGet, "/v1/namespaces", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateNamespace(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/v1/namespaces", NamespaceCreateRequest{Name: name}, nil)
}

func (c *Client) DeleteNamespace(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/v1/namespaces/"+url.PathEscape(name), nil, nil)
}

func (c *Client) CreatePullSecret(ctx context.Context, namespace string) error {
	return c.do(ctx, http.MethodPost, "/v1/namespaces/"+url.PathEscape(namespace)+"/pullsecret", nil, nil)
}

func (c *Client) Check(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/v1/check", nil, nil)
}

func (c *Client) Healthz(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func deploymentsPath(namespace string) string {
	return "/v1/namespaces/" + url.PathEscape(namespace) + "/deployments"
}

func deploymentPath(namespace, name string) string {
	return deploymentsPath(namespace) + "/" + url.PathEscape(name)
}

func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &RemoteError{
				StatusCode: resp.StatusCode,
				Code:       errResp.Code,
				Message:    errResp.Error,
			}
		}
		return &RemoteError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// RemoteError is a non-2xx answer from the kubeutils server. Errors the
// API server produced keep its status code.
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("kubeutils error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

func IsConflict(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode == http.StatusConflict
	}
	return false
}

func IsNotFound(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode == http.StatusNotFound
	}
	return false
}
