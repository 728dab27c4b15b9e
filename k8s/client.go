// REST client for the control-plane API. Auth and TLS come from a
// client-go rest.Config; everything above the HTTP round trip is plain JSON.
package k8s

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/rest"
)

type Client struct {
	host      string
	http      *http.Client
	patchType types.PatchType
}

func NewClient(cfg *rest.Config, patchType types.PatchType) (*Client, error) {
	if cfg == nil || cfg.Host == "" {
		return nil, fmt.Errorf("API server host required")
	}
	httpClient, err := rest.HTTPClientFor(cfg)
	if err != nil {
		return nil, fmt.Errorf("build http client: %w", err)
	}
	if patchType == "" {
		patchType = types.StrategicMergePatchType
	}
	return &Client{
		host:      serverURL(cfg.Host),
		http:      httpClient,
		patchType: patchType,
	}, nil
}

func serverURL(host string) string {
	host = strings.TrimRight(host, "/")
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return host
}

// ParsePatchType maps the configured patch flavour to its content type.
func ParsePatchType(s string) (types.PatchType, error) {
	switch strings.ToLower(s) {
	case "", "strategic":
		return types.StrategicMergePatchType, nil
	case "merge":
		return types.MergePatchType, nil
	default:
		return "", fmt.Errorf("unsupported patch type %q (expected strategic or merge)", s)
	}
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, "", nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, "application/json", body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, "application/json", body)
}

func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, string(c.patchType), body)
}

func (c *Client) Delete(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, "application/json", body)
}

// Do sends one request and returns the response envelope. Any status code
// is a valid response; only a failed round trip is returned as an error.
func (c *Client) Do(ctx context.Context, method, path, contentType string, body any) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.host+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		k8sRequestsTotal.WithLabelValues(method, "error").Inc()
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	k8sRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		k8sRequestsTotal.WithLabelValues(method, "error").Inc()
		return nil, &TransportError{Method: method, Path: path, Err: fmt.Errorf("read response: %w", err)}
	}
	k8sRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}
