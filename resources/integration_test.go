package resources

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kubeutils/kubeutils/k8s"
	"github.com/kubeutils/kubeutils/manifest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/rest"
)

// fakeAPIServer answers like the control plane for a single deployment.
func fakeAPIServer(t *testing.T) (*httptest.Server, *[]call) {
	t.Helper()
	var seen []call
	mux := http.NewServeMux()
	record := func(r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		seen = append(seen, call{Method: r.Method, Path: r.URL.Path, Body: string(data)})
	}
	mux.HandleFunc("GET /apis/apps/v1/deployments", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"items":[{"metadata":{"name":"a","namespace":"ns1"},"status":{"conditions":[{"type":"Available"}]}}]}`)
	})
	mux.HandleFunc("GET /apis/apps/v1/namespaces/{ns}/deployments", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"boom"}`)
	})
	mux.HandleFunc("PATCH /apis/apps/v1/namespaces/{ns}/deployments/{name}", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		assert.Equal(t, "application/strategic-merge-patch+json", r.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{"kind":"Deployment"}`)
	})
	mux.HandleFunc("PUT /apis/apps/v1/namespaces/{ns}/deployments/{name}/scale", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		_, _ = io.WriteString(w, `{"kind":"Scale"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestAgainstAPIServer(t *testing.T) {
	srv, seen := fakeAPIServer(t)
	kc, err := k8s.NewClient(&rest.Config{Host: srv.URL}, "")
	require.NoError(t, err)
	c := New(kc, manifest.NewBuilder(manifest.PullSecretPolicy{}))
	ctx := context.Background()

	entries, err := c.Deployments.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ListingEntry{{Name: "a", Namespace: "ns1", Status: "Available"}}, entries)

	_, err = c.Deployments.ListForNamespace(ctx, "ns1")
	require.Error(t, err)
	assert.Equal(t, `{"message":"boom"}`, err.Error())

	resp, err := c.Deployments.Update(ctx, manifest.WorkloadSpec{Namespace: "ns1", Name: "a", Image: "nginx", ContainerPort: 80})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = c.Deployments.Scale(ctx, "ns1", "a", 3)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"Scale"}`, string(resp.Body))

	// no GET route: the mux 405 comes back as a response, not an error
	resp, err = c.Deployments.Get(ctx, "ns1", "a")
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	require.Len(t, *seen, 4)
	assert.JSONEq(t, `{"kind":"Scale","apiVersion":"autoscaling/v1","metadata":{"name":"a","namespace":"ns1"},"spec":{"replicas":3}}`, (*seen)[3].Body)
}
