package k8s

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/rest"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type seenRequest struct {
	Method      string
	Path        string
	ContentType string
	Auth        string
	Body        string
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]seenRequest) {
	t.Helper()
	var seen []seenRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		seen = append(seen, seenRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			Auth:        r.Header.Get("Authorization"),
			Body:        string(data),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestClientVerbs(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `{"kind":"Deployment"}`)
	c, err := NewClient(&rest.Config{Host: srv.URL, BearerToken: "t0ken"}, "")
	require.NoError(t, err)

	ctx := context.Background()
	body := map[string]string{"a": "b"}

	_, err = c.Get(ctx, "/apis")
	require.NoError(t, err)
	_, err = c.Post(ctx, "/p", body)
	require.NoError(t, err)
	_, err = c.Put(ctx, "/u", body)
	require.NoError(t, err)
	_, err = c.Patch(ctx, "/x", body)
	require.NoError(t, err)
	resp, err := c.Delete(ctx, "/d", nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"kind":"Deployment"}`, string(resp.Body))
	assert.Equal(t, "application/json", resp.ContentType)

	require.Len(t, *seen, 5)
	got := *seen
	assert.Equal(t, http.MethodGet, got[0].Method)
	assert.Equal(t, "/apis", got[0].Path)
	assert.Empty(t, got[0].Body)
	assert.Equal(t, "Bearer t0ken", got[0].Auth)

	assert.Equal(t, http.MethodPost, got[1].Method)
	assert.Equal(t, "application/json", got[1].ContentType)
	assert.JSONEq(t, `{"a":"b"}`, got[1].Body)

	assert.Equal(t, http.MethodPut, got[2].Method)
	assert.Equal(t, http.MethodPatch, got[3].Method)
	assert.Equal(t, string(types.StrategicMergePatchType), got[3].ContentType)

	assert.Equal(t, http.MethodDelete, got[4].Method)
	assert.Empty(t, got[4].Body)
}

func TestClientMergePatchType(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `{}`)
	c, err := NewClient(&rest.Config{Host: srv.URL}, types.MergePatchType)
	require.NoError(t, err)

	_, err = c.Patch(context.Background(), "/x", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "application/merge-patch+json", (*seen)[0].ContentType)
}

func TestClientNon2xxIsResponse(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusNotFound, `{"kind":"Status","reason":"NotFound"}`)
	c, err := NewClient(&rest.Config{Host: srv.URL}, "")
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), "/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, resp.OK())
	assert.True(t, IsNotFound(resp.Err()))
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(&rest.Config{Host: url}, "")
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), "/apis")
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Contains(t, err.Error(), "GET /apis")
}

func TestNewClientRequiresHost(t *testing.T) {
	_, err := NewClient(&rest.Config{}, "")
	assert.Error(t, err)
	_, err = NewClient(nil, "")
	assert.Error(t, err)
}

func TestServerURL(t *testing.T) {
	assert.Equal(t, "https://10.0.0.1:6443", serverURL("10.0.0.1:6443"))
	assert.Equal(t, "http://localhost:8080", serverURL("http://localhost:8080/"))
}

func TestParsePatchType(t *testing.T) {
	tests := []struct {
		in      string
		want    types.PatchType
		wantErr bool
	}{
		{in: "", want: types.StrategicMergePatchType},
		{in: "strategic", want: types.StrategicMergePatchType},
		{in: "Merge", want: types.MergePatchType},
		{in: "json", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePatchType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
