package registry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wine-tier-service/internal/config"
	"wine-tier-service/internal/core/domain"
)

func newSource(url, path string) *Client {
	return NewArtifactSource(&config.RegistryConfig{URL: url, Timeout: 5 * time.Second}, path).(*Client)
}

func TestClient_Open(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/artifacts/model.json", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"ui_features":["volume"]}`))
	}))
	defer srv.Close()

	src := newSource(srv.URL+"/", "artifacts/model.json")
	assert.Equal(t, srv.URL+"/artifacts/model.json", src.Location())

	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ui_features":["volume"]}`, string(body))
}

func TestClient_Open_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newSource(srv.URL, "/missing.json").Open(context.Background())
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestClient_Open_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newSource(srv.URL, "/model.json").Open(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "boom")
}
