package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestLiveness(t *testing.T) {
	r := newRouter(New("test"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())
}

func TestReadiness(t *testing.T) {
	t.Run("ready when all checks pass", func(t *testing.T) {
		h := New("test")
		h.RegisterCheck("redis", func() error { return nil })
		h.RegisterCheck("registry", func() error { return nil })

		w := httptest.NewRecorder()
		newRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var resp ReadinessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ready", resp.Status)
		assert.Equal(t, "up", resp.Checks["redis"])
		assert.Equal(t, "up", resp.Checks["registry"])
	})

	t.Run("not ready when a dependency is down", func(t *testing.T) {
		h := New("test")
		h.RegisterCheck("redis", func() error { return nil })
		h.RegisterCheck("registry", func() error { return errors.New("connection refused") })

		w := httptest.NewRecorder()
		newRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)

		var resp ReadinessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "not_ready", resp.Status)
		assert.Equal(t, "up", resp.Checks["redis"])
		assert.Contains(t, resp.Checks["registry"], "down")
	})

	t.Run("ready with no registered checks", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(New("test")).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestStatus(t *testing.T) {
	r := newRouter(New("production"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "production", resp.Environment)
	assert.NotEmpty(t, resp.Version)
}
