package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestRouter() *Router {
	return New(zap.NewNop().Sugar())
}

func TestExactRoute(t *testing.T) {
	r := newTestRouter()
	r.GET("/api/v1/syncs", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/syncs")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestWildcardRoute(t *testing.T) {
	r := newTestRouter()
	r.GET("/api/v1/syncs/*/errors", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/syncs/run-123/errors")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestMethodNotAllowed(t *testing.T) {
	r := newTestRouter()
	r.GET("/api/v1/syncs", func(w http.ResponseWriter, req *http.Request) {})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/v1/syncs", "application/json", nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	resp.Body.Close()
}

func TestNotFound(t *testing.T) {
	r := newTestRouter()

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/nope")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestMatchWildcardRoute(t *testing.T) {
	assert.True(t, matchWildcardRoute("/api/v1/syncs/abc", "/api/v1/syncs/*"))
	assert.True(t, matchWildcardRoute("/api/v1/syncs/abc/errors", "/api/v1/syncs/*/errors"))
	assert.True(t, matchWildcardRoute("/swagger/index.html", "/swagger/*"))
	assert.False(t, matchWildcardRoute("/api/v1/syncs/abc/logs", "/api/v1/syncs/*/errors"))
	assert.False(t, matchWildcardRoute("/api/v1/other/abc", "/api/v1/syncs/*"))
}
