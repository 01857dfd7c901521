package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestLogger_RequestID(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w := env.serve(httptest.NewRequest(http.MethodGet, "/ping", nil), "")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36, "generated uuid")

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = env.serve(req, "")
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORS_Preflight(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	req := httptest.NewRequest(http.MethodOptions, "/api/books/upload", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := env.serve(req, "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestCORS_ExposesContentDisposition(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	req := httptest.NewRequest(http.MethodGet, "/api/subjects", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := env.serve(req, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestCORS_OtherOrigin(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	req := httptest.NewRequest(http.MethodGet, "/api/subjects", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := env.serve(req, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
