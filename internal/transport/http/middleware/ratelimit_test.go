package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hrdash/internal/domain/auth"
	"hrdash/internal/requestctx"
)

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRateLimitUsesUserKeyBeforeIPFallback(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent())
	userCtx := requestctx.WithUser(context.Background(), auth.UserContext{UserID: "user-1"})

	first := httptest.NewRequest(http.MethodPost, "/api/v1/mutations", nil).WithContext(userCtx)
	first.RemoteAddr = "198.51.100.11:2222"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	assert.Equal(t, http.StatusNoContent, firstRec.Code)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/mutations", nil).WithContext(userCtx)
	second.RemoteAddr = "198.51.100.12:3333"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	assert.Equal(t, http.StatusTooManyRequests, secondRec.Code, "second request is throttled by user key")
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent())

	first := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	first.RemoteAddr = "203.0.113.10:4444"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	assert.Equal(t, http.StatusNoContent, firstRec.Code)

	second := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	second.RemoteAddr = "203.0.113.10:5555"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	assert.Equal(t, http.StatusTooManyRequests, secondRec.Code)
}

func TestRateLimitWindowReset(t *testing.T) {
	limited := RateLimit(1, 40*time.Millisecond)(noContent())
	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
		req.RemoteAddr = "192.0.2.20:1111"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, http.StatusNoContent, send(), "window reset lets the request through")
}

func TestRateLimitReturnsRetryMetadata(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent())

	req1 := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
	req1.RemoteAddr = "192.0.2.30:1234"
	limited.ServeHTTP(httptest.NewRecorder(), req1)

	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
	req2.RemoteAddr = "192.0.2.30:1234"
	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, req2)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestSensitiveMutationRateLimitScope(t *testing.T) {
	limited := SensitiveMutationRateLimit(4, time.Minute)(noContent())

	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary", nil)
		req.RemoteAddr = "198.51.100.40:8888"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code, "read request %d bypasses sensitive limits", i+1)
	}

	userCtx := requestctx.WithUser(context.Background(), auth.UserContext{UserID: "admin-1"})
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/mutations", nil).WithContext(userCtx)
		req.RemoteAddr = "198.51.100.41:9999"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		if i < 2 {
			assert.Equal(t, http.StatusNoContent, rec.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		}
	}
}

func TestSensitiveAuthLimitKeysByEmail(t *testing.T) {
	limited := SensitiveMutationRateLimit(4, time.Minute)(noContent())
	login := func(email, addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":"`+email+`"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, login("admin@hr.com", "192.0.2.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, login("Admin@HR.com", "192.0.2.2:1"))
}

func TestRouteScope(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   limitScope
	}{
		{http.MethodPost, "/api/v1/auth/login", scopeLogin},
		{http.MethodGet, "/api/v1/auth/me", scopeNone},
		{http.MethodPost, "/api/v1/mutations", scopeWrite},
		{http.MethodPost, "/api/v1/employees/", scopeWrite},
		{http.MethodPut, "/api/v1/employees/42", scopeWrite},
		{http.MethodPost, "/api/v1/employees/42/feedback", scopeWrite},
		{http.MethodGet, "/api/v1/employees/42", scopeNone},
		{http.MethodPut, "/api/v1/bookmarks/42", scopeNone},
	}
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, routeScope(httptest.NewRequest(tc.method, tc.path, nil)))
		})
	}
}

func TestLoginEmailKeyRestoresBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":" Admin@HR.com ","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	assert.Equal(t, "email:admin@hr.com", loginEmailKey(req))
	rest, err := io.ReadAll(req.Body)
	assert.NoError(t, err)
	assert.Contains(t, string(rest), `"password":"x"`)

	plain := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	plain.RemoteAddr = "192.0.2.9:80"
	assert.Equal(t, "192.0.2.9", loginEmailKey(plain))
}
