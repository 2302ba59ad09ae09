package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"hrdash/internal/transport/http/api"
)

type RateLimitKeyFunc func(r *http.Request) string

// rateLimiter counts requests per key in fixed windows. Counters expire with
// their window so idle clients do not accumulate.
type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	keyFn  RateLimitKeyFunc
	counts *cache.Cache
}

// RateLimit allows limit requests per window for each signed-in user, or per
// client IP for anonymous requests.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return newRateLimiter(limit, window, actorOrIPKey).middleware
}

type limitScope int

const (
	scopeNone limitScope = iota
	scopeLogin
	scopeWrite
)

// sensitiveRoutes lists the write endpoints that get tighter limits. Patterns
// are relative to /api/v1 and matched with path.Match.
var sensitiveRoutes = []struct {
	method  string
	pattern string
	scope   limitScope
}{
	{http.MethodPost, "/auth/login", scopeLogin},
	{http.MethodPost, "/mutations", scopeWrite},
	{http.MethodPost, "/employees", scopeWrite},
	{http.MethodPost, "/employees/refresh", scopeWrite},
	{http.MethodPut, "/employees/*", scopeWrite},
	{http.MethodPost, "/employees/*/feedback", scopeWrite},
}

func routeScope(r *http.Request) limitScope {
	p := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/v1"), "/")
	for _, route := range sensitiveRoutes {
		if route.method != r.Method {
			continue
		}
		if ok, _ := path.Match(route.pattern, p); ok {
			return route.scope
		}
	}
	return scopeNone
}

// SensitiveMutationRateLimit applies a quarter of baseLimit to logins, keyed
// by both client IP and submitted email, and half of it to writes per actor.
func SensitiveMutationRateLimit(baseLimit int, window time.Duration) func(http.Handler) http.Handler {
	loginByIP := newRateLimiter(max(baseLimit/4, 1), window, clientIPKey)
	loginByEmail := newRateLimiter(max(baseLimit/4, 1), window, loginEmailKey)
	writes := newRateLimiter(max(baseLimit/2, 1), window, actorOrIPKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch routeScope(r) {
			case scopeLogin:
				if !loginByIP.allow(w, r) || !loginByEmail.allow(w, r) {
					return
				}
			case scopeWrite:
				if !writes.allow(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// loginEmailKey keys on the lowercased email of a JSON login body, falling
// back to the client IP. The body is restored for the handler.
func loginEmailKey(r *http.Request) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return clientIPKey(r)
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return clientIPKey(r)
	}
	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &body) != nil || strings.TrimSpace(body.Email) == "" {
		return clientIPKey(r)
	}
	return "email:" + strings.ToLower(strings.TrimSpace(body.Email))
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return clientIPKey(r)
}

// clientIPKey prefers the first X-Forwarded-For hop over RemoteAddr.
func clientIPKey(r *http.Request) string {
	if first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func newRateLimiter(limit int, window time.Duration, keyFn RateLimitKeyFunc) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		keyFn:  keyFn,
		counts: cache.New(window, 2*window),
	}
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.allow(w, r) {
			next.ServeHTTP(w, r)
		}
	})
}

// hit counts one request for key and returns the new count and window reset.
func (rl *rateLimiter) hit(key string, now time.Time) (int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if x, expires, found := rl.counts.GetWithExpiration(key); found && expires.After(now) {
		count := x.(int) + 1
		rl.counts.Set(key, count, expires.Sub(now))
		return count, expires
	}
	rl.counts.Set(key, 1, rl.window)
	return 1, now.Add(rl.window)
}

// allow writes the rate limit headers and a 429 once key exceeds the limit.
func (rl *rateLimiter) allow(w http.ResponseWriter, r *http.Request) bool {
	if rl.limit <= 0 {
		return true
	}
	key := rl.keyFn(r)
	now := time.Now()
	count, reset := rl.hit(key, now)
	resetIn := int((reset.Sub(now) + time.Second - 1) / time.Second)

	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(rl.limit-count, 0)))
	h.Set("X-RateLimit-Reset", strconv.Itoa(resetIn))
	if count <= rl.limit {
		return true
	}

	h.Set("Retry-After", strconv.Itoa(max(resetIn, 1)))
	zerolog.Ctx(r.Context()).Warn().
		Str("key", key).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("limit", rl.limit).
		Msg("rate limit exceeded")
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}
