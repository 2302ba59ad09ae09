package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"

	"hrdash/internal/transport/http/api"
)

const IdempotencyHeader = "Idempotency-Key"

var ErrIdempotencyConflict = errors.New("idempotency key conflicts with existing request")

type storedResponse struct {
	requestHash string
	status      int
	contentType string
	body        []byte
}

// IdempotencyStore remembers successful responses per actor, endpoint and
// key for ttl.
type IdempotencyStore struct {
	cache *cache.Cache
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{cache: cache.New(ttl, 2*ttl)}
}

func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (s *IdempotencyStore) check(key, requestHash string) (storedResponse, bool, error) {
	x, found := s.cache.Get(key)
	if !found {
		return storedResponse{}, false, nil
	}
	stored := x.(storedResponse)
	if stored.requestHash != requestHash {
		return storedResponse{}, false, ErrIdempotencyConflict
	}
	return stored, true, nil
}

func (s *IdempotencyStore) save(key string, resp storedResponse) {
	s.cache.Set(key, resp, cache.DefaultExpiration)
}

type bodyRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (b *bodyRecorder) WriteHeader(code int) {
	b.status = code
	b.ResponseWriter.WriteHeader(code)
}

func (b *bodyRecorder) Write(p []byte) (int, error) {
	b.buf.Write(p)
	return b.ResponseWriter.Write(p)
}

// Idempotent replays the stored response when a request repeats an
// Idempotency-Key with the same body, and rejects reuse with a different
// body. Requests without the header are not tracked.
func Idempotent(store *IdempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" || store == nil {
				next.ServeHTTP(w, r)
				return
			}
			raw, err := io.ReadAll(r.Body)
			if err != nil {
				api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", GetRequestID(r.Context()))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))

			cacheKey := actorOrIPKey(r) + "|" + r.Method + " " + r.URL.Path + "|" + key
			hash := RequestHash(raw)
			stored, found, err := store.check(cacheKey, hash)
			if errors.Is(err, ErrIdempotencyConflict) {
				api.Fail(w, http.StatusConflict, "idempotency_conflict", err.Error(), GetRequestID(r.Context()))
				return
			}
			if found {
				w.Header().Set("Content-Type", stored.contentType)
				w.Header().Set("Idempotent-Replayed", "true")
				w.WriteHeader(stored.status)
				_, _ = w.Write(stored.body)
				return
			}

			rec := &bodyRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			if rec.status >= 200 && rec.status < 300 {
				store.save(cacheKey, storedResponse{
					requestHash: hash,
					status:      rec.status,
					contentType: rec.Header().Get("Content-Type"),
					body:        bytes.Clone(rec.buf.Bytes()),
				})
			}
		})
	}
}
