package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"hrdash/internal/platform/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logger emits one event per request and feeds the metrics collector when
// one is given. The request logger is attached to the context for handlers.
func Logger(log zerolog.Logger, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLog := log.With().Str("requestId", GetRequestID(r.Context())).Logger()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r.WithContext(reqLog.WithContext(r.Context())))

			duration := time.Since(start)
			if collector != nil {
				collector.Record(recorder.status, duration)
			}

			event := reqLog.Info()
			if recorder.status >= 500 {
				event = reqLog.Error()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", recorder.status).
				Int64("durationMs", duration.Milliseconds()).
				Msg("request completed")
		})
	}
}
