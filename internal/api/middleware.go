package api

import (
    "log"
    "net/http"
    "strconv"
    "time"

    "pinroute/internal/metrics"
)

type statusRecorder struct {
    http.ResponseWriter
    status int
}

func (sr *statusRecorder) WriteHeader(code int) {
    sr.status = code
    sr.ResponseWriter.WriteHeader(code)
}

// LogMiddleware logs one line per request.
func LogMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
        next.ServeHTTP(sr, r)
        log.Printf("%s %s %d %s", r.Method, r.URL.Path, sr.status, time.Since(start))
    })
}

// MetricsMiddleware records request counts and latency on the service
// registry. Paths are a fixed route table, so label cardinality stays small.
func MetricsMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
        next.ServeHTTP(sr, r)
        status := strconv.Itoa(sr.status)
        metrics.HTTPRequests.WithLabelValues(r.Method, r.URL.Path, status).Inc()
        metrics.HTTPDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
    })
}

// RateLimitMiddleware rejects requests above the configured rate with a 429
// problem. A nil limiter (RATE_RPS unset) passes everything through.
func (s *Server) RateLimitMiddleware(next http.Handler) http.Handler {
    if s.Limiter == nil {
        return next
    }
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if !s.Limiter.Allow() {
            writeProblem(w, http.StatusTooManyRequests, "Rate limit exceeded", "slow down", r.URL.Path)
            return
        }
        next.ServeHTTP(w, r)
    })
}
