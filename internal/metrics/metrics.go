package metrics

import (
    "sync"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
)

var (
    // Registry is the dedicated Prometheus registry for the API
    Registry = prometheus.NewRegistry()
    // HTTPRequests counts requests by method, path, and status
    HTTPRequests = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
        []string{"method", "path", "status"},
    )
    // HTTPDuration records request durations in seconds
    HTTPDuration = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
        []string{"method", "path", "status"},
    )

    // Solves counts optimization runs by algorithm and outcome (ok, truncated, cache_hit, error)
    Solves = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "optimizer_solves_total", Help: "Tour solves by algorithm and outcome."},
        []string{"algorithm", "outcome"},
    )
    // SolveDuration tracks end-to-end solve latency in seconds
    SolveDuration = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "optimizer_solve_duration_seconds", Help: "Solve duration in seconds.", Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2, 5}},
        []string{"algorithm"},
    )
    // TourSize observes the number of pins per solve
    TourSize = prometheus.NewHistogram(
        prometheus.HistogramOpts{Name: "optimizer_tour_size", Help: "Pins per solve request.", Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 250}},
    )
    // SolveIterations counts local-search candidate evaluations
    SolveIterations = prometheus.NewCounter(
        prometheus.CounterOpts{Name: "optimizer_iterations_total", Help: "Local-search candidate evaluations."},
    )
)

// RegisterDefault registers collectors to the service registry.
func RegisterDefault() {
    regOnce.Do(func() {
        Registry.MustRegister(HTTPRequests)
        Registry.MustRegister(HTTPDuration)
        Registry.MustRegister(Solves)
        Registry.MustRegister(SolveDuration)
        Registry.MustRegister(TourSize)
        Registry.MustRegister(SolveIterations)
        // Go/process collectors on our registry
        Registry.MustRegister(collectors.NewGoCollector())
        Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    })
}

var regOnce sync.Once
