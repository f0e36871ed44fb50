package main

import (
    "log"
    "net/http"
    "os"
    "time"

    "github.com/prometheus/client_golang/prometheus/promhttp"

    "pinroute/internal/api"
    "pinroute/internal/metrics"
)

func main() {
    srvDeps, err := api.NewServer()
    if err != nil {
        log.Fatalf("failed to init server: %v", err)
    }
    metrics.RegisterDefault()

    mux := http.NewServeMux()

    // Optimization
    mux.HandleFunc("/optimize", srvDeps.OptimizeHandler) // original collaborator contract
    mux.HandleFunc("/v1/optimize", srvDeps.OptimizeHandler)
    mux.HandleFunc("/v1/optimize/stream", srvDeps.OptimizeStreamHandler)
    mux.HandleFunc("/v1/solver/config", srvDeps.SolverConfigHandler)

    // Admin
    mux.HandleFunc("/v1/admin/solver/config", srvDeps.AdminSolverConfigHandler)
    mux.HandleFunc("/v1/admin/solve-stats", srvDeps.SolveStatsHandler)

    // Health and telemetry
    mux.HandleFunc("/healthz", srvDeps.HealthHandler)
    mux.HandleFunc("/readyz", srvDeps.ReadyHandler)
    mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

    // Docs
    mux.HandleFunc("/openapi.yaml", srvDeps.OpenAPIHandler)
    mux.HandleFunc("/openapi.json", srvDeps.OpenAPIJSONHandler)
    mux.HandleFunc("/docs", srvDeps.DocsHandler)
    mux.HandleFunc("/debug/info", srvDeps.DebugInfoHandler)

    addr := ":8080"
    if v := os.Getenv("PORT"); v != "" {
        addr = ":" + v
    }

    handler := api.LogMiddleware(srvDeps.RateLimitMiddleware(api.MetricsMiddleware(mux)))
    srv := &http.Server{
        Addr:              addr,
        Handler:           handler,
        ReadHeaderTimeout: 5 * time.Second,
    }

    log.Printf("API listening on %s", addr)
    if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
        log.Fatalf("server error: %v", err)
    }
}
