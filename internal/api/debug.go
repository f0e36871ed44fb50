package api

import (
    "net/http"
    "os"
    "runtime"

    "pinroute/internal/buildinfo"
)

// DebugInfoHandler dumps build and configuration facts for triage. Secrets
// are reported as presence flags only.
func (s *Server) DebugInfoHandler(w http.ResponseWriter, r *http.Request) {
    if !s.authorized(r) {
        writeProblem(w, http.StatusForbidden, "Forbidden", "valid bearer token required", r.URL.Path)
        return
    }
    writeJSON(w, http.StatusOK, map[string]any{
        "version":   buildinfo.Version,
        "commit":    buildinfo.Commit,
        "date":      buildinfo.Date,
        "go":        runtime.Version(),
        "goroutines": runtime.NumGoroutine(),
        "env": map[string]any{
            "PORT":                 os.Getenv("PORT"),
            "MIN_POINTS":           s.MinPoints,
            "SOLVE_TIME_BUDGET_MS": int(s.DefaultBudget.Milliseconds()),
            "SOLVE_MAX_ITERS":      s.MaxIters,
            "RATE_RPS":             os.Getenv("RATE_RPS"),
            "HAS_DATABASE_URL":     os.Getenv("DATABASE_URL") != "",
            "HAS_REDIS_URL":        os.Getenv("REDIS_URL") != "",
            "HAS_API_TOKEN":        s.APIToken != "",
        },
    })
}
