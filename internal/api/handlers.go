package api

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "strconv"
    "time"

    "github.com/google/uuid"

    "pinroute/internal/cache"
    "pinroute/internal/geo"
    "pinroute/internal/metrics"
    "pinroute/internal/model"
    "pinroute/internal/solver"
)

// OptimizeHandler serves POST /optimize and POST /v1/optimize. Request and
// response shapes are identical on both paths; the unversioned path is the
// original collaborator contract.
func (s *Server) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        writeProblem(w, http.StatusMethodNotAllowed, "Method not allowed", "use POST", r.URL.Path)
        return
    }
    var req model.OptimizeRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
        return
    }
    if err := validateOptimizeRequest(&req, s.MinPoints); err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid optimize request", err.Error(), r.URL.Path)
        return
    }
    if len(req.Coords) == 0 {
        // documented empty-tour convention: nothing to visit, zero distance
        writeJSON(w, http.StatusOK, model.OptimizeResponse{Order: []int{}, Distance: 0})
        return
    }
    resp, err := s.runSolve(r.Context(), req)
    if err != nil {
        writeProblem(w, http.StatusInternalServerError, "Solve failed", err.Error(), r.URL.Path)
        return
    }
    writeJSON(w, http.StatusOK, resp)
}

// runSolve answers from the result cache when possible and otherwise
// collapses concurrent identical requests into one solver run.
func (s *Server) runSolve(ctx context.Context, req model.OptimizeRequest) (model.OptimizeResponse, error) {
    key := cache.Fingerprint(req.Coords, req.Algorithm, req.Construction, req.DepotIndex)
    if v, ok := s.Cache.Get(ctx, key); ok {
        metrics.Solves.WithLabelValues(effectiveAlgorithm(req.Algorithm), "cache_hit").Inc()
        return v, nil
    }
    return s.Flight.Do(key, func() (model.OptimizeResponse, error) {
        v, err := s.solve(ctx, req, "")
        if err == nil {
            s.Cache.Set(ctx, key, v)
        }
        return v, err
    })
}

func effectiveAlgorithm(a string) string {
    if a == "" {
        return solver.AlgoTwoOpt
    }
    return a
}

// solve runs one optimization end to end: matrix build, construction and
// local search, telemetry, and progress fanout. A panic anywhere inside the
// solver is converted to an error so one bad request cannot take the
// process down.
func (s *Server) solve(ctx context.Context, req model.OptimizeRequest, solveID string) (resp model.OptimizeResponse, err error) {
    defer func() {
        if rec := recover(); rec != nil {
            err = fmt.Errorf("solver panic: %v", rec)
            metrics.Solves.WithLabelValues(effectiveAlgorithm(req.Algorithm), "error").Inc()
        }
    }()
    if solveID == "" {
        solveID = uuid.New().String()
    }
    algo := effectiveAlgorithm(req.Algorithm)
    s.applyConfigDefaults(ctx, &req)

    points := model.PointsFromPairs(req.Coords)
    m, buildErr := geo.Build(points)
    if buildErr != nil {
        metrics.Solves.WithLabelValues(algo, "error").Inc()
        return model.OptimizeResponse{}, buildErr
    }

    budget := s.DefaultBudget
    if req.TimeBudgetMs > 0 {
        budget = time.Duration(req.TimeBudgetMs) * time.Millisecond
    }
    maxIters := s.MaxIters
    if req.MaxIterations > 0 {
        maxIters = req.MaxIterations
    }
    opts := solver.Options{
        Algorithm:     algo,
        Construction:  req.Construction,
        Depot:         req.DepotIndex,
        MaxIterations: maxIters,
        TimeBudget:    budget,
        OnImprovement: func(cost int64, order []int) {
            s.Broker.Publish(solveID, ProgressEvent{Type: "solve.progress", Data: map[string]any{
                "solveId": solveID, "cost": geo.Descale(cost), "order": order,
            }})
        },
    }

    start := time.Now()
    res, st, solveErr := solver.Solve(ctx, m, opts)
    if solveErr != nil {
        metrics.Solves.WithLabelValues(algo, "error").Inc()
        return model.OptimizeResponse{}, solveErr
    }
    dur := time.Since(start)

    resp = model.OptimizeResponse{
        Order:     res.Order,
        Distance:  geo.TourLength(points, res.Order),
        Truncated: res.Truncated,
        SolveID:   solveID,
    }

    outcome := "ok"
    if res.Truncated {
        outcome = "truncated"
    }
    metrics.Solves.WithLabelValues(algo, outcome).Inc()
    metrics.SolveDuration.WithLabelValues(algo).Observe(dur.Seconds())
    metrics.TourSize.Observe(float64(len(req.Coords)))
    metrics.SolveIterations.Add(float64(st.Iterations))

    sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    _ = s.Store.SaveSolveStats(sctx, model.SolveStats{
        SolveID:      solveID,
        N:            len(req.Coords),
        Algorithm:    algo,
        Construction: st.Construction,
        Iterations:   st.Iterations,
        Improvements: st.Improvements,
        InitialCost:  geo.Descale(st.InitialCost),
        FinalCost:    geo.Descale(st.FinalCost),
        DurationMs:   int(dur.Milliseconds()),
        Truncated:    res.Truncated,
        TS:           time.Now().UTC().Format(time.RFC3339),
    })

    s.Broker.Publish(solveID, ProgressEvent{Type: "solve.completed", Data: map[string]any{
        "solveId": solveID, "order": resp.Order, "distance": resp.Distance, "truncated": resp.Truncated,
    }})
    return resp, nil
}

// applyConfigDefaults overlays admin-managed solver defaults onto knobs the
// request left unset. Store errors are ignored; built-in defaults apply.
func (s *Server) applyConfigDefaults(ctx context.Context, req *model.OptimizeRequest) {
    cctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
    defer cancel()
    cfg, err := s.Store.GetSolverConfig(cctx)
    if err != nil || cfg == nil {
        return
    }
    if req.Construction == "" {
        if v, ok := cfg["construction"].(string); ok && solver.KnownConstruction(v) {
            req.Construction = v
        }
    }
    if req.TimeBudgetMs == 0 {
        if v, ok := cfg["timeBudgetMs"].(float64); ok && v > 0 {
            req.TimeBudgetMs = int(v)
        }
    }
    if req.MaxIterations == 0 {
        if v, ok := cfg["maxIterations"].(float64); ok && v > 0 {
            req.MaxIterations = int(v)
        }
    }
}

// HealthHandler is the liveness probe.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type pinger interface {
    Ping(ctx context.Context) error
}

// ReadyHandler reports readiness; with a DB-backed store it checks
// connectivity, otherwise the in-memory store is always ready.
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
    if p, ok := s.Store.(pinger); ok {
        ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
        defer cancel()
        if err := p.Ping(ctx); err != nil {
            writeProblem(w, http.StatusServiceUnavailable, "Not ready", err.Error(), r.URL.Path)
            return
        }
    }
    writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// SolveStatsHandler lists recent solve telemetry (admin).
func (s *Server) SolveStatsHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        writeProblem(w, http.StatusMethodNotAllowed, "Method not allowed", "use GET", r.URL.Path)
        return
    }
    if !s.authorized(r) {
        writeProblem(w, http.StatusForbidden, "Forbidden", "valid bearer token required", r.URL.Path)
        return
    }
    limit := 100
    if v := r.URL.Query().Get("limit"); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            limit = n
        }
    }
    items, err := s.Store.ListSolveStats(r.Context(), limit)
    if err != nil {
        writeProblem(w, http.StatusInternalServerError, "Store error", err.Error(), r.URL.Path)
        return
    }
    writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// SolverConfigHandler returns the effective solver defaults (built-in values
// overlaid with any admin overrides). Read-only and unauthenticated.
func (s *Server) SolverConfigHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        writeProblem(w, http.StatusMethodNotAllowed, "Method not allowed", "use GET", r.URL.Path)
        return
    }
    eff := map[string]any{
        "algorithm":     solver.AlgoTwoOpt,
        "construction":  solver.ConsPathCheapestArc,
        "timeBudgetMs":  int(s.DefaultBudget.Milliseconds()),
        "maxIterations": s.MaxIters,
    }
    if cfg, err := s.Store.GetSolverConfig(r.Context()); err == nil {
        for k, v := range cfg {
            eff[k] = v
        }
    }
    writeJSON(w, http.StatusOK, eff)
}

// AdminSolverConfigHandler reads or replaces the stored solver overrides.
func (s *Server) AdminSolverConfigHandler(w http.ResponseWriter, r *http.Request) {
    if !s.authorized(r) {
        writeProblem(w, http.StatusForbidden, "Forbidden", "valid bearer token required", r.URL.Path)
        return
    }
    switch r.Method {
    case http.MethodGet:
        cfg, err := s.Store.GetSolverConfig(r.Context())
        if err != nil {
            writeProblem(w, http.StatusInternalServerError, "Store error", err.Error(), r.URL.Path)
            return
        }
        if cfg == nil {
            cfg = map[string]any{}
        }
        writeJSON(w, http.StatusOK, cfg)
    case http.MethodPut:
        var cfg map[string]any
        if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
            writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
            return
        }
        if v, ok := cfg["construction"].(string); ok && v != "" && !solver.KnownConstruction(v) {
            writeProblem(w, http.StatusBadRequest, "Invalid solver config", fmt.Sprintf("unknown construction %q", v), r.URL.Path)
            return
        }
        if err := s.Store.SaveSolverConfig(r.Context(), cfg); err != nil {
            writeProblem(w, http.StatusInternalServerError, "Store error", err.Error(), r.URL.Path)
            return
        }
        writeJSON(w, http.StatusOK, cfg)
    default:
        writeProblem(w, http.StatusMethodNotAllowed, "Method not allowed", "use GET or PUT", r.URL.Path)
    }
}
