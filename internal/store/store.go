package store

import (
    "context"
    "errors"

    "pinroute/internal/model"
)

// Store persists solver telemetry and per-deployment solver defaults.
// Computed tours are never stored; each solve is request-scoped.
type Store interface {
    SaveSolveStats(ctx context.Context, st model.SolveStats) error
    ListSolveStats(ctx context.Context, limit int) ([]model.SolveStats, error)

    // Solver config overrides (admin-managed defaults)
    GetSolverConfig(ctx context.Context) (map[string]any, error)
    SaveSolverConfig(ctx context.Context, cfg map[string]any) error
}

var ErrNotFound = errors.New("not found")
