package store

import (
    "context"
    "sync"

    "pinroute/internal/model"
)

// memoryCap bounds the in-memory audit ring.
const memoryCap = 1000

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
    mu    sync.Mutex
    stats []model.SolveStats // newest first
    cfg   map[string]any
}

func NewMemory() *Memory {
    return &Memory{cfg: map[string]any{}}
}

func (m *Memory) SaveSolveStats(ctx context.Context, st model.SolveStats) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.stats = append([]model.SolveStats{st}, m.stats...)
    if len(m.stats) > memoryCap {
        m.stats = m.stats[:memoryCap]
    }
    return nil
}

func (m *Memory) ListSolveStats(ctx context.Context, limit int) ([]model.SolveStats, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    if limit <= 0 || limit > len(m.stats) {
        limit = len(m.stats)
    }
    out := make([]model.SolveStats, limit)
    copy(out, m.stats[:limit])
    return out, nil
}

func (m *Memory) GetSolverConfig(ctx context.Context) (map[string]any, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    if len(m.cfg) == 0 {
        return nil, nil
    }
    out := map[string]any{}
    for k, v := range m.cfg {
        out[k] = v
    }
    return out, nil
}

func (m *Memory) SaveSolverConfig(ctx context.Context, cfg map[string]any) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.cfg = map[string]any{}
    for k, v := range cfg {
        m.cfg[k] = v
    }
    return nil
}
