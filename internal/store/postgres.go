package store

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"

    _ "github.com/jackc/pgx/v5/stdlib"

    "pinroute/internal/model"
)

// Postgres persists solve telemetry via the pgx stdlib driver.
type Postgres struct {
    db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
    db, err := sql.Open("pgx", dsn)
    if err != nil {
        return nil, err
    }
    if err := db.Ping(); err != nil {
        return nil, err
    }
    return &Postgres{db: db}, nil
}

// EnsureSchema creates the telemetry tables if missing (dev helper).
func (p *Postgres) EnsureSchema(ctx context.Context) error {
    _, err := p.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS solve_stats (
            solve_id      text PRIMARY KEY,
            n             int NOT NULL,
            algorithm     text NOT NULL,
            construction  text NOT NULL,
            iterations    int NOT NULL,
            improvements  int NOT NULL,
            initial_cost  double precision NOT NULL,
            final_cost    double precision NOT NULL,
            duration_ms   int NOT NULL,
            truncated     boolean NOT NULL,
            ts            timestamptz NOT NULL DEFAULT now()
        );
        CREATE TABLE IF NOT EXISTS solver_config (
            id  int PRIMARY KEY DEFAULT 1,
            cfg jsonb NOT NULL
        );`)
    return err
}

// Ping reports DB connectivity; used by the readiness probe.
func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func (p *Postgres) SaveSolveStats(ctx context.Context, st model.SolveStats) error {
    _, err := p.db.ExecContext(ctx, `INSERT INTO solve_stats
        (solve_id, n, algorithm, construction, iterations, improvements, initial_cost, final_cost, duration_ms, truncated)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        ON CONFLICT (solve_id) DO NOTHING`,
        st.SolveID, st.N, st.Algorithm, st.Construction, st.Iterations, st.Improvements,
        st.InitialCost, st.FinalCost, st.DurationMs, st.Truncated)
    return err
}

func (p *Postgres) ListSolveStats(ctx context.Context, limit int) ([]model.SolveStats, error) {
    if limit <= 0 || limit > 500 {
        limit = 100
    }
    rows, err := p.db.QueryContext(ctx, `SELECT solve_id, n, algorithm, construction, iterations, improvements,
        initial_cost, final_cost, duration_ms, truncated, to_char(ts, 'YYYY-MM-DD"T"HH24:MI:SSZ')
        FROM solve_stats ORDER BY ts DESC LIMIT $1`, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.SolveStats{}
    for rows.Next() {
        var st model.SolveStats
        if err := rows.Scan(&st.SolveID, &st.N, &st.Algorithm, &st.Construction, &st.Iterations,
            &st.Improvements, &st.InitialCost, &st.FinalCost, &st.DurationMs, &st.Truncated, &st.TS); err != nil {
            return nil, err
        }
        out = append(out, st)
    }
    return out, rows.Err()
}

func (p *Postgres) GetSolverConfig(ctx context.Context) (map[string]any, error) {
    var raw []byte
    err := p.db.QueryRowContext(ctx, `SELECT cfg FROM solver_config WHERE id = 1`).Scan(&raw)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    var cfg map[string]any
    if err := json.Unmarshal(raw, &cfg); err != nil {
        return nil, err
    }
    return cfg, nil
}

func (p *Postgres) SaveSolverConfig(ctx context.Context, cfg map[string]any) error {
    raw, err := json.Marshal(cfg)
    if err != nil {
        return err
    }
    _, err = p.db.ExecContext(ctx, `INSERT INTO solver_config (id, cfg) VALUES (1, $1)
        ON CONFLICT (id) DO UPDATE SET cfg = EXCLUDED.cfg`, raw)
    return err
}
