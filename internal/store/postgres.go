package store

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "time"

    "github.com/google/uuid"
    _ "github.com/jackc/pgx/v5/stdlib"

    "routesolve/internal/model"
)

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
    p := &Postgres{db: db}
    if err := p.ensureSchema(context.Background()); err != nil {
        return nil, err
    }
    return p, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
    return p.db.PingContext(ctx)
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
    _, err := p.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS solve_runs (
    id UUID PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    status TEXT NOT NULL,
    request_digest TEXT NOT NULL DEFAULT '',
    locations INT NOT NULL DEFAULT 0,
    vehicles INT NOT NULL DEFAULT 0,
    routes JSONB NOT NULL DEFAULT '[]',
    dropped JSONB NOT NULL DEFAULT '[]',
    error TEXT NOT NULL DEFAULT '',
    warnings JSONB NOT NULL DEFAULT '[]',
    duration_ms BIGINT NOT NULL DEFAULT 0,
    metrics JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS solve_runs_tenant_created ON solve_runs (tenant_id, id);
CREATE TABLE IF NOT EXISTS solver_configs (
    tenant_id TEXT PRIMARY KEY,
    cfg JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`)
    return err
}

func (p *Postgres) CreateSolveRun(ctx context.Context, run model.SolveRun) (model.SolveRun, error) {
    if run.ID == "" { run.ID = uuid.New().String() }
    if run.CreatedAt.IsZero() { run.CreatedAt = time.Now().UTC() }
    _, err := p.db.ExecContext(ctx, `INSERT INTO solve_runs
        (id, tenant_id, status, request_digest, locations, vehicles, routes, dropped, error, warnings, duration_ms, metrics, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
        run.ID, run.TenantID, run.Status, run.RequestDigest, run.Locations, run.Vehicles,
        toJSON(run.Routes), toJSON(run.Dropped), run.Error, toJSON(run.Warnings), run.DurationMs, toJSONOrNull(run.Metrics), run.CreatedAt)
    if err != nil { return model.SolveRun{}, err }
    return run, nil
}

func (p *Postgres) GetSolveRun(ctx context.Context, tenantID, id string) (model.SolveRun, error) {
    row := p.db.QueryRowContext(ctx, `SELECT id::text, tenant_id, status, request_digest, locations, vehicles, routes, dropped, error, warnings, duration_ms, metrics, created_at
        FROM solve_runs WHERE tenant_id=$1 AND id=$2`, tenantID, id)
    return scanRun(row)
}

func (p *Postgres) ListSolveRuns(ctx context.Context, tenantID, cursor string, limit int) ([]model.SolveRun, string, error) {
    if limit <= 0 || limit > 500 { limit = 100 }
    var rows *sql.Rows
    var err error
    if cursor != "" {
        rows, err = p.db.QueryContext(ctx, `SELECT id::text, tenant_id, status, request_digest, locations, vehicles, routes, dropped, error, warnings, duration_ms, metrics, created_at
            FROM solve_runs WHERE tenant_id=$1 AND id::text > $2 ORDER BY id LIMIT $3`, tenantID, cursor, limit)
    } else {
        rows, err = p.db.QueryContext(ctx, `SELECT id::text, tenant_id, status, request_digest, locations, vehicles, routes, dropped, error, warnings, duration_ms, metrics, created_at
            FROM solve_runs WHERE tenant_id=$1 ORDER BY id LIMIT $2`, tenantID, limit)
    }
    if err != nil { return nil, "", err }
    defer rows.Close()
    out := []model.SolveRun{}
    var last string
    for rows.Next() {
        r, err := scanRun(rows)
        if err != nil { return nil, "", err }
        out = append(out, r)
        last = r.ID
    }
    var next string
    if len(out) == limit { next = last }
    return out, next, rows.Err()
}

func (p *Postgres) GetSolverConfig(ctx context.Context, tenantID string) (model.SolverConfig, error) {
    var raw []byte
    err := p.db.QueryRowContext(ctx, `SELECT cfg FROM solver_configs WHERE tenant_id=$1`, tenantID).Scan(&raw)
    if errors.Is(err, sql.ErrNoRows) { return model.SolverConfig{}, nil }
    if err != nil { return model.SolverConfig{}, err }
    var cfg model.SolverConfig
    if err := json.Unmarshal(raw, &cfg); err != nil { return model.SolverConfig{}, err }
    return cfg, nil
}

func (p *Postgres) SaveSolverConfig(ctx context.Context, tenantID string, cfg model.SolverConfig) error {
    _, err := p.db.ExecContext(ctx, `INSERT INTO solver_configs (tenant_id, cfg, updated_at) VALUES ($1,$2,now())
        ON CONFLICT (tenant_id) DO UPDATE SET cfg=EXCLUDED.cfg, updated_at=now()`, tenantID, toJSON(cfg))
    return err
}

type rowScanner interface {
    Scan(dest ...any) error
}

func scanRun(row rowScanner) (model.SolveRun, error) {
    var r model.SolveRun
    var routes, dropped, warnings []byte
    var metrics sql.NullString
    err := row.Scan(&r.ID, &r.TenantID, &r.Status, &r.RequestDigest, &r.Locations, &r.Vehicles,
        &routes, &dropped, &r.Error, &warnings, &r.DurationMs, &metrics, &r.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) { return r, ErrNotFound }
    if err != nil { return r, err }
    _ = json.Unmarshal(routes, &r.Routes)
    _ = json.Unmarshal(dropped, &r.Dropped)
    _ = json.Unmarshal(warnings, &r.Warnings)
    if metrics.Valid && metrics.String != "" {
        var m model.SolveMetrics
        if json.Unmarshal([]byte(metrics.String), &m) == nil { r.Metrics = &m }
    }
    if r.Routes == nil { r.Routes = []model.VehicleRoute{} }
    if r.Dropped == nil { r.Dropped = []int{} }
    return r, nil
}

func toJSON(v any) []byte {
    b, err := json.Marshal(v)
    if err != nil { return []byte("null") }
    return b
}

func toJSONOrNull(v *model.SolveMetrics) any {
    if v == nil { return nil }
    return toJSON(v)
}
