package store

import (
    "context"
    "sync"
    "time"

    "github.com/google/uuid"
    "routesolve/internal/model"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
    mu     sync.Mutex
    runs   map[string]model.SolveRun // id -> run
    byTen  map[string][]string       // tenant -> run ids, insertion order
    cfg    map[string]model.SolverConfig
}

func NewMemory() *Memory {
    return &Memory{
        runs: map[string]model.SolveRun{},
        byTen: map[string][]string{},
        cfg: map[string]model.SolverConfig{},
    }
}

func (m *Memory) CreateSolveRun(ctx context.Context, run model.SolveRun) (model.SolveRun, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    if run.ID == "" { run.ID = uuid.New().String() }
    if run.CreatedAt.IsZero() { run.CreatedAt = time.Now().UTC() }
    m.runs[run.ID] = run
    m.byTen[run.TenantID] = append(m.byTen[run.TenantID], run.ID)
    return run, nil
}

func (m *Memory) GetSolveRun(ctx context.Context, tenantID, id string) (model.SolveRun, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    r, ok := m.runs[id]
    if !ok || r.TenantID != tenantID { return model.SolveRun{}, ErrNotFound }
    return r, nil
}

func (m *Memory) ListSolveRuns(ctx context.Context, tenantID, cursor string, limit int) ([]model.SolveRun, string, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    ids := m.byTen[tenantID]
    start := 0
    if cursor != "" {
        for i, id := range ids {
            if id == cursor { start = i + 1; break }
        }
    }
    if limit <= 0 { limit = 100 }
    out := []model.SolveRun{}
    var next string
    for i := start; i < len(ids) && len(out) < limit; i++ {
        out = append(out, m.runs[ids[i]])
        next = ids[i]
    }
    if len(out) < limit { next = "" }
    return out, next, nil
}

func (m *Memory) GetSolverConfig(ctx context.Context, tenantID string) (model.SolverConfig, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    c, ok := m.cfg[tenantID]
    if !ok { return model.SolverConfig{}, nil }
    return c, nil
}

func (m *Memory) SaveSolverConfig(ctx context.Context, tenantID string, cfg model.SolverConfig) error {
    m.mu.Lock(); defer m.mu.Unlock()
    m.cfg[tenantID] = cfg
    return nil
}
