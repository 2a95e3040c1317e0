package store

import (
    "context"
    "errors"

    "routesolve/internal/model"
)

// Store is the persistence interface used by the API server. The contract
// process never touches it.
type Store interface {
    // Solve runs (audit trail)
    CreateSolveRun(ctx context.Context, run model.SolveRun) (model.SolveRun, error)
    GetSolveRun(ctx context.Context, tenantID, id string) (model.SolveRun, error)
    ListSolveRuns(ctx context.Context, tenantID, cursor string, limit int) ([]model.SolveRun, string, error)

    // Per-tenant solver defaults
    GetSolverConfig(ctx context.Context, tenantID string) (model.SolverConfig, error)
    SaveSolverConfig(ctx context.Context, tenantID string, cfg model.SolverConfig) error
}

var ErrNotFound = errors.New("not found")
