package model

import "time"

// Persisted audit record of one solve. Request matrices are not stored, only
// a digest and the headline numbers; responses are stored whole.
type SolveRun struct {
	ID            string         `json:"id"`
	TenantID      string         `json:"tenant_id"`
	Status        string         `json:"status"` // completed | no_solution | error
	RequestDigest string         `json:"request_digest"`
	Locations     int            `json:"locations"`
	Vehicles      int            `json:"vehicles"`
	Routes        []VehicleRoute `json:"routes"`
	Dropped       []int          `json:"dropped_node_indices"`
	Error         string         `json:"error,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
	DurationMs    int64          `json:"duration_ms"`
	Metrics       *SolveMetrics  `json:"metrics,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

const (
	RunCompleted  = "completed"
	RunNoSolution = "no_solution"
	RunError      = "error"
)

// SolveMetrics is the wire form of the engine's search metrics.
type SolveMetrics struct {
	Iterations     int              `json:"iterations"`
	Improvements   int              `json:"improvements"`
	AcceptedWorse  int              `json:"accepted_worse"`
	BestCost       int64            `json:"best_cost"`
	FinalCost      int64            `json:"final_cost"`
	RemovalSelects [2]int           `json:"removal_selects"`
	InsertSelects  [2]int           `json:"insert_selects"`
	Weights        []WeightSnapshot `json:"weights,omitempty"`
}

type WeightSnapshot struct {
	Iteration int        `json:"iteration"`
	Removal   [2]float64 `json:"removal"`
	Insertion [2]float64 `json:"insertion"`
}

// SolverConfig holds per-tenant solve defaults applied when the request
// leaves the corresponding field unset.
type SolverConfig struct {
	DropVisitPenalty       *int64        `json:"drop_visit_penalty,omitempty"`
	DirectionPenaltyWeight *float64      `json:"direction_penalty_weight,omitempty"`
	AllowDroppingVisits    *bool         `json:"allow_dropping_visits,omitempty"`
	SearchParams           *SearchParams `json:"search_params,omitempty"`
}

// SolveEvent is published on the event broker around each API solve.
type SolveEvent struct {
	Type     string    `json:"type"` // solve.started | solve.completed | solve.failed
	SolveID  string    `json:"solve_id"`
	TenantID string    `json:"tenant_id,omitempty"`
	Status   string    `json:"status,omitempty"`
	At       time.Time `json:"at"`
}
