package model

// Wire types for the solve contract. One request in, one response out.

const (
	TripPickup  = "PICKUP"
	TripDropoff = "DROPOFF"
)

// Default drop penalty applied per dropped non-mandatory visit.
const DefaultDropPenalty int64 = 5000000

// SolveRequest is the single JSON object describing one CVRP instance.
// Matrix cells are decoded as `any` so that null (unreachable) and
// non-numeric (invalid) entries can be told apart during normalization.
type SolveRequest struct {
	TenantID string `json:"tenant_id,omitempty"`

	DistanceMatrix    [][]any   `json:"distance_matrix"`
	DurationMatrix    [][]any   `json:"duration_matrix,omitempty"`
	Demands           []float64 `json:"demands"`
	VehicleCapacities []float64 `json:"vehicle_capacities"`
	NumVehicles       int       `json:"num_vehicles"`
	DepotIndex        int       `json:"depot_index,omitempty"`

	MaxRouteDuration *float64  `json:"max_route_duration,omitempty"`
	ServiceTimes     []float64 `json:"service_times,omitempty"`

	AllowDroppingVisits bool   `json:"allow_dropping_visits,omitempty"`
	DropVisitPenalty    *int64 `json:"drop_visit_penalty,omitempty"`

	TripType               string   `json:"trip_type,omitempty"`
	DirectionPenaltyWeight *float64 `json:"direction_penalty_weight,omitempty"`

	// Re-optimization pins. At most one of fixed start / fixed end is set.
	FixedStartNodeIndex      *int  `json:"fixed_start_node_index_in_matrix,omitempty"`
	FixedEndNodeIndex        *int  `json:"fixed_end_node_index_in_matrix,omitempty"`
	OtherCustomerNodeIndices []int `json:"other_customer_node_indices_in_matrix,omitempty"`

	SearchParams *SearchParams `json:"search_params,omitempty"`
}

// SearchParams are opaque engine knobs passed through to the search. Zero
// values mean "engine default".
type SearchParams struct {
	Seed          int64   `json:"seed,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty"`
	InitTemp      float64 `json:"init_temp,omitempty"`
	Cooling       float64 `json:"cooling,omitempty"`
}

// VehicleRoute is one vehicle's ordered customer visits, depot excluded.
type VehicleRoute struct {
	VehicleIndex int   `json:"vehicle_index"`
	NodeIndices  []int `json:"node_indices"`
}

// SolveResponse is the single JSON object written per request. Routes and
// dropped indices are always present (possibly empty); Error only on failure.
type SolveResponse struct {
	Routes             []VehicleRoute `json:"routes"`
	DroppedNodeIndices []int          `json:"dropped_node_indices"`
	Error              string         `json:"error,omitempty"`
	SolveID            string         `json:"solve_id,omitempty"`
}

// NewSolveResponse returns a response with non-nil slices so empty results
// marshal as [] rather than null.
func NewSolveResponse() *SolveResponse {
	return &SolveResponse{Routes: []VehicleRoute{}, DroppedNodeIndices: []int{}}
}
