package solver

import (
	"fmt"
	"math"
	"strings"

	"routesolve/internal/engine"
	"routesolve/internal/model"
)

// Model is the compiled, validated data model for one solve. It is built
// fresh per request and threaded through every component; nothing here
// outlives the response.
type Model struct {
	Distance     [][]int64
	Duration     [][]int64
	Demands      []int64
	Capacities   []int64
	ServiceTimes []int64

	NumVehicles int
	Depot       int

	MaxRouteDuration *int64

	AllowDrop   bool
	DropPenalty int64

	TripType        string
	DirectionWeight float64

	FixedStart     *int
	FixedEnd       *int
	OtherCustomers []int

	// Search carries the opaque engine knobs. A zero TimeBudget means the
	// size-scaled default applies.
	Search engine.SearchParams

	Warnings []string
}

// Compile validates and coerces a request into a Model. Errors returned here
// are fatal for the request: MatrixTypeError, ShapeMismatchError, RangeError.
func Compile(req *model.SolveRequest) (*Model, error) {
	if req.DistanceMatrix == nil {
		return nil, &ShapeMismatchError{Detail: "distance_matrix is required"}
	}
	dist, err := normalizeMatrix("distance_matrix", req.DistanceMatrix)
	if err != nil {
		return nil, err
	}
	dur := dist
	if req.DurationMatrix != nil {
		if dur, err = normalizeMatrix("duration_matrix", req.DurationMatrix); err != nil {
			return nil, err
		}
	}

	n := len(dist)
	m := &Model{
		Distance:    dist,
		Duration:    dur,
		NumVehicles: req.NumVehicles,
		Depot:       req.DepotIndex,
		AllowDrop:   req.AllowDroppingVisits,
		DropPenalty: model.DefaultDropPenalty,
		TripType:    model.TripPickup,
	}
	if req.DropVisitPenalty != nil {
		m.DropPenalty = *req.DropVisitPenalty
	}
	if req.TripType != "" {
		m.TripType = strings.ToUpper(req.TripType)
	}
	m.DirectionWeight = 1.0
	if req.DirectionPenaltyWeight != nil {
		m.DirectionWeight = *req.DirectionPenaltyWeight
	}
	if req.MaxRouteDuration != nil {
		v := int64(math.Round(*req.MaxRouteDuration))
		m.MaxRouteDuration = &v
	}

	m.Demands = make([]int64, len(req.Demands))
	for i, d := range req.Demands {
		m.Demands[i] = int64(d)
	}
	m.Capacities = make([]int64, len(req.VehicleCapacities))
	for i, c := range req.VehicleCapacities {
		m.Capacities[i] = int64(c)
	}
	if req.ServiceTimes != nil {
		m.ServiceTimes = make([]int64, len(req.ServiceTimes))
		for i, st := range req.ServiceTimes {
			m.ServiceTimes[i] = int64(math.Round(st))
		}
	} else {
		m.ServiceTimes = make([]int64, n)
	}

	if n > 0 {
		for i, row := range dist {
			if len(row) != n {
				return nil, &ShapeMismatchError{Detail: fmt.Sprintf("distance matrix is not square: row %d has %d entries, want %d", i, len(row), n)}
			}
		}
		if len(dur) != n {
			return nil, &ShapeMismatchError{Detail: fmt.Sprintf("duration matrix has %d rows, want %d", len(dur), n)}
		}
		for i, row := range dur {
			if len(row) != n {
				return nil, &ShapeMismatchError{Detail: fmt.Sprintf("duration matrix is not square: row %d has %d entries, want %d", i, len(row), n)}
			}
		}
		if len(m.Demands) != n {
			return nil, &ShapeMismatchError{Detail: fmt.Sprintf("demands length %d, want %d", len(m.Demands), n)}
		}
		if len(m.ServiceTimes) != n {
			return nil, &ShapeMismatchError{Detail: fmt.Sprintf("service_times length %d, want %d", len(m.ServiceTimes), n)}
		}
		if m.Depot < 0 || m.Depot >= n {
			return nil, &RangeError{Field: "depot_index", Index: m.Depot, N: n}
		}
	}
	if m.NumVehicles < 0 {
		return nil, &ShapeMismatchError{Detail: "num_vehicles must be >= 0"}
	}
	if m.NumVehicles > 0 && len(m.Capacities) != m.NumVehicles {
		return nil, &ShapeMismatchError{Detail: fmt.Sprintf("vehicle_capacities length %d, want %d", len(m.Capacities), m.NumVehicles)}
	}

	if req.FixedStartNodeIndex != nil {
		if err := m.checkCustomerIndex("fixed_start_node_index_in_matrix", *req.FixedStartNodeIndex, n); err != nil {
			return nil, err
		}
		v := *req.FixedStartNodeIndex
		m.FixedStart = &v
	}
	if req.FixedEndNodeIndex != nil {
		if err := m.checkCustomerIndex("fixed_end_node_index_in_matrix", *req.FixedEndNodeIndex, n); err != nil {
			return nil, err
		}
		v := *req.FixedEndNodeIndex
		m.FixedEnd = &v
	}
	if m.FixedStart != nil && m.FixedEnd != nil {
		return nil, &ShapeMismatchError{Detail: "at most one of fixed start and fixed end may be set"}
	}
	for _, c := range req.OtherCustomerNodeIndices {
		if err := m.checkCustomerIndex("other_customer_node_indices_in_matrix", c, n); err != nil {
			return nil, err
		}
		m.OtherCustomers = append(m.OtherCustomers, c)
	}

	if req.SearchParams != nil {
		m.Search.Seed = req.SearchParams.Seed
		m.Search.MaxIterations = req.SearchParams.MaxIterations
		m.Search.InitTemp = req.SearchParams.InitTemp
		m.Search.Cooling = req.SearchParams.Cooling
	}

	if n > 0 && m.Depot != 0 {
		// Direction-penalty lookups key off the depot index; a non-zero depot
		// is supported but worth flagging to callers used to the default.
		m.Warnings = append(m.Warnings, fmt.Sprintf("depot_index is %d, not 0; depot-relative costs use index %d", m.Depot, m.Depot))
	}
	return m, nil
}

func (m *Model) checkCustomerIndex(field string, idx, n int) error {
	if idx < 0 || idx >= n || idx == m.Depot {
		return &RangeError{Field: field, Index: idx, N: n}
	}
	return nil
}
