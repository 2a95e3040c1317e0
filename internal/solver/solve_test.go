package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routesolve/internal/model"
)

func fastSearch() *model.SearchParams {
	return &model.SearchParams{Seed: 42, MaxIterations: 200}
}

func solveRequest(t *testing.T, req *model.SolveRequest) *Result {
	t.Helper()
	if req.SearchParams == nil {
		req.SearchParams = fastSearch()
	}
	m, err := Compile(req)
	require.NoError(t, err)
	return m.Solve()
}

func servedNodes(res *Result) map[int]bool {
	out := map[int]bool{}
	for _, r := range res.Routes {
		for _, n := range r.NodeIndices {
			out[n] = true
		}
	}
	return out
}

func TestSolveEmptyProblemReturnsErrorInResult(t *testing.T) {
	res := solveRequest(t, &model.SolveRequest{DistanceMatrix: [][]any{}})
	assert.Equal(t, ErrEmptyProblem.Error(), res.Err)
	assert.Empty(t, res.Routes)
	assert.Empty(t, res.Dropped)
}

func TestSolveZeroVehiclesWithCustomersReturnsErrorInResult(t *testing.T) {
	req := baseRequest()
	req.NumVehicles = 0
	req.VehicleCapacities = nil
	res := solveRequest(t, req)
	assert.Equal(t, ErrZeroVehicles.Error(), res.Err)
	assert.Empty(t, res.Routes)
}

func TestSolveDepotOnlyProblemYieldsEmptyRoutes(t *testing.T) {
	res := solveRequest(t, &model.SolveRequest{
		DistanceMatrix:    anyMatrix([][]float64{{0}}),
		Demands:           []float64{0},
		VehicleCapacities: []float64{10},
		NumVehicles:       1,
	})
	assert.Empty(t, res.Err)
	assert.Empty(t, res.Routes)
	assert.Empty(t, res.Dropped)
	assert.False(t, res.NoSolution)
}

func TestSolveServesEveryCustomerWhenFeasible(t *testing.T) {
	res := solveRequest(t, baseRequest())
	require.Empty(t, res.Err)
	assert.Empty(t, res.Dropped)
	served := servedNodes(res)
	assert.True(t, served[1] && served[2], "customers 1 and 2 must both be served, got %v", res.Routes)
	for _, r := range res.Routes {
		assert.NotContains(t, r.NodeIndices, 0, "depot never appears inside a route")
	}
}

func TestSolveFindsOptimalTourWithoutDirectionBias(t *testing.T) {
	// Symmetric 4-node instance; with the direction penalty off the best
	// tour is the shortest Hamiltonian cycle through all customers.
	dist := [][]float64{
		{0, 10, 15, 20},
		{10, 0, 35, 25},
		{15, 35, 0, 30},
		{20, 25, 30, 0},
	}
	zero := 0.0
	res := solveRequest(t, &model.SolveRequest{
		DistanceMatrix:         anyMatrix(dist),
		Demands:                []float64{0, 1, 1, 1},
		VehicleCapacities:      []float64{10},
		NumVehicles:            1,
		DirectionPenaltyWeight: &zero,
	})
	require.Empty(t, res.Err)
	require.Len(t, res.Routes, 1)
	r := res.Routes[0].NodeIndices
	require.Len(t, r, 3)
	total := dist[0][r[0]] + dist[r[0]][r[1]] + dist[r[1]][r[2]] + dist[r[2]][0]
	// brute-force optimum for this matrix is 0-1-3-2-0 (or its reverse) = 80
	assert.Equal(t, 80.0, total, "route %v is not the optimal tour", r)
}

func TestSolveInfeasibleWithDroppingDropsEveryCustomer(t *testing.T) {
	req := baseRequest()
	req.Demands = []float64{0, 50, 50}
	req.AllowDroppingVisits = true
	res := solveRequest(t, req)
	assert.Empty(t, res.Err)
	assert.False(t, res.NoSolution)
	assert.Empty(t, res.Routes)
	assert.ElementsMatch(t, []int{1, 2}, res.Dropped)
}

func TestSolveInfeasibleWithoutDroppingReportsNoSolution(t *testing.T) {
	req := baseRequest()
	req.Demands = []float64{0, 50, 50}
	res := solveRequest(t, req)
	assert.Empty(t, res.Err, "engine failure is not a request error")
	assert.True(t, res.NoSolution)
	assert.Empty(t, res.Routes)
	assert.ElementsMatch(t, []int{1, 2}, res.Dropped)
}

func TestSolveServedAndDroppedPartitionCustomers(t *testing.T) {
	req := baseRequest()
	req.Demands = []float64{0, 6, 6}
	req.VehicleCapacities = []float64{6}
	req.AllowDroppingVisits = true
	res := solveRequest(t, req)
	require.Empty(t, res.Err)
	served := servedNodes(res)
	for _, d := range res.Dropped {
		assert.False(t, served[d], "node %d both served and dropped", d)
	}
	assert.Equal(t, 2, len(served)+len(res.Dropped), "every customer is either served or dropped")
}

func TestSolveFixedStartPinsFirstStop(t *testing.T) {
	dist := [][]float64{
		{0, 10, 20, 30},
		{10, 0, 10, 20},
		{20, 10, 0, 10},
		{30, 20, 10, 0},
	}
	start := 3
	res := solveRequest(t, &model.SolveRequest{
		DistanceMatrix:      anyMatrix(dist),
		Demands:             []float64{0, 1, 1, 1},
		VehicleCapacities:   []float64{10},
		NumVehicles:         1,
		FixedStartNodeIndex: &start,
	})
	require.Empty(t, res.Err)
	require.Len(t, res.Routes, 1)
	assert.Equal(t, 3, res.Routes[0].NodeIndices[0], "route must start at the pinned node")
	assert.Empty(t, res.Dropped)
}

func TestSolveFixedEndPinsLastStop(t *testing.T) {
	dist := [][]float64{
		{0, 10, 20, 30},
		{10, 0, 10, 20},
		{20, 10, 0, 10},
		{30, 20, 10, 0},
	}
	end := 1
	res := solveRequest(t, &model.SolveRequest{
		DistanceMatrix:           anyMatrix(dist),
		Demands:                  []float64{0, 1, 1, 1},
		VehicleCapacities:        []float64{10},
		NumVehicles:              1,
		FixedEndNodeIndex:        &end,
		OtherCustomerNodeIndices: []int{2, 3},
	})
	require.Empty(t, res.Err)
	require.Len(t, res.Routes, 1)
	r := res.Routes[0].NodeIndices
	assert.Equal(t, 1, r[len(r)-1], "route must end at the pinned node, got %v", r)
	assert.Empty(t, res.Dropped)
}

func TestSolveMaxDurationLimitsRouteLength(t *testing.T) {
	dist := [][]float64{
		{0, 10, 20, 30},
		{10, 0, 10, 20},
		{20, 10, 0, 10},
		{30, 20, 10, 0},
	}
	maxDur := 60.0
	res := solveRequest(t, &model.SolveRequest{
		DistanceMatrix:      anyMatrix(dist),
		Demands:             []float64{0, 1, 1, 1},
		VehicleCapacities:   []float64{10, 10},
		NumVehicles:         2,
		MaxRouteDuration:    &maxDur,
		AllowDroppingVisits: true,
	})
	require.Empty(t, res.Err)
	for _, route := range res.Routes {
		r := route.NodeIndices
		total := dist[0][r[0]]
		for i := 0; i+1 < len(r); i++ {
			total += dist[r[i]][r[i+1]]
		}
		total += dist[r[len(r)-1]][0]
		assert.LessOrEqual(t, total, maxDur, "route %v exceeds the duration cap", r)
	}
}
