package solver

import (
	"math"

	"routesolve/internal/model"
)

// ArcCost is the evaluator registered with the engine: base travel distance
// plus a direction-bias penalty. For pickup trips arcs that move farther from
// the depot are penalized (collections should converge homeward); for
// drop-off trips arcs that move closer are penalized (far stops should be
// served before near ones). Depot-adjacent arcs and non-positive weights get
// no penalty. Out-of-range indices return LargePenalty instead of panicking:
// the engine calls this in a hot loop where nothing can unwind cleanly.
func (m *Model) ArcCost(from, to int) int64 {
	n := len(m.Distance)
	if from < 0 || from >= n || to < 0 || to >= n {
		return LargePenalty
	}
	base := m.Distance[from][to]
	if from == m.Depot || to == m.Depot || m.DirectionWeight <= 0 {
		return base
	}
	distFromToDepot := float64(m.Distance[from][m.Depot])
	distToToDepot := float64(m.Distance[to][m.Depot])
	penalty := 0.0
	switch m.TripType {
	case model.TripPickup:
		if d := distToToDepot - distFromToDepot; d > 0 {
			penalty = m.DirectionWeight * d
		}
	case model.TripDropoff:
		if d := distFromToDepot - distToToDepot; d > 0 {
			penalty = m.DirectionWeight * d
		}
	}
	return int64(math.Round(float64(base) + penalty))
}
