package solver

import "routesolve/internal/engine"

// DemandAt is the Capacity dimension's per-node consumption. Out-of-range
// indices read as LargePenalty so the engine treats the arc as infeasible
// rather than crashing the search.
func (m *Model) DemandAt(node int) int64 {
	if node < 0 || node >= len(m.Demands) {
		return LargePenalty
	}
	return m.Demands[node]
}

// DurationTransit is the MaxDuration dimension's per-arc consumption:
// service time at the origin plus travel time of the arc. Same defensive
// sentinel as DemandAt.
func (m *Model) DurationTransit(from, to int) int64 {
	n := len(m.Duration)
	if from < 0 || from >= n || to < 0 || to >= n {
		return LargePenalty
	}
	return m.ServiceTimes[from] + m.Duration[from][to]
}

// registerDimensions binds Capacity always and MaxDuration only when a
// ceiling was configured; without one the engine does no duration
// bookkeeping at all.
func (m *Model) registerDimensions(em *engine.Model) {
	em.AddVehicleCapacityDimension("Capacity", m.DemandAt, m.Capacities)
	if m.MaxRouteDuration != nil {
		em.AddDimension("MaxDuration", m.DurationTransit, *m.MaxRouteDuration)
	}
}
