package solver

import (
	"fmt"

	"routesolve/internal/engine"
	"routesolve/internal/model"
)

// decode walks the assignment's successor relation from each vehicle start
// back to the depot, collecting customer visits in order. Vehicles that serve
// no customer contribute no route. Every customer absent from all routes is
// classified as dropped; a dropped mandatory node on a successful assignment
// is a warning, not an error, since the engine already reported success. On
// failure every customer is reported dropped so callers can tell "nothing
// served" from a malformed request.
func (m *Model) decode(a *engine.Assignment, ok bool) ([]model.VehicleRoute, []int, []string) {
	routes := []model.VehicleRoute{}
	dropped := []int{}
	var warns []string
	n := len(m.Distance)

	if !ok || a == nil {
		for i := 0; i < n; i++ {
			if i != m.Depot {
				dropped = append(dropped, i)
			}
		}
		return routes, dropped, warns
	}

	served := make([]bool, n)
	for v := 0; v < a.Vehicles(); v++ {
		idx := a.Start(v)
		var visits []int
		for !a.IsEnd(idx) {
			node := a.IndexToNode(idx)
			idx = a.Next(idx)
			if node != m.Depot {
				visits = append(visits, node)
				served[node] = true
			}
		}
		if len(visits) > 0 {
			routes = append(routes, model.VehicleRoute{VehicleIndex: v, NodeIndices: visits})
		}
	}

	for i := 0; i < n; i++ {
		if i == m.Depot || served[i] {
			continue
		}
		if m.Mandatory(i) {
			warns = append(warns, fmt.Sprintf("mandatory node %d missing from every route; pinned constraints likely infeasible", i))
		}
		dropped = append(dropped, i)
	}
	return routes, dropped, warns
}
