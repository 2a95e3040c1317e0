package solver

import "routesolve/internal/engine"

// Mandatory reports whether node must be served: pinned endpoints and the
// other committed customers of a fixed-end re-optimization.
func (m *Model) Mandatory(node int) bool {
	if m.FixedStart != nil && *m.FixedStart == node {
		return true
	}
	if m.FixedEnd != nil && *m.FixedEnd == node {
		return true
	}
	for _, c := range m.OtherCustomers {
		if c == node {
			return true
		}
	}
	return false
}

// registerDisjunctions makes every customer individually skippable when
// dropping is allowed. Mandatory nodes get a zero skip cost: the pinning
// constraints already force them into the route topologically, so the zero
// is a convention ("skipping costs nothing"), not permission.
func (m *Model) registerDisjunctions(em *engine.Model) {
	if !m.AllowDrop {
		return
	}
	for n := range m.Demands {
		if n == m.Depot {
			continue
		}
		penalty := m.DropPenalty
		if m.Mandatory(n) {
			penalty = 0
		}
		em.AddDisjunction(n, penalty)
	}
}
