package solver

import "routesolve/internal/engine"

// Re-optimization always pins onto the first vehicle; callers are expected
// to send a single-vehicle fleet alongside a fixed start or end.
const reoptVehicle = 0

// Pinned reports whether this solve continues an already-started route.
func (m *Model) Pinned() bool { return m.FixedStart != nil || m.FixedEnd != nil }

// applyPins translates the fixed-route request fields into hard successor and vehicle
// constraints. With a fixed start, the depot's successor is that node. With a
// fixed end, that node's successor is the depot, and every other committed
// customer is barred from becoming the de-facto last stop. These constraints
// are never relaxed, whatever the dropping policy says.
func (m *Model) applyPins(em *engine.Model) {
	if m.FixedStart != nil {
		em.PinFirst(*m.FixedStart)
		em.BindVehicle(*m.FixedStart, reoptVehicle)
		return
	}
	if m.FixedEnd == nil {
		return
	}
	em.PinLast(*m.FixedEnd)
	em.BindVehicle(*m.FixedEnd, reoptVehicle)
	for _, c := range m.OtherCustomers {
		if c == *m.FixedEnd {
			continue
		}
		em.ForbidLast(c)
		em.BindVehicle(c, reoptVehicle)
	}
}
