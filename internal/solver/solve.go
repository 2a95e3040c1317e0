package solver

import (
	log "github.com/sirupsen/logrus"

	"routesolve/internal/engine"
	"routesolve/internal/model"
)

// Result is the decoded outcome of one solve. Err is set only for the
// empty-problem and zero-vehicle conditions; an engine no-solution keeps Err
// empty and reports every customer as dropped instead, so upstream can treat
// infeasibility as business data.
type Result struct {
	Routes     []model.VehicleRoute
	Dropped    []int
	Err        string
	Warnings   []string
	Metrics    engine.Metrics
	NoSolution bool
}

// Solve compiles the model into engine registrations, runs the search under
// the size-scaled time budget, and decodes the assignment.
func (m *Model) Solve() *Result {
	n := len(m.Distance)
	if n == 0 {
		return &Result{Routes: []model.VehicleRoute{}, Dropped: []int{}, Err: ErrEmptyProblem.Error(), Warnings: m.Warnings}
	}
	if m.NumVehicles == 0 && n > 1 {
		return &Result{Routes: []model.VehicleRoute{}, Dropped: []int{}, Err: ErrZeroVehicles.Error(), Warnings: m.Warnings}
	}

	em := engine.NewModel(n, m.NumVehicles, m.Depot)
	em.SetArcCost(m.ArcCost)
	m.registerDimensions(em)
	m.applyPins(em)
	m.registerDisjunctions(em)

	sp := m.Search
	if sp.TimeBudget <= 0 {
		sp.TimeBudget = SearchBudget(n, m.Pinned())
	}
	log.WithFields(log.Fields{
		"locations": n,
		"vehicles":  m.NumVehicles,
		"depot":     m.Depot,
		"budget":    sp.TimeBudget,
		"pinned":    m.Pinned(),
	}).Debug("starting search")

	a, metrics, ok := em.Solve(sp)
	if !ok {
		log.WithFields(log.Fields{"iterations": metrics.Iterations}).Debug("search found no assignment")
	}

	routes, dropped, warns := m.decode(a, ok)
	res := &Result{
		Routes:     routes,
		Dropped:    dropped,
		Warnings:   append(m.Warnings, warns...),
		Metrics:    metrics,
		NoSolution: !ok,
	}
	log.WithFields(log.Fields{
		"routes":  len(routes),
		"dropped": len(dropped),
	}).Debug("search finished")
	return res
}
