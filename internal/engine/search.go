package engine

import (
	"math"
	"math/rand"
	"time"
)

// Cost charged for every mandatory node left unrouted. Keeps the search
// pulling them back in; a final solution still carrying one is a failure.
const unroutedPenalty int64 = 999999999

// SearchParams are the opaque search knobs. Zero values select defaults.
type SearchParams struct {
	TimeBudget    time.Duration
	MaxIterations int
	Seed          int64
	InitTemp      float64
	Cooling       float64
}

type Metrics struct {
	RemovalSelects [2]int // random, related
	InsertSelects  [2]int // greedy, regret2
	Iterations     int
	Improvements   int
	AcceptedWorse  int
	BestCost       int64
	FinalCost      int64
	Snapshots      []WeightSnapshot
}

type WeightSnapshot struct {
	Iteration int
	Removal   [2]float64
	Insertion [2]float64
}

// state is a working solution: per-vehicle ordered customer lists (depot
// excluded) plus the set of currently unrouted nodes.
type state struct {
	routes     [][]int
	unassigned map[int]bool
	cost       int64
}

func (s *state) clone() *state {
	out := &state{routes: make([][]int, len(s.routes)), unassigned: map[int]bool{}, cost: s.cost}
	for i := range s.routes {
		out.routes[i] = append([]int(nil), s.routes[i]...)
	}
	for n := range s.unassigned {
		out.unassigned[n] = true
	}
	return out
}

// Solve runs an ALNS-like heuristic with adaptive removal/insertion operators
// and a simulated-annealing acceptance criterion under a wall-clock budget.
// It returns the best assignment found, search metrics, and whether the
// assignment satisfies every hard constraint (false means no solution).
func (m *Model) Solve(sp SearchParams) (*Assignment, Metrics, bool) {
	if m.arcCost == nil {
		m.arcCost = func(int, int) int64 { return 0 }
	}
	seed := sp.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	budget := sp.TimeBudget
	if budget <= 0 {
		budget = time.Second
	}

	curr := m.construct()
	m.twoOptImprove(curr)
	curr.cost = m.cost(curr)
	best := curr.clone()

	remW := []float64{1, 1} // random, related
	insW := []float64{1, 1} // greedy, regret2
	temp := 1.0
	if sp.InitTemp > 0 {
		temp = sp.InitTemp
	}
	cool := 0.995
	if sp.Cooling > 0 && sp.Cooling < 1 {
		cool = sp.Cooling
	}

	mtr := Metrics{BestCost: best.cost}
	deadline := time.Now().Add(budget)
	const snapshotEvery = 50
	for time.Now().Before(deadline) {
		mtr.Iterations++
		if sp.MaxIterations > 0 && mtr.Iterations >= sp.MaxIterations {
			break
		}
		k := 1 + rng.Intn(3)
		op := selectOp(remW, rng)
		mtr.RemovalSelects[op]++
		ip := selectOp(insW, rng)
		mtr.InsertSelects[ip]++

		cand := curr.clone()
		var removed []int
		switch op {
		case 0:
			removed = m.randomRemoval(cand, k, rng)
		case 1:
			removed = m.relatedRemoval(cand, k, rng)
		}
		cand.remove(removed)
		// retry anything stranded earlier alongside the removed nodes
		for n := range cand.unassigned {
			removed = append(removed, n)
			delete(cand.unassigned, n)
		}
		switch ip {
		case 0:
			m.greedyInsert(cand, removed)
		case 1:
			m.regretInsert(cand, removed)
		}
		m.twoOptImprove(cand)
		cand.cost = m.cost(cand)

		delta := float64(cand.cost - best.cost)
		if delta < 0 || rng.Float64() < math.Exp(-delta/(temp+1e-9)) {
			curr = cand
			if cand.cost < best.cost {
				best = cand.clone()
				remW[op] += 0.1
				insW[ip] += 0.1
				mtr.Improvements++
				mtr.BestCost = best.cost
			} else {
				remW[op] += 0.01
				insW[ip] += 0.01
				mtr.AcceptedWorse++
			}
		} else {
			remW[op] = math.Max(0.01, remW[op]*0.999)
			insW[ip] = math.Max(0.01, insW[ip]*0.999)
		}
		temp *= cool
		if mtr.Iterations%snapshotEvery == 0 {
			mtr.Snapshots = append(mtr.Snapshots, WeightSnapshot{
				Iteration: mtr.Iterations,
				Removal:   [2]float64{remW[0], remW[1]},
				Insertion: [2]float64{insW[0], insW[1]},
			})
		}
	}
	mtr.FinalCost = best.cost
	if !m.complete(best) {
		return nil, mtr, false
	}
	return m.assignment(best), mtr, true
}

// construct builds the initial solution: pinned endpoints are placed on
// vehicle 0 first so position constraints can hold, then mandatory nodes,
// then droppable ones, each by cheapest feasible insertion.
func (m *Model) construct() *state {
	st := &state{routes: make([][]int, m.vehicles), unassigned: map[int]bool{}}
	for i := range st.routes {
		st.routes[i] = []int{}
	}
	placed := map[int]bool{m.depot: true}
	if m.vehicles > 0 {
		if m.pinFirst >= 0 && m.pinFirst < m.nodes {
			st.routes[0] = append(st.routes[0], m.pinFirst)
			placed[m.pinFirst] = true
		}
		if m.pinLast >= 0 && m.pinLast < m.nodes && !placed[m.pinLast] {
			st.routes[0] = append(st.routes[0], m.pinLast)
			placed[m.pinLast] = true
		}
	}
	var mandatory, droppable []int
	for n := 0; n < m.nodes; n++ {
		if placed[n] {
			continue
		}
		if _, ok := m.disjunction[n]; ok && !m.structurallyMandatory(n) {
			droppable = append(droppable, n)
			continue
		}
		mandatory = append(mandatory, n)
	}
	m.greedyInsert(st, mandatory)
	m.greedyInsert(st, droppable)
	return st
}

func (s *state) remove(nodes []int) {
	if len(nodes) == 0 {
		return
	}
	rm := map[int]bool{}
	for _, n := range nodes {
		rm[n] = true
	}
	for v := range s.routes {
		kept := s.routes[v][:0]
		for _, n := range s.routes[v] {
			if !rm[n] {
				kept = append(kept, n)
			}
		}
		s.routes[v] = kept
	}
}

func (m *Model) randomRemoval(st *state, k int, rng *rand.Rand) []int {
	all := m.removable(st)
	var removed []int
	for i := 0; i < k && len(all) > 0; i++ {
		j := rng.Intn(len(all))
		removed = append(removed, all[j])
		all = append(all[:j], all[j+1:]...)
	}
	return removed
}

// relatedRemoval removes a random node plus its nearest neighbors by arc
// cost, so reinsertion can reshuffle a whole cluster.
func (m *Model) relatedRemoval(st *state, k int, rng *rand.Rand) []int {
	all := m.removable(st)
	if len(all) == 0 {
		return nil
	}
	anchor := all[rng.Intn(len(all))]
	type scored struct {
		node  int
		score int64
	}
	var rel []scored
	for _, n := range all {
		if n == anchor {
			continue
		}
		rel = append(rel, scored{node: n, score: m.arcCost(anchor, n) + m.arcCost(n, anchor)})
	}
	for i := 0; i < len(rel); i++ {
		for j := i + 1; j < len(rel); j++ {
			if rel[j].score < rel[i].score {
				rel[i], rel[j] = rel[j], rel[i]
			}
		}
	}
	removed := []int{anchor}
	for i := 0; i < len(rel) && len(removed) < k; i++ {
		removed = append(removed, rel[i].node)
	}
	return removed
}

// removable lists routed nodes that may be taken out: pinned endpoints stay.
func (m *Model) removable(st *state) []int {
	var out []int
	for _, r := range st.routes {
		for _, n := range r {
			if n == m.pinFirst || n == m.pinLast {
				continue
			}
			out = append(out, n)
		}
	}
	return out
}

// greedyInsert places nodes by cheapest feasible insertion anywhere; nodes
// with no feasible slot are left unrouted.
func (m *Model) greedyInsert(st *state, nodes []int) {
	remaining := append([]int(nil), nodes...)
	for len(remaining) > 0 {
		bestNI, bestV, bestPos := -1, -1, -1
		bestDelta := int64(math.MaxInt64)
		for ni, n := range remaining {
			for v := range st.routes {
				for pos := 0; pos <= len(st.routes[v]); pos++ {
					if !m.insertionOK(st, v, n, pos) {
						continue
					}
					d := m.insertDelta(st.routes[v], n, pos)
					if d < bestDelta {
						bestDelta, bestNI, bestV, bestPos = d, ni, v, pos
					}
				}
			}
		}
		if bestNI == -1 {
			for _, n := range remaining {
				st.unassigned[n] = true
			}
			return
		}
		st.routes[bestV] = insertAt(st.routes[bestV], remaining[bestNI], bestPos)
		remaining = append(remaining[:bestNI], remaining[bestNI+1:]...)
	}
}

// regretInsert places the node whose best and second-best insertion costs
// differ the most first, so scarce slots go to the nodes that need them.
func (m *Model) regretInsert(st *state, nodes []int) {
	remaining := append([]int(nil), nodes...)
	for len(remaining) > 0 {
		bestNI, bestV, bestPos := -1, -1, -1
		bestRegret := int64(-1)
		bestCost := int64(math.MaxInt64)
		for ni, n := range remaining {
			best1 := int64(math.MaxInt64)
			best2 := int64(math.MaxInt64)
			bv, bpos := -1, -1
			for v := range st.routes {
				for pos := 0; pos <= len(st.routes[v]); pos++ {
					if !m.insertionOK(st, v, n, pos) {
						continue
					}
					c := m.insertDelta(st.routes[v], n, pos)
					if c < best1 {
						best2 = best1
						best1 = c
						bv, bpos = v, pos
					} else if c < best2 {
						best2 = c
					}
				}
			}
			if bv == -1 {
				continue
			}
			regret := int64(0)
			if best2 < math.MaxInt64 {
				regret = best2 - best1
			}
			if regret > bestRegret || (regret == bestRegret && best1 < bestCost) {
				bestRegret, bestCost = regret, best1
				bestNI, bestV, bestPos = ni, bv, bpos
			}
		}
		if bestNI == -1 {
			for _, n := range remaining {
				st.unassigned[n] = true
			}
			return
		}
		st.routes[bestV] = insertAt(st.routes[bestV], remaining[bestNI], bestPos)
		remaining = append(remaining[:bestNI], remaining[bestNI+1:]...)
	}
}

// twoOptImprove reverses intra-route segments while that lowers the route
// cost and stays feasible.
func (m *Model) twoOptImprove(st *state) {
	for v := range st.routes {
		r := st.routes[v]
		n := len(r)
		if n < 3 {
			continue
		}
		improved := true
		for improved {
			improved = false
			base := m.routeCost(v, r)
			for i := 0; i < n-1; i++ {
				for k := i + 1; k < n; k++ {
					cand := append([]int(nil), r...)
					for a, b := i, k; a < b; a, b = a+1, b-1 {
						cand[a], cand[b] = cand[b], cand[a]
					}
					if !m.routeFeasible(v, cand) {
						continue
					}
					if c := m.routeCost(v, cand); c < base {
						r = cand
						base = c
						improved = true
					}
				}
			}
		}
		st.routes[v] = r
	}
}

func (m *Model) insertionOK(st *state, v, node, pos int) bool {
	if pos < 0 || pos > len(st.routes[v]) {
		return false
	}
	cand := insertAt(append([]int(nil), st.routes[v]...), node, pos)
	return m.routeFeasible(v, cand)
}

// insertDelta approximates the arc-cost change of inserting node at pos.
func (m *Model) insertDelta(route []int, node, pos int) int64 {
	prev := m.depot
	if pos > 0 {
		prev = route[pos-1]
	}
	next := m.depot
	if pos < len(route) {
		next = route[pos]
	}
	return m.arcCost(prev, node) + m.arcCost(node, next) - m.arcCost(prev, next)
}

func (m *Model) routeCost(v int, route []int) int64 {
	if len(route) == 0 {
		return 0
	}
	total := m.arcCost(m.depot, route[0])
	for i := 0; i+1 < len(route); i++ {
		total += m.arcCost(route[i], route[i+1])
	}
	total += m.arcCost(route[len(route)-1], m.depot)
	return total
}

func (m *Model) cost(st *state) int64 {
	var total int64
	for v, r := range st.routes {
		total += m.routeCost(v, r)
	}
	for n := range st.unassigned {
		if p, ok := m.disjunction[n]; ok && !m.structurallyMandatory(n) {
			total += p
		} else {
			total += unroutedPenalty
		}
	}
	return total
}

func (m *Model) structurallyMandatory(n int) bool {
	if n == m.pinFirst || n == m.pinLast {
		return true
	}
	_, bound := m.vehicleOf[n]
	return bound
}

// routeFeasible checks dimensions, vehicle bindings, and pin positions for a
// single route.
func (m *Model) routeFeasible(v int, route []int) bool {
	for _, dim := range m.unaryDims {
		var sum int64
		for _, n := range route {
			sum += dim.demand(n)
		}
		if v < len(dim.caps) && sum > dim.caps[v] {
			return false
		}
	}
	if len(route) > 0 {
		for _, dim := range m.dims {
			total := dim.transit(m.depot, route[0])
			for i := 0; i+1 < len(route); i++ {
				total += dim.transit(route[i], route[i+1])
			}
			total += dim.transit(route[len(route)-1], m.depot)
			if total > dim.cap {
				return false
			}
		}
	}
	for _, n := range route {
		if bv, ok := m.vehicleOf[n]; ok && bv != v {
			return false
		}
	}
	if len(route) > 0 {
		if m.forbidLast[route[len(route)-1]] {
			return false
		}
		if v == 0 {
			if m.pinFirst >= 0 && route[0] != m.pinFirst {
				return false
			}
			if m.pinLast >= 0 && route[len(route)-1] != m.pinLast {
				return false
			}
		}
	}
	return true
}

// complete reports whether st satisfies every hard constraint: feasible
// routes and no mandatory node left unrouted.
func (m *Model) complete(st *state) bool {
	for v, r := range st.routes {
		if !m.routeFeasible(v, r) {
			return false
		}
	}
	if m.vehicles > 0 && m.pinFirst >= 0 {
		r := st.routes[0]
		if len(r) == 0 || r[0] != m.pinFirst {
			return false
		}
	}
	if m.vehicles > 0 && m.pinLast >= 0 {
		r := st.routes[0]
		if len(r) == 0 || r[len(r)-1] != m.pinLast {
			return false
		}
	}
	for n := range st.unassigned {
		if _, droppable := m.disjunction[n]; !droppable || m.structurallyMandatory(n) {
			return false
		}
	}
	return true
}

func (m *Model) assignment(st *state) *Assignment {
	a := &Assignment{nodes: m.nodes, depot: m.depot, vehicles: m.vehicles, next: map[int]int{}}
	for v, r := range st.routes {
		prev := a.Start(v)
		for _, n := range r {
			a.next[prev] = n
			prev = n
		}
		a.next[prev] = a.end(v)
	}
	return a
}

func insertAt(route []int, node, pos int) []int {
	route = append(route, 0)
	copy(route[pos+1:], route[pos:])
	route[pos] = node
	return route
}

func selectOp(weights []float64, rng *rand.Rand) int {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return 0
	}
	r := rng.Float64() * sum
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return i
		}
	}
	return len(weights) - 1
}
