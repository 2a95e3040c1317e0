package engine

import (
	"testing"
	"time"
)

// Symmetric 5-node instance laid out on a line: depot at 0, customers at
// increasing distance. Arc cost is plain distance.
func lineModel(vehicles int) *Model {
	dist := [][]int64{
		{0, 10, 20, 30, 40},
		{10, 0, 10, 20, 30},
		{20, 10, 0, 10, 20},
		{30, 20, 10, 0, 10},
		{40, 30, 20, 10, 0},
	}
	m := NewModel(5, vehicles, 0)
	m.SetArcCost(func(from, to int) int64 { return dist[from][to] })
	return m
}

func fastParams() SearchParams {
	return SearchParams{TimeBudget: 200 * time.Millisecond, MaxIterations: 500, Seed: 42}
}

func walkRoute(a *Assignment, v int) []int {
	var nodes []int
	idx := a.Start(v)
	for !a.IsEnd(idx) {
		n := a.IndexToNode(idx)
		idx = a.Next(idx)
		if n != 0 {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func TestSolveRoutesAllMandatoryNodes(t *testing.T) {
	m := lineModel(2)
	a, mtr, ok := m.Solve(fastParams())
	if !ok {
		t.Fatalf("expected a solution, got none after %d iterations", mtr.Iterations)
	}
	seen := map[int]bool{}
	for v := 0; v < a.Vehicles(); v++ {
		for _, n := range walkRoute(a, v) {
			if seen[n] {
				t.Fatalf("node %d served twice", n)
			}
			seen[n] = true
		}
	}
	for n := 1; n < 5; n++ {
		if !seen[n] {
			t.Fatalf("mandatory node %d not served", n)
		}
	}
}

func TestSolveAssignmentEndsAtVehicleEnd(t *testing.T) {
	m := lineModel(1)
	a, _, ok := m.Solve(fastParams())
	if !ok {
		t.Fatal("expected a solution")
	}
	idx := a.Start(0)
	for steps := 0; !a.IsEnd(idx); steps++ {
		if steps > 10 {
			t.Fatal("route walk did not terminate")
		}
		idx = a.Next(idx)
	}
	if idx != a.Start(0)+1 {
		t.Fatalf("walk ended at index %d, want vehicle 0 end %d", idx, a.Start(0)+1)
	}
}

func TestSolveDropsOverCapacityDisjunctionNodes(t *testing.T) {
	m := lineModel(1)
	m.AddVehicleCapacityDimension("Capacity", func(node int) int64 {
		if node == 0 {
			return 0
		}
		return 1
	}, []int64{2})
	for n := 1; n < 5; n++ {
		m.AddDisjunction(n, 1000)
	}
	a, _, ok := m.Solve(fastParams())
	if !ok {
		t.Fatal("droppable overload should still produce a solution")
	}
	if got := len(walkRoute(a, 0)); got != 2 {
		t.Fatalf("served %d nodes, capacity allows 2", got)
	}
}

func TestSolveFailsWhenMandatoryNodesDoNotFit(t *testing.T) {
	m := lineModel(1)
	m.AddVehicleCapacityDimension("Capacity", func(node int) int64 {
		if node == 0 {
			return 0
		}
		return 1
	}, []int64{2})
	// no disjunctions: every node is mandatory
	a, _, ok := m.Solve(fastParams())
	if ok {
		t.Fatal("expected no solution when mandatory demand exceeds capacity")
	}
	if a != nil {
		t.Fatal("failed solve must return a nil assignment")
	}
}

func TestSolveHonorsPinFirst(t *testing.T) {
	m := lineModel(1)
	m.PinFirst(3)
	m.BindVehicle(3, 0)
	a, _, ok := m.Solve(fastParams())
	if !ok {
		t.Fatal("expected a solution")
	}
	r := walkRoute(a, 0)
	if len(r) == 0 || r[0] != 3 {
		t.Fatalf("route %v does not start at pinned node 3", r)
	}
}

func TestSolveHonorsPinLastAndForbidLast(t *testing.T) {
	m := lineModel(1)
	m.PinLast(1)
	m.BindVehicle(1, 0)
	for _, n := range []int{2, 3, 4} {
		m.ForbidLast(n)
		m.BindVehicle(n, 0)
	}
	a, _, ok := m.Solve(fastParams())
	if !ok {
		t.Fatal("expected a solution")
	}
	r := walkRoute(a, 0)
	if len(r) != 4 || r[len(r)-1] != 1 {
		t.Fatalf("route %v does not end at pinned node 1", r)
	}
}

func TestSolveRespectsUniformDimensionCap(t *testing.T) {
	m := lineModel(2)
	transit := func(from, to int) int64 {
		dist := [][]int64{
			{0, 10, 20, 30, 40},
			{10, 0, 10, 20, 30},
			{20, 10, 0, 10, 20},
			{30, 20, 10, 0, 10},
			{40, 30, 20, 10, 0},
		}
		return dist[from][to]
	}
	m.AddDimension("MaxDuration", transit, 80)
	for n := 1; n < 5; n++ {
		m.AddDisjunction(n, 1000)
	}
	a, _, ok := m.Solve(fastParams())
	if !ok {
		t.Fatal("expected a solution")
	}
	for v := 0; v < 2; v++ {
		r := walkRoute(a, v)
		if len(r) == 0 {
			continue
		}
		total := transit(0, r[0])
		for i := 0; i+1 < len(r); i++ {
			total += transit(r[i], r[i+1])
		}
		total += transit(r[len(r)-1], 0)
		if total > 80 {
			t.Fatalf("vehicle %d route %v exceeds duration cap: %d", v, r, total)
		}
	}
}

func TestSolveSeedIsDeterministic(t *testing.T) {
	run := func() []int {
		m := lineModel(1)
		a, _, ok := m.Solve(SearchParams{TimeBudget: 100 * time.Millisecond, MaxIterations: 50, Seed: 7})
		if !ok {
			t.Fatal("expected a solution")
		}
		return walkRoute(a, 0)
	}
	first := run()
	second := run()
	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("seeded runs differ: %v vs %v", first, second)
		}
	}
}

func TestMetricsRecordOperatorSelections(t *testing.T) {
	m := lineModel(2)
	_, mtr, ok := m.Solve(SearchParams{TimeBudget: 200 * time.Millisecond, MaxIterations: 120, Seed: 1})
	if !ok {
		t.Fatal("expected a solution")
	}
	if mtr.Iterations == 0 {
		t.Fatal("no iterations recorded")
	}
	selects := mtr.RemovalSelects[0] + mtr.RemovalSelects[1]
	if selects != mtr.InsertSelects[0]+mtr.InsertSelects[1] {
		t.Fatalf("removal selects %d != insertion selects %d", selects, mtr.InsertSelects[0]+mtr.InsertSelects[1])
	}
	if mtr.Iterations >= 100 && len(mtr.Snapshots) == 0 {
		t.Fatal("expected weight snapshots after 100+ iterations")
	}
}

func TestAssignmentNextReturnsMinusOneForUnknownIndex(t *testing.T) {
	a := &Assignment{nodes: 3, depot: 0, vehicles: 1, next: map[int]int{}}
	if got := a.Next(99); got != -1 {
		t.Fatalf("Next(99) = %d, want -1", got)
	}
	if !a.IsEnd(-1) {
		t.Fatal("IsEnd(-1) must be true so broken walks terminate")
	}
}
