package engine

// Model is a routing model assembled through registration calls: node and
// vehicle counts, one arc-cost evaluator, cumulative resource dimensions,
// per-node disjunctions, and hard successor/vehicle pins. The caller owns the
// callbacks; they must be non-throwing and return plain costs (use a large
// sentinel for anything inconsistent), since the search invokes them in hot
// loops with no recovery path.
type Model struct {
	nodes    int
	vehicles int
	depot    int

	arcCost func(from, to int) int64

	dims      []dimension
	unaryDims []unaryDimension

	disjunction map[int]int64

	pinFirst   int
	pinLast    int
	forbidLast map[int]bool
	vehicleOf  map[int]int
}

// dimension is a per-arc cumulative resource with a uniform ceiling. The
// cumulative value resets at the depot (each route is checked independently).
type dimension struct {
	name    string
	transit func(from, to int) int64
	cap     int64
}

// unaryDimension is a per-node cumulative resource with per-vehicle ceilings.
type unaryDimension struct {
	name   string
	demand func(node int) int64
	caps   []int64
}

func NewModel(nodes, vehicles, depot int) *Model {
	return &Model{
		nodes:       nodes,
		vehicles:    vehicles,
		depot:       depot,
		disjunction: map[int]int64{},
		pinFirst:    -1,
		pinLast:     -1,
		forbidLast:  map[int]bool{},
		vehicleOf:   map[int]int{},
	}
}

// SetArcCost registers the arc evaluator used for every candidate arc.
func (m *Model) SetArcCost(fn func(from, to int) int64) { m.arcCost = fn }

// AddDimension registers a per-arc resource accumulation rule with a uniform
// ceiling across vehicles. Depot arcs count toward the total.
func (m *Model) AddDimension(name string, transit func(from, to int) int64, capacity int64) {
	m.dims = append(m.dims, dimension{name: name, transit: transit, cap: capacity})
}

// AddVehicleCapacityDimension registers a per-node resource accumulation rule
// with one ceiling per vehicle.
func (m *Model) AddVehicleCapacityDimension(name string, demand func(node int) int64, caps []int64) {
	m.unaryDims = append(m.unaryDims, unaryDimension{name: name, demand: demand, caps: caps})
}

// AddDisjunction marks node as individually skippable at the given penalty.
// Nodes without a disjunction are mandatory: a solution leaving one unrouted
// is reported as no-solution.
func (m *Model) AddDisjunction(node int, penalty int64) {
	if node >= 0 && node < m.nodes {
		m.disjunction[node] = penalty
	}
}

// PinFirst requires node to be the immediate successor of vehicle 0's start.
func (m *Model) PinFirst(node int) { m.pinFirst = node }

// PinLast requires node's immediate successor to be vehicle 0's end.
func (m *Model) PinLast(node int) { m.pinLast = node }

// ForbidLast forbids node from being immediately followed by a route end.
func (m *Model) ForbidLast(node int) { m.forbidLast[node] = true }

// BindVehicle requires node, when routed, to ride the given vehicle. It also
// makes the node structurally mandatory.
func (m *Model) BindVehicle(node, vehicle int) { m.vehicleOf[node] = vehicle }
