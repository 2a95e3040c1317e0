package engine

// Assignment is a successor relation over manager indices. Customer and depot
// nodes keep their matrix indices; each vehicle gets synthetic start and end
// indices past the node range, so route walks start at Start(v) and follow
// Next until IsEnd.
type Assignment struct {
	nodes    int
	depot    int
	vehicles int
	next     map[int]int
}

func (a *Assignment) Vehicles() int { return a.vehicles }

// Start returns the start index of vehicle v.
func (a *Assignment) Start(v int) int { return a.nodes + 2*v }

func (a *Assignment) end(v int) int { return a.nodes + 2*v + 1 }

// IsEnd reports whether i is a vehicle end index (or invalid).
func (a *Assignment) IsEnd(i int) bool {
	return i < 0 || (i >= a.nodes && (i-a.nodes)%2 == 1)
}

// Next returns the successor of index i, or -1 when i has none (a dropped
// node, or an index outside the assignment).
func (a *Assignment) Next(i int) int {
	if n, ok := a.next[i]; ok {
		return n
	}
	return -1
}

// IndexToNode maps a manager index back to a matrix node index; vehicle
// start/end indices map to the depot.
func (a *Assignment) IndexToNode(i int) int {
	if i >= 0 && i < a.nodes {
		return i
	}
	return a.depot
}
