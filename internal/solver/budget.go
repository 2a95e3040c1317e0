package solver

import "time"

// SearchBudget scales the engine's wall-clock budget with problem size and
// clamps it when a route is pinned: re-optimization calls are
// latency-sensitive and small.
func SearchBudget(locations int, pinned bool) time.Duration {
	var secs int
	switch {
	case locations <= 5:
		secs = 3
	case locations <= 10:
		secs = 5
	case locations <= 15:
		secs = 8
	case locations <= 20:
		secs = 10
	default:
		secs = 15
	}
	if pinned && secs > 5 {
		secs = 5
	}
	return time.Duration(secs) * time.Second
}
