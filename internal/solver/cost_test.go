package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"routesolve/internal/model"
)

func costModel(trip string, weight float64) *Model {
	return &Model{
		Distance: [][]int64{
			{0, 10, 20, 30},
			{10, 0, 10, 20},
			{20, 10, 0, 10},
			{30, 20, 10, 0},
		},
		Depot:           0,
		TripType:        trip,
		DirectionWeight: weight,
	}
}

func TestArcCostPickupPenalizesMovingAwayFromDepot(t *testing.T) {
	m := costModel(model.TripPickup, 1.0)
	// 1 -> 3 moves from 10 away to 30 away: base 20 + penalty 20
	assert.Equal(t, int64(40), m.ArcCost(1, 3))
	// 3 -> 1 moves homeward: base only
	assert.Equal(t, int64(20), m.ArcCost(3, 1))
}

func TestArcCostDropoffPenalizesMovingTowardDepot(t *testing.T) {
	m := costModel(model.TripDropoff, 1.0)
	assert.Equal(t, int64(20), m.ArcCost(1, 3))
	assert.Equal(t, int64(40), m.ArcCost(3, 1))
}

func TestArcCostDepotArcsCarryNoPenalty(t *testing.T) {
	m := costModel(model.TripPickup, 1.0)
	assert.Equal(t, int64(30), m.ArcCost(0, 3))
	assert.Equal(t, int64(30), m.ArcCost(3, 0))
}

func TestArcCostZeroWeightDisablesPenalty(t *testing.T) {
	m := costModel(model.TripPickup, 0)
	assert.Equal(t, int64(20), m.ArcCost(1, 3))
}

func TestArcCostScalesWithWeight(t *testing.T) {
	m := costModel(model.TripPickup, 0.5)
	// base 20 + 0.5 * 20
	assert.Equal(t, int64(30), m.ArcCost(1, 3))
}

func TestArcCostOutOfRangeReturnsSentinel(t *testing.T) {
	m := costModel(model.TripPickup, 1.0)
	assert.Equal(t, LargePenalty, m.ArcCost(-1, 2))
	assert.Equal(t, LargePenalty, m.ArcCost(1, 4))
}

func TestDemandAtOutOfRangeReturnsSentinel(t *testing.T) {
	m := &Model{Demands: []int64{0, 2}}
	assert.Equal(t, int64(2), m.DemandAt(1))
	assert.Equal(t, LargePenalty, m.DemandAt(5))
}

func TestDurationTransitAddsOriginServiceTime(t *testing.T) {
	m := &Model{
		Duration:     [][]int64{{0, 7}, {7, 0}},
		ServiceTimes: []int64{3, 5},
	}
	assert.Equal(t, int64(10), m.DurationTransit(0, 1))
	assert.Equal(t, int64(12), m.DurationTransit(1, 0))
	assert.Equal(t, LargePenalty, m.DurationTransit(2, 0))
}
