package solver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSearchBudgetScalesWithProblemSize(t *testing.T) {
	cases := []struct {
		locations int
		want      time.Duration
	}{
		{1, 3 * time.Second},
		{5, 3 * time.Second},
		{6, 5 * time.Second},
		{10, 5 * time.Second},
		{11, 8 * time.Second},
		{15, 8 * time.Second},
		{16, 10 * time.Second},
		{20, 10 * time.Second},
		{21, 15 * time.Second},
		{100, 15 * time.Second},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, SearchBudget(c.locations, false), "locations=%d", c.locations)
	}
}

func TestSearchBudgetClampsWhenPinned(t *testing.T) {
	assert.Equal(t, 5*time.Second, SearchBudget(100, true))
	assert.Equal(t, 5*time.Second, SearchBudget(12, true))
	assert.Equal(t, 3*time.Second, SearchBudget(4, true), "small problems stay under the clamp")
}
