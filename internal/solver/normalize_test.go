package solver

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMatrixRoundsAndSubstitutesNulls(t *testing.T) {
	raw := [][]any{
		{float64(0), float64(1.4), nil},
		{float64(1.5), float64(0), float64(2.6)},
		{nil, float64(2.5), float64(0)},
	}
	got, err := normalizeMatrix("distance_matrix", raw)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got[0][1])
	assert.Equal(t, LargePenalty, got[0][2])
	assert.Equal(t, int64(2), got[1][0])
	assert.Equal(t, int64(3), got[1][2])
	assert.Equal(t, LargePenalty, got[2][0])
	assert.Equal(t, int64(3), got[2][1], "half-way values round up")
}

func TestNormalizeMatrixAcceptsJSONNumbers(t *testing.T) {
	raw := [][]any{{json.Number("0"), json.Number("12.7")}, {json.Number("13"), json.Number("0")}}
	got, err := normalizeMatrix("duration_matrix", raw)
	require.NoError(t, err)
	assert.Equal(t, int64(13), got[0][1])
}

func TestNormalizeMatrixRejectsNonNumericCell(t *testing.T) {
	raw := [][]any{{float64(0), "fast"}, {float64(1), float64(0)}}
	_, err := normalizeMatrix("distance_matrix", raw)
	require.Error(t, err)
	var mte *MatrixTypeError
	require.ErrorAs(t, err, &mte)
	assert.Equal(t, "distance_matrix", mte.Matrix)
	assert.Equal(t, 0, mte.Row)
	assert.Equal(t, 1, mte.Col)
}
