package solver

import (
	"encoding/json"
	"math"
	"strconv"
)

// LargePenalty stands in for "no feasible arc" and for any defensive callback
// result. It must stay well below int64 overflow when summed along a route.
const LargePenalty int64 = 999999999

// normalizeMatrix coerces a raw 2-D array into integers: numeric cells are
// rounded to the nearest integer, null cells become LargePenalty, anything
// else is a MatrixTypeError. Squareness is the validator's concern.
func normalizeMatrix(name string, raw [][]any) ([][]int64, error) {
	out := make([][]int64, len(raw))
	for i, row := range raw {
		out[i] = make([]int64, len(row))
		for j, cell := range row {
			switch v := cell.(type) {
			case nil:
				out[i][j] = LargePenalty
			case float64:
				out[i][j] = int64(math.Round(v))
			case json.Number:
				f, err := strconv.ParseFloat(v.String(), 64)
				if err != nil {
					return nil, &MatrixTypeError{Matrix: name, Row: i, Col: j, Value: cell}
				}
				out[i][j] = int64(math.Round(f))
			default:
				return nil, &MatrixTypeError{Matrix: name, Row: i, Col: j, Value: cell}
			}
		}
	}
	return out, nil
}
