package solver

import (
	"errors"
	"fmt"
)

// Fatality split: matrix/shape/range errors abort the request with a non-zero
// exit; the empty-problem and zero-vehicle conditions fold into the response
// error field; an engine no-solution is routine business data and produces a
// normal response with a full drop list.

// MatrixTypeError reports a matrix cell that is neither numeric nor null.
type MatrixTypeError struct {
	Matrix string
	Row    int
	Col    int
	Value  any
}

func (e *MatrixTypeError) Error() string {
	return fmt.Sprintf("%s[%d][%d]: non-numeric entry %v", e.Matrix, e.Row, e.Col, e.Value)
}

// ShapeMismatchError reports a structural inconsistency between request fields.
type ShapeMismatchError struct {
	Detail string
}

func (e *ShapeMismatchError) Error() string { return e.Detail }

// RangeError reports an index outside [0, N) or colliding with the depot.
type RangeError struct {
	Field string
	Index int
	N     int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: index %d out of range for %d locations", e.Field, e.Index, e.N)
}

var (
	ErrEmptyProblem = errors.New("empty distance matrix")
	ErrZeroVehicles = errors.New("0 vehicles with locations to visit")
)
