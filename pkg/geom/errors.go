package geom

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAxis is returned when an axis selector is not x, y or z.
	ErrInvalidAxis = errors.New("geom: invalid axis, expected x, y, or z")

	// ErrNotTriangle is wrapped by every construction or mutation that
	// would leave three points failing the triangle inequality.
	ErrNotTriangle = errors.New("geom: points do not form a valid triangle")

	// ErrOverflow reports integer arithmetic leaving its representable range.
	ErrOverflow = errors.New("geom: arithmetic overflow")

	// ErrNumerical reports an area that is infinite or NaN.
	ErrNumerical = errors.New("geom: result is not a finite number")

	// ErrVertexIndex is returned for a vertex index outside 1..3.
	ErrVertexIndex = errors.New("geom: vertex index out of range")

	// ErrEmptyTriangle is returned by operations that need vertices when
	// called on a zero-value Triangle.
	ErrEmptyTriangle = errors.New("geom: triangle has no vertices")
)

// ValidationError records the rejected operation and the trial vertices
// that failed the triangle inequality. It unwraps to ErrNotTriangle.
type ValidationError struct {
	Op     string
	Points [3]Point
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s, %s, %s do not form a valid triangle",
		e.Op, e.Points[0], e.Points[1], e.Points[2])
}

func (e *ValidationError) Unwrap() error {
	return ErrNotTriangle
}
