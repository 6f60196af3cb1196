package geom

import (
	"fmt"
	"math"
	"strings"
)

// Epsilon is the tolerance applied to each side of the triangle inequality.
const Epsilon = 1e-9

// IsValidTrianglePoints reports whether v1, v2, v3 satisfy the strict
// triangle inequality. Collinear and coincident points are rejected.
// The result does not depend on argument order.
func IsValidTrianglePoints(v1, v2, v3 Point) bool {
	a := v1.DistanceTo(v2)
	b := v2.DistanceTo(v3)
	c := v3.DistanceTo(v1)
	return a+b > c+Epsilon && b+c > a+Epsilon && c+a > b+Epsilon
}

// Triangle owns three vertices that always form a valid triangle.
// The zero value is an empty triangle with no vertices.
type Triangle struct {
	v   [3]Point
	set bool
}

// NewTriangle returns a triangle with copies of v1, v2, v3, or an error
// wrapping ErrNotTriangle if they fail the triangle inequality.
func NewTriangle(v1, v2, v3 Point) (*Triangle, error) {
	if !IsValidTrianglePoints(v1, v2, v3) {
		return nil, &ValidationError{Op: "new triangle", Points: [3]Point{v1, v2, v3}}
	}
	return &Triangle{v: [3]Point{v1, v2, v3}, set: true}, nil
}

// MustTriangle is like NewTriangle but panics on invalid points.
func MustTriangle(v1, v2, v3 Point) *Triangle {
	t, err := NewTriangle(v1, v2, v3)
	if err != nil {
		panic(err)
	}
	return t
}

// IsEmpty reports whether t has no vertices.
func (t *Triangle) IsEmpty() bool {
	return t == nil || !t.set
}

// Vertices returns a copy of the three vertices.
func (t *Triangle) Vertices() [3]Point {
	if t.IsEmpty() {
		return [3]Point{}
	}
	return t.v
}

// Vertex returns the vertex at the 1-based index i.
func (t *Triangle) Vertex(i int) (Point, error) {
	if t.IsEmpty() {
		return Point{}, ErrEmptyTriangle
	}
	if i < 1 || i > 3 {
		return Point{}, fmt.Errorf("%w: %d", ErrVertexIndex, i)
	}
	return t.v[i-1], nil
}

// SetVertex replaces the vertex at the 1-based index i. If the new triple
// would not be a valid triangle, t is left unchanged.
func (t *Triangle) SetVertex(i int, p Point) error {
	if t.IsEmpty() {
		return ErrEmptyTriangle
	}
	if i < 1 || i > 3 {
		return fmt.Errorf("%w: %d", ErrVertexIndex, i)
	}
	trial := t.v
	trial[i-1] = p
	if !IsValidTrianglePoints(trial[0], trial[1], trial[2]) {
		return &ValidationError{Op: fmt.Sprintf("set vertex %d", i), Points: trial}
	}
	t.v = trial
	return nil
}

// Translate moves every vertex by d along axis. The moved vertices are
// validated before they replace the current ones, so on any error t is
// unchanged.
func (t *Triangle) Translate(d int32, axis Axis) error {
	if t.IsEmpty() {
		return ErrEmptyTriangle
	}
	trial := t.v
	for i := range trial {
		if err := trial[i].Translate(d, axis); err != nil {
			return fmt.Errorf("translate vertex %d: %w", i+1, err)
		}
	}
	if !IsValidTrianglePoints(trial[0], trial[1], trial[2]) {
		return &ValidationError{Op: "translate", Points: trial}
	}
	t.v = trial
	return nil
}

// Area returns ½‖AB×AC‖. An empty triangle has area 0.
func (t *Triangle) Area() (float64, error) {
	if t.IsEmpty() {
		return 0, nil
	}
	c, ok := cross(edge(t.v[0], t.v[1]), edge(t.v[0], t.v[2]))
	if !ok {
		return 0, fmt.Errorf("%w: cross product", ErrOverflow)
	}
	sq, ok := c.normSq()
	if !ok {
		return 0, fmt.Errorf("%w: squared magnitude", ErrOverflow)
	}
	area := math.Sqrt(float64(sq)) / 2
	if math.IsInf(area, 0) || math.IsNaN(area) {
		return 0, fmt.Errorf("%w: area %v", ErrNumerical, area)
	}
	return area, nil
}

// EdgeLengths returns |v1v2|, |v2v3| and |v3v1|.
func (t *Triangle) EdgeLengths() [3]float64 {
	if t.IsEmpty() {
		return [3]float64{}
	}
	return [3]float64{
		t.v[0].DistanceTo(t.v[1]),
		t.v[1].DistanceTo(t.v[2]),
		t.v[2].DistanceTo(t.v[0]),
	}
}

// Perimeter returns the sum of the edge lengths.
func (t *Triangle) Perimeter() float64 {
	l := t.EdgeLengths()
	return l[0] + l[1] + l[2]
}

// Normal returns the unit normal of the v1→v2→v3 winding.
// The cross product is taken in float64 so it cannot overflow.
func (t *Triangle) Normal() (x, y, z float64) {
	if t.IsEmpty() {
		return 0, 0, 0
	}
	u, v := edge(t.v[0], t.v[1]), edge(t.v[0], t.v[2])
	ux, uy, uz := float64(u.x), float64(u.y), float64(u.z)
	vx, vy, vz := float64(v.x), float64(v.y), float64(v.z)
	x = uy*vz - uz*vy
	y = uz*vx - ux*vz
	z = ux*vy - uy*vx
	n := math.Sqrt(x*x + y*y + z*z)
	if n == 0 {
		return 0, 0, 0
	}
	return x / n, y / n, z / n
}

// Clone returns an independent copy of t.
func (t *Triangle) Clone() *Triangle {
	if t == nil {
		return &Triangle{}
	}
	c := *t
	return &c
}

func (t *Triangle) String() string {
	if t.IsEmpty() {
		return "Triangle(empty)"
	}
	var sb strings.Builder
	sb.WriteString("Triangle:\n")
	for i, p := range t.v {
		fmt.Fprintf(&sb, "  Vertex %d: %s\n", i+1, p)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
