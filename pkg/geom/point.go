package geom

import (
	"fmt"
	"math"
	"strings"
)

// Axis selects one coordinate of a Point.
type Axis byte

const (
	AxisX Axis = 'x'
	AxisY Axis = 'y'
	AxisZ Axis = 'z'
)

func (a Axis) String() string {
	switch a {
	case AxisX, AxisY, AxisZ:
		return string(rune(a))
	default:
		return fmt.Sprintf("Axis(%q)", rune(a))
	}
}

// Valid reports whether a is one of AxisX, AxisY or AxisZ.
func (a Axis) Valid() bool {
	return a == AxisX || a == AxisY || a == AxisZ
}

// ParseAxis converts "x", "Y", ":z" and similar to an Axis.
func ParseAxis(s string) (Axis, error) {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ":"))
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAxis, s)
	}
	a := Axis(s[0])
	if !a.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAxis, s)
	}
	return a, nil
}

// Point is a 3D point with integer coordinates. The zero value is the origin.
type Point struct {
	X, Y, Z int32
}

// Pt is shorthand for Point{X: x, Y: y, Z: z}.
func Pt(x, y, z int32) Point {
	return Point{X: x, Y: y, Z: z}
}

// Coords returns the three coordinates in x, y, z order.
func (p Point) Coords() (x, y, z int32) {
	return p.X, p.Y, p.Z
}

// Translate moves p by d along axis. On error p is left unchanged.
func (p *Point) Translate(d int32, axis Axis) error {
	var c *int32
	switch axis {
	case AxisX:
		c = &p.X
	case AxisY:
		c = &p.Y
	case AxisZ:
		c = &p.Z
	default:
		return fmt.Errorf("%w: %s", ErrInvalidAxis, axis)
	}
	v := int64(*c) + int64(d)
	if v > math.MaxInt32 || v < math.MinInt32 {
		return fmt.Errorf("%w: %s%+d on axis %s", ErrOverflow, p, d, axis)
	}
	*c = int32(v)
	return nil
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	dx := float64(int64(p.X) - int64(q.X))
	dy := float64(int64(p.Y) - int64(q.Y))
	dz := float64(int64(p.Z) - int64(q.Z))
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Scale returns p * k.
func (p Point) Scale(k int32) Point {
	return Point{p.X * k, p.Y * k, p.Z * k}
}

// Div returns p / k with truncating integer division. k must not be zero.
func (p Point) Div(k int32) Point {
	return Point{p.X / k, p.Y / k, p.Z / k}
}

// Equal reports componentwise equality.
func (p Point) Equal(q Point) bool {
	return p == q
}

func (p Point) String() string {
	return fmt.Sprintf("Point(%d,%d,%d)", p.X, p.Y, p.Z)
}

// vec64 is an edge vector widened to int64 so that differences of int32
// coordinates cannot overflow.
type vec64 struct {
	x, y, z int64
}

func edge(from, to Point) vec64 {
	return vec64{
		x: int64(to.X) - int64(from.X),
		y: int64(to.Y) - int64(from.Y),
		z: int64(to.Z) - int64(from.Z),
	}
}
