package geom

import "math"

// mul64, add64 and sub64 report ok=false instead of wrapping.

func mul64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

func add64(a, b int64) (int64, bool) {
	c := a + b
	if (c > a) != (b > 0) {
		return 0, false
	}
	return c, true
}

func sub64(a, b int64) (int64, bool) {
	c := a - b
	if (c < a) != (b > 0) {
		return 0, false
	}
	return c, true
}

// cross returns u × v, or ok=false if any component overflows int64.
func cross(u, v vec64) (vec64, bool) {
	comp := func(a, b, c, d int64) (int64, bool) {
		l, ok := mul64(a, b)
		if !ok {
			return 0, false
		}
		r, ok := mul64(c, d)
		if !ok {
			return 0, false
		}
		return sub64(l, r)
	}
	x, okx := comp(u.y, v.z, u.z, v.y)
	y, oky := comp(u.z, v.x, u.x, v.z)
	z, okz := comp(u.x, v.y, u.y, v.x)
	return vec64{x, y, z}, okx && oky && okz
}

// normSq returns x²+y²+z², or ok=false on overflow.
func (v vec64) normSq() (int64, bool) {
	sum := int64(0)
	for _, c := range [3]int64{v.x, v.y, v.z} {
		sq, ok := mul64(c, c)
		if !ok {
			return 0, false
		}
		if sum, ok = add64(sum, sq); !ok {
			return 0, false
		}
	}
	return sum, true
}
