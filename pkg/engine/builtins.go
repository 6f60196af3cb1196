package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/trigon/pkg/geom"
	"github.com/chazu/trigon/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a geom.Point.
type sexpPoint struct {
	p geom.Point
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(point %d %d %d)", p.p.X, p.p.Y, p.p.Z)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpTriRef names a triangle node in the scene being built. Builtins
// resolve it on every use, so mutations are visible to later expressions.
type sexpTriRef struct {
	id   scene.NodeID
	name string
}

func (r *sexpTriRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(tri %q)", r.name)
}
func (r *sexpTriRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// toInt32 extracts a coordinate. Floats are accepted when they hold an
// integral value.
func toInt32(s zygo.Sexp) (int32, error) {
	var f float64
	switch v := s.(type) {
	case *zygo.SexpInt:
		if v.Val < math.MinInt32 || v.Val > math.MaxInt32 {
			return 0, fmt.Errorf("%d does not fit in 32 bits", v.Val)
		}
		return int32(v.Val), nil
	case *zygo.SexpFloat:
		f = v.Val
	default:
		return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("expected integer, got %v", f)
	}
	return int32(f), nil
}

// toIndex extracts a 1-based vertex index.
func toIndex(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected vertex index, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	if name, ok := isKW(s); ok {
		return name, nil
	}
	str, err := toString(s)
	if err != nil {
		return "", fmt.Errorf("expected keyword or string: %w", err)
	}
	return str, nil
}

// toAxis converts :x, :y, :z (or "x", "y", "z") to a geom.Axis.
func toAxis(s zygo.Sexp) (geom.Axis, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected axis keyword (:x, :y, :z): %w", err)
	}
	return geom.ParseAxis(name)
}

// toPoint extracts a Point from a sexpPoint.
func toPoint(s zygo.Sexp) (geom.Point, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	return geom.Point{}, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// toPoints extracts three points, given either as three arguments or as a
// single list or array.
func toPoints(args []zygo.Sexp) ([3]geom.Point, error) {
	var pts [3]geom.Point
	if len(args) == 1 {
		items, err := sexpListToSlice(args[0])
		if err != nil {
			return pts, err
		}
		args = items
	}
	if len(args) != 3 {
		return pts, fmt.Errorf("expected 3 points, got %d", len(args))
	}
	for i, a := range args {
		p, err := toPoint(a)
		if err != nil {
			return pts, fmt.Errorf("point %d: %w", i+1, err)
		}
		pts[i] = p
	}
	return pts, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

func floatResult(f float64) zygo.Sexp {
	return &zygo.SexpFloat{Val: f}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the trigon builtins into a zygomys environment.
// They populate and mutate s during evaluation; every node they create is
// tagged with src.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens and kebab-case names are recognised.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene, src scene.SourceRef) {
	copies := 0

	// resolve finds the live node behind a triangle reference.
	resolve := func(fn string, arg zygo.Sexp) (*scene.Node, error) {
		ref, ok := arg.(*sexpTriRef)
		if !ok {
			return nil, fmt.Errorf("%s: expected triangle reference, got %T (%s)", fn, arg, arg.SexpString(nil))
		}
		n := s.Get(ref.id)
		if n == nil {
			return nil, fmt.Errorf("%s: %w: %q", fn, scene.ErrNoSuchNode, ref.name)
		}
		return n, nil
	}

	ref := func(n *scene.Node) zygo.Sexp {
		return &sexpTriRef{id: n.ID, name: n.Name}
	}

	// -----------------------------------------------------------------------
	// (point 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("point requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]int32
		for i, axis := range []string{"x", "y", "z"} {
			v, err := toInt32(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("point: %s: %w", axis, err)
			}
			c[i] = v
		}
		return &sexpPoint{p: geom.Pt(c[0], c[1], c[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (triangle "name" p1 p2 p3)
	// -----------------------------------------------------------------------
	env.AddFunction("triangle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("triangle requires a name and three points")
		}
		triName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("triangle: name: %w", err)
		}
		pts, err := toPoints(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("triangle %q: %w", triName, err)
		}
		tri, err := geom.NewTriangle(pts[0], pts[1], pts[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("triangle %q: %w", triName, err)
		}
		n, err := s.Add(triName, tri, src)
		if err != nil {
			return zygo.SexpNull, err
		}
		return ref(n), nil
	})

	// -----------------------------------------------------------------------
	// (tri "name")
	// -----------------------------------------------------------------------
	env.AddFunction("tri", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("tri requires a name argument")
		}
		triName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tri: name: %w", err)
		}
		n := s.Lookup(triName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("tri: no triangle named %q", triName)
		}
		return ref(n), nil
	})

	// -----------------------------------------------------------------------
	// (vertex (tri "a") 1)
	// -----------------------------------------------------------------------
	env.AddFunction("vertex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vertex requires a triangle and an index")
		}
		n, err := resolve("vertex", args[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		i, err := toIndex(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vertex: %w", err)
		}
		p, err := n.Triangle.Vertex(i)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vertex: %w", err)
		}
		return &sexpPoint{p: p}, nil
	})

	// -----------------------------------------------------------------------
	// (set-vertex (tri "a") 2 (point 5 0 0))
	//
	// Registered as "set_vertex"; the preprocessor rewrites the hyphen.
	// -----------------------------------------------------------------------
	env.AddFunction("set_vertex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("set-vertex requires a triangle, an index and a point")
		}
		n, err := resolve("set-vertex", args[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		i, err := toIndex(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-vertex: %w", err)
		}
		p, err := toPoint(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-vertex: %w", err)
		}
		if err := n.Triangle.SetVertex(i, p); err != nil {
			return zygo.SexpNull, fmt.Errorf("set-vertex %q: %w", n.Name, err)
		}
		s.Version++
		return ref(n), nil
	})

	// -----------------------------------------------------------------------
	// (translate (tri "a") 10 :z)
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("translate requires a triangle, a distance and an axis")
		}
		n, err := resolve("translate", args[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		d, err := toInt32(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: distance: %w", err)
		}
		axis, err := toAxis(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		if err := n.Triangle.Translate(d, axis); err != nil {
			return zygo.SexpNull, fmt.Errorf("translate %q: %w", n.Name, err)
		}
		s.Version++
		return ref(n), nil
	})

	// -----------------------------------------------------------------------
	// (area (tri "a")) / (perimeter (tri "a"))
	// -----------------------------------------------------------------------
	env.AddFunction("area", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("area requires a triangle")
		}
		n, err := resolve("area", args[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		a, err := n.Triangle.Area()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("area %q: %w", n.Name, err)
		}
		return floatResult(a), nil
	})

	env.AddFunction("perimeter", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("perimeter requires a triangle")
		}
		n, err := resolve("perimeter", args[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		return floatResult(n.Triangle.Perimeter()), nil
	})

	// -----------------------------------------------------------------------
	// (distance (point 0 0 0) (point 3 4 0))
	// -----------------------------------------------------------------------
	env.AddFunction("distance", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("distance requires two points")
		}
		p, err := toPoint(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("distance: %w", err)
		}
		q, err := toPoint(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("distance: %w", err)
		}
		return floatResult(p.DistanceTo(q)), nil
	})

	// -----------------------------------------------------------------------
	// (clone (tri "a") "b")
	//
	// Without a name the copy is called "<name>_copy<N>".
	// -----------------------------------------------------------------------
	env.AddFunction("clone", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 || len(args) > 2 {
			return zygo.SexpNull, fmt.Errorf("clone requires a triangle and an optional name")
		}
		n, err := resolve("clone", args[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		var newName string
		if len(args) == 2 {
			if newName, err = toString(args[1]); err != nil {
				return zygo.SexpNull, fmt.Errorf("clone: name: %w", err)
			}
		} else {
			copies++
			newName = fmt.Sprintf("%s_copy%d", n.Name, copies)
		}
		c, err := s.Add(newName, n.Triangle.Clone(), src)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clone: %w", err)
		}
		return ref(c), nil
	})

	// -----------------------------------------------------------------------
	// (remove-triangle "a") or (remove-triangle (tri "a"))
	// -----------------------------------------------------------------------
	env.AddFunction("remove_triangle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("remove-triangle requires a name or triangle")
		}
		triName, err := toString(args[0])
		if err != nil {
			n, rerr := resolve("remove-triangle", args[0])
			if rerr != nil {
				return zygo.SexpNull, rerr
			}
			triName = n.Name
		}
		if err := s.Remove(triName); err != nil {
			return zygo.SexpNull, fmt.Errorf("remove-triangle: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (valid p1 p2 p3)
	// -----------------------------------------------------------------------
	env.AddFunction("valid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pts, err := toPoints(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("valid: %w", err)
		}
		return &zygo.SexpBool{Val: geom.IsValidTrianglePoints(pts[0], pts[1], pts[2])}, nil
	})
}
