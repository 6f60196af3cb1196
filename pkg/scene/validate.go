package scene

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/chazu/trigon/pkg/geom"
	"github.com/samber/lo"
)

// ValidationSeverity indicates whether a validation finding blocks export
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks export
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	NodeID  NodeID
	Message string
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether the result has no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Options tunes the advisory checks.
type Options struct {
	SliverArea float64 // areas below this draw a warning; 0 disables the check
}

// Validate runs the structural checks and returns blocking errors only.
// An empty slice means every node holds a valid triangle.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateIndex(s)...)
	errs = append(errs, validateTriangles(s)...)
	return errs
}

// ValidateAll runs the structural checks plus the geometric advisories.
func ValidateAll(s *Scene, opts Options) ValidationResult {
	var result ValidationResult
	result.Errors = Validate(s)
	result.Warnings = append(result.Warnings, validateDuplicateGeometry(s)...)
	result.Warnings = append(result.Warnings, validateSlivers(s, opts.SliverArea)...)
	return result
}

// validateIndex checks that Order and NameIndex agree with Nodes.
func validateIndex(s *Scene) []ValidationError {
	var errs []ValidationError

	for name, id := range s.NameIndex {
		n, ok := s.Nodes[id]
		if !ok {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("name %q points at missing node", name),
				Severity: SeverityError,
			})
			continue
		}
		if n.Name != name {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("name %q indexes node named %q", name, n.Name),
				Severity: SeverityError,
			})
		}
	}

	for _, id := range s.Order {
		if _, ok := s.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  "ordered node does not exist",
				Severity: SeverityError,
			})
		}
	}

	if len(s.Order) != len(s.Nodes) {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("order lists %d nodes, scene holds %d", len(s.Order), len(s.Nodes)),
			Severity: SeverityError,
		})
	}

	return errs
}

// validateTriangles re-applies the triangle inequality to every node.
func validateTriangles(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, n := range s.List() {
		if n.Triangle.IsEmpty() {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("%q has no vertices", n.Name),
				Severity: SeverityError,
			})
			continue
		}
		v := n.Triangle.Vertices()
		if !geom.IsValidTrianglePoints(v[0], v[1], v[2]) {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("%q is not a valid triangle: %s, %s, %s", n.Name, v[0], v[1], v[2]),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// geometryKey is the vertex set of a triangle in canonical order, so that
// the same three points in any order compare equal.
type geometryKey [3]geom.Point

func comparePoints(a, b geom.Point) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.Z, b.Z)
}

func makeGeometryKey(t *geom.Triangle) geometryKey {
	v := t.Vertices()
	slices.SortFunc(v[:], comparePoints)
	return geometryKey(v)
}

// validateDuplicateGeometry warns when two nodes hold the same vertex set.
func validateDuplicateGeometry(s *Scene) []ValidationWarning {
	var warnings []ValidationWarning

	nodes := lo.Filter(s.List(), func(n *Node, _ int) bool { return !n.Triangle.IsEmpty() })
	groups := lo.GroupBy(nodes, func(n *Node) geometryKey { return makeGeometryKey(n.Triangle) })

	for _, n := range nodes {
		first := groups[makeGeometryKey(n.Triangle)][0]
		if first.ID == n.ID {
			continue
		}
		warnings = append(warnings, ValidationWarning{
			NodeID:  n.ID,
			Message: fmt.Sprintf("%q duplicates the geometry of %q", n.Name, first.Name),
		})
	}

	return warnings
}

// validateSlivers warns about valid but nearly degenerate triangles, and
// about triangles whose area cannot be computed.
func validateSlivers(s *Scene, threshold float64) []ValidationWarning {
	var warnings []ValidationWarning
	for _, n := range s.List() {
		if n.Triangle.IsEmpty() {
			continue
		}
		area, err := n.Triangle.Area()
		switch {
		case err != nil:
			warnings = append(warnings, ValidationWarning{
				NodeID:  n.ID,
				Message: fmt.Sprintf("%q area not computable: %v", n.Name, err),
			})
		case area < threshold:
			warnings = append(warnings, ValidationWarning{
				NodeID:  n.ID,
				Message: fmt.Sprintf("%q is a sliver: area %.4f below %.4f", n.Name, area, threshold),
			})
		}
	}
	return warnings
}
