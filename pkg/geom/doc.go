// Package geom defines the integer 3D Point and the Triangle that keeps its
// three vertices a valid (non-degenerate) triangle across every mutation.
package geom
