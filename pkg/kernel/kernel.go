// Package kernel defines the abstract geometry kernel interface used to
// turn scene triangles into render meshes and STL files. Implementations
// (sdfx) sit behind this interface so the shell and tessellator never
// import a CAD library directly.
package kernel

import "github.com/chazu/trigon/pkg/geom"

// Surface is an opaque handle to a kernel-side set of facets.
// Implementations wrap their internal representation.
type Surface interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
	// FacetCount returns the number of triangles in the surface.
	FacetCount() int
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Facets builds a surface from validated triangles. Empty triangles
	// are rejected.
	Facets(tris ...*geom.Triangle) (Surface, error)

	// Join returns a surface holding the facets of all inputs.
	Join(surfaces ...Surface) Surface

	// ToMesh flattens a surface into a render mesh with face normals.
	ToMesh(s Surface) (*Mesh, error)

	// SaveSTL writes a surface to path as an STL file.
	SaveSTL(path string, s Surface) error
}
