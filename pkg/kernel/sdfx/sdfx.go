// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx CAD library's triangle and STL support.
package sdfx

import (
	"fmt"

	"github.com/chazu/trigon/pkg/geom"
	"github.com/chazu/trigon/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// sdfxSurface wraps a list of sdf.Triangle3 to implement kernel.Surface.
type sdfxSurface struct {
	tris []*sdf.Triangle3
	area float64
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSurface) BoundingBox() (min, max [3]float64) {
	if len(s.tris) == 0 {
		return min, max
	}
	lo, hi := s.tris[0][0], s.tris[0][0]
	for _, t := range s.tris {
		for _, v := range t {
			lo = lo.Min(v)
			hi = hi.Max(v)
		}
	}
	return [3]float64{lo.X, lo.Y, lo.Z}, [3]float64{hi.X, hi.Y, hi.Z}
}

// FacetCount returns the number of triangles.
func (s *sdfxSurface) FacetCount() int {
	return len(s.tris)
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying surface from a kernel.Surface.
func unwrap(s kernel.Surface) *sdfxSurface {
	return s.(*sdfxSurface)
}

func toVec(p geom.Point) v3.Vec {
	return v3.Vec{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}
}

// Facets converts geom triangles to sdf.Triangle3 values. Vertex order is
// kept, so the facet normal follows the v1→v2→v3 winding.
func (k *SdfxKernel) Facets(tris ...*geom.Triangle) (kernel.Surface, error) {
	s := &sdfxSurface{tris: make([]*sdf.Triangle3, 0, len(tris))}
	for i, t := range tris {
		if t.IsEmpty() {
			return nil, fmt.Errorf("sdfx: facet %d: %w", i, geom.ErrEmptyTriangle)
		}
		area, err := t.Area()
		if err != nil {
			return nil, fmt.Errorf("sdfx: facet %d: %w", i, err)
		}
		v := t.Vertices()
		s.tris = append(s.tris, &sdf.Triangle3{toVec(v[0]), toVec(v[1]), toVec(v[2])})
		s.area += area
	}
	return s, nil
}

// Join concatenates the facets of the given surfaces.
func (k *SdfxKernel) Join(surfaces ...kernel.Surface) kernel.Surface {
	out := &sdfxSurface{}
	for _, s := range surfaces {
		u := unwrap(s)
		out.tris = append(out.tris, u.tris...)
		out.area += u.area
	}
	return out
}

// ToMesh converts a surface to a flat render mesh with one face normal per
// vertex.
func (k *SdfxKernel) ToMesh(s kernel.Surface) (*kernel.Mesh, error) {
	surf := unwrap(s)

	numVerts := len(surf.tris) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range surf.tris {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
		Area:     surf.area,
	}, nil
}

// SaveSTL writes the surface as an STL file at path.
func (k *SdfxKernel) SaveSTL(path string, s kernel.Surface) error {
	surf := unwrap(s)
	if len(surf.tris) == 0 {
		return fmt.Errorf("sdfx: nothing to write to %s", path)
	}
	if err := render.SaveSTL(path, surf.tris); err != nil {
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}
