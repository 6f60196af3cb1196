package sdfx

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/trigon/pkg/geom"
)

func tri(t *testing.T, a, b, c geom.Point) *geom.Triangle {
	t.Helper()
	tr, err := geom.NewTriangle(a, b, c)
	if err != nil {
		t.Fatalf("NewTriangle: %v", err)
	}
	return tr
}

func TestFacetsToMesh(t *testing.T) {
	k := New()
	s, err := k.Facets(tri(t, geom.Pt(0, 0, 0), geom.Pt(3, 0, 0), geom.Pt(0, 4, 0)))
	if err != nil {
		t.Fatalf("Facets: %v", err)
	}
	mesh, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Fatalf("triangle count = %d, want 1", mesh.TriangleCount())
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	want := []float32{0, 0, 0, 3, 0, 0, 0, 4, 0}
	for i, v := range want {
		if mesh.Vertices[i] != v {
			t.Fatalf("vertices = %v, want %v", mesh.Vertices, want)
		}
	}
	// Counter-clockwise in the xy plane faces +z.
	for i := 0; i < 3; i++ {
		n := mesh.Normals[i*3 : i*3+3]
		if math.Abs(float64(n[2])-1) > 1e-6 || math.Abs(float64(n[0])) > 1e-6 || math.Abs(float64(n[1])) > 1e-6 {
			t.Errorf("normal %d = %v, want [0 0 1]", i, n)
		}
	}
	if mesh.Area != 6 {
		t.Errorf("mesh area = %v, want 6", mesh.Area)
	}
}

func TestFacetsRejectsEmpty(t *testing.T) {
	_, err := New().Facets(&geom.Triangle{})
	if !errors.Is(err, geom.ErrEmptyTriangle) {
		t.Fatalf("error = %v, want ErrEmptyTriangle", err)
	}
}

func TestBoundingBoxAndJoin(t *testing.T) {
	k := New()
	a, err := k.Facets(tri(t, geom.Pt(0, 0, 0), geom.Pt(3, 0, 0), geom.Pt(0, 4, 0)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := k.Facets(tri(t, geom.Pt(-1, 2, 5), geom.Pt(1, 2, 5), geom.Pt(0, 9, -2)))
	if err != nil {
		t.Fatal(err)
	}
	j := k.Join(a, b)
	if j.FacetCount() != 2 {
		t.Fatalf("facet count = %d, want 2", j.FacetCount())
	}
	min, max := j.BoundingBox()
	if min != [3]float64{-1, 0, -2} {
		t.Errorf("min = %v, want [-1 0 -2]", min)
	}
	if max != [3]float64{3, 9, 5} {
		t.Errorf("max = %v, want [3 9 5]", max)
	}

	emin, emax := k.Join().BoundingBox()
	if emin != ([3]float64{}) || emax != ([3]float64{}) {
		t.Errorf("empty surface bounds = %v %v", emin, emax)
	}
}

func TestSaveSTL(t *testing.T) {
	k := New()
	s, err := k.Facets(
		tri(t, geom.Pt(0, 0, 0), geom.Pt(3, 0, 0), geom.Pt(0, 4, 0)),
		tri(t, geom.Pt(0, 0, 0), geom.Pt(0, 4, 0), geom.Pt(0, 0, 5)),
	)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.stl")
	if err := k.SaveSTL(path, s); err != nil {
		t.Fatalf("SaveSTL: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("STL file is empty")
	}

	if err := k.SaveSTL(filepath.Join(t.TempDir(), "none.stl"), k.Join()); err == nil {
		t.Error("saving an empty surface should fail")
	}
}
