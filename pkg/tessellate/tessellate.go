// Package tessellate turns a scene into triangle meshes and STL files
// using a geometry kernel. One mesh is produced per scene node.
package tessellate

import (
	"context"
	"errors"
	"fmt"

	"github.com/chazu/trigon/pkg/kernel"
	"github.com/chazu/trigon/pkg/scene"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// maxWorkers bounds concurrent kernel calls.
const maxWorkers = 8

// ErrInvalidScene is returned when structural validation blocks export.
var ErrInvalidScene = errors.New("tessellate: scene failed validation")

// ErrEmptyMesh is returned when the kernel yields no geometry for a node.
var ErrEmptyMesh = errors.New("kernel produced an empty mesh")

// Tessellate produces one mesh per scene node, in scene order. Nodes are
// meshed concurrently; the scene is never mutated.
func Tessellate(ctx context.Context, s *scene.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	nodes := s.List()
	meshes := make([]*kernel.Mesh, len(nodes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for i, n := range nodes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := meshNode(k, n)
			if err != nil {
				return err
			}
			meshes[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

// meshNode builds the mesh for a single node.
func meshNode(k kernel.Kernel, n *scene.Node) (*kernel.Mesh, error) {
	surf, err := k.Facets(n.Triangle)
	if err != nil {
		return nil, fmt.Errorf("tessellate: node %s: %w", n.ID.Short(), err)
	}
	m, err := k.ToMesh(surf)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for node %s: %w", n.ID.Short(), err)
	}
	if m.IsEmpty() {
		return nil, fmt.Errorf("tessellate: node %s (%s): %w", n.ID.Short(), n.Name, ErrEmptyMesh)
	}
	m.Name = n.Name
	return m, nil
}

// SaveSTL validates the scene and writes every node to one STL file.
// Structural errors block the export; advisory warnings do not.
func SaveSTL(s *scene.Scene, k kernel.Kernel, path string) error {
	if errs := scene.Validate(s); len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidScene, errors.Join(lo.Map(errs, func(e scene.ValidationError, _ int) error { return e })...))
	}
	if s.Len() == 0 {
		return fmt.Errorf("tessellate: scene is empty, nothing to write to %s", path)
	}
	surf, err := joinScene(s, k)
	if err != nil {
		return err
	}
	return k.SaveSTL(path, surf)
}

// Bounds returns the axis-aligned bounding box of every triangle in the
// scene.
func Bounds(s *scene.Scene, k kernel.Kernel) (min, max [3]float64, err error) {
	surf, err := joinScene(s, k)
	if err != nil {
		return min, max, err
	}
	if surf.FacetCount() == 0 {
		return min, max, fmt.Errorf("tessellate: scene is empty")
	}
	min, max = surf.BoundingBox()
	return min, max, nil
}

// joinScene facets each node separately so a failure names its node.
func joinScene(s *scene.Scene, k kernel.Kernel) (kernel.Surface, error) {
	surfs := make([]kernel.Surface, 0, s.Len())
	for _, n := range s.List() {
		surf, err := k.Facets(n.Triangle)
		if err != nil {
			return nil, fmt.Errorf("tessellate: node %q: %w", n.Name, err)
		}
		surfs = append(surfs, surf)
	}
	return k.Join(surfs...), nil
}
