package scene

import (
	"errors"
	"fmt"

	"github.com/chazu/trigon/pkg/geom"
	"github.com/samber/lo"
)

// ErrDuplicateName is returned when a node name is already taken.
var ErrDuplicateName = errors.New("scene: duplicate node name")

// ErrNoSuchNode is returned when a named node does not exist.
var ErrNoSuchNode = errors.New("scene: no such node")

// Origin records where a node came from.
type Origin int

const (
	OriginShell  Origin = iota // entered at the interactive menu
	OriginScript               // produced by script evaluation
)

func (o Origin) String() string {
	switch o {
	case OriginShell:
		return "shell"
	case OriginScript:
		return "script"
	default:
		return "unknown"
	}
}

// SourceRef points back at the input that created a node.
type SourceRef struct {
	Origin Origin `json:"origin"`
	File   string `json:"file,omitempty"`
}

// Node is a named triangle in the scene.
type Node struct {
	ID       NodeID         `json:"id"`
	Name     string         `json:"name"`
	Source   SourceRef      `json:"source"`
	Triangle *geom.Triangle `json:"-"`
}

// Scene is an insertion-ordered set of named triangles.
type Scene struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Order     []NodeID          `json:"order"`
	NameIndex map[string]NodeID `json:"name_index"`
	Version   uint64            `json:"version"`
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// Add stores a clone of tri under name. Names must be unique and non-empty,
// and tri must not be empty.
func (s *Scene) Add(name string, tri *geom.Triangle, src SourceRef) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("scene: node name must not be empty")
	}
	if _, exists := s.NameIndex[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if tri.IsEmpty() {
		return nil, fmt.Errorf("scene: node %q: %w", name, geom.ErrEmptyTriangle)
	}

	n := &Node{
		ID:       NewNodeID(name),
		Name:     name,
		Source:   src,
		Triangle: tri.Clone(),
	}
	s.Nodes[n.ID] = n
	s.NameIndex[name] = n.ID
	s.Order = append(s.Order, n.ID)
	s.Version++
	return n, nil
}

// Remove deletes the node with the given name.
func (s *Scene) Remove(name string) error {
	id, ok := s.NameIndex[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoSuchNode, name)
	}
	delete(s.Nodes, id)
	delete(s.NameIndex, name)
	s.Order = lo.Without(s.Order, id)
	s.Version++
	return nil
}

// Lookup returns the node with the given name, or nil.
func (s *Scene) Lookup(name string) *Node {
	id, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (s *Scene) MustLookup(name string) *Node {
	n := s.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("scene: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (s *Scene) Get(id NodeID) *Node {
	return s.Nodes[id]
}

// Len returns the number of nodes.
func (s *Scene) Len() int {
	return len(s.Nodes)
}

// List returns the nodes in insertion order.
func (s *Scene) List() []*Node {
	return lo.FilterMap(s.Order, func(id NodeID, _ int) (*Node, bool) {
		n, ok := s.Nodes[id]
		return n, ok
	})
}

// Names returns node names in insertion order.
func (s *Scene) Names() []string {
	return lo.Map(s.List(), func(n *Node, _ int) string { return n.Name })
}

// Triangles returns the scene triangles in insertion order.
func (s *Scene) Triangles() []*geom.Triangle {
	return lo.Map(s.List(), func(n *Node, _ int) *geom.Triangle { return n.Triangle })
}

// Merge adds every node of other to s. It fails without modifying s if any
// name of other is already present.
func (s *Scene) Merge(other *Scene) error {
	if other == nil {
		return nil
	}
	if clash := lo.Filter(other.Names(), func(name string, _ int) bool {
		_, ok := s.NameIndex[name]
		return ok
	}); len(clash) > 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateName, clash)
	}
	for _, n := range other.List() {
		if _, err := s.Add(n.Name, n.Triangle, n.Source); err != nil {
			return err
		}
	}
	return nil
}
