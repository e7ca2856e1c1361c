// Package scene is the container the viewer renders from. It holds named
// nodes that reference kernel solids; it never owns or mutates them.
package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chazu/pizzamaker/pkg/kernel"
)

// ErrDuplicateNode is returned when a node is added twice.
var ErrDuplicateNode = errors.New("node already in scene")

// Node is one renderable entry of the scene.
type Node struct {
	Name  string
	Solid kernel.Solid
	Color string // CSS hex color, e.g. "#FFA500"
}

// NewNode returns a node for the given solid.
func NewNode(name string, s kernel.Solid, color string) *Node {
	return &Node{Name: name, Solid: s, Color: color}
}

// Scene is an ordered set of nodes. It is safe for concurrent use; the
// render loop reads snapshots while the model adds and removes nodes.
type Scene struct {
	mu    sync.RWMutex
	nodes []*Node
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add appends a node. Adding a node that is already present fails so the
// scene can never render the same solid twice.
func (s *Scene) Add(n *Node) error {
	if n == nil {
		return errors.New("scene: cannot add nil node")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(n) >= 0 {
		return fmt.Errorf("scene: %q: %w", n.Name, ErrDuplicateNode)
	}
	s.nodes = append(s.nodes, n)
	return nil
}

// Remove drops a node and reports whether it was present.
func (s *Scene) Remove(n *Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(n)
	if i < 0 {
		return false
	}
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
	return true
}

// Contains reports whether the node is in the scene.
func (s *Scene) Contains(n *Node) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(n) >= 0
}

// Nodes returns a snapshot of the nodes in insertion order.
func (s *Scene) Nodes() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Len returns the number of nodes.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// indexOf must be called with the lock held.
func (s *Scene) indexOf(n *Node) int {
	for i, m := range s.nodes {
		if m == n {
			return i
		}
	}
	return -1
}
