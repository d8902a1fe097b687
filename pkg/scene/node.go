// Package scene builds the ring scene graph and its lighting rig.
package scene

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/taigrr/ringview/pkg/material"
	"github.com/taigrr/ringview/pkg/math3d"
)

// Kind tags what a node is. Only Group nodes have children; every other
// kind is a leaf carrying one primitive and one material.
type Kind int

const (
	KindGroup Kind = iota
	KindBand
	KindGem
	KindAccent
	KindProng
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindBand:
		return "band"
	case KindGem:
		return "gem"
	case KindAccent:
		return "accent"
	case KindProng:
		return "prong"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Shape identifies the primitive a leaf is tessellated from.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeTorus
	ShapeCone
	ShapeSphere
	ShapeCylinder
)

// Primitive holds the parameters for a leaf's shape. Unused fields are
// zero for a given shape.
type Primitive struct {
	Shape       Shape
	Radius      float64 // torus ring, cone base, sphere, cylinder
	Tube        float64 // torus tube radius
	Height      float64 // cone and cylinder
	RadialSegs  int
	TubularSegs int // torus tube segments, sphere height segments
}

// Node is one object in the scene graph. Children are owned exclusively
// by their parent; Material is shared and never owned.
type Node struct {
	ID        uuid.UUID
	Name      string
	Kind      Kind
	Local     math3d.Transform
	Primitive Primitive
	Material  *material.Profile
	Children  []*Node

	parent *Node
}

// NewGroup creates an empty group node.
func NewGroup(name string, local math3d.Transform) *Node {
	return &Node{
		ID:    uuid.New(),
		Name:  name,
		Kind:  KindGroup,
		Local: local,
	}
}

// NewLeaf creates a leaf node.
func NewLeaf(name string, kind Kind, local math3d.Transform, prim Primitive, mat *material.Profile) *Node {
	return &Node{
		ID:        uuid.New(),
		Name:      name,
		Kind:      kind,
		Local:     local,
		Primitive: prim,
		Material:  mat,
	}
}

// Add attaches children to a group and returns the group. A child that
// already has a parent is detached from it first, so ownership stays
// exclusive.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c.parent != nil {
			c.parent.remove(c)
		}
		c.parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

func (n *Node) remove(c *Node) {
	for i, child := range n.Children {
		if child == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// Parent returns the owning node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsLeaf reports whether the node carries geometry.
func (n *Node) IsLeaf() bool {
	return n.Kind != KindGroup
}

// WorldMatrix composes the local matrices from the root down to n.
func (n *Node) WorldMatrix() math3d.Mat4 {
	if n.parent == nil {
		return n.Local.Matrix()
	}
	return n.parent.WorldMatrix().Mul(n.Local.Matrix())
}

// VisitFunc receives each node with its world matrix and depth. Returning
// false skips the node's children.
type VisitFunc func(n *Node, world math3d.Mat4, depth int) bool

// Walk visits n and its descendants depth first, parent before child,
// starting from the given parent matrix.
func (n *Node) Walk(parentWorld math3d.Mat4, fn VisitFunc) {
	n.walk(parentWorld, 0, fn)
}

func (n *Node) walk(parentWorld math3d.Mat4, depth int, fn VisitFunc) {
	world := parentWorld.Mul(n.Local.Matrix())
	if !fn(n, world, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(world, depth+1, fn)
	}
}

// Leaves returns every leaf below n in visit order.
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	n.Walk(math3d.Identity(), func(node *Node, _ math3d.Mat4, _ int) bool {
		if node.IsLeaf() {
			leaves = append(leaves, node)
		}
		return true
	})
	return leaves
}

// Count returns the number of nodes of the given kind below and including n.
func (n *Node) Count(kind Kind) int {
	count := 0
	n.Walk(math3d.Identity(), func(node *Node, _ math3d.Mat4, _ int) bool {
		if node.Kind == kind {
			count++
		}
		return true
	})
	return count
}

// Find returns the first node with the given name, or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(math3d.Identity(), func(node *Node, _ math3d.Mat4, _ int) bool {
		if found != nil {
			return false
		}
		if node.Name == name {
			found = node
			return false
		}
		return true
	})
	return found
}
