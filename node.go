package lingolens

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Node IDs are handed out from a plain counter; the scene graph is only
// touched from the render goroutine.
var lastNodeID uint32

// Node is one element of the 3D scene graph. Containers group and transform
// their children; labels additionally carry a rasterized surface drawn as a
// flat quad.
type Node struct {
	ID   uint32
	Name string
	Type NodeType

	Parent   *Node
	children []*Node

	// Transform is the local rigid transform relative to Parent.
	Transform Mat4
	// Scale is a uniform scale applied on top of Transform. It is kept
	// separate so rescaling never disturbs position or orientation.
	Scale float64

	// Billboard re-orients the node toward the camera at draw time.
	Billboard Billboard

	// Width and Height are the label plane size in metres (NodeTypeLabel).
	Width, Height float64

	Visible bool
	Color   Color

	// UserData is free for the owner; the factory stores the source label.
	UserData any

	// surface is the rasterized label texture (NodeTypeLabel). Owned by the
	// node and released by Dispose.
	surface *ebiten.Image

	disposed bool
}

func newNode(name string, typ NodeType) *Node {
	lastNodeID++
	return &Node{
		ID:        lastNodeID,
		Name:      name,
		Type:      typ,
		Transform: Mat4Identity(),
		Scale:     1,
		Color:     ColorWhite,
		Visible:   true,
	}
}

// NewContainer returns an empty grouping node.
func NewContainer(name string) *Node {
	return newNode(name, NodeTypeContainer)
}

// NewLabelNode creates a label plane of the given size in metres textured
// with surface. The node takes ownership of surface.
func NewLabelNode(name string, surface *ebiten.Image, width, height float64) *Node {
	n := newNode(name, NodeTypeLabel)
	n.Width, n.Height = width, height
	n.surface = surface
	return n
}

// Surface returns the label texture, or nil.
func (n *Node) Surface() *ebiten.Image {
	return n.surface
}

// AddChild attaches child as the last child of n, taking it from its
// previous parent if it had one. It panics on a nil child or when child is
// n or one of n's ancestors.
func (n *Node) AddChild(child *Node) {
	switch {
	case child == nil:
		panic("lingolens: AddChild called with a nil node")
	case child.isAncestorOf(n):
		panic("lingolens: AddChild would create a cycle")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if old := child.Parent; old != nil {
		old.detachAt(old.indexOf(child))
	}
	child.Parent = n
	n.children = append(n.children, child)
	if globalDebug {
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child. It panics if child is not a child of n.
func (n *Node) RemoveChild(child *Node) {
	i := n.indexOf(child)
	if i < 0 {
		panic("lingolens: RemoveChild called with a node that is not a child")
	}
	n.detachAt(i)
}

// RemoveChildAt detaches and returns the child at index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("lingolens: RemoveChildAt index out of range")
	}
	return n.detachAt(index)
}

// RemoveFromParent detaches n; it does nothing for a root.
func (n *Node) RemoveFromParent() {
	if p := n.Parent; p != nil {
		p.RemoveChild(n)
	}
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Dispose detaches n, releases its surface and disposes the whole subtree.
// Calling it again is a no-op.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.release()
}

func (n *Node) release() {
	for _, c := range n.children {
		c.Parent = nil
		c.release()
	}
	if n.surface != nil {
		n.surface.Deallocate()
	}
	*n = Node{Name: n.Name, Type: n.Type, disposed: true}
}

// IsDisposed reports whether Dispose has run on n or an ancestor.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Transforms ---

// WorldTransform composes the local transforms from the root down to n,
// excluding Scale.
func (n *Node) WorldTransform() Mat4 {
	if n.Parent == nil {
		return n.Transform
	}
	return n.Parent.WorldTransform().Mul(n.Transform)
}

// WorldScale is the product of Scale along the ancestor chain.
func (n *Node) WorldScale() float64 {
	s := 1.0
	for p := n; p != nil; p = p.Parent {
		s *= p.Scale
	}
	return s
}

// ConstrainedTransform returns the transform used for drawing: the world
// position with orientation replaced according to Billboard, then scaled.
// A nil camera leaves the orientation untouched.
func (n *Node) ConstrainedTransform(cam *Camera) Mat4 {
	world := n.WorldTransform()
	scale := Scaling(n.WorldScale())
	if cam == nil {
		return world.Mul(scale)
	}
	pos := world.Position()
	switch n.Billboard {
	case BillboardYaw:
		return FacingTransform(pos, cam.Position()).Mul(scale)
	case BillboardFull:
		return cam.Transform.WithPosition(pos).Mul(scale)
	default:
		return world.Mul(scale)
	}
}

// quadCorners returns the label plane corners in local space, counter-clockwise
// from bottom-left.
func (n *Node) quadCorners() [4]Vec3 {
	hw, hh := n.Width/2, n.Height/2
	return [4]Vec3{
		{-hw, -hh, 0},
		{hw, -hh, 0},
		{hw, hh, 0},
		{-hw, hh, 0},
	}
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// detachAt removes the child at i, clearing its Parent and the vacated slot.
func (n *Node) detachAt(i int) *Node {
	child := n.children[i]
	last := len(n.children) - 1
	copy(n.children[i:], n.children[i+1:])
	n.children[last] = nil
	n.children = n.children[:last]
	child.Parent = nil
	return child
}

// isAncestorOf reports whether n is node itself or one of its ancestors.
func (n *Node) isAncestorOf(node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}
