package lingolens

import (
	"cmp"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// renderCommand is one projected label quad emitted during traversal.
type renderCommand struct {
	node  *Node
	quad  [4]Vec2
	depth float64
}

// collect appends, in tree order, a command for every visible label under n
// whose quad lies fully in front of the camera.
func (s *Scene) collect(n *Node) {
	if !n.Visible || n.disposed {
		return
	}
	if n.Type == NodeTypeLabel && n.surface != nil {
		if quad, depth, ok := projectQuad(n, s.camera); ok {
			s.commands = append(s.commands, renderCommand{node: n, quad: quad, depth: depth})
		}
	}
	for _, child := range n.children {
		s.collect(child)
	}
}

// projectQuad returns the screen positions of n's corners (counter-clockwise
// from bottom-left in label space) and the depth of its center.
func projectQuad(n *Node, cam *Camera) (quad [4]Vec2, depth float64, ok bool) {
	if n == nil || cam == nil || n.Type != NodeTypeLabel {
		return quad, 0, false
	}
	m := n.ConstrainedTransform(cam)
	corners := n.quadCorners()
	for i, c := range corners {
		p, _, visible := cam.WorldToScreen(m.MulPoint(c))
		if !visible {
			return quad, 0, false
		}
		quad[i] = p
	}
	_, depth, ok = cam.WorldToScreen(m.Position())
	return quad, depth, ok
}

// sortByDepth orders commands far to near so nearer labels paint over
// farther ones. Equal depths keep tree order.
func (s *Scene) sortByDepth() {
	slices.SortStableFunc(s.commands, func(a, b renderCommand) int {
		return cmp.Compare(b.depth, a.depth)
	})
}

var quadIndices = []uint16{0, 1, 2, 0, 2, 3}

// submit draws every command as two triangles and returns the draw call count.
func (s *Scene) submit(target *ebiten.Image) int {
	calls := 0
	for i := range s.commands {
		cmd := &s.commands[i]
		img := cmd.node.surface
		b := img.Bounds()
		iw, ih := float32(b.Dx()), float32(b.Dy())
		src := [4][2]float32{{0, ih}, {iw, ih}, {iw, 0}, {0, 0}}
		c := cmd.node.Color
		for k := range s.verts {
			s.verts[k] = ebiten.Vertex{
				DstX:   float32(cmd.quad[k].X),
				DstY:   float32(cmd.quad[k].Y),
				SrcX:   src[k][0] + float32(b.Min.X),
				SrcY:   src[k][1] + float32(b.Min.Y),
				ColorR: float32(c.R),
				ColorG: float32(c.G),
				ColorB: float32(c.B),
				ColorA: float32(c.A),
			}
		}
		op := &ebiten.DrawTrianglesOptions{}
		op.Filter = ebiten.FilterLinear
		target.DrawTriangles(s.verts[:], quadIndices, img, op)
		calls++
	}
	return calls
}
