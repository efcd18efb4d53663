package lingolens

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const defaultTapDeadZone = 6.0 // pixels

// quadContains reports whether p lies inside the convex screen quad using a
// cross-product sign test. Either winding order is accepted.
func quadContains(quad [4]Vec2, p Vec2) bool {
	var positive, negative bool
	for i := 0; i < len(quad); i++ {
		a := quad[i]
		b := quad[(i+1)%len(quad)]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// TapTracker turns a pointer's pressed state into taps. A press that moves
// further than DeadZone pixels before release is a drag, not a tap.
type TapTracker struct {
	DeadZone float64

	down           bool
	dragging       bool
	startX, startY float64
}

// Update feeds one frame of pointer state and reports a tap at release.
func (t *TapTracker) Update(pressed bool, p Vec2) (Vec2, bool) {
	dz := t.DeadZone
	if dz <= 0 {
		dz = defaultTapDeadZone
	}
	switch {
	case pressed && !t.down:
		t.down = true
		t.dragging = false
		t.startX, t.startY = p.X, p.Y
	case pressed && t.down:
		if math.Hypot(p.X-t.startX, p.Y-t.startY) > dz {
			t.dragging = true
		}
	case !pressed && t.down:
		t.down = false
		if !t.dragging {
			return Vec2{X: t.startX, Y: t.startY}, true
		}
	}
	return Vec2{}, false
}

// PollPointer reads the primary pointer: the left mouse button, or the first
// active touch when one exists.
func PollPointer() (pressed bool, p Vec2) {
	touches := ebiten.AppendTouchIDs(nil)
	if len(touches) > 0 {
		x, y := ebiten.TouchPosition(touches[0])
		return true, Vec2{X: float64(x), Y: float64(y)}
	}
	x, y := ebiten.CursorPosition()
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), Vec2{X: float64(x), Y: float64(y)}
}
