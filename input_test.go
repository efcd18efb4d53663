package lingolens

import "testing"

func TestQuadContains(t *testing.T) {
	ccw := [4]Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	cw := [4]Vec2{{0, 0}, {0, 10}, {10, 10}, {10, 0}}
	tests := []struct {
		name string
		p    Vec2
		want bool
	}{
		{"center", Vec2{5, 5}, true},
		{"edge", Vec2{10, 5}, true},
		{"corner", Vec2{0, 0}, true},
		{"left", Vec2{-1, 5}, false},
		{"below", Vec2{5, 11}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quadContains(ccw, tt.p); got != tt.want {
				t.Errorf("ccw quadContains(%+v) = %v, want %v", tt.p, got, tt.want)
			}
			if got := quadContains(cw, tt.p); got != tt.want {
				t.Errorf("cw quadContains(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestQuadContainsSkewed(t *testing.T) {
	q := [4]Vec2{{0, 0}, {10, 2}, {12, 12}, {1, 9}}
	if !quadContains(q, Vec2{6, 6}) {
		t.Error("interior point should be inside")
	}
	if quadContains(q, Vec2{11, 1}) {
		t.Error("point beyond the sloped edge should be outside")
	}
}

func TestTapTrackerTap(t *testing.T) {
	var tr TapTracker
	if _, ok := tr.Update(true, Vec2{100, 100}); ok {
		t.Error("press should not tap")
	}
	tr.Update(true, Vec2{102, 101})
	p, ok := tr.Update(false, Vec2{102, 101})
	if !ok {
		t.Fatal("release within dead zone should tap")
	}
	if p != (Vec2{100, 100}) {
		t.Errorf("tap position = %+v, want press position", p)
	}
}

func TestTapTrackerDragIsNotTap(t *testing.T) {
	tr := TapTracker{DeadZone: 4}
	tr.Update(true, Vec2{0, 0})
	tr.Update(true, Vec2{20, 0})
	tr.Update(true, Vec2{1, 0})
	if _, ok := tr.Update(false, Vec2{1, 0}); ok {
		t.Error("drag should not report a tap")
	}
	// The next press starts fresh.
	tr.Update(true, Vec2{5, 5})
	if _, ok := tr.Update(false, Vec2{5, 5}); !ok {
		t.Error("tap after drag should report")
	}
}

func TestTapTrackerIdleRelease(t *testing.T) {
	var tr TapTracker
	if _, ok := tr.Update(false, Vec2{}); ok {
		t.Error("release without press should not tap")
	}
}
