package lingolens

import (
	"math"
	"testing"
)

// fakeFrame is a scripted FrameContext that records which queries ran.
type fakeFrame struct {
	cam       *Camera
	planes    []RaycastHit
	estimated []RaycastHit
	points    []Vec3

	planeCalls, estimatedCalls, pointCalls int
}

func (f *fakeFrame) RaycastPlanes(Vec2) []RaycastHit {
	f.planeCalls++
	return f.planes
}

func (f *fakeFrame) RaycastEstimatedPlanes(Vec2) []RaycastHit {
	f.estimatedCalls++
	return f.estimated
}

func (f *fakeFrame) FeaturePoints() []Vec3 {
	f.pointCalls++
	return f.points
}

func (f *fakeFrame) Camera() (*Camera, bool) {
	return f.cam, f.cam != nil
}

func hitAt(p Vec3, dist float64) RaycastHit {
	return RaycastHit{Transform: Translation(p), Distance: dist}
}

func TestResolvePlaneHitWins(t *testing.T) {
	f := &fakeFrame{
		cam:       testCamera(),
		planes:    []RaycastHit{hitAt(Vec3{0, 0, -2}, 2), hitAt(Vec3{0, 0, -4}, 4)},
		estimated: []RaycastHit{hitAt(Vec3{0, 0, -1}, 1)},
		points:    []Vec3{{0, 0, -0.5}},
	}
	out := DefaultResolver(RaycastOptions{}).Resolve(Vec2{400, 300}, f)
	if out.Kind != OutcomePlaneHit {
		t.Fatalf("Kind = %v, want plane", out.Kind)
	}
	assertVec(t, "position", out.Transform.Position(), Vec3{0, 0, -2})
	if f.estimatedCalls != 0 || f.pointCalls != 0 {
		t.Error("lower tiers must not run after a plane hit")
	}
}

func TestResolveEstimatedPlane(t *testing.T) {
	f := &fakeFrame{
		cam:       testCamera(),
		estimated: []RaycastHit{hitAt(Vec3{0, 0, -3}, 3)},
		points:    []Vec3{{0, 0, -1}},
	}
	out := DefaultResolver(RaycastOptions{}).Resolve(Vec2{400, 300}, f)
	if out.Kind != OutcomeEstimatedPlaneHit {
		t.Fatalf("Kind = %v, want estimated_plane", out.Kind)
	}
	// A nearer feature point does not override a higher tier.
	assertVec(t, "position", out.Transform.Position(), Vec3{0, 0, -3})
	if f.pointCalls != 0 {
		t.Error("feature points must not be queried after an estimated plane hit")
	}
}

func TestResolveFeaturePointsWithoutPlanes(t *testing.T) {
	cam := testCamera()
	f := &fakeFrame{
		cam: cam,
		points: []Vec3{
			{0.05, 0.02, -2},   // near the target
			{1.5, 1, -2},       // far off to the side
			{-0.3, -0.2, -1.5}, // within tolerance but farther on screen
		},
	}
	out := DefaultResolver(RaycastOptions{}).Resolve(Vec2{400, 300}, f)
	if out.Kind != OutcomeFeaturePointHit {
		t.Fatalf("Kind = %v, want feature_point", out.Kind)
	}
	assertVec(t, "point", out.Point, Vec3{0.05, 0.02, -2})
	assertVec(t, "position", out.Transform.Position(), out.Point)

	// Oriented toward the camera, upright.
	z := out.Transform.Column(2)
	toCam := cam.Position().Sub(out.Point)
	toCam.Y = 0
	assertVec(t, "facing", z, toCam.Normalize())
	assertVec(t, "up", out.Transform.Column(1), WorldUp)
}

func TestResolveFeaturePointTolerance(t *testing.T) {
	cam := testCamera()
	// 800 px wide viewport: tolerance is 80 px. This point projects ~150 px
	// right of center.
	f := &fakeFrame{cam: cam, points: []Vec3{{0.6, 0, -2}}}
	sp, _, _ := cam.WorldToScreen(f.points[0])
	if math.Abs(sp.X-400) < 100 {
		t.Fatalf("test point too close: %v", sp)
	}
	out := DefaultResolver(RaycastOptions{}).Resolve(Vec2{400, 300}, f)
	if out.Kind != OutcomeProjectedEstimate {
		t.Fatalf("Kind = %v, want projected", out.Kind)
	}

	out = DefaultResolver(RaycastOptions{FeatureTolerance: 0.5}).Resolve(Vec2{400, 300}, f)
	if out.Kind != OutcomeFeaturePointHit {
		t.Fatalf("Kind with wide tolerance = %v, want feature_point", out.Kind)
	}
}

func TestResolveFeaturePointTieBreaksOnDepth(t *testing.T) {
	cam := testCamera()
	// Both points project exactly onto the screen center.
	f := &fakeFrame{cam: cam, points: []Vec3{{0, 0, -5}, {0, 0, -1}}}
	out := DefaultResolver(RaycastOptions{}).Resolve(Vec2{400, 300}, f)
	if out.Kind != OutcomeFeaturePointHit {
		t.Fatalf("Kind = %v", out.Kind)
	}
	assertVec(t, "point", out.Point, Vec3{0, 0, -1})
}

func TestResolveIgnoresPointsBehindCamera(t *testing.T) {
	f := &fakeFrame{cam: testCamera(), points: []Vec3{{0, 0, 2}}}
	out := DefaultResolver(RaycastOptions{}).Resolve(Vec2{400, 300}, f)
	if out.Kind != OutcomeProjectedEstimate {
		t.Fatalf("Kind = %v, want projected", out.Kind)
	}
}

func TestResolveProjectedEstimate(t *testing.T) {
	cam := testCamera()
	cam.LookAt(Vec3{1, 1.5, 0}, Vec3{1, 1.5, -10})
	f := &fakeFrame{cam: cam}
	out := DefaultResolver(RaycastOptions{}).Resolve(Vec2{10, 10}, f)
	if out.Kind != OutcomeProjectedEstimate {
		t.Fatalf("Kind = %v, want projected", out.Kind)
	}
	assertVec(t, "position", out.Transform.Position(), Vec3{1, 1.5, -0.5})
	assertVec(t, "facing", out.Transform.Column(2), Vec3{0, 0, 1})

	out = DefaultResolver(RaycastOptions{ProjectedDistance: 2}).Resolve(Vec2{}, f)
	assertVec(t, "position at 2m", out.Transform.Position(), Vec3{1, 1.5, -2})
}

func TestResolveNoCameraFails(t *testing.T) {
	f := &fakeFrame{points: []Vec3{{0, 0, -1}}}
	out := DefaultResolver(RaycastOptions{}).Resolve(Vec2{}, f)
	if out.Kind != OutcomeFailed || out.OK() {
		t.Fatalf("Kind = %v, want failed", out.Kind)
	}
	if out.Transform != (Mat4{}) {
		t.Error("failed outcome should carry the zero transform")
	}
}

func TestResolveNilFrame(t *testing.T) {
	if out := DefaultResolver(RaycastOptions{}).Resolve(Vec2{}, nil); out.Kind != OutcomeFailed {
		t.Fatalf("Kind = %v, want failed", out.Kind)
	}
}

func TestResolverCustomStrategies(t *testing.T) {
	var order []string
	tier := func(name string, ok bool) Strategy {
		return StrategyFunc(func(Vec2, FrameContext) (RaycastOutcome, bool) {
			order = append(order, name)
			return RaycastOutcome{Kind: OutcomePlaneHit}, ok
		})
	}
	r := NewResolver(tier("a", false), tier("b", true), tier("c", true))
	if out := r.Resolve(Vec2{}, &fakeFrame{}); out.Kind != OutcomePlaneHit {
		t.Fatalf("Kind = %v", out.Kind)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("evaluation order = %v, want [a b]", order)
	}
	if len(r.Strategies()) != 3 {
		t.Errorf("Strategies len = %d", len(r.Strategies()))
	}

	if out := NewResolver().Resolve(Vec2{}, &fakeFrame{}); out.Kind != OutcomeFailed {
		t.Errorf("empty resolver Kind = %v, want failed", out.Kind)
	}
}

func TestOutcomeKindString(t *testing.T) {
	tests := map[OutcomeKind]string{
		OutcomeFailed:            "failed",
		OutcomePlaneHit:          "plane",
		OutcomeEstimatedPlaneHit: "estimated_plane",
		OutcomeFeaturePointHit:   "feature_point",
		OutcomeProjectedEstimate: "projected",
		OutcomeKind(42):          "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
