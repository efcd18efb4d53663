package lingolens

import "testing"

func roomFrame() *Frame {
	cam := testCamera()
	cam.LookAt(Vec3{0, 1.5, 2}, Vec3{0, 1.5, -3})
	return &Frame{
		Cam: cam,
		Planes: []Plane{
			NewVerticalPlane(Vec3{0, 1.5, -3}, Vec3{0, 0, 1}, 2, 1.5),
			NewHorizontalPlane(Vec3{0, 0, 0}, 3, 3),
		},
	}
}

func TestFrameRaycastWall(t *testing.T) {
	f := roomFrame()
	hits := f.RaycastPlanes(Vec2{400, 300})
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1 (wall only)", len(hits))
	}
	assertVec(t, "position", hits[0].Transform.Position(), Vec3{0, 1.5, -3})
	assertNear(t, "distance", hits[0].Distance, 5)
	assertVec(t, "normal", hits[0].Transform.Column(2), Vec3{0, 0, 1})
}

func TestFrameRaycastAnyOrientation(t *testing.T) {
	// A ramp is neither floor nor wall; plane queries still report it.
	ramp := Plane{Center: Vec3{0, 0, -2}, Normal: Vec3{0, 1, 1}, Extent: Vec2{1, 1}}
	f := &Frame{Cam: testCamera(), Planes: []Plane{ramp}}
	hits := f.RaycastPlanes(Vec2{400, 300})
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	assertVec(t, "position", hits[0].Transform.Position(), Vec3{0, 0, -2})
	assertNear(t, "distance", hits[0].Distance, 2)
	assertVec(t, "normal", hits[0].Transform.Column(2), Vec3{0, 1, 1}.Normalize())
}

func TestFrameRaycastSortedNearestFirst(t *testing.T) {
	f := roomFrame()
	// Looking well below center: the ray meets the floor before the wall.
	hits := f.RaycastPlanes(Vec2{400, 590})
	if len(hits) == 0 {
		t.Fatal("expected a floor hit")
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Fatalf("hits not sorted: %v then %v", hits[i-1].Distance, hits[i].Distance)
		}
	}
	assertNear(t, "floor y", hits[0].Transform.Position().Y, 0)
	assertVec(t, "floor normal", hits[0].Transform.Column(2), WorldUp)
}

func TestFrameRaycastBoundedExtent(t *testing.T) {
	cam := testCamera()
	f := &Frame{
		Cam:    cam,
		Planes: []Plane{NewVerticalPlane(Vec3{0, 0, -2}, Vec3{0, 0, 1}, 0.1, 0.1)},
	}
	if hits := f.RaycastPlanes(Vec2{400, 300}); len(hits) != 1 {
		t.Fatalf("center ray should hit the small plane, got %d hits", len(hits))
	}
	if hits := f.RaycastPlanes(Vec2{700, 300}); len(hits) != 0 {
		t.Fatalf("off-center ray should miss the small plane, got %d hits", len(hits))
	}
	// Estimated planes are treated as unbounded.
	f.EstimatedPlanes, f.Planes = f.Planes, nil
	if hits := f.RaycastEstimatedPlanes(Vec2{700, 300}); len(hits) != 1 {
		t.Fatalf("estimated plane should be unbounded, got %d hits", len(hits))
	}
}

func TestFrameRaycastNormalFacesRay(t *testing.T) {
	cam := testCamera()
	// Wall normal points away from the camera; the hit must flip it.
	f := &Frame{Cam: cam, Planes: []Plane{NewVerticalPlane(Vec3{0, 0, -2}, Vec3{0, 0, -1}, 1, 1)}}
	hits := f.RaycastPlanes(Vec2{400, 300})
	if len(hits) != 1 {
		t.Fatalf("hits = %d", len(hits))
	}
	assertVec(t, "normal", hits[0].Transform.Column(2), Vec3{0, 0, 1})
}

func TestFrameRaycastParallelAndBehind(t *testing.T) {
	cam := testCamera()
	f := &Frame{Cam: cam, Planes: []Plane{
		NewHorizontalPlane(Vec3{0, 0, 0}, 0, 0),              // contains the ray: parallel
		NewVerticalPlane(Vec3{0, 0, 3}, Vec3{0, 0, 1}, 0, 0), // behind the camera
	}}
	if hits := f.RaycastPlanes(Vec2{400, 300}); len(hits) != 0 {
		t.Fatalf("hits = %d, want 0", len(hits))
	}
}

func TestFrameWithoutCamera(t *testing.T) {
	f := &Frame{Planes: []Plane{NewHorizontalPlane(Vec3{}, 1, 1)}}
	if hits := f.RaycastPlanes(Vec2{}); hits != nil {
		t.Error("no camera should mean no hits")
	}
	if _, ok := f.Camera(); ok {
		t.Error("Camera() ok = true without a camera")
	}
}

func TestFrameResolveFeaturePointsOnly(t *testing.T) {
	f := roomFrame()
	f.Planes = nil
	f.Points = []Vec3{{0.02, 1.48, -1}, {2, 0.5, -2}}
	out := DefaultResolver(RaycastOptions{}).Resolve(Vec2{400, 300}, f)
	if out.Kind != OutcomeFeaturePointHit {
		t.Fatalf("Kind = %v, want feature_point", out.Kind)
	}
	assertVec(t, "point", out.Point, Vec3{0.02, 1.48, -1})
}
