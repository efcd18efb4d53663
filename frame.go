package lingolens

import (
	"math"
	"sort"
)

// Plane is a detected surface of any orientation. Extent holds the
// half-sizes along the plane's local X and Y axes (see SurfaceTransform); a
// zero Extent is unbounded.
type Plane struct {
	Center Vec3
	Normal Vec3
	Extent Vec2
}

// NewHorizontalPlane creates an upward-facing plane with the given half
// extents along world X and Z.
func NewHorizontalPlane(center Vec3, halfX, halfZ float64) Plane {
	return Plane{Center: center, Normal: WorldUp, Extent: Vec2{halfX, halfZ}}
}

// NewVerticalPlane creates a wall facing along normal (projected onto the
// horizontal).
func NewVerticalPlane(center, normal Vec3, halfWidth, halfHeight float64) Plane {
	normal.Y = 0
	return Plane{Center: center, Normal: normal.Normalize(), Extent: Vec2{halfWidth, halfHeight}}
}

// intersect returns the hit point and ray parameter. bounded selects whether
// Extent is honored.
func (pl Plane) intersect(origin, dir Vec3, bounded bool) (Vec3, float64, bool) {
	n := pl.Normal.Normalize()
	denom := n.Dot(dir)
	if math.Abs(denom) < 1e-9 {
		return Vec3{}, 0, false
	}
	t := n.Dot(pl.Center.Sub(origin)) / denom
	if t <= 0 {
		return Vec3{}, 0, false
	}
	hit := origin.Add(dir.Scale(t))
	if bounded && pl.Extent != (Vec2{}) {
		basis := SurfaceTransform(pl.Center, n)
		rel := hit.Sub(pl.Center)
		if math.Abs(rel.Dot(basis.Column(0))) > pl.Extent.X ||
			math.Abs(rel.Dot(basis.Column(1))) > pl.Extent.Y {
			return Vec3{}, 0, false
		}
	}
	return hit, t, true
}

// Frame is an in-memory FrameContext: a camera pose plus whatever surfaces and
// feature points the simulated tracker has reconstructed so far.
type Frame struct {
	Cam             *Camera
	Planes          []Plane
	EstimatedPlanes []Plane
	Points          []Vec3
}

var _ FrameContext = (*Frame)(nil)

// RaycastPlanes intersects the bounded planes, nearest first.
func (f *Frame) RaycastPlanes(p Vec2) []RaycastHit {
	return f.raycast(p, f.Planes, true)
}

// RaycastEstimatedPlanes intersects estimated planes as infinite planes,
// nearest first.
func (f *Frame) RaycastEstimatedPlanes(p Vec2) []RaycastHit {
	return f.raycast(p, f.EstimatedPlanes, false)
}

// FeaturePoints returns the simulated point cloud.
func (f *Frame) FeaturePoints() []Vec3 {
	return f.Points
}

// Camera returns the frame camera.
func (f *Frame) Camera() (*Camera, bool) {
	return f.Cam, f.Cam != nil
}

func (f *Frame) raycast(p Vec2, planes []Plane, bounded bool) []RaycastHit {
	if f.Cam == nil || len(planes) == 0 {
		return nil
	}
	origin, dir := f.Cam.ScreenRay(p)
	var hits []RaycastHit
	for _, pl := range planes {
		hit, t, ok := pl.intersect(origin, dir, bounded)
		if !ok {
			continue
		}
		normal := pl.Normal.Normalize()
		if normal.Dot(dir) > 0 {
			normal = normal.Scale(-1)
		}
		hits = append(hits, RaycastHit{Transform: SurfaceTransform(hit, normal), Distance: t})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}
