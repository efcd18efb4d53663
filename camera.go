package lingolens

import "math"

const (
	defaultFOV  = 60 * math.Pi / 180
	defaultNear = 0.01
)

// Camera is the tracked device camera for one frame: a camera-to-world pose
// plus a pinhole projection into the viewport. The camera looks down its local
// −Z axis with +Y up, matching the usual AR session convention.
type Camera struct {
	// Transform is the camera-to-world pose.
	Transform Mat4
	// FOV is the vertical field of view in radians.
	FOV float64
	// Near is the closest depth, in metres, that still projects.
	Near float64
	// Viewport is the screen-space rectangle the camera image fills.
	Viewport Rect
}

// NewCamera creates a camera at the world origin looking down −Z.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Transform: Mat4Identity(),
		FOV:       defaultFOV,
		Near:      defaultNear,
		Viewport:  viewport,
	}
}

// Position returns the camera's world position.
func (c *Camera) Position() Vec3 {
	return c.Transform.Position()
}

// Forward returns the unit view direction in world space.
func (c *Camera) Forward() Vec3 {
	return c.Transform.Column(2).Scale(-1).Normalize()
}

// LookAt places the camera at eye facing target, keeping world up.
func (c *Camera) LookAt(eye, target Vec3) {
	back := eye.Sub(target).Normalize()
	if back == (Vec3{}) {
		return
	}
	right := WorldUp.Cross(back).Normalize()
	if right == (Vec3{}) {
		right = Vec3{1, 0, 0}
	}
	up := back.Cross(right)
	c.Transform = FromBasis(right, up, back, eye)
}

// focal returns the focal length in pixels.
func (c *Camera) focal() float64 {
	return (c.Viewport.Height / 2) / math.Tan(c.FOV/2)
}

// WorldToScreen projects a world point. depth is the distance along the view
// direction; ok is false for points behind the near plane.
func (c *Camera) WorldToScreen(p Vec3) (screen Vec2, depth float64, ok bool) {
	local := c.Transform.InvertRigid().MulPoint(p)
	depth = -local.Z
	if depth <= c.Near {
		return Vec2{}, depth, false
	}
	f := c.focal()
	center := c.Viewport.Center()
	screen = Vec2{
		X: center.X + f*local.X/depth,
		Y: center.Y - f*local.Y/depth,
	}
	return screen, depth, true
}

// ScreenRay unprojects a screen point into a world-space ray. dir is unit
// length.
func (c *Camera) ScreenRay(p Vec2) (origin, dir Vec3) {
	f := c.focal()
	center := c.Viewport.Center()
	local := Vec3{
		X: (p.X - center.X) / f,
		Y: -(p.Y - center.Y) / f,
		Z: -1,
	}
	return c.Position(), c.Transform.MulDir(local).Normalize()
}
