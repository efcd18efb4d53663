package lingolens

import "math"

// Vec3 is a world-space position or direction in metres. +Y is up.
type Vec3 struct {
	X, Y, Z float64
}

// WorldUp is the gravity-aligned up axis used by the yaw billboard.
var WorldUp = Vec3{0, 1, 0}

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) Len() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
}

// Normalize returns the unit vector in the direction of a, or the zero vector
// when a is (nearly) zero.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return Vec3{a.X / l, a.Y / l, a.Z / l}
}

// Mat4 is a 4x4 affine matrix stored row-major. Columns 0..2 hold the local
// X, Y and Z axes, column 3 holds the translation.
//
//	| m0  m1  m2  m3  |
//	| m4  m5  m6  m7  |
//	| m8  m9  m10 m11 |
//	| 0   0   0   1   |
type Mat4 [16]float64

// Mat4Identity returns the identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a pure translation matrix.
func Translation(v Vec3) Mat4 {
	m := Mat4Identity()
	m[3], m[7], m[11] = v.X, v.Y, v.Z
	return m
}

// Scaling returns a uniform scale matrix.
func Scaling(s float64) Mat4 {
	m := Mat4Identity()
	m[0], m[5], m[10] = s, s, s
	return m
}

// RotationY returns a rotation of yaw radians about +Y. Local +Z maps to
// (sin yaw, 0, cos yaw).
func RotationY(yaw float64) Mat4 {
	sin, cos := math.Sincos(yaw)
	return Mat4{
		cos, 0, sin, 0,
		0, 1, 0, 0,
		-sin, 0, cos, 0,
		0, 0, 0, 1,
	}
}

// FromBasis builds a matrix from three axis vectors and a translation.
func FromBasis(x, y, z, pos Vec3) Mat4 {
	return Mat4{
		x.X, y.X, z.X, pos.X,
		x.Y, y.Y, z.Y, pos.Y,
		x.Z, y.Z, z.Z, pos.Z,
		0, 0, 0, 1,
	}
}

// Mul returns m × o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			r[row*4+col] = m[row*4+0]*o[0*4+col] + m[row*4+1]*o[1*4+col] +
				m[row*4+2]*o[2*4+col] + m[row*4+3]*o[3*4+col]
		}
	}
	return r
}

// MulPoint transforms a point (w=1).
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3],
		m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7],
		m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11],
	}
}

// MulDir transforms a direction (w=0).
func (m Mat4) MulDir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		m[4]*v.X + m[5]*v.Y + m[6]*v.Z,
		m[8]*v.X + m[9]*v.Y + m[10]*v.Z,
	}
}

// Column returns column i (0..3) as a vector.
func (m Mat4) Column(i int) Vec3 {
	return Vec3{m[i], m[4+i], m[8+i]}
}

// Position returns the translation component.
func (m Mat4) Position() Vec3 {
	return m.Column(3)
}

// WithPosition returns a copy of m with its translation replaced.
func (m Mat4) WithPosition(p Vec3) Mat4 {
	m[3], m[7], m[11] = p.X, p.Y, p.Z
	return m
}

// InvertRigid inverts a rotation+translation matrix. The result is undefined
// for matrices carrying scale or shear.
func (m Mat4) InvertRigid() Mat4 {
	t := m.Position()
	r := Mat4{
		m[0], m[4], m[8], 0,
		m[1], m[5], m[9], 0,
		m[2], m[6], m[10], 0,
		0, 0, 0, 1,
	}
	inv := r.MulDir(t)
	r[3], r[7], r[11] = -inv.X, -inv.Y, -inv.Z
	return r
}

// ApproxEqual reports whether every element of m and o differs by at most eps.
func (m Mat4) ApproxEqual(o Mat4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}

// FacingTransform returns a transform at pos rotated about world up only so
// that its local +Z points horizontally toward target.
func FacingTransform(pos, target Vec3) Mat4 {
	d := target.Sub(pos)
	yaw := math.Atan2(d.X, d.Z)
	return RotationY(yaw).WithPosition(pos)
}

// SurfaceTransform returns a transform at pos whose local +Z is normal and
// whose local +Y is as close to world up as the surface allows.
func SurfaceTransform(pos, normal Vec3) Mat4 {
	z := normal.Normalize()
	if z == (Vec3{}) {
		return Translation(pos)
	}
	x := WorldUp.Cross(z).Normalize()
	if x == (Vec3{}) {
		// Horizontal surface: pick world +X as the reference axis.
		x = Vec3{1, 0, 0}
	}
	y := z.Cross(x)
	return FromBasis(x, y, z, pos)
}
