package math

import "github.com/go-gl/mathgl/mgl32"

// Vec is a four-component float vector laid out as four consecutive float32
// values, matching the native library's vector struct.
type Vec [4]float32

var (
	VecZero  = Vec{0, 0, 0, 0}
	VecUp    = Vec{0, 1, 0, 0}
	VecRight = Vec{1, 0, 0, 0}
	VecFront = Vec{0, 0, 1, 0}
)

func NewVec(x, y, z, w float32) Vec {
	return Vec{x, y, z, w}
}

// Vec3 returns a direction vector (w = 0).
func Vec3(x, y, z float32) Vec {
	return Vec{x, y, z, 0}
}

// Point returns a position vector (w = 1).
func Point(x, y, z float32) Vec {
	return Vec{x, y, z, 1}
}

func (v Vec) X() float32 { return v[0] }
func (v Vec) Y() float32 { return v[1] }
func (v Vec) Z() float32 { return v[2] }
func (v Vec) W() float32 { return v[3] }

func (v Vec) Add(other Vec) Vec {
	return Vec(mgl32.Vec4(v).Add(mgl32.Vec4(other)))
}

func (v Vec) Sub(other Vec) Vec {
	return Vec(mgl32.Vec4(v).Sub(mgl32.Vec4(other)))
}

func (v Vec) Mul(scalar float32) Vec {
	return Vec(mgl32.Vec4(v).Mul(scalar))
}

func (v Vec) Dot(other Vec) float32 {
	return mgl32.Vec4(v).Dot(mgl32.Vec4(other))
}

// Cross computes the cross product of the xyz parts; w of the result is 0.
func (v Vec) Cross(other Vec) Vec {
	return fromVec3(v.xyz().Cross(other.xyz()), 0)
}

// Length is the length of the xyz part.
func (v Vec) Length() float32 {
	return v.xyz().Len()
}

// Norm normalises the xyz part and keeps w untouched.
func (v Vec) Norm() Vec {
	if v.Length() == 0 {
		return v
	}
	return fromVec3(v.xyz().Normalize(), v[3])
}

func (v Vec) Lerp(other Vec, t float32) Vec {
	return v.Add(other.Sub(v).Mul(t))
}

// ApproxEqual reports whether every component differs by less than Epsilon.
func (v Vec) ApproxEqual(other Vec) bool {
	for i := range v {
		if abs(v[i]-other[i]) >= Epsilon {
			return false
		}
	}
	return true
}

// Epsilon is the absolute tolerance of the ApproxEqual methods.
const Epsilon = 1e-4

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func (v Vec) xyz() mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}

func fromVec3(v mgl32.Vec3, w float32) Vec {
	return Vec{v[0], v[1], v[2], w}
}
