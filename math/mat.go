package math

import "github.com/go-gl/mathgl/mgl32"

// Mat is a 4x4 float matrix stored column-major as 16 consecutive float32
// values, the layout OpenGL and the native library expect.
type Mat [16]float32

func Identity() Mat {
	return Mat(mgl32.Ident4())
}

// At returns the element at row, col.
func (m Mat) At(row, col int) float32 {
	return m[col*4+row]
}

func (m Mat) Mul(other Mat) Mat {
	return Mat(mgl32.Mat4(m).Mul4(mgl32.Mat4(other)))
}

func (m Mat) MulVec(v Vec) Vec {
	return Vec(mgl32.Mat4(m).Mul4x1(mgl32.Vec4(v)))
}

func (m Mat) Transpose() Mat {
	return Mat(mgl32.Mat4(m).Transpose())
}

// Inverse returns the inverse of m, or the identity when m is singular.
func (m Mat) Inverse() Mat {
	if mgl32.Mat4(m).Det() == 0 {
		return Identity()
	}
	return Mat(mgl32.Mat4(m).Inv())
}

// ApproxEqual reports whether every element differs by less than Epsilon.
func (m Mat) ApproxEqual(other Mat) bool {
	for i := range m {
		if abs(m[i]-other[i]) >= Epsilon {
			return false
		}
	}
	return true
}

func Translation(t Vec) Mat {
	return Mat(mgl32.Translate3D(t[0], t[1], t[2]))
}

func Scaling(s Vec) Mat {
	return Mat(mgl32.Scale3D(s[0], s[1], s[2]))
}

// Rotation builds a rotation of angle radians around axis.
func Rotation(axis Vec, angle float32) Mat {
	return Mat(mgl32.HomogRotate3D(angle, axis.xyz().Normalize()))
}

// TRS composes translation * rotation * scale.
func TRS(t Vec, r Qtr, s Vec) Mat {
	return Translation(t).Mul(r.Mat()).Mul(Scaling(s))
}

func Ortho(left, right, bottom, top, near, far float32) Mat {
	return Mat(mgl32.Ortho(left, right, bottom, top, near, far))
}

func Perspective(fovY, aspect, near, far float32) Mat {
	return Mat(mgl32.Perspective(fovY, aspect, near, far))
}

func LookAt(eye, target, up Vec) Mat {
	return Mat(mgl32.LookAtV(eye.xyz(), target.xyz(), up.xyz()))
}
