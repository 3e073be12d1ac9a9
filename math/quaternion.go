package math

import "github.com/go-gl/mathgl/mgl32"

// Qtr is a rotation quaternion.
type Qtr struct {
	X, Y, Z, W float32
}

func QtrIdentity() Qtr {
	return Qtr{W: 1}
}

func QtrFromAxisAngle(axis Vec, angle float32) Qtr {
	return fromQuat(mgl32.QuatRotate(angle, axis.xyz().Normalize()))
}

func (q Qtr) Mul(other Qtr) Qtr {
	return fromQuat(q.quat().Mul(other.quat()))
}

func (q Qtr) Normalize() Qtr {
	return fromQuat(q.quat().Normalize())
}

// Slerp interpolates from q to other along the shortest arc.
func (q Qtr) Slerp(other Qtr, t float32) Qtr {
	a, b := q.quat(), other.quat()
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return fromQuat(mgl32.QuatSlerp(a, b, t))
}

func (q Qtr) Rotate(v Vec) Vec {
	return fromVec3(q.quat().Rotate(v.xyz()), v[3])
}

func (q Qtr) Mat() Mat {
	return Mat(q.quat().Mat4())
}

func (q Qtr) quat() mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

func fromQuat(q mgl32.Quat) Qtr {
	return Qtr{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}
