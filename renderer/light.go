package renderer

import (
	"renderlib/math"
	"renderlib/native"
)

// Light is a directional light. Its fields live in a native-layout struct
// that render props point at directly.
type Light struct {
	owned
	n native.Light
}

// NewLight returns a white light with identity transform shining down -Z.
func NewLight() *Light {
	l := &Light{n: native.Light{
		Transform:        math.Identity(),
		Direction:        math.Vec3(0, 0, -1),
		Color:            math.NewVec(1, 1, 1, 1),
		AmbientIntensity: 0.1,
		DiffuseIntensity: 1,
	}}
	l.h = newHandle(nil)
	return l
}

// Transform is the light-space matrix used for shadow mapping.
func (l *Light) Transform() math.MatView { return math.ViewMat(&l.n.Transform) }

func (l *Light) SetTransform(m math.Mat) { l.n.Transform = m }

func (l *Light) Direction() math.VecView { return math.ViewVec(&l.n.Direction) }

func (l *Light) SetDirection(v math.Vec) { l.n.Direction = v }

func (l *Light) Color() math.VecView { return math.ViewVec(&l.n.Color) }

func (l *Light) SetColor(v math.Vec) { l.n.Color = v }

func (l *Light) AmbientIntensity() float32 { return l.n.AmbientIntensity }

func (l *Light) SetAmbientIntensity(v float32) { l.n.AmbientIntensity = v }

func (l *Light) DiffuseIntensity() float32 { return l.n.DiffuseIntensity }

func (l *Light) SetDiffuseIntensity(v float32) { l.n.DiffuseIntensity = v }
