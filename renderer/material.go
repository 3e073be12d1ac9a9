package renderer

import (
	"renderlib/math"
	"renderlib/native"
)

// Material describes a mesh surface. An attached texture is kept alive for as
// long as the material refers to it.
type Material struct {
	owned
	n       native.Material
	texture *Texture
	texRef  *handle
}

// NewMaterial returns an untextured white material that receives light.
func NewMaterial() *Material {
	m := &Material{n: native.Material{
		Color:             math.NewVec(1, 1, 1, 1),
		ReceiveLight:      1,
		SpecularIntensity: 0.5,
		SpecularPower:     32,
	}}
	m.h = newHandle(m.detachTexture)
	return m
}

// Texture returns the attached texture, or nil.
func (m *Material) Texture() *Texture { return m.texture }

// SetTexture attaches tex, or detaches the current texture when tex is nil.
// A closed material or texture is refused with ErrReleased.
func (m *Material) SetTexture(tex *Texture) error {
	if err := m.usable(); err != nil {
		return err
	}
	if tex == nil {
		m.detachTexture()
		return nil
	}
	if err := tex.usable(); err != nil {
		return err
	}
	borrow(&m.texRef, tex.h)
	m.texture = tex
	m.n.Texture = tex.native
	return nil
}

func (m *Material) detachTexture() {
	borrow(&m.texRef, nil)
	m.texture = nil
	m.n.Texture = 0
}

func (m *Material) Color() math.VecView { return math.ViewVec(&m.n.Color) }

func (m *Material) SetColor(v math.Vec) { m.n.Color = v }

// ReceiveLight reports whether lighting applies; any non-zero native value
// counts as true.
func (m *Material) ReceiveLight() bool { return native.Bool(m.n.ReceiveLight) }

func (m *Material) SetReceiveLight(b bool) { m.n.ReceiveLight = native.Int(b) }

func (m *Material) SpecularIntensity() float32 { return m.n.SpecularIntensity }

func (m *Material) SetSpecularIntensity(v float32) { m.n.SpecularIntensity = v }

func (m *Material) SpecularPower() float32 { return m.n.SpecularPower }

func (m *Material) SetSpecularPower(v float32) { m.n.SpecularPower = v }

func (m *Material) valid() error {
	if !m.h.alive() {
		return ErrReleased
	}
	if m.texRef != nil && !m.texRef.alive() {
		return ErrReleased
	}
	return nil
}
