package renderer

import (
	"renderlib/math"
	"renderlib/native"
)

// MeshRenderProps collects the parameters of one RenderMesh call. The light,
// material and animation instance it refers to are kept alive until they are
// replaced or the props are closed.
type MeshRenderProps struct {
	owned
	n native.MeshRenderProps

	light    *Light
	material *Material
	anim     *AnimationInstance

	lightRef, materialRef, animRef *handle
}

// NewMeshRenderProps returns props with identity transforms, shadows off and
// no light, material or animation.
func NewMeshRenderProps() *MeshRenderProps {
	p := &MeshRenderProps{n: native.MeshRenderProps{
		Eye:        math.Point(0, 0, 0),
		Model:      math.Identity(),
		View:       math.Identity(),
		Projection: math.Identity(),
	}}
	p.h = newHandle(func() {
		p.detachLight()
		p.detachMaterial()
		p.detachAnimation()
	})
	return p
}

func (p *MeshRenderProps) Eye() math.VecView { return math.ViewVec(&p.n.Eye) }

func (p *MeshRenderProps) SetEye(v math.Vec) { p.n.Eye = v }

func (p *MeshRenderProps) Model() math.MatView { return math.ViewMat(&p.n.Model) }

func (p *MeshRenderProps) SetModel(m math.Mat) { p.n.Model = m }

func (p *MeshRenderProps) View() math.MatView { return math.ViewMat(&p.n.View) }

func (p *MeshRenderProps) SetView(m math.Mat) { p.n.View = m }

func (p *MeshRenderProps) Projection() math.MatView { return math.ViewMat(&p.n.Projection) }

func (p *MeshRenderProps) SetProjection(m math.Mat) { p.n.Projection = m }

func (p *MeshRenderProps) CastShadows() bool { return native.Bool(p.n.CastShadows) }

func (p *MeshRenderProps) SetCastShadows(b bool) { p.n.CastShadows = native.Int(b) }

func (p *MeshRenderProps) ReceiveShadows() bool { return native.Bool(p.n.ReceiveShadows) }

func (p *MeshRenderProps) SetReceiveShadows(b bool) { p.n.ReceiveShadows = native.Int(b) }

func (p *MeshRenderProps) Light() *Light { return p.light }

// SetLight attaches l; nil disables lighting and shadows.
func (p *MeshRenderProps) SetLight(l *Light) error {
	if err := p.usable(); err != nil {
		return err
	}
	if l == nil {
		p.detachLight()
		return nil
	}
	if err := l.usable(); err != nil {
		return err
	}
	borrow(&p.lightRef, l.h)
	p.light, p.n.Light = l, &l.n
	return nil
}

func (p *MeshRenderProps) detachLight() {
	borrow(&p.lightRef, nil)
	p.light, p.n.Light = nil, nil
}

func (p *MeshRenderProps) Material() *Material { return p.material }

// SetMaterial attaches m; nil draws with the library's default material.
func (p *MeshRenderProps) SetMaterial(m *Material) error {
	if err := p.usable(); err != nil {
		return err
	}
	if m == nil {
		p.detachMaterial()
		return nil
	}
	if err := m.usable(); err != nil {
		return err
	}
	borrow(&p.materialRef, m.h)
	p.material, p.n.Material = m, &m.n
	return nil
}

func (p *MeshRenderProps) detachMaterial() {
	borrow(&p.materialRef, nil)
	p.material, p.n.Material = nil, nil
}

func (p *MeshRenderProps) Animation() *AnimationInstance { return p.anim }

// SetAnimation attaches a playback cursor; nil draws the bind pose.
func (p *MeshRenderProps) SetAnimation(inst *AnimationInstance) error {
	if err := p.usable(); err != nil {
		return err
	}
	if inst == nil {
		p.detachAnimation()
		return nil
	}
	if err := inst.usable(); err != nil {
		return err
	}
	borrow(&p.animRef, inst.h)
	p.anim, p.n.Animation = inst, inst.native
	return nil
}

func (p *MeshRenderProps) detachAnimation() {
	borrow(&p.animRef, nil)
	p.anim, p.n.Animation = nil, 0
}

// validate checks that the props and everything they borrow still exist.
func (p *MeshRenderProps) validate() error {
	if err := p.usable(); err != nil {
		return err
	}
	if p.lightRef != nil && !p.lightRef.alive() {
		return ErrReleased
	}
	if p.material != nil {
		if err := p.material.valid(); err != nil {
			return err
		}
	}
	if p.anim != nil && (!p.animRef.alive() || !p.anim.mesh.alive()) {
		return ErrReleased
	}
	return nil
}

// TextRenderProps collects the parameters of one RenderText call.
type TextRenderProps struct {
	owned
	n native.TextRenderProps
}

// NewTextRenderProps returns opaque white props with identity transforms.
func NewTextRenderProps() *TextRenderProps {
	p := &TextRenderProps{n: native.TextRenderProps{
		Model:      math.Identity(),
		View:       math.Identity(),
		Projection: math.Identity(),
		Color:      math.NewVec(1, 1, 1, 1),
		Opacity:    1,
	}}
	p.h = newHandle(nil)
	return p
}

func (p *TextRenderProps) Model() math.MatView { return math.ViewMat(&p.n.Model) }

func (p *TextRenderProps) SetModel(m math.Mat) { p.n.Model = m }

func (p *TextRenderProps) View() math.MatView { return math.ViewMat(&p.n.View) }

func (p *TextRenderProps) SetView(m math.Mat) { p.n.View = m }

func (p *TextRenderProps) Projection() math.MatView { return math.ViewMat(&p.n.Projection) }

func (p *TextRenderProps) SetProjection(m math.Mat) { p.n.Projection = m }

func (p *TextRenderProps) Color() math.VecView { return math.ViewVec(&p.n.Color) }

func (p *TextRenderProps) SetColor(v math.Vec) { p.n.Color = v }

func (p *TextRenderProps) Opacity() float32 { return p.n.Opacity }

func (p *TextRenderProps) SetOpacity(v float32) { p.n.Opacity = v }

// QuadRenderProps collects the parameters of one RenderQuad call. A textured
// quad keeps its texture alive.
type QuadRenderProps struct {
	owned
	n       native.QuadRenderProps
	texture *Texture
	texRef  *handle
}

// NewQuadRenderProps returns opaque white untextured props.
func NewQuadRenderProps() *QuadRenderProps {
	p := &QuadRenderProps{n: native.QuadRenderProps{
		Model:      math.Identity(),
		View:       math.Identity(),
		Projection: math.Identity(),
		Color:      math.NewVec(1, 1, 1, 1),
		Opacity:    1,
	}}
	p.h = newHandle(p.detachTexture)
	return p
}

func (p *QuadRenderProps) Model() math.MatView { return math.ViewMat(&p.n.Model) }

func (p *QuadRenderProps) SetModel(m math.Mat) { p.n.Model = m }

func (p *QuadRenderProps) View() math.MatView { return math.ViewMat(&p.n.View) }

func (p *QuadRenderProps) SetView(m math.Mat) { p.n.View = m }

func (p *QuadRenderProps) Projection() math.MatView { return math.ViewMat(&p.n.Projection) }

func (p *QuadRenderProps) SetProjection(m math.Mat) { p.n.Projection = m }

func (p *QuadRenderProps) Color() math.VecView { return math.ViewVec(&p.n.Color) }

func (p *QuadRenderProps) SetColor(v math.Vec) { p.n.Color = v }

func (p *QuadRenderProps) Opacity() float32 { return p.n.Opacity }

func (p *QuadRenderProps) SetOpacity(v float32) { p.n.Opacity = v }

func (p *QuadRenderProps) Borders() native.Borders { return p.n.Borders }

// SetBorders sets the nine-slice borders in texels. Zero borders stretch the
// whole texture.
func (p *QuadRenderProps) SetBorders(b native.Borders) { p.n.Borders = b }

func (p *QuadRenderProps) Texture() *Texture { return p.texture }

// SetTexture attaches tex; nil draws a solid color quad.
func (p *QuadRenderProps) SetTexture(tex *Texture) error {
	if err := p.usable(); err != nil {
		return err
	}
	if tex == nil {
		p.detachTexture()
		return nil
	}
	if err := tex.usable(); err != nil {
		return err
	}
	borrow(&p.texRef, tex.h)
	p.texture, p.n.Texture = tex, tex.native
	return nil
}

func (p *QuadRenderProps) detachTexture() {
	borrow(&p.texRef, nil)
	p.texture, p.n.Texture = nil, 0
}

func (p *QuadRenderProps) validate() error {
	if err := p.usable(); err != nil {
		return err
	}
	if p.texRef != nil && !p.texRef.alive() {
		return ErrReleased
	}
	return nil
}
