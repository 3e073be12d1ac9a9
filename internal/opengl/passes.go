package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"renderlib/math"
	"renderlib/native"
)

// One shadow map per frame, rendered from the light of the first queued
// shadow caster. Meshes lit by other lights receive no shadows.
func (l *Library) shadowPass() *native.Light {
	if l.shadows == nil {
		return nil
	}
	var light *native.Light
	for i := range l.queue.meshes {
		c := &l.queue.meshes[i]
		if native.Bool(c.props.CastShadows) && c.light != nil {
			light = c.light
			break
		}
	}
	if light == nil {
		return nil
	}

	l.shadows.begin()
	l.depthProg.use()
	for i := range l.queue.meshes {
		c := &l.queue.meshes[i]
		if !native.Bool(c.props.CastShadows) || c.mesh.freed {
			continue
		}
		gpu := c.mesh.ensureUploaded()
		if gpu == nil {
			continue
		}
		model := c.props.Model.Mul(c.mesh.data.Transform)
		l.depthProg.setMat("lightMVP", light.Transform.Mul(model))
		l.depthProg.setBool("skinned", c.skin != nil)
		l.depthProg.setMats("joints", c.skin)
		gpu.draw()
	}
	l.shadows.end(l.viewportW, l.viewportH)
	return light
}

func (l *Library) meshPass(shadowLight *native.Light) {
	if len(l.queue.meshes) == 0 {
		return
	}
	p := l.meshProg
	p.use()

	if shadowLight != nil {
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_2D, l.shadows.depth)
		p.setMat("lightViewProj", shadowLight.Transform)
	} else {
		p.setMat("lightViewProj", math.Identity())
	}

	defaultMat := native.Material{Color: math.NewVec(1, 1, 1, 1), ReceiveLight: 1}
	for i := range l.queue.meshes {
		c := &l.queue.meshes[i]
		if c.mesh.freed {
			continue
		}
		gpu := c.mesh.ensureUploaded()
		if gpu == nil {
			continue
		}

		model := c.props.Model.Mul(c.mesh.data.Transform)
		mvp := c.props.Projection.Mul(c.props.View).Mul(model)
		p.setMat("mvp", mvp)
		p.setMat("model", model)
		p.setVec3("eye", c.props.Eye)
		p.setBool("skinned", c.skin != nil)
		p.setMats("joints", c.skin)

		p.setBool("hasLight", c.light != nil)
		if c.light != nil {
			p.setVec3("lightDir", c.light.Direction.Norm())
			p.setVec3("lightColor", c.light.Color)
			p.setFloat("ambientIntensity", c.light.AmbientIntensity)
			p.setFloat("diffuseIntensity", c.light.DiffuseIntensity)
		}
		p.setBool("hasShadows", shadowLight != nil && c.light != nil && native.Bool(c.props.ReceiveShadows))

		mat := &defaultMat
		if c.material != nil {
			mat = c.material
		}
		p.setVec4("matColor", mat.Color)
		p.setBool("receiveLight", native.Bool(mat.ReceiveLight))
		p.setFloat("specularIntensity", mat.SpecularIntensity)
		p.setFloat("specularPower", mat.SpecularPower)

		gl.ActiveTexture(gl.TEXTURE0)
		p.setBool("hasTexture", l.bindTexture(c.texture))

		gpu.draw()
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// overlay modes, see overlayFragSrc
const (
	overlaySolid int32 = iota
	overlayTex2D
	overlayTexRect
	overlayCoverage
)

// overlayPass draws text then quads, blended, without depth testing.
func (l *Library) overlayPass() {
	if len(l.queue.texts) == 0 && len(l.queue.quads) == 0 {
		return
	}
	p := l.overlay
	p.use()
	gl.BindVertexArray(l.overlayVAO)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	for i := range l.queue.texts {
		c := &l.queue.texts[i]
		t := c.text
		if t.freed || t.layout.Width == 0 {
			continue
		}
		if t.dirty {
			t.tex = uploadCoverage(t.tex, t.bitmap)
			t.dirty = false
		}
		w, h := float32(t.layout.Width), float32(t.layout.Height)
		p.setMat("mvp", c.props.Projection.Mul(c.props.View).Mul(c.props.Model))
		p.setVec2("size", w, h)
		p.setVec2("texSize", w, h)
		p.setVec4("border", math.Vec{})
		p.setBool("normalized", true)
		p.setVec4("color", c.props.Color)
		p.setFloat("opacity", c.props.Opacity)
		p.setInt("mode", overlayCoverage)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, t.tex)
		gl.DrawArrays(gl.TRIANGLES, 0, overlayVertexCount)
	}

	for i := range l.queue.quads {
		c := &l.queue.quads[i]
		b := c.props.Borders
		p.setMat("mvp", c.props.Projection.Mul(c.props.View).Mul(c.props.Model))
		p.setVec2("size", c.width, c.height)
		p.setVec4("border", math.NewVec(b.Left, b.Right, b.Top, b.Bottom))
		p.setVec4("color", c.props.Color)
		p.setFloat("opacity", c.props.Opacity)

		mode := overlaySolid
		tw, th := c.width, c.height
		if c.texture != nil {
			if c.texture.target == native.TextureRectangle {
				gl.ActiveTexture(gl.TEXTURE1)
			} else {
				gl.ActiveTexture(gl.TEXTURE0)
			}
			if l.bindTexture(c.texture) {
				mode = overlayTex2D
				if c.texture.target == native.TextureRectangle {
					mode = overlayTexRect
				}
				tw, th = float32(c.texture.width), float32(c.texture.height)
			}
		}
		p.setVec2("texSize", tw, th)
		p.setBool("normalized", mode != overlayTexRect)
		p.setInt("mode", mode)
		gl.DrawArrays(gl.TRIANGLES, 0, overlayVertexCount)
	}

	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_RECTANGLE, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
	gl.BindVertexArray(0)
}
