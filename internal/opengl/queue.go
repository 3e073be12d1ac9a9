package opengl

import (
	"renderlib/math"
	"renderlib/native"
)

// DefaultQueueSize is the queue capacity used when the config gives none.
const DefaultQueueSize = 1000

type meshCmd struct {
	mesh     *mesh
	props    native.MeshRenderProps
	light    *native.Light
	material *native.Material
	texture  *texture
	skin     []math.Mat
}

type textCmd struct {
	text  *text
	props native.TextRenderProps
}

type quadCmd struct {
	width, height float32
	props         native.QuadRenderProps
	texture       *texture
}

// renderQueue is the bounded list of draws recorded since the last present.
// Props are copied when a command is recorded; later changes to the
// caller's structs do not affect it.
type renderQueue struct {
	capacity int
	meshes   []meshCmd
	texts    []textCmd
	quads    []quadCmd
}

func newRenderQueue(capacity int) renderQueue {
	if capacity <= 0 {
		capacity = DefaultQueueSize
	}
	return renderQueue{capacity: capacity}
}

func (q *renderQueue) len() int {
	return len(q.meshes) + len(q.texts) + len(q.quads)
}

func (q *renderQueue) full() bool {
	return q.len() >= q.capacity
}

func (q *renderQueue) reset() {
	clear(q.meshes)
	clear(q.texts)
	clear(q.quads)
	q.meshes = q.meshes[:0]
	q.texts = q.texts[:0]
	q.quads = q.quads[:0]
}

func (l *Library) RenderMesh(h native.MeshHandle, props *native.MeshRenderProps) bool {
	m, ok := l.meshes.get(h)
	if !ok {
		l.log.Errorf("render mesh: unknown mesh %d", h)
		return false
	}
	if props == nil {
		l.log.Errorf("render mesh: nil props")
		return false
	}
	if l.queue.full() {
		l.log.Errorf("render mesh: render queue full (%d)", l.queue.capacity)
		return false
	}

	cmd := meshCmd{mesh: m, props: *props}
	cmd.props.Light, cmd.props.Material = nil, nil
	if props.Light != nil {
		light := *props.Light
		cmd.light = &light
	}
	if props.Material != nil {
		mat := *props.Material
		cmd.material = &mat
		if mat.Texture != 0 {
			t, ok := l.textures.get(mat.Texture)
			if !ok {
				l.log.Errorf("render mesh: unknown texture %d", mat.Texture)
				return false
			}
			cmd.texture = t
		}
	}
	if props.Animation != 0 {
		inst, ok := l.instances.get(props.Animation)
		if !ok {
			l.log.Errorf("render mesh: unknown animation instance %d", props.Animation)
			return false
		}
		if inst.anim.mesh != m {
			l.log.Errorf("render mesh: animation %q belongs to another mesh", inst.anim.data.Name)
			return false
		}
		cmd.skin = append([]math.Mat(nil), inst.player.SkinTransforms()...)
	}
	l.queue.meshes = append(l.queue.meshes, cmd)
	return true
}

func (l *Library) RenderText(h native.TextHandle, props *native.TextRenderProps) bool {
	t, ok := l.texts.get(h)
	if !ok {
		l.log.Errorf("render text: unknown text %d", h)
		return false
	}
	if props == nil {
		l.log.Errorf("render text: nil props")
		return false
	}
	if l.queue.full() {
		l.log.Errorf("render text: render queue full (%d)", l.queue.capacity)
		return false
	}
	l.queue.texts = append(l.queue.texts, textCmd{text: t, props: *props})
	return true
}

func (l *Library) RenderQuad(width, height float32, props *native.QuadRenderProps) bool {
	if width <= 0 || height <= 0 {
		l.log.Errorf("render quad: invalid size %vx%v", width, height)
		return false
	}
	if props == nil {
		l.log.Errorf("render quad: nil props")
		return false
	}
	if l.queue.full() {
		l.log.Errorf("render quad: render queue full (%d)", l.queue.capacity)
		return false
	}
	cmd := quadCmd{width: width, height: height, props: *props}
	if props.Texture != 0 {
		t, ok := l.textures.get(props.Texture)
		if !ok {
			l.log.Errorf("render quad: unknown texture %d", props.Texture)
			return false
		}
		cmd.texture = t
	}
	l.queue.quads = append(l.queue.quads, cmd)
	return true
}
