// Package opengl implements native.Library on OpenGL 4.1 core.
//
// Resources are decoded on the CPU when they are created and uploaded to the
// GPU the first time a frame draws them, so they can be loaded before Init.
// Render calls only record commands; Present runs the shadow, mesh and
// overlay passes over the recorded queue, swaps and empties it.
package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"renderlib/config"
	"renderlib/internal/logger"
	"renderlib/native"
)

// Surface is the window the library presents into. *core.Window is one.
type Surface interface {
	SwapBuffers()
	GetFramebufferSize() (int, int)
}

// registry maps handles of one kind to their objects. All registries of a
// Library share one counter so a handle never names two objects.
type registry[H ~uintptr, T any] struct {
	next  *uintptr
	items map[H]T
}

func newRegistry[H ~uintptr, T any](next *uintptr) registry[H, T] {
	return registry[H, T]{next: next, items: make(map[H]T)}
}

func (r *registry[H, T]) add(v T) H {
	*r.next++
	h := H(*r.next)
	r.items[h] = v
	return h
}

func (r *registry[H, T]) get(h H) (T, bool) {
	v, ok := r.items[h]
	return v, ok
}

func (r *registry[H, T]) remove(h H) (T, bool) {
	v, ok := r.items[h]
	if ok {
		delete(r.items, h)
	}
	return v, ok
}

func (r *registry[H, T]) len() int { return len(r.items) }

// Library is the OpenGL backend. It is not safe for concurrent use.
type Library struct {
	surface Surface
	cfg     config.RendererConfig
	log     *logger.Logger

	next       uintptr
	meshes     registry[native.MeshHandle, *mesh]
	animations registry[native.AnimationHandle, *animation]
	instances  registry[native.AnimationInstanceHandle, *instance]
	fonts      registry[native.FontHandle, *font]
	images     registry[native.ImageHandle, *imageRes]
	textures   registry[native.TextureHandle, *texture]
	texts      registry[native.TextHandle, *text]

	queue renderQueue

	ready      bool
	maxTexSize int
	meshProg   *program
	depthProg  *program
	overlay    *program
	overlayVAO uint32
	shadows    *shadowMap
	viewportW  int32
	viewportH  int32
}

var _ native.Library = (*Library)(nil)

// New returns a library presenting into surface. The surface's GL context
// must be current on the calling thread before Init.
func New(surface Surface, cfg config.RendererConfig, log *logger.Logger) *Library {
	if log == nil {
		log = logger.Discard()
	}
	l := &Library{
		surface: surface,
		cfg:     cfg,
		log:     log,
		queue:   newRenderQueue(cfg.RenderQueueSize),
	}
	l.meshes = newRegistry[native.MeshHandle, *mesh](&l.next)
	l.animations = newRegistry[native.AnimationHandle, *animation](&l.next)
	l.instances = newRegistry[native.AnimationInstanceHandle, *instance](&l.next)
	l.fonts = newRegistry[native.FontHandle, *font](&l.next)
	l.images = newRegistry[native.ImageHandle, *imageRes](&l.next)
	l.textures = newRegistry[native.TextureHandle, *texture](&l.next)
	l.texts = newRegistry[native.TextHandle, *text](&l.next)
	return l
}

func (l *Library) Init() bool {
	if l.ready {
		l.log.Warnf("init: already initialised")
		return false
	}
	if err := l.init(); err != nil {
		l.log.Errorf("init: %v", err)
		l.release()
		return false
	}
	l.ready = true
	return true
}

func (l *Library) init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	l.log.Infof("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))
	l.log.Debugf("GLSL version: %s", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)))

	var maxTex int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxTex)
	l.maxTexSize = int(maxTex)

	var err error
	l.meshProg, err = newProgram(meshVertSrc, meshFragSrc,
		"mvp", "model", "lightViewProj", "skinned", "joints",
		"eye", "hasLight", "lightDir", "lightColor", "ambientIntensity", "diffuseIntensity",
		"matColor", "receiveLight", "specularIntensity", "specularPower",
		"albedoTex", "hasTexture", "shadowMap", "hasShadows")
	if err != nil {
		return fmt.Errorf("mesh shader compile: %w", err)
	}
	l.depthProg, err = newProgram(depthVertSrc, depthFragSrc, "lightMVP", "skinned", "joints")
	if err != nil {
		return fmt.Errorf("depth shader compile: %w", err)
	}
	l.overlay, err = newProgram(overlayVertSrc, overlayFragSrc,
		"mvp", "size", "texSize", "border", "normalized",
		"color", "opacity", "mode", "tex2D", "texRect")
	if err != nil {
		return fmt.Errorf("overlay shader compile: %w", err)
	}

	// Texture units: albedo/tex2D = 0, shadow/texRect = 1.
	l.meshProg.use()
	l.meshProg.setInt("albedoTex", 0)
	l.meshProg.setInt("shadowMap", 1)
	l.overlay.use()
	l.overlay.setInt("tex2D", 0)
	l.overlay.setInt("texRect", 1)
	gl.UseProgram(0)

	// attribute-less draws still need a bound VAO in a core profile
	gl.GenVertexArrays(1, &l.overlayVAO)

	if l.cfg.ShadowMapSize > 0 {
		l.shadows, err = newShadowMap(l.cfg.ShadowMapSize)
		if err != nil {
			return err
		}
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("GL error 0x%X", e)
	}
	return nil
}

func (l *Library) Clear() {
	if !l.ready {
		return
	}
	c := l.cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Present draws every queued command, swaps and empties the queue. The
// queue is emptied even when a pass fails.
func (l *Library) Present() bool {
	if !l.ready {
		l.log.Errorf("present: not initialised")
		return false
	}
	defer l.queue.reset()

	w, h := l.surface.GetFramebufferSize()
	l.viewportW, l.viewportH = int32(w), int32(h)
	gl.Viewport(0, 0, l.viewportW, l.viewportH)

	shadowed := l.shadowPass()
	l.meshPass(shadowed)
	l.overlayPass()

	if e := gl.GetError(); e != gl.NO_ERROR {
		l.log.Errorf("present: GL error 0x%X", e)
		return false
	}
	l.surface.SwapBuffers()
	return true
}

// Shutdown frees every GPU object. CPU-side resources stay valid and are
// uploaded again if the library is re-initialised.
func (l *Library) Shutdown() {
	if !l.ready {
		return
	}
	l.release()
	l.ready = false
	l.log.Infof("shutdown: %d meshes, %d textures, %d texts still alive",
		l.meshes.len(), l.textures.len(), l.texts.len())
}

func (l *Library) release() {
	if !l.ready && l.meshProg == nil && l.depthProg == nil && l.overlay == nil {
		return
	}
	for _, m := range l.meshes.items {
		m.gpu.destroy()
		m.gpu = nil
	}
	for _, t := range l.textures.items {
		deleteTexture(&t.id)
	}
	for _, t := range l.texts.items {
		deleteTexture(&t.tex)
		t.dirty = true
	}
	if l.shadows != nil {
		l.shadows.destroy()
		l.shadows = nil
	}
	if l.overlayVAO != 0 {
		gl.DeleteVertexArrays(1, &l.overlayVAO)
		l.overlayVAO = 0
	}
	l.meshProg.delete()
	l.depthProg.delete()
	l.overlay.delete()
	l.meshProg, l.depthProg, l.overlay = nil, nil, nil
	l.queue.reset()
}
