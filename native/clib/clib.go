//go:build renderlib

// Package clib binds native.Library to the compiled C library librender.
//
// Build with -tags renderlib and CGO_CFLAGS/CGO_LDFLAGS pointing at the
// library's headers and archive. Every call must come from the thread that
// owns the GL context.
package clib

/*
#cgo LDFLAGS: -lrender -lGLEW -lGL -lpng -ljpeg -lfreetype -lm
#include <stdlib.h>
#include <renderlib.h>
*/
import "C"

import (
	"unsafe"

	"renderlib/math"
	"renderlib/native"
)

// Library calls into librender. Lights and materials referenced by queued
// mesh draws are copied into C memory that stays alive until the next
// Present, which is when the library reads them.
type Library struct {
	arena []unsafe.Pointer
}

var _ native.Library = (*Library)(nil)

func New() *Library {
	return &Library{}
}

func (l *Library) Init() bool {
	return C.renderer_init() != 0
}

func (l *Library) Clear() {
	C.renderer_clear()
}

func (l *Library) Present() bool {
	ok := C.renderer_present() != 0
	l.freeArena()
	return ok
}

func (l *Library) Shutdown() {
	C.renderer_shutdown()
	l.freeArena()
}

func (l *Library) freeArena() {
	for _, p := range l.arena {
		C.free(p)
	}
	l.arena = l.arena[:0]
}

// alloc returns zeroed C memory that lives until the next Present.
func (l *Library) alloc(size C.size_t) unsafe.Pointer {
	p := C.calloc(1, size)
	l.arena = append(l.arena, p)
	return p
}

// withCString runs f with a NUL-terminated C copy of s.
func withCString[T any](s string, f func(*C.char) T) T {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	return f(cs)
}

// withBytes runs f with a pointer to data's backing array. The pointer is
// only valid during the call. Empty buffers yield the zero result.
func withBytes[T any](data []byte, f func(unsafe.Pointer, C.size_t) T) T {
	if len(data) == 0 {
		var zero T
		return zero
	}
	return f(unsafe.Pointer(&data[0]), C.size_t(len(data)))
}

func (l *Library) MeshFromFile(path string) native.MeshHandle {
	return withCString(path, func(cs *C.char) native.MeshHandle {
		return native.MeshHandle(unsafe.Pointer(C.mesh_from_file(cs)))
	})
}

func (l *Library) MeshFromBuffer(data []byte) native.MeshHandle {
	return withBytes(data, func(p unsafe.Pointer, n C.size_t) native.MeshHandle {
		return native.MeshHandle(unsafe.Pointer(C.mesh_from_buffer(p, n)))
	})
}

func cMesh(h native.MeshHandle) *C.struct_Mesh {
	return (*C.struct_Mesh)(unsafe.Pointer(h))
}

func (l *Library) MeshAnimations(h native.MeshHandle) []native.AnimationHandle {
	m := cMesh(h)
	n := int(m.anim_count)
	if n == 0 || m.animations == nil {
		return nil
	}
	anims := unsafe.Slice(m.animations, n)
	out := make([]native.AnimationHandle, n)
	for i := range anims {
		out[i] = native.AnimationHandle(unsafe.Pointer(&anims[i]))
	}
	return out
}

func (l *Library) MeshFree(h native.MeshHandle) {
	C.mesh_free(cMesh(h))
}

func (l *Library) FontFromFile(path string, pt uint32) native.FontHandle {
	return withCString(path, func(cs *C.char) native.FontHandle {
		return native.FontHandle(unsafe.Pointer(C.font_from_file(cs, C.uint(pt))))
	})
}

func (l *Library) FontFromBuffer(data []byte, pt uint32) native.FontHandle {
	return withBytes(data, func(p unsafe.Pointer, n C.size_t) native.FontHandle {
		return native.FontHandle(unsafe.Pointer(C.font_from_buffer(p, n, C.uint(pt))))
	})
}

func (l *Library) FontFree(h native.FontHandle) {
	C.font_free((*C.struct_Font)(unsafe.Pointer(h)))
}

func (l *Library) ImageFromFile(path string) native.ImageHandle {
	return withCString(path, func(cs *C.char) native.ImageHandle {
		return native.ImageHandle(unsafe.Pointer(C.image_from_file(cs)))
	})
}

func (l *Library) ImageFromBuffer(data []byte, codec native.ImageCodec) native.ImageHandle {
	return withBytes(data, func(p unsafe.Pointer, n C.size_t) native.ImageHandle {
		return native.ImageHandle(unsafe.Pointer(C.image_from_buffer(p, n, C.int(codec))))
	})
}

func (l *Library) ImageInfo(h native.ImageHandle) native.ImageInfo {
	img := (*C.struct_Image)(unsafe.Pointer(h))
	return native.ImageInfo{
		Width:  uint32(img.width),
		Height: uint32(img.height),
		Format: native.ImageFormat(img.format),
	}
}

func (l *Library) ImageFree(h native.ImageHandle) {
	C.image_free((*C.struct_Image)(unsafe.Pointer(h)))
}

func (l *Library) TextureFromImage(h native.ImageHandle, typ native.TextureType) native.TextureHandle {
	img := (*C.struct_Image)(unsafe.Pointer(h))
	return native.TextureHandle(unsafe.Pointer(C.texture_from_image(img, C.GLenum(typ))))
}

func (l *Library) TextureFree(h native.TextureHandle) {
	C.texture_free(cTexture(h))
}

func cTexture(h native.TextureHandle) *C.struct_Texture {
	return (*C.struct_Texture)(unsafe.Pointer(h))
}

func cText(h native.TextHandle) *C.struct_Text {
	return (*C.struct_Text)(unsafe.Pointer(h))
}

func (l *Library) TextNew(h native.FontHandle) native.TextHandle {
	return native.TextHandle(unsafe.Pointer(C.text_new((*C.struct_Font)(unsafe.Pointer(h)))))
}

func (l *Library) TextSetString(h native.TextHandle, utf8 []byte) bool {
	return withCString(string(utf8), func(cs *C.char) bool {
		return C.text_set_string(cText(h), cs) != 0
	})
}

func (l *Library) TextSize(h native.TextHandle) (uint32, uint32) {
	t := cText(h)
	return uint32(t.width), uint32(t.height)
}

func (l *Library) TextFree(h native.TextHandle) {
	C.text_free(cText(h))
}

// AnimationInfo reads the clip fields. The C struct carries no name.
func (l *Library) AnimationInfo(h native.AnimationHandle) native.AnimationInfo {
	a := (*C.struct_Animation)(unsafe.Pointer(h))
	return native.AnimationInfo{
		Duration: float32(a.duration),
		Speed:    float32(a.speed),
	}
}

func (l *Library) AnimationInstanceNew(h native.AnimationHandle) native.AnimationInstanceHandle {
	var errMsg *C.char
	inst := C.animation_instance_new((*C.struct_Animation)(unsafe.Pointer(h)), &errMsg)
	return native.AnimationInstanceHandle(unsafe.Pointer(inst))
}

func cInstance(h native.AnimationInstanceHandle) *C.struct_AnimationInstance {
	return (*C.struct_AnimationInstance)(unsafe.Pointer(h))
}

func (l *Library) AnimationInstancePlay(h native.AnimationInstanceHandle, dt float32) bool {
	return C.animation_instance_play(cInstance(h), C.float(dt)) != 0
}

func (l *Library) AnimationInstanceFree(h native.AnimationInstanceHandle) {
	C.animation_instance_free(cInstance(h))
}

func (l *Library) RenderMesh(h native.MeshHandle, props *native.MeshRenderProps) bool {
	var cp C.struct_MeshRenderProps
	copyVec(unsafe.Pointer(&cp.eye), props.Eye)
	copyMat(unsafe.Pointer(&cp.model), props.Model)
	copyMat(unsafe.Pointer(&cp.view), props.View)
	copyMat(unsafe.Pointer(&cp.projection), props.Projection)
	cp.cast_shadows = C.int(props.CastShadows)
	cp.receive_shadows = C.int(props.ReceiveShadows)
	cp.animation = cInstance(props.Animation)
	if props.Light != nil {
		cp.light = l.light(props.Light)
	}
	if props.Material != nil {
		cp.material = l.material(props.Material)
	}
	return C.render_mesh(cMesh(h), &cp) != 0
}

func (l *Library) light(src *native.Light) *C.struct_Light {
	c := (*C.struct_Light)(l.alloc(C.size_t(C.sizeof_struct_Light)))
	copyMat(unsafe.Pointer(&c.transform), src.Transform)
	copyVec(unsafe.Pointer(&c.direction), src.Direction)
	copyVec(unsafe.Pointer(&c.color), src.Color)
	c.ambient_intensity = C.float(src.AmbientIntensity)
	c.diffuse_intensity = C.float(src.DiffuseIntensity)
	return c
}

func (l *Library) material(src *native.Material) *C.struct_Material {
	c := (*C.struct_Material)(l.alloc(C.size_t(C.sizeof_struct_Material)))
	c.texture = cTexture(src.Texture)
	copyVec(unsafe.Pointer(&c.color), src.Color)
	c.receive_light = C.int(src.ReceiveLight)
	c.specular_intensity = C.float(src.SpecularIntensity)
	c.specular_power = C.float(src.SpecularPower)
	return c
}

func (l *Library) RenderText(h native.TextHandle, props *native.TextRenderProps) bool {
	var cp C.struct_TextRenderProps
	copyMat(unsafe.Pointer(&cp.model), props.Model)
	copyMat(unsafe.Pointer(&cp.view), props.View)
	copyMat(unsafe.Pointer(&cp.projection), props.Projection)
	copyVec(unsafe.Pointer(&cp.color), props.Color)
	cp.opacity = C.float(props.Opacity)
	return C.render_text(cText(h), &cp) != 0
}

func (l *Library) RenderQuad(width, height float32, props *native.QuadRenderProps) bool {
	var cp C.struct_QuadRenderProps
	copyMat(unsafe.Pointer(&cp.model), props.Model)
	copyMat(unsafe.Pointer(&cp.view), props.View)
	copyMat(unsafe.Pointer(&cp.projection), props.Projection)
	copyVec(unsafe.Pointer(&cp.color), props.Color)
	cp.texture = cTexture(props.Texture)
	cp.borders.left = C.float(props.Borders.Left)
	cp.borders.top = C.float(props.Borders.Top)
	cp.borders.right = C.float(props.Borders.Right)
	cp.borders.bottom = C.float(props.Borders.Bottom)
	cp.opacity = C.float(props.Opacity)
	return C.render_quad(C.float(width), C.float(height), &cp) != 0
}

// Mat and Vec share their memory layout with the C types.

func copyMat(dst unsafe.Pointer, m math.Mat) {
	*(*math.Mat)(dst) = m
}

func copyVec(dst unsafe.Pointer, v math.Vec) {
	*(*math.Vec)(dst) = v
}
