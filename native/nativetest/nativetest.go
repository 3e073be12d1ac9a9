// Package nativetest provides an in-memory native.Library for tests. It keeps
// books on every handle it hands out so tests can assert that wrappers free
// each resource exactly once and never touch a freed handle.
package nativetest

import (
	"fmt"

	"renderlib/native"
)

// Kind names a class of native resource.
type Kind string

const (
	KindMesh              Kind = "mesh"
	KindAnimation         Kind = "animation"
	KindFont              Kind = "font"
	KindImage             Kind = "image"
	KindTexture           Kind = "texture"
	KindText              Kind = "text"
	KindAnimationInstance Kind = "animation instance"
)

// MeshDraw is a recorded RenderMesh call with the pointed-to structs copied.
type MeshDraw struct {
	Mesh     native.MeshHandle
	Props    native.MeshRenderProps
	Light    *native.Light
	Material *native.Material
}

// Library is a recording fake of the native library.
type Library struct {
	// Files backs the *FromFile functions; a missing path fails.
	Files map[string][]byte
	// AnimationsPerMesh is how many animations every loaded mesh carries.
	AnimationsPerMesh int

	Initialized bool
	Presented   int

	MeshDraws []MeshDraw
	TextDraws []native.TextRenderProps
	QuadDraws []native.QuadRenderProps

	fail   map[string]bool
	calls  map[string]int
	next   uintptr
	live   map[uintptr]Kind
	freed  map[uintptr]Kind
	allocs map[Kind]int
	frees  map[Kind]int

	meshAnims map[native.MeshHandle][]native.AnimationHandle
	animMesh  map[native.AnimationHandle]native.MeshHandle
	instAnim  map[native.AnimationInstanceHandle]native.AnimationHandle
	texts     map[native.TextHandle][]byte
	images    map[native.ImageHandle]native.ImageInfo

	problems []string
}

func New() *Library {
	return &Library{
		Files:             make(map[string][]byte),
		AnimationsPerMesh: 1,
		fail:              make(map[string]bool),
		calls:             make(map[string]int),
		live:              make(map[uintptr]Kind),
		freed:             make(map[uintptr]Kind),
		allocs:            make(map[Kind]int),
		frees:             make(map[Kind]int),
		meshAnims:         make(map[native.MeshHandle][]native.AnimationHandle),
		animMesh:          make(map[native.AnimationHandle]native.MeshHandle),
		instAnim:          make(map[native.AnimationInstanceHandle]native.AnimationHandle),
		texts:             make(map[native.TextHandle][]byte),
		images:            make(map[native.ImageHandle]native.ImageInfo),
	}
}

// FailOn makes the named function (e.g. "TextSetString") return its failure
// sentinel until Succeed is called.
func (l *Library) FailOn(fn string) { l.fail[fn] = true }

func (l *Library) Succeed(fn string) { delete(l.fail, fn) }

// Calls reports how many times the named function was invoked.
func (l *Library) Calls(fn string) int { return l.calls[fn] }

// TotalCalls reports the number of calls into the library.
func (l *Library) TotalCalls() int {
	n := 0
	for _, c := range l.calls {
		n += c
	}
	return n
}

// Allocs reports successful allocations of the given kind.
func (l *Library) Allocs(k Kind) int { return l.allocs[k] }

// Frees reports frees of the given kind.
func (l *Library) Frees(k Kind) int { return l.frees[k] }

// Live reports allocated and not yet freed handles of the given kind.
func (l *Library) Live(k Kind) int {
	n := 0
	for _, kind := range l.live {
		if kind == k {
			n++
		}
	}
	return n
}

// Problems lists double frees, uses of freed handles and handle kind
// mismatches seen so far.
func (l *Library) Problems() []string { return l.problems }

// TextString returns the bytes last set on a text handle.
func (l *Library) TextString(h native.TextHandle) string { return string(l.texts[h]) }

func (l *Library) call(fn string) bool {
	l.calls[fn]++
	return !l.fail[fn]
}

func (l *Library) alloc(k Kind) uintptr {
	l.next++
	l.live[l.next] = k
	l.allocs[k]++
	return l.next
}

func (l *Library) check(fn string, h uintptr, k Kind) bool {
	if kind, ok := l.live[h]; ok {
		if kind != k {
			l.problemf("%s: handle %#x is a %s, want %s", fn, h, kind, k)
			return false
		}
		return true
	}
	if kind, ok := l.freed[h]; ok {
		l.problemf("%s: %s handle %#x used after free", fn, kind, h)
	} else {
		l.problemf("%s: unknown %s handle %#x", fn, k, h)
	}
	return false
}

func (l *Library) free(fn string, h uintptr, k Kind) {
	if !l.check(fn, h, k) {
		return
	}
	delete(l.live, h)
	l.freed[h] = k
	l.frees[k]++
}

func (l *Library) problemf(format string, args ...any) {
	l.problems = append(l.problems, fmt.Sprintf(format, args...))
}

func (l *Library) Init() bool {
	if !l.call("Init") {
		return false
	}
	l.Initialized = true
	return true
}

func (l *Library) Clear() {
	l.call("Clear")
}

func (l *Library) Present() bool {
	if !l.call("Present") {
		return false
	}
	l.Presented++
	return true
}

func (l *Library) Shutdown() {
	l.call("Shutdown")
	l.Initialized = false
}

func (l *Library) MeshFromFile(path string) native.MeshHandle {
	if !l.call("MeshFromFile") {
		return 0
	}
	if _, ok := l.Files[path]; !ok {
		return 0
	}
	return l.newMesh()
}

func (l *Library) MeshFromBuffer(data []byte) native.MeshHandle {
	if !l.call("MeshFromBuffer") || len(data) == 0 {
		return 0
	}
	return l.newMesh()
}

func (l *Library) newMesh() native.MeshHandle {
	m := native.MeshHandle(l.alloc(KindMesh))
	for i := 0; i < l.AnimationsPerMesh; i++ {
		a := native.AnimationHandle(l.alloc(KindAnimation))
		l.meshAnims[m] = append(l.meshAnims[m], a)
		l.animMesh[a] = m
	}
	return m
}

func (l *Library) MeshAnimations(mesh native.MeshHandle) []native.AnimationHandle {
	l.call("MeshAnimations")
	if !l.check("MeshAnimations", uintptr(mesh), KindMesh) {
		return nil
	}
	return l.meshAnims[mesh]
}

func (l *Library) MeshFree(mesh native.MeshHandle) {
	l.call("MeshFree")
	for _, a := range l.meshAnims[mesh] {
		if _, ok := l.live[uintptr(a)]; ok {
			delete(l.live, uintptr(a))
			l.freed[uintptr(a)] = KindAnimation
			l.frees[KindAnimation]++
		}
	}
	l.free("MeshFree", uintptr(mesh), KindMesh)
}

func (l *Library) FontFromFile(path string, pt uint32) native.FontHandle {
	if !l.call("FontFromFile") {
		return 0
	}
	if _, ok := l.Files[path]; !ok || pt == 0 {
		return 0
	}
	return native.FontHandle(l.alloc(KindFont))
}

func (l *Library) FontFromBuffer(data []byte, pt uint32) native.FontHandle {
	if !l.call("FontFromBuffer") || len(data) == 0 || pt == 0 {
		return 0
	}
	return native.FontHandle(l.alloc(KindFont))
}

func (l *Library) FontFree(font native.FontHandle) {
	l.call("FontFree")
	l.free("FontFree", uintptr(font), KindFont)
}

func (l *Library) ImageFromFile(path string) native.ImageHandle {
	if !l.call("ImageFromFile") {
		return 0
	}
	if _, ok := l.Files[path]; !ok {
		return 0
	}
	return l.newImage(native.ImageInfo{Width: 64, Height: 32, Format: native.ImageFormatRGB})
}

func (l *Library) ImageFromBuffer(data []byte, codec native.ImageCodec) native.ImageHandle {
	if !l.call("ImageFromBuffer") || len(data) == 0 {
		return 0
	}
	format := native.ImageFormatRGBA
	if codec == native.ImageCodecJPEG {
		format = native.ImageFormatRGB
	}
	return l.newImage(native.ImageInfo{Width: 16, Height: 16, Format: format})
}

func (l *Library) newImage(info native.ImageInfo) native.ImageHandle {
	h := native.ImageHandle(l.alloc(KindImage))
	l.images[h] = info
	return h
}

func (l *Library) ImageInfo(image native.ImageHandle) native.ImageInfo {
	l.call("ImageInfo")
	if !l.check("ImageInfo", uintptr(image), KindImage) {
		return native.ImageInfo{}
	}
	return l.images[image]
}

func (l *Library) ImageFree(image native.ImageHandle) {
	l.call("ImageFree")
	l.free("ImageFree", uintptr(image), KindImage)
}

func (l *Library) TextureFromImage(image native.ImageHandle, typ native.TextureType) native.TextureHandle {
	if !l.call("TextureFromImage") || !l.check("TextureFromImage", uintptr(image), KindImage) {
		return 0
	}
	if typ != native.Texture2D && typ != native.TextureRectangle {
		return 0
	}
	return native.TextureHandle(l.alloc(KindTexture))
}

func (l *Library) TextureFree(tex native.TextureHandle) {
	l.call("TextureFree")
	l.free("TextureFree", uintptr(tex), KindTexture)
}

func (l *Library) TextNew(font native.FontHandle) native.TextHandle {
	if !l.call("TextNew") || !l.check("TextNew", uintptr(font), KindFont) {
		return 0
	}
	return native.TextHandle(l.alloc(KindText))
}

func (l *Library) TextSetString(text native.TextHandle, utf8 []byte) bool {
	if !l.call("TextSetString") || !l.check("TextSetString", uintptr(text), KindText) {
		return false
	}
	l.texts[text] = append([]byte(nil), utf8...)
	return true
}

func (l *Library) TextSize(text native.TextHandle) (uint32, uint32) {
	l.call("TextSize")
	if !l.check("TextSize", uintptr(text), KindText) {
		return 0, 0
	}
	// fixed-pitch: 10x18 per glyph
	return uint32(len(l.texts[text])) * 10, 18
}

func (l *Library) TextFree(text native.TextHandle) {
	l.call("TextFree")
	l.free("TextFree", uintptr(text), KindText)
	delete(l.texts, text)
}

func (l *Library) AnimationInfo(anim native.AnimationHandle) native.AnimationInfo {
	l.call("AnimationInfo")
	if !l.check("AnimationInfo", uintptr(anim), KindAnimation) {
		return native.AnimationInfo{}
	}
	for i, a := range l.meshAnims[l.animMesh[anim]] {
		if a == anim {
			return native.AnimationInfo{Name: fmt.Sprintf("anim%d", i), Duration: 50}
		}
	}
	return native.AnimationInfo{}
}

func (l *Library) AnimationInstanceNew(anim native.AnimationHandle) native.AnimationInstanceHandle {
	if !l.call("AnimationInstanceNew") || !l.check("AnimationInstanceNew", uintptr(anim), KindAnimation) {
		return 0
	}
	h := native.AnimationInstanceHandle(l.alloc(KindAnimationInstance))
	l.instAnim[h] = anim
	return h
}

func (l *Library) AnimationInstancePlay(inst native.AnimationInstanceHandle, dt float32) bool {
	if !l.call("AnimationInstancePlay") || !l.check("AnimationInstancePlay", uintptr(inst), KindAnimationInstance) {
		return false
	}
	return l.check("AnimationInstancePlay", uintptr(l.instAnim[inst]), KindAnimation)
}

func (l *Library) AnimationInstanceFree(inst native.AnimationInstanceHandle) {
	l.call("AnimationInstanceFree")
	l.free("AnimationInstanceFree", uintptr(inst), KindAnimationInstance)
}

func (l *Library) RenderMesh(mesh native.MeshHandle, props *native.MeshRenderProps) bool {
	if !l.call("RenderMesh") || !l.check("RenderMesh", uintptr(mesh), KindMesh) {
		return false
	}
	draw := MeshDraw{Mesh: mesh, Props: *props}
	if props.Light != nil {
		light := *props.Light
		draw.Light = &light
	}
	if props.Material != nil {
		mat := *props.Material
		draw.Material = &mat
		if mat.Texture != 0 && !l.check("RenderMesh", uintptr(mat.Texture), KindTexture) {
			return false
		}
	}
	if props.Animation != 0 && !l.check("RenderMesh", uintptr(props.Animation), KindAnimationInstance) {
		return false
	}
	l.MeshDraws = append(l.MeshDraws, draw)
	return true
}

func (l *Library) RenderText(text native.TextHandle, props *native.TextRenderProps) bool {
	if !l.call("RenderText") || !l.check("RenderText", uintptr(text), KindText) {
		return false
	}
	l.TextDraws = append(l.TextDraws, *props)
	return true
}

func (l *Library) RenderQuad(width, height float32, props *native.QuadRenderProps) bool {
	if !l.call("RenderQuad") || width <= 0 || height <= 0 {
		return false
	}
	if props.Texture != 0 && !l.check("RenderQuad", uintptr(props.Texture), KindTexture) {
		return false
	}
	l.QuadDraws = append(l.QuadDraws, *props)
	return true
}

var _ native.Library = (*Library)(nil)
