package opengl

import (
	stdimage "image"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"renderlib/assets"
	"renderlib/native"
)

type mesh struct {
	data  *assets.MeshData
	anims []native.AnimationHandle
	gpu   *gpuMesh
	freed bool
}

type animation struct {
	mesh *mesh
	data *assets.Animation
}

type instance struct {
	anim   *animation
	player *assets.Player
}

type font struct {
	face *assets.Font
}

type imageRes struct {
	data *assets.Image
}

type texture struct {
	target native.TextureType
	img    *assets.Image
	id     uint32
	width  int // uploaded size, valid once id != 0
	height int
	freed  bool
	failed bool // upload failed once; not retried
}

// bindTexture uploads t on first use and binds it to the active texture unit.
// It reports false when t cannot be sampled.
func (l *Library) bindTexture(t *texture) bool {
	if t == nil || t.freed || t.failed {
		return false
	}
	if t.id == 0 {
		id, w, h, err := uploadTexture(t.img, t.target, l.maxTexSize)
		if err != nil {
			l.log.Errorf("texture %dx%d: %v", t.img.Width, t.img.Height, err)
			t.failed = true
			return false
		}
		t.id, t.width, t.height = id, w, h
		if w != t.img.Width || h != t.img.Height {
			l.log.Warnf("texture %dx%d scaled to %dx%d", t.img.Width, t.img.Height, w, h)
		}
	}
	gl.BindTexture(uint32(t.target), t.id)
	return true
}

type text struct {
	font   *font
	layout assets.TextLayout
	bitmap *stdimage.Alpha
	tex    uint32
	dirty  bool
	freed  bool
}

func (l *Library) MeshFromFile(path string) native.MeshHandle {
	data, err := assets.LoadMesh(path)
	if err != nil {
		l.log.Errorf("mesh from file: %v", err)
		return 0
	}
	l.log.Debugf("mesh %q: %d vertices, %d animations", path, len(data.Vertices), len(data.Animations))
	return l.addMesh(data)
}

func (l *Library) MeshFromBuffer(data []byte) native.MeshHandle {
	md, err := assets.DecodeMesh(data)
	if err != nil {
		l.log.Errorf("mesh from buffer: %v", err)
		return 0
	}
	return l.addMesh(md)
}

func (l *Library) addMesh(data *assets.MeshData) native.MeshHandle {
	if data.Skinned() && len(data.Skeleton.Joints) > maxJoints {
		l.log.Errorf("mesh %q: %d joints, at most %d supported", data.Name, len(data.Skeleton.Joints), maxJoints)
		return 0
	}
	m := &mesh{data: data}
	for _, a := range data.Animations {
		m.anims = append(m.anims, l.animations.add(&animation{mesh: m, data: a}))
	}
	return l.meshes.add(m)
}

func (l *Library) MeshAnimations(h native.MeshHandle) []native.AnimationHandle {
	m, ok := l.meshes.get(h)
	if !ok {
		l.log.Errorf("mesh animations: unknown mesh %d", h)
		return nil
	}
	return append([]native.AnimationHandle(nil), m.anims...)
}

// MeshFree frees the mesh and the animations it owns. Instances already
// created keep their own copy of the data they play.
func (l *Library) MeshFree(h native.MeshHandle) {
	m, ok := l.meshes.remove(h)
	if !ok {
		l.log.Warnf("mesh free: unknown mesh %d", h)
		return
	}
	for _, a := range m.anims {
		l.animations.remove(a)
	}
	m.freed = true
	if l.ready {
		m.gpu.destroy()
		m.gpu = nil
	}
}

func (l *Library) FontFromFile(path string, pt uint32) native.FontHandle {
	f, err := assets.LoadFont(path, pt)
	if err != nil {
		l.log.Errorf("font from file: %v", err)
		return 0
	}
	l.log.Debugf("font %q: %s %dpt", path, f.Name, pt)
	return l.fonts.add(&font{face: f})
}

func (l *Library) FontFromBuffer(data []byte, pt uint32) native.FontHandle {
	f, err := assets.ParseFont(data, pt)
	if err != nil {
		l.log.Errorf("font from buffer: %v", err)
		return 0
	}
	return l.fonts.add(&font{face: f})
}

func (l *Library) FontFree(h native.FontHandle) {
	f, ok := l.fonts.remove(h)
	if !ok {
		l.log.Warnf("font free: unknown font %d", h)
		return
	}
	if err := f.face.Close(); err != nil {
		l.log.Warnf("font free: %v", err)
	}
}

func (l *Library) ImageFromFile(path string) native.ImageHandle {
	img, err := assets.LoadImage(path)
	if err != nil {
		l.log.Errorf("image from file: %v", err)
		return 0
	}
	return l.images.add(&imageRes{data: img})
}

func (l *Library) ImageFromBuffer(data []byte, codec native.ImageCodec) native.ImageHandle {
	img, err := assets.DecodeImage(data, codec)
	if err != nil {
		l.log.Errorf("image from buffer: %v", err)
		return 0
	}
	return l.images.add(&imageRes{data: img})
}

func (l *Library) ImageInfo(h native.ImageHandle) native.ImageInfo {
	img, ok := l.images.get(h)
	if !ok {
		l.log.Errorf("image info: unknown image %d", h)
		return native.ImageInfo{}
	}
	return native.ImageInfo{
		Width:  uint32(img.data.Width),
		Height: uint32(img.data.Height),
		Format: img.data.Format,
	}
}

func (l *Library) ImageFree(h native.ImageHandle) {
	if _, ok := l.images.remove(h); !ok {
		l.log.Warnf("image free: unknown image %d", h)
	}
}

// TextureFromImage keeps a reference to the decoded pixels, so the image
// may be freed right after.
func (l *Library) TextureFromImage(h native.ImageHandle, typ native.TextureType) native.TextureHandle {
	img, ok := l.images.get(h)
	if !ok {
		l.log.Errorf("texture from image: unknown image %d", h)
		return 0
	}
	if typ != native.Texture2D && typ != native.TextureRectangle {
		l.log.Errorf("texture from image: unsupported texture type 0x%X", uint32(typ))
		return 0
	}
	return l.textures.add(&texture{target: typ, img: img.data})
}

func (l *Library) TextureFree(h native.TextureHandle) {
	t, ok := l.textures.remove(h)
	if !ok {
		l.log.Warnf("texture free: unknown texture %d", h)
		return
	}
	t.freed = true
	if l.ready {
		deleteTexture(&t.id)
	}
}

func (l *Library) TextNew(h native.FontHandle) native.TextHandle {
	f, ok := l.fonts.get(h)
	if !ok {
		l.log.Errorf("text new: unknown font %d", h)
		return 0
	}
	t := &text{font: f}
	t.set("")
	return l.texts.add(t)
}

func (t *text) set(s string) {
	t.layout = t.font.face.Layout(s)
	t.bitmap = t.font.face.Rasterize(t.layout)
	t.dirty = true
}

func (l *Library) TextSetString(h native.TextHandle, utf8 []byte) bool {
	t, ok := l.texts.get(h)
	if !ok {
		l.log.Errorf("text set string: unknown text %d", h)
		return false
	}
	t.set(string(utf8))
	return true
}

func (l *Library) TextSize(h native.TextHandle) (uint32, uint32) {
	t, ok := l.texts.get(h)
	if !ok {
		l.log.Errorf("text size: unknown text %d", h)
		return 0, 0
	}
	return uint32(t.layout.Width), uint32(t.layout.Height)
}

func (l *Library) TextFree(h native.TextHandle) {
	t, ok := l.texts.remove(h)
	if !ok {
		l.log.Warnf("text free: unknown text %d", h)
		return
	}
	t.freed = true
	if l.ready {
		deleteTexture(&t.tex)
	}
}

func (l *Library) AnimationInfo(h native.AnimationHandle) native.AnimationInfo {
	a, ok := l.animations.get(h)
	if !ok {
		l.log.Errorf("animation info: unknown animation %d", h)
		return native.AnimationInfo{}
	}
	return native.AnimationInfo{
		Name:     a.data.Name,
		Duration: a.data.Duration,
		Speed:    a.data.Speed,
	}
}

func (l *Library) AnimationInstanceNew(h native.AnimationHandle) native.AnimationInstanceHandle {
	a, ok := l.animations.get(h)
	if !ok {
		l.log.Errorf("animation instance new: unknown animation %d", h)
		return 0
	}
	p, err := assets.NewPlayer(a.data, a.mesh.data.Skeleton)
	if err != nil {
		l.log.Errorf("animation instance new: %q: %v", a.data.Name, err)
		return 0
	}
	return l.instances.add(&instance{anim: a, player: p})
}

func (l *Library) AnimationInstancePlay(h native.AnimationInstanceHandle, dt float32) bool {
	inst, ok := l.instances.get(h)
	if !ok {
		l.log.Errorf("animation instance play: unknown instance %d", h)
		return false
	}
	if dt < 0 {
		l.log.Errorf("animation instance play: negative dt %v", dt)
		return false
	}
	inst.player.Play(dt)
	return true
}

func (l *Library) AnimationInstanceFree(h native.AnimationInstanceHandle) {
	if _, ok := l.instances.remove(h); !ok {
		l.log.Warnf("animation instance free: unknown instance %d", h)
	}
}
