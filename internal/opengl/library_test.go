package opengl

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"renderlib/assets"
	"renderlib/config"
	"renderlib/math"
	"renderlib/native"
)

// These tests cover the CPU side of the backend and never touch GL.

type fakeSurface struct{ swaps int }

func (s *fakeSurface) SwapBuffers()                   { s.swaps++ }
func (s *fakeSurface) GetFramebufferSize() (int, int) { return 640, 480 }

func newTestLibrary(queue int) *Library {
	cfg := config.Default().Renderer
	cfg.RenderQueueSize = queue
	return New(&fakeSurface{}, cfg, nil)
}

func riggedTriangle(t *testing.T) []byte {
	t.Helper()
	rest := assets.JointPose{Rotation: math.QtrIdentity(), Scale: math.Vec3(1, 1, 1)}
	moved := rest
	moved.Translation = math.Vec3(4, 0, 0)
	m := &assets.MeshData{
		Vertices: []assets.Vertex{
			{Position: [3]float32{0, 0, 0}, Weights: [4]float32{1}},
			{Position: [3]float32{1, 0, 0}, Weights: [4]float32{1}},
			{Position: [3]float32{0, 1, 0}, Weights: [4]float32{1}},
		},
		Indices:   []uint32{0, 1, 2},
		Transform: math.Identity(),
		Skeleton:  &assets.Skeleton{Joints: []assets.Joint{{Parent: -1, InvBindPose: math.Identity()}}},
		Animations: []*assets.Animation{{
			Duration:   10,
			Timestamps: []float32{0, 10},
			Poses: []assets.SkeletonPose{
				{Joints: []assets.JointPose{rest}},
				{Joints: []assets.JointPose{moved}},
			},
		}},
	}
	data, err := assets.EncodeMeshFile(m)
	if err != nil {
		t.Fatalf("EncodeMeshFile: %v", err)
	}
	return data
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestHandlesAreUniqueAcrossKinds(t *testing.T) {
	l := newTestLibrary(0)
	m := l.MeshFromBuffer(riggedTriangle(t))
	img := l.ImageFromBuffer(pngBytes(t, 2, 2), native.ImageCodecPNG)
	f := l.FontFromBuffer(goregular.TTF, 12)
	if m == 0 || img == 0 || f == 0 {
		t.Fatalf("loads: got mesh=%d image=%d font=%d", m, img, f)
	}
	seen := map[uintptr]bool{uintptr(m): true}
	for _, h := range []uintptr{uintptr(img), uintptr(f)} {
		if seen[h] {
			t.Errorf("handle %d reused", h)
		}
		seen[h] = true
	}
}

func TestMeshAnimationsAndPlay(t *testing.T) {
	l := newTestLibrary(0)
	m := l.MeshFromBuffer(riggedTriangle(t))
	if m == 0 {
		t.Fatal("MeshFromBuffer failed")
	}
	anims := l.MeshAnimations(m)
	if len(anims) != 1 {
		t.Fatalf("MeshAnimations: expected 1, got %d", len(anims))
	}
	info := l.AnimationInfo(anims[0])
	if info.Name != "" || info.Duration != 10 {
		t.Errorf("AnimationInfo: got %+v", info)
	}

	inst := l.AnimationInstanceNew(anims[0])
	if inst == 0 {
		t.Fatal("AnimationInstanceNew failed")
	}
	if !l.AnimationInstancePlay(inst, 0.2) {
		t.Fatal("AnimationInstancePlay failed")
	}
	if l.AnimationInstancePlay(inst, -1) {
		t.Error("AnimationInstancePlay: expected failure for negative dt")
	}

	props := &native.MeshRenderProps{Model: math.Identity(), Animation: inst}
	if !l.RenderMesh(m, props) {
		t.Fatal("RenderMesh failed")
	}
	// 0.2s at 25 ticks/s = tick 5 of 10, halfway to x = 4
	skin := l.queue.meshes[0].skin
	if len(skin) != 1 {
		t.Fatalf("skin: expected 1 matrix, got %d", len(skin))
	}
	if got := skin[0].At(0, 3); got < 1.99 || got > 2.01 {
		t.Errorf("skin translation x: expected 2, got %v", got)
	}

	l.MeshFree(m)
	if l.MeshAnimations(m) != nil {
		t.Error("MeshAnimations after free: expected nil")
	}
	if l.AnimationInstanceNew(anims[0]) != 0 {
		t.Error("AnimationInstanceNew after mesh free: expected failure")
	}
	// instances outlive the mesh entry
	if !l.AnimationInstancePlay(inst, 0.1) {
		t.Error("AnimationInstancePlay after mesh free: expected success")
	}
	l.AnimationInstanceFree(inst)
}

func TestRenderQueueCapacity(t *testing.T) {
	l := newTestLibrary(2)
	props := &native.QuadRenderProps{Opacity: 1}
	if !l.RenderQuad(10, 10, props) || !l.RenderQuad(5, 5, props) {
		t.Fatal("RenderQuad failed below capacity")
	}
	if l.RenderQuad(1, 1, props) {
		t.Error("RenderQuad: expected failure with full queue")
	}
	l.queue.reset()
	if !l.RenderQuad(1, 1, props) {
		t.Error("RenderQuad: expected success after reset")
	}
}

func TestRenderCopiesProps(t *testing.T) {
	l := newTestLibrary(0)
	m := l.MeshFromBuffer(riggedTriangle(t))
	light := &native.Light{AmbientIntensity: 0.5}
	props := &native.MeshRenderProps{Light: light}
	if !l.RenderMesh(m, props) {
		t.Fatal("RenderMesh failed")
	}
	light.AmbientIntensity = 1
	props.CastShadows = 1

	cmd := l.queue.meshes[0]
	if cmd.light.AmbientIntensity != 0.5 {
		t.Errorf("queued light: expected 0.5, got %v", cmd.light.AmbientIntensity)
	}
	if cmd.props.CastShadows != 0 {
		t.Error("queued props: changed after RenderMesh")
	}
	if cmd.props.Light != nil {
		t.Error("queued props: still point at caller's light")
	}
}

func TestRenderRejectsUnknownHandles(t *testing.T) {
	l := newTestLibrary(0)
	m := l.MeshFromBuffer(riggedTriangle(t))

	if l.RenderMesh(m+100, &native.MeshRenderProps{}) {
		t.Error("RenderMesh: expected failure for unknown mesh")
	}
	if l.RenderMesh(m, &native.MeshRenderProps{Material: &native.Material{Texture: 999}}) {
		t.Error("RenderMesh: expected failure for unknown texture")
	}
	if l.RenderMesh(m, &native.MeshRenderProps{Animation: 999}) {
		t.Error("RenderMesh: expected failure for unknown animation instance")
	}
	if l.RenderQuad(0, 5, &native.QuadRenderProps{}) {
		t.Error("RenderQuad: expected failure for zero width")
	}
	if l.RenderText(42, &native.TextRenderProps{}) {
		t.Error("RenderText: expected failure for unknown text")
	}
	if l.queue.len() != 0 {
		t.Errorf("queue: expected empty, got %d", l.queue.len())
	}
}

func TestAnimationFromOtherMeshRejected(t *testing.T) {
	l := newTestLibrary(0)
	data := riggedTriangle(t)
	a := l.MeshFromBuffer(data)
	b := l.MeshFromBuffer(data)
	inst := l.AnimationInstanceNew(l.MeshAnimations(a)[0])
	if l.RenderMesh(b, &native.MeshRenderProps{Animation: inst}) {
		t.Error("RenderMesh: expected failure for another mesh's animation")
	}
}

func TestTextLayout(t *testing.T) {
	l := newTestLibrary(0)
	f := l.FontFromBuffer(goregular.TTF, 20)
	txt := l.TextNew(f)
	if txt == 0 {
		t.Fatal("TextNew failed")
	}
	if w, _ := l.TextSize(txt); w != 0 {
		t.Errorf("empty text width: expected 0, got %d", w)
	}
	if !l.TextSetString(txt, []byte("hello")) {
		t.Fatal("TextSetString failed")
	}
	w, h := l.TextSize(txt)
	if w == 0 || h < 20 {
		t.Errorf("TextSize: got %dx%d", w, h)
	}
	l.TextFree(txt)
	if l.TextSetString(txt, []byte("x")) {
		t.Error("TextSetString after free: expected failure")
	}
	l.FontFree(f)
}

func TestTextureFromImage(t *testing.T) {
	l := newTestLibrary(0)
	img := l.ImageFromBuffer(pngBytes(t, 3, 2), native.ImageCodecPNG)
	info := l.ImageInfo(img)
	if info.Width != 3 || info.Height != 2 || info.Format != native.ImageFormatRGBA {
		t.Errorf("ImageInfo: got %+v", info)
	}
	if l.TextureFromImage(img, native.TextureType(0x1234)) != 0 {
		t.Error("TextureFromImage: expected failure for unknown type")
	}
	tex := l.TextureFromImage(img, native.TextureRectangle)
	if tex == 0 {
		t.Fatal("TextureFromImage failed")
	}
	l.ImageFree(img)
	if l.TextureFromImage(img, native.Texture2D) != 0 {
		t.Error("TextureFromImage after image free: expected failure")
	}
	if !l.RenderQuad(4, 4, &native.QuadRenderProps{Texture: tex}) {
		t.Error("RenderQuad with texture of freed image: expected success")
	}
}

func TestLoadFailuresReturnZero(t *testing.T) {
	l := newTestLibrary(0)
	if l.MeshFromBuffer([]byte{1, 2, 3}) != 0 {
		t.Error("MeshFromBuffer: expected 0 for garbage")
	}
	if l.MeshFromFile("does/not/exist.mesh") != 0 {
		t.Error("MeshFromFile: expected 0 for missing file")
	}
	if l.FontFromBuffer(goregular.TTF, 0) != 0 {
		t.Error("FontFromBuffer: expected 0 for zero point size")
	}
	if l.ImageFromBuffer([]byte("nope"), native.ImageCodecJPEG) != 0 {
		t.Error("ImageFromBuffer: expected 0 for garbage")
	}
}

func TestPresentBeforeInit(t *testing.T) {
	s := &fakeSurface{}
	l := New(s, config.Default().Renderer, nil)
	if l.Present() {
		t.Error("Present: expected failure before Init")
	}
	if s.swaps != 0 {
		t.Errorf("swaps: expected 0, got %d", s.swaps)
	}
	l.Clear()
	l.Shutdown()
}

func TestFitWithin(t *testing.T) {
	cases := []struct{ w, h, limit, ew, eh int }{
		{4096, 2048, 1024, 1024, 512},
		{100, 400, 200, 50, 200},
		{5000, 1, 1000, 1000, 1},
	}
	for _, c := range cases {
		w, h := fitWithin(c.w, c.h, c.limit)
		if w != c.ew || h != c.eh {
			t.Errorf("fitWithin(%d, %d, %d): expected %dx%d, got %dx%d", c.w, c.h, c.limit, c.ew, c.eh, w, h)
		}
	}
}
