package renderer

import (
	"errors"
	"testing"

	"renderlib/native"
	"renderlib/native/nativetest"
)

func TestMissingFontFile(t *testing.T) {
	r, lib := newRunning(t)

	font, err := r.FontFromFile("missing.ttf", 12)
	if font != nil {
		t.Errorf("FontFromFile: expected nil font, got %v", font)
	}
	var loadErr *ResourceLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("FontFromFile: expected ResourceLoadError, got %v", err)
	}
	if loadErr.Kind != KindFont || loadErr.Source != "missing.ttf" {
		t.Errorf("FontFromFile: expected font error for missing.ttf, got %+v", loadErr)
	}
	if lib.Allocs(nativetest.KindFont) != 0 {
		t.Errorf("FontFromFile: expected no font allocated, got %d", lib.Allocs(nativetest.KindFont))
	}
}

func TestLoadFailures(t *testing.T) {
	r, lib := newRunning(t)

	if _, err := r.MeshFromBuffer(nil); err == nil {
		t.Error("MeshFromBuffer: expected error for empty buffer")
	}
	if _, err := r.ImageFromFile("nope.png"); err == nil {
		t.Error("ImageFromFile: expected error for missing file")
	}
	if _, err := r.FontFromBuffer([]byte("ttf"), 0); err == nil {
		t.Error("FontFromBuffer: expected error for zero point size")
	}

	img, err := r.ImageFromFile("crate.png")
	if err != nil {
		t.Fatalf("ImageFromFile: %v", err)
	}
	defer img.Close()
	lib.FailOn("TextureFromImage")
	var loadErr *ResourceLoadError
	if _, err := r.TextureFromImage(img, native.Texture2D); !errors.As(err, &loadErr) || loadErr.Kind != KindTexture {
		t.Errorf("TextureFromImage: expected texture load error, got %v", err)
	}
}

func TestCloseFreesExactlyOnce(t *testing.T) {
	r, lib := newRunning(t)

	mesh, err := r.MeshFromFile("zombie.mesh")
	if err != nil {
		t.Fatalf("MeshFromFile: %v", err)
	}
	mesh.Close()
	mesh.Close()

	if lib.Frees(nativetest.KindMesh) != 1 {
		t.Errorf("Close twice: expected 1 free, got %d", lib.Frees(nativetest.KindMesh))
	}
	if err := r.RenderMesh(mesh, NewMeshRenderProps()); !errors.Is(err, ErrReleased) {
		t.Errorf("RenderMesh after Close: expected ErrReleased, got %v", err)
	}
	if lib.Calls("RenderMesh") != 0 {
		t.Errorf("RenderMesh after Close: expected no native call, got %d", lib.Calls("RenderMesh"))
	}
	checkNoProblems(t, lib)
}

func TestImageInfo(t *testing.T) {
	r, _ := newRunning(t)

	img, err := r.ImageFromFile("crate.png")
	if err != nil {
		t.Fatalf("ImageFromFile: %v", err)
	}
	defer img.Close()
	if img.Width() != 64 || img.Height() != 32 || img.Format() != native.ImageFormatRGB {
		t.Errorf("ImageFromFile: expected 64x32 RGB, got %dx%d %v", img.Width(), img.Height(), img.Format())
	}

	jpg, err := r.ImageFromBuffer([]byte{0xff, 0xd8}, native.ImageCodecJPEG)
	if err != nil {
		t.Fatalf("ImageFromBuffer: %v", err)
	}
	defer jpg.Close()
	if jpg.Format() != native.ImageFormatRGB {
		t.Errorf("ImageFromBuffer: expected RGB, got %v", jpg.Format())
	}
}

func TestTextureOutlivesImage(t *testing.T) {
	r, lib := newRunning(t)

	img, _ := r.ImageFromFile("crate.png")
	tex, err := r.TextureFromImage(img, native.TextureRectangle)
	if err != nil {
		t.Fatalf("TextureFromImage: %v", err)
	}
	img.Close()

	if tex.Type() != native.TextureRectangle {
		t.Errorf("Type: expected %v, got %v", native.TextureRectangle, tex.Type())
	}
	if _, err := r.TextureFromImage(img, native.Texture2D); !errors.Is(err, ErrReleased) {
		t.Errorf("TextureFromImage on closed image: expected ErrReleased, got %v", err)
	}
	tex.Close()
	if lib.Live(nativetest.KindTexture) != 0 || lib.Live(nativetest.KindImage) != 0 {
		t.Errorf("Close: expected nothing live, got %d textures %d images",
			lib.Live(nativetest.KindTexture), lib.Live(nativetest.KindImage))
	}
	checkNoProblems(t, lib)
}

func TestMaterialKeepsTextureAlive(t *testing.T) {
	r, lib := newRunning(t)

	img, _ := r.ImageFromFile("crate.png")
	defer img.Close()
	tex, _ := r.TextureFromImage(img, native.Texture2D)

	mat := NewMaterial()
	if err := mat.SetTexture(tex); err != nil {
		t.Fatalf("SetTexture: %v", err)
	}
	tex.Close()
	if lib.Frees(nativetest.KindTexture) != 0 {
		t.Errorf("texture closed while attached: expected 0 frees, got %d", lib.Frees(nativetest.KindTexture))
	}

	mesh, _ := r.MeshFromFile("zombie.mesh")
	defer mesh.Close()
	props := NewMeshRenderProps()
	defer props.Close()
	props.SetMaterial(mat)
	if err := r.RenderMesh(mesh, props); err != nil {
		t.Errorf("RenderMesh: %v", err)
	}

	props.SetMaterial(nil)
	mat.Close()
	if lib.Frees(nativetest.KindTexture) != 1 {
		t.Errorf("material closed: expected 1 texture free, got %d", lib.Frees(nativetest.KindTexture))
	}
	checkNoProblems(t, lib)
}

func TestMaterialRefusesClosedTexture(t *testing.T) {
	r, _ := newRunning(t)

	img, _ := r.ImageFromFile("crate.png")
	defer img.Close()
	tex, _ := r.TextureFromImage(img, native.Texture2D)
	tex.Close()

	mat := NewMaterial()
	defer mat.Close()
	if err := mat.SetTexture(tex); !errors.Is(err, ErrReleased) {
		t.Errorf("SetTexture: expected ErrReleased, got %v", err)
	}
	if mat.Texture() != nil {
		t.Errorf("SetTexture: expected no texture, got %v", mat.Texture())
	}
}

func TestMaterialFlags(t *testing.T) {
	mat := NewMaterial()
	defer mat.Close()

	mat.n.ReceiveLight = 5
	if !mat.ReceiveLight() {
		t.Error("ReceiveLight: expected non-zero native value to read true")
	}
	mat.SetReceiveLight(true)
	if mat.n.ReceiveLight != 1 {
		t.Errorf("SetReceiveLight(true): expected 1, got %d", mat.n.ReceiveLight)
	}
	mat.SetReceiveLight(false)
	if mat.n.ReceiveLight != 0 {
		t.Errorf("SetReceiveLight(false): expected 0, got %d", mat.n.ReceiveLight)
	}
}

func TestFontSize(t *testing.T) {
	r, _ := newRunning(t)
	font, err := r.FontFromBuffer([]byte("ttf"), 24)
	if err != nil {
		t.Fatalf("FontFromBuffer: %v", err)
	}
	defer font.Close()
	if font.Size() != 24 {
		t.Errorf("Size: expected 24, got %d", font.Size())
	}
}

func TestClosedMaterialRefusesTexture(t *testing.T) {
	r, lib := newRunning(t)

	img, _ := r.ImageFromFile("crate.png")
	defer img.Close()
	tex, _ := r.TextureFromImage(img, native.Texture2D)

	mat := NewMaterial()
	mat.Close()
	if err := mat.SetTexture(tex); !errors.Is(err, ErrReleased) {
		t.Errorf("SetTexture on closed material: expected ErrReleased, got %v", err)
	}
	if err := mat.SetTexture(nil); !errors.Is(err, ErrReleased) {
		t.Errorf("SetTexture(nil) on closed material: expected ErrReleased, got %v", err)
	}
	tex.Close()
	if lib.Live(nativetest.KindTexture) != 0 {
		t.Errorf("texture: expected freed, got %d live", lib.Live(nativetest.KindTexture))
	}
	checkNoProblems(t, lib)
}

func TestNilResourceArguments(t *testing.T) {
	r, lib := newRunning(t)

	if _, err := r.NewText(nil); !errors.Is(err, ErrNilResource) {
		t.Errorf("NewText(nil): expected ErrNilResource, got %v", err)
	}
	if _, err := r.TextureFromImage(nil, native.Texture2D); !errors.Is(err, ErrNilResource) {
		t.Errorf("TextureFromImage(nil): expected ErrNilResource, got %v", err)
	}
	if _, err := r.NewAnimationInstance(nil); !errors.Is(err, ErrNilResource) {
		t.Errorf("NewAnimationInstance(nil): expected ErrNilResource, got %v", err)
	}
	if lib.TotalCalls() != 1 {
		t.Errorf("nil arguments: expected only the Init call, got %d calls", lib.TotalCalls())
	}
}
