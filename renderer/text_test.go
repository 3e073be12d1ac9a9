package renderer

import (
	"errors"
	"testing"

	"renderlib/native/nativetest"
)

func newText(t *testing.T) (*Text, *Font, *nativetest.Library) {
	t.Helper()
	r, lib := newRunning(t)
	font, err := r.FontFromFile("sans.ttf", 16)
	if err != nil {
		t.Fatalf("FontFromFile: %v", err)
	}
	text, err := r.NewText(font)
	if err != nil {
		t.Fatalf("NewText: %v", err)
	}
	return text, font, lib
}

func TestTextSetStringKeepsOldValueOnFailure(t *testing.T) {
	text, font, lib := newText(t)
	defer font.Close()
	defer text.Close()

	if err := text.SetString("hello"); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	lib.FailOn("TextSetString")

	var loadErr *ResourceLoadError
	if err := text.SetString("world"); !errors.As(err, &loadErr) || loadErr.Kind != KindText {
		t.Errorf("SetString: expected text load error, got %v", err)
	}
	if text.String() != "hello" {
		t.Errorf("String: expected hello, got %q", text.String())
	}
	if lib.TextString(text.native) != "hello" {
		t.Errorf("native text: expected hello, got %q", lib.TextString(text.native))
	}
	if lib.Calls("TextSetString") != 2 {
		t.Errorf("TextSetString: expected 2 calls and no re-set, got %d", lib.Calls("TextSetString"))
	}
}

func TestTextRejectsInvalidUTF8(t *testing.T) {
	text, font, lib := newText(t)
	defer font.Close()
	defer text.Close()

	if err := text.SetString("\xff\xfe"); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("SetString: expected ErrInvalidUTF8, got %v", err)
	}
	if lib.Calls("TextSetString") != 0 {
		t.Errorf("SetString: expected no native call, got %d", lib.Calls("TextSetString"))
	}
}

func TestTextNormalizesToNFC(t *testing.T) {
	text, font, lib := newText(t)
	defer font.Close()
	defer text.Close()

	if err := text.SetString("cafe\u0301"); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	if text.String() != "caf\u00e9" {
		t.Errorf("String: expected composed form, got %+q", text.String())
	}
	if lib.TextString(text.native) != "caf\u00e9" {
		t.Errorf("native text: expected composed form, got %+q", lib.TextString(text.native))
	}
}

func TestTextSize(t *testing.T) {
	text, font, _ := newText(t)
	defer font.Close()

	if err := text.SetStringf("%d fps", 60); err != nil {
		t.Fatalf("SetStringf: %v", err)
	}
	if text.String() != "60 fps" {
		t.Errorf("SetStringf: expected \"60 fps\", got %q", text.String())
	}
	if text.Width() != 60 || text.Height() != 18 {
		t.Errorf("size: expected 60x18, got %dx%d", text.Width(), text.Height())
	}

	text.Close()
	if text.Width() != 0 {
		t.Errorf("Width after Close: expected 0, got %d", text.Width())
	}
	if err := text.SetString("x"); !errors.Is(err, ErrReleased) {
		t.Errorf("SetString after Close: expected ErrReleased, got %v", err)
	}
}

func TestTextKeepsFontAlive(t *testing.T) {
	text, font, lib := newText(t)

	font.Close()
	if lib.Frees(nativetest.KindFont) != 0 {
		t.Errorf("font closed under text: expected 0 frees, got %d", lib.Frees(nativetest.KindFont))
	}
	if err := text.SetString("still here"); err != nil {
		t.Errorf("SetString: %v", err)
	}

	text.Close()
	if lib.Frees(nativetest.KindText) != 1 || lib.Frees(nativetest.KindFont) != 1 {
		t.Errorf("Close: expected text and font freed once, got %d and %d",
			lib.Frees(nativetest.KindText), lib.Frees(nativetest.KindFont))
	}
	checkNoProblems(t, lib)
}

func TestNewTextOnClosedFont(t *testing.T) {
	r, lib := newRunning(t)
	font, _ := r.FontFromFile("sans.ttf", 16)
	font.Close()

	if _, err := r.NewText(font); !errors.Is(err, ErrReleased) {
		t.Errorf("NewText: expected ErrReleased, got %v", err)
	}
	if lib.Calls("TextNew") != 0 {
		t.Errorf("NewText: expected no native call, got %d", lib.Calls("TextNew"))
	}
}
