package assets

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestFontLayout(t *testing.T) {
	f, err := ParseFont(goregular.TTF, 16)
	if err != nil {
		t.Fatalf("ParseFont: %v", err)
	}
	defer f.Close()

	if f.Name != "Go" {
		t.Errorf("Name: expected Go, got %q", f.Name)
	}
	short := f.Layout("hi")
	long := f.Layout("hello world")
	if short.Width <= 0 || long.Width <= short.Width {
		t.Errorf("Layout: expected longer text to be wider, got %d and %d", short.Width, long.Width)
	}
	if long.Height != f.LineHeight() || long.Baseline <= 0 || long.Baseline > long.Height {
		t.Errorf("Layout: height %d baseline %d line height %d", long.Height, long.Baseline, f.LineHeight())
	}

	bmp := f.Rasterize(long)
	if bmp.Bounds().Dx() != long.Width || bmp.Bounds().Dy() != long.Height {
		t.Errorf("Rasterize: expected %dx%d, got %v", long.Width, long.Height, bmp.Bounds())
	}
	covered := 0
	for _, a := range bmp.Pix {
		if a > 0 {
			covered++
		}
	}
	if covered == 0 {
		t.Error("Rasterize: expected some glyph coverage")
	}
}

func TestFontEmptyString(t *testing.T) {
	f, _ := ParseFont(goregular.TTF, 12)
	defer f.Close()
	l := f.Layout("")
	if l.Width != 0 {
		t.Errorf("Layout: expected zero width, got %d", l.Width)
	}
	if b := f.Rasterize(l).Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("Rasterize: expected 1x1 placeholder, got %v", b)
	}
}

func TestParseFontErrors(t *testing.T) {
	if _, err := ParseFont(goregular.TTF, 0); !errors.Is(err, ErrInvalidPtSize) {
		t.Errorf("ParseFont: expected ErrInvalidPtSize, got %v", err)
	}
	if _, err := ParseFont([]byte("nope"), 12); err == nil {
		t.Error("ParseFont: expected error for garbage")
	}
	if _, err := LoadFont("missing.ttf", 12); err == nil {
		t.Error("LoadFont: expected error for missing file")
	}
}
