package assets

import (
	"fmt"
	"image"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Font is an OpenType face at a fixed point size, rendered at 72 DPI so one
// point is one pixel.
type Font struct {
	Name string
	Size uint32

	face    font.Face
	ascent  int
	descent int
}

// LoadFont reads a TrueType or OpenType file.
func LoadFont(path string, pt uint32) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %q: %w", path, err)
	}
	f, err := ParseFont(data, pt)
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", path, err)
	}
	return f, nil
}

// ParseFont parses font data held in memory.
func ParseFont(data []byte, pt uint32) (*Font, error) {
	if pt == 0 {
		return nil, ErrInvalidPtSize
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    float64(pt),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	m := face.Metrics()
	f := &Font{
		Size:    pt,
		face:    face,
		ascent:  m.Ascent.Ceil(),
		descent: m.Descent.Ceil(),
	}
	if name, err := otf.Name(nil, sfnt.NameIDFamily); err == nil {
		f.Name = name
	}
	return f, nil
}

// LineHeight is the height of one line of text in pixels.
func (f *Font) LineHeight() int {
	return f.ascent + f.descent
}

// Close releases the face.
func (f *Font) Close() error {
	return f.face.Close()
}

// TextLayout is a single line of text measured against a font. Text is
// not wrapped; newlines are drawn as missing glyphs.
type TextLayout struct {
	String   string
	Width    int
	Height   int
	Baseline int // distance from the top edge to the baseline
}

// Layout measures s.
func (f *Font) Layout(s string) TextLayout {
	return TextLayout{
		String:   s,
		Width:    font.MeasureString(f.face, s).Ceil(),
		Height:   f.LineHeight(),
		Baseline: f.ascent,
	}
}

// Rasterize draws the laid-out text into an 8-bit coverage bitmap. An empty
// string yields a 1x1 transparent bitmap so it can still be uploaded.
func (f *Font) Rasterize(l TextLayout) *image.Alpha {
	w, h := l.Width, l.Height
	if w <= 0 || h <= 0 {
		return image.NewAlpha(image.Rect(0, 0, 1, 1))
	}
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  dst,
		Src:  image.Opaque,
		Face: f.face,
		Dot:  fixed.P(0, l.Baseline),
	}
	d.DrawString(l.String)
	return dst
}
