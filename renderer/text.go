package renderer

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"renderlib/native"
)

// Text is a laid-out string bound to a font. The text keeps its font alive.
type Text struct {
	owned
	lib    native.Library
	native native.TextHandle
	font   *handle
	str    string
}

// NewText creates an empty text drawn with font.
func (r *Renderer) NewText(font *Font) (*Text, error) {
	if font == nil {
		return nil, ErrNilResource
	}
	if err := font.usable(); err != nil {
		return nil, err
	}
	h := r.lib.TextNew(font.native)
	if h == 0 {
		return nil, &ResourceLoadError{Kind: KindText, Op: "create"}
	}
	t := &Text{lib: r.lib, native: h}
	borrow(&t.font, font.h)
	t.h = newHandle(func() {
		r.lib.TextFree(h)
		borrow(&t.font, nil)
	})
	return t, nil
}

// String returns the last string successfully set.
func (t *Text) String() string {
	return t.str
}

// SetString replaces the text's content. The string is normalised to NFC
// before layout. If the native layout fails, String keeps reporting the
// previous value and the native text is left as the library left it.
func (t *Text) SetString(s string) error {
	if err := t.usable(); err != nil {
		return err
	}
	if !utf8.ValidString(s) {
		return ErrInvalidUTF8
	}
	s = norm.NFC.String(s)
	if !t.lib.TextSetString(t.native, []byte(s)) {
		return &ResourceLoadError{Kind: KindText, Op: "set string"}
	}
	t.str = s
	return nil
}

// SetStringf formats according to format and sets the result.
func (t *Text) SetStringf(format string, args ...any) error {
	return t.SetString(fmt.Sprintf(format, args...))
}

// Width returns the laid-out width in pixels, or 0 once released.
func (t *Text) Width() uint32 {
	w, _ := t.size()
	return w
}

// Height returns the laid-out height in pixels, or 0 once released.
func (t *Text) Height() uint32 {
	_, h := t.size()
	return h
}

func (t *Text) size() (uint32, uint32) {
	if t.usable() != nil {
		return 0, 0
	}
	return t.lib.TextSize(t.native)
}
