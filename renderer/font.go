package renderer

import "renderlib/native"

// Font owns a native font face at a fixed point size.
type Font struct {
	owned
	native native.FontHandle
	pt     uint32
}

func (r *Renderer) FontFromFile(path string, pt uint32) (*Font, error) {
	h := r.lib.FontFromFile(path, pt)
	if h == 0 {
		return nil, &ResourceLoadError{Kind: KindFont, Op: "load from file", Source: path}
	}
	return r.newFont(h, pt), nil
}

func (r *Renderer) FontFromBuffer(data []byte, pt uint32) (*Font, error) {
	h := r.lib.FontFromBuffer(data, pt)
	if h == 0 {
		return nil, &ResourceLoadError{Kind: KindFont, Op: "load from buffer"}
	}
	return r.newFont(h, pt), nil
}

func (r *Renderer) newFont(h native.FontHandle, pt uint32) *Font {
	f := &Font{native: h, pt: pt}
	f.h = newHandle(func() { r.lib.FontFree(h) })
	return f
}

// Size returns the point size the font was loaded at.
func (f *Font) Size() uint32 { return f.pt }
