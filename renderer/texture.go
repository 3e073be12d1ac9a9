package renderer

import "renderlib/native"

// Texture owns a native GPU texture.
type Texture struct {
	owned
	native native.TextureHandle
	typ    native.TextureType
}

// TextureFromImage uploads img. The image may be closed afterwards.
func (r *Renderer) TextureFromImage(img *Image, typ native.TextureType) (*Texture, error) {
	if img == nil {
		return nil, ErrNilResource
	}
	if err := img.usable(); err != nil {
		return nil, err
	}
	h := r.lib.TextureFromImage(img.native, typ)
	if h == 0 {
		return nil, &ResourceLoadError{Kind: KindTexture, Op: "create " + typ.String() + " from image"}
	}
	tex := &Texture{native: h, typ: typ}
	tex.h = newHandle(func() { r.lib.TextureFree(h) })
	return tex, nil
}

func (t *Texture) Type() native.TextureType { return t.typ }
