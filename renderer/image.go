package renderer

import "renderlib/native"

// Image owns a decoded native image.
type Image struct {
	owned
	native native.ImageHandle
	info   native.ImageInfo
}

func (r *Renderer) ImageFromFile(path string) (*Image, error) {
	h := r.lib.ImageFromFile(path)
	if h == 0 {
		return nil, &ResourceLoadError{Kind: KindImage, Op: "load from file", Source: path}
	}
	return r.newImage(h), nil
}

// ImageFromBuffer decodes an encoded image held in memory.
func (r *Renderer) ImageFromBuffer(data []byte, codec native.ImageCodec) (*Image, error) {
	h := r.lib.ImageFromBuffer(data, codec)
	if h == 0 {
		return nil, &ResourceLoadError{Kind: KindImage, Op: "load " + codec.String() + " from buffer"}
	}
	return r.newImage(h), nil
}

func (r *Renderer) newImage(h native.ImageHandle) *Image {
	img := &Image{native: h, info: r.lib.ImageInfo(h)}
	img.h = newHandle(func() { r.lib.ImageFree(h) })
	return img
}

func (img *Image) Width() uint32 { return img.info.Width }

func (img *Image) Height() uint32 { return img.info.Height }

func (img *Image) Format() native.ImageFormat { return img.info.Format }
