package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"renderlib/native"
)

// Image is decoded 8-bit pixel data, rows top to bottom.
type Image struct {
	Width, Height int
	Format        native.ImageFormat
	Pix           []byte
}

// Stride returns the length of one row in bytes.
func (img *Image) Stride() int {
	if img.Format == native.ImageFormatRGB {
		return img.Width * 3
	}
	return img.Width * 4
}

// LoadImage reads a PNG or JPEG file. The codec is picked from the
// extension.
func LoadImage(path string) (*Image, error) {
	codec := native.ImageCodecPNG
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		codec = native.ImageCodecJPEG
	case ".png":
	default:
		return nil, fmt.Errorf("image %q: %w", path, ErrUnknownCodec)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image %q: %w", path, err)
	}
	img, err := DecodeImage(data, codec)
	if err != nil {
		return nil, fmt.Errorf("image %q: %w", path, err)
	}
	return img, nil
}

// DecodeImage decodes PNG into RGBA and JPEG into RGB.
func DecodeImage(data []byte, codec native.ImageCodec) (*Image, error) {
	var (
		src image.Image
		err error
	)
	switch codec {
	case native.ImageCodecPNG:
		src, err = png.Decode(bytes.NewReader(data))
	case native.ImageCodecJPEG:
		src, err = jpeg.Decode(bytes.NewReader(data))
	default:
		return nil, ErrUnknownCodec
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", codec, err)
	}

	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)

	img := &Image{Width: b.Dx(), Height: b.Dy(), Format: native.ImageFormatRGBA, Pix: rgba.Pix}
	if codec == native.ImageCodecJPEG {
		img.Format = native.ImageFormatRGB
		img.Pix = packRGB(rgba)
	}
	return img, nil
}

func packRGB(rgba *image.RGBA) []byte {
	n := len(rgba.Pix) / 4
	out := make([]byte, n*3)
	for i := 0; i < n; i++ {
		copy(out[i*3:i*3+3], rgba.Pix[i*4:i*4+3])
	}
	return out
}

// RGBA returns the pixels as 4 bytes per pixel.
func (img *Image) RGBA() []byte {
	if img.Format == native.ImageFormatRGBA {
		return img.Pix
	}
	n := img.Width * img.Height
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		copy(out[i*4:i*4+3], img.Pix[i*3:i*3+3])
		out[i*4+3] = 0xff
	}
	return out
}

// Scaled returns a copy of img resized to w x h, as RGBA.
func (img *Image) Scaled(w, h int) *Image {
	src := &image.RGBA{Pix: img.RGBA(), Stride: img.Width * 4, Rect: image.Rect(0, 0, img.Width, img.Height)}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return &Image{Width: w, Height: h, Format: native.ImageFormatRGBA, Pix: dst.Pix}
}
