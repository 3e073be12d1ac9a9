package opengl

import (
	"fmt"
	"image"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"renderlib/assets"
	"renderlib/native"
)

// uploadTexture creates a GL texture for img on target. 2D textures are
// mipmapped and repeat; rectangle textures are sampled in texels and clamp.
// Images larger than maxSize are scaled down first; the uploaded size is
// returned with the id.
func uploadTexture(img *assets.Image, target native.TextureType, maxSize int) (id uint32, w, h int, err error) {
	if img == nil || len(img.Pix) == 0 {
		return 0, 0, 0, fmt.Errorf("image has no pixel data")
	}
	if maxSize > 0 && (img.Width > maxSize || img.Height > maxSize) {
		img = img.Scaled(fitWithin(img.Width, img.Height, maxSize))
	}

	format := uint32(gl.RGBA)
	if img.Format == native.ImageFormatRGB {
		format = gl.RGB
	}

	t := uint32(target)
	gl.GenTextures(1, &id)
	gl.BindTexture(t, id)

	switch target {
	case native.TextureRectangle:
		gl.TexParameteri(t, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(t, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(t, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	default:
		gl.TexParameteri(t, gl.TEXTURE_WRAP_S, gl.REPEAT)
		gl.TexParameteri(t, gl.TEXTURE_WRAP_T, gl.REPEAT)
		gl.TexParameteri(t, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	}
	gl.TexParameteri(t, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// RGB rows are not 4-byte aligned in general
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(t, 0, int32(format), int32(img.Width), int32(img.Height), 0,
		format, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	if target == native.Texture2D {
		gl.GenerateMipmap(t)
	}
	gl.BindTexture(t, 0)

	if e := gl.GetError(); e != gl.NO_ERROR {
		gl.DeleteTextures(1, &id)
		return 0, 0, 0, fmt.Errorf("texture upload: GL error 0x%X", e)
	}
	return id, img.Width, img.Height, nil
}

// uploadCoverage uploads a single-channel text bitmap, or replaces the
// contents of id when it is non-zero.
func uploadCoverage(id uint32, bm *image.Alpha) uint32 {
	if id == 0 {
		gl.GenTextures(1, &id)
	}
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(bm.Stride))
	b := bm.Bounds()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(bm.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}

func deleteTexture(id *uint32) {
	if *id != 0 {
		gl.DeleteTextures(1, id)
		*id = 0
	}
}

// fitWithin scales w x h to fit a limit x limit square, keeping the aspect.
func fitWithin(w, h, limit int) (int, int) {
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}
