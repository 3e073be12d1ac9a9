// Package native describes the ABI of the native rendering library: the
// functions it exports, the opaque handles it hands out and the fixed-layout
// structs it reads render parameters from.
//
// A zero handle is the library's null sentinel. Implementations are not safe
// for concurrent use; every call must come from the thread that owns the
// rendering context.
package native

type (
	MeshHandle              uintptr
	FontHandle              uintptr
	ImageHandle             uintptr
	TextureHandle           uintptr
	TextHandle              uintptr
	AnimationHandle         uintptr
	AnimationInstanceHandle uintptr
)

// ImageCodec selects the decoder for ImageFromBuffer.
type ImageCodec int32

const (
	ImageCodecPNG ImageCodec = iota
	ImageCodecJPEG
)

func (c ImageCodec) String() string {
	switch c {
	case ImageCodecPNG:
		return "png"
	case ImageCodecJPEG:
		return "jpeg"
	default:
		return "unknown"
	}
}

// ImageFormat is the pixel layout of a decoded image.
type ImageFormat int32

const (
	ImageFormatRGBA ImageFormat = iota
	ImageFormatRGB
)

func (f ImageFormat) String() string {
	switch f {
	case ImageFormatRGBA:
		return "rgba"
	case ImageFormatRGB:
		return "rgb"
	default:
		return "unknown"
	}
}

// TextureType is the GL texture target a texture is created for.
type TextureType uint32

// Values are the GL enums GL_TEXTURE_2D and GL_TEXTURE_RECTANGLE.
const (
	Texture2D        TextureType = 0x0DE1
	TextureRectangle TextureType = 0x84F5
)

func (t TextureType) String() string {
	switch t {
	case Texture2D:
		return "2d"
	case TextureRectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

// ImageInfo mirrors the public fields of the native image struct.
type ImageInfo struct {
	Width  uint32
	Height uint32
	Format ImageFormat
}

// AnimationInfo mirrors the public fields of the native animation struct.
type AnimationInfo struct {
	Name     string
	Duration float32 // in ticks
	Speed    float32 // ticks per second, 0 = library default
}

// Library is the function surface of the native rendering library.
// Boolean results report success; handle results are zero on failure.
type Library interface {
	Init() bool
	Clear()
	Present() bool
	Shutdown()

	MeshFromFile(path string) MeshHandle
	MeshFromBuffer(data []byte) MeshHandle
	MeshAnimations(mesh MeshHandle) []AnimationHandle
	MeshFree(mesh MeshHandle)

	FontFromFile(path string, pt uint32) FontHandle
	FontFromBuffer(data []byte, pt uint32) FontHandle
	FontFree(font FontHandle)

	ImageFromFile(path string) ImageHandle
	ImageFromBuffer(data []byte, codec ImageCodec) ImageHandle
	ImageInfo(image ImageHandle) ImageInfo
	ImageFree(image ImageHandle)

	TextureFromImage(image ImageHandle, typ TextureType) TextureHandle
	TextureFree(tex TextureHandle)

	TextNew(font FontHandle) TextHandle
	TextSetString(text TextHandle, utf8 []byte) bool
	TextSize(text TextHandle) (width, height uint32)
	TextFree(text TextHandle)

	AnimationInfo(anim AnimationHandle) AnimationInfo
	AnimationInstanceNew(anim AnimationHandle) AnimationInstanceHandle
	AnimationInstancePlay(inst AnimationInstanceHandle, dt float32) bool
	AnimationInstanceFree(inst AnimationInstanceHandle)

	RenderMesh(mesh MeshHandle, props *MeshRenderProps) bool
	RenderText(text TextHandle, props *TextRenderProps) bool
	RenderQuad(width, height float32, props *QuadRenderProps) bool
}
