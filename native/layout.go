package native

import "renderlib/math"

// Light is the native light struct.
type Light struct {
	Transform        math.Mat // light space (projection * view)
	Direction        math.Vec
	Color            math.Vec
	AmbientIntensity float32
	DiffuseIntensity float32
}

// Material is the native material struct.
type Material struct {
	Texture           TextureHandle
	Color             math.Vec
	ReceiveLight      int32
	SpecularIntensity float32
	SpecularPower     float32
}

// MeshRenderProps is the parameter block of one RenderMesh call. Nil
// pointers and zero handles disable the corresponding feature.
type MeshRenderProps struct {
	Eye                     math.Vec // viewer position
	Model, View, Projection math.Mat
	CastShadows             int32
	ReceiveShadows          int32
	Light                   *Light
	Animation               AnimationInstanceHandle
	Material                *Material
}

// TextRenderProps is the parameter block of one RenderText call.
type TextRenderProps struct {
	Model, View, Projection math.Mat
	Color                   math.Vec
	Opacity                 float32
}

// Borders are texture border sizes in texels for nine-slice quads.
type Borders struct {
	Left, Top     float32
	Right, Bottom float32
}

// QuadRenderProps is the parameter block of one RenderQuad call.
type QuadRenderProps struct {
	Model, View, Projection math.Mat
	Color                   math.Vec
	Texture                 TextureHandle
	Borders                 Borders
	Opacity                 float32 // 0 = transparent, 1 = opaque
}

// Bool converts a native int flag; any non-zero value is true.
func Bool(v int32) bool {
	return v != 0
}

// Int converts a flag to its native encoding.
func Int(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
