package opengl

import (
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"renderlib/assets"
)

// gpuMesh holds the buffer objects of an uploaded mesh.
type gpuMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// ensureUploaded uploads the mesh's vertex and index data on first use.
func (m *mesh) ensureUploaded() *gpuMesh {
	if m.gpu != nil {
		return m.gpu
	}
	if len(m.data.Vertices) == 0 || len(m.data.Indices) == 0 {
		return nil
	}

	var v assets.Vertex
	stride := int32(unsafe.Sizeof(v))
	gpu := &gpuMesh{indexCount: int32(len(m.data.Indices))}

	gl.GenVertexArrays(1, &gpu.vao)
	gl.GenBuffers(1, &gpu.vbo)
	gl.BindVertexArray(gpu.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.data.Vertices)*int(stride), gl.Ptr(m.data.Vertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Position))))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Normal))))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.UV))))

	// joint indices stay integers in the shader
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribIPointer(3, 4, gl.UNSIGNED_BYTE, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Joints))))

	gl.EnableVertexAttribArray(4)
	gl.VertexAttribPointer(4, 4, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Weights))))

	gl.GenBuffers(1, &gpu.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.data.Indices)*4, gl.Ptr(m.data.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	m.gpu = gpu
	return gpu
}

func (g *gpuMesh) draw() {
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (g *gpuMesh) destroy() {
	if g == nil {
		return
	}
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
	}
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
	}
	*g = gpuMesh{}
}
