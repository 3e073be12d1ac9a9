package renderer

import "renderlib/native"

// Mesh owns a native mesh and the animations defined in it.
type Mesh struct {
	owned
	native     native.MeshHandle
	animations []*Animation
}

// MeshFromFile loads a mesh file.
func (r *Renderer) MeshFromFile(path string) (*Mesh, error) {
	h := r.lib.MeshFromFile(path)
	if h == 0 {
		return nil, &ResourceLoadError{Kind: KindMesh, Op: "load from file", Source: path}
	}
	return r.newMesh(h), nil
}

// MeshFromBuffer loads a mesh from an in-memory copy of a mesh file.
func (r *Renderer) MeshFromBuffer(data []byte) (*Mesh, error) {
	h := r.lib.MeshFromBuffer(data)
	if h == 0 {
		return nil, &ResourceLoadError{Kind: KindMesh, Op: "load from buffer"}
	}
	return r.newMesh(h), nil
}

func (r *Renderer) newMesh(h native.MeshHandle) *Mesh {
	m := &Mesh{native: h}
	m.h = newHandle(func() { r.lib.MeshFree(h) })
	for i, a := range r.lib.MeshAnimations(h) {
		info := r.lib.AnimationInfo(a)
		m.animations = append(m.animations, &Animation{
			mesh:     m,
			native:   a,
			index:    i,
			name:     info.Name,
			duration: info.Duration,
			speed:    info.Speed,
		})
	}
	return m
}

// Animations returns the animations defined in the mesh. They belong to the
// mesh and become unusable once it is released.
func (m *Mesh) Animations() []*Animation {
	return m.animations
}
