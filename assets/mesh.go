// Package assets decodes mesh, image and font files into CPU-side data ready
// for GPU upload, and plays back skeletal animations.
package assets

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"renderlib/math"
)

// MaxJoints is the largest skeleton a mesh may carry.
const MaxJoints = 100

// Vertex is the interleaved vertex layout uploaded to the GPU.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
	Joints   [4]uint8
	Weights  [4]float32
}

// MeshData is an indexed triangle mesh with an optional skeleton.
type MeshData struct {
	Name       string
	Vertices   []Vertex
	Indices    []uint32
	Transform  math.Mat // root transform applied before the model matrix
	Skeleton   *Skeleton
	Animations []*Animation
}

// Skinned reports whether the mesh can be animated.
func (m *MeshData) Skinned() bool {
	return m.Skeleton != nil && len(m.Skeleton.Joints) > 0
}

// Skeleton is a joint hierarchy. Joints may be stored in any order.
type Skeleton struct {
	Joints []Joint
}

// Joint is one bone. Parent is -1 for a root joint.
type Joint struct {
	Name        string
	Parent      int
	InvBindPose math.Mat
}

// Animation is a sequence of skeleton key poses.
type Animation struct {
	Name       string
	Duration   float32 // in ticks
	Speed      float32 // ticks per second, 0 selects DefaultTicksPerSecond
	Timestamps []float32
	Poses      []SkeletonPose
}

// SkeletonPose holds one JointPose per skeleton joint.
type SkeletonPose struct {
	Joints []JointPose
}

// JointPose is a joint's local transform at a key pose.
type JointPose struct {
	Translation math.Vec
	Rotation    math.Qtr
	Scale       math.Vec
}

// Mat returns the local transform translation * rotation * scale.
func (p JointPose) Mat() math.Mat {
	return math.TRS(p.Translation, p.Rotation, p.Scale)
}

func restPose() JointPose {
	return JointPose{Rotation: math.QtrIdentity(), Scale: math.Vec3(1, 1, 1)}
}

var glbMagic = []byte("glTF")

// LoadMesh reads a mesh file. The format is picked from the extension:
// .obj, .gltf and .glb; anything else is read as a .mesh file.
func LoadMesh(path string) (*MeshData, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mesh %q: %w", path, err)
	}
	m, err := DecodeMeshFile(data)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", path, err)
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return m, nil
}

// DecodeMesh decodes an in-memory mesh. Binary glTF and glTF JSON are
// recognised by their first bytes; anything else is read as a .mesh file.
func DecodeMesh(data []byte) (*MeshData, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(data, glbMagic) || bytes.HasPrefix(trimmed, []byte("{")) {
		return DecodeGLTF(data)
	}
	return DecodeMeshFile(data)
}

func (m *MeshData) validate() error {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return ErrNoGeometry
	}
	for _, i := range m.Indices {
		if int(i) >= len(m.Vertices) {
			return fmt.Errorf("index %d out of range (%d vertices): %w", i, len(m.Vertices), ErrInvalidMesh)
		}
	}
	if m.Skinned() {
		if len(m.Skeleton.Joints) > MaxJoints {
			return fmt.Errorf("%d joints: %w", len(m.Skeleton.Joints), ErrTooManyJoints)
		}
		for _, v := range m.Vertices {
			for _, j := range v.Joints {
				if int(j) >= len(m.Skeleton.Joints) {
					return fmt.Errorf("vertex joint %d out of range: %w", j, ErrInvalidMesh)
				}
			}
		}
	}
	return nil
}
