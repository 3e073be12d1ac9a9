package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"renderlib/math"
)

const quadOBJ = `# unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3 4/4
`

func TestDecodeOBJ(t *testing.T) {
	m, err := DecodeOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("DecodeOBJ: %v", err)
	}
	if m.Name != "quad" {
		t.Errorf("Name: expected quad, got %q", m.Name)
	}
	if len(m.Vertices) != 4 || len(m.Indices) != 6 {
		t.Fatalf("DecodeOBJ: expected 4 vertices 6 indices, got %d and %d", len(m.Vertices), len(m.Indices))
	}
	for i, v := range m.Vertices {
		if v.Normal != [3]float32{0, 0, 1} {
			t.Errorf("vertex %d: expected generated normal +Z, got %v", i, v.Normal)
		}
	}
	if m.Vertices[2].UV != [2]float32{1, 1} {
		t.Errorf("UV: expected [1 1], got %v", m.Vertices[2].UV)
	}
	if m.Skinned() {
		t.Error("Skinned: expected static mesh")
	}
}

func TestDecodeOBJNegativeIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf -3//-1 -2//-1 -1//-1\n"
	m, err := DecodeOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("DecodeOBJ: %v", err)
	}
	if len(m.Vertices) != 3 || m.Vertices[1].Position != [3]float32{1, 0, 0} {
		t.Errorf("DecodeOBJ: got %+v", m.Vertices)
	}
}

func TestDecodeOBJNoFaces(t *testing.T) {
	_, err := DecodeOBJ(strings.NewReader("v 0 0 0\n"))
	if !errors.Is(err, ErrNoGeometry) {
		t.Errorf("DecodeOBJ: expected ErrNoGeometry, got %v", err)
	}
}

func TestLoadMeshByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(quadOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	if m.Name != "quad" || len(m.Indices) != 6 {
		t.Errorf("LoadMesh: got %q with %d indices", m.Name, len(m.Indices))
	}

	if _, err := LoadMesh(filepath.Join(t.TempDir(), "missing.mesh")); err == nil {
		t.Error("LoadMesh: expected error for missing file")
	}
}

func writeGLTF(t *testing.T, doc *gltf.Document) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func triangleDoc() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{"POSITION": pos},
		}},
	}}
	doc.Nodes = []*gltf.Node{{
		Mesh:        gltf.Index(0),
		Translation: [3]float64{0, 0, 5},
	}}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}
	doc.Scene = gltf.Index(0)
	return doc
}

func TestLoadGLTFBakesNodeTransform(t *testing.T) {
	m, err := LoadGLTF(writeGLTF(t, triangleDoc()))
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if m.Name != "tri" {
		t.Errorf("Name: expected tri, got %q", m.Name)
	}
	if len(m.Vertices) != 3 || len(m.Indices) != 3 {
		t.Fatalf("LoadGLTF: expected 3 vertices 3 indices, got %d and %d", len(m.Vertices), len(m.Indices))
	}
	if m.Vertices[1].Position != [3]float32{1, 0, 5} {
		t.Errorf("Position: expected [1 0 5], got %v", m.Vertices[1].Position)
	}
}

func TestDecodeMeshSniffsGLB(t *testing.T) {
	data, err := os.ReadFile(writeGLTF(t, triangleDoc()))
	if err != nil {
		t.Fatal(err)
	}
	m, err := DecodeMesh(data)
	if err != nil {
		t.Fatalf("DecodeMesh: %v", err)
	}
	if len(m.Indices) != 3 {
		t.Errorf("DecodeMesh: expected 3 indices, got %d", len(m.Indices))
	}
}

func TestLoadGLTFSkin(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	joints := modeler.WriteJoints(doc, [][4]uint8{{0, 0, 0, 0}, {1, 0, 0, 0}, {1, 0, 0, 0}})
	weights := modeler.WriteWeights(doc, [][4]float32{{1, 0, 0, 0}, {1, 0, 0, 0}, {1, 0, 0, 0}})
	ibm := modeler.WriteAccessor(doc, gltf.TargetNone, [][4][4]float32{
		{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}},
		{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, -1, 0, 1}},
	})
	times := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 2})
	moves := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{0, 0, 0}, {4, 0, 0}})

	doc.Meshes = []*gltf.Mesh{{
		Name: "arm",
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(idx),
			Attributes: map[string]int{
				"POSITION":  pos,
				"JOINTS_0":  joints,
				"WEIGHTS_0": weights,
			},
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "root", Children: []int{1}},
		{Name: "hand", Translation: [3]float64{0, 1, 0}},
		{Name: "arm", Mesh: gltf.Index(0), Skin: gltf.Index(0)},
	}
	doc.Skins = []*gltf.Skin{{Name: "rig", Joints: []int{0, 1}, InverseBindMatrices: gltf.Index(ibm)}}
	doc.Animations = []*gltf.Animation{{
		Name:     "wave",
		Samplers: []*gltf.AnimationSampler{{Input: times, Output: moves}},
		Channels: []*gltf.AnimationChannel{{
			Sampler: 0,
			Target:  gltf.AnimationChannelTarget{Node: gltf.Index(0), Path: gltf.TRSTranslation},
		}},
	}}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0, 2}}}
	doc.Scene = gltf.Index(0)

	m, err := LoadGLTF(writeGLTF(t, doc))
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if !m.Skinned() || len(m.Skeleton.Joints) != 2 {
		t.Fatalf("Skeleton: expected 2 joints, got %+v", m.Skeleton)
	}
	if m.Skeleton.Joints[1].Parent != 0 || m.Skeleton.Joints[0].Parent != -1 {
		t.Errorf("Parent: expected hand under root, got %d and %d", m.Skeleton.Joints[1].Parent, m.Skeleton.Joints[0].Parent)
	}
	if got := m.Skeleton.Joints[1].InvBindPose.At(1, 3); got != -1 {
		t.Errorf("InvBindPose: expected y translation -1, got %v", got)
	}
	if m.Vertices[1].Joints[0] != 1 || m.Vertices[1].Weights[0] != 1 {
		t.Errorf("vertex skin: got joints %v weights %v", m.Vertices[1].Joints, m.Vertices[1].Weights)
	}

	if len(m.Animations) != 1 {
		t.Fatalf("Animations: expected 1, got %d", len(m.Animations))
	}
	a := m.Animations[0]
	if a.Name != "wave" || a.Duration != 2 || a.Speed != 1 || len(a.Poses) != 2 {
		t.Errorf("Animation: got %q duration %v speed %v poses %d", a.Name, a.Duration, a.Speed, len(a.Poses))
	}
	if a.Poses[1].Joints[0].Translation != math.Vec3(4, 0, 0) {
		t.Errorf("pose: expected root at x=4, got %v", a.Poses[1].Joints[0].Translation)
	}
	if a.Poses[1].Joints[1].Translation != math.Vec3(0, 1, 0) {
		t.Errorf("pose: expected hand at rest, got %v", a.Poses[1].Joints[1].Translation)
	}
}

func skinnedQuad() *MeshData {
	m, _ := DecodeOBJ(strings.NewReader(quadOBJ))
	for i := range m.Vertices {
		m.Vertices[i].Joints = [4]uint8{uint8(i % 2)}
		m.Vertices[i].Weights = [4]float32{1}
	}
	m.Transform = math.Scaling(math.Vec3(2, 2, 2))
	m.Skeleton = &Skeleton{Joints: []Joint{
		{Parent: -1, InvBindPose: math.Identity()},
		{Parent: 0, InvBindPose: math.Translation(math.Vec3(0, -1, 0))},
	}}
	still := restPose()
	moved := restPose()
	moved.Translation = math.Vec3(10, 0, 0)
	m.Animations = []*Animation{{
		Duration:   20,
		Timestamps: []float32{0, 10},
		Poses: []SkeletonPose{
			{Joints: []JointPose{still, still}},
			{Joints: []JointPose{moved, still}},
		},
	}}
	return m
}

func TestMeshFileEncodeDecode(t *testing.T) {
	src := skinnedQuad()
	data, err := EncodeMeshFile(src)
	if err != nil {
		t.Fatalf("EncodeMeshFile: %v", err)
	}
	m, err := DecodeMesh(data)
	if err != nil {
		t.Fatalf("DecodeMesh: %v", err)
	}
	if m.Transform != src.Transform {
		t.Errorf("Transform: expected %v, got %v", src.Transform, m.Transform)
	}
	if len(m.Vertices) != 4 || len(m.Indices) != 6 {
		t.Fatalf("geometry: got %d vertices %d indices", len(m.Vertices), len(m.Indices))
	}
	if m.Vertices[1].Joints[0] != 1 || m.Vertices[1].Weights[0] != 1 {
		t.Errorf("vertex skin: got %v %v", m.Vertices[1].Joints, m.Vertices[1].Weights)
	}
	if m.Skeleton.Joints[1].Parent != 0 || m.Skeleton.Joints[0].Parent != -1 {
		t.Errorf("parents: got %d %d", m.Skeleton.Joints[0].Parent, m.Skeleton.Joints[1].Parent)
	}
	if len(m.Animations) != 1 || m.Animations[0].Duration != 20 {
		t.Fatalf("Animations: got %+v", m.Animations)
	}
	if got := m.Animations[0].Poses[1].Joints[0].Translation; got != math.Vec3(10, 0, 0) {
		t.Errorf("pose translation: expected x=10, got %v", got)
	}
	if got := m.Animations[0].Poses[1].Joints[0].Rotation; got != math.QtrIdentity() {
		t.Errorf("pose rotation: expected identity, got %v", got)
	}
}

func TestMeshFileRejectsBadData(t *testing.T) {
	data, _ := EncodeMeshFile(skinnedQuad())

	if _, err := DecodeMeshFile(data[:40]); !errors.Is(err, ErrInvalidMesh) {
		t.Errorf("short header: expected ErrInvalidMesh, got %v", err)
	}
	if _, err := DecodeMeshFile(data[:meshHeaderSize+10]); !errors.Is(err, ErrInvalidMesh) {
		t.Errorf("truncated: expected ErrInvalidMesh, got %v", err)
	}
	bad := append([]byte(nil), data...)
	bad[0] = 9
	if _, err := DecodeMeshFile(bad); !errors.Is(err, ErrInvalidMesh) {
		t.Errorf("version: expected ErrInvalidMesh, got %v", err)
	}
	bad = append([]byte(nil), data...)
	bad[11] = MaxJoints + 1
	if _, err := DecodeMeshFile(bad); !errors.Is(err, ErrTooManyJoints) {
		t.Errorf("joints: expected ErrTooManyJoints, got %v", err)
	}
}
