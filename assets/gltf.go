package assets

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"renderlib/math"
)

// LoadGLTF opens a .glb or .gltf file. Every mesh primitive in the default
// scene is merged into one MeshData; unskinned geometry is baked into world
// space. The first skin and every animation driving it are imported.
func LoadGLTF(path string) (*MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	m, err := meshFromGLTF(doc)
	if err != nil {
		return nil, fmt.Errorf("gltf %q: %w", path, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// DecodeGLTF decodes a self-contained glTF document (binary or JSON with
// embedded buffers).
func DecodeGLTF(data []byte) (*MeshData, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("gltf decode: %w", err)
	}
	m, err := meshFromGLTF(doc)
	if err != nil {
		return nil, fmt.Errorf("gltf: %w", err)
	}
	return m, nil
}

type gltfImporter struct {
	doc     *gltf.Document
	parents []int
	world   []math.Mat
	done    []bool

	skin    *gltf.Skin
	jointOf map[int]int // node index -> joint index
	mesh    *MeshData
}

func meshFromGLTF(doc *gltf.Document) (*MeshData, error) {
	imp := &gltfImporter{
		doc:     doc,
		parents: make([]int, len(doc.Nodes)),
		world:   make([]math.Mat, len(doc.Nodes)),
		done:    make([]bool, len(doc.Nodes)),
		jointOf: map[int]int{},
		mesh:    &MeshData{Transform: math.Identity()},
	}
	for i := range imp.parents {
		imp.parents[i] = -1
	}
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			if c < len(imp.parents) {
				imp.parents[c] = i
			}
		}
	}
	if len(doc.Skins) > 0 {
		if err := imp.loadSkin(doc.Skins[0]); err != nil {
			return nil, err
		}
	}

	for _, ni := range imp.meshNodes() {
		n := doc.Nodes[ni]
		gm := doc.Meshes[*n.Mesh]
		if imp.mesh.Name == "" {
			imp.mesh.Name = gm.Name
		}
		skinned := n.Skin != nil && imp.skin != nil && doc.Skins[*n.Skin] == imp.skin
		for pi, prim := range gm.Primitives {
			if err := imp.addPrimitive(prim, ni, skinned); err != nil {
				return nil, fmt.Errorf("mesh %d prim %d: %w", *n.Mesh, pi, err)
			}
		}
	}
	if imp.skin != nil {
		if err := imp.loadAnimations(); err != nil {
			return nil, err
		}
	}
	if err := imp.mesh.validate(); err != nil {
		return nil, err
	}
	return imp.mesh, nil
}

// meshNodes lists the nodes carrying a mesh, in default scene order when the
// document has one and in node order otherwise.
func (imp *gltfImporter) meshNodes() []int {
	doc := imp.doc
	var out []int
	var walk func(i int)
	walk = func(i int) {
		if i >= len(doc.Nodes) {
			return
		}
		n := doc.Nodes[i]
		if n.Mesh != nil && *n.Mesh < len(doc.Meshes) {
			out = append(out, i)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		for _, root := range doc.Scenes[*doc.Scene].Nodes {
			walk(root)
		}
		return out
	}
	for i := range doc.Nodes {
		if imp.parents[i] == -1 {
			walk(i)
		}
	}
	if len(out) == 0 {
		// a bare mesh with no node referencing it
		for i := range doc.Meshes {
			doc.Nodes = append(doc.Nodes, &gltf.Node{Mesh: gltf.Index(i)})
			imp.parents = append(imp.parents, -1)
			imp.world = append(imp.world, math.Mat{})
			imp.done = append(imp.done, false)
			out = append(out, len(doc.Nodes)-1)
		}
	}
	return out
}

func (imp *gltfImporter) addPrimitive(prim *gltf.Primitive, node int, skinned bool) error {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil
	}
	doc := imp.doc
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	var joints [][4]uint16
	var weights [][4]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}
	if skinned {
		if idx, ok := prim.Attributes["JOINTS_0"]; ok {
			if joints, err = modeler.ReadJoints(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("joints: %w", err)
			}
		}
		if idx, ok := prim.Attributes["WEIGHTS_0"]; ok {
			if weights, err = modeler.ReadWeights(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("weights: %w", err)
			}
		}
	}

	world := math.Identity()
	if !skinned {
		world = imp.worldMat(node)
	}
	normalMat := world.Inverse().Transpose()

	base := uint32(len(imp.mesh.Vertices))
	for i, p := range positions {
		pos := world.MulVec(math.Point(p[0], p[1], p[2]))
		v := Vertex{
			Position: [3]float32{pos[0], pos[1], pos[2]},
			Normal:   [3]float32{0, 1, 0},
		}
		if i < len(normals) {
			n := normalMat.MulVec(math.Vec3(normals[i][0], normals[i][1], normals[i][2])).Norm()
			v.Normal = [3]float32{n[0], n[1], n[2]}
		}
		if i < len(uvs) {
			v.UV = uvs[i]
		}
		if i < len(joints) && i < len(weights) {
			for k := 0; k < 4; k++ {
				if joints[i][k] >= MaxJoints {
					return fmt.Errorf("vertex %d joint %d: %w", i, joints[i][k], ErrTooManyJoints)
				}
				v.Joints[k] = uint8(joints[i][k])
			}
			v.Weights = weights[i]
		}
		imp.mesh.Vertices = append(imp.mesh.Vertices, v)
	}

	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("indices: %w", err)
		}
		for _, i := range indices {
			imp.mesh.Indices = append(imp.mesh.Indices, base+i)
		}
	} else {
		for i := range positions {
			imp.mesh.Indices = append(imp.mesh.Indices, base+uint32(i))
		}
	}
	return nil
}

func (imp *gltfImporter) localMat(i int) math.Mat {
	n := imp.doc.Nodes[i]
	if n.Matrix != [16]float64{} && n.Matrix != gltf.DefaultMatrix {
		var m math.Mat
		for k, v := range n.Matrix {
			m[k] = float32(v)
		}
		return m
	}
	return nodePose(n).Mat()
}

func (imp *gltfImporter) worldMat(i int) math.Mat {
	if imp.done[i] {
		return imp.world[i]
	}
	m := imp.localMat(i)
	if p := imp.parents[i]; p >= 0 {
		m = imp.worldMat(p).Mul(m)
	}
	imp.world[i] = m
	imp.done[i] = true
	return m
}

func nodePose(n *gltf.Node) JointPose {
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault() // [x, y, z, w]
	s := n.ScaleOrDefault()
	return JointPose{
		Translation: math.Vec3(float32(t[0]), float32(t[1]), float32(t[2])),
		Rotation:    math.Qtr{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])},
		Scale:       math.Vec3(float32(s[0]), float32(s[1]), float32(s[2])),
	}
}

func (imp *gltfImporter) loadSkin(skin *gltf.Skin) error {
	if len(skin.Joints) > MaxJoints {
		return fmt.Errorf("skin %q: %d joints: %w", skin.Name, len(skin.Joints), ErrTooManyJoints)
	}
	doc := imp.doc
	var ibm [][4][4]float32
	if skin.InverseBindMatrices != nil {
		data, err := modeler.ReadAccessor(doc, doc.Accessors[*skin.InverseBindMatrices], nil)
		if err != nil {
			return fmt.Errorf("skin %q inverse bind matrices: %w", skin.Name, err)
		}
		var ok bool
		if ibm, ok = data.([][4][4]float32); !ok {
			return fmt.Errorf("skin %q inverse bind matrices: unexpected %T: %w", skin.Name, data, ErrInvalidMesh)
		}
	}

	skel := &Skeleton{Joints: make([]Joint, len(skin.Joints))}
	for j, ni := range skin.Joints {
		imp.jointOf[ni] = j
	}
	for j, ni := range skin.Joints {
		joint := Joint{Parent: -1, InvBindPose: math.Identity()}
		if ni < len(doc.Nodes) {
			joint.Name = doc.Nodes[ni].Name
			// nearest ancestor that is also a joint
			for p := imp.parents[ni]; p >= 0; p = imp.parents[p] {
				if pj, ok := imp.jointOf[p]; ok {
					joint.Parent = pj
					break
				}
			}
		}
		if j < len(ibm) {
			joint.InvBindPose = mat4x4(ibm[j])
		}
		skel.Joints[j] = joint
	}
	imp.skin = skin
	imp.mesh.Skeleton = skel
	return nil
}

// mat4x4 converts an accessor MAT4 element, stored column by column.
func mat4x4(c [4][4]float32) math.Mat {
	var m math.Mat
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			m[col*4+row] = c[col][row]
		}
	}
	return m
}

type gltfTrack struct {
	joint  int
	path   gltf.TRSProperty
	times  []float32
	values [][4]float32
}

// loadAnimations resamples every clip onto the union of its keyframe times
// so each key pose holds a full skeleton. Times are seconds, so clips run at
// one tick per second.
func (imp *gltfImporter) loadAnimations() error {
	doc := imp.doc
	for ai, ga := range doc.Animations {
		var tracks []gltfTrack
		timeset := map[float32]bool{}
		for _, ch := range ga.Channels {
			if ch.Target.Node == nil || ch.Sampler >= len(ga.Samplers) {
				continue
			}
			joint, ok := imp.jointOf[*ch.Target.Node]
			if !ok || ch.Target.Path == gltf.TRSWeights {
				continue
			}
			s := ga.Samplers[ch.Sampler]
			tr, err := imp.readTrack(s, ch.Target.Path)
			if err != nil {
				return fmt.Errorf("animation %d: %w", ai, err)
			}
			tr.joint = joint
			for _, t := range tr.times {
				timeset[t] = true
			}
			tracks = append(tracks, tr)
		}
		if len(tracks) == 0 {
			continue
		}

		times := make([]float32, 0, len(timeset))
		for t := range timeset {
			times = append(times, t)
		}
		sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

		name := ga.Name
		if name == "" {
			name = fmt.Sprintf("animation_%d", ai)
		}
		anim := &Animation{
			Name:       name,
			Duration:   times[len(times)-1],
			Speed:      1,
			Timestamps: times,
			Poses:      make([]SkeletonPose, len(times)),
		}
		rest := make([]JointPose, len(imp.skin.Joints))
		for j, ni := range imp.skin.Joints {
			rest[j] = restPose()
			if ni < len(doc.Nodes) {
				rest[j] = nodePose(doc.Nodes[ni])
			}
		}
		for k, t := range times {
			joints := append([]JointPose(nil), rest...)
			for _, tr := range tracks {
				v := tr.sample(t)
				p := &joints[tr.joint]
				switch tr.path {
				case gltf.TRSTranslation:
					p.Translation = math.Vec3(v[0], v[1], v[2])
				case gltf.TRSRotation:
					p.Rotation = math.Qtr{X: v[0], Y: v[1], Z: v[2], W: v[3]}.Normalize()
				case gltf.TRSScale:
					p.Scale = math.Vec3(v[0], v[1], v[2])
				}
			}
			anim.Poses[k] = SkeletonPose{Joints: joints}
		}
		if anim.Duration <= 0 {
			anim.Duration = 1
		}
		imp.mesh.Animations = append(imp.mesh.Animations, anim)
	}
	return nil
}

func (imp *gltfImporter) readTrack(s *gltf.AnimationSampler, path gltf.TRSProperty) (gltfTrack, error) {
	doc := imp.doc
	tr := gltfTrack{path: path}
	in, err := modeler.ReadAccessor(doc, doc.Accessors[s.Input], nil)
	if err != nil {
		return tr, fmt.Errorf("sampler input: %w", err)
	}
	times, ok := in.([]float32)
	if !ok {
		return tr, fmt.Errorf("sampler input: unexpected %T: %w", in, ErrInvalidMesh)
	}
	out, err := modeler.ReadAccessor(doc, doc.Accessors[s.Output], nil)
	if err != nil {
		return tr, fmt.Errorf("sampler output: %w", err)
	}
	switch v := out.(type) {
	case [][3]float32:
		for _, e := range v {
			tr.values = append(tr.values, [4]float32{e[0], e[1], e[2], 0})
		}
	case [][4]float32:
		tr.values = v
	default:
		return tr, fmt.Errorf("sampler output: unexpected %T: %w", out, ErrInvalidMesh)
	}
	if s.Interpolation == gltf.InterpolationCubicSpline {
		// in-tangent, value, out-tangent triplets; keep the values
		vals := make([][4]float32, 0, len(tr.values)/3)
		for i := 1; i < len(tr.values); i += 3 {
			vals = append(vals, tr.values[i])
		}
		tr.values = vals
	}
	if len(times) == 0 || len(tr.values) < len(times) {
		return tr, fmt.Errorf("sampler: %d keys for %d values: %w", len(times), len(tr.values), ErrInvalidMesh)
	}
	tr.times = times
	return tr, nil
}

// sample interpolates the track linearly, slerping rotations.
func (tr gltfTrack) sample(t float32) [4]float32 {
	n := len(tr.times)
	if t <= tr.times[0] {
		return tr.values[0]
	}
	if t >= tr.times[n-1] {
		return tr.values[n-1]
	}
	i := sort.Search(n, func(i int) bool { return tr.times[i] > t }) - 1
	a, b := tr.values[i], tr.values[i+1]
	f := (t - tr.times[i]) / (tr.times[i+1] - tr.times[i])
	if tr.path == gltf.TRSRotation {
		q := math.Qtr{X: a[0], Y: a[1], Z: a[2], W: a[3]}.Slerp(math.Qtr{X: b[0], Y: b[1], Z: b[2], W: b[3]}, f)
		return [4]float32{q.X, q.Y, q.Z, q.W}
	}
	return [4]float32(math.Vec(a).Lerp(math.Vec(b), f))
}
