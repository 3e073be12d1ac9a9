package assets

import (
	"encoding/binary"
	"fmt"
	gomath "math"

	"renderlib/math"
)

// .mesh binary layout, little endian:
//
//	header   78 bytes: version u8, format u16, vertex count u32, index count
//	         u32, joint count u8, animation count u16, root transform 16 f32
//	vertices count * size, attributes selected by format
//	indices  count * u32
//	joints   count * (id u8, parent u8, inverse bind pose 16 f32)
//	anims    per animation: duration f32, speed f32, pose count u32,
//	         timestamps, then per pose and joint:
//	         id u8, translation 3 f32, rotation w x y z f32, scale 3 f32
const (
	meshVersion = 0<<4 | 1

	meshHeaderSize = 78
	meshJointSize  = 66
	meshAnimSize   = 12
	meshPoseSize   = 41
	meshIndexSize  = 4
	meshRootParent = 255

	formatPosition = 1
	formatNormal   = 1 << 1
	formatUV       = 1 << 2
	formatJoints   = 1 << 3
)

// DecodeMeshFile decodes the .mesh binary format.
func DecodeMeshFile(data []byte) (*MeshData, error) {
	r := &meshReader{data: data}
	if len(data) < meshHeaderSize || r.u8(0) != meshVersion {
		return nil, fmt.Errorf("bad header: %w", ErrInvalidMesh)
	}
	format := int(r.u16(1))
	vcount := int(r.u32(3))
	icount := int(r.u32(7))
	jcount := int(r.u8(11))
	acount := int(r.u16(12))
	if format&formatPosition == 0 || vcount == 0 || icount == 0 {
		return nil, fmt.Errorf("bad header: %w", ErrInvalidMesh)
	}
	if jcount > MaxJoints {
		return nil, fmt.Errorf("%d joints: %w", jcount, ErrTooManyJoints)
	}

	vsize := 12
	if format&formatNormal != 0 {
		vsize += 12
	}
	if format&formatUV != 0 {
		vsize += 8
	}
	if format&formatJoints != 0 {
		vsize += 8
	}
	voff := meshHeaderSize
	ioff := voff + vcount*vsize
	joff := ioff + icount*meshIndexSize
	aoff := joff + jcount*meshJointSize
	if len(data) < aoff {
		return nil, fmt.Errorf("truncated geometry: %w", ErrInvalidMesh)
	}

	m := &MeshData{Transform: r.mat(14)}
	m.Vertices = make([]Vertex, vcount)
	for i := range m.Vertices {
		off := voff + i*vsize
		v := Vertex{Normal: [3]float32{0, 1, 0}}
		v.Position = r.vec3(off)
		off += 12
		if format&formatNormal != 0 {
			v.Normal = r.vec3(off)
			off += 12
		}
		if format&formatUV != 0 {
			v.UV = [2]float32{r.f32(off), r.f32(off + 4)}
			off += 8
		}
		if format&formatJoints != 0 {
			copy(v.Joints[:], data[off:off+4])
			for k := 0; k < 4; k++ {
				v.Weights[k] = float32(data[off+4+k]) / 255
			}
		}
		m.Vertices[i] = v
	}
	m.Indices = make([]uint32, icount)
	for i := range m.Indices {
		m.Indices[i] = r.u32(ioff + i*meshIndexSize)
	}

	if jcount > 0 {
		skel := &Skeleton{Joints: make([]Joint, jcount)}
		for j := 0; j < jcount; j++ {
			off := joff + j*meshJointSize
			id := int(r.u8(off))
			if id >= jcount {
				return nil, fmt.Errorf("joint id %d: %w", id, ErrInvalidMesh)
			}
			parent := int(r.u8(off + 1))
			if parent == meshRootParent {
				parent = -1
			} else if parent >= jcount {
				return nil, fmt.Errorf("joint %d parent %d: %w", id, parent, ErrInvalidMesh)
			}
			skel.Joints[id] = Joint{Parent: parent, InvBindPose: r.mat(off + 2)}
		}
		m.Skeleton = skel

		anims, err := r.animations(aoff, acount, jcount)
		if err != nil {
			return nil, err
		}
		m.Animations = anims
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

type meshReader struct {
	data []byte
}

func (r *meshReader) u8(off int) uint8 { return r.data[off] }

func (r *meshReader) u16(off int) uint16 { return binary.LittleEndian.Uint16(r.data[off:]) }

func (r *meshReader) u32(off int) uint32 { return binary.LittleEndian.Uint32(r.data[off:]) }

func (r *meshReader) f32(off int) float32 { return gomath.Float32frombits(r.u32(off)) }

func (r *meshReader) vec3(off int) [3]float32 {
	return [3]float32{r.f32(off), r.f32(off + 4), r.f32(off + 8)}
}

func (r *meshReader) mat(off int) math.Mat {
	var m math.Mat
	for i := range m {
		m[i] = r.f32(off + i*4)
	}
	return m
}

func (r *meshReader) has(off, n int) bool {
	return off >= 0 && n >= 0 && off+n <= len(r.data)
}

func (r *meshReader) animations(off, count, jcount int) ([]*Animation, error) {
	anims := make([]*Animation, 0, count)
	for a := 0; a < count; a++ {
		if !r.has(off, meshAnimSize) {
			return nil, fmt.Errorf("truncated animation %d: %w", a, ErrInvalidMesh)
		}
		anim := &Animation{
			Duration: r.f32(off),
			Speed:    r.f32(off + 4),
		}
		poses := int(r.u32(off + 8))
		off += meshAnimSize
		if !r.has(off, poses*4+poses*jcount*meshPoseSize) {
			return nil, fmt.Errorf("truncated animation %d: %w", a, ErrInvalidMesh)
		}

		anim.Timestamps = make([]float32, poses)
		for t := range anim.Timestamps {
			anim.Timestamps[t] = r.f32(off)
			off += 4
		}
		anim.Poses = make([]SkeletonPose, poses)
		for p := range anim.Poses {
			joints := make([]JointPose, jcount)
			for j := 0; j < jcount; j++ {
				id := int(r.u8(off))
				if id >= jcount {
					return nil, fmt.Errorf("animation %d pose joint %d: %w", a, id, ErrInvalidMesh)
				}
				t := r.vec3(off + 1)
				s := r.vec3(off + 29)
				joints[id] = JointPose{
					Translation: math.Vec3(t[0], t[1], t[2]),
					Rotation: math.Qtr{
						W: r.f32(off + 13),
						X: r.f32(off + 17),
						Y: r.f32(off + 21),
						Z: r.f32(off + 25),
					},
					Scale: math.Vec3(s[0], s[1], s[2]),
				}
				off += meshPoseSize
			}
			anim.Poses[p] = SkeletonPose{Joints: joints}
		}
		anims = append(anims, anim)
	}
	return anims, nil
}

// EncodeMeshFile writes m in the .mesh binary format. Weights are quantised
// to bytes and joint names are dropped.
func EncodeMeshFile(m *MeshData) ([]byte, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	format := formatPosition | formatNormal | formatUV
	jcount := 0
	if m.Skinned() {
		format |= formatJoints
		jcount = len(m.Skeleton.Joints)
	}

	le := binary.LittleEndian
	buf := make([]byte, meshHeaderSize)
	buf[0] = meshVersion
	le.PutUint16(buf[1:], uint16(format))
	le.PutUint32(buf[3:], uint32(len(m.Vertices)))
	le.PutUint32(buf[7:], uint32(len(m.Indices)))
	buf[11] = uint8(jcount)
	if jcount > 0 {
		le.PutUint16(buf[12:], uint16(len(m.Animations)))
	}
	putMat(buf[14:], m.Transform)

	f32 := func(v float32) { buf = le.AppendUint32(buf, gomath.Float32bits(v)) }
	for _, v := range m.Vertices {
		for _, c := range v.Position {
			f32(c)
		}
		for _, c := range v.Normal {
			f32(c)
		}
		f32(v.UV[0])
		f32(v.UV[1])
		if jcount > 0 {
			buf = append(buf, v.Joints[:]...)
			for _, w := range v.Weights {
				buf = append(buf, uint8(gomath.Round(float64(w)*255)))
			}
		}
	}
	for _, i := range m.Indices {
		buf = le.AppendUint32(buf, i)
	}
	if jcount == 0 {
		return buf, nil
	}

	for id, j := range m.Skeleton.Joints {
		parent := uint8(meshRootParent)
		if j.Parent >= 0 {
			parent = uint8(j.Parent)
		}
		buf = append(buf, uint8(id), parent)
		buf = append(buf, make([]byte, 64)...)
		putMat(buf[len(buf)-64:], j.InvBindPose)
	}
	for _, a := range m.Animations {
		if len(a.Timestamps) != len(a.Poses) {
			return nil, fmt.Errorf("animation %q: %d timestamps for %d poses: %w", a.Name, len(a.Timestamps), len(a.Poses), ErrInvalidMesh)
		}
		for _, p := range a.Poses {
			if len(p.Joints) != jcount {
				return nil, fmt.Errorf("animation %q: pose with %d joints: %w", a.Name, len(p.Joints), ErrInvalidMesh)
			}
		}
		f32(a.Duration)
		f32(a.Speed)
		buf = le.AppendUint32(buf, uint32(len(a.Poses)))
		for _, t := range a.Timestamps {
			f32(t)
		}
		for _, p := range a.Poses {
			for id, jp := range p.Joints {
				buf = append(buf, uint8(id))
				f32(jp.Translation[0])
				f32(jp.Translation[1])
				f32(jp.Translation[2])
				f32(jp.Rotation.W)
				f32(jp.Rotation.X)
				f32(jp.Rotation.Y)
				f32(jp.Rotation.Z)
				f32(jp.Scale[0])
				f32(jp.Scale[1])
				f32(jp.Scale[2])
			}
		}
	}
	return buf, nil
}

func putMat(dst []byte, m math.Mat) {
	for i, v := range m {
		binary.LittleEndian.PutUint32(dst[i*4:], gomath.Float32bits(v))
	}
}
