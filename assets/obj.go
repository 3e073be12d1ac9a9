package assets

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"renderlib/math"
)

// objFace is an already-triangulated face (three vertex references).
type objFace struct {
	v, vt, vn [3]int // 0-based position / UV / normal indices (-1 = absent)
}

// LoadOBJ parses a Wavefront .obj file. All objects and groups are merged
// into one static mesh; materials are ignored.
func LoadOBJ(path string) (*MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	m, err := DecodeOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("obj %q: %w", path, err)
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return m, nil
}

// DecodeOBJ parses .obj text from r.
func DecodeOBJ(r io.Reader) (*MeshData, error) {
	var positions, normals [][3]float32
	var uvs [][2]float32
	var faces []objFace
	name := ""

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) >= 4 {
				positions = append(positions, parseFloats3(fields[1:4]))
			}
		case "vn":
			if len(fields) >= 4 {
				normals = append(normals, parseFloats3(fields[1:4]))
			}
		case "vt":
			if len(fields) >= 3 {
				u, _ := strconv.ParseFloat(fields[1], 32)
				v, _ := strconv.ParseFloat(fields[2], 32)
				uvs = append(uvs, [2]float32{float32(u), float32(v)})
			}
		case "o":
			if name == "" && len(fields) > 1 {
				name = fields[1]
			}
		case "f":
			if len(fields) < 4 {
				continue
			}
			var fverts []objIndex
			for _, tok := range fields[1:] {
				fverts = append(fverts, parseFaceVertex(tok, len(positions), len(uvs), len(normals)))
			}
			// fan triangulation: 0-1-2, 0-2-3, ...
			for i := 1; i+1 < len(fverts); i++ {
				f0, f1, f2 := fverts[0], fverts[i], fverts[i+1]
				faces = append(faces, objFace{
					v:  [3]int{f0.v, f1.v, f2.v},
					vt: [3]int{f0.vt, f1.vt, f2.vt},
					vn: [3]int{f0.vn, f1.vn, f2.vn},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}
	if len(faces) == 0 {
		return nil, ErrNoGeometry
	}

	m := buildOBJMesh(faces, positions, normals, uvs)
	m.Name = name
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseFloats3(fields []string) [3]float32 {
	var out [3]float32
	for i, f := range fields {
		v, _ := strconv.ParseFloat(f, 32)
		out[i] = float32(v)
	}
	return out
}

type objIndex struct{ v, vt, vn int }

// parseFaceVertex parses "v", "v/vt", "v//vn" or "v/vt/vn". OBJ indices are
// 1-based; negative ones count back from the end of the pools read so far.
func parseFaceVertex(tok string, nv, nvt, nvn int) objIndex {
	parseIdx := func(s string, n int) int {
		if s == "" {
			return -1
		}
		i, err := strconv.Atoi(s)
		switch {
		case err != nil:
			return -1
		case i > 0:
			return i - 1
		case i < 0:
			return n + i
		}
		return -1
	}
	parts := strings.Split(tok, "/")
	res := objIndex{v: -1, vt: -1, vn: -1}
	res.v = parseIdx(parts[0], nv)
	if len(parts) > 1 {
		res.vt = parseIdx(parts[1], nvt)
	}
	if len(parts) > 2 {
		res.vn = parseIdx(parts[2], nvn)
	}
	return res
}

// buildOBJMesh converts parsed faces into a deduplicated indexed mesh.
func buildOBJMesh(faces []objFace, positions, normals [][3]float32, uvs [][2]float32) *MeshData {
	vertMap := map[objIndex]uint32{}
	m := &MeshData{Transform: math.Identity()}

	for _, face := range faces {
		for c := 0; c < 3; c++ {
			k := objIndex{face.v[c], face.vt[c], face.vn[c]}
			if idx, ok := vertMap[k]; ok {
				m.Indices = append(m.Indices, idx)
				continue
			}
			v := Vertex{Normal: [3]float32{0, 1, 0}}
			if k.v >= 0 && k.v < len(positions) {
				v.Position = positions[k.v]
			}
			if k.vn >= 0 && k.vn < len(normals) {
				v.Normal = normals[k.vn]
			}
			if k.vt >= 0 && k.vt < len(uvs) {
				v.UV = uvs[k.vt]
			}
			idx := uint32(len(m.Vertices))
			m.Vertices = append(m.Vertices, v)
			vertMap[k] = idx
			m.Indices = append(m.Indices, idx)
		}
	}

	if len(normals) == 0 {
		generateNormals(m.Vertices, m.Indices)
	}
	return m
}

// generateNormals computes area-weighted vertex normals.
func generateNormals(vertices []Vertex, indices []uint32) {
	accum := make([]math.Vec, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0 := vec3(vertices[i0].Position)
		p1 := vec3(vertices[i1].Position)
		p2 := vec3(vertices[i2].Position)
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i := range vertices {
		if accum[i].Length() > 0 {
			n := accum[i].Norm()
			vertices[i].Normal = [3]float32{n[0], n[1], n[2]}
		}
	}
}

func vec3(v [3]float32) math.Vec {
	return math.Vec3(v[0], v[1], v[2])
}
