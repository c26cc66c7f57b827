package source

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Scroopid/turn-tactics-blender-addon/pkg/mesh"
)

// OBJ is a Wavefront OBJ file read as a single mesh.
type OBJ struct {
	Mesh *mesh.Mesh
	// Material is the first usemtl name, empty when the file names none.
	Material string
}

type objCorner struct {
	v, vt, vn int // -1 when absent
}

// LoadOBJ reads v, vt, vn, f and usemtl statements. Every other statement
// is ignored. Vertex normals are the average of the vn values referencing
// each vertex, or are computed from the faces when any corner lacks one.
// A UV layer is created when every corner has a vt.
func LoadOBJ(r io.Reader, name string) (*OBJ, error) {
	var (
		positions []mgl32.Vec3
		texcoords []mgl32.Vec2
		normals   []mgl32.Vec3
		faces     [][]objCorner
		material  string
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		ident, val := fields[0], fields[1:]

		switch ident {
		case "v", "vn":
			v, err := parseFloats(val, 3)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, lineNo, err)
			}
			if ident == "v" {
				positions = append(positions, mgl32.Vec3{v[0], v[1], v[2]})
			} else {
				normals = append(normals, mgl32.Vec3{v[0], v[1], v[2]})
			}
		case "vt":
			v, err := parseFloats(val, 1)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, lineNo, err)
			}
			uv := mgl32.Vec2{v[0], 0}
			if len(v) > 1 {
				uv[1] = v[1]
			}
			texcoords = append(texcoords, uv)
		case "f":
			if len(val) < 3 {
				return nil, fmt.Errorf("%w: line %d: face needs 3 corners, got %d", ErrMalformedOBJ, lineNo, len(val))
			}
			face := make([]objCorner, len(val))
			for i, s := range val {
				c, err := parseCorner(s, len(positions), len(texcoords), len(normals))
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, lineNo, err)
				}
				face[i] = c
			}
			faces = append(faces, face)
		case "usemtl":
			if material == "" && len(val) > 0 {
				material = strings.Join(val, " ")
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading obj: %w", err)
	}

	return &OBJ{Mesh: buildOBJMesh(name, positions, texcoords, normals, faces), Material: material}, nil
}

func buildOBJMesh(name string, positions []mgl32.Vec3, texcoords []mgl32.Vec2, normals []mgl32.Vec3, faces [][]objCorner) *mesh.Mesh {
	m := &mesh.Mesh{
		Name:     name,
		Vertices: make([]mesh.Vertex, len(positions)),
		Faces:    make([]mesh.Face, len(faces)),
		ActiveUV: mesh.NoUVLayer,
	}
	for i, p := range positions {
		m.Vertices[i].Position = p
	}

	allUV, allNormals := true, true
	for _, f := range faces {
		for _, c := range f {
			allUV = allUV && c.vt >= 0
			allNormals = allNormals && c.vn >= 0
		}
	}

	var uvs []mesh.UV
	for i, f := range faces {
		verts := make([]int, len(f))
		for j, c := range f {
			verts[j] = c.v
			if allUV {
				uvs = append(uvs, texcoords[c.vt])
			}
			if allNormals {
				m.Vertices[c.v].Normal = m.Vertices[c.v].Normal.Add(normals[c.vn])
			}
		}
		m.Faces[i] = mesh.Face{Vertices: verts}
	}

	if allUV && len(faces) > 0 {
		m.UVLayers = []mesh.UVLayer{{Name: "UVMap", Coords: uvs}}
		m.ActiveUV = 0
	}
	if allNormals && len(faces) > 0 {
		for i := range m.Vertices {
			if n := m.Vertices[i].Normal; n.Len() > 0 {
				m.Vertices[i].Normal = n.Normalize()
			}
		}
	} else {
		mesh.ComputeNormals(m)
	}
	return m
}

func parseFloats(val []string, want int) ([]float32, error) {
	if len(val) < want {
		return nil, fmt.Errorf("want at least %d values, got %d", want, len(val))
	}
	out := make([]float32, len(val))
	for i, s := range val {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseCorner parses v, v/vt, v//vn or v/vt/vn. Indices are 1-based;
// negative indices count back from the last element read so far.
func parseCorner(s string, nv, nvt, nvn int) (objCorner, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return objCorner{}, fmt.Errorf("bad face corner %q", s)
	}
	c := objCorner{v: -1, vt: -1, vn: -1}
	dst := []*int{&c.v, &c.vt, &c.vn}
	counts := []int{nv, nvt, nvn}
	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return objCorner{}, fmt.Errorf("bad face corner %q", s)
			}
			continue
		}
		idx, err := strconv.Atoi(p)
		if err != nil {
			return objCorner{}, fmt.Errorf("bad face corner %q: %v", s, err)
		}
		switch {
		case idx > 0:
			idx--
		case idx < 0:
			idx += counts[i]
		default:
			return objCorner{}, fmt.Errorf("index 0 in face corner %q", s)
		}
		if idx < 0 || idx >= counts[i] {
			return objCorner{}, fmt.Errorf("face corner %q out of range", s)
		}
		*dst[i] = idx
	}
	return c, nil
}
