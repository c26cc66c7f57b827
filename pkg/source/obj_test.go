package source

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Scroopid/turn-tactics-blender-addon/pkg/encode"
)

const quadOBJ = `# unit quad
mtllib quad.mtl
o Quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl Stone
s off
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestLoadOBJ(t *testing.T) {
	o, err := LoadOBJ(strings.NewReader(quadOBJ), "Quad")
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	m := o.Mesh
	if o.Material != "Stone" {
		t.Errorf("material = %q, want Stone", o.Material)
	}
	if m.Name != "Quad" || len(m.Vertices) != 4 || len(m.Faces) != 1 {
		t.Fatalf("mesh = %+v", m)
	}
	if layer := m.ActiveUVLayer(); layer == nil || len(layer.Coords) != 4 || layer.Coords[2] != (mgl32.Vec2{1, 1}) {
		t.Errorf("uv layer = %+v", m.ActiveUVLayer())
	}
	for i, v := range m.Vertices {
		if v.Normal != (mgl32.Vec3{0, 0, 1}) {
			t.Errorf("vertex %d normal = %v", i, v.Normal)
		}
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	enc, err := encode.Encode(m, encode.MeshAll.Profile())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if enc.Stats.Vertices != 4 || enc.Stats.Triangles != 2 {
		t.Errorf("stats = %+v", enc.Stats)
	}
}

func TestLoadOBJ_CornerForms(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantUV    bool
		wantFaces [][]int
	}{
		{
			name:      "positions only",
			src:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n",
			wantFaces: [][]int{{0, 1, 2}},
		},
		{
			name:      "position and normal",
			src:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n",
			wantFaces: [][]int{{0, 1, 2}},
		},
		{
			name:      "position and texcoord",
			src:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvt 1 0\nvt 0 1\nf 1/1 2/2 3/3\n",
			wantUV:    true,
			wantFaces: [][]int{{0, 1, 2}},
		},
		{
			name:      "negative indices",
			src:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nf -4 -3 -2\nf -3 -1 -2\n",
			wantFaces: [][]int{{0, 1, 2}, {1, 3, 2}},
		},
		{
			name:      "mixed texcoords drop the uv layer",
			src:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nf 1/1 2/1 3/1\nf 1 2 3\n",
			wantFaces: [][]int{{0, 1, 2}, {0, 1, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := LoadOBJ(strings.NewReader(tt.src), "M")
			if err != nil {
				t.Fatalf("LoadOBJ failed: %v", err)
			}
			if got := o.Mesh.ActiveUVLayer() != nil; got != tt.wantUV {
				t.Errorf("uv layer present = %v, want %v", got, tt.wantUV)
			}
			if len(o.Mesh.Faces) != len(tt.wantFaces) {
				t.Fatalf("got %d faces, want %d", len(o.Mesh.Faces), len(tt.wantFaces))
			}
			for i, f := range o.Mesh.Faces {
				for j, v := range f.Vertices {
					if v != tt.wantFaces[i][j] {
						t.Errorf("face %d = %v, want %v", i, f.Vertices, tt.wantFaces[i])
						break
					}
				}
			}
			for i, v := range o.Mesh.Vertices {
				if l := v.Normal.Len(); l < 0.999 || l > 1.001 {
					t.Errorf("vertex %d normal %v is not unit length", i, v.Normal)
				}
			}
		})
	}
}

func TestLoadOBJ_Malformed(t *testing.T) {
	tests := map[string]string{
		"short vertex":     "v 1 2\n",
		"bad float":        "v 1 two 3\n",
		"short face":       "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"index zero":       "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
		"out of range":     "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n",
		"forward ref":      "f 1 2 3\nv 0 0 0\nv 1 0 0\nv 0 1 0\n",
		"too many slashes": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1/1 2 3\n",
		"empty position":   "v 0 0 0\nv 1 0 0\nv 0 1 0\nf /1 2 3\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadOBJ(strings.NewReader(src), "M"); !errors.Is(err, ErrMalformedOBJ) {
				t.Errorf("got %v, want ErrMalformedOBJ", err)
			}
		})
	}
}
