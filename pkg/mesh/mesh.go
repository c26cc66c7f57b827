// Package mesh holds the source polygon mesh handed over by the host
// application and prepares it for encoding.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh validation errors.
var (
	ErrDegenerateFace     = errors.New("face has fewer than 3 vertices")
	ErrVertexOutOfRange   = errors.New("face references vertex out of range")
	ErrUVLayerSize        = errors.New("uv layer size does not match loop count")
	ErrActiveUVOutOfRange = errors.New("active uv layer out of range")
	ErrMissingUVChannel   = errors.New("uv export requested but mesh has no active uv channel")
)

// Position, Normal and UV alias the mathgl vector types used throughout.
type (
	Position = mgl32.Vec3
	Normal   = mgl32.Vec3
	UV       = mgl32.Vec2
)

// NoUVLayer marks a mesh without an active UV channel.
const NoUVLayer = -1

// Vertex is a source vertex, identified by its index in Mesh.Vertices.
type Vertex struct {
	Position Position
	Normal   Normal
}

// Face is a polygon given as an ordered list of vertex indices.
// Each entry is one face corner (loop).
type Face struct {
	Vertices []int
}

// UVLayer stores one UV coordinate per loop. Loops are numbered
// consecutively face by face, in face order.
type UVLayer struct {
	Name   string
	Coords []UV
}

// Mesh is a polygon mesh as supplied by the host application.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Faces    []Face
	UVLayers []UVLayer
	ActiveUV int // index into UVLayers, NoUVLayer when none
}

// LoopCount returns the total number of face corners.
func (m *Mesh) LoopCount() int {
	n := 0
	for _, f := range m.Faces {
		n += len(f.Vertices)
	}
	return n
}

// ActiveUVLayer returns the active UV layer or nil.
func (m *Mesh) ActiveUVLayer() *UVLayer {
	if m.ActiveUV < 0 || m.ActiveUV >= len(m.UVLayers) {
		return nil
	}
	return &m.UVLayers[m.ActiveUV]
}

// Validate checks face topology and UV layer sizes.
func (m *Mesh) Validate() error {
	loops := 0
	for i, f := range m.Faces {
		if len(f.Vertices) < 3 {
			return fmt.Errorf("%w: face %d has %d", ErrDegenerateFace, i, len(f.Vertices))
		}
		for _, v := range f.Vertices {
			if v < 0 || v >= len(m.Vertices) {
				return fmt.Errorf("%w: face %d vertex %d (have %d)", ErrVertexOutOfRange, i, v, len(m.Vertices))
			}
		}
		loops += len(f.Vertices)
	}

	for i, layer := range m.UVLayers {
		if len(layer.Coords) != loops {
			return fmt.Errorf("%w: layer %d %q has %d coords, mesh has %d loops",
				ErrUVLayerSize, i, layer.Name, len(layer.Coords), loops)
		}
	}

	if m.ActiveUV != NoUVLayer && (m.ActiveUV < 0 || m.ActiveUV >= len(m.UVLayers)) {
		return fmt.Errorf("%w: %d of %d", ErrActiveUVOutOfRange, m.ActiveUV, len(m.UVLayers))
	}
	return nil
}

// ComputeNormals replaces vertex normals with area-weighted averages of
// the adjacent face normals.
func ComputeNormals(m *Mesh) {
	sums := make([]mgl32.Vec3, len(m.Vertices))
	for _, f := range m.Faces {
		if len(f.Vertices) < 3 {
			continue
		}
		// Newell's normal has a length of twice the polygon area.
		n := newellNormal(m.Vertices, f.Vertices)
		for _, v := range f.Vertices {
			if v >= 0 && v < len(sums) {
				sums[v] = sums[v].Add(n)
			}
		}
	}
	for i := range m.Vertices {
		if sums[i].Len() > 0 {
			m.Vertices[i].Normal = sums[i].Normalize()
		} else {
			m.Vertices[i].Normal = mgl32.Vec3{}
		}
	}
}

func newellNormal(verts []Vertex, poly []int) mgl32.Vec3 {
	var n mgl32.Vec3
	for i := range poly {
		cur := verts[poly[i]].Position
		next := verts[poly[(i+1)%len(poly)]].Position
		n[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		n[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		n[2] += (cur[0] - next[0]) * (cur[1] + next[1])
	}
	return n
}
