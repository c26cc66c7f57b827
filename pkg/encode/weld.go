package encode

import (
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/mesh"
)

// Epsilon is the L1 tolerance under which two UVs are considered equal.
// The tolerance is absolute, so it degrades for very large UV magnitudes.
const Epsilon = 0.0001

// ExportVertex is one row of the output vertex buffers.
type ExportVertex struct {
	Position mesh.Position
	Normal   mesh.Normal
	UV       mesh.UV
	HasUV    bool
}

// Welded is the re-indexed mesh: export vertices plus a triangle index
// buffer referencing them.
type Welded struct {
	Vertices       []ExportVertex
	Indices        []uint32
	SourceVertices int
}

// Splits returns the number of vertices added by seam splitting.
func (w *Welded) Splits() int {
	return len(w.Vertices) - w.SourceVertices
}

// Weld builds the export vertex set and index buffer for a prepared mesh.
//
// Without UVs every source vertex maps to itself. With UVs, the first
// corner visiting a vertex assigns its UV; later corners whose UV differs
// by more than Epsilon reuse a previous split of that vertex with a
// matching UV, or create a new split carrying the same position and
// normal. Every corner appends exactly one index.
func Weld(p *mesh.Prepared, profile Profile) *Welded {
	w := &Welded{
		Vertices:       make([]ExportVertex, len(p.Vertices), len(p.Vertices)+len(p.Vertices)/4),
		Indices:        make([]uint32, 0, len(p.Triangles)*3),
		SourceVertices: len(p.Vertices),
	}
	for i, v := range p.Vertices {
		w.Vertices[i] = ExportVertex{Position: v.Position, Normal: v.Normal}
	}

	if !profile.UVs {
		for _, tri := range p.Triangles {
			for _, c := range tri {
				w.Indices = append(w.Indices, uint32(c.Vertex))
			}
		}
		return w
	}

	splits := make([][]int, len(p.Vertices))
	for _, tri := range p.Triangles {
		for _, c := range tri {
			w.Indices = append(w.Indices, uint32(w.resolve(splits, c.Vertex, p.UV(c))))
		}
	}
	return w
}

// resolve returns the export vertex index carrying uv for source vertex v.
func (w *Welded) resolve(splits [][]int, v int, uv mesh.UV) int {
	ev := &w.Vertices[v]
	if !ev.HasUV {
		ev.UV = uv
		ev.HasUV = true
		return v
	}
	if uvDistance(ev.UV, uv) <= Epsilon {
		return v
	}

	for _, s := range splits[v] {
		if uvDistance(w.Vertices[s].UV, uv) < Epsilon {
			return s
		}
	}

	idx := len(w.Vertices)
	w.Vertices = append(w.Vertices, ExportVertex{
		Position: ev.Position,
		Normal:   ev.Normal,
		UV:       uv,
		HasUV:    true,
	})
	splits[v] = append(splits[v], idx)
	return idx
}

func uvDistance(a, b mesh.UV) float32 {
	return abs32(a[0]-b[0]) + abs32(a[1]-b[1])
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
