package mesh

import "fmt"

// Prepared is a triangulated working copy of a Mesh, owned by the encoder
// for the duration of one encode. Call Release when done.
type Prepared struct {
	Name      string
	Vertices  []Vertex
	Triangles []Triangle
	UVs       []UV // per loop; nil when UVs were not requested
}

// Prepare validates m and returns a triangulated working copy. When wantUVs
// is set and m has no active UV channel it fails with ErrMissingUVChannel
// before anything is allocated. The source mesh is never modified.
func Prepare(m *Mesh, wantUVs bool) (*Prepared, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
	}

	layer := m.ActiveUVLayer()
	if wantUVs && layer == nil {
		return nil, fmt.Errorf("mesh %q: %w", m.Name, ErrMissingUVChannel)
	}

	p := &Prepared{
		Name:      m.Name,
		Vertices:  append([]Vertex(nil), m.Vertices...),
		Triangles: Triangulate(m),
	}
	if wantUVs {
		p.UVs = append([]UV(nil), layer.Coords...)
	}
	return p, nil
}

// UV returns the UV of the given corner. It must only be called when the
// working copy was prepared with UVs.
func (p *Prepared) UV(c Corner) UV {
	return p.UVs[c.Loop]
}

// Release drops the working copy. It is safe to call more than once.
func (p *Prepared) Release() {
	if p == nil {
		return
	}
	p.Vertices = nil
	p.Triangles = nil
	p.UVs = nil
}
