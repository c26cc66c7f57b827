package encode

import (
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/mesh"
)

// EncodedMesh is the binary form of one mesh.
type EncodedMesh struct {
	Name    string
	Buffers Buffers
	Stats   Stats
}

// Encode prepares, welds and packs m for the given profile. It fails with
// mesh.ErrMissingUVChannel before doing any work when UVs are requested
// and m has none. Encoding the same mesh twice yields identical buffers.
func Encode(m *mesh.Mesh, profile Profile) (*EncodedMesh, error) {
	p, err := mesh.Prepare(m, profile.UVs)
	if err != nil {
		return nil, err
	}
	defer p.Release()

	w := Weld(p, profile)
	return &EncodedMesh{
		Name:    m.Name,
		Buffers: Pack(w, profile),
		Stats: Stats{
			Length:         len(w.Vertices) / 3,
			Vertices:       len(w.Vertices),
			SourceVertices: w.SourceVertices,
			Splits:         w.Splits(),
			Triangles:      len(w.Indices) / 3,
		},
	}, nil
}
