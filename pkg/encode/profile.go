// Package encode turns triangulated meshes into engine-ready binary
// vertex, normal, UV and index buffers.
package encode

import (
	"errors"
	"fmt"
)

// ErrUnknownMode is returned when a mesh export mode name is not recognized.
var ErrUnknownMode = errors.New("unknown mesh export mode")

// MeshMode selects which vertex attributes are exported.
type MeshMode int

const (
	MeshAll MeshMode = iota
	MeshNone
	MeshVertices
	MeshVerticesNormals
	MeshVerticesUVs
	MeshNormals
	MeshNormalsUVs
	MeshUVs
)

var meshModeNames = [...]string{
	MeshAll:             "All",
	MeshNone:            "No_Export",
	MeshVertices:        "Vertices",
	MeshVerticesNormals: "Vertices_Normals",
	MeshVerticesUVs:     "Vertices_UVs",
	MeshNormals:         "Normals",
	MeshNormalsUVs:      "Normals_UVs",
	MeshUVs:             "UVs",
}

var meshModeProfiles = [...]Profile{
	MeshAll:             {Verts: true, Normals: true, UVs: true},
	MeshNone:            {},
	MeshVertices:        {Verts: true},
	MeshVerticesNormals: {Verts: true, Normals: true},
	MeshVerticesUVs:     {Verts: true, UVs: true},
	MeshNormals:         {Normals: true},
	MeshNormalsUVs:      {Normals: true, UVs: true},
	MeshUVs:             {UVs: true},
}

// String returns the mode name as used in configuration files.
func (m MeshMode) String() string {
	if m < 0 || int(m) >= len(meshModeNames) {
		return fmt.Sprintf("MeshMode(%d)", int(m))
	}
	return meshModeNames[m]
}

// Profile returns the attribute flags for the mode.
func (m MeshMode) Profile() Profile {
	if m < 0 || int(m) >= len(meshModeProfiles) {
		return Profile{}
	}
	return meshModeProfiles[m]
}

// ParseMeshMode parses a mode name. "None" and "Vertices_UV" style
// aliases from older add-on versions are accepted as well.
func ParseMeshMode(s string) (MeshMode, error) {
	for i, name := range meshModeNames {
		if s == name {
			return MeshMode(i), nil
		}
	}
	switch s {
	case "None":
		return MeshNone, nil
	case "Vertices_UV":
		return MeshVerticesUVs, nil
	case "Normals_UV":
		return MeshNormalsUVs, nil
	case "UV":
		return MeshUVs, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m MeshMode) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(meshModeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MeshMode) UnmarshalText(text []byte) error {
	mode, err := ParseMeshMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Profile is the set of vertex attributes to export. Indices are always
// exported.
type Profile struct {
	Verts   bool
	Normals bool
	UVs     bool
}

// Any reports whether any vertex attribute is exported.
func (p Profile) Any() bool {
	return p.Verts || p.Normals || p.UVs
}
