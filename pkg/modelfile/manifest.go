// Package modelfile reads and writes .model archives: a zip container
// holding per-model binary buffers, JSON descriptors and manifest.json.
package modelfile

import (
	"encoding/json"
	"fmt"

	"github.com/Scroopid/turn-tactics-blender-addon/pkg/encode"
)

// ManifestName is the archive entry holding the manifest. It is always the
// last entry written.
const ManifestName = "manifest.json"

// Buffer link types. Each names the entry suffix {model}.{type}.bin.
const (
	TypeVert = "vert"
	TypeNorm = "norm"
	TypeUV   = "uv"
	TypeInd  = "ind"
)

var linkStrides = map[string]int{
	TypeVert: encode.Vec3Stride,
	TypeNorm: encode.Vec3Stride,
	TypeUV:   encode.Vec2Stride,
	TypeInd:  encode.IndexStride,
}

const (
	keyAnimation = "contains_animation_data"
	keyMaterial  = "contains_material_data"
	keyMesh      = "contains_mesh_data"
	keyMetadata  = "contains_metadata"
	keyMeshes    = "meshes"
)

// Link points at one binary buffer entry.
type Link struct {
	BytesLength int    `json:"bytes_length"`
	Location    string `json:"location"`
	Type        string `json:"type"`
}

// MeshLinks holds the buffer links of one model. Buffers that were not
// exported are nil.
type MeshLinks struct {
	Ind     *Link `json:"ind"`
	Normals *Link `json:"normals"`
	UVs     *Link `json:"uvs"`
	Verts   *Link `json:"verts"`
}

// MaterialLink names a model's material. Location is nil for engine
// materials that were linked but not written.
type MaterialLink struct {
	Location *string `json:"location"`
	Name     string  `json:"name"`
}

// ModelEntry is the manifest record stored under "{model}_data".
type ModelEntry struct {
	Animation json.RawMessage `json:"animation"`
	// Location is the model's transform document.
	Location  string         `json:"location"`
	Material  *MaterialLink  `json:"material"`
	Mesh      *MeshLinks     `json:"mesh"`
	Metadata  map[string]any `json:"metadata"`
	Name      string         `json:"name"`
	Transform struct{}       `json:"transform"`
}

// Manifest describes an archive's contents.
type Manifest struct {
	ContainsAnimationData bool
	ContainsMaterialData  bool
	ContainsMeshData      bool
	ContainsMetadata      bool
	// Meshes lists model names in export order.
	Meshes []string
	// Models holds one entry per name in Meshes.
	Models map[string]*ModelEntry
}

// Model returns the entry for a model name.
func (m *Manifest) Model(name string) (*ModelEntry, bool) {
	e, ok := m.Models[name]
	return e, ok
}

func modelKey(name string) string { return name + "_data" }

func reservedKey(key string) bool {
	switch key {
	case keyAnimation, keyMaterial, keyMesh, keyMetadata, keyMeshes:
		return true
	}
	return false
}

// MarshalJSON flattens model entries next to the scene flags. Keys come
// out sorted because the object is built as a map.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	meshes := m.Meshes
	if meshes == nil {
		meshes = []string{}
	}
	obj := map[string]any{
		keyAnimation: m.ContainsAnimationData,
		keyMaterial:  m.ContainsMaterialData,
		keyMesh:      m.ContainsMeshData,
		keyMetadata:  m.ContainsMetadata,
		keyMeshes:    meshes,
	}
	for name, entry := range m.Models {
		key := modelKey(name)
		if reservedKey(key) {
			return nil, fmt.Errorf("%w: model name %q collides with %q", ErrDuplicateEntry, name, key)
		}
		obj[key] = entry
	}
	return json.Marshal(obj)
}

// UnmarshalJSON reads the flags, the mesh list and the entry of every
// listed mesh. Entries for names not in the list are ignored.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	flags := []struct {
		key string
		dst *bool
	}{
		{keyAnimation, &m.ContainsAnimationData},
		{keyMaterial, &m.ContainsMaterialData},
		{keyMesh, &m.ContainsMeshData},
		{keyMetadata, &m.ContainsMetadata},
	}
	for _, f := range flags {
		v, ok := raw[f.key]
		if !ok {
			return fmt.Errorf("%w: missing %q", ErrInvalidManifest, f.key)
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidManifest, f.key, err)
		}
	}

	if err := json.Unmarshal(raw[keyMeshes], &m.Meshes); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidManifest, keyMeshes, err)
	}

	m.Models = make(map[string]*ModelEntry, len(m.Meshes))
	for _, name := range m.Meshes {
		v, ok := raw[modelKey(name)]
		if !ok {
			continue
		}
		var entry ModelEntry
		if err := json.Unmarshal(v, &entry); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidManifest, modelKey(name), err)
		}
		m.Models[name] = &entry
	}
	return nil
}
