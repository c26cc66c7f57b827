package modelfile

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Scroopid/turn-tactics-blender-addon/pkg/encode"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/material"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/naming"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/transform"
)

// entryTime is stamped on every entry so identical scenes produce identical
// archives.
var entryTime = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// Model is one exportable object with its encoded payloads.
type Model struct {
	Name      string
	Mesh      *encode.EncodedMesh
	Material  *material.Material
	Transform *transform.Transform
	// Animation is copied verbatim into the manifest; nil writes null.
	Animation json.RawMessage
	Metadata  map[string]any
}

// entryWriter writes archive entries and remembers what it wrote.
type entryWriter struct {
	zw        *zip.Writer
	written   map[string]string
	materials map[string]*MaterialLink
}

func newEntryWriter(zw *zip.Writer) *entryWriter {
	return &entryWriter{
		zw:        zw,
		written:   make(map[string]string),
		materials: make(map[string]*MaterialLink),
	}
}

func (w *entryWriter) create(name string, data []byte) error {
	key := naming.Canonical(name)
	if prev, ok := w.written[key]; ok {
		return fmt.Errorf("%w: %q collides with %q", ErrDuplicateEntry, name, prev)
	}
	w.written[key] = name

	f, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: entryTime,
	})
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func (w *entryWriter) createJSON(name string, v any) error {
	data, err := marshalJSON(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return w.create(name, data)
}

// marshalJSON renders v with two-space indentation and no HTML escaping.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// writeModel writes the payload entries of one model and returns its
// manifest record.
func (w *entryWriter) writeModel(m Model) (*ModelEntry, error) {
	if m.Transform == nil {
		return nil, fmt.Errorf("%w: model %q has no transform", ErrInvalidModel, m.Name)
	}
	stem := naming.EntryName(m.Name)

	entry := &ModelEntry{
		Animation: m.Animation,
		Name:      m.Name,
		Metadata:  m.Metadata,
	}

	if m.Mesh != nil {
		links, err := w.writeMesh(stem, m.Mesh.Buffers)
		if err != nil {
			return nil, err
		}
		entry.Mesh = links
	}

	if m.Material != nil {
		link, err := w.writeMaterial(m.Material)
		if err != nil {
			return nil, err
		}
		entry.Material = link
	}

	entry.Location = stem + ".trans.json"
	if err := w.createJSON(entry.Location, m.Transform); err != nil {
		return nil, err
	}
	return entry, nil
}

func (w *entryWriter) writeMesh(stem string, b encode.Buffers) (*MeshLinks, error) {
	links := &MeshLinks{}
	buffers := []struct {
		typ  string
		data []byte
		dst  **Link
	}{
		{TypeVert, b.Vertices, &links.Verts},
		{TypeNorm, b.Normals, &links.Normals},
		{TypeUV, b.UVs, &links.UVs},
		{TypeInd, b.Indices, &links.Ind},
	}
	for _, buf := range buffers {
		if buf.data == nil {
			continue
		}
		link := &Link{
			BytesLength: len(buf.data),
			Location:    stem + "." + buf.typ + ".bin",
			Type:        buf.typ,
		}
		if err := w.create(link.Location, buf.data); err != nil {
			return nil, err
		}
		*buf.dst = link
	}
	return links, nil
}

// writeMaterial writes a material document the first time its name is
// seen. Later models with the same material name share the first link.
func (w *entryWriter) writeMaterial(mat *material.Material) (*MaterialLink, error) {
	if link, ok := w.materials[mat.Name]; ok {
		return link, nil
	}

	link := &MaterialLink{Name: mat.Name}
	if !mat.UseEngineMaterial {
		location := naming.EntryName(mat.Name) + ".mat.json"
		if err := w.createJSON(location, mat); err != nil {
			return nil, err
		}
		link.Location = &location
	}
	w.materials[mat.Name] = link
	return link, nil
}
