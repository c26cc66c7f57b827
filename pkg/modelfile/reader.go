package modelfile

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"

	"github.com/Scroopid/turn-tactics-blender-addon/pkg/encode"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/material"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/naming"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/transform"
)

// Archive is an opened .model archive.
type Archive struct {
	closer   io.Closer
	// files is keyed by canonical name; folded by naming.Key and holds the
	// first entry for each case-insensitive name.
	files    map[string]*zip.File
	folded   map[string]*zip.File
	order    []string
	manifest *Manifest
}

// DecodedMesh holds the buffers of one model decoded back into vectors.
// Attributes that were not exported are nil.
type DecodedMesh struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
}

// Open opens an archive file for reading.
func Open(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if errors.Is(err, zip.ErrInsecurePath) {
		rc.Close()
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	a, err := newArchive(&rc.Reader)
	if err != nil {
		rc.Close()
		return nil, err
	}
	a.closer = rc
	return a, nil
}

// NewReader reads an archive from r, which holds size bytes.
func NewReader(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	return newArchive(zr)
}

// newArchive indexes the entries of zr. Archives are flat, so an entry
// name that is not a plain local file name makes the archive corrupt.
func newArchive(zr *zip.Reader) (*Archive, error) {
	a := &Archive{
		files:  make(map[string]*zip.File, len(zr.File)),
		folded: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		if !ValidEntryName(f.Name) {
			return nil, fmt.Errorf("%w: entry name %q", ErrCorrupt, f.Name)
		}
		a.files[naming.Canonical(f.Name)] = f
		if key := naming.Key(f.Name); a.folded[key] == nil {
			a.folded[key] = f
		}
		a.order = append(a.order, f.Name)
	}
	return a, nil
}

// ValidEntryName reports whether name is a local file name with no
// directory part.
func ValidEntryName(name string) bool {
	return filepath.IsLocal(name) && !strings.ContainsAny(name, `/\`)
}

// lookup finds an entry by exact name, falling back to a case-insensitive
// match.
func (a *Archive) lookup(name string) (*zip.File, bool) {
	if f, ok := a.files[naming.Canonical(name)]; ok {
		return f, true
	}
	f, ok := a.folded[naming.Key(name)]
	return f, ok
}

// Close closes the underlying file, if any.
func (a *Archive) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// List returns entry names in archive order.
func (a *Archive) List() []string {
	return append([]string(nil), a.order...)
}

// Contains checks if an entry exists. An exact match wins; otherwise
// lookups ignore case.
func (a *Archive) Contains(name string) bool {
	_, ok := a.lookup(name)
	return ok
}

// Size returns the uncompressed size of an entry.
func (a *Archive) Size(name string) (int64, bool) {
	f, ok := a.lookup(name)
	if !ok {
		return 0, false
	}
	return int64(f.UncompressedSize64), true
}

// Read returns the contents of an entry.
func (a *Archive) Read(name string) ([]byte, error) {
	f, ok := a.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func (a *Archive) readJSON(name string, v any) error {
	data, err := a.Read(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
	}
	return nil
}

// Manifest parses manifest.json. The result is cached.
func (a *Archive) Manifest() (*Manifest, error) {
	if a.manifest != nil {
		return a.manifest, nil
	}
	var m Manifest
	if err := a.readJSON(ManifestName, &m); err != nil {
		return nil, err
	}
	a.manifest = &m
	return a.manifest, nil
}

func (a *Archive) model(name string) (*ModelEntry, error) {
	m, err := a.Manifest()
	if err != nil {
		return nil, err
	}
	entry, ok := m.Model(name)
	if !ok {
		return nil, fmt.Errorf("%w: model %q", ErrEntryNotFound, name)
	}
	return entry, nil
}

// ReadTransform returns a model's transform document.
func (a *Archive) ReadTransform(model string) (*transform.Transform, error) {
	entry, err := a.model(model)
	if err != nil {
		return nil, err
	}
	var t transform.Transform
	if err := a.readJSON(entry.Location, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ReadMaterial returns a model's material. It returns nil for models
// without one; engine materials carry only their name.
func (a *Archive) ReadMaterial(model string) (*material.Material, error) {
	entry, err := a.model(model)
	if err != nil {
		return nil, err
	}
	if entry.Material == nil {
		return nil, nil
	}
	if entry.Material.Location == nil {
		return &material.Material{Name: entry.Material.Name, UseEngineMaterial: true}, nil
	}
	var mat material.Material
	if err := a.readJSON(*entry.Material.Location, &mat); err != nil {
		return nil, err
	}
	return &mat, nil
}

// ReadMesh decodes the buffers of a model.
func (a *Archive) ReadMesh(model string) (*DecodedMesh, error) {
	entry, err := a.model(model)
	if err != nil {
		return nil, err
	}
	if entry.Mesh == nil {
		return nil, fmt.Errorf("%w: model %q has no mesh data", ErrEntryNotFound, model)
	}

	dm := &DecodedMesh{Name: model}
	read := func(l *Link) ([]byte, error) {
		if l == nil {
			return nil, nil
		}
		return a.Read(l.Location)
	}

	var data []byte
	if data, err = read(entry.Mesh.Verts); err == nil && data != nil {
		dm.Positions, err = encode.DecodeVec3(data)
	}
	if err != nil {
		return nil, fmt.Errorf("model %q vertices: %w", model, err)
	}
	if data, err = read(entry.Mesh.Normals); err == nil && data != nil {
		dm.Normals, err = encode.DecodeVec3(data)
	}
	if err != nil {
		return nil, fmt.Errorf("model %q normals: %w", model, err)
	}
	if data, err = read(entry.Mesh.UVs); err == nil && data != nil {
		dm.UVs, err = encode.DecodeVec2(data)
	}
	if err != nil {
		return nil, fmt.Errorf("model %q uvs: %w", model, err)
	}
	if data, err = read(entry.Mesh.Ind); err == nil && data != nil {
		dm.Indices, err = encode.DecodeIndices(data)
	}
	if err != nil {
		return nil, fmt.Errorf("model %q indices: %w", model, err)
	}
	return dm, nil
}

// Verify checks the manifest against the archive contents: every location
// resolves, buffer lengths and strides match, the vertex attribute buffers
// of a model agree on vertex count and indices are in range. All problems
// are reported, each wrapping ErrCorrupt or ErrEntryNotFound.
func (a *Archive) Verify() error {
	m, err := a.Manifest()
	if err != nil {
		return err
	}

	var errs error
	names := append([]string(nil), m.Meshes...)
	sort.Strings(names)
	for _, name := range names {
		errs = multierr.Append(errs, a.verifyModel(name, m.Models[name]))
	}
	return errs
}

func (a *Archive) verifyModel(name string, entry *ModelEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: no entry for model %q", ErrCorrupt, name)
	}

	var errs error
	if _, err := a.ReadTransform(name); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("model %q transform: %w", name, err))
	}
	if entry.Material != nil && entry.Material.Location != nil && !a.Contains(*entry.Material.Location) {
		errs = multierr.Append(errs, fmt.Errorf("%w: model %q material %s", ErrEntryNotFound, name, *entry.Material.Location))
	}
	if entry.Mesh == nil {
		return errs
	}

	vertexCount := -1
	links := []*Link{entry.Mesh.Verts, entry.Mesh.Normals, entry.Mesh.UVs, entry.Mesh.Ind}
	for _, l := range links {
		if l == nil {
			continue
		}
		count, err := a.verifyLink(l)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("model %q: %w", name, err))
			continue
		}
		if l.Type == TypeInd {
			if count%3 != 0 {
				errs = multierr.Append(errs, fmt.Errorf("%w: model %q has %d indices, not a multiple of 3", ErrCorrupt, name, count))
			}
			continue
		}
		if vertexCount >= 0 && count != vertexCount {
			errs = multierr.Append(errs, fmt.Errorf("%w: model %q %s buffer holds %d vertices, want %d", ErrCorrupt, name, l.Type, count, vertexCount))
		}
		if vertexCount < 0 {
			vertexCount = count
		}
	}

	if errs == nil && entry.Mesh.Ind != nil && vertexCount >= 0 {
		dm, err := a.ReadMesh(name)
		if err != nil {
			return multierr.Append(errs, fmt.Errorf("model %q: %w", name, err))
		}
		for i, idx := range dm.Indices {
			if int(idx) >= vertexCount {
				errs = multierr.Append(errs, fmt.Errorf("%w: model %q index %d = %d out of range (%d vertices)", ErrCorrupt, name, i, idx, vertexCount))
			}
		}
	}
	return errs
}

// verifyLink checks one buffer link and returns its element count.
func (a *Archive) verifyLink(l *Link) (int, error) {
	stride, ok := linkStrides[l.Type]
	if !ok {
		return 0, fmt.Errorf("%w: unknown buffer type %q", ErrCorrupt, l.Type)
	}
	size, ok := a.Size(l.Location)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrEntryNotFound, l.Location)
	}
	if size != int64(l.BytesLength) {
		return 0, fmt.Errorf("%w: %s is %d bytes, manifest says %d", ErrCorrupt, l.Location, size, l.BytesLength)
	}
	if l.BytesLength%stride != 0 {
		return 0, fmt.Errorf("%w: %s length %d is not a multiple of %d", ErrCorrupt, l.Location, l.BytesLength, stride)
	}
	return l.BytesLength / stride, nil
}
