package modelfile

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Archive errors.
var (
	ErrDuplicateEntry  = errors.New("duplicate archive entry")
	ErrInvalidModel    = errors.New("invalid model")
	ErrInvalidManifest = errors.New("invalid manifest")
	ErrEntryNotFound   = errors.New("entry not found")
	ErrCorrupt         = errors.New("corrupt archive")
)

// Flags records which kinds of data an archive carries.
type Flags struct {
	Mesh      bool
	Material  bool
	Animation bool
	Metadata  bool
}

// Scene is everything packaged into one archive.
type Scene struct {
	Flags  Flags
	Models []Model
}

// Package writes the scene as a zip archive: model entries in model order,
// then manifest.json.
func Package(w io.Writer, s Scene) error {
	zw := zip.NewWriter(w)
	ew := newEntryWriter(zw)

	manifest := &Manifest{
		ContainsAnimationData: s.Flags.Animation,
		ContainsMaterialData:  s.Flags.Material,
		ContainsMeshData:      s.Flags.Mesh,
		ContainsMetadata:      s.Flags.Metadata,
		Meshes:                make([]string, 0, len(s.Models)),
		Models:                make(map[string]*ModelEntry, len(s.Models)),
	}

	for _, m := range s.Models {
		if _, ok := manifest.Models[m.Name]; ok {
			return fmt.Errorf("%w: model %q exported twice", ErrDuplicateEntry, m.Name)
		}
		if reservedKey(modelKey(m.Name)) {
			return fmt.Errorf("%w: model name %q is reserved", ErrDuplicateEntry, m.Name)
		}
		entry, err := ew.writeModel(m)
		if err != nil {
			return fmt.Errorf("model %q: %w", m.Name, err)
		}
		manifest.Meshes = append(manifest.Meshes, m.Name)
		manifest.Models[m.Name] = entry
	}

	if err := ew.createJSON(ManifestName, manifest); err != nil {
		return err
	}
	return zw.Close()
}

// PackageBytes returns the archive in memory.
func PackageBytes(s Scene) ([]byte, error) {
	var buf bytes.Buffer
	if err := Package(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile packages the scene into path. The archive is written to a
// temporary file next to path and renamed into place, so path is either
// left untouched or replaced by a complete archive.
func WriteFile(path string, s Scene) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Package(tmp, s); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming to %s: %w", path, err)
	}
	return nil
}
