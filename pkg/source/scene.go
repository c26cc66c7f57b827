// Package source loads host scenes for export: YAML scene descriptions
// referencing Wavefront OBJ or glTF mesh files, or those files directly.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Scroopid/turn-tactics-blender-addon/pkg/exporter"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/material"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/transform"
)

// Source errors.
var (
	ErrMalformedOBJ    = errors.New("malformed obj")
	ErrMalformedGLTF   = errors.New("malformed gltf")
	ErrUnknownFormat   = errors.New("unknown scene format")
	ErrMeshNotFound    = errors.New("mesh not found in file")
	ErrInvalidSceneDoc = errors.New("invalid scene description")
)

// sceneFile is the YAML scene description.
type sceneFile struct {
	Objects []sceneObject `yaml:"objects"`
}

type sceneObject struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Selected *bool  `yaml:"selected"`
	// Mesh is an .obj, .gltf or .glb file relative to the scene file.
	Mesh string `yaml:"mesh"`
	// MeshName picks a node when the mesh file holds several.
	MeshName  string    `yaml:"mesh_name"`
	Material  yaml.Node `yaml:"material"`
	Transform yaml.Node `yaml:"transform"`
}

// Load reads a scene from a .yaml/.yml description, an .obj file or a
// .gltf/.glb file, chosen by extension.
func Load(path string) (*exporter.Scene, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadScene(path)
	case ".obj":
		return loadOBJScene(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// LoadScene reads a YAML scene description. Objects default to kind MESH,
// selected, at the identity transform. Material fields not given keep the
// host defaults of a new material.
func LoadScene(path string) (*exporter.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}

	var doc sceneFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSceneDoc, err)
	}

	dir := filepath.Dir(path)
	files := make(map[string]*exporter.Scene)
	scene := &exporter.Scene{Objects: make([]exporter.Object, 0, len(doc.Objects))}
	for i, so := range doc.Objects {
		obj, err := so.object(dir, files)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, so.Name, err)
		}
		scene.Objects = append(scene.Objects, obj)
	}
	return scene, nil
}

func (so *sceneObject) object(dir string, files map[string]*exporter.Scene) (exporter.Object, error) {
	if so.Name == "" {
		return exporter.Object{}, fmt.Errorf("%w: object has no name", ErrInvalidSceneDoc)
	}
	obj := exporter.Object{
		Name:      so.Name,
		Kind:      exporter.KindMesh,
		Selected:  so.Selected == nil || *so.Selected,
		Transform: transform.Identity(),
	}
	if so.Kind != "" {
		obj.Kind = exporter.Kind(strings.ToUpper(so.Kind))
	}

	if !so.Transform.IsZero() {
		if err := so.Transform.Decode(&obj.Transform); err != nil {
			return obj, fmt.Errorf("%w: transform: %v", ErrInvalidSceneDoc, err)
		}
	}
	if !so.Material.IsZero() {
		src := material.DefaultSource(so.Name)
		if err := so.Material.Decode(&src); err != nil {
			return obj, fmt.Errorf("%w: material: %v", ErrInvalidSceneDoc, err)
		}
		obj.Material = &src
	}

	if so.Mesh == "" {
		return obj, nil
	}
	path := so.Mesh
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	loaded, ok := files[path]
	if !ok {
		var err error
		if loaded, err = Load(path); err != nil {
			return obj, err
		}
		files[path] = loaded
	}

	src, err := pick(loaded, so.MeshName)
	if err != nil {
		return obj, fmt.Errorf("%s: %w", so.Mesh, err)
	}
	// Each object gets its own copy so two objects sharing a file do not
	// share a mesh name.
	m := *src.Mesh
	m.Name = so.Name
	obj.Mesh = &m
	if obj.Material == nil && src.Material != nil {
		mat := *src.Material
		obj.Material = &mat
	}
	return obj, nil
}

// pick returns the named mesh object of a loaded file, or its first mesh
// object when name is empty.
func pick(s *exporter.Scene, name string) (*exporter.Object, error) {
	for i := range s.Objects {
		obj := &s.Objects[i]
		if obj.Mesh == nil {
			continue
		}
		if name == "" || obj.Name == name {
			return obj, nil
		}
	}
	if name == "" {
		return nil, ErrMeshNotFound
	}
	return nil, fmt.Errorf("%w: %q", ErrMeshNotFound, name)
}

func loadOBJScene(path string) (*exporter.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening obj: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	o, err := LoadOBJ(f, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	obj := exporter.Object{
		Name:      name,
		Kind:      exporter.KindMesh,
		Selected:  true,
		Mesh:      o.Mesh,
		Transform: transform.Identity(),
	}
	if o.Material != "" {
		src := material.DefaultSource(o.Material)
		obj.Material = &src
	}
	return &exporter.Scene{Objects: []exporter.Object{obj}}, nil
}
