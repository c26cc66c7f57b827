package source

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Scroopid/turn-tactics-blender-addon/pkg/exporter"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/material"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/mesh"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/transform"
)

// LoadGLTF reads a .gltf or .glb file. Every node that references a mesh
// becomes one mesh object placed by its local translation, rotation and
// scale. The primitives of a mesh are merged; only triangle primitives are
// supported. Materials are linked by name with default shading.
func LoadGLTF(path string) (*exporter.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening gltf: %w", err)
	}
	return gltfScene(doc)
}

func gltfScene(doc *gltf.Document) (*exporter.Scene, error) {
	scene := &exporter.Scene{}
	for i, node := range doc.Nodes {
		if node.Mesh == nil {
			continue
		}
		name := node.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		if int(*node.Mesh) >= len(doc.Meshes) {
			return nil, fmt.Errorf("%w: node %q references mesh %d", ErrMalformedGLTF, name, *node.Mesh)
		}

		m, matName, err := gltfMesh(doc, doc.Meshes[*node.Mesh], name)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}

		obj := exporter.Object{
			Name:     name,
			Kind:     exporter.KindMesh,
			Selected: true,
			Mesh:     m,
			Transform: transform.FromQuat(
				mgl32.Vec3(node.Translation),
				mgl32.Quat{W: node.Rotation[3], V: mgl32.Vec3{node.Rotation[0], node.Rotation[1], node.Rotation[2]}},
				mgl32.Vec3(node.Scale),
			),
		}
		if matName != "" {
			src := material.DefaultSource(matName)
			obj.Material = &src
		}
		scene.Objects = append(scene.Objects, obj)
	}
	return scene, nil
}

// gltfMesh merges the primitives of gm into one mesh and returns the name
// of the first primitive material.
func gltfMesh(doc *gltf.Document, gm *gltf.Mesh, name string) (*mesh.Mesh, string, error) {
	m := &mesh.Mesh{Name: name, ActiveUV: mesh.NoUVLayer}
	var (
		uvs     []mesh.UV
		allUV   = true
		allNorm = true
		matName string
	)

	for pi, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			return nil, "", fmt.Errorf("%w: primitive %d is not a triangle list", ErrMalformedGLTF, pi)
		}
		posIdx, ok := prim.Attributes["POSITION"]
		if !ok {
			return nil, "", fmt.Errorf("%w: primitive %d has no POSITION", ErrMalformedGLTF, pi)
		}
		acr, err := accessor(doc, posIdx)
		if err != nil {
			return nil, "", err
		}
		positions, err := modeler.ReadPosition(doc, acr, nil)
		if err != nil {
			return nil, "", fmt.Errorf("reading positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes["NORMAL"]; ok {
			if acr, err = accessor(doc, idx); err != nil {
				return nil, "", err
			}
			if normals, err = modeler.ReadNormal(doc, acr, nil); err != nil {
				return nil, "", fmt.Errorf("reading normals: %w", err)
			}
		}
		allNorm = allNorm && len(normals) == len(positions)

		var coords [][2]float32
		if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
			if acr, err = accessor(doc, idx); err != nil {
				return nil, "", err
			}
			if coords, err = modeler.ReadTextureCoord(doc, acr, nil); err != nil {
				return nil, "", fmt.Errorf("reading texture coordinates: %w", err)
			}
		}
		allUV = allUV && len(coords) == len(positions)

		var indices []uint32
		if prim.Indices != nil {
			if acr, err = accessor(doc, *prim.Indices); err != nil {
				return nil, "", err
			}
			if indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
				return nil, "", fmt.Errorf("reading indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}
		if len(indices)%3 != 0 {
			return nil, "", fmt.Errorf("%w: primitive %d has %d indices", ErrMalformedGLTF, pi, len(indices))
		}

		base := len(m.Vertices)
		for i, p := range positions {
			v := mesh.Vertex{Position: p}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			m.Vertices = append(m.Vertices, v)
		}
		for t := 0; t < len(indices); t += 3 {
			face := mesh.Face{Vertices: make([]int, 3)}
			for k := 0; k < 3; k++ {
				idx := int(indices[t+k])
				if idx >= len(positions) {
					return nil, "", fmt.Errorf("%w: primitive %d index %d out of range", ErrMalformedGLTF, pi, idx)
				}
				face.Vertices[k] = base + idx
				if allUV {
					uvs = append(uvs, coords[idx])
				}
			}
			m.Faces = append(m.Faces, face)
		}

		if matName == "" && prim.Material != nil && int(*prim.Material) < len(doc.Materials) {
			matName = doc.Materials[*prim.Material].Name
		}
	}

	if allUV && len(m.Faces) > 0 {
		m.UVLayers = []mesh.UVLayer{{Name: "TEXCOORD_0", Coords: uvs}}
		m.ActiveUV = 0
	}
	if !allNorm {
		mesh.ComputeNormals(m)
	}
	return m, matName, nil
}

func accessor(doc *gltf.Document, idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d out of range", ErrMalformedGLTF, idx)
	}
	return doc.Accessors[idx], nil
}
