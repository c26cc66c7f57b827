package exporter

import (
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/material"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/mesh"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/transform"
)

// Kind is a host object type.
type Kind string

const (
	KindMesh     Kind = "MESH"
	KindEmpty    Kind = "EMPTY"
	KindCamera   Kind = "CAMERA"
	KindLamp     Kind = "LAMP"
	KindArmature Kind = "ARMATURE"
	KindCurve    Kind = "CURVE"
)

// Object is one scene object handed over by the host.
type Object struct {
	Name      string
	Kind      Kind
	Selected  bool
	Mesh      *mesh.Mesh
	Material  *material.Source
	Transform transform.Source
}

// Exportable reports whether the object can be written to an archive.
// Only meshes are supported.
func (o *Object) Exportable() bool {
	return o.Kind == KindMesh
}

// Scene is the set of objects to export, in host order.
type Scene struct {
	Objects []Object
}

// Select returns the exportable objects, optionally restricted to the
// selected ones, in scene order.
func (s *Scene) Select(selectedOnly bool) []*Object {
	var out []*Object
	for i := range s.Objects {
		obj := &s.Objects[i]
		if !obj.Exportable() {
			continue
		}
		if selectedOnly && !obj.Selected {
			continue
		}
		out = append(out, obj)
	}
	return out
}
