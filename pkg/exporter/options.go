package exporter

import (
	"errors"
	"fmt"

	"github.com/Scroopid/turn-tactics-blender-addon/pkg/encode"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/material"
)

// Option errors.
var (
	ErrInvalidOptions = errors.New("invalid export options")
	ErrUnknownMode    = errors.New("unknown animation export mode")
)

// AnimationMode selects whether animation data is exported. Animation
// encoding is a placeholder: AnimationAll only sets the archive flag.
type AnimationMode int

const (
	AnimationAll AnimationMode = iota
	AnimationNone
)

func (m AnimationMode) String() string {
	switch m {
	case AnimationAll:
		return "All"
	case AnimationNone:
		return "No_Export"
	}
	return fmt.Sprintf("AnimationMode(%d)", int(m))
}

// ParseAnimationMode parses "All", "No_Export" or "None".
func ParseAnimationMode(s string) (AnimationMode, error) {
	switch s {
	case "All":
		return AnimationAll, nil
	case "No_Export", "None":
		return AnimationNone, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Options configures one export.
type Options struct {
	Mesh         encode.MeshMode
	Material     material.Mode
	Animation    AnimationMode
	EmitMetadata bool
	SelectedOnly bool
	// Workers bounds concurrent object encoding; 0 means one per CPU.
	Workers int
}

// DefaultOptions exports everything except animation.
func DefaultOptions() Options {
	return Options{
		Mesh:      encode.MeshAll,
		Material:  material.MaterialAll,
		Animation: AnimationNone,
	}
}

// Validate checks that every mode is known.
func (o Options) Validate() error {
	if _, err := encode.ParseMeshMode(o.Mesh.String()); err != nil {
		return fmt.Errorf("%w: mesh mode %v", ErrInvalidOptions, o.Mesh)
	}
	if _, err := material.ParseMode(o.Material.String()); err != nil {
		return fmt.Errorf("%w: material mode %v", ErrInvalidOptions, o.Material)
	}
	if _, err := ParseAnimationMode(o.Animation.String()); err != nil {
		return fmt.Errorf("%w: animation mode %v", ErrInvalidOptions, o.Animation)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidOptions, o.Workers)
	}
	return nil
}
