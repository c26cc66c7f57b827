// Package exporter turns a host scene into a .model archive.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Scroopid/turn-tactics-blender-addon/internal/logger"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/encode"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/material"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/modelfile"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/transform"
)

// ErrMissingMesh is returned when a mesh object carries no mesh data.
var ErrMissingMesh = errors.New("mesh object has no mesh data")

// Metadata keys written per model when metadata is enabled.
const (
	MetaSourceVertexCount = "source_vertex_count"
	MetaFaceCount         = "face_count"
	MetaVertexCount       = "vertex_count"
	MetaSplitVertexCount  = "split_vertex_count"
	MetaTriangleCount     = "triangle_count"
	// MetaLength is the export vertex count divided by three, truncated.
	MetaLength            = "length"
)

// Export encodes every selected mesh object of scene. Objects are encoded
// concurrently; the models keep scene order. Any failure aborts the whole
// export and nothing is returned.
func Export(ctx context.Context, scene *Scene, opts Options) (*modelfile.Scene, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	objects := scene.Select(opts.SelectedOnly)
	start := time.Now()
	logger.Info("export started",
		zap.Int("objects", len(objects)),
		zap.Stringer("mesh", opts.Mesh),
		zap.Stringer("material", opts.Material),
		zap.Stringer("animation", opts.Animation),
		zap.Bool("metadata", opts.EmitMetadata),
	)
	if opts.Animation != AnimationNone {
		logger.Warn("animation export is not implemented; models carry no animation data")
	}

	workers := opts.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	models := make([]modelfile.Model, len(objects))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, obj := range objects {
		i, obj := i, obj
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := encodeObject(obj, opts)
			if err != nil {
				return fmt.Errorf("object %q: %w", obj.Name, err)
			}
			models[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("export failed", zap.Error(err))
		return nil, err
	}

	logger.Info("export encoded",
		zap.Int("models", len(models)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &modelfile.Scene{
		Flags: modelfile.Flags{
			Mesh:      opts.Mesh != encode.MeshNone,
			Material:  opts.Material != material.MaterialNone,
			Animation: opts.Animation != AnimationNone,
			Metadata:  opts.EmitMetadata,
		},
		Models: models,
	}, nil
}

// ExportFile exports scene and writes the archive to path.
func ExportFile(ctx context.Context, scene *Scene, opts Options, path string) (*modelfile.Scene, error) {
	out, err := Export(ctx, scene, opts)
	if err != nil {
		return nil, err
	}
	if err := modelfile.WriteFile(path, *out); err != nil {
		logger.Error("writing archive failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	logger.Info("archive written", zap.String("path", path), zap.Int("models", len(out.Models)))
	return out, nil
}

func encodeObject(obj *Object, opts Options) (modelfile.Model, error) {
	m := modelfile.Model{Name: obj.Name}

	if obj.Mesh == nil && (opts.Mesh != encode.MeshNone || opts.EmitMetadata) {
		return m, ErrMissingMesh
	}

	if opts.Mesh != encode.MeshNone {
		enc, err := encode.Encode(obj.Mesh, opts.Mesh.Profile())
		if err != nil {
			return m, fmt.Errorf("encoding mesh: %w", err)
		}
		m.Mesh = enc
		logger.Debug("mesh encoded",
			zap.String("model", obj.Name),
			zap.Int("vertices", enc.Stats.Vertices),
			zap.Int("splits", enc.Stats.Splits),
			zap.Int("triangles", enc.Stats.Triangles),
		)
	}

	if opts.Material != material.MaterialNone && obj.Material != nil {
		mat, err := material.Encode(*obj.Material, opts.Material)
		if err != nil {
			return m, fmt.Errorf("encoding material: %w", err)
		}
		m.Material = mat
	}

	tr, err := transform.Encode(obj.Transform)
	if err != nil {
		return m, fmt.Errorf("encoding transform: %w", err)
	}
	m.Transform = tr

	if opts.EmitMetadata {
		m.Metadata = metadata(obj, m.Mesh)
	}
	return m, nil
}

func metadata(obj *Object, enc *encode.EncodedMesh) map[string]any {
	md := map[string]any{
		MetaSourceVertexCount: len(obj.Mesh.Vertices),
		MetaFaceCount:         len(obj.Mesh.Faces),
	}
	if enc != nil {
		md[MetaVertexCount] = enc.Stats.Vertices
		md[MetaSplitVertexCount] = enc.Stats.Splits
		md[MetaTriangleCount] = enc.Stats.Triangles
		md[MetaLength] = enc.Stats.Length
	}
	return md
}
