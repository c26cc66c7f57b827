// Package config handles exporter configuration loading and management.
package config

import (
	"fmt"

	"github.com/Scroopid/turn-tactics-blender-addon/internal/logger"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/encode"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/exporter"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/material"
)

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds the export options. Modes use the host option names
// ("All", "No_Export", "Vertices_Normals", "Link_Only", ...).
type ExportConfig struct {
	Mesh         string `yaml:"mesh_export"`
	Material     string `yaml:"material_export"`
	Animation    string `yaml:"animation_export"`
	EmitMetadata bool   `yaml:"emit_metadata"`
	SelectedOnly bool   `yaml:"use_selected_only"`
	Workers      int    `yaml:"workers"` // 0 = one per CPU
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	files := logger.DefaultFileConfig("")
	return &Config{
		Export: ExportConfig{
			Mesh:      encode.MeshAll.String(),
			Material:  material.MaterialAll.String(),
			Animation: exporter.AnimationNone.String(),
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  files.MaxSizeMB,
			MaxBackups: files.MaxBackups,
			MaxAgeDays: files.MaxAgeDays,
			Compress:   files.Compress,
		},
	}
}

// Options parses the export settings.
func (e ExportConfig) Options() (exporter.Options, error) {
	mesh, err := encode.ParseMeshMode(e.Mesh)
	if err != nil {
		return exporter.Options{}, fmt.Errorf("mesh_export: %w", err)
	}
	mat, err := material.ParseMode(e.Material)
	if err != nil {
		return exporter.Options{}, fmt.Errorf("material_export: %w", err)
	}
	anim, err := exporter.ParseAnimationMode(e.Animation)
	if err != nil {
		return exporter.Options{}, fmt.Errorf("animation_export: %w", err)
	}
	opts := exporter.Options{
		Mesh:         mesh,
		Material:     mat,
		Animation:    anim,
		EmitMetadata: e.EmitMetadata,
		SelectedOnly: e.SelectedOnly,
		Workers:      e.Workers,
	}
	return opts, opts.Validate()
}

// FileConfig returns the log file rotation settings.
func (l LoggingConfig) FileConfig() logger.FileConfig {
	return logger.FileConfig{
		Path:       l.LogFile,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}
