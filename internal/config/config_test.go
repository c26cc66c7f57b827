package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/Scroopid/turn-tactics-blender-addon/pkg/encode"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/exporter"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/material"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test export defaults
	if cfg.Export.Mesh != "All" {
		t.Errorf("expected mesh_export All, got %s", cfg.Export.Mesh)
	}
	if cfg.Export.Material != "All" {
		t.Errorf("expected material_export All, got %s", cfg.Export.Material)
	}
	if cfg.Export.Animation != "No_Export" {
		t.Errorf("expected animation_export No_Export, got %s", cfg.Export.Animation)
	}
	if cfg.Export.EmitMetadata {
		t.Error("expected emit_metadata to be false by default")
	}
	if cfg.Export.SelectedOnly {
		t.Error("expected use_selected_only to be false by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if cfg.Logging.MaxSizeMB <= 0 {
		t.Errorf("expected positive max size, got %d", cfg.Logging.MaxSizeMB)
	}

	opts, err := cfg.Export.Options()
	if err != nil {
		t.Fatalf("default options: %v", err)
	}
	if opts != exporter.DefaultOptions() {
		t.Errorf("default options = %+v, want %+v", opts, exporter.DefaultOptions())
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
export:
  mesh_export: Vertices_Normals
  material_export: Link_Only
  emit_metadata: true
  workers: 3

logging:
  level: "debug"
  log_file: "export.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Export.Mesh != "Vertices_Normals" {
		t.Errorf("expected mesh_export Vertices_Normals, got %s", cfg.Export.Mesh)
	}
	if cfg.Export.Material != "Link_Only" {
		t.Errorf("expected material_export Link_Only, got %s", cfg.Export.Material)
	}
	// Not in the file, keeps its default.
	if cfg.Export.Animation != "No_Export" {
		t.Errorf("expected animation_export No_Export, got %s", cfg.Export.Animation)
	}
	if !cfg.Export.EmitMetadata {
		t.Error("expected emit_metadata to be true")
	}
	if cfg.Export.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Export.Workers)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if got := cfg.Logging.FileConfig().Path; got != "export.log" {
		t.Errorf("expected log file 'export.log', got %s", got)
	}

	opts, err := cfg.Export.Options()
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Mesh != encode.MeshVerticesNormals || opts.Material != material.MaterialLinkOnly {
		t.Errorf("options = %+v", opts)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
export:
  workers: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/modelexport.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ExportConfig)
		want   error
	}{
		{"mesh", func(e *ExportConfig) { e.Mesh = "Everything" }, encode.ErrUnknownMode},
		{"material", func(e *ExportConfig) { e.Material = "Copy" }, material.ErrUnknownMode},
		{"animation", func(e *ExportConfig) { e.Animation = "Baked" }, exporter.ErrUnknownMode},
		{"workers", func(e *ExportConfig) { e.Workers = -1 }, exporter.ErrInvalidOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			export := Default().Export
			tt.mutate(&export)
			_, err := export.Options()
			if !errors.Is(err, tt.want) {
				t.Errorf("Options() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("export:\n  workers: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "no flags",
			verify: func(t *testing.T, cfg *Config) {
				if *cfg != *Default() {
					t.Errorf("config changed without flags: %+v", cfg)
				}
			},
		},
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "mode flags",
			args: []string{"-mesh", "UVs", "-material", "No_Export", "-animation", "All"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.Mesh != "UVs" || cfg.Export.Material != "No_Export" || cfg.Export.Animation != "All" {
					t.Errorf("modes not applied: %+v", cfg.Export)
				}
			},
		},
		{
			name: "switches",
			args: []string{"-metadata", "-selected", "-workers", "4", "-log-file", "out.log"},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Export.EmitMetadata || !cfg.Export.SelectedOnly {
					t.Errorf("switches not applied: %+v", cfg.Export)
				}
				if cfg.Export.Workers != 4 {
					t.Errorf("expected 4 workers, got %d", cfg.Export.Workers)
				}
				if cfg.Logging.LogFile != "out.log" {
					t.Errorf("expected log file out.log, got %s", cfg.Logging.LogFile)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Flags
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			f.Bind(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse: %v", err)
			}

			cfg := Default()
			applyFlags(cfg, &f)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
export:
  mesh_export: Vertices
  material_export: Save_Only
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(&Flags{Config: configPath, Mesh: "Normals"})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Mesh should be from flag, not file.
	if cfg.Export.Mesh != "Normals" {
		t.Errorf("expected mesh_export Normals from flag, got %s", cfg.Export.Mesh)
	}
	// Material should be from file since no flag override.
	if cfg.Export.Material != "Save_Only" {
		t.Errorf("expected material_export Save_Only from file, got %s", cfg.Export.Material)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Export.Mesh = "Vertices_UVs"
	cfg.Export.Workers = 2
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := Load(&Flags{Config: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
}
