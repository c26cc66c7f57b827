package config

import "flag"

// Flags holds command-line overrides. Zero values leave the loaded
// configuration untouched.
type Flags struct {
	Config       string
	Debug        bool
	Mesh         string
	Material     string
	Animation    string
	Metadata     bool
	SelectedOnly bool
	Workers      int
	LogFile      string
}

// Bind registers the flags on fs.
func (f *Flags) Bind(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Mesh, "mesh", "", "Mesh export mode (All, No_Export, Vertices, Vertices_Normals, Vertices_UVs, Normals, Normals_UVs, UVs)")
	fs.StringVar(&f.Material, "material", "", "Material export mode (All, Link_Only, Save_Only, No_Export)")
	fs.StringVar(&f.Animation, "animation", "", "Animation export mode (All, No_Export)")
	fs.BoolVar(&f.Metadata, "metadata", false, "Emit per-model metadata")
	fs.BoolVar(&f.SelectedOnly, "selected", false, "Export selected objects only")
	fs.IntVar(&f.Workers, "workers", 0, "Concurrent encoders (0 = one per CPU)")
	fs.StringVar(&f.LogFile, "log-file", "", "Write JSON logs to this file")
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Mesh != "" {
		cfg.Export.Mesh = f.Mesh
	}
	if f.Material != "" {
		cfg.Export.Material = f.Material
	}
	if f.Animation != "" {
		cfg.Export.Animation = f.Animation
	}
	if f.Metadata {
		cfg.Export.EmitMetadata = true
	}
	if f.SelectedOnly {
		cfg.Export.SelectedOnly = true
	}
	if f.Workers > 0 {
		cfg.Export.Workers = f.Workers
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
