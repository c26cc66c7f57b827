// modelexport converts OBJ, glTF and scene documents into .model archives
// and inspects existing archives.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"github.com/Scroopid/turn-tactics-blender-addon/internal/config"
	"github.com/Scroopid/turn-tactics-blender-addon/internal/logger"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/exporter"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/modelfile"
	"github.com/Scroopid/turn-tactics-blender-addon/pkg/source"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "export", "e":
		cmdExport(args)
	case "info":
		cmdInfo(args)
	case "list", "ls":
		cmdList(args)
	case "extract", "x":
		cmdExtract(args)
	case "verify":
		cmdVerify(args)
	case "dump":
		cmdDump(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`modelexport - .model archive exporter

Usage:
  modelexport <command> [options]

Commands:
  export [flags] <scene> <out.model>   Export an .obj, .gltf/.glb or scene .yaml
  info <file.model>                    Show archive information
  list <file.model> [pattern]          List archive entries
  extract <file.model> <entry> [dir]   Extract entries (glob patterns allowed)
  verify <file.model>                  Check manifest links and buffers
  dump <file.model> <model>            Print a model's decoded data

Export flags:
  -config, -debug, -mesh, -material, -animation,
  -metadata, -selected, -workers, -log-file

Examples:
  modelexport export -mesh Vertices_Normals crate.obj crate.model
  modelexport export -metadata -selected level.yaml level.model
  modelexport verify crate.model
  modelexport extract crate.model "*.json" ./out`)
}

func fail(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

func openArchive(path string) *modelfile.Archive {
	archive, err := modelfile.Open(path)
	if err != nil {
		fail("Error: %v", err)
	}
	return archive
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	var flags config.Flags
	flags.Bind(fs)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fail("Usage: modelexport export [flags] <scene> <out.model>")
	}

	cfg, err := config.Load(&flags)
	if err != nil {
		fail("Config error: %v", err)
	}

	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.Logging.FileConfig(), true); err != nil {
		fail("Logger error: %v", err)
	}
	defer logger.Sync()

	opts, err := cfg.Export.Options()
	if err != nil {
		fail("Config error: %v", err)
	}
	logger.Sugar.Debugf("Options: %+v", opts)

	scene, err := source.Load(fs.Arg(0))
	if err != nil {
		logger.Error("failed to load scene", zap.String("path", fs.Arg(0)), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	out, err := exporter.ExportFile(ctx, scene, opts, fs.Arg(1))
	if err != nil {
		logger.Error("export failed", zap.Error(err))
		stop()
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("export complete",
		zap.String("output", fs.Arg(1)),
		zap.Int("models", len(out.Models)),
		zap.Duration("elapsed", time.Since(start)))
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fail("Usage: modelexport info <file.model>")
	}

	archive := openArchive(args[0])
	defer archive.Close()

	manifest, err := archive.Manifest()
	if err != nil {
		fail("Error: %v", err)
	}

	var totalSize int64
	for _, name := range archive.List() {
		size, _ := archive.Size(name)
		totalSize += size
	}

	fmt.Printf("Archive:   %s\n", args[0])
	fmt.Printf("Entries:   %d\n", len(archive.List()))
	fmt.Printf("Size:      %.2f KB\n", float64(totalSize)/1024)
	fmt.Printf("Mesh:      %v\n", manifest.ContainsMeshData)
	fmt.Printf("Material:  %v\n", manifest.ContainsMaterialData)
	fmt.Printf("Animation: %v\n", manifest.ContainsAnimationData)
	fmt.Printf("Metadata:  %v\n", manifest.ContainsMetadata)
	fmt.Println()
	fmt.Println("Models:")

	for _, name := range manifest.Meshes {
		entry, _ := manifest.Model(name)
		mat := "-"
		if entry != nil && entry.Material != nil {
			mat = entry.Material.Name
		}
		verts := "-"
		if entry != nil && entry.Mesh != nil && entry.Mesh.Verts != nil {
			verts = fmt.Sprintf("%d", entry.Mesh.Verts.BytesLength/12)
		}
		fmt.Printf("  %-24s verts=%-8s material=%s\n", name, verts, mat)
	}
}

func cmdList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	sizes := fs.Bool("s", false, "Show uncompressed sizes")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fail("Usage: modelexport list [-s] <file.model> [pattern]")
	}

	archive := openArchive(fs.Arg(0))
	defer archive.Close()

	pattern := ""
	if fs.NArg() > 1 {
		pattern = strings.ToLower(fs.Arg(1))
	}

	count := 0
	for _, name := range archive.List() {
		if pattern != "" {
			matched, _ := filepath.Match(pattern, strings.ToLower(name))
			if !matched && !strings.Contains(strings.ToLower(name), pattern) {
				continue
			}
		}
		if *sizes {
			size, _ := archive.Size(name)
			fmt.Printf("%10d  %s\n", size, name)
		} else {
			fmt.Println(name)
		}
		count++
	}

	if pattern != "" {
		fmt.Fprintf(os.Stderr, "\n(%d entries matched)\n", count)
	}
}

func cmdExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fail("Usage: modelexport extract <file.model> <entry> [output_dir]")
	}

	outputDir := "."
	if fs.NArg() > 2 {
		outputDir = fs.Arg(2)
	}

	archive := openArchive(fs.Arg(0))
	defer archive.Close()

	names := []string{fs.Arg(1)}
	if strings.ContainsAny(fs.Arg(1), "*?[") {
		names = names[:0]
		pattern := strings.ToLower(fs.Arg(1))
		for _, name := range archive.List() {
			if matched, _ := filepath.Match(pattern, strings.ToLower(name)); matched {
				names = append(names, name)
			}
		}
	} else if !archive.Contains(fs.Arg(1)) {
		fail("Entry not found: %s", fs.Arg(1))
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fail("Error creating directory: %v", err)
	}

	extracted := 0
	for _, name := range names {
		data, err := archive.Read(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", name, err)
			continue
		}

		outputPath, err := extractPath(outputDir, name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", name, err)
			continue
		}
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputPath, err)
			continue
		}

		fmt.Printf("Extracted: %s (%d bytes)\n", outputPath, len(data))
		extracted++
	}

	if len(names) > 1 {
		fmt.Fprintf(os.Stderr, "\nExtracted %d entries\n", extracted)
	}
}

// extractPath returns where entry name is written under outputDir. Names
// with a directory part or that leave outputDir are refused.
func extractPath(outputDir, name string) (string, error) {
	if !modelfile.ValidEntryName(name) {
		return "", fmt.Errorf("unsafe entry name %q", name)
	}
	return filepath.Join(outputDir, name), nil
}

func cmdVerify(args []string) {
	if len(args) < 1 {
		fail("Usage: modelexport verify <file.model>")
	}

	archive := openArchive(args[0])
	defer archive.Close()

	if err := archive.Verify(); err != nil {
		fail("Invalid: %v", err)
	}
	fmt.Printf("%s: OK\n", args[0])
}

func cmdDump(args []string) {
	if len(args) < 2 {
		fail("Usage: modelexport dump <file.model> <model>")
	}

	archive := openArchive(args[0])
	defer archive.Close()

	model := args[1]
	tr, err := archive.ReadTransform(model)
	if err != nil {
		fail("Error: %v", err)
	}
	matrix, err := tr.Matrix()
	if err != nil {
		fail("Error: %v", err)
	}
	mat, err := archive.ReadMaterial(model)
	if err != nil {
		fail("Error: %v", err)
	}
	m, err := archive.ReadMesh(model)
	if err != nil {
		fail("Error: %v", err)
	}

	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
	fmt.Println("Transform:")
	cfg.Dump(tr)
	fmt.Println("Model matrix:")
	fmt.Println(matrix.String())
	fmt.Println("Material:")
	cfg.Dump(mat)
	fmt.Println("Mesh:")
	cfg.Dump(m)
}
