package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/banshee-data/pinhole/internal/fsutil"
	"github.com/banshee-data/pinhole/internal/lensplot"
	"github.com/banshee-data/pinhole/internal/monitoring"
	"github.com/banshee-data/pinhole/internal/pinhole"
	"github.com/banshee-data/pinhole/internal/security"
)

func runPlot(args []string, out io.Writer) error {
	return plotWith(fsutil.OSFileSystem{}, args, out)
}

func plotWith(fsys fsutil.FileSystem, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	fs.SetOutput(out)
	var camera cameraFlags
	camera.register(fs)
	outPath := fs.String("out", "", "Output file, .png or .html (default: <camera>-distortion.png)")
	steps := fs.Int("steps", 201, "Samples per axis")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pkg, name, err := camera.load()
	if err != nil {
		return err
	}

	if *outPath == "" {
		*outPath = security.SafeName(name) + "-distortion.png"
	}
	ext := strings.ToLower(filepath.Ext(*outPath))
	if ext != ".png" && ext != ".html" {
		return fmt.Errorf("output must be .png or .html, got %q", ext)
	}
	if err := security.ValidateOutputPath(*outPath); err != nil {
		return err
	}
	curves, err := lensplot.SampleAll(pkg, *steps)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s distortion correction", name)
	switch ext {
	case ".png":
		err = lensplot.SavePNG(fsys, *outPath, title, curves, pkg.Lens.Distortion)
	case ".html":
		err = writeHTML(fsys, *outPath, title, curves, pkg)
	}
	if err != nil {
		return err
	}

	monitoring.Debugf("sampled %d points per axis", *steps)
	fmt.Fprintf(out, "wrote %s\n", *outPath)
	return nil
}

func writeHTML(fsys fsutil.FileSystem, path, title string, curves []lensplot.Curve, pkg *pinhole.Package) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := lensplot.RenderHTML(f, title, curves, pkg.Lens.Distortion); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
