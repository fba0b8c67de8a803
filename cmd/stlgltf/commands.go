package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Faultbox/stlgltf/internal/config"
	"github.com/Faultbox/stlgltf/internal/convert"
	"github.com/Faultbox/stlgltf/pkg/gltf"
)

func cmdConvert(cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: stlgltf convert <input.stl> [output]")
	}

	opts, err := convert.OptionsFromConfig(cfg.Output)
	if err != nil {
		return err
	}

	input := args[0]
	output := ""
	if len(args) == 2 {
		output = args[1]
	} else {
		format := opts.Format
		if format == gltf.FormatAuto {
			format = gltf.FormatGLB
		}
		output = convert.OutputPath(input, cfg.Output.Dir, format)
	}

	res, err := convert.Convert(input, output, opts)
	if err != nil {
		return err
	}

	printResult(res)
	return nil
}

func cmdBatch(cfg *config.Config, args []string) error {
	for _, input := range args {
		cfg.Jobs = append(cfg.Jobs, config.Job{Input: input})
	}
	if len(cfg.Jobs) == 0 {
		return errors.New("no jobs: add a jobs section to the config file or pass input files")
	}

	jobs, err := convert.JobsFromConfig(cfg)
	if err != nil {
		return err
	}

	report := convert.RunBatch(jobs)
	for _, res := range report.Results {
		printResult(res)
	}

	fmt.Printf("\n%d converted, %d failed\n", len(report.Results), report.Failed)
	return report.Err
}

func cmdInfo(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: stlgltf info <file.glb|file.gltf>")
	}

	asset, err := gltf.DecodeFile(args[0])
	if err != nil {
		return err
	}
	doc := asset.Document

	fmt.Printf("File:       %s\n", args[0])
	fmt.Printf("Format:     %s\n", asset.Format)
	fmt.Printf("Version:    %s\n", doc.Asset.Version)
	if doc.Asset.Generator != "" {
		fmt.Printf("Generator:  %s\n", doc.Asset.Generator)
	}
	if len(doc.Meshes) > 0 && doc.Meshes[0].Name != "" {
		fmt.Printf("Mesh:       %s\n", doc.Meshes[0].Name)
	}
	// Decode validated the layout, so the primitive is wired.
	prim := doc.Meshes[0].Primitives[0]
	fmt.Printf("Vertices:   %d\n", doc.Accessors[prim.Attributes[gltf.AttributePosition]].Count)
	fmt.Printf("Triangles:  %d\n", doc.Accessors[*prim.Indices].Count/3)
	fmt.Printf("Buffer:     %d bytes\n", len(asset.Blob))

	bounds, err := doc.Bounds()
	if err != nil {
		return err
	}
	fmt.Printf("Bounds min: %v\n", bounds.Min.Array())
	fmt.Printf("Bounds max: %v\n", bounds.Max.Array())

	if len(doc.Materials) > 0 && doc.Materials[0].PBRMetallicRoughness != nil {
		fmt.Printf("Color:      %s\n", gltf.Color(doc.Materials[0].PBRMetallicRoughness.BaseColorFactor))
	}

	fmt.Println()
	fmt.Println("Buffer views:")
	for i, view := range doc.BufferViews {
		fmt.Printf("  %d  offset %-8d length %-8d %s\n", i, view.ByteOffset, view.ByteLength, view.Target)
	}
	return nil
}

func cmdInitConfig(args []string) error {
	path := filepath.Join(config.ConfigDir(), config.FileName)
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	if err := config.Default().SaveTo(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func printResult(res *convert.Result) {
	fmt.Printf("%s -> %s (%s)\n", res.Input, res.Output, res.Format)
	fmt.Printf("  triangles: %d  vertices: %d  bytes: %d\n", res.Triangles, res.Vertices, res.Bytes)
	fmt.Printf("  bounds:    %v .. %v\n", res.Bounds.Min.Array(), res.Bounds.Max.Array())
	fmt.Printf("  area:      %.4f\n", res.SurfaceArea)
}
