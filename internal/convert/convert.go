// Package convert turns ASCII STL files into glTF assets.
package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/stlgltf/internal/logger"
	"github.com/Faultbox/stlgltf/pkg/gltf"
	"github.com/Faultbox/stlgltf/pkg/math"
	"github.com/Faultbox/stlgltf/pkg/stl"
)

// Conversion error kinds. Every error returned by Convert wraps exactly
// one of these together with the underlying cause.
var (
	ErrIO       = errors.New("i/o error")
	ErrParse    = errors.New("parse error")
	ErrEncoding = errors.New("encoding error")
)

// KindOf returns "io", "parse" or "encoding" for a conversion error.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrIO):
		return "io"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrEncoding):
		return "encoding"
	default:
		return "unknown"
	}
}

// Options controls a single conversion.
type Options struct {
	// Color attaches a base-color material when set.
	Color *gltf.Color
	// Format of the output; FormatAuto picks by output extension.
	Format gltf.Format
	// Generator overrides asset.generator.
	Generator string
}

// Result describes a finished conversion.
type Result struct {
	Input       string
	Output      string
	Format      gltf.Format
	Name        string
	Triangles   int
	Vertices    int
	Bounds      math.AABB
	SurfaceArea float32
	Bytes       int
	Duration    time.Duration
}

// Convert reads the ASCII STL file at inPath and writes a glTF asset to
// outPath. The output is written atomically: on any error no file is left
// at outPath.
func Convert(inPath, outPath string, opts Options) (*Result, error) {
	start := time.Now()

	mesh, err := stl.ParseFile(inPath)
	if err != nil {
		if errors.As(err, new(*fs.PathError)) {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, inPath, err)
	}
	logger.Debug("parsed STL",
		zap.String("input", inPath),
		zap.String("solid", mesh.Name),
		zap.Int("triangles", mesh.TriangleCount()))
	if mesh.TriangleCount() == 0 {
		logger.Warn("solid has no facets, writing empty geometry", zap.String("input", inPath))
	}

	name := mesh.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	}
	res := &Result{
		Input:       inPath,
		Output:      outPath,
		Format:      opts.Format.Resolve(outPath),
		Name:        name,
		Triangles:   mesh.TriangleCount(),
		Vertices:    len(mesh.Vertices),
		SurfaceArea: mesh.SurfaceArea(),
	}

	geom, err := gltf.BuildGeometry(mesh.Vertices, mesh.Indices)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	res.Bounds = geom.Bounds
	logger.Debug("packed geometry",
		zap.Int("vertexBytes", geom.VertexByteLength),
		zap.Int("indexBytes", geom.IndexByteLength))

	builderOpts := []gltf.BuilderOption{gltf.WithName(name)}
	if opts.Generator != "" {
		builderOpts = append(builderOpts, gltf.WithGenerator(opts.Generator))
	}
	if opts.Color != nil {
		builderOpts = append(builderOpts, gltf.WithBaseColor(*opts.Color))
	}
	doc, err := gltf.NewBuilder(geom, builderOpts...).Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	out, err := gltf.Encode(doc, geom.Blob, res.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	if err := gltf.WriteFile(outPath, out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	res.Bytes = len(out)
	res.Duration = time.Since(start)

	logger.Info("converted",
		zap.String("input", inPath),
		zap.String("output", outPath),
		zap.Stringer("format", res.Format),
		zap.Int("triangles", res.Triangles),
		zap.Int("bytes", res.Bytes),
		zap.Duration("took", res.Duration))

	return res, nil
}

// OutputPath derives an output path for input: the input's base name with
// the extension of format, placed in dir (or next to the input when dir is
// empty).
func OutputPath(input, dir string, format gltf.Format) string {
	ext := ".glb"
	if format == gltf.FormatEmbedded {
		ext = ".gltf"
	}
	if dir == "" {
		dir = filepath.Dir(input)
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+ext)
}
