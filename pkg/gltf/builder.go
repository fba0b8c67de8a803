package gltf

import (
	"fmt"
)

// Fixed indices of the single-mesh topology.
const (
	bufferIndex = 0

	positionViewIndex = 0
	indexViewIndex    = 1

	positionAccessorIndex = 0
	indexAccessorIndex    = 1
)

// DefaultGenerator is written to asset.generator unless overridden.
const DefaultGenerator = "stlgltf"

// BuilderOption is a functional option for configuring a Builder.
type BuilderOption func(b *Builder)

// WithName names the mesh, node and scene.
func WithName(name string) BuilderOption {
	return func(b *Builder) {
		b.name = name
	}
}

// WithBaseColor attaches a single metallic-roughness material with the
// given base color to the primitive.
func WithBaseColor(c Color) BuilderOption {
	return func(b *Builder) {
		b.color = &c
	}
}

// WithGenerator sets asset.generator.
func WithGenerator(generator string) BuilderOption {
	return func(b *Builder) {
		b.generator = generator
	}
}

// Builder assembles the fixed single-mesh asset graph around a Geometry:
// one buffer, two buffer views, two accessors, one mesh with one primitive,
// one node and one scene.
type Builder struct {
	geom      *Geometry
	name      string
	generator string
	color     *Color
}

// NewBuilder creates a Builder for geom.
func NewBuilder(geom *Geometry, opts ...BuilderOption) *Builder {
	b := &Builder{
		geom:      geom,
		generator: DefaultGenerator,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the asset graph. The result is validated against the
// geometry before it is returned.
func (b *Builder) Build() (*Document, error) {
	if b.geom == nil {
		return nil, fmt.Errorf("%w: nil geometry", ErrInvariant)
	}
	g := b.geom

	doc := &Document{
		Asset: Asset{Version: Version, Generator: b.generator},
		Scene: Index(0),
		Buffers: []Buffer{
			{ByteLength: g.ByteLength()},
		},
		BufferViews: []BufferView{
			positionViewIndex: {
				Buffer:     bufferIndex,
				ByteOffset: 0,
				ByteLength: g.VertexByteLength,
				Target:     TargetArrayBuffer,
			},
			indexViewIndex: {
				Buffer:     bufferIndex,
				ByteOffset: g.VertexByteLength,
				ByteLength: g.IndexByteLength,
				Target:     TargetElementArrayBuffer,
			},
		},
		Accessors: []Accessor{
			positionAccessorIndex: {
				BufferView:    Index(positionViewIndex),
				ComponentType: ComponentFloat,
				Count:         g.VertexCount,
				Type:          AccessorVec3,
				Min:           vec3Bound(g.Bounds.Min.Array()),
				Max:           vec3Bound(g.Bounds.Max.Array()),
			},
			indexAccessorIndex: {
				BufferView:    Index(indexViewIndex),
				ComponentType: ComponentUnsignedInt,
				Count:         g.IndexCount,
				Type:          AccessorScalar,
				Min:           []float64{0},
				Max:           []float64{float64(g.IndexMax)},
			},
		},
	}

	primitive := Primitive{
		Attributes: map[string]int{AttributePosition: positionAccessorIndex},
		Indices:    Index(indexAccessorIndex),
		Mode:       ModeTriangles,
	}

	if b.color != nil {
		if err := b.color.Validate(); err != nil {
			return nil, err
		}
		doc.Materials = []Material{{
			Name: b.name,
			PBRMetallicRoughness: &PBRMetallicRoughness{
				BaseColorFactor: *b.color,
				MetallicFactor:  0,
				RoughnessFactor: 1,
			},
		}}
		primitive.Material = Index(0)
	}

	doc.Meshes = []Mesh{{Name: b.name, Primitives: []Primitive{primitive}}}
	doc.Nodes = []Node{{Name: b.name, Mesh: Index(0)}}
	doc.Scenes = []Scene{{Name: b.name, Nodes: []int{0}}}

	if err := doc.Validate(g); err != nil {
		return nil, err
	}
	return doc, nil
}

func vec3Bound(v [3]float32) []float64 {
	return []float64{float64(v[0]), float64(v[1]), float64(v[2])}
}
