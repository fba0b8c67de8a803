package gltf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Faultbox/stlgltf/pkg/math"
)

// glTF errors.
var (
	ErrInvariant    = errors.New("asset invariant violated")
	ErrInvalidColor = errors.New("invalid color")
	ErrInvalidGLB   = errors.New("invalid GLB container")
	ErrInvalidGLTF  = errors.New("invalid glTF document")
)

// maxVertices is the largest vertex count a uint32 index can address.
const maxVertices = 1<<32 - 1

// Geometry is the packed binary blob of a mesh together with the layout
// and extents the asset graph needs to describe it.
type Geometry struct {
	// Blob holds the positions followed directly by the indices.
	Blob []byte

	VertexCount      int
	IndexCount       int
	VertexByteLength int
	IndexByteLength  int

	// Bounds is computed over the stored float32 values; the zero box
	// for an empty mesh.
	Bounds math.AABB

	// IndexMax is the largest index, 0 for an empty mesh.
	IndexMax uint32
}

// BuildGeometry packs vertices as little-endian float32 triples and
// indices as little-endian uint32 into one contiguous blob.
//
// Indices must be the identity sequence 0..len(vertices)-1, which is what a
// non-deduplicated triangle soup produces.
func BuildGeometry(vertices []math.Vec3, indices []uint32) (*Geometry, error) {
	if uint64(len(vertices)) > maxVertices {
		return nil, fmt.Errorf("%w: %d vertices exceed uint32 index range", ErrInvariant, len(vertices))
	}
	if len(indices) != len(vertices) {
		return nil, fmt.Errorf("%w: %d indices for %d vertices", ErrInvariant, len(indices), len(vertices))
	}
	for i, idx := range indices {
		if idx != uint32(i) {
			return nil, fmt.Errorf("%w: index %d is %d, expected identity sequence", ErrInvariant, i, idx)
		}
	}
	for i, v := range vertices {
		if !v.IsFinite() {
			return nil, fmt.Errorf("%w: vertex %d is not finite: %v", ErrInvariant, i, v)
		}
	}

	vertexBytes := ComponentFloat.Size() * AccessorVec3.Components() * len(vertices)
	indexBytes := ComponentUnsignedInt.Size() * AccessorScalar.Components() * len(indices)

	buf := bytes.NewBuffer(make([]byte, 0, vertexBytes+indexBytes))
	if err := binary.Write(buf, binary.LittleEndian, vertices); err != nil {
		return nil, fmt.Errorf("packing vertices: %w", err)
	}
	if err := binary.Write(buf, binary.LittleEndian, indices); err != nil {
		return nil, fmt.Errorf("packing indices: %w", err)
	}

	if buf.Len() != vertexBytes+indexBytes {
		return nil, fmt.Errorf("%w: blob is %d bytes, expected %d", ErrInvariant, buf.Len(), vertexBytes+indexBytes)
	}

	geom := &Geometry{
		Blob:             buf.Bytes(),
		VertexCount:      len(vertices),
		IndexCount:       len(indices),
		VertexByteLength: vertexBytes,
		IndexByteLength:  indexBytes,
		Bounds:           math.BoundsOf(vertices),
	}
	if len(indices) > 0 {
		geom.IndexMax = indices[len(indices)-1]
	}

	return geom, nil
}

// ByteLength returns the total blob size.
func (g *Geometry) ByteLength() int {
	return g.VertexByteLength + g.IndexByteLength
}

// Positions returns the vertex segment of the blob.
func (g *Geometry) Positions() []byte {
	return g.Blob[:g.VertexByteLength]
}

// Indices returns the index segment of the blob.
func (g *Geometry) Indices() []byte {
	return g.Blob[g.VertexByteLength:]
}
