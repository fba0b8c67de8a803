package gltf

import (
	"fmt"

	"github.com/Faultbox/stlgltf/pkg/math"
)

// Validate checks the document against the geometry it was built from:
// the layout rules of ValidateLayout plus exact counts and bounds.
func (d *Document) Validate(g *Geometry) error {
	if err := d.ValidateLayout(len(g.Blob)); err != nil {
		return err
	}

	pos := d.Accessors[positionAccessorIndex]
	if pos.Count != g.VertexCount {
		return invariantf("position count %d, geometry has %d vertices", pos.Count, g.VertexCount)
	}
	if d.BufferViews[positionViewIndex].ByteLength != g.VertexByteLength {
		return invariantf("position view is %d bytes, geometry has %d", d.BufferViews[positionViewIndex].ByteLength, g.VertexByteLength)
	}

	bounds, err := d.Bounds()
	if err != nil {
		return err
	}
	if bounds != g.Bounds {
		return invariantf("accessor bounds %v differ from geometry bounds %v", bounds, g.Bounds)
	}
	return nil
}

// ValidateLayout checks the fixed single-mesh topology and that the buffer
// views tile a blob of blobLen bytes with no gap or overlap.
func (d *Document) ValidateLayout(blobLen int) error {
	switch {
	case len(d.Buffers) != 1:
		return invariantf("expected 1 buffer, got %d", len(d.Buffers))
	case len(d.BufferViews) != 2:
		return invariantf("expected 2 buffer views, got %d", len(d.BufferViews))
	case len(d.Accessors) != 2:
		return invariantf("expected 2 accessors, got %d", len(d.Accessors))
	case len(d.Meshes) != 1 || len(d.Meshes[0].Primitives) != 1:
		return invariantf("expected 1 mesh with 1 primitive")
	case len(d.Nodes) != 1:
		return invariantf("expected 1 node, got %d", len(d.Nodes))
	case len(d.Scenes) != 1:
		return invariantf("expected 1 scene, got %d", len(d.Scenes))
	case len(d.Materials) > 1:
		return invariantf("expected at most 1 material, got %d", len(d.Materials))
	}

	if d.Buffers[bufferIndex].ByteLength != blobLen {
		return invariantf("buffer byteLength %d, blob is %d bytes", d.Buffers[bufferIndex].ByteLength, blobLen)
	}

	pos := d.Accessors[positionAccessorIndex]
	idx := d.Accessors[indexAccessorIndex]
	if err := checkAccessor(pos, positionViewIndex, ComponentFloat, AccessorVec3); err != nil {
		return err
	}
	if err := checkAccessor(idx, indexViewIndex, ComponentUnsignedInt, AccessorScalar); err != nil {
		return err
	}
	if pos.Count != idx.Count {
		return invariantf("%d indices for %d vertices", idx.Count, pos.Count)
	}

	posView := d.BufferViews[positionViewIndex]
	idxView := d.BufferViews[indexViewIndex]
	switch {
	case posView.Buffer != bufferIndex || idxView.Buffer != bufferIndex:
		return invariantf("buffer views must reference buffer %d", bufferIndex)
	case posView.Target != TargetArrayBuffer:
		return invariantf("position view target %d", posView.Target)
	case idxView.Target != TargetElementArrayBuffer:
		return invariantf("index view target %d", idxView.Target)
	case posView.ByteOffset != 0:
		return invariantf("position view offset %d, expected 0", posView.ByteOffset)
	case posView.ByteLength != pos.ByteLength():
		return invariantf("position view is %d bytes, expected %d", posView.ByteLength, pos.ByteLength())
	case idxView.ByteOffset != posView.ByteLength:
		return invariantf("index view offset %d, expected %d", idxView.ByteOffset, posView.ByteLength)
	case idxView.ByteLength != idx.ByteLength():
		return invariantf("index view is %d bytes, expected %d", idxView.ByteLength, idx.ByteLength())
	case idxView.ByteOffset+idxView.ByteLength != blobLen:
		return invariantf("buffer views cover %d bytes, blob is %d", idxView.ByteOffset+idxView.ByteLength, blobLen)
	}

	if len(pos.Min) != 3 || len(pos.Max) != 3 {
		return invariantf("position accessor needs 3-component min/max")
	}
	var wantMax float64
	if idx.Count > 0 {
		wantMax = float64(idx.Count - 1)
	}
	if len(idx.Min) != 1 || idx.Min[0] != 0 || len(idx.Max) != 1 || idx.Max[0] != wantMax {
		return invariantf("index accessor min/max %v/%v, expected [0]/[%v]", idx.Min, idx.Max, wantMax)
	}

	prim := d.Meshes[0].Primitives[0]
	if at, ok := prim.Attributes[AttributePosition]; !ok || at != positionAccessorIndex || len(prim.Attributes) != 1 {
		return invariantf("primitive attributes %v", prim.Attributes)
	}
	if prim.Indices == nil || *prim.Indices != indexAccessorIndex {
		return invariantf("primitive indices must reference accessor %d", indexAccessorIndex)
	}
	if prim.Mode != ModeTriangles {
		return invariantf("primitive mode %d, expected triangles", prim.Mode)
	}
	if prim.Material != nil && (len(d.Materials) != 1 || *prim.Material != 0) {
		return invariantf("primitive material does not resolve")
	}
	if d.Nodes[0].Mesh == nil || *d.Nodes[0].Mesh != 0 {
		return invariantf("node must reference mesh 0")
	}
	if len(d.Scenes[0].Nodes) != 1 || d.Scenes[0].Nodes[0] != 0 {
		return invariantf("scene must contain node 0")
	}
	return nil
}

// Bounds returns the position accessor min/max as a float32 box.
func (d *Document) Bounds() (math.AABB, error) {
	if len(d.Accessors) <= positionAccessorIndex {
		return math.AABB{}, invariantf("missing position accessor")
	}
	pos := d.Accessors[positionAccessorIndex]
	if len(pos.Min) != 3 || len(pos.Max) != 3 {
		return math.AABB{}, invariantf("position accessor needs 3-component min/max")
	}
	return math.AABB{
		Min: math.Vec3{X: float32(pos.Min[0]), Y: float32(pos.Min[1]), Z: float32(pos.Min[2])},
		Max: math.Vec3{X: float32(pos.Max[0]), Y: float32(pos.Max[1]), Z: float32(pos.Max[2])},
	}, nil
}

func checkAccessor(a Accessor, view int, ct ComponentType, typ AccessorType) error {
	switch {
	case a.BufferView == nil || *a.BufferView != view:
		return invariantf("accessor must reference buffer view %d", view)
	case a.ByteOffset != 0:
		return invariantf("accessor byteOffset %d, expected 0", a.ByteOffset)
	case a.ComponentType != ct:
		return invariantf("accessor componentType %d, expected %d", a.ComponentType, ct)
	case a.Type != typ:
		return invariantf("accessor type %s, expected %s", a.Type, typ)
	case a.Count < 0:
		return invariantf("negative accessor count %d", a.Count)
	}
	return nil
}

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...)
}
