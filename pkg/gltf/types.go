// Package gltf builds and serializes single-mesh glTF 2.0 assets.
//
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
package gltf

// Version is the glTF version written to asset.version.
const Version = "2.0"

// ComponentType is the datatype of an accessor's components.
type ComponentType int

// Component types used by this package.
const (
	ComponentUnsignedInt ComponentType = 5125
	ComponentFloat       ComponentType = 5126
)

// Size returns the component size in bytes.
func (c ComponentType) Size() int {
	switch c {
	case ComponentUnsignedInt, ComponentFloat:
		return 4
	default:
		return 0
	}
}

// Target is the GPU buffer binding hint of a buffer view.
type Target int

// Buffer view targets.
const (
	TargetArrayBuffer        Target = 34962 // vertex attributes
	TargetElementArrayBuffer Target = 34963 // vertex indices
)

// String returns the usage tag of the target.
func (t Target) String() string {
	switch t {
	case TargetArrayBuffer:
		return "vertex-array"
	case TargetElementArrayBuffer:
		return "element-array"
	default:
		return "unknown"
	}
}

// AccessorType is the element shape of an accessor.
type AccessorType string

// Accessor types used by this package.
const (
	AccessorScalar AccessorType = "SCALAR"
	AccessorVec3   AccessorType = "VEC3"
)

// Components returns the number of components per element.
func (a AccessorType) Components() int {
	switch a {
	case AccessorScalar:
		return 1
	case AccessorVec3:
		return 3
	default:
		return 0
	}
}

// Mode is the primitive topology.
type Mode int

// ModeTriangles renders every three indices as one triangle.
const ModeTriangles Mode = 4

// AttributePosition is the vertex position attribute semantic.
const AttributePosition = "POSITION"

// Document is the root glTF JSON object.
type Document struct {
	Asset       Asset        `json:"asset"`
	Scene       *int         `json:"scene,omitempty"`
	Scenes      []Scene      `json:"scenes"`
	Nodes       []Node       `json:"nodes"`
	Meshes      []Mesh       `json:"meshes"`
	Materials   []Material   `json:"materials,omitempty"`
	Accessors   []Accessor   `json:"accessors"`
	BufferViews []BufferView `json:"bufferViews"`
	Buffers     []Buffer     `json:"buffers"`
}

// Asset holds metadata about the asset.
type Asset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

// Scene is a set of root nodes.
type Scene struct {
	Name  string `json:"name,omitempty"`
	Nodes []int  `json:"nodes"`
}

// Node places a mesh in the scene.
type Node struct {
	Name string `json:"name,omitempty"`
	Mesh *int   `json:"mesh,omitempty"`
}

// Mesh is a set of primitives.
type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives"`
}

// Primitive is geometry to be rendered with a material.
type Primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices,omitempty"`
	Material   *int           `json:"material,omitempty"`
	Mode       Mode           `json:"mode"`
}

// Material describes surface appearance.
type Material struct {
	Name                 string                `json:"name,omitempty"`
	PBRMetallicRoughness *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
}

// PBRMetallicRoughness is the metallic-roughness material model.
type PBRMetallicRoughness struct {
	BaseColorFactor [4]float32 `json:"baseColorFactor"`
	MetallicFactor  float32    `json:"metallicFactor"`
	RoughnessFactor float32    `json:"roughnessFactor"`
}

// Accessor is a typed view into a buffer view.
//
// Min and Max are float64 so that both float32 positions and uint32
// indices survive a JSON round trip exactly.
type Accessor struct {
	BufferView    *int          `json:"bufferView,omitempty"`
	ByteOffset    int           `json:"byteOffset"`
	ComponentType ComponentType `json:"componentType"`
	Count         int           `json:"count"`
	Type          AccessorType  `json:"type"`
	Min           []float64     `json:"min,omitempty"`
	Max           []float64     `json:"max,omitempty"`
}

// ByteLength returns the number of bytes the accessor's elements occupy
// when tightly packed.
func (a Accessor) ByteLength() int {
	return a.ComponentType.Size() * a.Type.Components() * a.Count
}

// BufferView is a byte range of a buffer.
type BufferView struct {
	Buffer     int    `json:"buffer"`
	ByteOffset int    `json:"byteOffset"`
	ByteLength int    `json:"byteLength"`
	Target     Target `json:"target,omitempty"`
}

// Buffer points to binary geometry. URI is empty when the data lives in
// the BIN chunk of a GLB container.
type Buffer struct {
	ByteLength int    `json:"byteLength"`
	URI        string `json:"uri,omitempty"`
}

// Index returns a pointer to i, for optional index fields.
func Index(i int) *int {
	return &i
}
