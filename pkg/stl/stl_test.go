package stl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/stlgltf/pkg/math"
)

// createTestSTL creates an ASCII STL document with one facet per triangle.
func createTestSTL(name string, triangles [][3]math.Vec3) []byte {
	buf := new(bytes.Buffer)

	fmt.Fprintf(buf, "solid %s\n", name)
	for _, tri := range triangles {
		buf.WriteString("  facet normal 0 0 1\n")
		buf.WriteString("    outer loop\n")
		for _, v := range tri {
			fmt.Fprintf(buf, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
		}
		buf.WriteString("    endloop\n")
		buf.WriteString("  endfacet\n")
	}
	fmt.Fprintf(buf, "endsolid %s\n", name)

	return buf.Bytes()
}

func TestParse_SingleTriangle(t *testing.T) {
	data := createTestSTL("tri", [][3]math.Vec3{
		{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
	})

	mesh, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if mesh.Name != "tri" {
		t.Errorf("expected name 'tri', got %q", mesh.Name)
	}

	want := []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}
	if len(mesh.Vertices) != len(want) {
		t.Fatalf("expected %d vertices, got %d", len(want), len(mesh.Vertices))
	}
	for i, v := range want {
		if mesh.Vertices[i] != v {
			t.Errorf("vertex %d: expected %v, got %v", i, v, mesh.Vertices[i])
		}
	}

	for i, idx := range mesh.Indices {
		if idx != uint32(i) {
			t.Errorf("index %d: expected %d, got %d", i, i, idx)
		}
	}

	if mesh.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", mesh.TriangleCount())
	}
	if mesh.SurfaceArea() != 0.5 {
		t.Errorf("expected area 0.5, got %f", mesh.SurfaceArea())
	}
}

func TestParse_VertexCountIsThreePerFacet(t *testing.T) {
	for _, k := range []int{0, 1, 2, 7, 64} {
		t.Run(fmt.Sprintf("%d facets", k), func(t *testing.T) {
			triangles := make([][3]math.Vec3, k)
			for i := range triangles {
				f := float32(i)
				triangles[i] = [3]math.Vec3{{X: f, Y: 0, Z: 0}, {X: f, Y: 1, Z: 0}, {X: f, Y: 0, Z: 1}}
			}

			mesh, err := Parse(createTestSTL("part", triangles))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if len(mesh.Vertices) != 3*k {
				t.Errorf("expected %d vertices, got %d", 3*k, len(mesh.Vertices))
			}
			if len(mesh.Indices) != 3*k {
				t.Errorf("expected %d indices, got %d", 3*k, len(mesh.Indices))
			}
			for i, idx := range mesh.Indices {
				if idx != uint32(i) {
					t.Fatalf("index %d: expected %d, got %d", i, i, idx)
				}
			}
		})
	}
}

func TestParse_SharedCornersNotMerged(t *testing.T) {
	// Two triangles sharing an edge.
	data := createTestSTL("quad", [][3]math.Vec3{
		{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}},
		{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}},
	})

	mesh, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(mesh.Vertices) != 6 {
		t.Errorf("expected 6 vertices, got %d", len(mesh.Vertices))
	}
	if mesh.Vertices[0] != mesh.Vertices[3] {
		t.Errorf("expected duplicated corner, got %v and %v", mesh.Vertices[0], mesh.Vertices[3])
	}
}

func TestParse_NumberForms(t *testing.T) {
	data := []byte(`solid numbers
facet normal 0.0e+00 0.0e+00 -1.0e+00
outer loop
vertex -1.5e+01 +2.25 .5
vertex 1E-3 -0 7.
vertex 3.4028235e+38 -1.17549435e-38 42
endloop
endfacet
endsolid numbers
`)

	mesh, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []math.Vec3{
		{X: -15, Y: 2.25, Z: 0.5},
		{X: 0.001, Y: 0, Z: 7},
		{X: 3.4028235e+38, Y: -1.17549435e-38, Z: 42},
	}
	for i, v := range want {
		if mesh.Vertices[i] != v {
			t.Errorf("vertex %d: expected %v, got %v", i, v, mesh.Vertices[i])
		}
	}
}

func TestParse_Float32Rounding(t *testing.T) {
	data := []byte("solid r\nfacet normal 0 0 0\nouter loop\nvertex 0.1 0.2 0.3\nvertex 0 0 0\nvertex 0 0 0\nendloop\nendfacet\nendsolid r\n")

	mesh, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := math.Vec3{X: float32(0.1), Y: float32(0.2), Z: float32(0.3)}
	if mesh.Vertices[0] != want {
		t.Errorf("expected %v, got %v", want, mesh.Vertices[0])
	}
}

func TestParse_CoordinatesAcrossLines(t *testing.T) {
	data := []byte("solid s\nfacet normal 0 0 1\nouter loop\nvertex 1\n 2\n 3\nvertex 4 5 6\nvertex 7 8 9\nendloop\nendfacet\nendsolid s\n")

	mesh, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if mesh.Vertices[0] != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("expected (1,2,3), got %v", mesh.Vertices[0])
	}
}

func TestParse_EmptySolid(t *testing.T) {
	mesh, err := Parse([]byte("solid empty\nendsolid empty\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(mesh.Vertices) != 0 || len(mesh.Indices) != 0 {
		t.Errorf("expected empty mesh, got %d vertices, %d indices", len(mesh.Vertices), len(mesh.Indices))
	}
	if mesh.Name != "empty" {
		t.Errorf("expected name 'empty', got %q", mesh.Name)
	}
}

func TestParse_HeaderNameContainingKeyword(t *testing.T) {
	mesh, err := Parse([]byte("solid vertex test\nendsolid vertex test\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if mesh.Name != "vertex test" {
		t.Errorf("expected name 'vertex test', got %q", mesh.Name)
	}
	if len(mesh.Vertices) != 0 {
		t.Errorf("expected no vertices, got %d", len(mesh.Vertices))
	}
}

func TestParse_HeaderNameEncoding(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"byte order mark", []byte("\xef\xbb\xbfsolid rotor\nendsolid rotor\n"), "rotor"},
		{"windows-1252", []byte("solid St\xe4nder\nendsolid\n"), "Ständer"},
		{"utf-8", []byte("solid Ständer\nendsolid\n"), "Ständer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := Parse(tt.data)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if mesh.Name != tt.want {
				t.Errorf("expected name %q, got %q", tt.want, mesh.Name)
			}
		})
	}
}

func TestParse_NotASCII(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"plain text", []byte("hello world\nthis is not a mesh\n")},
		{"solid without end", []byte("solid half\n")},
		{"binary", createBinarySTL(2)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.data)
			if !errors.Is(err, ErrNotASCII) {
				t.Errorf("expected ErrNotASCII, got %v", err)
			}
		})
	}
}

func TestParse_MalformedVertex(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"two coordinates", "solid s\nvertex 1 2\nendloop\nendsolid s\n"},
		{"truncated", "solid s\nvertex 1 2"},
		{"word", "solid s\nvertex 1 two 3\nendsolid s\n"},
		{"nan", "solid s\nvertex nan 0 0\nendsolid s\n"},
		{"inf", "solid s\nvertex 0 inf 0\nendsolid s\n"},
		{"hex", "solid s\nvertex 0 0 0x1p-2\nendsolid s\n"},
		{"out of range", "solid s\nvertex 1e39 0 0\nendsolid s\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			if !errors.Is(err, ErrMalformedVertex) {
				t.Errorf("expected ErrMalformedVertex, got %v", err)
			}
		})
	}
}

func TestParse_IncompleteFacet(t *testing.T) {
	data := []byte("solid s\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nendloop\nendfacet\nendsolid s\n")

	_, err := Parse(data)
	if !errors.Is(err, ErrIncompleteFacet) {
		t.Errorf("expected ErrIncompleteFacet, got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.stl")
	data := createTestSTL("part", [][3]math.Vec3{{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}})
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	mesh, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", mesh.TriangleCount())
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile("/nonexistent/path/part.stl")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

// createBinarySTL creates a binary STL with zeroed triangles.
func createBinarySTL(triangles uint32) []byte {
	buf := new(bytes.Buffer)
	buf.Write(make([]byte, binaryHeaderSize))
	binary.Write(buf, binary.LittleEndian, triangles)
	buf.Write(make([]byte, int(triangles)*binaryTriangleSize))
	return buf.Bytes()
}

func TestIsBinary(t *testing.T) {
	if !IsBinary(createBinarySTL(0)) {
		t.Error("expected empty binary STL to be detected")
	}
	if !IsBinary(createBinarySTL(3)) {
		t.Error("expected binary STL to be detected")
	}
	if IsBinary(createTestSTL("a", nil)) {
		t.Error("ASCII STL detected as binary")
	}
	if IsBinary(createBinarySTL(3)[:100]) {
		t.Error("truncated binary STL detected as binary")
	}
}
