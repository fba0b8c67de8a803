// Package stl parses ASCII STL (STereoLithography) triangle meshes.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/Faultbox/stlgltf/pkg/encoding"
	"github.com/Faultbox/stlgltf/pkg/math"
)

// STL format errors.
var (
	ErrNotASCII        = errors.New("not an ASCII STL document")
	ErrMalformedVertex = errors.New("malformed vertex directive")
	ErrIncompleteFacet = errors.New("vertex count is not a multiple of 3")
)

// Binary STL layout: 80-byte header, uint32 triangle count, 50 bytes per triangle.
const (
	binaryHeaderSize   = 80
	binaryTriangleSize = 50
)

// numberPattern accepts signed decimals with an optional exponent.
// strconv.ParseFloat alone would also take "inf", "nan" and hex floats.
var numberPattern = regexp.MustCompile(`^[-+]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][-+]?[0-9]+)?$`)

// Mesh is a parsed triangle soup. Every triangle contributes three
// vertices in file order; shared corners are not merged.
type Mesh struct {
	// Name is the label following "solid" on the header line, if any.
	Name     string
	Vertices []math.Vec3
	// Indices is always the identity sequence 0..len(Vertices)-1.
	Indices []uint32
}

// TriangleCount returns the number of facets.
func (m *Mesh) TriangleCount() int {
	return len(m.Vertices) / 3
}

// Triangle returns the corners of facet i.
func (m *Mesh) Triangle(i int) [3]math.Vec3 {
	return [3]math.Vec3{m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]}
}

// SurfaceArea returns the summed area of all facets.
func (m *Mesh) SurfaceArea() float32 {
	var area float32
	for i := 0; i < m.TriangleCount(); i++ {
		t := m.Triangle(i)
		area += math.TriangleArea(t[0], t[1], t[2])
	}
	return area
}

// Parse parses an ASCII STL document from raw bytes.
//
// Only "vertex" directives contribute geometry; facet normals and the
// structural keywords are skipped. A "solid ... endsolid" document without
// facets yields an empty mesh.
func Parse(data []byte) (*Mesh, error) {
	t := newTokenizer(encoding.TrimBOM(data))
	mesh := &Mesh{}

	var sawSolid, sawEndSolid bool
	first := true

	for {
		tok, ok := t.next()
		if !ok {
			break
		}

		switch tok {
		case "solid":
			if first {
				sawSolid = true
				mesh.Name = encoding.CleanName(t.restOfLine())
			}
			t.skipLine()
		case "endsolid":
			sawEndSolid = true
			t.skipLine()
		case "vertex":
			line := t.line
			v, err := t.vec3()
			if err != nil {
				return nil, fmt.Errorf("%w: vertex %d (line %d): %v", ErrMalformedVertex, len(mesh.Vertices), line, err)
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}
		first = false
	}

	if err := t.err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotASCII, err)
	}

	if len(mesh.Vertices) == 0 && !(sawSolid && sawEndSolid) {
		if IsBinary(data) {
			return nil, fmt.Errorf("%w: binary STL is not supported", ErrNotASCII)
		}
		return nil, ErrNotASCII
	}

	if len(mesh.Vertices)%3 != 0 {
		return nil, fmt.Errorf("%w: got %d vertices", ErrIncompleteFacet, len(mesh.Vertices))
	}

	mesh.Indices = identityIndices(len(mesh.Vertices))
	return mesh, nil
}

// ParseFile parses an ASCII STL file from disk.
func ParseFile(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading STL file: %w", err)
	}
	return Parse(data)
}

// IsBinary reports whether data has the exact length implied by a binary
// STL header: 84 bytes plus 50 bytes per declared triangle.
func IsBinary(data []byte) bool {
	if len(data) < binaryHeaderSize+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(data[binaryHeaderSize : binaryHeaderSize+4])
	return uint64(len(data)) == binaryHeaderSize+4+uint64(count)*binaryTriangleSize
}

func identityIndices(n int) []uint32 {
	indices := make([]uint32, n)
	for i := range indices {
		indices[i] = uint32(i)
	}
	return indices
}

// tokenizer splits the document into whitespace-separated words while
// tracking the current line for error messages.
type tokenizer struct {
	lines  *bufio.Scanner
	fields []string
	line   int
}

func newTokenizer(data []byte) *tokenizer {
	sc := bufio.NewScanner(bytes.NewReader(data))
	// A binary file may have no newlines at all.
	sc.Buffer(make([]byte, 0, 4096), len(data)+1)
	return &tokenizer{lines: sc}
}

func (t *tokenizer) next() (string, bool) {
	for len(t.fields) == 0 {
		if !t.lines.Scan() {
			return "", false
		}
		t.line++
		t.fields = strings.Fields(t.lines.Text())
	}
	tok := t.fields[0]
	t.fields = t.fields[1:]
	return tok, true
}

func (t *tokenizer) restOfLine() string {
	return strings.Join(t.fields, " ")
}

func (t *tokenizer) skipLine() {
	t.fields = nil
}

func (t *tokenizer) err() error {
	return t.lines.Err()
}

// vec3 reads three coordinates following a directive.
func (t *tokenizer) vec3() (math.Vec3, error) {
	var c [3]float32
	for i := range c {
		tok, ok := t.next()
		if !ok {
			return math.Vec3{}, fmt.Errorf("unexpected end of input after %d coordinates", i)
		}
		f, err := parseCoordinate(tok)
		if err != nil {
			return math.Vec3{}, err
		}
		c[i] = f
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

// parseCoordinate parses a decimal token with 32-bit rounding.
func parseCoordinate(tok string) (float32, error) {
	if !numberPattern.MatchString(tok) {
		return 0, fmt.Errorf("invalid number %q", tok)
	}
	f, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", tok, err)
	}
	return float32(f), nil
}
