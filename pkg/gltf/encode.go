package gltf

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// GLB container constants.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
const (
	glbMagic           = 0x46546C67 // "glTF"
	glbVersion         = 2
	glbHeaderSize      = 12
	glbChunkHeaderSize = 8
	glbChunkJSON       = 0x4E4F534A // "JSON"
	glbChunkBIN        = 0x004E4942 // "BIN\x00"
	glbAlignment       = 4
	glbMaxLength       = 1<<32 - 1
)

// dataURIPrefix marks a buffer embedded in the JSON document.
const dataURIPrefix = "data:application/octet-stream;base64,"

type glbHeader struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

type glbChunkHeader struct {
	Length uint32
	Type   uint32
}

// Format selects the container encoding.
type Format int

// Container formats.
const (
	FormatAuto     Format = iota // pick by output file extension
	FormatGLB                    // binary container, JSON + BIN chunks
	FormatEmbedded               // .gltf JSON with a base64 data URI buffer
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatGLB:
		return "glb"
	case FormatEmbedded:
		return "gltf"
	default:
		return "auto"
	}
}

// ParseFormat parses "glb", "gltf" or "auto" (also the empty string).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "glb":
		return FormatGLB, nil
	case "gltf":
		return FormatEmbedded, nil
	default:
		return FormatAuto, fmt.Errorf("unknown output format %q", s)
	}
}

// Resolve turns FormatAuto into a concrete format based on path:
// ".gltf" selects the embedded JSON encoding, anything else GLB.
func (f Format) Resolve(path string) Format {
	if f != FormatAuto {
		return f
	}
	if strings.EqualFold(filepath.Ext(path), ".gltf") {
		return FormatEmbedded
	}
	return FormatGLB
}

// Encode serializes doc and blob with the given format.
// FormatAuto encodes as GLB.
func Encode(doc *Document, blob []byte, f Format) ([]byte, error) {
	if f == FormatEmbedded {
		return EncodeEmbedded(doc, blob)
	}
	return EncodeGLB(doc, blob)
}

// EncodeGLB builds a binary glTF container: a 12-byte header, a JSON chunk
// padded with spaces and, for a non-empty blob, a BIN chunk padded with
// zeros. Both chunks are aligned to 4 bytes.
func EncodeGLB(doc *Document, blob []byte) ([]byte, error) {
	if err := doc.ValidateLayout(len(blob)); err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(withBufferURI(doc, ""))
	if err != nil {
		return nil, fmt.Errorf("marshaling glTF JSON: %w", err)
	}
	jsonData = pad(jsonData, ' ')
	binData := pad(blob, 0)

	total := glbHeaderSize + glbChunkHeaderSize + len(jsonData)
	if len(binData) > 0 {
		total += glbChunkHeaderSize + len(binData)
	}
	if uint64(total) > glbMaxLength {
		return nil, fmt.Errorf("%w: %d bytes exceeds the 4 GiB container limit", ErrInvalidGLB, total)
	}

	buf := bytes.NewBuffer(make([]byte, 0, total))
	header := glbHeader{Magic: glbMagic, Version: glbVersion, Length: uint32(total)}
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("writing GLB header: %w", err)
	}
	if err := writeChunk(buf, glbChunkJSON, jsonData); err != nil {
		return nil, err
	}
	if len(binData) > 0 {
		if err := writeChunk(buf, glbChunkBIN, binData); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// EncodeEmbedded builds a self-contained .gltf JSON document with the blob
// stored as a base64 data URI on the buffer.
func EncodeEmbedded(doc *Document, blob []byte) ([]byte, error) {
	if err := doc.ValidateLayout(len(blob)); err != nil {
		return nil, err
	}

	uri := dataURIPrefix + base64.StdEncoding.EncodeToString(blob)
	data, err := json.MarshalIndent(withBufferURI(doc, uri), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling glTF JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// withBufferURI returns a shallow copy of doc whose first buffer has the
// given URI. doc itself is left untouched.
func withBufferURI(doc *Document, uri string) *Document {
	out := *doc
	out.Buffers = append([]Buffer(nil), doc.Buffers...)
	out.Buffers[bufferIndex].URI = uri
	return &out
}

func writeChunk(buf *bytes.Buffer, chunkType uint32, data []byte) error {
	header := glbChunkHeader{Length: uint32(len(data)), Type: chunkType}
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("writing GLB chunk header: %w", err)
	}
	buf.Write(data)
	return nil
}

// pad returns data extended with fill up to the next 4-byte boundary.
func pad(data []byte, fill byte) []byte {
	n := (glbAlignment - len(data)%glbAlignment) % glbAlignment
	if n == 0 {
		return data
	}
	out := make([]byte, len(data), len(data)+n)
	copy(out, data)
	for i := 0; i < n; i++ {
		out = append(out, fill)
	}
	return out
}
