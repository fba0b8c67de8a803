package gltf

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Faultbox/stlgltf/pkg/math"
)

// DecodedAsset is a decoded container: the document and its buffer bytes.
type DecodedAsset struct {
	Document *Document
	Blob     []byte
	Format   Format
}

// Decode parses a GLB container or an embedded .gltf document produced by
// this package. The layout is validated before it is returned.
func Decode(data []byte) (*DecodedAsset, error) {
	var (
		asset *DecodedAsset
		err   error
	)
	if len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic {
		asset, err = decodeGLB(data)
	} else {
		asset, err = decodeEmbedded(data)
	}
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(asset.Document.Asset.Version, "2.") {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidGLTF, asset.Document.Asset.Version)
	}
	if err := asset.Document.ValidateLayout(len(asset.Blob)); err != nil {
		return nil, err
	}
	return asset, nil
}

// DecodeFile reads and decodes a .glb or .gltf file.
func DecodeFile(path string) (*DecodedAsset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading glTF file: %w", err)
	}
	return Decode(data)
}

func decodeGLB(data []byte) (*DecodedAsset, error) {
	if len(data) < glbHeaderSize+glbChunkHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is too small", ErrInvalidGLB, len(data))
	}

	r := bytes.NewReader(data)
	var header glbHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrInvalidGLB, err)
	}
	if header.Version != glbVersion {
		return nil, fmt.Errorf("%w: version %d", ErrInvalidGLB, header.Version)
	}
	if int(header.Length) != len(data) {
		return nil, fmt.Errorf("%w: header length %d, file is %d bytes", ErrInvalidGLB, header.Length, len(data))
	}

	var jsonData, binData []byte
	for chunk := 0; r.Len() > 0; chunk++ {
		var ch glbChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
			return nil, fmt.Errorf("%w: chunk %d header: %v", ErrInvalidGLB, chunk, err)
		}
		if ch.Length%glbAlignment != 0 {
			return nil, fmt.Errorf("%w: chunk %d length %d is not 4-byte aligned", ErrInvalidGLB, chunk, ch.Length)
		}
		if int64(ch.Length) > int64(r.Len()) {
			return nil, fmt.Errorf("%w: chunk %d overruns the container", ErrInvalidGLB, chunk)
		}
		body := make([]byte, ch.Length)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, fmt.Errorf("%w: chunk %d body: %v", ErrInvalidGLB, chunk, err)
		}

		switch {
		case chunk == 0 && ch.Type != glbChunkJSON:
			return nil, fmt.Errorf("%w: first chunk must be JSON", ErrInvalidGLB)
		case ch.Type == glbChunkJSON:
			jsonData = body
		case ch.Type == glbChunkBIN && binData == nil:
			binData = body
		}
	}

	var doc Document
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing JSON chunk: %v", ErrInvalidGLTF, err)
	}
	if len(doc.Buffers) == 0 {
		return nil, fmt.Errorf("%w: no buffers", ErrInvalidGLTF)
	}
	if doc.Buffers[bufferIndex].URI != "" {
		return nil, fmt.Errorf("%w: GLB buffer must not have a URI", ErrInvalidGLB)
	}

	n := doc.Buffers[bufferIndex].ByteLength
	if n < 0 || n > len(binData) || len(binData)-n >= glbAlignment {
		return nil, fmt.Errorf("%w: buffer byteLength %d, BIN chunk is %d bytes", ErrInvalidGLB, n, len(binData))
	}

	return &DecodedAsset{Document: &doc, Blob: binData[:n], Format: FormatGLB}, nil
}

func decodeEmbedded(data []byte) (*DecodedAsset, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGLTF, err)
	}
	if len(doc.Buffers) == 0 {
		return nil, fmt.Errorf("%w: no buffers", ErrInvalidGLTF)
	}

	uri := doc.Buffers[bufferIndex].URI
	if !strings.HasPrefix(uri, "data:") {
		return nil, fmt.Errorf("%w: buffer is not an embedded data URI", ErrInvalidGLTF)
	}
	comma := strings.IndexByte(uri, ',')
	if comma < 0 || !strings.HasSuffix(uri[:comma], ";base64") {
		return nil, fmt.Errorf("%w: buffer data URI is not base64", ErrInvalidGLTF)
	}
	blob, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: decoding buffer: %v", ErrInvalidGLTF, err)
	}

	return &DecodedAsset{Document: &doc, Blob: blob, Format: FormatEmbedded}, nil
}

// Positions decodes the position accessor.
func (a *DecodedAsset) Positions() ([]math.Vec3, error) {
	view := a.Document.BufferViews[positionViewIndex]
	out := make([]math.Vec3, a.Document.Accessors[positionAccessorIndex].Count)
	r := bytes.NewReader(a.Blob[view.ByteOffset : view.ByteOffset+view.ByteLength])
	if err := binary.Read(r, binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}
	return out, nil
}

// Indices decodes the index accessor.
func (a *DecodedAsset) Indices() ([]uint32, error) {
	view := a.Document.BufferViews[indexViewIndex]
	out := make([]uint32, a.Document.Accessors[indexAccessorIndex].Count)
	r := bytes.NewReader(a.Blob[view.ByteOffset : view.ByteOffset+view.ByteLength])
	if err := binary.Read(r, binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("reading indices: %w", err)
	}
	return out, nil
}
