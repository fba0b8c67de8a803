// Package encoding normalizes text found in mesh files to UTF-8.
package encoding

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TrimBOM removes a leading UTF-8 byte order mark.
func TrimBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// ToUTF8 returns data as a UTF-8 string. Valid UTF-8 passes through;
// anything else is decoded as Windows-1252, which is what most CAD
// exporters write for non-ASCII names.
func ToUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	result, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(result)
}

// CleanName converts a raw label to UTF-8 and strips NUL padding and
// surrounding whitespace.
func CleanName(raw string) string {
	s := ToUTF8([]byte(raw))
	s = strings.TrimRight(s, "\x00")
	return strings.TrimSpace(s)
}
