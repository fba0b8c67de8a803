package gltf

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/natefinch/atomic"
)

// WriteFile writes data to path atomically: either the whole file is
// replaced or path is left untouched. A new file gets mode 0644.
func WriteFile(path string, data []byte) error {
	_, statErr := os.Stat(path)
	created := errors.Is(statErr, fs.ErrNotExist)

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	// The temp file behind a new path is created 0600.
	if created {
		_ = os.Chmod(path, 0644)
	}
	return nil
}
