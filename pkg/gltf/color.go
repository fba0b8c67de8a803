package gltf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
)

// Color is a linear RGBA display color with components in [0, 1].
type Color [4]float32

// DefaultColor is the neutral grey selected by the color name "default".
var DefaultColor = Color{0.588, 0.588, 0.588, 1.0}

// Validate checks that every component is a finite value in [0, 1].
func (c Color) Validate() error {
	for i, v := range c {
		if math32.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: component %d = %v", ErrInvalidColor, i, v)
		}
	}
	return nil
}

// String returns the color as "r,g,b,a".
func (c Color) String() string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return strings.Join(parts, ",")
}

// ParseColor parses "r,g,b" or "r,g,b,a"; alpha defaults to 1. The name
// "default" selects DefaultColor.
func ParseColor(s string) (Color, error) {
	if strings.EqualFold(strings.TrimSpace(s), "default") {
		return DefaultColor, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("%w: expected 3 or 4 components, got %d", ErrInvalidColor, len(parts))
	}

	c := Color{0, 0, 0, 1}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return Color{}, fmt.Errorf("%w: component %d: %v", ErrInvalidColor, i, err)
		}
		c[i] = float32(f)
	}

	if err := c.Validate(); err != nil {
		return Color{}, err
	}
	return c, nil
}
