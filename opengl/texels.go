package opengl

import (
	"fmt"
	"image/color"
	"unsafe"

	"github.com/PrincetonUniversity/particlelife"
)

// Bytes per texel of the particle textures.
const (
	posTexelSize = 8 // RG32F
	colTexelSize = 4 // RGBA8
)

// texels returns the address of the first of w*h texels,
// or nil when the texture is empty.
// It fails unless data covers the whole texture exactly.
func texels[T particlelife.Vec2 | color.RGBA](data []T, w, h int) (unsafe.Pointer, error) {
	if len(data) != w*h {
		return nil, fmt.Errorf("opengl: %d texels for a %dx%d texture", len(data), w, h)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return unsafe.Pointer(unsafe.SliceData(data)), nil
}
