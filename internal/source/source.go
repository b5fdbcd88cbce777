// Package source decodes input images for the PNG pipeline.
package source

import (
	"image"
	"io"

	"github.com/leo-lp/png/internal/codec"
)

// Image is a decoded input.
type Image struct {
	image.Image
	// PNG is set for PNG inputs; it carries the pixel format and the
	// ancillary chunks worth preserving.
	PNG *codec.Image
}

// Decoder reads one family of input formats.
type Decoder interface {
	// Format returns the container name (e.g. "png", "jpeg").
	Format() string

	// Extensions lists the file extensions handled, with the dot.
	Extensions() []string

	// Decode reads a complete image.
	Decode(r io.Reader) (*Image, error)
}
