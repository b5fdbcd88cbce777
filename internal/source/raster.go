package source

import (
	_ "image/gif"
	_ "image/jpeg"
	"io"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// RasterDecoder decodes the non-PNG inputs through the registered
// image decoders. EXIF orientation is applied and the result is
// normalized to 8-bit NRGBA.
type RasterDecoder struct {
	format string
	exts   []string
}

func (d *RasterDecoder) Format() string       { return d.format }
func (d *RasterDecoder) Extensions() []string { return d.exts }

func (d *RasterDecoder) Decode(r io.Reader) (*Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return &Image{Image: imaging.Clone(img)}, nil
}
