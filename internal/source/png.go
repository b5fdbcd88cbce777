package source

import (
	"io"

	"github.com/leo-lp/png/internal/codec"
)

// PNGDecoder decodes PNG inputs with the package's own codec, keeping
// 16-bit samples exact.
type PNGDecoder struct{}

func (d *PNGDecoder) Format() string       { return "png" }
func (d *PNGDecoder) Extensions() []string { return []string{".png"} }

func (d *PNGDecoder) Decode(r io.Reader) (*Image, error) {
	m, err := codec.Decode(r)
	if err != nil {
		return nil, err
	}
	img, err := m.NRGBA64()
	if err != nil {
		return nil, err
	}
	return &Image{Image: img, PNG: m}, nil
}
