package codec

import (
	"fmt"

	"github.com/leo-lp/png/internal/format"
	"github.com/leo-lp/png/internal/pass"
	"github.com/leo-lp/png/internal/sample"
)

// Image is a decoded PNG: header, color tables, metadata and the packed
// full-resolution scanlines without filter bytes.
type Image struct {
	Header
	Palette sample.Palette
	// Key is the tRNS chroma key in canonical 16-bit samples.
	Key  *sample.RGBA16
	Meta Metadata
	Pix  []byte
}

// Pixels unpacks the image into canonical colors, resolving the palette
// and the chroma key.
func (m *Image) Pixels() ([]sample.RGBA16, error) {
	s := format.ShapeOf(m.Format, m.Width, m.Height)
	return sample.Unpack(m.Format, s, m.Pix, sample.Options{Palette: m.Palette, Key: m.Key})
}

// FromPixels packs canonical colors into a new non-interlaced image in
// format f. Indexed formats need a palette holding every color.
func FromPixels(f format.Format, width, height int, px []sample.RGBA16, palette sample.Palette) (*Image, error) {
	h := Header{Width: width, Height: height, Format: f}
	if err := h.check(); err != nil {
		return nil, err
	}
	if len(palette) > maxEntries(f) {
		return nil, fmt.Errorf("palette of %d entries for %s", len(palette), f)
	}
	pix, err := sample.Pack(f, format.ShapeOf(f, width, height), px, palette)
	if err != nil {
		return nil, err
	}
	return &Image{Header: h, Palette: palette, Pix: pix}, nil
}

// Decompose splits an interlaced image into its seven Adam7 passes, each a
// standalone non-interlaced image sharing the color tables. Degenerate
// passes are nil. A non-interlaced image decomposes into itself.
func Decompose(m *Image) ([]*Image, error) {
	if !m.Interlaced {
		return []*Image{m}, nil
	}
	l := m.Layout()
	buf, err := pass.NewBuffer(l, m.Pix)
	if err != nil {
		return nil, err
	}
	var data []byte
	for _, sub := range l.Passes() {
		for y := 0; y < sub.Shape.Height; y++ {
			data = append(data, buf.Row(sub, y)...)
		}
	}
	parts, err := pass.Decompose(l, data)
	if err != nil {
		return nil, err
	}
	out := make([]*Image, len(parts))
	for i, p := range parts {
		if p.Shape.Empty() {
			continue
		}
		out[i] = &Image{
			Header:  Header{Width: p.Shape.Width, Height: p.Shape.Height, Format: m.Format},
			Palette: m.Palette,
			Key:     m.Key,
			Pix:     p.Data,
		}
	}
	return out, nil
}
