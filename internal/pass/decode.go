package pass

import (
	"fmt"
	"io"

	"github.com/leo-lp/png/internal/filter"
	"github.com/leo-lp/png/internal/format"
)

// Source yields decompressed bytes. Pull must fill dst completely or fail.
type Source interface {
	Pull(dst []byte) error
}

// Decoder reads and defilters the scanlines of a layout in stream order.
type Decoder struct {
	src     Source
	pitches *format.Pitches
	stride  int
	line    []byte
	ref     []byte
}

// NewDecoder prepares to read the scanlines of l from src.
func NewDecoder(src Source, l format.Layout) *Decoder {
	n := l.Shape.Pitch + 1
	return &Decoder{
		src:     src,
		pitches: l.Pitches(),
		stride:  l.Format.Stride(),
		line:    make([]byte, n),
		ref:     make([]byte, n),
	}
}

// Next returns the next unfiltered scanline, without its filter byte, and
// the pass it belongs to. The slice is overwritten by the following call.
// Next returns io.EOF after the last scanline.
func (d *Decoder) Next() ([]byte, int, error) {
	pitch, pass, first, ok := d.pitches.Next()
	if !ok {
		return nil, 0, io.EOF
	}
	// The previous scanline becomes the reference, or zeros at a pass start.
	d.line, d.ref = d.ref, d.line
	line, ref := d.line[:pitch+1], d.ref[:pitch+1]
	if first {
		clear(ref)
	}
	if err := d.src.Pull(line); err != nil {
		return nil, 0, fmt.Errorf("pass %d: %w", pass, err)
	}
	if err := filter.Defilter(line, ref, d.stride); err != nil {
		return nil, 0, fmt.Errorf("pass %d: %w", pass, err)
	}
	return line[1:], pass, nil
}

const initialPasses = 1 << 20

// ReadPasses decodes every scanline of l and returns the unfiltered pass
// data concatenated in stream order. Layout.Ranges locates each pass.
// The result grows with the scanlines actually decoded.
func ReadPasses(src Source, l format.Layout) ([]byte, error) {
	out := make([]byte, 0, min(l.ByteCount(), initialPasses))
	d := NewDecoder(src, l)
	for {
		row, _, err := d.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, row...)
	}
}

// Deinterlace reassembles concatenated pass data into the full-resolution
// image buffer. Non-interlaced data is returned as is.
func Deinterlace(l format.Layout, data []byte) ([]byte, error) {
	if len(data) != l.ByteCount() {
		return nil, fmt.Errorf("deinterlace: %d bytes, want %d", len(data), l.ByteCount())
	}
	if !l.Interlaced {
		return data, nil
	}
	out := make([]byte, l.Shape.ByteCount())
	volume := l.Format.Volume()
	for i, r := range l.Ranges() {
		sub := l.SubImages[i]
		for y := 0; y < sub.Shape.Height; y++ {
			row := data[r.Lo+y*sub.Shape.Pitch : r.Lo+(y+1)*sub.Shape.Pitch]
			scatter(out, l.Shape.Pitch, row, sub, y, volume)
		}
	}
	return out, nil
}

// Image is one pass of an interlaced image viewed as a standalone
// non-interlaced image.
type Image struct {
	format.SubImage
	Data []byte
}

// Decompose splits concatenated pass data into one image per pass.
// Degenerate passes are present with no data.
func Decompose(l format.Layout, data []byte) ([]Image, error) {
	if len(data) != l.ByteCount() {
		return nil, fmt.Errorf("decompose: %d bytes, want %d", len(data), l.ByteCount())
	}
	passes := l.Passes()
	out := make([]Image, len(passes))
	for i, r := range l.Ranges() {
		out[i] = Image{SubImage: passes[i], Data: data[r.Lo:r.Hi:r.Hi]}
	}
	return out, nil
}
