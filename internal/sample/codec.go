package sample

import (
	"errors"
	"fmt"

	"github.com/leo-lp/png/internal/format"
	"github.com/leo-lp/png/internal/pngerr"
)

// Palette holds indexed-color entries. Entries without a tRNS alpha are
// opaque.
type Palette []RGBA8

// Lookup resolves an index into a canonical color.
func (p Palette) Lookup(i int) (RGBA16, error) {
	if p == nil {
		return RGBA16{}, pngerr.ErrMissingPalette
	}
	if i >= len(p) {
		return RGBA16{}, pngerr.Syntax("palette index", i, "out of range for %d entries", len(p))
	}
	return p[i].Widen(), nil
}

// Index maps every entry to its position, keeping the first of duplicates.
func (p Palette) Index() map[RGBA8]int {
	m := make(map[RGBA8]int, len(p))
	for i := len(p) - 1; i >= 0; i-- {
		m[p[i]] = i
	}
	return m
}

// Options carry the side information needed to resolve stored samples.
type Options struct {
	Palette Palette
	// Key is the chroma-key color in canonical 16-bit samples. Pixels that
	// match it become fully transparent. Ignored for formats with alpha
	// and for indexed formats.
	Key *RGBA16
}

// reader walks stored samples of one scanline.
type reader struct {
	row   []byte
	depth int
	off   int // bit offset for sub-byte depths, byte offset otherwise
}

func (r *reader) next() uint16 {
	switch r.depth {
	case 16:
		v := uint16(r.row[r.off])<<8 | uint16(r.row[r.off+1])
		r.off += 2
		return v
	case 8:
		v := uint16(r.row[r.off])
		r.off++
		return v
	default:
		v := uint16(Bits(r.row, r.off, r.depth))
		r.off += r.depth
		return v
	}
}

// Unpack decodes packed scanlines of the given shape into canonical pixels
// in row-major order.
func Unpack(f format.Format, s format.Shape, data []byte, opt Options) ([]RGBA16, error) {
	if len(data) < s.ByteCount() {
		return nil, fmt.Errorf("sample: %d bytes for %dx%d %s, want %d",
			len(data), s.Width, s.Height, f, s.ByteCount())
	}
	if f.IsIndexed() && opt.Palette == nil {
		return nil, pngerr.ErrMissingPalette
	}
	out := make([]RGBA16, 0, s.Width*s.Height)
	depth := f.Depth()
	key := opt.Key
	if f.HasAlpha() || f.IsIndexed() {
		key = nil
	}
	for y := 0; y < s.Height; y++ {
		r := reader{row: data[y*s.Pitch : (y+1)*s.Pitch], depth: depth}
		for x := 0; x < s.Width; x++ {
			var c RGBA16
			switch {
			case f.IsIndexed():
				var err error
				if c, err = opt.Palette.Lookup(int(r.next())); err != nil {
					return nil, fmt.Errorf("pixel (%d, %d): %w", x, y, err)
				}
			case f.HasColor():
				c.R = Widen(r.next(), depth)
				c.G = Widen(r.next(), depth)
				c.B = Widen(r.next(), depth)
				c.A = 0xffff
			default:
				c = Gray16(Widen(r.next(), depth))
			}
			if f.HasAlpha() {
				c.A = Widen(r.next(), depth)
			}
			if key != nil && c.EqualOpaque(*key) {
				c.A = 0
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// ErrNotInPalette reports a pixel whose color has no palette entry.
var ErrNotInPalette = errors.New("color not in palette")

// writer stores samples into one scanline.
type writer struct {
	row   []byte
	depth int
	off   int
}

func (w *writer) put(v uint16) {
	switch w.depth {
	case 16:
		w.row[w.off] = byte(v >> 8)
		w.row[w.off+1] = byte(v)
		w.off += 2
	case 8:
		w.row[w.off] = byte(v)
		w.off++
	default:
		PutBits(w.row, w.off, w.depth, uint8(v))
		w.off += w.depth
	}
}

// Pack stores canonical pixels as packed scanlines. Gray formats take the
// red sample. Indexed formats need every pixel's 8-bit narrowing to appear
// in the palette. Chroma keys are not applied on this side; a transparent
// pixel in a keyed format must already carry the key color.
func Pack(f format.Format, s format.Shape, px []RGBA16, palette Palette) ([]byte, error) {
	if len(px) != s.Width*s.Height {
		return nil, fmt.Errorf("sample: %d pixels for %dx%d", len(px), s.Width, s.Height)
	}
	var index map[RGBA8]int
	if f.IsIndexed() {
		if palette == nil {
			return nil, pngerr.ErrMissingPalette
		}
		index = palette.Index()
	}
	depth := f.Depth()
	out := make([]byte, s.ByteCount())
	for y := 0; y < s.Height; y++ {
		w := writer{row: out[y*s.Pitch : (y+1)*s.Pitch], depth: depth}
		for _, c := range px[y*s.Width : (y+1)*s.Width] {
			switch {
			case f.IsIndexed():
				i, ok := index[c.Narrow()]
				if !ok || i >= 1<<depth {
					return nil, fmt.Errorf("%w: %v", ErrNotInPalette, c)
				}
				w.put(uint16(i))
			case f.HasColor():
				w.put(Narrow(c.R, depth))
				w.put(Narrow(c.G, depth))
				w.put(Narrow(c.B, depth))
			default:
				w.put(Narrow(c.R, depth))
			}
			if f.HasAlpha() {
				w.put(Narrow(c.A, depth))
			}
		}
	}
	return out, nil
}
