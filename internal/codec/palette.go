package codec

import (
	"encoding/binary"

	"github.com/leo-lp/png/internal/format"
	"github.com/leo-lp/png/internal/pngerr"
	"github.com/leo-lp/png/internal/sample"
)

// maxEntries is the largest palette a format may carry. Non-indexed formats
// may carry a suggested palette of up to 256 entries.
func maxEntries(f format.Format) int {
	if f.IsIndexed() {
		return 1 << f.Depth()
	}
	return 256
}

func parsePalette(data []byte, f format.Format) (sample.Palette, error) {
	if len(data) == 0 || len(data)%3 != 0 {
		return nil, pngerr.Syntax("PLTE length", len(data), "must be a positive multiple of 3")
	}
	n := len(data) / 3
	if n > maxEntries(f) {
		return nil, pngerr.Syntax("palette entries", n, "%s allows at most %d", f, maxEntries(f))
	}
	p := make(sample.Palette, n)
	for i := range p {
		p[i] = sample.RGBA8{R: data[3*i], G: data[3*i+1], B: data[3*i+2], A: 0xff}
	}
	return p, nil
}

func paletteBytes(p sample.Palette) []byte {
	b := make([]byte, 0, 3*len(p))
	for _, c := range p {
		b = append(b, c.R, c.G, c.B)
	}
	return b
}

// parseTransparency applies a tRNS payload. Indexed formats get per-entry
// alpha in a copy of the palette; gray and truecolor formats get a chroma
// key in canonical 16-bit samples.
func parseTransparency(data []byte, f format.Format, p sample.Palette) (sample.Palette, *sample.RGBA16, error) {
	depth := f.Depth()
	word := func(i int) uint16 {
		v := binary.BigEndian.Uint16(data[2*i:])
		return sample.Widen(v&(1<<depth-1), depth)
	}
	switch {
	case f.IsIndexed():
		if p == nil {
			return nil, nil, pngerr.ErrMissingPalette
		}
		if len(data) > len(p) {
			return nil, nil, pngerr.Syntax("tRNS length", len(data), "palette has %d entries", len(p))
		}
		out := append(sample.Palette(nil), p...)
		for i, a := range data {
			out[i].A = a
		}
		return out, nil, nil
	case f.HasAlpha():
		return nil, nil, &pngerr.ChunkError{Kind: pngerr.Illegal, Chunk: "tRNS"}
	case f.HasColor():
		if len(data) != 6 {
			return nil, nil, pngerr.Syntax("rgb chroma key length", len(data), "want 6 bytes")
		}
		return p, &sample.RGBA16{R: word(0), G: word(1), B: word(2)}, nil
	default:
		if len(data) != 2 {
			return nil, nil, pngerr.Syntax("gray chroma key length", len(data), "want 2 bytes")
		}
		v := word(0)
		return p, &sample.RGBA16{R: v, G: v, B: v}, nil
	}
}

// transparencyBytes serializes the tRNS payload, or nil when none is needed.
func transparencyBytes(f format.Format, p sample.Palette, key *sample.RGBA16) []byte {
	depth := f.Depth()
	switch {
	case f.IsIndexed():
		last := -1
		for i, c := range p {
			if c.A != 0xff {
				last = i
			}
		}
		if last < 0 {
			return nil
		}
		b := make([]byte, last+1)
		for i := range b {
			b[i] = p[i].A
		}
		return b
	case key == nil:
		return nil
	case f.HasColor():
		b := make([]byte, 6)
		binary.BigEndian.PutUint16(b[0:], sample.Narrow(key.R, depth))
		binary.BigEndian.PutUint16(b[2:], sample.Narrow(key.G, depth))
		binary.BigEndian.PutUint16(b[4:], sample.Narrow(key.B, depth))
		return b
	default:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, sample.Narrow(key.R, depth))
		return b
	}
}
