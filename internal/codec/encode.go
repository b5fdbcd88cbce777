package codec

import (
	"fmt"
	"io"

	"github.com/leo-lp/png/internal/chunk"
	"github.com/leo-lp/png/internal/lz77"
	"github.com/leo-lp/png/internal/pass"
	"github.com/leo-lp/png/internal/pngerr"
)

// DefaultChunkSize bounds the payload of each IDAT chunk.
const DefaultChunkSize = 1 << 16

// Options tune the encoder.
type Options struct {
	// Level is the zlib level 1..9. Zero selects the zlib default and a
	// negative level stores the data uncompressed.
	Level     int
	ChunkSize int // IDAT payload bound; 0 means DefaultChunkSize
}

func (o Options) level() int {
	switch {
	case o.Level < 0:
		return lz77.NoCompression
	case o.Level == 0:
		return lz77.DefaultCompression
	default:
		return o.Level
	}
}

// encoder is a single-use encode session. Every chunk goes through the
// ordering validator before it is written.
type encoder struct {
	cw *chunk.Writer
	v  *chunk.Validator
}

func (e *encoder) write(n chunk.Name, data []byte) error {
	if err := e.v.Push(n); err != nil {
		return err
	}
	if err := e.cw.Write(n, data); err != nil {
		return fmt.Errorf("write %s: %w", n, err)
	}
	return nil
}

func (e *encoder) writeAll(cs []chunk.Chunk) error {
	for _, c := range cs {
		if err := e.write(c.Name, c.Data); err != nil {
			return err
		}
	}
	return nil
}

// Encode writes m as a complete PNG stream. Chunks are emitted in the order
// IHDR, gAMA, the color-space extras, PLTE, bKGD, tRNS, hIST, pHYs, tIME,
// tEXt, the remaining extras, IDAT, the tail chunks and IEND.
func Encode(w io.Writer, m *Image, opt Options) error {
	if err := m.check(); err != nil {
		return err
	}
	if opt.ChunkSize <= 0 {
		opt.ChunkSize = DefaultChunkSize
	}
	l := m.Layout()
	rows, err := pass.NewBuffer(l, m.Pix)
	if err != nil {
		return err
	}
	z, err := lz77.NewDeflator(opt.level())
	if err != nil {
		return err
	}

	e := &encoder{cw: chunk.NewWriter(w), v: chunk.NewValidator(m.Format)}
	if err := e.cw.Write(chunk.IHDR, m.bytes()); err != nil {
		return fmt.Errorf("write IHDR: %w", err)
	}
	extra := groupExtras(m.Meta.Extra)
	meta := m.Meta
	if meta.Gamma != nil {
		if err := e.write(chunk.GAMA, gammaBytes(*meta.Gamma)); err != nil {
			return err
		}
	}
	if err := e.writeAll(extra[slotColorSpace]); err != nil {
		return err
	}
	if m.Palette != nil {
		if err := e.write(chunk.PLTE, paletteBytes(m.Palette)); err != nil {
			return err
		}
	}
	if meta.Background != nil {
		if err := e.write(chunk.BKGD, meta.Background); err != nil {
			return err
		}
	}
	if trns := transparencyBytes(m.Format, m.Palette, m.Key); trns != nil {
		if err := e.write(chunk.TRNS, trns); err != nil {
			return err
		}
	}
	if err := e.writeAll(extra[slotHistogram]); err != nil {
		return err
	}
	if meta.Physical != nil {
		if err := e.write(chunk.PHYS, meta.Physical.bytes()); err != nil {
			return err
		}
	}
	if meta.Modified != nil {
		if err := e.write(chunk.TIME, timeBytes(*meta.Modified)); err != nil {
			return err
		}
	}
	for _, t := range meta.Texts {
		data, err := t.bytes()
		if err != nil {
			return err
		}
		if err := e.write(chunk.TEXT, data); err != nil {
			return err
		}
	}
	if err := e.writeAll(extra[slotOther]); err != nil {
		return err
	}

	pe := pass.NewEncoder(z, l, rows, opt.ChunkSize)
	for {
		piece, err := pe.Next()
		if err != nil {
			return err
		}
		if piece == nil {
			break
		}
		if err := e.write(chunk.IDAT, piece); err != nil {
			return err
		}
	}

	if err := e.writeAll(m.Meta.Tail); err != nil {
		return err
	}
	if err := e.write(chunk.IEND, nil); err != nil {
		return err
	}
	return e.v.Finish()
}

func (m *Image) check() error {
	if err := m.Header.check(); err != nil {
		return err
	}
	if m.Format.IsIndexed() && m.Palette == nil {
		return pngerr.ErrMissingPalette
	}
	if len(m.Palette) > maxEntries(m.Format) {
		return pngerr.Syntax("palette entries", len(m.Palette), "%s allows at most %d", m.Format, maxEntries(m.Format))
	}
	return nil
}

// Extra chunks are re-emitted in the slot their type allows.
const (
	slotColorSpace = iota // before PLTE
	slotHistogram         // after PLTE and tRNS
	slotOther             // anywhere before IDAT
	numSlots
)

func groupExtras(cs []chunk.Chunk) [numSlots][]chunk.Chunk {
	var out [numSlots][]chunk.Chunk
	for _, c := range cs {
		switch c.Name {
		case chunk.CHRM, chunk.ICCP, chunk.SBIT, chunk.SRGB:
			out[slotColorSpace] = append(out[slotColorSpace], c)
		case chunk.HIST:
			out[slotHistogram] = append(out[slotHistogram], c)
		default:
			out[slotOther] = append(out[slotOther], c)
		}
	}
	return out
}
