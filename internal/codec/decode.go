package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/leo-lp/png/internal/chunk"
	"github.com/leo-lp/png/internal/lz77"
	"github.com/leo-lp/png/internal/pass"
	"github.com/leo-lp/png/internal/pngerr"
)

// decoder is a single-use decode session.
type decoder struct {
	cr  *chunk.Reader
	v   *chunk.Validator
	img *Image

	// pending is a chunk read ahead by the IDAT reader.
	pending *chunk.Chunk
}

// Decode reads a complete PNG stream.
func Decode(r io.Reader) (*Image, error) {
	cr, err := chunk.NewReader(r)
	if err != nil {
		return nil, err
	}
	d := &decoder{cr: cr, img: &Image{}}
	if err := d.header(); err != nil {
		return nil, err
	}
	if err := d.body(); err != nil {
		return nil, err
	}
	return d.img, nil
}

// DecodeHeader reads the signature and IHDR only.
func DecodeHeader(r io.Reader) (Header, error) {
	cr, err := chunk.NewReader(r)
	if err != nil {
		return Header{}, err
	}
	d := &decoder{cr: cr, img: &Image{}}
	if err := d.header(); err != nil {
		return Header{}, err
	}
	return d.img.Header, nil
}

func (d *decoder) header() error {
	c, err := d.cr.Next()
	if chunk.IsEOF(err) {
		return &pngerr.ChunkError{Kind: pngerr.Missing, Chunk: "IHDR"}
	}
	if err != nil {
		return err
	}
	if c.Name != chunk.IHDR {
		return &pngerr.ChunkError{Kind: pngerr.Missing, Chunk: "IHDR"}
	}
	h, err := ParseHeader(c.Data)
	if err != nil {
		return fmt.Errorf("IHDR: %w", err)
	}
	d.img.Header = h
	d.v = chunk.NewValidator(h.Format)
	return nil
}

// next returns the next ordered chunk. At the end of input it reports
// whichever required chunk is still missing.
func (d *decoder) next() (chunk.Chunk, error) {
	if c := d.pending; c != nil {
		d.pending = nil
		return *c, nil
	}
	c, err := d.cr.Next()
	if chunk.IsEOF(err) {
		if err := d.v.Finish(); err != nil {
			return chunk.Chunk{}, err
		}
		return chunk.Chunk{}, io.EOF
	}
	if err != nil {
		return chunk.Chunk{}, err
	}
	if err := d.v.Push(c.Name); err != nil {
		return chunk.Chunk{}, err
	}
	return c, nil
}

func (d *decoder) body() error {
	for {
		c, err := d.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch c.Name {
		case chunk.IEND:
			// Anything after IEND is rejected by the validator.
			if _, err := d.next(); err != io.EOF {
				return err
			}
			return nil
		case chunk.IDAT:
			if err := d.pixels(c.Data); err != nil {
				return err
			}
		default:
			if err := d.ancillary(c); err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}
		}
	}
}

func (d *decoder) ancillary(c chunk.Chunk) error {
	m, meta := d.img, &d.img.Meta
	var err error
	switch c.Name {
	case chunk.PLTE:
		m.Palette, err = parsePalette(c.Data, m.Format)
	case chunk.TRNS:
		m.Palette, m.Key, err = parseTransparency(c.Data, m.Format, m.Palette)
	case chunk.GAMA:
		var g uint32
		if g, err = parseGamma(c.Data); err == nil {
			meta.Gamma = &g
		}
	case chunk.PHYS:
		var p Physical
		if p, err = parsePhysical(c.Data); err == nil {
			meta.Physical = &p
		}
	case chunk.TIME:
		t, terr := parseTime(c.Data)
		if err = terr; err == nil {
			meta.Modified = &t
		}
	case chunk.TEXT:
		var t Text
		if t, err = parseText(c.Data); err == nil {
			meta.Texts = append(meta.Texts, t)
		}
	case chunk.BKGD:
		meta.Background = c.Data
	default:
		if d.v.Seen(chunk.IDAT) {
			meta.Tail = append(meta.Tail, c)
		} else {
			meta.Extra = append(meta.Extra, c)
		}
	}
	return err
}

// pixels inflates the IDAT run starting with first into the image buffer.
func (d *decoder) pixels(first []byte) error {
	src := &idatReader{d: d, buf: first}
	in, err := lz77.NewInflator(src)
	if err != nil {
		return fmt.Errorf("IDAT: %w", wrapInflate(err))
	}
	l := d.img.Layout()
	data, err := pass.ReadPasses(in, l)
	if err != nil {
		return fmt.Errorf("IDAT: %w", wrapInflate(err))
	}
	if err := in.Finish(); err != nil {
		return fmt.Errorf("IDAT: %w", wrapInflate(err))
	}
	if d.img.Pix, err = pass.Deinterlace(l, data); err != nil {
		return err
	}
	// Compressed bytes past the end of the zlib stream are ignored.
	return src.drain()
}

// wrapInflate marks decompression failures as corrupt data unless they
// already carry a classified error from the chunk layer.
func wrapInflate(err error) error {
	if pngerr.Class(err) != pngerr.Unknown {
		return err
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: image data ends early", pngerr.ErrCorruptedChunk)
	}
	return fmt.Errorf("%w: %v", pngerr.ErrCorruptedChunk, err)
}

// idatReader presents a run of consecutive IDAT payloads as one stream.
// Running out of payload fetches the next chunk; a non-IDAT chunk ends
// the stream and is handed back to the chunk loop.
type idatReader struct {
	d    *decoder
	buf  []byte
	done bool
}

func (r *idatReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		if r.done {
			return 0, io.EOF
		}
		if err := r.fetch(); err != nil {
			return 0, err
		}
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

func (r *idatReader) fetch() error {
	c, err := r.d.next()
	if err == io.EOF {
		r.done = true
		return nil
	}
	if err != nil {
		return err
	}
	if c.Name != chunk.IDAT {
		r.d.pending = &c
		r.done = true
		return nil
	}
	r.buf = c.Data
	return nil
}

func (r *idatReader) drain() error {
	for !r.done {
		r.buf = nil
		if err := r.fetch(); err != nil {
			return err
		}
	}
	return nil
}
