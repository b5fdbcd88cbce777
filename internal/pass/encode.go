package pass

import (
	"github.com/leo-lp/png/internal/filter"
	"github.com/leo-lp/png/internal/format"
	"github.com/leo-lp/png/internal/pngerr"
)

// Compressor is the push/pull side of a zlib stream.
type Compressor interface {
	Push(p []byte) error
	Pull(dst []byte, capacity int) ([]byte, int)
	Finish() error
	Queued() int
}

// Rows produces the raw scanline y of sub-image sub for the encoder. The
// returned slice must be exactly sub.Shape.Pitch bytes and is not retained
// past the call.
type Rows interface {
	Row(sub format.SubImage, y int) []byte
}

// Buffer serves scanlines out of a full-resolution packed image, gathering
// strided pixels for interlaced passes.
type Buffer struct {
	layout format.Layout
	data   []byte
	row    []byte
}

// NewBuffer wraps packed image data laid out as l.Shape.
func NewBuffer(l format.Layout, data []byte) (*Buffer, error) {
	if want := l.Shape.ByteCount(); len(data) != want {
		return nil, &pngerr.EncodeError{Want: want, Got: len(data)}
	}
	return &Buffer{layout: l, data: data, row: make([]byte, l.Shape.Pitch)}, nil
}

func (b *Buffer) Row(sub format.SubImage, y int) []byte {
	pitch := b.layout.Shape.Pitch
	if !b.layout.Interlaced {
		return b.data[y*pitch : (y+1)*pitch]
	}
	row := b.row[:sub.Shape.Pitch]
	gather(row, b.data, pitch, sub, y, b.layout.Format.Volume())
	return row
}

// Encoder filters and compresses scanlines, handing back compressed output
// in pieces of at most capacity bytes. It resumes from its saved pass, row
// and reference scanline on each call to Next.
type Encoder struct {
	z        Compressor
	rows     Rows
	passes   []format.SubImage
	stride   int
	capacity int

	pass, row int
	ref       []byte
	sel       filter.Selector
	finished  bool
	err       error
}

// NewEncoder returns an encoder for layout l pulling scanlines from rows.
func NewEncoder(z Compressor, l format.Layout, rows Rows, capacity int) *Encoder {
	if capacity <= 0 {
		capacity = 1
	}
	return &Encoder{
		z:        z,
		rows:     rows,
		passes:   l.Passes(),
		stride:   l.Format.Stride(),
		capacity: capacity,
		ref:      make([]byte, l.Shape.Pitch),
	}
}

// Pass and Row report the position of the next scanline to encode.
func (e *Encoder) Pass() int { return e.pass }
func (e *Encoder) Row() int  { return e.row }

// Next encodes scanlines until a full piece of compressed output is queued
// and returns it. At the end of the image it flushes the stream and
// returns the remainder in pieces, then nil. After an error Next keeps
// returning it.
func (e *Encoder) Next() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	for e.z.Queued() < e.capacity && !e.finished {
		if err := e.step(); err != nil {
			e.err = err
			return nil, err
		}
	}
	if e.z.Queued() == 0 {
		return nil, nil
	}
	out, _ := e.z.Pull(make([]byte, 0, e.capacity), e.capacity)
	return out, nil
}

// step pushes one filtered scanline, or finishes the stream once every
// pass is exhausted.
func (e *Encoder) step() error {
	for e.pass < len(e.passes) && (e.passes[e.pass].Shape.Empty() || e.row >= e.passes[e.pass].Shape.Height) {
		e.pass++
		e.row = 0
	}
	if e.pass == len(e.passes) {
		e.finished = true
		return e.z.Finish()
	}
	sub := e.passes[e.pass]
	ref := e.ref[:sub.Shape.Pitch]
	if e.row == 0 {
		clear(ref)
	}
	cur := e.rows.Row(sub, e.row)
	if len(cur) != sub.Shape.Pitch {
		return &pngerr.EncodeError{Want: sub.Shape.Pitch, Got: len(cur)}
	}
	if err := e.z.Push(e.sel.Filter(cur, ref, e.stride)); err != nil {
		return err
	}
	copy(ref, cur)
	e.row++
	return nil
}
