// Package lz77 adapts zlib streams to the scanline pass drivers.
//
// Deflator is push/pull: callers push raw filtered scanlines and pull
// compressed bytes in bounded pieces. Inflator is pull-driven and reads
// compressed bytes from a source on demand.
package lz77

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Compression levels accepted by NewDeflator.
const (
	BestSpeed          = zlib.BestSpeed
	BestCompression    = zlib.BestCompression
	DefaultCompression = zlib.DefaultCompression
	NoCompression      = zlib.NoCompression
)

// Deflator compresses pushed bytes into an internal queue of output.
type Deflator struct {
	out      bytes.Buffer
	zw       *zlib.Writer
	finished bool
}

// NewDeflator returns a Deflator at the given zlib level.
func NewDeflator(level int) (*Deflator, error) {
	d := &Deflator{}
	zw, err := zlib.NewWriterLevel(&d.out, level)
	if err != nil {
		return nil, fmt.Errorf("deflate level %d: %w", level, err)
	}
	d.zw = zw
	return d, nil
}

// Push accepts more raw input.
func (d *Deflator) Push(p []byte) error {
	if d.finished {
		return errors.New("lz77: push after finish")
	}
	_, err := d.zw.Write(p)
	return err
}

// Finish flushes the trailing compressed data and the stream checksum
// into the output queue. No more input may be pushed.
func (d *Deflator) Finish() error {
	if d.finished {
		return nil
	}
	d.finished = true
	return d.zw.Close()
}

// Pull appends up to capacity-len(dst) queued output bytes to dst and
// returns the extended slice together with the number of output bytes
// still queued.
func (d *Deflator) Pull(dst []byte, capacity int) ([]byte, int) {
	if room := capacity - len(dst); room > 0 {
		dst = append(dst, d.out.Next(room)...)
	}
	return dst, d.out.Len()
}

// Queued is the number of compressed bytes waiting to be pulled.
func (d *Deflator) Queued() int { return d.out.Len() }

// ErrTrailingData reports compressed input that decodes past the expected end.
var ErrTrailingData = errors.New("lz77: too much data")

// Inflator decompresses a zlib stream pulled from a source reader.
type Inflator struct {
	zr io.ReadCloser
}

// NewInflator reads the zlib header from src.
func NewInflator(src io.Reader) (*Inflator, error) {
	zr, err := zlib.NewReader(src)
	if err != nil {
		return nil, err
	}
	return &Inflator{zr: zr}, nil
}

// Pull fills dst completely or fails.
func (in *Inflator) Pull(dst []byte) error {
	_, err := io.ReadFull(in.zr, dst)
	return err
}

// Finish confirms the stream ends here, which also verifies the zlib
// checksum, and releases the reader.
func (in *Inflator) Finish() error {
	var one [1]byte
	n, err := in.zr.Read(one[:])
	for n == 0 && err == nil {
		n, err = in.zr.Read(one[:])
	}
	if n != 0 {
		return ErrTrailingData
	}
	if err != io.EOF {
		return err
	}
	return in.zr.Close()
}
