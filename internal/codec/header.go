// Package codec decodes and encodes complete PNG streams.
package codec

import (
	"encoding/binary"

	"github.com/leo-lp/png/internal/format"
	"github.com/leo-lp/png/internal/pngerr"
)

// maxDimension is the largest width or height IHDR may declare.
const maxDimension = 1<<31 - 1

// Header holds the IHDR fields.
type Header struct {
	Width, Height int
	Format        format.Format
	Interlaced    bool
}

// Layout derives the scanline geometry of the header.
func (h Header) Layout() format.Layout {
	return format.NewLayout(h.Format, h.Width, h.Height, h.Interlaced)
}

func (h Header) check() error {
	if h.Width <= 0 || h.Width > maxDimension {
		return pngerr.Syntax("width", h.Width, "must be in [1, %d]", maxDimension)
	}
	if h.Height <= 0 || h.Height > maxDimension {
		return pngerr.Syntax("height", h.Height, "must be in [1, %d]", maxDimension)
	}
	if h.Format == format.Invalid {
		return pngerr.Syntax("color format", h.Format, "")
	}
	size := [2]int{h.Width, h.Height}
	if uint64(h.Width)*uint64(h.Height) > MaxPixels {
		return pngerr.Syntax("image size", size, "more than %d pixels", MaxPixels)
	}
	// Filtered scanlines, filter bytes included.
	pitch := (uint64(h.Width)*uint64(h.Format.Volume()) + 7) >> 3
	if (pitch+1)*uint64(h.Height) > MaxBytes {
		return pngerr.Syntax("image size", size, "more than %d bytes of scanlines", MaxBytes)
	}
	return nil
}

// Limits on the images Decode and Encode accept.
const (
	MaxPixels = 1 << 28
	MaxBytes  = 1<<31 - 1
)

// ParseHeader decodes and checks an IHDR payload.
func ParseHeader(data []byte) (Header, error) {
	if len(data) != 13 {
		return Header{}, pngerr.Syntax("IHDR length", len(data), "want 13 bytes")
	}
	f, err := format.Lookup(data[8], data[9])
	if err != nil {
		return Header{}, err
	}
	if data[10] != 0 {
		return Header{}, pngerr.Syntax("compression method", data[10], "must be 0")
	}
	if data[11] != 0 {
		return Header{}, pngerr.Syntax("filter method", data[11], "must be 0")
	}
	if data[12] > 1 {
		return Header{}, pngerr.Syntax("interlace method", data[12], "must be 0 or 1")
	}
	h := Header{
		Width:      int(binary.BigEndian.Uint32(data[0:4])),
		Height:     int(binary.BigEndian.Uint32(data[4:8])),
		Format:     f,
		Interlaced: data[12] == 1,
	}
	return h, h.check()
}

func (h Header) bytes() []byte {
	b := make([]byte, 13)
	binary.BigEndian.PutUint32(b[0:4], uint32(h.Width))
	binary.BigEndian.PutUint32(b[4:8], uint32(h.Height))
	b[8] = byte(h.Format.Depth())
	b[9] = h.Format.ColorType()
	if h.Interlaced {
		b[12] = 1
	}
	return b
}
