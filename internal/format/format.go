// Package format describes the legal PNG pixel formats and the scanline
// geometry derived from them.
package format

import (
	"fmt"

	"github.com/leo-lp/png/internal/pngerr"
)

// Color type codes, as stored in IHDR.
const (
	ctGray      = 0
	ctTrueColor = 2
	ctIndexed   = 3
	ctGrayAlpha = 4
	ctRGBA      = 6
)

// Format is one of the legal (bit depth, color type) pairs. The zero value
// is Invalid; every other value indexes a precomputed table entry.
type Format uint8

const (
	Invalid Format = iota
	Gray1
	Gray2
	Gray4
	Gray8
	Gray16
	RGB8
	RGB16
	Indexed1
	Indexed2
	Indexed4
	Indexed8
	GrayAlpha8
	GrayAlpha16
	RGBA8
	RGBA16
	numFormats
)

type info struct {
	name      string
	depth     uint8
	colorType uint8
	channels  uint8
}

var table = [numFormats]info{
	Invalid:     {"invalid", 0, 0xff, 0},
	Gray1:       {"gray1", 1, ctGray, 1},
	Gray2:       {"gray2", 2, ctGray, 1},
	Gray4:       {"gray4", 4, ctGray, 1},
	Gray8:       {"gray8", 8, ctGray, 1},
	Gray16:      {"gray16", 16, ctGray, 1},
	RGB8:        {"rgb8", 8, ctTrueColor, 3},
	RGB16:       {"rgb16", 16, ctTrueColor, 3},
	Indexed1:    {"indexed1", 1, ctIndexed, 1},
	Indexed2:    {"indexed2", 2, ctIndexed, 1},
	Indexed4:    {"indexed4", 4, ctIndexed, 1},
	Indexed8:    {"indexed8", 8, ctIndexed, 1},
	GrayAlpha8:  {"grayalpha8", 8, ctGrayAlpha, 2},
	GrayAlpha16: {"grayalpha16", 16, ctGrayAlpha, 2},
	RGBA8:       {"rgba8", 8, ctRGBA, 4},
	RGBA16:      {"rgba16", 16, ctRGBA, 4},
}

// All lists every legal format in table order.
func All() []Format {
	out := make([]Format, 0, numFormats-1)
	for f := Gray1; f < numFormats; f++ {
		out = append(out, f)
	}
	return out
}

// Lookup returns the format for an IHDR (bit depth, color type) pair.
func Lookup(depth, colorType uint8) (Format, error) {
	for f := Gray1; f < numFormats; f++ {
		if table[f].depth == depth && table[f].colorType == colorType {
			return f, nil
		}
	}
	return Invalid, pngerr.Syntax("color format", fmt.Sprintf("(%d, %d)", depth, colorType),
		"not a legal (bit depth, color type) pair")
}

// Parse returns the format with the given name, as printed by String.
func Parse(name string) (Format, error) {
	for f := Gray1; f < numFormats; f++ {
		if table[f].name == name {
			return f, nil
		}
	}
	return Invalid, fmt.Errorf("unknown pixel format %q", name)
}

func (f Format) valid() bool { return f > Invalid && f < numFormats }

func (f Format) String() string {
	if !f.valid() {
		return "invalid"
	}
	return table[f].name
}

// Depth is the number of bits per sample.
func (f Format) Depth() int { return int(table[f.clamp()].depth) }

// ColorType is the IHDR color type code.
func (f Format) ColorType() uint8 { return table[f.clamp()].colorType }

// Channels is the number of stored samples per pixel. Indexed formats
// store one.
func (f Format) Channels() int { return int(table[f.clamp()].channels) }

func (f Format) IsIndexed() bool { return f.valid() && f.ColorType()&1 != 0 }
func (f Format) HasColor() bool  { return f.valid() && f.ColorType()&2 != 0 }
func (f Format) HasAlpha() bool  { return f.valid() && f.ColorType()&4 != 0 }

// Components counts logical color components, including those an indexed
// format reaches through its palette.
func (f Format) Components() int {
	n := 1
	if f.HasColor() {
		n += 2
	}
	if f.HasAlpha() {
		n++
	}
	return n
}

// Volume is the number of bits per pixel.
func (f Format) Volume() int { return f.Depth() * f.Channels() }

// Stride is the filter byte distance: bytes per pixel, at least 1.
func (f Format) Stride() int {
	if s := f.Volume() >> 3; s > 0 {
		return s
	}
	return 1
}

func (f Format) clamp() Format {
	if !f.valid() {
		return Invalid
	}
	return f
}
