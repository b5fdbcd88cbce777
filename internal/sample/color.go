// Package sample converts between packed PNG pixel bytes and canonical
// per-pixel color records.
package sample

import "fmt"

// RGBA16 is the canonical decoded pixel: four 16-bit samples, alpha not
// premultiplied.
type RGBA16 struct{ R, G, B, A uint16 }

// RGBA8 is an 8-bit color, used for palette entries.
type RGBA8 struct{ R, G, B, A uint8 }

func (c RGBA16) String() string { return fmt.Sprintf("(%d, %d, %d, %d)", c.R, c.G, c.B, c.A) }

// Gray16 builds an opaque gray pixel.
func Gray16(v uint16) RGBA16 { return RGBA16{v, v, v, 0xffff} }

// EqualOpaque compares color samples, ignoring alpha.
func (c RGBA16) EqualOpaque(o RGBA16) bool { return c.R == o.R && c.G == o.G && c.B == o.B }

// Narrow truncates every sample to 8 bits.
func (c RGBA16) Narrow() RGBA8 {
	return RGBA8{uint8(c.R >> 8), uint8(c.G >> 8), uint8(c.B >> 8), uint8(c.A >> 8)}
}

// Widen scales an 8-bit color to 16 bits.
func (c RGBA8) Widen() RGBA16 {
	return RGBA16{Widen(uint16(c.R), 8), Widen(uint16(c.G), 8), Widen(uint16(c.B), 8), Widen(uint16(c.A), 8)}
}

// Quantum is the multiplier that maps the largest depth-bit value onto
// 0xffff. For PNG depths it equals bit replication.
func Quantum(depth int) uint16 {
	return 0xffff / (0xffff >> (16 - depth))
}

// Widen scales a depth-bit sample to the full 16-bit range.
func Widen(v uint16, depth int) uint16 { return v * Quantum(depth) }

// Narrow reduces a 16-bit sample to depth bits by truncation.
func Narrow(v uint16, depth int) uint16 { return v >> (16 - depth) }
