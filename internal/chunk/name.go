// Package chunk reads and writes the PNG container: the signature, the
// length/name/payload/CRC chunk units, and the chunk ordering rules.
package chunk

// Name is a 4-byte chunk type. Bit 5 of each byte is a property flag.
type Name [4]byte

// Recognized chunk types.
var (
	IHDR = Name{'I', 'H', 'D', 'R'}
	PLTE = Name{'P', 'L', 'T', 'E'}
	IDAT = Name{'I', 'D', 'A', 'T'}
	IEND = Name{'I', 'E', 'N', 'D'}

	CHRM = Name{'c', 'H', 'R', 'M'}
	GAMA = Name{'g', 'A', 'M', 'A'}
	ICCP = Name{'i', 'C', 'C', 'P'}
	SBIT = Name{'s', 'B', 'I', 'T'}
	SRGB = Name{'s', 'R', 'G', 'B'}
	BKGD = Name{'b', 'K', 'G', 'D'}
	HIST = Name{'h', 'I', 'S', 'T'}
	TRNS = Name{'t', 'R', 'N', 'S'}
	PHYS = Name{'p', 'H', 'Y', 's'}
	SPLT = Name{'s', 'P', 'L', 'T'}
	TIME = Name{'t', 'I', 'M', 'E'}
	ITXT = Name{'i', 'T', 'X', 't'}
	TEXT = Name{'t', 'E', 'X', 't'}
	ZTXT = Name{'z', 'T', 'X', 't'}
)

var known = map[Name]bool{
	IHDR: true, PLTE: true, IDAT: true, IEND: true,
	CHRM: true, GAMA: true, ICCP: true, SBIT: true, SRGB: true,
	BKGD: true, HIST: true, TRNS: true, PHYS: true, SPLT: true,
	TIME: true, ITXT: true, TEXT: true, ZTXT: true,
}

// ParseName converts a 4-character string to a Name without validating it.
func ParseName(s string) (Name, bool) {
	var n Name
	if len(s) != len(n) {
		return n, false
	}
	copy(n[:], s)
	return n, true
}

func (n Name) String() string { return string(n[:]) }

// Known reports whether n is one of the standard chunk types.
func (n Name) Known() bool { return known[n] }

// Ancillary reports whether a decoder may skip the chunk.
func (n Name) Ancillary() bool { return n[0]&0x20 != 0 }

// Private reports whether the type is outside the public registry.
func (n Name) Private() bool { return n[1]&0x20 != 0 }

// SafeToCopy reports whether editors may copy the chunk unchanged.
func (n Name) SafeToCopy() bool { return n[3]&0x20 != 0 }

// Valid reports whether the chunk may appear in a stream. Standard types
// always may. Any other type must be made of ASCII letters, be ancillary,
// and keep the reserved bit of its third byte clear, since a decoder
// cannot handle an unknown critical chunk.
func (n Name) Valid() bool {
	if n.Known() {
		return true
	}
	for _, c := range n {
		if !('A' <= c && c <= 'Z' || 'a' <= c && c <= 'z') {
			return false
		}
	}
	return n.Ancillary() && n[2]&0x20 == 0
}
