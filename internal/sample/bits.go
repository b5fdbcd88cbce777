package sample

// Sub-byte samples are packed most significant bit first. Offsets are bit
// offsets from the start of buf; depth is 1, 2 or 4, so a field never
// straddles a byte.

// Bits extracts the depth-bit field at bit offset off.
func Bits(buf []byte, off, depth int) uint8 {
	shift := 8 - depth - off&7
	return buf[off>>3] >> shift & (1<<depth - 1)
}

// PutBits stores the low depth bits of v at bit offset off, leaving the
// neighboring fields untouched.
func PutBits(buf []byte, off, depth int, v uint8) {
	shift := 8 - depth - off&7
	mask := uint8(1<<depth-1) << shift
	i := off >> 3
	buf[i] = buf[i]&^mask | v<<shift&mask
}
