// Package pass drives scanlines between the filter engine and the zlib
// stream: one pass for plain images, seven for Adam7.
package pass

import (
	"github.com/leo-lp/png/internal/format"
	"github.com/leo-lp/png/internal/sample"
)

// scatter copies one sub-image scanline into the full-resolution buffer at
// the sub-image's strided coordinates.
func scatter(dst []byte, dstPitch int, row []byte, sub format.SubImage, y, volume int) {
	for x := 0; x < sub.Shape.Width; x++ {
		fx, fy := sub.At(x, y)
		if volume < 8 {
			v := sample.Bits(row, x*volume, volume)
			sample.PutBits(dst, fy*dstPitch*8+fx*volume, volume, v)
			continue
		}
		n := volume >> 3
		copy(dst[fy*dstPitch+fx*n:], row[x*n:(x+1)*n])
	}
}

// gather is the inverse of scatter: it fills row, which must hold exactly
// one sub-image scanline, from the full-resolution buffer.
func gather(row []byte, src []byte, srcPitch int, sub format.SubImage, y, volume int) {
	if volume < 8 {
		clear(row)
	}
	for x := 0; x < sub.Shape.Width; x++ {
		fx, fy := sub.At(x, y)
		if volume < 8 {
			v := sample.Bits(src, fy*srcPitch*8+fx*volume, volume)
			sample.PutBits(row, x*volume, volume, v)
			continue
		}
		n := volume >> 3
		copy(row[x*n:(x+1)*n], src[fy*srcPitch+fx*n:])
	}
}
