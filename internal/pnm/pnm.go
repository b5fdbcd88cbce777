// Package pnm writes decoded pixels as Netpbm files: binary PPM (P6) for
// opaque images and PAM (P7) with an alpha plane otherwise.
package pnm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/leo-lp/png/internal/sample"
)

// Encode writes width×height canonical pixels. Wide selects a maxval of
// 65535; otherwise samples are narrowed to 8 bits.
func Encode(w io.Writer, width, height int, px []sample.RGBA16, wide bool) error {
	if len(px) != width*height {
		return fmt.Errorf("pnm: %d pixels for %dx%d", len(px), width, height)
	}
	maxval := 255
	if wide {
		maxval = 0xffff
	}

	alpha := false
	for _, c := range px {
		if c.A != 0xffff {
			alpha = true
			break
		}
	}

	bw := bufio.NewWriter(w)
	if alpha {
		fmt.Fprintf(bw, "P7\nWIDTH %d\nHEIGHT %d\nDEPTH 4\nMAXVAL %d\nTUPLTYPE RGB_ALPHA\nENDHDR\n",
			width, height, maxval)
	} else {
		fmt.Fprintf(bw, "P6\n%d %d\n%d\n", width, height, maxval)
	}

	for _, c := range px {
		put(bw, c.R, wide)
		put(bw, c.G, wide)
		put(bw, c.B, wide)
		if alpha {
			put(bw, c.A, wide)
		}
	}
	return bw.Flush()
}

func put(bw *bufio.Writer, v uint16, wide bool) {
	if wide {
		bw.WriteByte(byte(v >> 8))
		bw.WriteByte(byte(v))
		return
	}
	bw.WriteByte(byte(sample.Narrow(v, 8)))
}
