// Package filter implements the five PNG scanline prediction filters.
//
// A coded scanline is one filter-type byte followed by pitch data bytes.
// Every function here works on whole scanlines and a same-length reference
// (the previous scanline of the pass, or zeros for its first row); stride
// is the pixel size in bytes, at least 1. All arithmetic wraps modulo 256.
package filter

import (
	"fmt"

	"github.com/leo-lp/png/internal/pngerr"
)

// Type is a filter-type byte.
type Type uint8

const (
	None Type = iota
	Sub
	Up
	Average
	PaethType
	numTypes
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Sub:
		return "sub"
	case Up:
		return "up"
	case Average:
		return "average"
	case PaethType:
		return "paeth"
	default:
		return fmt.Sprintf("filter(%d)", uint8(t))
	}
}

// Defilter reverses the filter named by line[0] in place, so that
// line[1:] holds raw pixel bytes. ref[1:] is the raw previous scanline;
// ref[0] is ignored. line[0] is reset to 0 on success.
func Defilter(line, ref []byte, stride int) error {
	if len(line) != len(ref) {
		return fmt.Errorf("defilter: scanline length %d, reference length %d", len(line), len(ref))
	}
	if len(line) == 0 {
		return nil
	}
	ft := Type(line[0])
	cdat, pdat := line[1:], ref[1:]
	if stride > len(cdat) {
		stride = len(cdat)
	}
	switch ft {
	case None:
	case Sub:
		for i := stride; i < len(cdat); i++ {
			cdat[i] += cdat[i-stride]
		}
	case Up:
		for i, p := range pdat {
			cdat[i] += p
		}
	case Average:
		for i := 0; i < stride; i++ {
			cdat[i] += pdat[i] / 2
		}
		for i := stride; i < len(cdat); i++ {
			cdat[i] += uint8((int(cdat[i-stride]) + int(pdat[i])) / 2)
		}
	case PaethType:
		for i := 0; i < stride; i++ {
			cdat[i] += Paeth(0, pdat[i], 0)
		}
		for i := stride; i < len(cdat); i++ {
			cdat[i] += Paeth(cdat[i-stride], pdat[i], pdat[i-stride])
		}
	default:
		return fmt.Errorf("%w: bad filter type %d", pngerr.ErrCorruptedChunk, uint8(ft))
	}
	line[0] = 0
	return nil
}

// Apply writes the ft-filtered form of cur into dst, filter byte included.
// cur and ref hold raw pixel bytes (no filter byte) and dst must be one
// byte longer. ft must be a valid type.
func Apply(ft Type, dst, cur, ref []byte, stride int) {
	dst[0] = byte(ft)
	out := dst[1 : len(cur)+1]
	if stride > len(cur) {
		stride = len(cur)
	}
	switch ft {
	case None:
		copy(out, cur)
	case Sub:
		copy(out[:stride], cur[:stride])
		for i := stride; i < len(cur); i++ {
			out[i] = cur[i] - cur[i-stride]
		}
	case Up:
		for i, c := range cur {
			out[i] = c - ref[i]
		}
	case Average:
		for i := 0; i < stride; i++ {
			out[i] = cur[i] - ref[i]/2
		}
		for i := stride; i < len(cur); i++ {
			out[i] = cur[i] - uint8((int(cur[i-stride])+int(ref[i]))/2)
		}
	case PaethType:
		for i := 0; i < stride; i++ {
			out[i] = cur[i] - Paeth(0, ref[i], 0)
		}
		for i := stride; i < len(cur); i++ {
			out[i] = cur[i] - Paeth(cur[i-stride], ref[i], ref[i-stride])
		}
	default:
		panic(fmt.Sprintf("filter: apply invalid type %d", uint8(ft)))
	}
}

// Score sums the magnitude of each filtered byte read as a two's-complement
// value. Lower scores tend to compress better.
func Score(filtered []byte) int {
	sum := 0
	for _, b := range filtered {
		sum += abs(int(int8(b)))
	}
	return sum
}

// Selector picks the lowest-scoring filter for each scanline. It keeps one
// scratch buffer per candidate, so the returned slice is only valid until
// the next call.
type Selector struct {
	cand [numTypes][]byte
}

// Filter filters cur against ref with every filter type and returns the
// candidate with the minimum Score, filter byte included. Ties keep the
// lowest-numbered type.
func (s *Selector) Filter(cur, ref []byte, stride int) []byte {
	n := len(cur) + 1
	best, bestScore := None, -1
	for ft := None; ft < numTypes; ft++ {
		if cap(s.cand[ft]) < n {
			s.cand[ft] = make([]byte, n)
		}
		buf := s.cand[ft][:n]
		Apply(ft, buf, cur, ref, stride)
		if score := Score(buf[1:]); bestScore < 0 || score < bestScore {
			best, bestScore = ft, score
		}
	}
	return s.cand[best][:n]
}
