package chunk

import (
	"github.com/leo-lp/png/internal/format"
	"github.com/leo-lp/png/internal/pngerr"
)

// Chunk groups used by the ordering rules.
var (
	beforePLTE = set(CHRM, GAMA, ICCP, SBIT, SRGB)
	beforeIDAT = set(CHRM, GAMA, ICCP, SBIT, SRGB, PLTE, BKGD, HIST, TRNS, PHYS, SPLT)
	unique     = set(CHRM, GAMA, ICCP, SBIT, SRGB, PLTE, BKGD, HIST, TRNS, PHYS, SPLT, IHDR, TIME)
)

func set(names ...Name) map[Name]bool {
	m := make(map[Name]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// rule is one ordering guard. It returns the violation kind, or false if
// the incoming chunk passes.
type rule func(v *Validator, n Name) (pngerr.Kind, Name, bool)

// rules are checked in order; the first violation wins.
var rules = []rule{
	// nothing follows IEND
	func(v *Validator, n Name) (pngerr.Kind, Name, bool) {
		return pngerr.Premature, n, v.last == IEND
	},
	// tRNS is redundant with a native alpha channel
	func(v *Validator, n Name) (pngerr.Kind, Name, bool) {
		return pngerr.Illegal, n, n == TRNS && v.format.HasAlpha()
	},
	// grayscale has no use for PLTE
	func(v *Validator, n Name) (pngerr.Kind, Name, bool) {
		return pngerr.Illegal, n, n == PLTE && !v.format.HasColor()
	},
	// PLTE precedes bKGD, hIST and tRNS
	func(v *Validator, n Name) (pngerr.Kind, Name, bool) {
		return pngerr.Misplaced, n, n == PLTE && (v.seen[BKGD] || v.seen[HIST] || v.seen[TRNS])
	},
	func(v *Validator, n Name) (pngerr.Kind, Name, bool) {
		return pngerr.Misplaced, n, beforePLTE[n] && v.seen[PLTE]
	},
	func(v *Validator, n Name) (pngerr.Kind, Name, bool) {
		return pngerr.Misplaced, n, beforeIDAT[n] && v.seen[IDAT]
	},
	func(v *Validator, n Name) (pngerr.Kind, Name, bool) {
		return pngerr.Duplicate, n, unique[n] && v.seen[n]
	},
	// IDAT chunks are contiguous
	func(v *Validator, n Name) (pngerr.Kind, Name, bool) {
		return pngerr.Misplaced, n, n == IDAT && v.last != IDAT && v.seen[IDAT]
	},
	func(v *Validator, n Name) (pngerr.Kind, Name, bool) {
		return pngerr.Missing, PLTE, n == IDAT && v.format.IsIndexed() && !v.seen[PLTE]
	},
	func(v *Validator, n Name) (pngerr.Kind, Name, bool) {
		return pngerr.Missing, IDAT, n == IEND && !v.seen[IDAT]
	},
}

// Validator enforces chunk ordering. It starts in the state just after
// IHDR has been accepted.
type Validator struct {
	format format.Format
	seen   map[Name]bool
	last   Name
}

// NewValidator returns a validator for an image of format f.
func NewValidator(f format.Format) *Validator {
	return &Validator{
		format: f,
		seen:   map[Name]bool{IHDR: true},
		last:   IHDR,
	}
}

// Push accepts the next chunk type or reports why it cannot appear here.
func (v *Validator) Push(n Name) error {
	for _, r := range rules {
		if kind, subject, bad := r(v, n); bad {
			return &pngerr.ChunkError{Kind: kind, Chunk: subject.String()}
		}
	}
	v.seen[n] = true
	v.last = n
	return nil
}

// Seen reports whether a chunk type has been accepted.
func (v *Validator) Seen(n Name) bool { return v.seen[n] }

// Last is the most recently accepted chunk type.
func (v *Validator) Last() Name { return v.last }

// Done reports whether IEND has been accepted.
func (v *Validator) Done() bool { return v.last == IEND }

// Finish checks the state at end of input.
func (v *Validator) Finish() error {
	if !v.seen[IDAT] {
		return &pngerr.ChunkError{Kind: pngerr.Missing, Chunk: IDAT.String()}
	}
	if v.last != IEND {
		return &pngerr.ChunkError{Kind: pngerr.Missing, Chunk: IEND.String()}
	}
	return nil
}
