package filter

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leo-lp/png/internal/pngerr"
)

func TestPaeth(t *testing.T) {
	if got := Paeth(10, 10, 10); got != 10 {
		t.Errorf("Paeth(10,10,10) = %d", got)
	}
	if got := Paeth(0, 0, 0); got != 0 {
		t.Errorf("Paeth(0,0,0) = %d", got)
	}
	// p = 30+40-20 = 50: distances 20, 10, 30.
	if got := Paeth(30, 40, 20); got != 40 {
		t.Errorf("Paeth(30,40,20) = %d, want 40", got)
	}
	// a and b tie: a wins.
	if got := Paeth(5, 5, 9); got != 5 {
		t.Errorf("Paeth(5,5,9) = %d", got)
	}
	// p = 0+0-255: pb ties pc only via b.
	if got := Paeth(255, 0, 255); got != 0 {
		t.Errorf("Paeth(255,0,255) = %d, want 0", got)
	}
	for a := 0; a < 256; a += 15 {
		for b := 0; b < 256; b += 17 {
			for c := 0; c < 256; c += 13 {
				got := Paeth(uint8(a), uint8(b), uint8(c))
				if got != uint8(a) && got != uint8(b) && got != uint8(c) {
					t.Fatalf("Paeth(%d,%d,%d) = %d not an input", a, b, c, got)
				}
			}
		}
	}
}

func TestSubKnownVector(t *testing.T) {
	cur := []byte{100, 150, 200, 110, 160, 210, 105, 155, 205}
	ref := make([]byte, len(cur))
	dst := make([]byte, len(cur)+1)
	Apply(Sub, dst, cur, ref, 3)
	want := []byte{1, 100, 150, 200, 10, 10, 10, 251, 251, 251}
	if diff := cmp.Diff(want, dst); diff != "" {
		t.Errorf("sub mismatch (-want +got):\n%s", diff)
	}
}

func contents(n int, rng *rand.Rand) map[string][2][]byte {
	zero := make([]byte, n)
	ones := make([]byte, n)
	for i := range ones {
		ones[i] = 0xff
	}
	random := func() []byte {
		b := make([]byte, n)
		rng.Read(b)
		return b
	}
	return map[string][2][]byte{
		"zero":        {zero, zero},
		"ff":          {ones, ones},
		"ff-over-0":   {ones, zero},
		"random":      {random(), random()},
		"random-zero": {random(), zero},
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, stride := range []int{1, 2, 3, 4, 6, 8} {
		for _, n := range []int{stride, 5 * stride, 37} {
			for name, c := range contents(n, rng) {
				cur, ref := c[0], c[1]
				for ft := None; ft < numTypes; ft++ {
					t.Run(fmt.Sprintf("%s/stride%d/n%d/%v", name, stride, n, ft), func(t *testing.T) {
						line := make([]byte, n+1)
						Apply(ft, line, cur, ref, stride)
						if line[0] != byte(ft) {
							t.Fatalf("filter byte %d", line[0])
						}
						full := append([]byte{0}, ref...)
						if err := Defilter(line, full, stride); err != nil {
							t.Fatal(err)
						}
						if diff := cmp.Diff(cur, line[1:]); diff != "" {
							t.Errorf("round trip mismatch (-want +got):\n%s", diff)
						}
					})
				}
			}
		}
	}
}

func TestDefilterBadType(t *testing.T) {
	line := []byte{5, 1, 2, 3}
	err := Defilter(line, make([]byte, 4), 1)
	if !errors.Is(err, pngerr.ErrCorruptedChunk) {
		t.Fatalf("err = %v, want corrupted chunk", err)
	}
}

func TestDefilterLengthMismatch(t *testing.T) {
	if err := Defilter([]byte{0, 1}, []byte{0}, 1); err == nil {
		t.Fatal("expected error")
	}
}

func TestScore(t *testing.T) {
	if got := Score([]byte{0, 1, 0xff, 0x80, 0x7f}); got != 0+1+1+128+127 {
		t.Errorf("Score = %d", got)
	}
}

func TestSelectorPrefersLowestScore(t *testing.T) {
	var s Selector

	// All zeros: every candidate scores 0, None wins the tie.
	zero := make([]byte, 12)
	if got := s.Filter(zero, zero, 3); got[0] != byte(None) {
		t.Errorf("zero line picked %v", Type(got[0]))
	}

	// A linear ramp is flattened by Sub.
	ramp := make([]byte, 16)
	for i := range ramp {
		ramp[i] = byte(40 + i*3)
	}
	if got := s.Filter(ramp, make([]byte, 16), 1); got[0] != byte(Sub) {
		t.Errorf("ramp picked %v", Type(got[0]))
	}

	// A repeat of the previous row is zeroed by Up.
	row := []byte{90, 17, 200, 3, 250, 61, 128, 77}
	if got := s.Filter(row, row, 1); got[0] != byte(Up) {
		t.Errorf("repeated row picked %v", Type(got[0]))
	}
}

func TestSelectorOutputDefilters(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var s Selector
	prev := make([]byte, 24)
	for row := 0; row < 8; row++ {
		cur := make([]byte, 24)
		rng.Read(cur)
		line := append([]byte(nil), s.Filter(cur, prev, 4)...)
		if err := Defilter(line, append([]byte{0}, prev...), 4); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(cur, line[1:]); diff != "" {
			t.Fatalf("row %d mismatch (-want +got):\n%s", row, diff)
		}
		prev = cur
	}
}
