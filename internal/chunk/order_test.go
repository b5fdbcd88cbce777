package chunk

import (
	"errors"
	"testing"

	"github.com/leo-lp/png/internal/format"
	"github.com/leo-lp/png/internal/pngerr"
)

// push feeds names to a fresh validator and returns the first error plus
// the index it happened at.
func push(f format.Format, names ...Name) (int, error) {
	v := NewValidator(f)
	for i, n := range names {
		if err := v.Push(n); err != nil {
			return i, err
		}
	}
	return len(names), v.Finish()
}

func TestOrderingAccepts(t *testing.T) {
	cases := map[string]struct {
		f     format.Format
		names []Name
	}{
		"indexed":       {format.Indexed8, []Name{PLTE, IDAT, IEND}},
		"indexed trns":  {format.Indexed4, []Name{GAMA, PLTE, TRNS, BKGD, IDAT, IDAT, TEXT, IEND}},
		"rgb":           {format.RGB8, []Name{SRGB, PHYS, IDAT, IDAT, IDAT, TIME, IEND}},
		"rgb palette":   {format.RGB8, []Name{PLTE, IDAT, IEND}},
		"gray trns":     {format.Gray16, []Name{TRNS, IDAT, IEND}},
		"text anywhere": {format.RGBA8, []Name{TEXT, IDAT, TEXT, ZTXT, IEND}},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if i, err := push(c.f, c.names...); err != nil {
				t.Fatalf("rejected at %d: %v", i, err)
			}
		})
	}
}

func TestOrderingRejects(t *testing.T) {
	cases := map[string]struct {
		f     format.Format
		names []Name
		at    int
		want  error
		chunk string
	}{
		"plte after idat":  {format.Indexed8, []Name{IDAT, PLTE, IEND}, 0, pngerr.ErrMissingChunk, "PLTE"},
		"rgb plte late":    {format.RGB8, []Name{IDAT, PLTE, IEND}, 1, pngerr.ErrMisplacedChunk, "PLTE"},
		"second ihdr":      {format.RGB8, []Name{IHDR}, 0, pngerr.ErrDuplicateChunk, "IHDR"},
		"ihdr after idat":  {format.RGB8, []Name{IDAT, IHDR}, 1, pngerr.ErrDuplicateChunk, "IHDR"},
		"after iend":       {format.RGB8, []Name{IDAT, IEND, TEXT}, 2, pngerr.ErrPrematureIEND, "tEXt"},
		"trns with alpha":  {format.RGBA8, []Name{TRNS}, 0, pngerr.ErrIllegalChunk, "tRNS"},
		"plte gray":        {format.Gray8, []Name{PLTE}, 0, pngerr.ErrIllegalChunk, "PLTE"},
		"plte after bkgd":  {format.RGB8, []Name{BKGD, PLTE}, 1, pngerr.ErrMisplacedChunk, "PLTE"},
		"gama after plte":  {format.Indexed8, []Name{PLTE, GAMA}, 1, pngerr.ErrMisplacedChunk, "gAMA"},
		"phys after idat":  {format.RGB8, []Name{IDAT, PHYS}, 1, pngerr.ErrMisplacedChunk, "pHYs"},
		"duplicate time":   {format.RGB8, []Name{TIME, IDAT, TIME}, 2, pngerr.ErrDuplicateChunk, "tIME"},
		"duplicate gama":   {format.RGB8, []Name{GAMA, GAMA}, 1, pngerr.ErrDuplicateChunk, "gAMA"},
		"split idat":       {format.RGB8, []Name{IDAT, TEXT, IDAT}, 2, pngerr.ErrMisplacedChunk, "IDAT"},
		"no idat":          {format.RGB8, []Name{TEXT, IEND}, 1, pngerr.ErrMissingChunk, "IDAT"},
		"no iend":          {format.RGB8, []Name{IDAT}, 1, pngerr.ErrMissingChunk, "IEND"},
		"empty stream":     {format.RGB8, nil, 0, pngerr.ErrMissingChunk, "IDAT"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			i, err := push(c.f, c.names...)
			if !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
			if i != c.at {
				t.Errorf("failed at %d, want %d", i, c.at)
			}
			var ce *pngerr.ChunkError
			if !errors.As(err, &ce) || ce.Chunk != c.chunk {
				t.Errorf("chunk = %+v, want %s", ce, c.chunk)
			}
		})
	}
}

func TestValidatorState(t *testing.T) {
	v := NewValidator(format.RGB8)
	if v.Last() != IHDR || v.Done() || !v.Seen(IHDR) {
		t.Fatalf("initial state: last %s, done %t", v.Last(), v.Done())
	}
	for _, n := range []Name{GAMA, IDAT, IDAT} {
		if err := v.Push(n); err != nil {
			t.Fatal(err)
		}
	}
	if v.Last() != IDAT || v.Done() {
		t.Errorf("after IDAT: last %s, done %t", v.Last(), v.Done())
	}
	if err := v.Push(TEXT); err != nil {
		t.Fatal(err)
	}
	if err := v.Push(IEND); err != nil {
		t.Fatal(err)
	}
	if v.Last() != IEND || !v.Done() {
		t.Errorf("after IEND: last %s, done %t", v.Last(), v.Done())
	}
	// A rejected chunk leaves the state alone.
	if err := v.Push(TEXT); err == nil || v.Last() != IEND {
		t.Errorf("push after IEND: err %v, last %s", err, v.Last())
	}
}
