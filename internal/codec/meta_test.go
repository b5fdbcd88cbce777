package codec

import (
	"errors"
	"strings"
	"testing"

	"github.com/leo-lp/png/internal/chunk"
	"github.com/leo-lp/png/internal/format"
	"github.com/leo-lp/png/internal/pngerr"
)

func TestParseHeader(t *testing.T) {
	h := Header{Width: 640, Height: 480, Format: format.Indexed4, Interlaced: true}
	got, err := ParseHeader(h.bytes())
	if err != nil {
		t.Fatal(err)
	}
	if got != h {
		t.Errorf("got %+v, want %+v", got, h)
	}

	for name, mutate := range map[string]func(b []byte){
		"zero width":  func(b []byte) { b[0], b[1], b[2], b[3] = 0, 0, 0, 0 },
		"huge height": func(b []byte) { b[4] = 0x80 },
		"depth 3":     func(b []byte) { b[8] = 3 },
		"compression": func(b []byte) { b[10] = 1 },
		"filter":      func(b []byte) { b[11] = 1 },
		"interlace":   func(b []byte) { b[12] = 2 },
	} {
		t.Run(name, func(t *testing.T) {
			b := h.bytes()
			mutate(b)
			_, err := ParseHeader(b)
			var se *pngerr.SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v", err)
			}
			if se.Field == "" {
				t.Error("no field named")
			}
		})
	}
}

func TestParseText(t *testing.T) {
	txt, err := parseText([]byte("Comment\x00hello\xe9"))
	if err != nil {
		t.Fatal(err)
	}
	if txt.Keyword != "Comment" || txt.Value != "helloé" {
		t.Errorf("got %+v", txt)
	}
	for _, bad := range []string{"no separator", "\x00empty keyword", strings.Repeat("k", 80) + "\x00v"} {
		if _, err := parseText([]byte(bad)); !errors.Is(err, pngerr.ErrSyntax) {
			t.Errorf("%q: err = %v", bad, err)
		}
	}
	if _, err := (Text{Keyword: "k", Value: "日本"}).bytes(); err == nil {
		t.Error("non Latin-1 text accepted")
	}
}

func TestPortable(t *testing.T) {
	md := Metadata{
		Background: []byte{0, 1},
		Texts:      []Text{{"k", "v"}},
		Extra: []chunk.Chunk{
			{Name: chunk.SBIT, Data: []byte{8, 8, 8}},
			{Name: chunk.Name{'v', 'p', 'A', 'g'}},
		},
		Tail: []chunk.Chunk{{Name: chunk.Name{'a', 'b', 'C', 'D'}}},
	}
	got := md.Portable()
	if got.Background != nil || len(got.Texts) != 1 || got.Tail != nil {
		t.Errorf("got %+v", got)
	}
	if len(got.Extra) != 1 || got.Extra[0].Name.String() != "vpAg" {
		t.Errorf("extra %+v", got.Extra)
	}
	if md.Background == nil || len(md.Extra) != 2 {
		t.Error("receiver modified")
	}
}

func TestParseTime(t *testing.T) {
	tm, err := parseTime([]byte{0x07, 0xe8, 12, 31, 23, 59, 58})
	if err != nil {
		t.Fatal(err)
	}
	if tm.Year() != 2024 || tm.Month() != 12 || tm.Second() != 58 {
		t.Errorf("got %v", tm)
	}
	if b := timeBytes(tm); string(b) != "\x07\xe8\x0c\x1f\x17\x3b\x3a" {
		t.Errorf("bytes = %x", b)
	}
	if _, err := parseTime([]byte{0x07, 0xe8, 13, 1, 0, 0, 0}); !errors.Is(err, pngerr.ErrSyntax) {
		t.Errorf("month 13: %v", err)
	}
}

func TestParseTransparency(t *testing.T) {
	pal, err := parsePalette([]byte{1, 2, 3, 4, 5, 6}, format.Indexed1)
	if err != nil {
		t.Fatal(err)
	}
	out, key, err := parseTransparency([]byte{9}, format.Indexed1, pal)
	if err != nil || key != nil {
		t.Fatalf("key %v, err %v", key, err)
	}
	if out[0].A != 9 || out[1].A != 0xff || pal[0].A != 0xff {
		t.Errorf("alphas %d %d, original %d", out[0].A, out[1].A, pal[0].A)
	}
	if _, _, err := parseTransparency([]byte{1, 2, 3}, format.Indexed1, pal); !errors.Is(err, pngerr.ErrSyntax) {
		t.Errorf("long tRNS: %v", err)
	}
	_, key, err = parseTransparency([]byte{0, 3}, format.Gray2, nil)
	if err != nil || key == nil || key.R != 0xffff {
		t.Errorf("gray2 key %v, err %v", key, err)
	}
	_, key, err = parseTransparency([]byte{0x12, 0x34, 0, 0, 0xff, 0xff}, format.RGB16, nil)
	if err != nil || key.R != 0x1234 || key.G != 0 || key.B != 0xffff {
		t.Errorf("rgb16 key %v, err %v", key, err)
	}
}
