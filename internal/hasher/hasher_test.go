package hasher

import (
	"strings"
	"testing"

	"github.com/leo-lp/png/internal/sample"
)

func TestContentHash(t *testing.T) {
	data := []byte("pngcore")
	full := ContentHash(data, 0)
	if len(full) != 16 {
		t.Fatalf("full hash %q", full)
	}
	if short := ContentHash(data, 8); short != full[:8] {
		t.Errorf("truncated %q, full %q", short, full)
	}
	streamed, err := ContentHashReader(strings.NewReader("pngcore"), 16)
	if err != nil {
		t.Fatal(err)
	}
	if streamed != full {
		t.Errorf("streamed %q, want %q", streamed, full)
	}
}

func TestPixelHash(t *testing.T) {
	px := make([]sample.RGBA16, 1000)
	for i := range px {
		px[i] = sample.Gray16(uint16(i))
	}
	a := PixelHash(100, 10, px)
	if b := PixelHash(100, 10, append([]sample.RGBA16(nil), px...)); a != b {
		t.Errorf("same pixels hash %q and %q", a, b)
	}
	if b := PixelHash(10, 100, px); a == b {
		t.Error("dimensions ignored")
	}
	px[999].A = 0
	if b := PixelHash(100, 10, px); a == b {
		t.Error("alpha ignored")
	}
}
