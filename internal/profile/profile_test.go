package profile

import (
	"image"
	"image/color"
	"testing"

	"github.com/leo-lp/png/internal/format"
)

func TestGetFallsBack(t *testing.T) {
	p := Get("nonexistent")
	if p.Name != "nonexistent" {
		t.Errorf("name: got %q", p.Name)
	}
	if p.Level != Get("default").Level {
		t.Errorf("level: got %d", p.Level)
	}
	if !Get("progressive").Interlace {
		t.Error("progressive is not interlaced")
	}
	for _, name := range Names() {
		if Get(name).Name != name {
			t.Errorf("profile %q missing", name)
		}
	}
}

func TestFormatFor(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 1))
	img.SetGray(1, 0, color.Gray{255})

	p := Get("default")
	if f, err := p.FormatFor(img); err != nil || f != format.Gray1 {
		t.Errorf("auto: %s, %v", f, err)
	}
	p.Format = "rgba16"
	if f, err := p.FormatFor(img); err != nil || f != format.RGBA16 {
		t.Errorf("explicit: %s, %v", f, err)
	}
	p.Format = "cmyk"
	if _, err := p.FormatFor(img); err == nil {
		t.Error("unknown format accepted")
	}
}
