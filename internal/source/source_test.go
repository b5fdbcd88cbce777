package source

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/leo-lp/png/internal/codec"
	"github.com/leo-lp/png/internal/format"
	"github.com/leo-lp/png/internal/sample"
	"golang.org/x/image/bmp"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	for ext, want := range map[string]string{".PNG": "png", ".jpg": "jpeg", ".tif": "tiff", ".webp": "webp"} {
		d := r.Get(ext)
		if d == nil || d.Format() != want {
			t.Errorf("%s: got %v, want %s", ext, d, want)
		}
	}
	if r.Get(".psd") != nil {
		t.Error(".psd is supported")
	}
	if n := len(r.Extensions()); n != 8 {
		t.Errorf("%d extensions", n)
	}
}

func TestPNGKeepsSixteenBits(t *testing.T) {
	px := []sample.RGBA16{{R: 0x1234, G: 0x5678, B: 0x9abc, A: 0xffff}}
	m, err := codec.FromPixels(format.RGB16, 1, 1, px, nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := codec.Encode(&buf, m, codec.Options{}); err != nil {
		t.Fatal(err)
	}
	img, err := NewRegistry().Get(".png").Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.PNG == nil || img.PNG.Format != format.RGB16 {
		t.Fatalf("png info %+v", img.PNG)
	}
	if got := img.At(0, 0).(color.NRGBA64); got != (color.NRGBA64{0x1234, 0x5678, 0x9abc, 0xffff}) {
		t.Errorf("pixel %v", got)
	}
}

func TestRasterNormalizes(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(1, 1, color.RGBA{10, 20, 30, 255})
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	img, err := NewRegistry().Get(".bmp").Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	nrgba, ok := img.Image.(*image.NRGBA)
	if !ok {
		t.Fatalf("decoded %T", img.Image)
	}
	if got := nrgba.NRGBAAt(1, 1); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("pixel %v", got)
	}

	buf.Reset()
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatal(err)
	}
	if img, err = NewRegistry().Get(".jpeg").Decode(&buf); err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("bounds %v", b)
	}
}
