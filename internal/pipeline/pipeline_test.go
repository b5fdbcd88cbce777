package pipeline

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/leo-lp/png/internal/codec"
	"github.com/leo-lp/png/internal/format"
	"github.com/leo-lp/png/internal/profile"
	"github.com/leo-lp/png/internal/sample"
	"github.com/leo-lp/png/internal/source"
)

// manyColors is an opaque RGB8 image with more colors than a palette holds.
func manyColors(t *testing.T) *codec.Image {
	t.Helper()
	px := make([]sample.RGBA16, 20*20)
	for i := range px {
		px[i] = sample.RGBA8{R: uint8(i), G: uint8(i >> 8), B: 7, A: 0xff}.Widen()
	}
	m, err := codec.FromPixels(format.RGB8, 20, 20, px, nil)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func writePNG(t *testing.T, path string, m *codec.Image, opt codec.Options) {
	t.Helper()
	var buf bytes.Buffer
	if err := codec.Encode(&buf, m, opt); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanImages(t *testing.T) {
	in := t.TempDir()
	for _, name := range []string{"a.png", "sub/b.JPG", "notes.txt", ".hidden/c.png"} {
		p := filepath.Join(in, name)
		os.MkdirAll(filepath.Dir(p), 0o755)
		os.WriteFile(p, []byte("x"), 0o644)
	}
	got, err := ScanImages(in, source.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("found %d sources: %+v", len(got), got)
	}
	keys := map[string]string{}
	for _, s := range got {
		keys[s.Key] = s.Format
	}
	if keys["a"] != "png" || keys["sub/b"] != "jpeg" {
		t.Errorf("keys %v", keys)
	}
}

func TestRunVerified(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()

	gray := image.NewGray(image.Rect(0, 0, 8, 4))
	for i := range gray.Pix {
		gray.Pix[i] = uint8(i%2) * 0xff
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, gray, &jpeg.Options{Quality: 100}); err != nil {
		t.Fatal(err)
	}
	os.MkdirAll(filepath.Join(in, "photos"), 0o755)
	os.WriteFile(filepath.Join(in, "photos", "stripes.jpg"), buf.Bytes(), 0o644)

	m := manyColors(t)
	m.Meta.Texts = []codec.Text{{Keyword: "Title", Value: "colors"}}
	writePNG(t, filepath.Join(in, "colors.png"), m, codec.Options{Level: -1})

	p := New(Config{
		InputDir:  in,
		OutputDir: out,
		Profile:   profile.Get("progressive"),
		Workers:   2,
		Verify:    true,
	})
	man, err := p.Run()
	if err != nil {
		t.Fatal(err)
	}
	if man.Stats.TotalAssets != 2 || man.Stats.TotalOutputs != 2 || man.Stats.Verified != 2 {
		t.Errorf("stats %+v", man.Stats)
	}
	if bi := man.BuildInfo; bi == nil || !bi.Interlace || bi.Workers != 2 {
		t.Errorf("build info %+v", bi)
	}

	a, ok := man.Assets["colors"]
	if !ok || a.Output == nil {
		t.Fatalf("colors asset %+v", a)
	}
	if a.Original.Pixel != "rgb8" || a.Output.Format != "rgb8" || !a.Output.Interlaced {
		t.Errorf("colors %+v / %+v", a.Original, *a.Output)
	}
	data, err := os.ReadFile(filepath.Join(out, a.Output.Path))
	if err != nil {
		t.Fatal(err)
	}
	back, err := codec.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Meta.Texts) != 1 || back.Meta.Texts[0].Value != "colors" {
		t.Errorf("texts %+v", back.Meta.Texts)
	}

	s, ok := man.Assets["photos/stripes"]
	if !ok || s.Output == nil {
		t.Fatalf("stripes asset %+v", s)
	}
	if s.Original.Format != "jpeg" || s.Original.HasAlpha {
		t.Errorf("stripes original %+v", s.Original)
	}
	if filepath.Dir(s.Output.Path) != "photos" {
		t.Errorf("path %s", s.Output.Path)
	}
}

func TestRunNoRegress(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	prof := profile.Get("default")
	writePNG(t, filepath.Join(in, "same.png"), manyColors(t), prof.Options())

	man, err := New(Config{InputDir: in, OutputDir: out, Profile: prof, NoRegressSize: true}).Run()
	if err != nil {
		t.Fatal(err)
	}
	a := man.Assets["same"]
	if a.Output != nil || man.Stats.SkippedRegress != 1 || man.Stats.TotalOutputs != 0 {
		t.Errorf("asset %+v, stats %+v", a, man.Stats)
	}
}

func TestRunAllFail(t *testing.T) {
	in := t.TempDir()
	os.WriteFile(filepath.Join(in, "broken.png"), []byte("not a png"), 0o644)
	if _, err := New(Config{InputDir: in, OutputDir: t.TempDir(), Profile: profile.Get("fast")}).Run(); err == nil {
		t.Error("build of only broken inputs succeeded")
	}
	if _, err := New(Config{InputDir: t.TempDir(), Profile: profile.Get("fast")}).Run(); err == nil {
		t.Error("empty input succeeded")
	}
}

func TestConvertKeepsColorKey(t *testing.T) {
	px := []sample.RGBA16{
		sample.RGBA8{R: 0xff, A: 0xff}.Widen(),
		sample.RGBA8{G: 0xff, A: 0xff}.Widen(),
	}
	m, err := codec.FromPixels(format.RGB8, 2, 1, px, nil)
	if err != nil {
		t.Fatal(err)
	}
	m.Key = &sample.RGBA16{G: 0xffff}
	var buf bytes.Buffer
	if err := codec.Encode(&buf, m, codec.Options{}); err != nil {
		t.Fatal(err)
	}
	in, err := source.NewRegistry().Get(".png").Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	prof := profile.Get("default")
	prof.Format = "rgb8"
	out, err := Convert(in, prof)
	if err != nil {
		t.Fatal(err)
	}
	if out.Key == nil || DropsKey(in, out) {
		t.Fatalf("key %v, dropped %t", out.Key, DropsKey(in, out))
	}
	got, err := out.Pixels()
	if err != nil {
		t.Fatal(err)
	}
	if got[0].A != 0xffff || got[1].A != 0 {
		t.Errorf("alphas %#x %#x", got[0].A, got[1].A)
	}

	prof.Format = "gray8"
	if out, err = Convert(in, prof); err != nil {
		t.Fatal(err)
	}
	if !DropsKey(in, out) {
		t.Error("gray8 conversion kept no key but reported none dropped")
	}

	prof.Format = profile.Auto
	if out, err = Convert(in, prof); err != nil {
		t.Fatal(err)
	}
	if DropsKey(in, out) {
		t.Errorf("auto chose %s and lost the key", out.Format)
	}
}
