package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leo-lp/png/internal/codec"
	"github.com/leo-lp/png/internal/format"
	"github.com/leo-lp/png/internal/manifest"
	"github.com/leo-lp/png/internal/pipeline"
	"github.com/leo-lp/png/internal/profile"
	"github.com/leo-lp/png/internal/sample"
)

func TestProfileFlags(t *testing.T) {
	var pf profileFlags
	c := &cobra.Command{Use: "x"}
	pf.register(c)
	if err := c.ParseFlags([]string{"-p", "best", "--interlace", "--chunk-size", "512", "-f", "gray8"}); err != nil {
		t.Fatal(err)
	}
	prof, err := pf.resolve(c)
	if err != nil {
		t.Fatal(err)
	}
	want := profile.Profile{Name: "best", Level: 9, Interlace: true, ChunkSize: 512, Format: "gray8"}
	if prof != want {
		t.Errorf("got %+v, want %+v", prof, want)
	}

	pf = profileFlags{}
	c = &cobra.Command{Use: "x"}
	pf.register(c)
	c.ParseFlags([]string{"-p", "progressive", "--interlace=false", "-l", "12"})
	if _, err := pf.resolve(c); err == nil {
		t.Error("level 12 accepted")
	}
	pf.level = 0
	if prof, _ := pf.resolve(c); prof.Interlace {
		t.Error("--interlace=false ignored")
	}
}

func TestValidateManifest(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	px := make([]sample.RGBA16, 6*5)
	for i := range px {
		px[i] = sample.RGBA8{R: uint8(i * 8), G: 3, B: uint8(255 - i), A: 0xff}.Widen()
	}
	m, err := codec.FromPixels(format.RGB8, 6, 5, px, nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := codec.Encode(&buf, m, codec.Options{}); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(in, "a.png"), buf.Bytes(), 0o644)

	man, err := pipeline.New(pipeline.Config{InputDir: in, OutputDir: out, Profile: profile.Get("default")}).Run()
	if err != nil {
		t.Fatal(err)
	}
	if errs := validateManifest(man, out); len(errs) != 0 {
		t.Fatalf("fresh build: %v", errs)
	}

	path := filepath.Join(out, man.Assets["a"].Output.Path)
	data, _ := os.ReadFile(path)
	data[len(data)-20] ^= 0xff
	os.WriteFile(path, data, 0o644)
	errs := validateManifest(man, out)
	if len(errs) == 0 {
		t.Fatal("tampered output passed")
	}
	if !strings.Contains(strings.Join(errs, "\n"), "content hash") {
		t.Errorf("errors %v", errs)
	}

	os.Remove(path)
	if errs := validateManifest(man, out); !strings.Contains(strings.Join(errs, "\n"), "file not found") {
		t.Errorf("missing output: %v", errs)
	}

	man.Version = 7
	man.Stats.TotalAssets = 3
	if errs := validateManifest(man, out); len(errs) < 3 {
		t.Errorf("errors %v", errs)
	}
	if errs := validateManifest(&manifest.Manifest{Version: 1}, out); len(errs) != 0 {
		t.Errorf("empty manifest: %v", errs)
	}
}
