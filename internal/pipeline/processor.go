package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leo-lp/png/internal/codec"
	"github.com/leo-lp/png/internal/hasher"
	"github.com/leo-lp/png/internal/manifest"
	"github.com/leo-lp/png/internal/profile"
	"github.com/leo-lp/png/internal/sample"
	"github.com/leo-lp/png/internal/source"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key            string
	asset          manifest.Asset
	err            error
	skippedRegress bool
}

// processImage decodes one source, re-encodes it as PNG and writes the
// content-addressed output file.
func processImage(src Source, cfg Config) processResult {
	result := processResult{key: src.Key}

	f, err := os.Open(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("open %s: %w", src.RelPath, err)
		return result
	}
	in, err := src.decoder.Decode(f)
	f.Close()
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}

	m, err := Convert(in, cfg.Profile)
	if err != nil {
		result.err = fmt.Errorf("convert %s: %w", src.RelPath, err)
		return result
	}

	if DropsKey(in, m) {
		fmt.Fprintf(os.Stderr, "[pngcore] warning: %s: %s cannot keep the tRNS color key, keyed pixels become opaque\n",
			src.Key, m.Format)
	}

	px, err := m.Pixels()
	if err != nil {
		result.err = fmt.Errorf("pixels %s: %w", src.RelPath, err)
		return result
	}

	result.asset = manifest.Asset{
		Original: manifest.OriginalInfo{
			Width:    m.Width,
			Height:   m.Height,
			Format:   src.Format,
			Size:     src.Size,
			HasAlpha: translucent(px),
		},
	}
	if in.PNG != nil {
		result.asset.Original.Pixel = in.PNG.Format.String()
	}

	var buf bytes.Buffer
	if err := codec.Encode(&buf, m, cfg.Profile.Options()); err != nil {
		result.err = fmt.Errorf("encode %s: %w", src.RelPath, err)
		return result
	}
	data := buf.Bytes()

	if cfg.NoRegressSize && int64(len(data)) >= src.Size {
		if cfg.Verbose {
			fmt.Fprintf(os.Stderr, "[pngcore] skip: %s encoded %d >= original %d bytes\n",
				src.Key, len(data), src.Size)
		}
		result.skippedRegress = true
		return result
	}

	out := &manifest.Output{
		Format:     m.Format.String(),
		Interlaced: m.Interlaced,
		Size:       int64(len(data)),
		Hash:       hasher.ContentHash(data, 16),
		PixelHash:  hasher.PixelHash(m.Width, m.Height, px),
	}

	if cfg.Verify {
		if err := verify(data, out.PixelHash); err != nil {
			result.err = fmt.Errorf("verify %s: %w", src.RelPath, err)
			return result
		}
		out.Verified = true
	}

	keyDir := filepath.Dir(src.Key)
	if keyDir != "." {
		if err := os.MkdirAll(filepath.Join(cfg.OutputDir, keyDir), 0o755); err != nil {
			result.err = err
			return result
		}
	}

	// key.w.h.hash.png
	fileName := fmt.Sprintf("%s.%d.%d.%s.png",
		filepath.Base(src.Key), m.Width, m.Height, out.Hash[:8])
	out.Path = filepath.ToSlash(filepath.Join(keyDir, fileName))

	if err := os.WriteFile(filepath.Join(cfg.OutputDir, out.Path), data, 0o644); err != nil {
		result.err = fmt.Errorf("write %s: %w", out.Path, err)
		return result
	}

	result.asset.Output = out
	return result
}

// Convert builds the PNG image of a decoded input under a profile. PNG
// inputs keep their metadata and color key; chunks tied to the old pixel
// format are dropped when the format changes.
func Convert(in *source.Image, prof profile.Profile) (*codec.Image, error) {
	pf, err := prof.FormatFor(in)
	if err != nil {
		return nil, err
	}
	m, err := codec.FromImage(in, pf)
	if err != nil {
		return nil, fmt.Errorf("to %s: %w", pf, err)
	}
	m.Interlaced = prof.Interlace
	if in.PNG != nil {
		m.Meta = in.PNG.Meta
		if in.PNG.Format == pf {
			m.Key = in.PNG.Key
		} else {
			m.Meta = m.Meta.Portable()
		}
	}
	return m, nil
}

// DropsKey reports whether converting in to m lost the tRNS color key:
// the source had one and m can express transparency neither by key nor
// by alpha or palette.
func DropsKey(in *source.Image, m *codec.Image) bool {
	return in.PNG != nil && in.PNG.Key != nil && m.Key == nil &&
		!m.Format.HasAlpha() && !m.Format.IsIndexed()
}

// verify decodes an encoded PNG and checks its pixel hash.
func verify(data []byte, want string) error {
	m, err := codec.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	px, err := m.Pixels()
	if err != nil {
		return err
	}
	if got := hasher.PixelHash(m.Width, m.Height, px); got != want {
		return fmt.Errorf("pixel hash %s, want %s", got, want)
	}
	return nil
}

func translucent(px []sample.RGBA16) bool {
	for _, c := range px {
		if c.A != 0xffff {
			return true
		}
	}
	return false
}
