package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leo-lp/png/internal/codec"
	"github.com/leo-lp/png/internal/hasher"
	"github.com/leo-lp/png/internal/manifest"
	"github.com/leo-lp/png/internal/pngerr"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file.png|manifest.json>...",
	Short: "Fully decode PNG files, or check a pngcore manifest",
	Long: `Each .png argument is decoded completely; failures are reported with
their error class (structural, semantic, ordering).

A .json argument is read as a manifest: every output must exist with the
recorded size and content hash and decode to the recorded pixel hash.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		var errs []string
		if strings.EqualFold(filepath.Ext(path), ".json") {
			m, err := manifest.ReadJSON(path)
			if err != nil {
				return err
			}
			errs = validateManifest(m, filepath.Dir(path))
			if len(errs) == 0 {
				fmt.Printf("  ✓ %s: %d assets, %d outputs, all files decode\n",
					path, m.Stats.TotalAssets, m.Stats.TotalOutputs)
			}
		} else if err := validateFile(path); err != nil {
			errs = []string{err.Error()}
		} else {
			fmt.Printf("  ✓ %s\n", path)
		}

		if len(errs) > 0 {
			failed++
			fmt.Printf("  ✗ %s: %d error(s):\n", path, len(errs))
			for _, e := range errs {
				fmt.Printf("    • %s\n", e)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("validation failed for %d of %d inputs", failed, len(args))
	}
	return nil
}

// validateFile decodes a PNG file and tags a failure with its class.
func validateFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := codec.Decode(f)
	if err != nil {
		return fmt.Errorf("[%s] %w", pngerr.Class(err), err)
	}
	logVerbose("%s: %dx%d %s interlaced=%t", path, m.Width, m.Height, m.Format, m.Interlaced)
	return nil
}

// checkOutput streams an output file through the content hash, then
// decodes it. The image is nil when the file cannot be read or decoded.
func checkOutput(path string, out *manifest.Output) (*codec.Image, []string) {
	f, err := os.Open(path)
	if err != nil {
		return nil, []string{"file not found: " + out.Path}
	}
	defer f.Close()

	var errs []string
	if info, err := f.Stat(); err == nil && info.Size() != out.Size {
		errs = append(errs, fmt.Sprintf("size mismatch: manifest=%d, disk=%d", out.Size, info.Size()))
	}
	h, err := hasher.ContentHashReader(f, len(out.Hash))
	if err != nil {
		return nil, append(errs, err.Error())
	}
	if h != out.Hash {
		errs = append(errs, fmt.Sprintf("content hash %s, manifest %s", h, out.Hash))
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, append(errs, err.Error())
	}
	img, err := codec.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, append(errs, fmt.Sprintf("[%s] %v", pngerr.Class(err), err))
	}
	return img, errs
}

func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var errs []string

	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	seenPaths := map[string]string{}
	outputs := 0
	for _, key := range sortedKeys(m.Assets) {
		asset := m.Assets[key]
		if asset.Original.Width <= 0 || asset.Original.Height <= 0 {
			errs = append(errs, fmt.Sprintf("asset %q: invalid original dimensions %dx%d",
				key, asset.Original.Width, asset.Original.Height))
		}

		out := asset.Output
		if out == nil {
			continue
		}
		outputs++
		if out.Format == "" {
			errs = append(errs, fmt.Sprintf("asset %q: empty format", key))
		}
		if out.Hash == "" || out.PixelHash == "" {
			errs = append(errs, fmt.Sprintf("asset %q: missing hash", key))
		}
		if out.Path == "" {
			errs = append(errs, fmt.Sprintf("asset %q: missing path", key))
			continue
		}
		if other, ok := seenPaths[out.Path]; ok {
			errs = append(errs, fmt.Sprintf("asset %q: path %q also used by %q", key, out.Path, other))
		}
		seenPaths[out.Path] = key

		img, ferrs := checkOutput(filepath.Join(baseDir, out.Path), out)
		for _, e := range ferrs {
			errs = append(errs, fmt.Sprintf("asset %q: %s", key, e))
		}
		if img == nil {
			continue
		}
		if img.Width != asset.Original.Width || img.Height != asset.Original.Height {
			errs = append(errs, fmt.Sprintf("asset %q: decoded %dx%d, original %dx%d",
				key, img.Width, img.Height, asset.Original.Width, asset.Original.Height))
		}
		if img.Format.String() != out.Format {
			errs = append(errs, fmt.Sprintf("asset %q: decoded format %s, manifest %s", key, img.Format, out.Format))
		}
		px, err := img.Pixels()
		if err != nil {
			errs = append(errs, fmt.Sprintf("asset %q: %v", key, err))
			continue
		}
		if h := hasher.PixelHash(img.Width, img.Height, px); h != out.PixelHash {
			errs = append(errs, fmt.Sprintf("asset %q: pixel hash %s, manifest %s", key, h, out.PixelHash))
		}
	}

	if m.Stats.TotalAssets != len(m.Assets) {
		errs = append(errs, fmt.Sprintf("stats.total_assets mismatch: %d != %d", m.Stats.TotalAssets, len(m.Assets)))
	}
	if m.Stats.TotalOutputs != outputs {
		errs = append(errs, fmt.Sprintf("stats.total_outputs mismatch: %d != %d", m.Stats.TotalOutputs, outputs))
	}
	return errs
}
