package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leo-lp/png/internal/codec"
	"github.com/leo-lp/png/internal/pnm"
)

var (
	decodeOut    string
	decodeWide   bool
	decodePasses string
)

var decodeCmd = &cobra.Command{
	Use:   "decode <file.png>",
	Short: "Decode a PNG to PPM/PAM",
	Long: `Decodes a PNG and writes its pixels as binary PPM, or as PAM when any
pixel is translucent. 16-bit images keep 16-bit samples unless --wide=false.

With --passes, the seven Adam7 passes of an interlaced image are also
written as separate PNG files into the given directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeOut, "out", "o", "", "output file (default: input name with .ppm or .pam)")
	decodeCmd.Flags().BoolVar(&decodeWide, "wide", true, "write 16-bit samples for 16-bit images")
	decodeCmd.Flags().StringVar(&decodePasses, "passes", "", "directory to write the Adam7 passes to")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(_ *cobra.Command, args []string) error {
	in := args[0]
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	m, err := codec.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", in, err)
	}

	px, err := m.Pixels()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	wide := decodeWide && m.Format.Depth() == 16
	if err := pnm.Encode(&buf, m.Width, m.Height, px, wide); err != nil {
		return err
	}

	out := decodeOut
	if out == "" {
		ext := ".ppm"
		if bytes.HasPrefix(buf.Bytes(), []byte("P7")) {
			ext = ".pam"
		}
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ext
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Printf("  %s → %s  %dx%d %s\n", in, out, m.Width, m.Height, m.Format)

	if decodePasses != "" {
		return writePasses(m, in)
	}
	return nil
}

// writePasses stores each non-empty Adam7 pass as its own PNG.
func writePasses(m *codec.Image, in string) error {
	if !m.Interlaced {
		return fmt.Errorf("%s is not interlaced", in)
	}
	parts, err := codec.Decompose(m)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(decodePasses, 0o755); err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	for i, p := range parts {
		if p == nil {
			logVerbose("pass %d is empty", i+1)
			continue
		}
		var buf bytes.Buffer
		if err := codec.Encode(&buf, p, codec.Options{}); err != nil {
			return fmt.Errorf("pass %d: %w", i+1, err)
		}
		path := filepath.Join(decodePasses, fmt.Sprintf("%s.pass%d.png", base, i+1))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return err
		}
		fmt.Printf("    pass %d  %dx%d  %s\n", i+1, p.Width, p.Height, path)
	}
	return nil
}
