package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leo-lp/png/internal/codec"
	"github.com/leo-lp/png/internal/pipeline"
	"github.com/leo-lp/png/internal/source"
)

var (
	encodeOut     string
	encodeProfile profileFlags
)

var encodeCmd = &cobra.Command{
	Use:   "encode <input>",
	Short: "Convert one image to PNG",
	Long: `Decodes any supported input (png, jpeg, gif, bmp, tiff, webp) and writes
it as PNG. --format picks the pixel format, e.g. indexed4 or rgba16;
"auto" picks the smallest format that stores the image without loss.`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeOut, "out", "o", "", "output file (default: input name with .png)")
	encodeProfile.register(encodeCmd)
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	in := args[0]
	prof, err := encodeProfile.resolve(cmd)
	if err != nil {
		return err
	}

	dec := source.NewRegistry().Get(filepath.Ext(in))
	if dec == nil {
		return fmt.Errorf("%s: unsupported input format", in)
	}
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	img, err := dec.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", in, err)
	}

	m, err := pipeline.Convert(img, prof)
	if err != nil {
		return fmt.Errorf("convert %s: %w", in, err)
	}

	if pipeline.DropsKey(img, m) {
		fmt.Fprintf(os.Stderr, "[pngcore] warning: %s cannot keep the tRNS color key, keyed pixels become opaque\n", m.Format)
	}

	var buf bytes.Buffer
	if err := codec.Encode(&buf, m, prof.Options()); err != nil {
		return fmt.Errorf("encode %s: %w", in, err)
	}

	out := encodeOut
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".png"
		if out == in {
			out = strings.TrimSuffix(in, filepath.Ext(in)) + ".out.png"
		}
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return err
	}

	logVerbose("profile %s, level %d, chunk %d", prof.Name, prof.Level, prof.ChunkSize)
	fmt.Printf("  %s → %s  %dx%d %s interlaced=%t  %s\n",
		in, out, m.Width, m.Height, m.Format, m.Interlaced, formatBytes(int64(buf.Len())))
	return nil
}
