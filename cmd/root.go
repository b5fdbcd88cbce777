package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pngcore",
	Short: "Streaming PNG codec and batch re-encoder",
	Long: `pngcore reads and writes PNG with every legal pixel format, Adam7
interlacing and ancillary chunk preservation.

It inspects chunk streams, validates files against the chunk ordering
rules, converts images to PNG in a chosen or automatically selected pixel
format, and batch re-encodes directories into content-addressed files
described by a manifest.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"pngcore %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[pngcore] "+format+"\n", args...)
	}
}
