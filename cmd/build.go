package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leo-lp/png/internal/manifest"
	"github.com/leo-lp/png/internal/pipeline"
)

var (
	buildOutDir    string
	buildWorkers   int
	buildNoRegress bool
	buildVerify    bool
	buildProfile   profileFlags
)

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Re-encode a directory of images as PNG and write a manifest",
	Long: `Scans the input directory for images (png, jpg, jpeg, gif, bmp, tif,
tiff, webp), converts each to PNG in the profile's pixel format, and
writes a manifest file.

Output filenames are content-addressed: <key>.<w>.<h>.<hash>.png`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", "./pngcore_out", "output directory")
	buildCmd.Flags().IntVarP(&buildWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	buildCmd.Flags().BoolVar(&buildNoRegress, "no-regress-size", false, "skip outputs not smaller than the original file")
	buildCmd.Flags().BoolVar(&buildVerify, "verify", false, "decode every output and compare pixel hashes")
	buildProfile.register(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()

	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(buildOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof, err := buildProfile.resolve(cmd)
	if err != nil {
		return err
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (level=%d, interlace=%t, chunk=%d, format=%s)",
		prof.Name, prof.Level, prof.Interlace, prof.ChunkSize, prof.Format)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:      absInput,
		OutputDir:     absOutput,
		Profile:       prof,
		Workers:       buildWorkers,
		Verbose:       verbose,
		NoRegressSize: buildNoRegress,
		Verify:        buildVerify,
	})

	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBuildReport(m, time.Since(start))
	return nil
}

func printBuildReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║             pngcore build complete               ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	stats := m.Stats
	ratio := float64(0)
	if stats.TotalInputBytes > 0 {
		ratio = float64(stats.TotalOutputBytes) / float64(stats.TotalInputBytes) * 100
	}

	fmt.Printf("  Assets:      %d\n", stats.TotalAssets)
	fmt.Printf("  Outputs:     %d\n", stats.TotalOutputs)
	fmt.Printf("  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	fmt.Printf("  Ratio:       %.1f%% of original\n", ratio)
	if stats.SkippedRegress > 0 {
		fmt.Printf("  Skipped:     %d outputs (not smaller than original)\n", stats.SkippedRegress)
	}
	if stats.Verified > 0 {
		fmt.Printf("  Verified:    %d / %d\n", stats.Verified, stats.TotalOutputs)
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if bi := m.BuildInfo; bi != nil {
		fmt.Printf("  Workers:     %d  (level %d, chunk %s)\n",
			bi.Workers, bi.Level, formatBytes(int64(bi.ChunkSize)))
	}
	fmt.Println()

	// Top 10 heaviest assets.
	if len(m.Assets) > 0 {
		type assetSize struct {
			key        string
			inputSize  int64
			outputSize int64
		}
		var items []assetSize
		for key, a := range m.Assets {
			var out int64
			if a.Output != nil {
				out = a.Output.Size
			}
			items = append(items, assetSize{key, a.Original.Size, out})
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].inputSize != items[j].inputSize {
				return items[i].inputSize > items[j].inputSize
			}
			return items[i].key < items[j].key
		})
		n := min(len(items), 10)
		fmt.Printf("  Top %d heaviest (original → png):\n", n)
		for _, it := range items[:n] {
			if it.outputSize == 0 {
				fmt.Printf("    %-40s %8s → skipped\n", truncKey(it.key, 40), formatBytes(it.inputSize))
				continue
			}
			saved := float64(0)
			if it.inputSize > 0 {
				saved = (1 - float64(it.outputSize)/float64(it.inputSize)) * 100
			}
			fmt.Printf("    %-40s %8s → %8s  (%+.0f%%)\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
				-saved,
			)
		}
		fmt.Println()
	}

	fmt.Printf("  Formats:     %s\n", strings.Join(outputFormats(m), ", "))
	fmt.Println()

	data, _ := json.Marshal(m)
	fmt.Printf("  Manifest:    %s (%s)\n", manifest.FileName, formatBytes(int64(len(data))))
	fmt.Println()
}

// outputFormats lists the pixel formats used, most frequent first.
func outputFormats(m *manifest.Manifest) []string {
	var out []string
	for f := range m.Stats.Formats {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := m.Stats.Formats[out[i]], m.Stats.Formats[out[j]]
		if ci != cj {
			return ci > cj
		}
		return out[i] < out[j]
	})
	for i, f := range out {
		out[i] = fmt.Sprintf("%s×%d", f, m.Stats.Formats[f])
	}
	return out
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return "..." + s[len(s)-limit+3:]
}
