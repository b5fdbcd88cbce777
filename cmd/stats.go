package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/leo-lp/png/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a built output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path := args[0]

	// If path is a directory, look for manifest inside.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, manifest.FileName)
	}

	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}
	printStats(m)
	return nil
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	fmt.Printf("  Profile:          %s\n", m.Profile)
	if bi := m.BuildInfo; bi != nil {
		fmt.Printf("  Workers:          %d\n", bi.Workers)
		fmt.Printf("  Level:            %d\n", bi.Level)
		fmt.Printf("  IDAT chunk size:  %s\n", formatBytes(int64(bi.ChunkSize)))
		fmt.Printf("  Interlace:        %t\n", bi.Interlace)
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Total assets:     %d\n", s.TotalAssets)
	fmt.Printf("  Total outputs:    %d\n", s.TotalOutputs)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Printf("  Compression:      %.1f%% of original\n", ratio)
	}
	fmt.Println()

	// Per pixel format breakdown.
	type formatStat struct {
		count int
		bytes int64
	}
	byFormat := map[string]formatStat{}
	bySource := map[string]int{}
	interlaced := 0
	for _, a := range m.Assets {
		bySource[a.Original.Format]++
		if a.Output == nil {
			continue
		}
		fs := byFormat[a.Output.Format]
		fs.count++
		fs.bytes += a.Output.Size
		byFormat[a.Output.Format] = fs
		if a.Output.Interlaced {
			interlaced++
		}
	}

	fmt.Println("  Pixel formats:")
	for _, f := range sortedKeys(byFormat) {
		fs := byFormat[f]
		fmt.Printf("    %-12s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
	}
	fmt.Println()

	fmt.Println("  Sources:")
	for _, f := range sortedKeys(bySource) {
		fmt.Printf("    %-12s  %4d files\n", f, bySource[f])
	}
	fmt.Println()

	fmt.Printf("  Interlaced:       %d / %d outputs\n", interlaced, s.TotalOutputs)
	fmt.Printf("  Verified:         %d / %d outputs\n", s.Verified, s.TotalOutputs)

	// Warnings.
	var warnings []string
	for _, key := range sortedKeys(m.Assets) {
		a := m.Assets[key]
		if a.Output == nil {
			warnings = append(warnings, fmt.Sprintf("asset %q has no output", key))
			continue
		}
		if a.Output.PixelHash == "" {
			warnings = append(warnings, fmt.Sprintf("asset %q missing pixel hash", key))
		}
	}
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
