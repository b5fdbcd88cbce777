package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/leo-lp/png/internal/manifest"
	"github.com/leo-lp/png/internal/profile"
	"github.com/leo-lp/png/internal/source"
)

// Config holds all parameters for a build pipeline run.
type Config struct {
	InputDir      string
	OutputDir     string
	Profile       profile.Profile
	Workers       int
	Verbose       bool
	NoRegressSize bool // skip outputs not smaller than the original
	Verify        bool // decode every output and compare pixel hashes
}

// Pipeline re-encodes a directory of images as PNG.
type Pipeline struct {
	cfg      Config
	registry *source.Registry
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Pipeline{
		cfg:      cfg,
		registry: source.NewRegistry(),
	}
}

// Run executes the full build pipeline and returns the manifest.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[pngcore] %s\n", p.registry.String())
	}

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir, p.registry)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}

	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[pngcore] found %d images\n", len(sources))
	}

	// Step 2: Process images in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if p.cfg.Verbose {
				fmt.Fprintf(os.Stderr, "[pngcore] processing: %s\n", s.Key)
			}

			results[idx] = processImage(s, p.cfg)

			if r := results[idx]; p.cfg.Verbose && r.err == nil && r.asset.Output != nil {
				fmt.Fprintf(os.Stderr, "[pngcore] done: %s (%s, %d bytes)\n",
					s.Key, r.asset.Output.Format, r.asset.Output.Size)
			}
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Profile.Name)

	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		m.Assets[r.key] = r.asset
		if r.skippedRegress {
			m.Stats.SkippedRegress++
		}
	}

	// Partial failures are reported but do not fail the build.
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[pngcore] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", len(errs))
		}
		fmt.Fprintf(os.Stderr, "[pngcore] warning: %d of %d images had errors\n",
			len(errs), len(sources))
	}

	m.BuildInfo = &manifest.BuildInfo{
		Workers:   p.cfg.Workers,
		Level:     p.cfg.Profile.Level,
		ChunkSize: p.cfg.Profile.ChunkSize,
		Interlace: p.cfg.Profile.Interlace,
	}
	m.ComputeStats()
	return m, nil
}
