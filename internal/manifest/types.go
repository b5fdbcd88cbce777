package manifest

// Manifest is the top-level output of a pngcore build.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BasePath    string           `json:"base_path"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Assets      map[string]Asset `json:"assets"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures build-time parameters for diagnostics.
type BuildInfo struct {
	Workers   int  `json:"workers"`
	Level     int  `json:"level"`
	ChunkSize int  `json:"chunk_size"`
	Interlace bool `json:"interlace"`
}

// Asset describes one source image and its re-encoded PNG.
type Asset struct {
	Original OriginalInfo `json:"original"`
	Output   *Output      `json:"output,omitempty"` // nil when skipped
}

// OriginalInfo holds metadata about the source image.
type OriginalInfo struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`           // container: png, jpeg, webp, ...
	Pixel    string `json:"pixel,omitempty"` // PNG sources only: rgb8, indexed4, ...
	Size     int64  `json:"size"`
	HasAlpha bool   `json:"has_alpha"`
}

// Output is the encoded PNG of an asset.
type Output struct {
	Format     string `json:"format"` // pixel format name
	Interlaced bool   `json:"interlaced"`
	Size       int64  `json:"size"`       // bytes on disk
	Hash       string `json:"hash"`       // first 16 hex chars of xxhash64 of the file
	PixelHash  string `json:"pixel_hash"` // xxhash64 of the canonical pixels
	Verified   bool   `json:"verified,omitempty"`
	Path       string `json:"path"` // relative to base_path
}

// Stats aggregates build metrics.
type Stats struct {
	TotalInputBytes  int64          `json:"total_input_bytes"`
	TotalOutputBytes int64          `json:"total_output_bytes"`
	TotalAssets      int            `json:"total_assets"`
	TotalOutputs     int            `json:"total_outputs"`
	Verified         int            `json:"verified,omitempty"`
	Formats          map[string]int `json:"formats,omitempty"`         // outputs per pixel format
	SkippedRegress   int            `json:"skipped_regress,omitempty"` // outputs skipped (not smaller than original)
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
