package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// FileName is the manifest name inside a build output directory.
const FileName = "pngcore.manifest.json"

// New creates an empty manifest with defaults.
func New(profileName string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		BasePath:    "./",
		Assets:      make(map[string]Asset),
	}
}

// ComputeStats recalculates aggregate statistics from assets. The skip
// count is not derivable from assets and is kept.
func (m *Manifest) ComputeStats() {
	s := Stats{SkippedRegress: m.Stats.SkippedRegress}
	s.TotalAssets = len(m.Assets)
	for _, a := range m.Assets {
		s.TotalInputBytes += a.Original.Size
		if a.Output == nil {
			continue
		}
		s.TotalOutputs++
		s.TotalOutputBytes += a.Output.Size
		if a.Output.Verified {
			s.Verified++
		}
		if s.Formats == nil {
			s.Formats = make(map[string]int)
		}
		s.Formats[a.Output.Format]++
	}
	m.Stats = s
}

// WriteJSON serializes the manifest to a JSON file with stable ordering.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a manifest written by WriteJSON.
func ReadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
