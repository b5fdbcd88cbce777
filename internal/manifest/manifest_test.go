package manifest

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestManifestRoundtrip(t *testing.T) {
	m := New("test-profile")
	m.BuildInfo = &BuildInfo{Workers: 4, Level: 9, ChunkSize: 65536, Interlace: true}
	m.Assets["test/image"] = Asset{
		Original: OriginalInfo{
			Width: 800, Height: 600,
			Format: "jpeg", Size: 100000, HasAlpha: false,
		},
		Output: &Output{
			Format: "rgb8", Interlaced: true, Size: 5000,
			Hash: "abcd1234abcd1234", PixelHash: "0011223344556677", Verified: true,
			Path: "test/image.800.600.abcd1234.png",
		},
	}
	m.Assets["test/skipped"] = Asset{Original: OriginalInfo{Width: 1, Height: 1, Format: "png", Pixel: "gray1", Size: 67}}
	m.Stats.SkippedRegress = 1

	// Write to temp file.
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := WriteJSON(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	m2, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff(m, m2); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}

	want := Stats{
		TotalInputBytes:  100067,
		TotalOutputBytes: 5000,
		TotalAssets:      2,
		TotalOutputs:     1,
		Verified:         1,
		Formats:          map[string]int{"rgb8": 1},
		SkippedRegress:   1,
	}
	if diff := cmp.Diff(want, m2.Stats); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}
}

func TestManifestVersion(t *testing.T) {
	m := New("v-test")
	if m.Version != SupportedManifestVersion {
		t.Errorf("new manifest version: got %d, want %d", m.Version, SupportedManifestVersion)
	}
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	// Simulate a future manifest with extra fields.
	raw := `{
		"version": 1,
		"generated_at": "2026-01-01T00:00:00Z",
		"profile": "test",
		"base_path": "./",
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "level": 6, "new_flag": true },
		"assets": {},
		"stats": { "total_input_bytes": 0, "total_output_bytes": 0, "total_assets": 0, "total_outputs": 0, "new_stat": 42 }
	}`

	var m Manifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if m.Version != 1 {
		t.Errorf("version: got %d", m.Version)
	}
	if m.BuildInfo == nil || m.BuildInfo.Workers != 8 {
		t.Error("build_info not parsed correctly")
	}
}
