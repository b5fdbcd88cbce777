package profile

import (
	"fmt"
	"image"

	"github.com/leo-lp/png/internal/codec"
	"github.com/leo-lp/png/internal/format"
)

// Auto selects the smallest lossless pixel format per image.
const Auto = "auto"

// Profile defines PNG encoding parameters.
type Profile struct {
	Name      string
	Level     int    // zlib level 1-9
	Interlace bool   // Adam7
	ChunkSize int    // IDAT payload bound in bytes
	Format    string // pixel format name, or Auto
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:      "default",
		Level:     6,
		ChunkSize: 64 << 10,
		Format:    Auto,
	},
	"fast": {
		Name:      "fast",
		Level:     1,
		ChunkSize: 64 << 10,
		Format:    Auto,
	},
	"best": {
		Name:      "best",
		Level:     9,
		ChunkSize: 64 << 10,
		Format:    Auto,
	},
	"progressive": {
		Name:      "progressive",
		Level:     6,
		Interlace: true,
		ChunkSize: 64 << 10,
		Format:    Auto,
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["default"]
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in profiles.
func Names() []string {
	return []string{"default", "fast", "best", "progressive"}
}

// Options returns the codec options of the profile.
func (p Profile) Options() codec.Options {
	return codec.Options{Level: p.Level, ChunkSize: p.ChunkSize}
}

// FormatFor resolves the pixel format an image is encoded with.
func (p Profile) FormatFor(img image.Image) (format.Format, error) {
	if p.Format == "" || p.Format == Auto {
		return codec.Choose(img), nil
	}
	f, err := format.Parse(p.Format)
	if err != nil {
		return format.Invalid, fmt.Errorf("profile %s: %w", p.Name, err)
	}
	return f, nil
}
