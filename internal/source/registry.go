package source

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps file extensions to decoders.
type Registry struct {
	decoders []Decoder
	byExt    map[string]Decoder
}

// NewRegistry creates a registry with every supported input format.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Decoder)}

	all := []Decoder{
		&PNGDecoder{},
		&RasterDecoder{format: "jpeg", exts: []string{".jpg", ".jpeg"}},
		&RasterDecoder{format: "gif", exts: []string{".gif"}},
		&RasterDecoder{format: "bmp", exts: []string{".bmp"}},
		&RasterDecoder{format: "tiff", exts: []string{".tif", ".tiff"}},
		&RasterDecoder{format: "webp", exts: []string{".webp"}},
	}
	for _, d := range all {
		r.decoders = append(r.decoders, d)
		for _, ext := range d.Extensions() {
			r.byExt[ext] = d
		}
	}
	return r
}

// Get returns the decoder for a file extension, or nil if unsupported.
func (r *Registry) Get(ext string) Decoder {
	return r.byExt[strings.ToLower(ext)]
}

// Extensions returns every recognized extension, sorted.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// String returns a summary of the input formats.
func (r *Registry) String() string {
	names := make([]string, len(r.decoders))
	for i, d := range r.decoders {
		names[i] = d.Format()
	}
	return fmt.Sprintf("inputs: %s", strings.Join(names, ", "))
}
