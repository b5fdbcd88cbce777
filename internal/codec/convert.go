package codec

import (
	"fmt"
	"image"
	"image/color"

	"github.com/leo-lp/png/internal/format"
	"github.com/leo-lp/png/internal/sample"
)

// NRGBA64 converts the image to a standard library image with 16-bit
// non-premultiplied samples.
func (m *Image) NRGBA64() (*image.NRGBA64, error) {
	px, err := m.Pixels()
	if err != nil {
		return nil, err
	}
	out := image.NewNRGBA64(image.Rect(0, 0, m.Width, m.Height))
	for i, c := range px {
		o := out.Pix[8*i : 8*i+8]
		o[0], o[1] = uint8(c.R>>8), uint8(c.R)
		o[2], o[3] = uint8(c.G>>8), uint8(c.G)
		o[4], o[5] = uint8(c.B>>8), uint8(c.B)
		o[6], o[7] = uint8(c.A>>8), uint8(c.A)
	}
	return out, nil
}

// canonical reads every pixel of src as a canonical color, row-major.
func canonical(src image.Image) []sample.RGBA16 {
	b := src.Bounds()
	out := make([]sample.RGBA16, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, toRGBA16(src.At(x, y)))
		}
	}
	return out
}

// toRGBA16 keeps non-premultiplied colors exact; other models go through
// the premultiplied conversion.
func toRGBA16(c color.Color) sample.RGBA16 {
	switch c := c.(type) {
	case color.NRGBA:
		return sample.RGBA8{R: c.R, G: c.G, B: c.B, A: c.A}.Widen()
	case color.NRGBA64:
		return sample.RGBA16{R: c.R, G: c.G, B: c.B, A: c.A}
	}
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return sample.RGBA16{R: n.R, G: n.G, B: n.B, A: n.A}
}

// FromImage converts src into a non-interlaced image of format f. Samples
// are narrowed to the format's depth; indexed formats get a palette built
// by Index.
func FromImage(src image.Image, f format.Format) (*Image, error) {
	px := canonical(src)
	var pal sample.Palette
	if f.IsIndexed() {
		var err error
		if pal, err = Index(px, f.Depth()); err != nil {
			return nil, err
		}
	}
	if !f.HasColor() && !f.IsIndexed() {
		for i, c := range px {
			px[i].R = gray(c)
		}
	}
	b := src.Bounds()
	return FromPixels(f, b.Dx(), b.Dy(), px, pal)
}

// gray is the luma of c, in the Rec. 601 weights the standard library's
// gray color model uses.
func gray(c sample.RGBA16) uint16 {
	if c.R == c.G && c.G == c.B {
		return c.R
	}
	y := (19595*uint32(c.R) + 38470*uint32(c.G) + 7471*uint32(c.B) + 1<<15) >> 16
	return uint16(y)
}

// Index builds a palette holding the distinct 8-bit narrowings of px in
// first-seen order. It fails when more than 2^depth colors are present.
func Index(px []sample.RGBA16, depth int) (sample.Palette, error) {
	limit := 1 << depth
	seen := make(map[sample.RGBA8]bool)
	var pal sample.Palette
	for _, c := range px {
		n := c.Narrow()
		if seen[n] {
			continue
		}
		if len(pal) == limit {
			return nil, fmt.Errorf("more than %d colors for a %d-bit palette", limit, depth)
		}
		seen[n] = true
		pal = append(pal, n)
	}
	if pal == nil {
		pal = sample.Palette{}
	}
	return pal, nil
}

// Choose picks the smallest format that stores src without loss.
func Choose(src image.Image) format.Format {
	return choose(canonical(src))
}

func choose(px []sample.RGBA16) format.Format {
	grayscale, opaque, wide := true, true, false
	colors := make(map[sample.RGBA16]struct{})
	for _, c := range px {
		if c.R != c.G || c.G != c.B {
			grayscale = false
		}
		if c.A != 0xffff {
			opaque = false
		}
		if !exact(c.R, 8) || !exact(c.G, 8) || !exact(c.B, 8) || !exact(c.A, 8) {
			wide = true
		}
		if len(colors) <= 256 {
			colors[c] = struct{}{}
		}
	}
	switch {
	case wide && grayscale && opaque:
		return format.Gray16
	case wide && grayscale:
		return format.GrayAlpha16
	case wide && opaque:
		return format.RGB16
	case wide:
		return format.RGBA16
	case grayscale && opaque:
		for _, f := range []format.Format{format.Gray1, format.Gray2, format.Gray4} {
			if allExact(px, f.Depth()) {
				return f
			}
		}
		return format.Gray8
	}
	if n := len(colors); n <= 256 {
		for _, f := range []format.Format{format.Indexed1, format.Indexed2, format.Indexed4, format.Indexed8} {
			if n <= 1<<f.Depth() {
				return f
			}
		}
	}
	switch {
	case grayscale:
		return format.GrayAlpha8
	case opaque:
		return format.RGB8
	default:
		return format.RGBA8
	}
}

// exact reports whether v survives narrowing to depth bits and widening back.
func exact(v uint16, depth int) bool {
	return sample.Widen(sample.Narrow(v, depth), depth) == v
}

func allExact(px []sample.RGBA16, depth int) bool {
	for _, c := range px {
		if !exact(c.R, depth) {
			return false
		}
	}
	return true
}
