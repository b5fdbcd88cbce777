package format

// Shape is the byte geometry of one (sub-)image.
type Shape struct {
	Width, Height int
	Pitch         int // bytes per scanline, without the filter byte
}

// ShapeOf computes the shape of a width×height image in format f.
func ShapeOf(f Format, width, height int) Shape {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	bits := uint64(width) * uint64(f.Volume())
	return Shape{Width: width, Height: height, Pitch: int((bits + 7) >> 3)}
}

// ByteCount is the size of the unfiltered pixel data.
func (s Shape) ByteCount() int { return s.Pitch * s.Height }

// Empty reports whether the shape has no scanlines to code.
func (s Shape) Empty() bool { return s.Pitch == 0 || s.Height == 0 }

// Point is a 2-D integer coordinate or offset.
type Point struct{ X, Y int }

// adam7 holds the (base offset, step exponent) pair of each pass.
var adam7 = [7]struct{ base, exp Point }{
	{Point{0, 0}, Point{3, 3}},
	{Point{4, 0}, Point{3, 3}},
	{Point{0, 4}, Point{2, 3}},
	{Point{2, 0}, Point{2, 2}},
	{Point{0, 2}, Point{1, 2}},
	{Point{1, 0}, Point{1, 1}},
	{Point{0, 1}, Point{0, 1}},
}

// SubImage is one Adam7 pass: its own shape plus the strider mapping its
// coordinates back onto the full image.
type SubImage struct {
	Pass   int
	Shape  Shape
	Origin Point // full-image coordinate of sub-image pixel (0, 0)
	Exp    Point // log2 of the step between sub-image pixels
}

// At maps sub-image coordinates to full-image coordinates.
func (s SubImage) At(x, y int) (int, int) {
	return s.Origin.X + x<<s.Exp.X, s.Origin.Y + y<<s.Exp.Y
}

// Adam7 computes the seven passes of a width×height image. Degenerate
// passes are present with an empty shape.
func Adam7(f Format, width, height int) [7]SubImage {
	var out [7]SubImage
	for i, p := range adam7 {
		w := (width + 1<<p.exp.X - p.base.X - 1) >> p.exp.X
		h := (height + 1<<p.exp.Y - p.base.Y - 1) >> p.exp.Y
		out[i] = SubImage{
			Pass:   i,
			Shape:  ShapeOf(f, w, h),
			Origin: p.base,
			Exp:    p.exp,
		}
	}
	return out
}

// Layout is the complete scanline geometry of an image: the full-image
// shape plus, when interlaced, the Adam7 sub-images.
type Layout struct {
	Format     Format
	Shape      Shape
	Interlaced bool
	SubImages  []SubImage
}

// NewLayout derives the layout for an image.
func NewLayout(f Format, width, height int, interlaced bool) Layout {
	l := Layout{Format: f, Shape: ShapeOf(f, width, height), Interlaced: interlaced}
	if interlaced {
		passes := Adam7(f, width, height)
		l.SubImages = passes[:]
	}
	return l
}

// Passes returns the sub-images coded in the stream, in order. A
// non-interlaced layout has a single pass covering the full image.
func (l Layout) Passes() []SubImage {
	if l.Interlaced {
		return l.SubImages
	}
	return []SubImage{{Shape: l.Shape}}
}

// ByteCount is the total unfiltered byte count across all passes.
func (l Layout) ByteCount() int {
	n := 0
	for _, p := range l.Passes() {
		n += p.Shape.ByteCount()
	}
	return n
}

// Range is a half-open byte interval.
type Range struct{ Lo, Hi int }

// Ranges returns the byte range each pass occupies in the concatenated
// unfiltered pass data.
func (l Layout) Ranges() []Range {
	passes := l.Passes()
	out := make([]Range, len(passes))
	acc := 0
	for i, p := range passes {
		out[i] = Range{acc, acc + p.Shape.ByteCount()}
		acc = out[i].Hi
	}
	return out
}

// Pitches walks the scanlines of a layout in stream order.
type Pitches struct {
	passes []SubImage
	pass   int
	left   int
}

// Pitches returns an iterator over every coded scanline of the layout.
func (l Layout) Pitches() *Pitches {
	return &Pitches{passes: l.Passes(), pass: -1}
}

// Next advances to the next scanline. It returns the scanline pitch, the
// pass it belongs to, and whether it starts that pass, in which case the
// reference scanline resets to zeros. ok is false once every scanline has
// been visited. Empty passes are skipped.
func (p *Pitches) Next() (pitch, pass int, first, ok bool) {
	for p.left == 0 {
		p.pass++
		if p.pass >= len(p.passes) {
			return 0, 0, false, false
		}
		if s := p.passes[p.pass].Shape; !s.Empty() {
			p.left = s.Height
			first = true
		}
	}
	p.left--
	return p.passes[p.pass].Shape.Pitch, p.pass, first, true
}
