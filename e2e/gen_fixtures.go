//go:build ignore

// gen_fixtures creates small input images for the build smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "icons"), 0o755)

	// Photo-like gradient: rgb8.
	write(filepath.Join(dir, "banner.jpg"), gradient(400, 225), func(w io.Writer, m image.Image) error {
		return jpeg.Encode(w, m, &jpeg.Options{Quality: 90})
	})

	// Few colors: indexed1/2/4.
	for i, n := range []int{2, 4, 16} {
		name := fmt.Sprintf("icon-%d.png", i+1)
		write(filepath.Join(dir, "icons", name), stripes(64, 64, n), png.Encode)
	}

	// Translucent: rgba8.
	write(filepath.Join(dir, "logo.png"), alphaGradient(100, 100), png.Encode)

	// 16-bit gray, which the standard decoder path would flatten.
	write(filepath.Join(dir, "depth.png"), gray16(128, 32), png.Encode)

	write(filepath.Join(dir, "scan.bmp"), gradient(50, 40), bmp.Encode)
	write(filepath.Join(dir, "scan.tiff"), stripes(33, 17, 3), func(w io.Writer, m image.Image) error {
		return tiff.Encode(w, m, nil)
	})

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 8 fixtures in %s\n", dir)
}

func write(path string, img image.Image, enc func(io.Writer, image.Image) error) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := enc(f, img); err != nil {
		panic(err)
	}
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

// stripes uses n distinct opaque colors.
func stripes(w, h, n int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			k := uint8((x / 4) % n)
			img.SetNRGBA(x, y, color.NRGBA{R: k * 15, G: 200 - k*10, B: k * 7, A: 255})
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func gray16(w, h int) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray16(x, y, color.Gray16{Y: uint16(x*511 + y)})
		}
	}
	return img
}
