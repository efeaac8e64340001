//go:build ignore

// gen_fixtures creates small sprite frames for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

const coinSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32" width="32" height="32">
<circle cx="16" cy="16" r="14" fill="#f5c518" stroke="#8a6d00" stroke-width="2"/>
</svg>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "walk"), 0o755)
	os.MkdirAll(filepath.Join(dir, ".cache"), 0o755)

	// Walk cycle (PNG, 12 frames, widths vary so offsets are uneven).
	// Numbered without zero padding to exercise natural ordering.
	for i := 1; i <= 12; i++ {
		name := fmt.Sprintf("walk%d.png", i)
		writeImage(filepath.Join(dir, "walk", name), frame(24+i%3*4, 48, uint8(i*20)))
	}

	// Mixed case names sort together.
	writeImage(filepath.Join(dir, "Icon.png"), alphaDisc(32))
	writeJPEG(filepath.Join(dir, "icon-bg.jpg"), frame(40, 40, 90))

	// Vector input.
	os.WriteFile(filepath.Join(dir, "coin.svg"), []byte(coinSVG), 0o644)

	// Hidden directories are skipped by the scanner.
	writeImage(filepath.Join(dir, ".cache", "stale.png"), frame(8, 8, 0))

	// Not an image: decode fails, the build continues.
	os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o644)

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 17 fixtures in %s\n", dir)
}

// frame is a filled body with a 2px outline, like a placeholder sprite.
func frame(w, h int, base uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: base, G: 255 - base, B: 128, A: 255}
			if x < 2 || x >= w-2 || y < 2 || y >= h-2 {
				c = color.NRGBA{A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// alphaDisc is opaque inside a circle and transparent outside it.
func alphaDisc(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	r := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-r, y-r
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, color.NRGBA{R: 220, G: 60, B: 30, A: 255})
			}
		}
	}
	return img
}

func writeImage(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
}

func writeJPEG(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
		panic(err)
	}
}
