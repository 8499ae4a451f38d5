// Test image generator for creating sample images for palette extraction.
//
// Writes testdata/sample.png (six colour bands, one per palette slot) and an
// xz-compressed copy, testdata/sample.png.xz.
package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/ulikunitz/xz"
)

func main() {
	width := 300
	height := 240
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	// One band per slot, largest first so populations differ.
	bands := []struct {
		c      color.NRGBA
		height int
	}{
		{color.NRGBA{R: 220, G: 40, B: 40, A: 255}, 70},   // Vibrant
		{color.NRGBA{R: 120, G: 20, B: 60, A: 255}, 50},   // Dark Vibrant
		{color.NRGBA{R: 250, G: 160, B: 170, A: 255}, 40}, // Light Vibrant
		{color.NRGBA{R: 150, G: 120, B: 110, A: 255}, 35}, // Muted
		{color.NRGBA{R: 50, G: 55, B: 60, A: 255}, 25},    // Dark Muted
		{color.NRGBA{R: 210, G: 200, B: 190, A: 255}, 20}, // Light Muted
	}

	y := 0
	for _, band := range bands {
		for ; y < height && band.height > 0; band.height-- {
			for x := 0; x < width; x++ {
				img.SetNRGBA(x, y, band.c)
			}
			y++
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	if err := os.WriteFile("testdata/sample.png", buf.Bytes(), 0o644); err != nil {
		panic(err)
	}

	out, err := os.Create("testdata/sample.png.xz")
	if err != nil {
		panic(err)
	}
	defer out.Close()

	w, err := xz.NewWriter(out)
	if err != nil {
		panic(err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}

	println("Test images created: testdata/sample.png, testdata/sample.png.xz")
}
