package image

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// ScaleRatio returns the factor applied to both dimensions of a width x
// height image. A positive maxDimension caps the longer side; otherwise the
// ratio is 1/quality. Ratios never exceed 1.
func ScaleRatio(width, height, maxDimension, quality int) float64 {
	if maxDimension > 0 {
		longer := max(width, height)
		if longer > maxDimension {
			return float64(maxDimension) / float64(longer)
		}
		return 1
	}
	if quality <= 1 {
		return 1
	}
	return 1 / float64(quality)
}

// Scale downsizes an image by ScaleRatio. Images that would not shrink are
// returned unchanged. Nearest-neighbour sampling keeps the source colours
// unblended.
func Scale(img image.Image, maxDimension, quality int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return img
	}

	ratio := ScaleRatio(width, height, maxDimension, quality)
	if ratio >= 1 {
		return img
	}

	newWidth := max(int(math.Round(float64(width)*ratio)), 1)
	newHeight := max(int(math.Round(float64(height)*ratio)), 1)

	dst := image.NewNRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
