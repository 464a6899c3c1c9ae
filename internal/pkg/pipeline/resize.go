package pipeline

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Resize fits the image inside targetWidth x targetHeight keeping its aspect
// ratio. Images that already fit are returned unchanged; nothing is upscaled.
func Resize(img image.Image, targetWidth, targetHeight int) image.Image {
	b := img.Bounds()
	w, h := fitSize(b.Dx(), b.Dy(), targetWidth, targetHeight)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

func fitSize(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 || (srcW <= maxW && srcH <= maxH) {
		return srcW, srcH
	}

	aspect := float64(srcW) / float64(srcH)
	w, h := maxW, maxH
	if float64(maxW)/float64(maxH) >= aspect {
		w = roundAspect(float64(maxH)*aspect, func(n float64) float64 {
			return math.Abs(aspect - n/float64(maxH))
		})
	} else {
		h = roundAspect(float64(maxW)/aspect, func(n float64) float64 {
			if n == 0 {
				return 0
			}
			return math.Abs(aspect - float64(maxW)/n)
		})
	}
	return w, h
}

// roundAspect picks floor or ceil of v, whichever keeps the aspect ratio
// closer, and never returns less than 1.
func roundAspect(v float64, distance func(float64) float64) int {
	lo, hi := math.Floor(v), math.Ceil(v)
	best := lo
	if distance(hi) < distance(lo) {
		best = hi
	}
	return max(int(best), 1)
}
