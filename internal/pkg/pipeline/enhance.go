package pipeline

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/fcolor"
	"github.com/disintegration/imaging"
)

const (
	brightnessFactor = 1.1
	contrastFactor   = 1.2
	sharpnessFactor  = 1.5
)

// Enhance applies brightness, contrast and sharpness in that order; each
// step reads the output of the previous one.
func Enhance(img image.Image) image.Image {
	out := adjustBrightness(imaging.Clone(img), brightnessFactor)
	out = adjustContrast(out, contrastFactor)
	return adjustSharpness(out, sharpnessFactor)
}

func adjustBrightness(img image.Image, factor float64) *image.RGBA {
	return adjust.Brightness(img, factor-1)
}

// adjustContrast scales every channel away from the mean luminance.
func adjustContrast(img *image.RGBA, factor float64) *image.RGBA {
	mean := math.Floor(meanLuminance(img) + 0.5)

	var lut [256]uint8
	for i := range lut {
		lut[i] = clamp8(mean + factor*(float64(i)-mean))
	}

	return adjust.Apply(img, func(c color.RGBA) color.RGBA {
		return color.RGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})
}

// adjustSharpness extrapolates from a smoothed copy towards the image.
func adjustSharpness(img *image.RGBA, factor float64) *image.RGBA {
	kernel := convolution.NewKernel(3, 3)
	kernel.Matrix = []float64{
		1, 1, 1,
		1, 5, 1,
		1, 1, 1,
	}
	smooth := convolution.Convolve(img, kernel.Normalized(), &convolution.Options{Bias: 0.5, KeepAlpha: true})

	return blend.Blend(smooth, img, func(s, c fcolor.RGBAF64) fcolor.RGBAF64 {
		return fcolor.RGBAF64{
			R: s.R + factor*(c.R-s.R) + halfStep,
			G: s.G + factor*(c.G-s.G) + halfStep,
			B: s.B + factor*(c.B-s.B) + halfStep,
			A: c.A,
		}
	})
}

// halfStep turns the truncation in blend.Blend into rounding.
const halfStep = 0.5 / 255

// meanLuminance is the average ITU-R 601 luma of an RGBA image.
func meanLuminance(img *image.RGBA) float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	var sum int64
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			sum += (int64(row[i])*299 + int64(row[i+1])*587 + int64(row[i+2])*114) / 1000
		}
	}
	return float64(sum) / float64(w*h)
}

func clamp8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
