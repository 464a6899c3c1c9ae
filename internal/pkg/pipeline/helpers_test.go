package pipeline

import (
	"context"
	"image"
	"image/color"
	"math/rand"
	"sync"

	"github.com/ds124wfegd/pasphoto/internal/pkg/detector"
)

type fakeSegmenter struct {
	fn    func(img image.Image) (image.Image, error)
	calls int
}

func (f *fakeSegmenter) Segment(_ context.Context, img image.Image) (image.Image, error) {
	f.calls++
	return f.fn(img)
}

type fakeDetector struct {
	mu     sync.Mutex
	faces  []image.Rectangle
	err    error
	params []detector.Params
	sizes  []image.Point
}

func (f *fakeDetector) Detect(gray *image.Gray, p detector.Params) ([]image.Rectangle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = append(f.params, p)
	f.sizes = append(f.sizes, gray.Bounds().Size())
	return f.faces, f.err
}

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func gradientImage(w, h int) *image.NRGBA {
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

func noiseImage(w, h int, seed int64) *image.NRGBA {
	rnd := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	rnd.Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}
