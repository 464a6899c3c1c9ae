package pipeline

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/pasphoto/internal/entity"
)

const (
	startQuality    = 95
	minQuality      = 10
	qualityStep     = 5
	fallbackQuality = 50
	fallbackScale   = 0.9
)

// Compress encodes the image as JPEG, lowering the quality from 95 in steps
// of 5 while it stays above 10 until the output fits targetSizeKB. If no
// quality fits, the image is downscaled to 90% and encoded once at quality
// 50; that result is returned without checking its size.
func Compress(img image.Image, targetSizeKB int) (*entity.EncodedResult, error) {
	src := flatten(img)
	target := targetSizeKB * 1024

	attempts := 0
	for q := startQuality; q > minQuality; q -= qualityStep {
		data, err := encodeJPEG(src, q)
		if err != nil {
			return nil, err
		}
		attempts++
		if len(data) <= target {
			return newResult(data, src, q, attempts, false), nil
		}
	}

	b := src.Bounds()
	w := max(int(float64(b.Dx())*fallbackScale), 1)
	h := max(int(float64(b.Dy())*fallbackScale), 1)
	scaled := imaging.Resize(src, w, h, imaging.Lanczos)

	data, err := encodeJPEG(scaled, fallbackQuality)
	if err != nil {
		return nil, err
	}
	attempts++
	return newResult(data, scaled, fallbackQuality, attempts, true), nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg at quality %d: %w", quality, err)
	}
	return buf.Bytes(), nil
}

func newResult(data []byte, img image.Image, quality, attempts int, fallback bool) *entity.EncodedResult {
	b := img.Bounds()
	return &entity.EncodedResult{
		Data:     data,
		Size:     len(data),
		Quality:  quality,
		Attempts: attempts,
		Fallback: fallback,
		Width:    b.Dx(),
		Height:   b.Dy(),
	}
}
