// Package segmenter separates the foreground of a photo from its background.
package segmenter

import (
	"context"
	"image"
)

// Segmenter returns an image whose alpha channel encodes foreground
// confidence: 255 is foreground, 0 is background.
type Segmenter interface {
	Segment(ctx context.Context, img image.Image) (image.Image, error)
}
