package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/pasphoto/internal/entity"
	"github.com/ds124wfegd/pasphoto/internal/pkg/segmenter"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultCanvas is the colour the foreground is composited on.
var DefaultCanvas color.Color = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// ParseCanvasColor parses a "#rrggbb" colour for the background canvas.
func ParseCanvasColor(hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("parse canvas color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// RemoveBackground segments the foreground and composites it onto a solid
// canvas of the segmented image's size. When remove is false the input is
// returned as is.
func RemoveBackground(ctx context.Context, img image.Image, seg segmenter.Segmenter, remove bool, canvas color.Color) (image.Image, error) {
	if !remove {
		return img, nil
	}
	if seg == nil {
		return nil, fmt.Errorf("%w: no segmenter configured", entity.ErrSegmentation)
	}
	if canvas == nil {
		canvas = DefaultCanvas
	}

	fg, err := seg.Segment(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrSegmentation, err)
	}

	// Alpha is the blend mask; an opaque result is pasted at full opacity.
	size := fg.Bounds().Size()
	bg := imaging.New(size.X, size.Y, canvas)
	return flatten(imaging.Overlay(bg, fg, image.Pt(0, 0), 1.0)), nil
}
