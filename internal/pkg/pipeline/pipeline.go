// Package pipeline turns an uploaded photo into a size-bounded JPEG: optional
// background removal, face-centred crop, enhancement, bounding-box resize and
// quality-stepped compression, run as one forward pass.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"

	"github.com/ds124wfegd/pasphoto/internal/entity"
	"github.com/ds124wfegd/pasphoto/internal/pkg/detector"
	"github.com/ds124wfegd/pasphoto/internal/pkg/segmenter"
	"github.com/sirupsen/logrus"
)

// Pipeline holds only immutable collaborators, so one value can serve
// concurrent requests; every Run owns its image buffers.
type Pipeline struct {
	segmenter segmenter.Segmenter
	detector  detector.FaceDetector
	canvas    color.Color
}

func New(seg segmenter.Segmenter, det detector.FaceDetector, canvas color.Color) *Pipeline {
	if canvas == nil {
		canvas = DefaultCanvas
	}
	return &Pipeline{
		segmenter: seg,
		detector:  det,
		canvas:    canvas,
	}
}

// Process decodes a JPEG or PNG upload and runs it through the pipeline.
func (p *Pipeline) Process(ctx context.Context, r io.Reader, cfg entity.ProcessingConfig) (*entity.EncodedResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	img, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, img, cfg)
}

func (p *Pipeline) Run(ctx context.Context, img image.Image, cfg entity.ProcessingConfig) (*entity.EncodedResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	log := logrus.WithFields(logrus.Fields{
		"remove_background": cfg.RemoveBackground,
		"target_width":      cfg.TargetWidth,
		"target_height":     cfg.TargetHeight,
		"target_size_kb":    cfg.TargetSizeKB,
	})

	var (
		current image.Image = flatten(img)
		err     error
	)

	current, err = p.stage(log, "background", func() (image.Image, error) {
		return RemoveBackground(ctx, current, p.segmenter, cfg.RemoveBackground, p.canvas)
	})
	if err != nil {
		return nil, err
	}

	current, err = p.stage(log, "face_center", func() (image.Image, error) {
		return CenterFace(current, p.detector)
	})
	if err != nil {
		return nil, err
	}

	current, _ = p.stage(log, "enhance", func() (image.Image, error) {
		return Enhance(current), nil
	})

	current, _ = p.stage(log, "resize", func() (image.Image, error) {
		return Resize(current, cfg.TargetWidth, cfg.TargetHeight), nil
	})

	result, err := Compress(current, cfg.TargetSizeKB)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	log.WithFields(logrus.Fields{
		"width":    result.Width,
		"height":   result.Height,
		"bytes":    result.Size,
		"quality":  result.Quality,
		"attempts": result.Attempts,
		"fallback": result.Fallback,
		"duration": time.Since(start),
	}).Info("Photo processed")

	return result, nil
}

func (p *Pipeline) stage(log *logrus.Entry, name string, fn func() (image.Image, error)) (image.Image, error) {
	start := time.Now()
	out, err := fn()
	if err != nil {
		log.WithError(err).WithField("stage", name).Error("Pipeline stage failed")
		return nil, err
	}

	b := out.Bounds()
	log.WithFields(logrus.Fields{
		"stage":    name,
		"width":    b.Dx(),
		"height":   b.Dy(),
		"duration": time.Since(start),
	}).Debug("Pipeline stage done")
	return out, nil
}
