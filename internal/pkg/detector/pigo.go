package detector

import (
	"fmt"
	"image"
	"os"

	"github.com/ds124wfegd/pasphoto/internal/entity"
	pigo "github.com/esimov/pigo/core"
)

const (
	shiftFactor  = 0.1
	iouThreshold = 0.2
)

// PigoDetector runs a pigo cascade over the image at every scale.
type PigoDetector struct {
	classifier *pigo.Pigo
}

func NewPigoDetector(cascadePath string) (*PigoDetector, error) {
	data, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("%w: read cascade: %w", entity.ErrDetectorUnavailable, err)
	}
	return NewPigoDetectorFromBytes(data)
}

func NewPigoDetectorFromBytes(data []byte) (det *PigoDetector, err error) {
	// Unpack indexes into the buffer without bounds checks.
	defer func() {
		if r := recover(); r != nil {
			det = nil
			err = fmt.Errorf("%w: malformed cascade: %v", entity.ErrDetectorUnavailable, r)
		}
	}()

	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("%w: unpack cascade: %w", entity.ErrDetectorUnavailable, err)
	}
	return &PigoDetector{classifier: classifier}, nil
}

func (d *PigoDetector) Detect(gray *image.Gray, p Params) ([]image.Rectangle, error) {
	b := gray.Bounds()
	cols, rows := b.Dx(), b.Dy()
	if cols < p.MinSize || rows < p.MinSize {
		return nil, nil
	}

	cp := pigo.CascadeParams{
		MinSize:     p.MinSize,
		MaxSize:     min(rows, cols),
		ShiftFactor: shiftFactor,
		ScaleFactor: p.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: gray.Pix[gray.PixOffset(b.Min.X, b.Min.Y):],
			Rows:   rows,
			Cols:   cols,
			Dim:    gray.Stride,
		},
	}

	raw := d.classifier.RunCascade(cp, 0.0)
	hits := make([]image.Rectangle, 0, len(raw))
	for _, det := range raw {
		half := det.Scale / 2
		hits = append(hits, image.Rect(det.Col-half, det.Row-half, det.Col-half+det.Scale, det.Row-half+det.Scale))
	}

	faces := groupRects(hits, p.MinNeighbors, iouThreshold)
	for i := range faces {
		faces[i] = faces[i].Add(b.Min).Intersect(b)
	}
	return faces, nil
}
