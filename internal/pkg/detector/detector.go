// Package detector finds faces in grayscale images.
package detector

import (
	"errors"
	"fmt"
	"image"

	"github.com/ds124wfegd/pasphoto/internal/entity"
)

// Params tunes a detection pass.
type Params struct {
	// ScaleFactor is the growth of the search window between scales.
	ScaleFactor float64
	// MinNeighbors is how many overlapping raw hits a face needs to be kept.
	MinNeighbors int
	// MinSize is the smallest face side in pixels.
	MinSize int
}

// DefaultParams are the parameters used by the face centring stage.
var DefaultParams = Params{
	ScaleFactor:  1.1,
	MinNeighbors: 5,
	MinSize:      30,
}

// FaceDetector returns face rectangles in gray's coordinate space, in
// detector order.
type FaceDetector interface {
	Detect(gray *image.Gray, p Params) ([]image.Rectangle, error)
}

type unavailable struct {
	err error
}

// Unavailable returns a detector that fails every call with err. It stands in
// when the cascade could not be loaded at startup.
func Unavailable(err error) FaceDetector {
	return unavailable{err: err}
}

func (u unavailable) Detect(*image.Gray, Params) ([]image.Rectangle, error) {
	if errors.Is(u.err, entity.ErrDetectorUnavailable) {
		return nil, u.err
	}
	return nil, fmt.Errorf("%w: %w", entity.ErrDetectorUnavailable, u.err)
}
