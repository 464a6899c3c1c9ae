package detector

import _ "embed"

// facefinder is the frontal face cascade shipped with pigo.
//
//go:embed cascade/facefinder
var facefinder []byte

// NewDefaultPigoDetector loads the bundled face cascade.
func NewDefaultPigoDetector() (*PigoDetector, error) {
	return NewPigoDetectorFromBytes(facefinder)
}
