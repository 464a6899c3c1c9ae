package entity

import "errors"

var (
	// Pipeline errors
	ErrInvalidOptions      = errors.New("invalid processing options")
	ErrUnsupportedFormat   = errors.New("unsupported image format")
	ErrDecodeImage         = errors.New("failed to decode image")
	ErrSegmentation        = errors.New("background segmentation failed")
	ErrDetectorUnavailable = errors.New("face detector unavailable")

	// Job errors
	ErrJobNotFound    = errors.New("job not found")
	ErrResultNotReady = errors.New("job result not ready")
)
