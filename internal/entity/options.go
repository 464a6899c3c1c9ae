package entity

import "fmt"

// ProcessingConfig holds the per-request parameters of the photo pipeline.
type ProcessingConfig struct {
	RemoveBackground bool `json:"remove_background"`
	TargetWidth      int  `json:"target_width"`
	TargetHeight     int  `json:"target_height"`
	TargetSizeKB     int  `json:"target_size_kb"`
}

func (c ProcessingConfig) Validate() error {
	if c.TargetWidth <= 0 || c.TargetHeight <= 0 {
		return fmt.Errorf("%w: target size %dx%d", ErrInvalidOptions, c.TargetWidth, c.TargetHeight)
	}
	if c.TargetSizeKB <= 0 {
		return fmt.Errorf("%w: target file size %dKB", ErrInvalidOptions, c.TargetSizeKB)
	}
	return nil
}

// TargetBytes is the compressed size bound in bytes.
func (c ProcessingConfig) TargetBytes() int {
	return c.TargetSizeKB * 1024
}

// EncodedResult is the final JPEG produced by the pipeline.
type EncodedResult struct {
	Data     []byte `json:"-"`
	Size     int    `json:"size"`
	Quality  int    `json:"quality"`
	Attempts int    `json:"attempts"`
	Fallback bool   `json:"fallback"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}
