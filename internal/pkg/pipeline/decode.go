package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/pasphoto/internal/entity"
)

// Decode reads a JPEG or PNG upload. Other formats registered in the
// process (gif, bmp, tiff) are rejected.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, entity.ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrDecodeImage, err)
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDecodeImage, err)
	}
	return img, nil
}

// flatten drops the alpha channel, keeping the straight colour values.
func flatten(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	if dst.Opaque() {
		return dst
	}
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
