package pipeline

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/pasphoto/internal/pkg/detector"
)

const faceCropScale = 1.5

// CenterFace crops a square of 1.5x the face size around the first face the
// detector reports. Without a face the input is returned unchanged.
func CenterFace(img image.Image, det detector.FaceDetector) (image.Image, error) {
	if det == nil {
		return img, nil
	}

	faces, err := det.Detect(toGray(img), detector.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}
	if len(faces) == 0 {
		return img, nil
	}

	bounds := img.Bounds()
	rect := faceCrop(faces[0], bounds.Dx(), bounds.Dy())
	if rect.Empty() {
		return img, nil
	}
	return imaging.Crop(img, rect.Add(bounds.Min)), nil
}

// faceCrop clamps the crop to the image, so near the edges it may end up
// non-square with the face off centre.
func faceCrop(face image.Rectangle, width, height int) image.Rectangle {
	w, h := face.Dx(), face.Dy()
	cx := face.Min.X + w/2
	cy := face.Min.Y + h/2
	half := int(float64(max(w, h))*faceCropScale) / 2

	return image.Rect(
		max(cx-half, 0),
		max(cy-half, 0),
		min(cx+half, width),
		min(cy+half, height),
	)
}

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}
