package detector

import (
	"errors"
	"image"
	"image/draw"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/pasphoto/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleFace = image.Rect(33, 81, 276, 324)

func loadGray(t *testing.T, path string) *image.Gray {
	t.Helper()
	img, err := imaging.Open(path)
	require.NoError(t, err)

	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

func TestDefaultPigoDetector_SampleFace(t *testing.T) {
	det, err := NewDefaultPigoDetector()
	require.NoError(t, err)

	gray := loadGray(t, filepath.Join("testdata", "sample.jpg"))
	require.Equal(t, image.Pt(320, 400), gray.Bounds().Size())

	faces, err := det.Detect(gray, DefaultParams)
	require.NoError(t, err)
	assert.Equal(t, []image.Rectangle{sampleFace}, faces)
}

func TestDefaultPigoDetector_BlankImage(t *testing.T) {
	det, err := NewDefaultPigoDetector()
	require.NoError(t, err)

	blank := image.NewGray(image.Rect(0, 0, 500, 500))
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}

	faces, err := det.Detect(blank, DefaultParams)
	require.NoError(t, err)
	assert.Empty(t, faces)
}

func TestDefaultPigoDetector_OffsetSubImage(t *testing.T) {
	det, err := NewDefaultPigoDetector()
	require.NoError(t, err)

	gray := loadGray(t, filepath.Join("testdata", "sample.jpg"))

	// Same pixels inside a larger buffer: non-zero origin and wider stride.
	canvas := image.NewGray(image.Rect(0, 0, 420, 500))
	offset := image.Pt(50, 40)
	draw.Draw(canvas, gray.Bounds().Add(offset), gray, image.Point{}, draw.Src)
	sub := canvas.SubImage(gray.Bounds().Add(offset)).(*image.Gray)

	faces, err := det.Detect(sub, DefaultParams)
	require.NoError(t, err)
	assert.Equal(t, []image.Rectangle{sampleFace.Add(offset)}, faces)
}

func TestDefaultPigoDetector_TooSmall(t *testing.T) {
	det, err := NewDefaultPigoDetector()
	require.NoError(t, err)

	faces, err := det.Detect(image.NewGray(image.Rect(0, 0, 20, 20)), DefaultParams)
	require.NoError(t, err)
	assert.Nil(t, faces)
}

func TestUnavailable_WrapsOnce(t *testing.T) {
	_, loadErr := NewPigoDetector(filepath.Join(t.TempDir(), "facefinder"))
	require.Error(t, loadErr)

	_, err := Unavailable(loadErr).Detect(image.NewGray(image.Rect(0, 0, 10, 10)), DefaultParams)

	assert.ErrorIs(t, err, entity.ErrDetectorUnavailable)
	assert.Equal(t, 1, strings.Count(err.Error(), entity.ErrDetectorUnavailable.Error()))

	_, err = Unavailable(errors.New("boom")).Detect(image.NewGray(image.Rect(0, 0, 10, 10)), DefaultParams)
	assert.Equal(t, 1, strings.Count(err.Error(), entity.ErrDetectorUnavailable.Error()))
}
