package pipeline

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/pasphoto/internal/pkg/detector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaceCrop(t *testing.T) {
	tests := []struct {
		name          string
		face          image.Rectangle
		width, height int
		want          image.Rectangle
	}{
		{
			name:  "centred square face",
			face:  image.Rect(200, 150, 300, 250),
			width: 500, height: 400,
			want: image.Rect(175, 125, 325, 275),
		},
		{
			name:  "clamped at top left",
			face:  image.Rect(0, 0, 100, 100),
			width: 500, height: 400,
			want: image.Rect(0, 0, 125, 125),
		},
		{
			name:  "clamped at bottom right",
			face:  image.Rect(420, 320, 500, 400),
			width: 500, height: 400,
			want: image.Rect(400, 300, 500, 400),
		},
		{
			name:  "wide face uses the larger side",
			face:  image.Rect(100, 100, 200, 160),
			width: 500, height: 400,
			want: image.Rect(75, 55, 225, 205),
		},
		{
			name:  "odd sizes truncate",
			face:  image.Rect(10, 10, 51, 51),
			width: 500, height: 400,
			want: image.Rect(0, 0, 60, 60),
		},
		{
			name:  "face bigger than image",
			face:  image.Rect(0, 0, 100, 100),
			width: 80, height: 60,
			want: image.Rect(0, 0, 80, 60),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, faceCrop(tt.face, tt.width, tt.height))
		})
	}
}

func TestCenterFace(t *testing.T) {
	src := gradientImage(500, 400)

	t.Run("crops around the first face", func(t *testing.T) {
		det := &fakeDetector{faces: []image.Rectangle{
			image.Rect(200, 150, 300, 250),
			image.Rect(0, 0, 50, 50),
		}}

		out, err := CenterFace(src, det)

		require.NoError(t, err)
		assert.Equal(t, image.Pt(150, 150), out.Bounds().Size())
		assert.Equal(t, src.NRGBAAt(175, 125), nrgbaAt(out, 0, 0))
		assert.Equal(t, src.NRGBAAt(324, 274), nrgbaAt(out, 149, 149))
		assert.Equal(t, []detector.Params{detector.DefaultParams}, det.params)
		assert.Equal(t, []image.Point{image.Pt(500, 400)}, det.sizes)
	})

	t.Run("no faces returns input", func(t *testing.T) {
		det := &fakeDetector{}

		out, err := CenterFace(src, det)

		require.NoError(t, err)
		assert.True(t, out == image.Image(src))
	})

	t.Run("nil detector returns input", func(t *testing.T) {
		out, err := CenterFace(src, nil)

		require.NoError(t, err)
		assert.True(t, out == image.Image(src))
	})

	t.Run("detector error propagates", func(t *testing.T) {
		cause := errors.New("cascade broken")
		det := &fakeDetector{err: cause}

		out, err := CenterFace(src, det)

		assert.Nil(t, out)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("sub image with offset origin", func(t *testing.T) {
		sub := src.SubImage(image.Rect(100, 100, 400, 300))
		det := &fakeDetector{faces: []image.Rectangle{image.Rect(100, 50, 140, 90)}}

		out, err := CenterFace(sub, det)

		require.NoError(t, err)
		// Face centre (120, 70) in sub coordinates, half side 30.
		assert.Equal(t, image.Pt(60, 60), out.Bounds().Size())
		assert.Equal(t, src.NRGBAAt(190, 140), nrgbaAt(out, 0, 0))
		assert.Equal(t, []image.Point{image.Pt(300, 200)}, det.sizes)
	})
}

func TestToGray(t *testing.T) {
	src := solidImage(3, 2, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	gray := toGray(src)

	assert.Equal(t, image.Rect(0, 0, 3, 2), gray.Bounds())
	assert.Equal(t, uint8(255), gray.GrayAt(2, 1).Y)
}

func TestCenterFace_BundledCascade(t *testing.T) {
	det, err := detector.NewDefaultPigoDetector()
	require.NoError(t, err)

	img, err := imaging.Open(filepath.Join("..", "detector", "testdata", "sample.jpg"))
	require.NoError(t, err)

	out, err := CenterFace(img, det)
	require.NoError(t, err)
	// face (33,81)-(276,324) -> crop (0,20)-(320,384), clamped on the left and right
	assert.Equal(t, image.Rect(0, 0, 320, 364), out.Bounds())

	blank := solidImage(500, 500, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	out, err = CenterFace(blank, det)
	require.NoError(t, err)
	assert.Equal(t, blank.Bounds(), out.Bounds())
}
