package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitBox(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"fits untouched", 640, 480, 640, 480},
		{"wide scales to width", 1600, 600, 800, 300},
		{"tall scales to height", 800, 1200, 400, 600},
		{"both over, height binds", 1600, 1600, 600, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := fitBox(tt.w, tt.h, MaxWidth, MaxHeight)
			assert.Equal(t, tt.wantW, gotW)
			assert.Equal(t, tt.wantH, gotH)
		})
	}
}

func TestTranscodeDownscales(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1600, 1200))
	for y := 0; y < 1200; y += 100 {
		for x := 0; x < 1600; x++ {
			src.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := Transcode(buf.Bytes())
	require.NoError(t, err)

	decoded, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 800, decoded.Bounds().Dx())
	assert.Equal(t, 600, decoded.Bounds().Dy())
}

func TestTranscodeRejectsGarbage(t *testing.T) {
	_, err := Transcode([]byte("not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
