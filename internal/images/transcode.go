package images

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// Bounding box for transcoded photos. Aspect ratio is preserved and images
// smaller than the box are never upscaled.
const (
	MaxWidth    = 800
	MaxHeight   = 600
	jpegQuality = 82
)

var ErrUnsupportedImage = errors.New("unsupported_image")

// Transcode decodes src (jpeg/png/gif), fits it into the bounding box and
// re-encodes as JPEG.
func Transcode(src []byte) ([]byte, error) {
	return TranscodeBounded(src, MaxWidth, MaxHeight)
}

func TranscodeBounded(src []byte, maxWidth, maxHeight int) ([]byte, error) {
	decoded, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	bounds := decoded.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	targetW, targetH := fitBox(width, height, maxWidth, maxHeight)

	out := decoded
	if targetW != width || targetH != height {
		scaled := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), decoded, bounds, xdraw.Over, nil)
		out = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fitBox(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}
	scaleW := float64(maxWidth) / float64(width)
	scaleH := float64(maxHeight) / float64(height)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	targetW := int(float64(width) * scale)
	targetH := int(float64(height) * scale)
	if targetW < 1 {
		targetW = 1
	}
	if targetH < 1 {
		targetH = 1
	}
	return targetW, targetH
}
