package roi

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// ErrEmptyCrop is returned by CropBox when the box covers no pixels.
var ErrEmptyCrop = errors.New("empty crop rectangle")

// LoadImage reads an image file, applying its EXIF orientation. WebP files
// are decoded with a fallback decoder when the registered decoders fail.
func LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	img, err := decodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	return img, nil
}

// DecodeImage decodes an image from r the same way LoadImage does.
func DecodeImage(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	img, err := decodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func decodeBytes(data []byte) (image.Image, error) {
	if img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, errors.New("unknown or unsupported format")
}

// CropBox returns the part of img covered by the normalized box.
func CropBox(img image.Image, bb BoundingBox) (image.Image, error) {
	bounds := img.Bounds()
	fw, fh := float64(bounds.Dx()), float64(bounds.Dy())

	x0 := bounds.Min.X + int(clamp01(bb.X)*fw+0.5)
	y0 := bounds.Min.Y + int(clamp01(bb.Y)*fh+0.5)
	x1 := bounds.Min.X + int(clamp01(bb.Right())*fw+0.5)
	y1 := bounds.Min.Y + int(clamp01(bb.Bottom())*fh+0.5)

	rect := image.Rect(x0, y0, x1, y1).Intersect(bounds)
	if rect.Empty() {
		return nil, ErrEmptyCrop
	}
	return imaging.Crop(img, rect), nil
}
