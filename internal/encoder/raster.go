package encoder

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
)

// PNGEncoder encodes lossless PNG; it is always available and is the
// fallback for oversized or unsupported WebP.
type PNGEncoder struct{}

func (e *PNGEncoder) Format() atlas.Format { return atlas.FormatPNG }
func (e *PNGEncoder) Available() bool      { return true }

func (e *PNGEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(512 * 1024)

	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JPEGEncoder encodes JPEG. Transparent pixels come out black.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() atlas.Format { return atlas.FormatJPEG }
func (e *JPEGEncoder) Available() bool      { return true }

func (e *JPEGEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = Quality(atlas.DefaultQuality)
	}

	var buf bytes.Buffer
	buf.Grow(256 * 1024)

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
