// Package atlas is the layout engine: it orders a working set of images,
// scales them, packs them into a single horizontal strip and resolves the
// output encoding. Nothing in here does I/O.
package atlas

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrInvalidDimensions is returned for images narrower or shorter than 1px.
	ErrInvalidDimensions = errors.New("image dimensions must be at least 1x1")
	// ErrScaleOutOfRange is returned when a scale percentage is outside [MinScale, MaxScale].
	ErrScaleOutOfRange = errors.New("scale out of range")
	// ErrInvalidPadding is returned for negative padding.
	ErrInvalidPadding = errors.New("padding must not be negative")
	// ErrEmptySet is returned by operations that need at least one image.
	ErrEmptySet = errors.New("no images in working set")
	// ErrEmptyCanvas is returned when a non-empty layout has no pixels to
	// encode because every image scaled down to 0px.
	ErrEmptyCanvas = errors.New("atlas canvas has zero area")
)

// SourceImage is a decoded image plus its identity. It is never mutated
// after construction.
type SourceImage struct {
	Name          string
	NaturalWidth  int
	NaturalHeight int

	// Pixels is the decoded pixel source. It is nil for metadata-only
	// layouts rebuilt from a manifest.
	Pixels image.Image

	// Key identifies the source content (hash of the encoded bytes).
	// Empty when unknown.
	Key string
}

// NewSourceImage validates dimensions and returns a SourceImage.
func NewSourceImage(name string, width, height int, pixels image.Image) (SourceImage, error) {
	if width < 1 || height < 1 {
		return SourceImage{}, fmt.Errorf("%s: %dx%d: %w", name, width, height, ErrInvalidDimensions)
	}
	return SourceImage{
		Name:          name,
		NaturalWidth:  width,
		NaturalHeight: height,
		Pixels:        pixels,
	}, nil
}

// FromImage builds a SourceImage from a decoded image, taking the natural
// dimensions from its bounds.
func FromImage(name string, img image.Image) (SourceImage, error) {
	b := img.Bounds()
	return NewSourceImage(name, b.Dx(), b.Dy(), img)
}

// WithKey returns a copy of s carrying the given content key.
func (s SourceImage) WithKey(key string) SourceImage {
	s.Key = key
	return s
}

// ScaledImage is a SourceImage under the current scale. StartX is only
// ever assigned by Pack.
type ScaledImage struct {
	SourceImage

	Width  int
	Height int
	StartX int
}
