// Package encoder turns a rendered atlas into bytes in one of the export
// formats.
package encoder

import (
	"image"
	"math"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the export format this encoder produces.
	Format() atlas.Format

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless encoders ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	// cwebp may not be installed.
	Available() bool
}

// Quality maps a 0-1 quality hint to the 1-100 scale encoders use.
// Out-of-range hints fall back to atlas.DefaultQuality.
func Quality(hint float64) int {
	if hint <= 0 || hint > 1 || math.IsNaN(hint) {
		hint = atlas.DefaultQuality
	}
	q := int(math.Round(hint * 100))
	if q < 1 {
		q = 1
	}
	return q
}
