package atlas

import (
	"errors"
	"fmt"
	"strings"
)

// Format is an output raster encoding.
type Format string

const (
	FormatWebP Format = "webp"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpg"
)

// MaxWebPDimension is the largest width or height the WebP codec can
// encode.
const MaxWebPDimension = 16383

// ErrUnknownFormat is returned by ParseFormat for names outside the closed set.
var ErrUnknownFormat = errors.New("unknown format")

// Formats lists the supported formats in UI order.
var Formats = []Format{FormatWebP, FormatPNG, FormatJPEG}

// ParseFormat maps a user-supplied name to a Format. "jpeg" is accepted
// as an alias for "jpg".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "webp":
		return FormatWebP, nil
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("%q: %w (want webp, png or jpg)", s, ErrUnknownFormat)
}

// Extension returns the file extension without dot.
func (f Format) Extension() string { return string(f) }

// MediaType returns the MIME type of the encoded bitmap.
func (f Format) MediaType() string {
	switch f {
	case FormatWebP:
		return "image/webp"
	case FormatJPEG:
		return "image/jpeg"
	default:
		return "image/png"
	}
}

func (f Format) String() string { return string(f) }

// ResolveEncoding returns the format actually used for a canvas of the
// given width: WebP wider than MaxWebPDimension falls back to PNG.
func ResolveEncoding(requested Format, canvasWidth int) Format {
	if requested == FormatWebP && canvasWidth > MaxWebPDimension {
		return FormatPNG
	}
	return requested
}

// ResolveCanvas applies ResolveEncoding to a whole canvas. The codec limit
// holds for both axes, so a WebP canvas taller than MaxWebPDimension also
// falls back to PNG.
func ResolveCanvas(requested Format, width, height int) Format {
	return ResolveEncoding(requested, max(width, height))
}
