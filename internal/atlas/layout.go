package atlas

import (
	"fmt"
	"image"
	"math"
)

const (
	// DefaultPadding is the gap in pixels placed before and after every image.
	DefaultPadding = 2
	// DefaultScale is the identity scale percentage.
	DefaultScale = 100.0

	MinScale = 10.0
	MaxScale = 200.0
)

// Layout is the result of one full packing pass. A Layout is a value:
// operations that change geometry return a new one.
type Layout struct {
	Images       []ScaledImage
	CanvasWidth  int
	CanvasHeight int

	Padding int
	Scale   float64

	// Requested is the format the caller asked for; Encoding is the one in
	// effect for CanvasWidth.
	Requested Format
	Encoding  Format
}

// Options are the geometry and format inputs of Build.
type Options struct {
	Scale   float64
	Padding int
	Format  Format
}

// DefaultOptions returns 100% scale, DefaultPadding and WebP.
func DefaultOptions() Options {
	return Options{Scale: DefaultScale, Padding: DefaultPadding, Format: FormatWebP}
}

// Validate checks the caller contract for Options.
func (o Options) Validate() error {
	if err := ValidateScale(o.Scale); err != nil {
		return err
	}
	if o.Padding < 0 {
		return fmt.Errorf("padding %d: %w", o.Padding, ErrInvalidPadding)
	}
	if _, err := ParseFormat(string(o.Format)); err != nil {
		return err
	}
	return nil
}

// ValidateScale rejects percentages outside [MinScale, MaxScale].
func ValidateScale(scale float64) error {
	if math.IsNaN(scale) || scale < MinScale || scale > MaxScale {
		return fmt.Errorf("scale %g%% (want %g-%g): %w", scale, MinScale, MaxScale, ErrScaleOutOfRange)
	}
	return nil
}

// ScaleDimension applies a scale percentage to one natural dimension. At
// exactly 100% the natural value is returned untouched.
func ScaleDimension(natural int, scale float64) int {
	if scale == DefaultScale {
		return natural
	}
	return int(math.Round(float64(natural) * scale / 100))
}

// Scale computes scaled geometry for every image, preserving input order.
// StartX is left at zero; only Pack assigns it. scale must already be
// validated.
func Scale(images []SourceImage, scale float64) []ScaledImage {
	out := make([]ScaledImage, len(images))
	for i, img := range images {
		out[i] = ScaledImage{
			SourceImage: img,
			Width:       ScaleDimension(img.NaturalWidth, scale),
			Height:      ScaleDimension(img.NaturalHeight, scale),
		}
	}
	return out
}

// Pack places the images left to right. Each image gets padding before
// and after it, so StartX = cursor + padding and the cursor advances by
// width + 2*padding. CanvasWidth is the final cursor value.
func Pack(ordered []ScaledImage, padding int) Layout {
	l := Layout{
		Images:  make([]ScaledImage, len(ordered)),
		Padding: padding,
	}
	cursor := 0
	for i, img := range ordered {
		img.StartX = cursor + padding
		l.Images[i] = img
		cursor += img.Width + 2*padding
		if img.Height > l.CanvasHeight {
			l.CanvasHeight = img.Height
		}
	}
	l.CanvasWidth = cursor
	return l
}

// Build runs a full layout pass: natural order, scale, pack and encoding
// resolution. opts must already be validated.
func Build(images []SourceImage, opts Options) Layout {
	return layoutOrdered(Order(images), opts)
}

func layoutOrdered(ordered []SourceImage, opts Options) Layout {
	l := Pack(Scale(ordered, opts.Scale), opts.Padding)
	l.Scale = opts.Scale
	l.Requested = opts.Format
	l.Encoding = ResolveCanvas(opts.Format, l.CanvasWidth, l.CanvasHeight)
	return l
}

// Empty reports whether the layout holds no images.
func (l Layout) Empty() bool { return len(l.Images) == 0 }

// ZeroArea reports whether a non-empty layout has no pixels to render.
// This happens when every image rounds to 0px at a small scale, e.g. a
// 4px tall image at 10%.
func (l Layout) ZeroArea() bool {
	return !l.Empty() && (l.CanvasWidth == 0 || l.CanvasHeight == 0)
}

// Downgraded reports whether the encoding fallback kicked in.
func (l Layout) Downgraded() bool { return l.Encoding != l.Requested }

// DrawOp is one blit instruction for the rendering collaborator.
type DrawOp struct {
	Pixels image.Image
	X, Y   int
	Width  int
	Height int
}

// Rect returns the destination rectangle on the canvas.
func (d DrawOp) Rect() image.Rectangle {
	return image.Rect(d.X, d.Y, d.X+d.Width, d.Y+d.Height)
}

// DrawOps returns draw instructions in pack order. Draws never overlap.
func (l Layout) DrawOps() []DrawOp {
	ops := make([]DrawOp, len(l.Images))
	for i, img := range l.Images {
		ops[i] = DrawOp{
			Pixels: img.Pixels,
			X:      img.StartX,
			Width:  img.Width,
			Height: img.Height,
		}
	}
	return ops
}

// Summary is the one-line description shown after a layout pass.
func (l Layout) Summary() string {
	return fmt.Sprintf("%d images loaded, output size %d x %d px",
		len(l.Images), l.CanvasWidth, l.CanvasHeight)
}

// ScaleForHeight returns the scale, rounded to one decimal, that makes
// the tallest image desiredHeight pixels tall.
func ScaleForHeight(images []SourceImage, desiredHeight int) (float64, error) {
	tallest := 0
	for _, img := range images {
		if img.NaturalHeight > tallest {
			tallest = img.NaturalHeight
		}
	}
	if tallest == 0 {
		return 0, ErrEmptySet
	}
	scale := math.Round(1000*float64(desiredHeight)/float64(tallest)) / 10
	if err := ValidateScale(scale); err != nil {
		return 0, fmt.Errorf("height %dpx: %w", desiredHeight, err)
	}
	return scale, nil
}
