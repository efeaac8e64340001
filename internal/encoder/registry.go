package encoder

import (
	"fmt"
	"image"
	"strings"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
)

// Registry holds the available encoders.
type Registry struct {
	encoders map[atlas.Format]Encoder
}

// NewRegistry creates a registry, probing all encoders for availability.
func NewRegistry() *Registry {
	return NewRegistryWith(&WebPEncoder{}, &PNGEncoder{}, &JPEGEncoder{})
}

// NewRegistryWith registers the given encoders; unavailable ones are
// ignored.
func NewRegistryWith(all ...Encoder) *Registry {
	r := &Registry{encoders: make(map[atlas.Format]Encoder)}
	for _, enc := range all {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}
	return r
}

// Get returns the encoder for f, or nil if unavailable.
func (r *Registry) Get(f atlas.Format) Encoder {
	return r.encoders[f]
}

// Available returns all available formats in UI order.
func (r *Registry) Available() []atlas.Format {
	var result []atlas.Format
	for _, f := range atlas.Formats {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// Negotiate returns the format to request given what is installed: a
// requested format without an encoder falls back to PNG. ok is false when
// a fallback happened. Call it before building a layout so the layout,
// filename and encode call all see the same format.
func (r *Registry) Negotiate(requested atlas.Format) (atlas.Format, bool) {
	if _, ok := r.encoders[requested]; ok {
		return requested, true
	}
	return atlas.FormatPNG, false
}

// Encode encodes img according to plan. A nil or zero-area image fails
// with atlas.ErrEmptyCanvas.
func (r *Registry) Encode(img image.Image, plan atlas.ExportPlan) ([]byte, error) {
	if canvas, ok := img.(*image.NRGBA); img == nil || ok && canvas == nil || img.Bounds().Empty() {
		return nil, atlas.ErrEmptyCanvas
	}
	enc := r.Get(plan.Format)
	if enc == nil {
		return nil, fmt.Errorf("no encoder for %s", plan.Format)
	}
	data, err := enc.Encode(img, Quality(plan.Quality))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", plan.Format, err)
	}
	return data, nil
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	names := make([]string, len(avail))
	for i, f := range avail {
		names[i] = f.String()
	}
	return fmt.Sprintf("encoders: %s", strings.Join(names, ", "))
}
