// Package render composites an atlas bitmap from a layout's draw
// instructions.
package render

import (
	"fmt"
	"image"
	"image/color"
	"sync/atomic"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Renderer executes draw instructions onto a fresh canvas. A nil cache
// disables frame caching.
type Renderer struct {
	cache  *Cache
	filter imaging.ResampleFilter

	hits   atomic.Int64
	misses atomic.Int64
}

// New returns a renderer using Lanczos resampling.
func New(cache *Cache) *Renderer {
	return &Renderer{cache: cache, filter: imaging.Lanczos}
}

// Render allocates a CanvasWidth x CanvasHeight transparent canvas and
// draws every image at its packed position. Images without pixels
// (metadata-only layouts) or scaled to 0px are skipped.
//
// The empty layout renders to nil; a zero-area layout (see
// atlas.Layout.ZeroArea) fails with atlas.ErrEmptyCanvas.
func (r *Renderer) Render(l atlas.Layout) (*image.NRGBA, error) {
	if l.Empty() {
		return nil, nil
	}
	if l.ZeroArea() {
		return nil, fmt.Errorf("%dx%d px at scale %g%%: %w", l.CanvasWidth, l.CanvasHeight, l.Scale, atlas.ErrEmptyCanvas)
	}
	canvas := imaging.New(l.CanvasWidth, l.CanvasHeight, color.Transparent)

	for i, op := range l.DrawOps() {
		if op.Pixels == nil || op.Width == 0 || op.Height == 0 {
			continue
		}
		frame := r.frame(l.Images[i], op)
		draw.Draw(canvas, op.Rect(), frame, frame.Bounds().Min, draw.Src)
	}
	return canvas, nil
}

// CacheStats reports frame cache hits and misses since creation.
func (r *Renderer) CacheStats() (hits, misses int64) {
	return r.hits.Load(), r.misses.Load()
}

func (r *Renderer) frame(img atlas.ScaledImage, op atlas.DrawOp) image.Image {
	if op.Width == img.NaturalWidth && op.Height == img.NaturalHeight {
		return op.Pixels
	}
	if r.cache == nil || img.Key == "" {
		return imaging.Resize(op.Pixels, op.Width, op.Height, r.filter)
	}

	key := frameKey(img.Key, op.Width, op.Height)
	if cached, ok := r.cache.get(key); ok {
		r.hits.Add(1)
		return cached
	}
	r.misses.Add(1)
	resized := imaging.Resize(op.Pixels, op.Width, op.Height, r.filter)
	r.cache.put(key, resized)
	return resized
}
