package atlas

import (
	"fmt"
	"strings"
)

// DefaultQuality is the encoder quality hint (0-1) for lossy formats.
const DefaultQuality = 0.9

// DefaultBaseName is used when no export name is given.
const DefaultBaseName = "spritesheet"

// ExportRequest carries the caller's export parameters. It is not owned by
// the engine and is passed per call.
type ExportRequest struct {
	BaseName string
	Format   Format
	Scale    float64
}

// Request returns an ExportRequest matching the layout's own format and
// scale.
func (l Layout) Request(baseName string) ExportRequest {
	return ExportRequest{BaseName: baseName, Format: l.Requested, Scale: l.Scale}
}

// ExportPlan is everything the persistence side needs to write the atlas.
// Every consumer (encoder, filename, manifest, generated code, advisory)
// reads the format from here.
type ExportPlan struct {
	Requested  Format
	Format     Format
	Quality    float64
	Filename   string
	MediaType  string
	Downgraded bool

	// Width and Height are the canvas extent the format was resolved for.
	Width, Height int
}

// BaseNameOr returns the trimmed base name, or DefaultBaseName if blank.
func (r ExportRequest) BaseNameOr() string {
	if base := strings.TrimSpace(r.BaseName); base != "" {
		return base
	}
	return DefaultBaseName
}

// PlanExport resolves the effective format for the layout's canvas extent
// and derives the suggested filename. A zero Format in req means the
// layout's requested format.
func PlanExport(l Layout, req ExportRequest) ExportPlan {
	base := req.BaseNameOr()
	if req.Format == "" {
		req.Format = l.Requested
	}
	eff := ResolveCanvas(req.Format, l.CanvasWidth, l.CanvasHeight)
	return ExportPlan{
		Requested:  req.Format,
		Format:     eff,
		Quality:    DefaultQuality,
		Filename:   base + "." + eff.Extension(),
		MediaType:  eff.MediaType(),
		Downgraded: eff != req.Format,
		Width:      l.CanvasWidth,
		Height:     l.CanvasHeight,
	}
}

// Advisory is the user-facing notice for a downgraded export, or "".
func (p ExportPlan) Advisory() string {
	if !p.Downgraded {
		return ""
	}
	if p.Requested == FormatWebP && p.Format == FormatPNG {
		axis := "width"
		if p.Width <= MaxWebPDimension {
			axis = "height"
		}
		return fmt.Sprintf("WebP export disabled due to exceeding maximum %s of %dpx; exporting as PNG.", axis, MaxWebPDimension)
	}
	return fmt.Sprintf("%s export unavailable; exporting as %s.", p.Requested, p.Format)
}
