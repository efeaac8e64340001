package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
	"github.com/AnyUserName/spritesheet-cli/internal/emitter"
)

// ErrVersion is returned by ReadJSON for manifests newer than this build.
var ErrVersion = errors.New("unsupported manifest version")

// New creates an empty manifest with defaults.
func New(name string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Name:        name,
		Scale:       atlas.DefaultScale,
		Quality:     atlas.DefaultQuality,
		Frames:      []Frame{},
	}
}

// FromLayout describes l as exported under plan. The atlas hash and size
// are filled in by the caller once the file is written.
func FromLayout(l atlas.Layout, req atlas.ExportRequest, plan atlas.ExportPlan) *Manifest {
	m := New(req.BaseNameOr())
	m.Image = plan.Filename
	m.Format = plan.Format.String()
	m.RequestedFormat = plan.Requested.String()
	m.Downgraded = plan.Downgraded
	m.Scale = l.Scale
	m.Padding = l.Padding
	m.Quality = plan.Quality
	m.Width = l.CanvasWidth
	m.Height = l.CanvasHeight
	if table, ok := emitter.Table(l, req); ok {
		m.Sprite = table
	}
	m.Frames = make([]Frame, len(l.Images))
	for i, img := range l.Images {
		m.Frames[i] = Frame{
			Name:          img.Name,
			X:             img.StartX,
			Width:         img.Width,
			Height:        img.Height,
			NaturalWidth:  img.NaturalWidth,
			NaturalHeight: img.NaturalHeight,
			Key:           img.Key,
		}
	}
	return m
}

// Layout rebuilds a metadata-only layout (no pixels) from the manifest,
// enough to regenerate every text artifact.
func (m *Manifest) Layout() (atlas.Layout, error) {
	requested, err := atlas.ParseFormat(m.RequestedFormat)
	if err != nil {
		return atlas.Layout{}, fmt.Errorf("requested format: %w", err)
	}
	encoding, err := atlas.ParseFormat(m.Format)
	if err != nil {
		return atlas.Layout{}, fmt.Errorf("format: %w", err)
	}
	l := atlas.Layout{
		Images:       make([]atlas.ScaledImage, len(m.Frames)),
		CanvasWidth:  m.Width,
		CanvasHeight: m.Height,
		Padding:      m.Padding,
		Scale:        m.Scale,
		Requested:    requested,
		Encoding:     encoding,
	}
	for i, f := range m.Frames {
		src, err := atlas.NewSourceImage(f.Name, f.NaturalWidth, f.NaturalHeight, nil)
		if err != nil {
			return atlas.Layout{}, fmt.Errorf("frame %d: %w", i, err)
		}
		l.Images[i] = atlas.ScaledImage{
			SourceImage: src.WithKey(f.Key),
			Width:       f.Width,
			Height:      f.Height,
			StartX:      f.X,
		}
	}
	return l, nil
}

// Request returns the export request the manifest was written with.
func (m *Manifest) Request() atlas.ExportRequest {
	requested, _ := atlas.ParseFormat(m.RequestedFormat)
	return atlas.ExportRequest{BaseName: m.Name, Format: requested, Scale: m.Scale}
}

// ComputeStats recalculates the frame count; byte totals are set by the
// build.
func (m *Manifest) ComputeStats() {
	m.Stats.Images = len(m.Frames)
	if m.Size > 0 {
		m.Stats.TotalOutputBytes = m.Size
	}
}

// WriteJSON serializes the manifest to a JSON file with stable ordering.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a manifest. Unknown fields are ignored.
func ReadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Version > SupportedManifestVersion {
		return nil, fmt.Errorf("version %d: %w", m.Version, ErrVersion)
	}
	return &m, nil
}
