// Package pipeline runs a complete atlas build: scan, decode, lay out,
// render, encode and write the atlas with its manifest and text artifacts.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
	"github.com/AnyUserName/spritesheet-cli/internal/encoder"
	"github.com/AnyUserName/spritesheet-cli/internal/manifest"
	"github.com/AnyUserName/spritesheet-cli/internal/profile"
	"github.com/AnyUserName/spritesheet-cli/internal/render"
	"github.com/AnyUserName/spritesheet-cli/internal/source"
)

// Config holds all parameters for a build pipeline run.
type Config struct {
	Inputs   []string // files and/or directories
	Settings profile.Settings
}

// Pipeline orchestrates atlas builds. It is reusable across runs; the
// renderer's frame cache carries over between them.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
	renderer *render.Renderer
	loader   *source.Loader
}

// Result describes one finished build.
type Result struct {
	Manifest     *manifest.Manifest
	ManifestPath string
	Layout       atlas.Layout
	Plan         atlas.ExportPlan
	// Written lists every file produced, relative to the output directory,
	// atlas first.
	Written []string
	Failed  []source.Failure
	// Notice is set when the requested format was replaced before layout
	// because no encoder for it is installed.
	Notice string
}

// New creates a configured pipeline.
func New(cfg Config, registry *encoder.Registry, renderer *render.Renderer) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		registry: registry,
		renderer: renderer,
		loader:   source.NewLoader(cfg.Settings.Workers),
	}
}

// Run executes the full build over the configured inputs.
func (p *Pipeline) Run() (*Result, error) {
	log.Debug().Str("encoders", p.registry.String()).Send()

	sources, err := source.Scan(p.cfg.Inputs...)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	sources = p.skipOutputs(sources)
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", strings.Join(p.cfg.Inputs, ", "))
	}
	log.Debug().Int("count", len(sources)).Msg("found images")

	batch, err := p.loader.Load(sources)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if len(batch.Failed) > 0 {
		log.Warn().Msgf("%d of %d images had errors", len(batch.Failed), len(sources))
	}
	return p.Build(batch)
}

// Build lays out an already loaded batch and writes every output.
func (p *Pipeline) Build(batch source.Batch) (*Result, error) {
	s := p.cfg.Settings
	res := &Result{Failed: batch.Failed}

	opts, notice, err := p.options(batch.Images)
	if err != nil {
		return nil, err
	}
	res.Notice = notice

	l := atlas.Build(batch.Images, opts)
	if l.Empty() {
		return nil, atlas.ErrEmptySet
	}
	req := l.Request(s.Name)
	plan := atlas.PlanExport(l, req)
	plan.Quality = s.Quality
	if a := plan.Advisory(); a != "" {
		log.Warn().Msg(a)
	}
	res.Layout, res.Plan = l, plan
	log.Debug().Msg(l.Summary())

	if err := os.MkdirAll(s.Out, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	canvas, err := p.renderer.Render(l)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	data, err := p.registry.Encode(canvas, plan)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(s.Out, plan.Filename), data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", plan.Filename, err)
	}
	res.Written = append(res.Written, plan.Filename)

	m := manifest.FromLayout(l, req, plan)
	m.Profile = s.Profile
	m.Hash, m.Size = hashOf(data), int64(len(data))
	m.Stats.Skipped = len(batch.Failed)
	m.Stats.TotalInputBytes = batch.InputBytes

	written, err := writeArtifacts(s, l, req)
	res.Written = append(res.Written, written...)
	if err != nil {
		return res, err
	}

	res.ManifestPath = filepath.Join(s.Out, req.BaseNameOr()+manifest.Suffix)
	if err := manifest.WriteJSON(m, res.ManifestPath); err != nil {
		return res, fmt.Errorf("write manifest: %w", err)
	}
	res.Written = append(res.Written, filepath.Base(res.ManifestPath))
	res.Manifest = m
	return res, nil
}

// skipOutputs drops previously written atlases from sources so a rebuild
// into a scanned directory never packs its own output.
func (p *Pipeline) skipOutputs(sources []source.Source) []source.Source {
	s := p.cfg.Settings
	out, err := filepath.Abs(s.Out)
	if err != nil {
		return sources
	}
	kept := sources[:0]
	for _, src := range sources {
		if IsOutput(out, s.Name, src.AbsPath) {
			log.Debug().Str("file", src.RelPath).Msg("skipping previous atlas")
			continue
		}
		kept = append(kept, src)
	}
	return kept
}

// IsOutput reports whether path is an atlas this build would write: a
// file named base.<format> directly inside the absolute outDir.
func IsOutput(outDir, base, path string) bool {
	if filepath.Dir(path) != outDir {
		return false
	}
	base = atlas.ExportRequest{BaseName: base}.BaseNameOr()
	for _, f := range atlas.Formats {
		if filepath.Base(path) == base+"."+f.Extension() {
			return true
		}
	}
	return false
}

// options resolves layout options for images: the format is negotiated
// with the installed encoders and a target height overrides the scale.
func (p *Pipeline) options(images []atlas.SourceImage) (atlas.Options, string, error) {
	s := p.cfg.Settings
	opts := s.Options()

	var notice string
	if f, ok := p.registry.Negotiate(opts.Format); !ok {
		notice = fmt.Sprintf("no %s encoder installed; exporting as %s.", opts.Format, f)
		log.Warn().Str("requested", opts.Format.String()).Str("format", f.String()).Msg("format unavailable")
		opts.Format = f
	}

	if s.Height > 0 {
		scale, err := atlas.ScaleForHeight(images, s.Height)
		if err != nil {
			return opts, "", err
		}
		log.Debug().Int("height", s.Height).Float64("scale", scale).Msg("scale from target height")
		opts.Scale = scale
	}
	if err := opts.Validate(); err != nil {
		return opts, "", err
	}
	return opts, notice, nil
}
