package cmd

import (
	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
	"github.com/AnyUserName/spritesheet-cli/internal/profile"
	"github.com/spf13/cobra"
)

// layoutFlags are shared by every command that builds a layout.
type layoutFlags struct {
	name    string
	profile string
	format  string
	scale   float64
	height  int
	padding int
	quality float64
	out     string
	emit    []string
	helper  bool
	workers int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.out, "out", "o", ".", "output directory")
	fs.StringVarP(&f.name, "name", "n", atlas.DefaultBaseName, "export base name")
	fs.StringVarP(&f.profile, "profile", "p", profile.DefaultName, "build profile")
	fs.StringVarP(&f.format, "format", "f", "", "output format: webp, png or jpg (default from profile)")
	fs.Float64VarP(&f.scale, "scale", "s", atlas.DefaultScale, "scale percent (10-200)")
	fs.IntVar(&f.height, "height", 0, "target height in px for the tallest image (overrides --scale)")
	fs.IntVar(&f.padding, "padding", atlas.DefaultPadding, "gap in px before and after every image")
	fs.Float64VarP(&f.quality, "quality", "q", atlas.DefaultQuality, "encoder quality hint (0-1)")
	fs.StringSliceVar(&f.emit, "emit", nil, "artifacts to write: code, alt, positions (default from profile)")
	fs.BoolVar(&f.helper, "helper", false, "include the Sprite helpers in the generated snippet")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel decoders (0 = NumCPU)")
}

// settings resolves profile, then config file, then explicitly set flags.
func (f *layoutFlags) settings(cmd *cobra.Command) (profile.Settings, error) {
	var cfg profile.Config
	if configPath != "" {
		var err error
		if cfg, err = profile.LoadConfig(configPath); err != nil {
			return profile.Settings{}, err
		}
	}
	fs := cmd.Flags()
	if fs.Changed("profile") || cfg.Profile == "" {
		cfg.Profile = f.profile
	}
	s, err := profile.Resolve(cfg, "")
	if err != nil {
		return profile.Settings{}, err
	}

	if fs.Changed("name") {
		s.Name = f.name
	}
	if fs.Changed("format") {
		if s.Format, err = atlas.ParseFormat(f.format); err != nil {
			return profile.Settings{}, err
		}
	}
	if fs.Changed("scale") {
		s.Scale = f.scale
	}
	if fs.Changed("height") {
		s.Height = f.height
	}
	if fs.Changed("padding") {
		s.Padding = f.padding
	}
	if fs.Changed("quality") {
		s.Quality = f.quality
	}
	if fs.Changed("out") {
		s.Out = f.out
	}
	if fs.Changed("emit") {
		s.Emit = f.emit
	}
	if fs.Changed("helper") {
		s.Helper = f.helper
	}
	if fs.Changed("workers") {
		s.Workers = f.workers
	}
	return s, s.Validate()
}
