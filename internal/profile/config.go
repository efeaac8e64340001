package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
	"gopkg.in/yaml.v3"
)

// Config is the YAML config file. Unset fields leave the profile value
// alone.
type Config struct {
	Name    string   `yaml:"name"`
	Profile string   `yaml:"profile"`
	Format  string   `yaml:"format"`
	Scale   *float64 `yaml:"scale"`
	Height  int      `yaml:"height"` // target height in px, overrides scale
	Padding *int     `yaml:"padding"`
	Quality *float64 `yaml:"quality"`
	Out     string   `yaml:"out"`
	Emit    []string `yaml:"emit"`
	Helper  *bool    `yaml:"helper"`
	Workers int      `yaml:"workers"`
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", filename, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", filename, err)
	}
	return cfg, nil
}

// Settings is a fully resolved build configuration.
type Settings struct {
	Name    string
	Profile string
	Format  atlas.Format
	Scale   float64
	Height  int
	Padding int
	Quality float64
	Out     string
	Emit    []string
	Helper  bool
	Workers int
}

// Resolve builds Settings from the profile named in cfg (or fallback when
// cfg names none) with cfg's fields applied on top.
func Resolve(cfg Config, fallback string) (Settings, error) {
	name := cfg.Profile
	if name == "" {
		name = fallback
	}
	if name == "" {
		name = DefaultName
	}
	p, err := Lookup(name)
	if err != nil {
		return Settings{}, err
	}
	s := p.Settings()
	if err := s.Apply(cfg); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Apply overrides s with every field set in cfg. The profile field is
// ignored here; see Resolve.
func (s *Settings) Apply(cfg Config) error {
	if cfg.Name != "" {
		s.Name = cfg.Name
	}
	if cfg.Format != "" {
		f, err := atlas.ParseFormat(cfg.Format)
		if err != nil {
			return fmt.Errorf("config format: %w", err)
		}
		s.Format = f
	}
	if cfg.Scale != nil {
		s.Scale = *cfg.Scale
	}
	if cfg.Height != 0 {
		s.Height = cfg.Height
	}
	if cfg.Padding != nil {
		s.Padding = *cfg.Padding
	}
	if cfg.Quality != nil {
		s.Quality = *cfg.Quality
	}
	if cfg.Out != "" {
		s.Out = cfg.Out
	}
	if cfg.Emit != nil {
		s.Emit = append([]string(nil), cfg.Emit...)
	}
	if cfg.Helper != nil {
		s.Helper = *cfg.Helper
	}
	if cfg.Workers != 0 {
		s.Workers = cfg.Workers
	}
	return nil
}

// Options returns the layout options for s.
func (s Settings) Options() atlas.Options {
	return atlas.Options{Scale: s.Scale, Padding: s.Padding, Format: s.Format}
}

// Emits reports whether artifact kind is selected.
func (s Settings) Emits(kind string) bool {
	return slices.Contains(s.Emit, kind)
}

// Validate checks the resolved settings.
func (s Settings) Validate() error {
	if err := s.Options().Validate(); err != nil {
		return err
	}
	if s.Height < 0 {
		return fmt.Errorf("height %d: must not be negative", s.Height)
	}
	if s.Quality <= 0 || s.Quality > 1 {
		return fmt.Errorf("quality %g: want a value in (0, 1]", s.Quality)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers %d: must not be negative", s.Workers)
	}
	for _, e := range s.Emit {
		switch e {
		case EmitCode, EmitAlt, EmitPositions:
		default:
			return fmt.Errorf("emit %q: want %s, %s or %s", e, EmitCode, EmitAlt, EmitPositions)
		}
	}
	return nil
}
