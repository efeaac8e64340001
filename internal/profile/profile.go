// Package profile holds the named build presets and the YAML config file
// that overrides them.
package profile

import (
	"fmt"
	"sort"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
)

// Artifacts that build can emit next to the atlas and manifest.
const (
	EmitCode      = "code"
	EmitAlt       = "alt"
	EmitPositions = "positions"
)

// DefaultName is the preset used when none is given.
const DefaultName = "web"

// Profile defines atlas build parameters for a target use.
type Profile struct {
	Name    string
	Format  atlas.Format
	Scale   float64 // percent
	Padding int
	Quality float64 // encoder hint 0-1
	Emit    []string
	Helper  bool // prepend the Sprite helpers to the snippet
}

// Built-in profiles.
var profiles = map[string]Profile{
	"web": {
		Name:    "web",
		Format:  atlas.FormatWebP,
		Scale:   atlas.DefaultScale,
		Padding: atlas.DefaultPadding,
		Quality: atlas.DefaultQuality,
		Emit:    []string{EmitCode},
	},
	"lossless": {
		Name:    "lossless",
		Format:  atlas.FormatPNG,
		Scale:   atlas.DefaultScale,
		Padding: atlas.DefaultPadding,
		Quality: 1,
		Emit:    []string{EmitCode, EmitPositions},
	},
	"jpeg": {
		Name:    "jpeg",
		Format:  atlas.FormatJPEG,
		Scale:   atlas.DefaultScale,
		Padding: atlas.DefaultPadding,
		Quality: 0.85,
		Emit:    []string{EmitCode},
	},
	"retina-half": {
		Name:    "retina-half",
		Format:  atlas.FormatWebP,
		Scale:   50,
		Padding: atlas.DefaultPadding,
		Quality: atlas.DefaultQuality,
		Emit:    []string{EmitCode, EmitAlt},
	},
}

// Get returns a profile by name. Falls back to web if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p.clone()
	}
	p := profiles[DefaultName].clone()
	p.Name = name // preserve requested name
	return p
}

// Lookup is Get without the fallback.
func Lookup(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (have %v)", name, Names())
	}
	return p.clone(), nil
}

// Names lists the built-in profiles alphabetically.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (p Profile) clone() Profile {
	p.Emit = append([]string(nil), p.Emit...)
	return p
}

// Settings starts a resolved build configuration from the profile.
func (p Profile) Settings() Settings {
	return Settings{
		Name:    atlas.DefaultBaseName,
		Profile: p.Name,
		Format:  p.Format,
		Scale:   p.Scale,
		Padding: p.Padding,
		Quality: p.Quality,
		Out:     ".",
		Emit:    append([]string(nil), p.Emit...),
		Helper:  p.Helper,
	}
}
