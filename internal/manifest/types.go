package manifest

import "github.com/AnyUserName/spritesheet-cli/internal/emitter"

// Manifest is the top-level output of a spritesheet build.
type Manifest struct {
	Version     int    `json:"version"`
	GeneratedAt string `json:"generated_at"`
	Name        string `json:"name"`
	Profile     string `json:"profile,omitempty"`

	// Image is the atlas filename, relative to the manifest.
	Image           string  `json:"image"`
	Format          string  `json:"format"`           // effective encoding
	RequestedFormat string  `json:"requested_format"` // what the caller asked for
	Downgraded      bool    `json:"downgraded,omitempty"`
	Scale           float64 `json:"scale"` // percent
	Padding         int     `json:"padding"`
	Quality         float64 `json:"quality"` // 0-1 hint
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	Hash            string  `json:"hash,omitempty"` // first 16 hex chars of xxhash64 of the atlas file
	Size            int64   `json:"size,omitempty"` // atlas bytes on disk

	Sprite emitter.PositionTable `json:"sprite"`
	Frames []Frame               `json:"frames"`
	Stats  Stats                 `json:"stats"`
}

// Frame is one packed image, in pack order.
type Frame struct {
	Name          string `json:"name"`
	X             int    `json:"x"`
	Y             int    `json:"y"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	NaturalWidth  int    `json:"natural_width"`
	NaturalHeight int    `json:"natural_height"`
	Key           string `json:"key,omitempty"`
}

// Stats aggregates build metrics.
type Stats struct {
	Images           int   `json:"images"`
	Skipped          int   `json:"skipped,omitempty"` // inputs that failed to decode
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// Suffix is appended to the base name to form the manifest filename.
const Suffix = ".manifest.json"
