package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
	"github.com/AnyUserName/spritesheet-cli/internal/hasher"
)

// Validate checks m for structural consistency and, when baseDir is not
// empty, that the atlas file next to it matches the recorded size and hash.
// It returns one message per problem found.
func Validate(m *Manifest, baseDir string) []string {
	var errs []string

	if m.Version != SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	format, err := atlas.ParseFormat(m.Format)
	if err != nil {
		errs = append(errs, fmt.Sprintf("format: %v", err))
	}
	if _, err := atlas.ParseFormat(m.RequestedFormat); err != nil {
		errs = append(errs, fmt.Sprintf("requested_format: %v", err))
	}
	if err == nil {
		if ext := filepath.Ext(m.Image); ext != "."+format.Extension() {
			errs = append(errs, fmt.Sprintf("image %q: extension does not match format %s", m.Image, format))
		}
		if format == atlas.FormatWebP && (m.Width > atlas.MaxWebPDimension || m.Height > atlas.MaxWebPDimension) {
			errs = append(errs, fmt.Sprintf("webp canvas %dx%d exceeds %d", m.Width, m.Height, atlas.MaxWebPDimension))
		}
	}
	if err := atlas.ValidateScale(m.Scale); err != nil {
		errs = append(errs, err.Error())
	}

	// Frames. A frame may scale down to 0px on either axis, but the
	// canvas as a whole must have pixels.
	if len(m.Frames) > 0 && (m.Width <= 0 || m.Height <= 0) {
		errs = append(errs, fmt.Sprintf("canvas %dx%d: %v", m.Width, m.Height, atlas.ErrEmptyCanvas))
	}
	maxHeight := 0
	for i, f := range m.Frames {
		if f.Width < 0 || f.Height < 0 {
			errs = append(errs, fmt.Sprintf("frame %d %q: invalid dimensions %dx%d", i, f.Name, f.Width, f.Height))
		}
		if f.X+f.Width > m.Width {
			errs = append(errs, fmt.Sprintf("frame %d %q: extends past canvas width %d", i, f.Name, m.Width))
		}
		if f.Height > maxHeight {
			maxHeight = f.Height
		}
	}
	if maxHeight != m.Height {
		errs = append(errs, fmt.Sprintf("height %d != tallest frame %d", m.Height, maxHeight))
	}

	// Position table.
	left := m.Sprite.Left
	if len(m.Frames) > 0 {
		if len(left) != len(m.Frames)+1 {
			errs = append(errs, fmt.Sprintf("sprite.left: %d entries for %d frames", len(left), len(m.Frames)))
		} else {
			for i := 1; i < len(left); i++ {
				if left[i] < left[i-1] {
					errs = append(errs, fmt.Sprintf("sprite.left[%d]=%d decreasing", i, left[i]))
				}
			}
			if left[len(left)-1] != m.Width {
				errs = append(errs, fmt.Sprintf("sprite.left sentinel %d != width %d", left[len(left)-1], m.Width))
			}
		}
		if m.Sprite.Image != m.Image {
			errs = append(errs, fmt.Sprintf("sprite.img %q != image %q", m.Sprite.Image, m.Image))
		}
		if m.Sprite.Height != m.Height {
			errs = append(errs, fmt.Sprintf("sprite.height %d != height %d", m.Sprite.Height, m.Height))
		}
	} else if len(left) != 0 {
		errs = append(errs, "sprite.left set on an empty manifest")
	}

	if m.Stats.Images != len(m.Frames) {
		errs = append(errs, fmt.Sprintf("stats.images mismatch: %d != %d", m.Stats.Images, len(m.Frames)))
	}

	if baseDir == "" || m.Image == "" {
		return errs
	}

	// Atlas file.
	hash, size, err := hasher.FileHash(filepath.Join(baseDir, m.Image))
	switch {
	case os.IsNotExist(err):
		errs = append(errs, fmt.Sprintf("file not found: %s", m.Image))
	case err != nil:
		errs = append(errs, fmt.Sprintf("read %s: %v", m.Image, err))
	default:
		if m.Size > 0 && size != m.Size {
			errs = append(errs, fmt.Sprintf("size mismatch: manifest=%d, disk=%d", m.Size, size))
		}
		if m.Hash != "" && hash != m.Hash {
			errs = append(errs, fmt.Sprintf("hash mismatch: manifest=%s, disk=%s", m.Hash, hash))
		}
	}
	return errs
}
