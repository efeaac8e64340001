// Package source acquires images for the layout engine: it finds image
// files, decodes them (raster formats and SVG) and hands complete batches
// to the caller. Per-item failures never fail a batch.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the scanned root (the base name for
	// files given directly).
	RelPath string
	// Name is the sprite identifier: the file name without its extension.
	Name string
	// Format is the source format (png, jpeg, gif, bmp, tiff, webp, svg).
	Format string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions lists recognized image file extensions.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".svg":  true,
}

// IsImage reports whether path has a recognized image extension.
func IsImage(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// NameOf strips the directory and the last extension from a filename.
func NameOf(path string) string {
	base := filepath.Base(filepath.FromSlash(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FormatOf normalizes the extension of path to a format name.
func FormatOf(path string) string {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch format {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return format
}

// Scan resolves every path to image sources. Directories are walked
// recursively (hidden directories skipped); files are taken as-is if they
// have an image extension. Results keep argument order, then walk order.
func Scan(paths ...string) ([]Source, error) {
	var sources []Source
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			if IsImage(abs) {
				sources = append(sources, newSource(abs, filepath.Base(abs), info.Size()))
			}
			continue
		}
		found, err := scanDir(abs)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", p, err)
		}
		sources = append(sources, found...)
	}
	return sources, nil
}

func scanDir(root string) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsImage(path) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		sources = append(sources, newSource(path, rel, info.Size()))
		return nil
	})

	return sources, err
}

func newSource(abs, rel string, size int64) Source {
	return Source{
		AbsPath: abs,
		RelPath: filepath.ToSlash(rel),
		Name:    NameOf(abs),
		Format:  FormatOf(abs),
		Size:    size,
	}
}
