package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
	"github.com/AnyUserName/spritesheet-cli/internal/emitter"
	"github.com/AnyUserName/spritesheet-cli/internal/hasher"
	"github.com/AnyUserName/spritesheet-cli/internal/profile"
)

// Artifact file suffixes, appended to the export base name.
const (
	SnippetSuffix   = ".sprite.ts"
	AltSuffix       = ".alt.ts"
	PositionsSuffix = ".positions.txt"
)

// Render returns the text of one artifact kind for l, or "" for an empty
// layout.
func Render(kind string, l atlas.Layout, req atlas.ExportRequest, helper bool) (string, error) {
	switch kind {
	case profile.EmitCode:
		return emitter.Snippet(l, req, emitter.SnippetOptions{Helper: helper}), nil
	case profile.EmitAlt:
		return emitter.AltTable(l, req), nil
	case profile.EmitPositions:
		if p := emitter.Positions(l); p != "" {
			return p + "\n", nil
		}
		return "", nil
	}
	return "", fmt.Errorf("unknown artifact %q", kind)
}

// Filename returns the artifact filename for kind.
func Filename(kind string, req atlas.ExportRequest) string {
	base := req.BaseNameOr()
	switch kind {
	case profile.EmitCode:
		return base + SnippetSuffix
	case profile.EmitAlt:
		return base + AltSuffix
	default:
		return base + PositionsSuffix
	}
}

func writeArtifacts(s profile.Settings, l atlas.Layout, req atlas.ExportRequest) ([]string, error) {
	var written []string
	for _, kind := range s.Emit {
		text, err := Render(kind, l, req, s.Helper)
		if err != nil {
			return written, err
		}
		name := Filename(kind, req)
		if err := os.WriteFile(filepath.Join(s.Out, name), []byte(text), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, name)
	}
	return written, nil
}

func hashOf(data []byte) string {
	return hasher.ContentHash(data, hasher.KeyLen)
}
