package cmd

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSprite(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// The commands share package-level flag state, so they are exercised in
// one sequence.
func TestCommands(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeSprite(t, filepath.Join(in, "coin10.png"), 20, 8)
	writeSprite(t, filepath.Join(in, "coin2.png"), 10, 5)

	cfg := filepath.Join(t.TempDir(), "sprites.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("name: coins\nemit: [code, positions]\n"), 0o644))

	_, err := run(t, "build", in, "--config", cfg, "-o", out, "-f", "png")
	require.NoError(t, err)
	for _, name := range []string{"coins.png", "coins.manifest.json", "coins.sprite.ts", "coins.positions.txt"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.NoFileExists(t, filepath.Join(out, "coins.alt.ts"))

	manifestPath := filepath.Join(out, "coins.manifest.json")

	got, err := run(t, "emit", manifestPath, "positions")
	require.NoError(t, err)
	assert.Equal(t, "[2, 16, 38]\n", got)

	got, err = run(t, "emit", manifestPath, "table")
	require.NoError(t, err)
	assert.Contains(t, got, `"img": "coins.png"`)

	positions, err := os.ReadFile(filepath.Join(out, "coins.positions.txt"))
	require.NoError(t, err)
	assert.Equal(t, "[2, 16, 38]\n", string(positions))

	got, err = run(t, "validate", out)
	require.NoError(t, err)
	assert.Contains(t, got, "Manifest is valid")

	got, err = run(t, "stats", manifestPath)
	require.NoError(t, err)
	assert.Contains(t, got, "coins.png (38 x 8 px")

	// tamper with the atlas
	require.NoError(t, os.WriteFile(filepath.Join(out, "coins.png"), []byte("x"), 0o644))
	_, err = run(t, "validate", manifestPath)
	require.Error(t, err)

	_, err = run(t, "emit", manifestPath, "html")
	require.Error(t, err)
}

func TestBuild_RejectsBadScale(t *testing.T) {
	_, err := run(t, "build", t.TempDir(), "--config=", "--scale", "500", "-o", t.TempDir())
	require.Error(t, err)
}
