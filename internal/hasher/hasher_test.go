package hasher

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHash_Stable(t *testing.T) {
	data := []byte("sprite bytes")
	h := ContentHash(data, KeyLen)
	assert.Len(t, h, KeyLen)
	assert.Equal(t, h, ContentHash(data, KeyLen))
	assert.NotEqual(t, h, ContentHash([]byte("other bytes"), KeyLen))
	assert.Equal(t, h[:8], ContentHash(data, 8))
}

func TestContentHashReader_MatchesBytes(t *testing.T) {
	data := bytes.Repeat([]byte{1, 2, 3}, 1000)
	got, err := ContentHashReader(bytes.NewReader(data), 0)
	require.NoError(t, err)
	assert.Equal(t, ContentHash(data, 0), got)
}

func TestFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bin")
	data := []byte("atlas")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	h, n, err := FileHash(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	assert.Equal(t, ContentHash(data, KeyLen), h)

	_, _, err = FileHash(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
