package atlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(DefaultOptions())
	require.NoError(t, err)
	return s
}

func TestSession_StartsEmpty(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, StateEmpty, s.State())
	l, ok := s.Layout()
	assert.False(t, ok)
	assert.Zero(t, l.CanvasWidth)
}

func TestSession_RejectsBadOptions(t *testing.T) {
	_, err := NewSession(Options{Scale: 5, Padding: 2, Format: FormatPNG})
	require.ErrorIs(t, err, ErrScaleOutOfRange)
}

func TestSession_AddImagesAcrossBatches(t *testing.T) {
	s := newTestSession(t)

	s.AddImages(mustImage(t, "frame10", 10, 10), mustImage(t, "frame2", 10, 10))
	l := s.AddImages(mustImage(t, "frame1", 10, 12))

	assert.Equal(t, StatePopulated, s.State())
	assert.Equal(t, []string{"frame1", "frame2", "frame10"}, names(l))
	assert.Equal(t, 42, l.CanvasWidth)
	assert.Equal(t, 12, l.CanvasHeight)

	// same set in one batch gives the same layout
	once := Build(s.Images(), s.Options())
	assert.Equal(t, once, l)
}

func TestSession_EmptyBatchIsNoop(t *testing.T) {
	s := newTestSession(t)
	rev := s.Revision()
	s.AddImages()
	assert.Equal(t, rev, s.Revision())
	assert.Equal(t, StateEmpty, s.State())
}

func TestSession_CanvasWidthMonotonic(t *testing.T) {
	s := newTestSession(t)
	prev := 0
	for _, n := range []string{"c", "a", "b", "d"} {
		l := s.AddImages(mustImage(t, n, 3, 3))
		assert.GreaterOrEqual(t, l.CanvasWidth, prev)
		prev = l.CanvasWidth
	}
}

func TestSession_SetScaleRepacksWithoutReorder(t *testing.T) {
	s := newTestSession(t)
	s.AddImages(mustImage(t, "b", 20, 8), mustImage(t, "a", 10, 5))

	l, err := s.SetScale(50)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(l))
	assert.Equal(t, 5, l.Images[0].Width)
	assert.Equal(t, 10, l.Images[1].Width)
	assert.Equal(t, 2, l.Images[0].StartX)
	assert.Equal(t, 11, l.Images[1].StartX)
	assert.Equal(t, 23, l.CanvasWidth)
	assert.Equal(t, 4, l.CanvasHeight)
	assert.Equal(t, 50.0, l.Scale)
}

func TestSession_SetScaleOutOfRangeLeavesState(t *testing.T) {
	s := newTestSession(t)
	before := s.AddImages(mustImage(t, "a", 10, 5))
	rev := s.Revision()

	_, err := s.SetScale(250)
	require.ErrorIs(t, err, ErrScaleOutOfRange)

	after, ok := s.Layout()
	require.True(t, ok)
	assert.Equal(t, before, after)
	assert.Equal(t, rev, s.Revision())
}

func TestSession_SetFormat(t *testing.T) {
	s := newTestSession(t)
	s.AddImages(mustImage(t, "a", 10, 5))

	l, err := s.SetFormat("jpeg")
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, l.Encoding)

	_, err = s.SetFormat("tga")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSession_Remove(t *testing.T) {
	s := newTestSession(t)
	s.AddImages(mustImage(t, "a", 10, 5), mustImage(t, "b", 20, 8))

	l, n := s.Remove("a", "missing")
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"b"}, names(l))
	assert.Equal(t, 2, l.Images[0].StartX)

	_, n = s.Remove("b")
	assert.Equal(t, 1, n)
	assert.Equal(t, StateEmpty, s.State())
}

func TestSession_Clear(t *testing.T) {
	s := newTestSession(t)
	s.AddImages(mustImage(t, "a", 10, 5))
	rev := s.Revision()

	s.Clear()
	assert.Equal(t, StateEmpty, s.State())
	assert.Zero(t, s.Len())
	assert.Greater(t, s.Revision(), rev)
	l, ok := s.Layout()
	assert.False(t, ok)
	assert.Zero(t, l.CanvasWidth)
	assert.Zero(t, l.CanvasHeight)
}

func TestSession_LayoutIsACopy(t *testing.T) {
	s := newTestSession(t)
	l := s.AddImages(mustImage(t, "a", 10, 5))
	l.Images[0].StartX = 999

	again, ok := s.Layout()
	require.True(t, ok)
	assert.Equal(t, 2, again.Images[0].StartX)
}
