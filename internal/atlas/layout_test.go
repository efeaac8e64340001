package atlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustImage(t *testing.T, name string, w, h int) SourceImage {
	t.Helper()
	img, err := NewSourceImage(name, w, h, nil)
	require.NoError(t, err)
	return img
}

func names(l Layout) []string {
	out := make([]string, len(l.Images))
	for i, img := range l.Images {
		out[i] = img.Name
	}
	return out
}

func TestNewSourceImage_RejectsZeroDimensions(t *testing.T) {
	_, err := NewSourceImage("a", 0, 5, nil)
	require.ErrorIs(t, err, ErrInvalidDimensions)
	_, err = NewSourceImage("a", 5, -1, nil)
	require.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestOrder_Natural(t *testing.T) {
	in := []SourceImage{
		mustImage(t, "img2", 1, 1),
		mustImage(t, "img10", 1, 1),
		mustImage(t, "img1", 1, 1),
	}
	got := Order(in)
	assert.Equal(t, []string{"img1", "img2", "img10"}, []string{got[0].Name, got[1].Name, got[2].Name})
	// input untouched
	assert.Equal(t, "img2", in[0].Name)
}

func TestOrder_CaseInsensitiveAndStable(t *testing.T) {
	in := []SourceImage{
		mustImage(t, "walk", 1, 1),
		mustImage(t, "Icon", 1, 1),
		mustImage(t, "apple", 1, 1),
		mustImage(t, "icon", 2, 2),
	}
	got := Order(in)
	require.Len(t, got, 4)
	assert.Equal(t, "apple", got[0].Name)
	assert.Equal(t, "Icon", got[1].Name)
	assert.Equal(t, "icon", got[2].Name)
	assert.Equal(t, "walk", got[3].Name)
}

func TestCompareNames(t *testing.T) {
	assert.Negative(t, CompareNames("sprite2", "sprite10"))
	assert.Positive(t, CompareNames("sprite10", "sprite9"))
	assert.Zero(t, CompareNames("Frame", "frame"))
}

func TestScale_IdentityKeepsNaturalDimensions(t *testing.T) {
	got := Scale([]SourceImage{mustImage(t, "a", 33, 17)}, 100)
	assert.Equal(t, 33, got[0].Width)
	assert.Equal(t, 17, got[0].Height)
	assert.Zero(t, got[0].StartX)
}

func TestScale_Rounds(t *testing.T) {
	got := Scale([]SourceImage{mustImage(t, "a", 33, 17)}, 50)
	assert.Equal(t, 17, got[0].Width) // 16.5 rounds up
	assert.Equal(t, 9, got[0].Height) // 8.5 rounds up

	got = Scale([]SourceImage{mustImage(t, "a", 10, 10)}, 37.5)
	assert.Equal(t, 4, got[0].Width) // 3.75
}

func TestScale_MinScaleRoundsToZero(t *testing.T) {
	for _, tc := range []struct {
		size, want int
	}{
		{1, 0},
		{4, 0}, // 0.4
		{5, 1}, // 0.5 rounds up
		{14, 1},
		{15, 2},
	} {
		got := Scale([]SourceImage{mustImage(t, "a", tc.size, tc.size)}, MinScale)
		assert.Equal(t, tc.want, got[0].Width, "size %d", tc.size)
		assert.Equal(t, tc.want, got[0].Height, "size %d", tc.size)
	}
}

func TestBuild_ZeroArea(t *testing.T) {
	tiny := []SourceImage{mustImage(t, "a", 4, 4), mustImage(t, "b", 4, 4)}
	l := Build(tiny, Options{Scale: MinScale, Padding: 2, Format: FormatPNG})
	assert.False(t, l.Empty())
	assert.True(t, l.ZeroArea())
	assert.Equal(t, 8, l.CanvasWidth)
	assert.Zero(t, l.CanvasHeight)
	assert.Equal(t, 2, l.Images[0].StartX)
	assert.Equal(t, 6, l.Images[1].StartX)

	// one visible image is enough for a drawable canvas
	mixed := append(tiny, mustImage(t, "c", 40, 40))
	l = Build(mixed, Options{Scale: MinScale, Padding: 2, Format: FormatPNG})
	assert.False(t, l.ZeroArea())
	assert.Equal(t, 4, l.CanvasHeight)

	assert.False(t, Layout{}.ZeroArea())
}

func TestPack_Offsets(t *testing.T) {
	imgs := Scale([]SourceImage{mustImage(t, "a", 10, 5), mustImage(t, "b", 20, 8)}, 100)
	l := Pack(imgs, 2)

	require.Len(t, l.Images, 2)
	assert.Equal(t, 2, l.Images[0].StartX)
	assert.Equal(t, 16, l.Images[1].StartX) // 2 + 10 + 2*2
	assert.Equal(t, 38, l.CanvasWidth)      // (10+4) + (20+4)
	assert.Equal(t, 8, l.CanvasHeight)

	// input slice is not mutated
	assert.Zero(t, imgs[0].StartX)
}

func TestPack_Idempotent(t *testing.T) {
	imgs := Scale([]SourceImage{
		mustImage(t, "a", 10, 5), mustImage(t, "b", 7, 9), mustImage(t, "c", 1, 1),
	}, 100)
	assert.Equal(t, Pack(imgs, 2), Pack(imgs, 2))
}

func TestPack_ZeroPadding(t *testing.T) {
	l := Pack(Scale([]SourceImage{mustImage(t, "a", 10, 5), mustImage(t, "b", 20, 8)}, 100), 0)
	assert.Equal(t, 0, l.Images[0].StartX)
	assert.Equal(t, 10, l.Images[1].StartX)
	assert.Equal(t, 30, l.CanvasWidth)
}

func TestPack_Empty(t *testing.T) {
	l := Pack(nil, 2)
	assert.True(t, l.Empty())
	assert.Empty(t, l.Images)
	assert.Zero(t, l.CanvasWidth)
	assert.Zero(t, l.CanvasHeight)
	assert.Empty(t, l.DrawOps())
}

func TestBuild_ResolvesEncoding(t *testing.T) {
	wide := mustImage(t, "wide", MaxWebPDimension, 4)

	l := Build([]SourceImage{wide}, Options{Scale: 100, Padding: 2, Format: FormatWebP})
	assert.Equal(t, MaxWebPDimension+4, l.CanvasWidth)
	assert.Equal(t, FormatWebP, l.Requested)
	assert.Equal(t, FormatPNG, l.Encoding)
	assert.True(t, l.Downgraded())

	l = Build([]SourceImage{wide}, Options{Scale: 50, Padding: 2, Format: FormatWebP})
	assert.Equal(t, FormatWebP, l.Encoding)
	assert.False(t, l.Downgraded())

	tall := mustImage(t, "tall", 10, 10000)
	l = Build([]SourceImage{tall}, Options{Scale: 200, Padding: 2, Format: FormatWebP})
	assert.Equal(t, 20000, l.CanvasHeight)
	assert.Equal(t, FormatPNG, l.Encoding)
	assert.True(t, l.Downgraded())
}

func TestBuild_RelayoutStability(t *testing.T) {
	first := []SourceImage{mustImage(t, "a1", 10, 10), mustImage(t, "a2", 12, 3)}
	before := Build(first, DefaultOptions())

	more := append(append([]SourceImage{}, first...), mustImage(t, "b1", 4, 4), mustImage(t, "b10", 4, 4))
	after := Build(more, DefaultOptions())

	require.Len(t, after.Images, 4)
	for i := range before.Images {
		assert.Equal(t, before.Images[i].Name, after.Images[i].Name)
		assert.Equal(t, before.Images[i].StartX, after.Images[i].StartX)
	}
	assert.GreaterOrEqual(t, after.CanvasWidth, before.CanvasWidth)
}

func TestDrawOps(t *testing.T) {
	l := Build([]SourceImage{mustImage(t, "b", 20, 8), mustImage(t, "a", 10, 5)}, DefaultOptions())
	ops := l.DrawOps()
	require.Len(t, ops, 2)
	assert.Equal(t, 2, ops[0].X)
	assert.Equal(t, 0, ops[0].Y)
	assert.Equal(t, 10, ops[0].Width)
	assert.Equal(t, 16, ops[1].X)
	assert.False(t, ops[0].Rect().Overlaps(ops[1].Rect()))
}

func TestValidateScale(t *testing.T) {
	require.NoError(t, ValidateScale(10))
	require.NoError(t, ValidateScale(200))
	require.NoError(t, ValidateScale(37.5))
	require.ErrorIs(t, ValidateScale(9.9), ErrScaleOutOfRange)
	require.ErrorIs(t, ValidateScale(201), ErrScaleOutOfRange)
}

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())
	require.ErrorIs(t, Options{Scale: 100, Padding: -1, Format: FormatPNG}.Validate(), ErrInvalidPadding)
	require.ErrorIs(t, Options{Scale: 100, Padding: 2, Format: "gif"}.Validate(), ErrUnknownFormat)
}

func TestScaleForHeight(t *testing.T) {
	imgs := []SourceImage{mustImage(t, "a", 10, 80), mustImage(t, "b", 10, 30)}

	scale, err := ScaleForHeight(imgs, 30)
	require.NoError(t, err)
	assert.Equal(t, 37.5, scale)

	_, err = ScaleForHeight(imgs, 1)
	require.ErrorIs(t, err, ErrScaleOutOfRange)

	_, err = ScaleForHeight(nil, 30)
	require.ErrorIs(t, err, ErrEmptySet)
}

func TestSummary(t *testing.T) {
	l := Build([]SourceImage{mustImage(t, "a", 10, 5)}, DefaultOptions())
	assert.Equal(t, "1 images loaded, output size 14 x 5 px", l.Summary())
}
