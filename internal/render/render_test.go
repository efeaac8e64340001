package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
	"github.com/AnyUserName/spritesheet-cli/internal/encoder"
	"github.com/AnyUserName/spritesheet-cli/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(t *testing.T, name string, w, h int, c color.NRGBA) atlas.SourceImage {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	src, err := atlas.FromImage(name, img)
	require.NoError(t, err)
	return src.WithKey(name + "-key")
}

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func TestRender_PlacesFrames(t *testing.T) {
	l := atlas.Build([]atlas.SourceImage{
		solid(t, "b", 20, 8, blue),
		solid(t, "a", 10, 5, red),
	}, atlas.Options{Scale: 100, Padding: 2, Format: atlas.FormatPNG})

	canvas, err := New(nil).Render(l)
	require.NoError(t, err)
	require.NotNil(t, canvas)
	assert.Equal(t, image.Rect(0, 0, 38, 8), canvas.Bounds())

	assert.Equal(t, red, canvas.NRGBAAt(2, 0))
	assert.Equal(t, red, canvas.NRGBAAt(11, 4))
	assert.Equal(t, blue, canvas.NRGBAAt(16, 0))
	assert.Equal(t, blue, canvas.NRGBAAt(35, 7))

	// padding and the area below the short frame stay transparent
	assert.Zero(t, canvas.NRGBAAt(0, 0).A)
	assert.Zero(t, canvas.NRGBAAt(13, 0).A)
	assert.Zero(t, canvas.NRGBAAt(5, 6).A)
	assert.Zero(t, canvas.NRGBAAt(37, 0).A)
}

func TestRender_Empty(t *testing.T) {
	canvas, err := New(nil).Render(atlas.Layout{})
	require.NoError(t, err)
	assert.Nil(t, canvas)
}

func TestRender_SkipsMetadataOnlyImages(t *testing.T) {
	src, err := atlas.NewSourceImage("ghost", 4, 4, nil)
	require.NoError(t, err)
	l := atlas.Build([]atlas.SourceImage{src}, atlas.DefaultOptions())

	canvas, err := New(nil).Render(l)
	require.NoError(t, err)
	require.NotNil(t, canvas)
	assert.Zero(t, canvas.NRGBAAt(3, 1).A)
}

func TestRender_ScaledUsesCache(t *testing.T) {
	cache, err := NewCache(1 << 20)
	require.NoError(t, err)
	defer cache.Close()

	r := New(cache)
	l := atlas.Build([]atlas.SourceImage{solid(t, "a", 40, 20, red)},
		atlas.Options{Scale: 50, Padding: 2, Format: atlas.FormatPNG})

	first, err := r.Render(l)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, image.Rect(0, 0, 24, 10), first.Bounds())
	assert.Equal(t, red, first.NRGBAAt(10, 5))

	second, err := r.Render(l)
	require.NoError(t, err)
	assert.Equal(t, first.Pix, second.Pix)

	hits, misses := r.CacheStats()
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, int64(1), hits)
}

func TestRender_MinScaleFrames(t *testing.T) {
	reg := encoder.NewRegistryWith(&encoder.PNGEncoder{})
	opts := atlas.Options{Scale: atlas.MinScale, Padding: 2, Format: atlas.FormatPNG}

	for _, tc := range []struct {
		name   string
		sizes  []int
		bounds image.Rectangle
	}{
		{"1x1 only", []int{1, 1}, image.Rectangle{}},
		{"4x4 only", []int{4, 4}, image.Rectangle{}},
		{"4x4 beside 40x40", []int{4, 40}, image.Rect(0, 0, 12, 4)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var images []atlas.SourceImage
			for i, size := range tc.sizes {
				images = append(images, solid(t, string(rune('a'+i)), size, size, red))
			}
			l := atlas.Build(images, opts)
			req := l.Request("tiny")
			plan := atlas.PlanExport(l, req)

			canvas, err := New(nil).Render(l)
			if tc.bounds.Empty() {
				require.ErrorIs(t, err, atlas.ErrEmptyCanvas)
				assert.Nil(t, canvas)
				_, err = reg.Encode(canvas, plan)
				require.ErrorIs(t, err, atlas.ErrEmptyCanvas)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.bounds, canvas.Bounds())
			assert.Zero(t, canvas.NRGBAAt(2, 0).A) // the 0px frame draws nothing
			assert.Equal(t, red, canvas.NRGBAAt(6, 0))

			data, err := reg.Encode(canvas, plan)
			require.NoError(t, err)
			assert.NotEmpty(t, data)

			m := manifest.FromLayout(l, req, plan)
			m.ComputeStats()
			assert.Empty(t, manifest.Validate(m, ""))
		})
	}
}
