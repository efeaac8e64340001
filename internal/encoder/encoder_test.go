package encoder

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEncoder struct {
	format    atlas.Format
	available bool
	quality   int
}

func (f *fakeEncoder) Format() atlas.Format { return f.format }
func (f *fakeEncoder) Available() bool      { return f.available }
func (f *fakeEncoder) Encode(_ image.Image, q int) ([]byte, error) {
	f.quality = q
	return []byte(f.format), nil
}

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: uint8(x * 40), B: 10, A: 255})
		}
	}
	return img
}

func TestQuality(t *testing.T) {
	assert.Equal(t, 90, Quality(0.9))
	assert.Equal(t, 90, Quality(0))
	assert.Equal(t, 90, Quality(1.5))
	assert.Equal(t, 100, Quality(1))
	assert.Equal(t, 1, Quality(0.001))
}

func TestPNGEncoder_RoundTrip(t *testing.T) {
	data, err := (&PNGEncoder{}).Encode(testImage(), 0)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())
}

func TestJPEGEncoder(t *testing.T) {
	data, err := (&JPEGEncoder{}).Encode(testImage(), 90)
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Width)
}

func TestWebPEncoder_RejectsOversize(t *testing.T) {
	enc := &WebPEncoder{}
	if !enc.Available() {
		t.Skip("cwebp not installed")
	}
	img := image.NewNRGBA(image.Rect(0, 0, atlas.MaxWebPDimension+1, 1))
	_, err := enc.Encode(img, 90)
	require.ErrorIs(t, err, ErrWebPTooWide)
}

func TestRegistry_Negotiate(t *testing.T) {
	r := NewRegistryWith(
		&fakeEncoder{format: atlas.FormatWebP, available: false},
		&PNGEncoder{},
		&JPEGEncoder{},
	)
	assert.Equal(t, []atlas.Format{atlas.FormatPNG, atlas.FormatJPEG}, r.Available())

	f, ok := r.Negotiate(atlas.FormatWebP)
	assert.False(t, ok)
	assert.Equal(t, atlas.FormatPNG, f)

	f, ok = r.Negotiate(atlas.FormatJPEG)
	assert.True(t, ok)
	assert.Equal(t, atlas.FormatJPEG, f)
	assert.Equal(t, "encoders: png, jpg", r.String())
}

func TestRegistry_EncodeFollowsPlan(t *testing.T) {
	webp := &fakeEncoder{format: atlas.FormatWebP, available: true}
	pngEnc := &fakeEncoder{format: atlas.FormatPNG, available: true}
	r := NewRegistryWith(webp, pngEnc)

	l := atlas.Layout{CanvasWidth: atlas.MaxWebPDimension + 1}
	plan := atlas.PlanExport(l, atlas.ExportRequest{BaseName: "x", Format: atlas.FormatWebP})

	data, err := r.Encode(testImage(), plan)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, 90, pngEnc.quality)
	assert.Zero(t, webp.quality)
}

func TestRegistry_EncodeMissing(t *testing.T) {
	r := NewRegistryWith(&PNGEncoder{})
	_, err := r.Encode(testImage(), atlas.ExportPlan{Format: atlas.FormatJPEG})
	require.Error(t, err)
}

func TestRegistry_EncodeRejectsEmptyCanvas(t *testing.T) {
	r := NewRegistryWith(&PNGEncoder{})
	plan := atlas.ExportPlan{Format: atlas.FormatPNG}

	var canvas *image.NRGBA
	for _, img := range []image.Image{nil, canvas, image.NewNRGBA(image.Rect(0, 0, 8, 0))} {
		_, err := r.Encode(img, plan)
		require.ErrorIs(t, err, atlas.ErrEmptyCanvas)
	}
}
