package flake

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testOptions describe a small flake: a 200×200 frame with a depth 2 flake
// starting at (35.36, 150) whose base triangle points down.
func testOptions() Options {
	opts := DefaultOptions()
	opts.Length = 50
	opts.Depth = 2
	return opts
}

func renderTestFlake(t *testing.T, opts Options) *image.NRGBA {
	t.Helper()
	p, err := Generate(opts.Request())
	require.NoError(t, err)
	s, err := opts.Style()
	require.NoError(t, err)

	img, err := NewRasterizer(opts.Frame()).StrokeAndFill(p, s)
	require.NoError(t, err)
	return img
}

func assertColor(t *testing.T, want color.NRGBA, got color.NRGBA, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 2, msgAndArgs...)
	assert.InDelta(t, want.G, got.G, 2, msgAndArgs...)
	assert.InDelta(t, want.B, got.B, 2, msgAndArgs...)
	assert.InDelta(t, want.A, got.A, 2, msgAndArgs...)
}

func TestRender_CanvasSize(t *testing.T) {
	opts := testOptions()
	img := renderTestFlake(t, opts)
	assert.Equal(t, image.Rect(0, 0, 200, 200), img.Bounds())

	opts.Scale = 1.5
	img = renderTestFlake(t, opts)
	assert.Equal(t, image.Rect(0, 0, 300, 300), img.Bounds())
}

func TestRender_FillAndCoverage(t *testing.T) {
	img := renderTestFlake(t, testOptions())

	// The centroid of the base triangle, flipped to image coordinates.
	c := img.NRGBAAt(110, 93)
	assert.Equal(t, uint8(255), c.A)
	assert.Equal(t, uint8(0), c.R)
	assert.Equal(t, uint8(255), c.B)

	for _, pt := range []image.Point{{0, 0}, {199, 0}, {0, 199}, {199, 199}} {
		assert.Equal(t, color.NRGBA{}, img.NRGBAAt(pt.X, pt.Y), "pixel %v", pt)
	}
}

func TestRender_GradientSpansTheFlake(t *testing.T) {
	opts := testOptions()
	opts.StrokeWidth = 0
	opts.FillStart = "black"
	opts.FillEnd = "white"
	img := renderTestFlake(t, opts)

	// With the default 90° angle the gradient runs bottom to top.
	top := img.NRGBAAt(110, 30)
	bottom := img.NRGBAAt(110, 170)
	assert.Greater(t, top.R, bottom.R)
	assert.Greater(t, top.R, uint8(200))
	assert.Less(t, bottom.R, uint8(55))
}

func TestRender_Orientation(t *testing.T) {
	img := renderTestFlake(t, testOptions())

	// The bump of the first side points up, to the top of the image, while
	// nothing reaches below the bottom vertex of the base triangle.
	assert.Equal(t, uint8(255), img.NRGBAAt(110, 20).A)
	assert.Equal(t, uint8(0), img.NRGBAAt(110, 190).A)
}

func TestRender_Stroke(t *testing.T) {
	img := renderTestFlake(t, testOptions())

	// Right above the first segment of the top side: stroke only.
	stroke := color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255}
	assertColor(t, stroke, img.NRGBAAt(40, 49))

	opts := testOptions()
	opts.StrokeWidth = 0
	img = renderTestFlake(t, opts)
	assert.Equal(t, uint8(0), img.NRGBAAt(40, 49).A)
}

func TestRender_Composite(t *testing.T) {
	opts := testOptions()
	opts.Composite = "dst"
	img := renderTestFlake(t, opts)

	// Only the stroke survives.
	assert.Equal(t, uint8(0), img.NRGBAAt(110, 93).A)
	assertColor(t, color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255}, img.NRGBAAt(40, 49))
}

func TestRender_BackgroundColor(t *testing.T) {
	opts := testOptions()
	opts.Background = "white"
	img := renderTestFlake(t, opts)

	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, uint8(255), img.NRGBAAt(110, 93).B)
	assert.Equal(t, uint8(0), img.NRGBAAt(110, 93).R)
}

func TestRender_BackgroundImage(t *testing.T) {
	bg := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for i := 0; i < len(bg.Pix); i += 4 {
		copy(bg.Pix[i:i+4], []uint8{255, 0, 0, 255})
	}

	opts := testOptions()
	p, err := Generate(opts.Request())
	require.NoError(t, err)
	s, err := opts.Style()
	require.NoError(t, err)
	s.BackgroundImage = bg

	img, err := NewRasterizer(opts.Frame()).StrokeAndFill(p, s)
	require.NoError(t, err)
	assertColor(t, color.NRGBA{R: 255, A: 255}, img.NRGBAAt(0, 0))
	assertColor(t, color.NRGBA{R: 255, A: 255}, img.NRGBAAt(199, 199))
}

func TestRender_Errors(t *testing.T) {
	r := NewRasterizer(FlakeFrame(50))

	_, err := r.StrokeAndFill(&Path{}, Style{})
	assert.Error(t, err)

	p := MustSnowflake(Pt(10, 10), 1, 10)
	_, err = r.StrokeAndFill(p, Style{Composite: "bogus"})
	assert.Error(t, err)
	_, err = r.StrokeAndFill(p, Style{Blend: "bogus"})
	assert.Error(t, err)

	_, err = NewRasterizer(Rect{}).StrokeAndFill(p, Style{})
	assert.Error(t, err)
}

func TestRender_CanvasLimit(t *testing.T) {
	p := MustSnowflake(FlakeStart(1e9, FlakeFrame(1e9)), 1, 1e9)
	_, err := NewRasterizer(FlakeFrame(1e9)).StrokeAndFill(p, Style{})
	assert.ErrorIs(t, err, ErrCanvasTooLarge)

	small := MustSnowflake(Pt(10, 10), 1, 10)
	_, err = NewRasterizer(FlakeFrame(10)).StrokeAndFill(small, Style{Scale: 1e6})
	assert.ErrorIs(t, err, ErrCanvasTooLarge)

	// The largest frame allowed still fits.
	sz, err := checkCanvas(FlakeFrame(MaxCanvasSize/4), 1)
	require.NoError(t, err)
	assert.Equal(t, Sz(MaxCanvasSize, MaxCanvasSize), sz)
}
