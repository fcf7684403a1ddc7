package flake

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Defaults(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())

	req := opts.Request()
	assert.Equal(t, 5, req.Depth)
	assert.Equal(t, 175.0, req.Length)
	assert.Equal(t, FlakeStart(175, FlakeFrame(175)), req.Origin)
	assert.Equal(t, FlakeFrame(175), opts.Frame())
}

func TestOptions_LoadYAML(t *testing.T) {
	src := `
depth: 3
length: 50
angle: 15
stroke: "#ff0000"
strokeWidth: 1.5
gradientSpace: lab
background: white
composite: dst_over
blend: multiply
export: flake.svg
`
	opts, err := LoadOptions(strings.NewReader(src))
	require.NoError(t, err)

	want := DefaultOptions()
	want.Depth = 3
	want.Length = 50
	want.Angle = 15
	want.StrokeColor = "#ff0000"
	want.StrokeWidth = 1.5
	want.GradientSpace = Lab
	want.Background = "white"
	want.Composite = "dst_over"
	want.BlendMode = "multiply"
	want.ExportPath = "flake.svg"
	diff(t, want, opts)
}

func TestOptions_LoadEmptyDocument(t *testing.T) {
	opts, err := LoadOptions(strings.NewReader(""))
	require.NoError(t, err)
	diff(t, DefaultOptions(), opts)
}

func TestOptions_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flake.yaml")
	require.NoError(t, os.WriteFile(path, []byte("depth: 2\nfillEnd: \"#0f0\"\n"), 0644))

	opts, err := LoadOptionsFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, opts.Depth)
	assert.Equal(t, "#0f0", opts.FillEnd)

	_, err = LoadOptionsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOptions_LoadRejectsUnknownKeys(t *testing.T) {
	_, err := LoadOptions(strings.NewReader("depth: 2\nsides: 6\n"))
	assert.Error(t, err)
}

func TestOptions_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *Options)
		err    error
	}{
		{"too deep", func(o *Options) { o.Depth = MaxDepth + 1 }, ErrInvalidDepth},
		{"negative depth", func(o *Options) { o.Depth = -2 }, ErrInvalidDepth},
		{"zero length", func(o *Options) { o.Length = 0 }, ErrInvalidLength},
		{"negative stroke width", func(o *Options) { o.StrokeWidth = -1 }, nil},
		{"zero scale", func(o *Options) { o.Scale = 0 }, nil},
		{"huge length", func(o *Options) { o.Length = 1e9 }, ErrCanvasTooLarge},
		{"huge scale", func(o *Options) { o.Scale = 30 }, ErrCanvasTooLarge},
		{"unknown gradient space", func(o *Options) { o.GradientSpace = "cmyk" }, nil},
		{"unknown composite", func(o *Options) { o.Composite = "src_under" }, nil},
		{"unknown blend", func(o *Options) { o.BlendMode = "dodge" }, nil},
		{"bad stroke color", func(o *Options) { o.StrokeColor = "notacolor" }, nil},
		{"empty fill color", func(o *Options) { o.FillStart = "" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)

			err := opts.Validate()
			require.Error(t, err)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "got error %v, want %v", err, tt.err)
			}
			_, err = opts.Style()
			assert.Error(t, err)
		})
	}
}

func TestOptions_Style(t *testing.T) {
	opts := DefaultOptions()
	opts.Background = "white"
	opts.BlendMode = "screen"

	s, err := opts.Style()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255}, s.Stroke)
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, s.FillStart)
	assert.Equal(t, color.NRGBA{G: 255, B: 255, A: 255}, s.FillEnd)
	assert.Equal(t, "screen", s.Blend)
	require.NotNil(t, s.BackgroundColor)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, *s.BackgroundColor)
	assert.Nil(t, s.BackgroundImage)

	// Anything that is not a color is left to the processor to load.
	opts.Background = "background.png"
	s, err = opts.Style()
	require.NoError(t, err)
	assert.Nil(t, s.BackgroundColor)
}

func TestOptions_ParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "#f00", want: color.NRGBA{R: 255, A: 255}},
		{in: "#00FF00", want: color.NRGBA{G: 255, A: 255}},
		{in: " #102030 ", want: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}},
		{in: "DarkGray", want: color.NRGBA{R: 169, G: 169, B: 169, A: 255}},
		{in: "cyan", want: color.NRGBA{G: 255, B: 255, A: 255}},
		{in: "transparent", want: color.NRGBA{}},
		{in: "", wantErr: true},
		{in: "#12", wantErr: true},
		{in: "#gggggg", wantErr: true},
		{in: "nocolor", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
		})
	}
}
