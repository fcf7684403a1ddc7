package flake

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStyle(t *testing.T, opts Options) Style {
	t.Helper()
	s, err := opts.Style()
	require.NoError(t, err)
	return s
}

func TestExport_SVG(t *testing.T) {
	opts := testOptions()
	p, err := Generate(opts.Request())
	require.NoError(t, err)

	var buf bytes.Buffer
	err = (&SVGExporter{Frame: opts.Frame()}).Export(p, &buf, testStyle(t, opts))
	require.NoError(t, err)

	svg := buf.String()
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	for _, want := range []string{
		`width="200" height="200" viewBox="0 0 200 200"`,
		`<stop offset="0" stop-color="#0000ff"/>`,
		`<stop offset="1" stop-color="#00ffff"/>`,
		`stroke="#555555" stroke-width="3"`,
		`transform="translate(0 200) scale(1 -1)"`,
		`d="M35.355339,150 L52.022006,150 `,
		`fill="url(#fill)"`,
	} {
		assert.Contains(t, svg, want)
	}
	assert.NotContains(t, svg, "<rect")
	assert.Equal(t, 2, strings.Count(svg, "<path "))
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))
}

func TestExport_SVGStyle(t *testing.T) {
	p := MustSnowflake(Pt(10, 10), 1, 10)
	bg := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	s := Style{
		FillStart:       color.NRGBA{R: 255, A: 128},
		FillEnd:         color.NRGBA{G: 255, A: 255},
		Scale:           2,
		BackgroundColor: &bg,
	}

	var buf bytes.Buffer
	require.NoError(t, (&SVGExporter{Frame: FlakeFrame(10)}).Export(p, &buf, s))
	svg := buf.String()

	assert.Contains(t, svg, `width="80" height="80" viewBox="0 0 40 40"`)
	assert.Contains(t, svg, `stop-color="#ff0000" stop-opacity="0.501961"`)
	assert.Contains(t, svg, `<rect x="0" y="0" width="40" height="40" fill="#ffffff"/>`)
	// Without a stroke only the filled path is written.
	assert.Equal(t, 1, strings.Count(svg, "<path "))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestExport_SVGWriteError(t *testing.T) {
	p := MustSnowflake(Pt(0, 0), 1, 10)
	err := (&SVGExporter{Frame: FlakeFrame(10)}).Export(p, failingWriter{}, Style{})
	assert.EqualError(t, err, "disk full")

	err = (&SVGExporter{Frame: FlakeFrame(10)}).Export(&Path{}, &bytes.Buffer{}, Style{})
	assert.Error(t, err)
}

func TestExport_File(t *testing.T) {
	opts := testOptions()
	p, err := Generate(opts.Request())
	require.NoError(t, err)
	s := testStyle(t, opts)
	dir := t.TempDir()

	svgPath := filepath.Join(dir, "flake.svg")
	require.NoError(t, ExportFile(p, svgPath, opts.Frame(), s))
	data, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	for _, name := range []string{"flake.png", "flake.JPG", "flake.bmp"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, ExportFile(p, path, opts.Frame(), s))

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			img, _, err := image.Decode(f)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 200, 200), img.Bounds())
		})
	}
}

func TestExport_UnsupportedFormats(t *testing.T) {
	p := MustSnowflake(Pt(0, 0), 1, 10)
	dir := t.TempDir()

	for _, name := range []string{"flake.stl", "flake.dae", "flake"} {
		path := filepath.Join(dir, name)
		err := ExportFile(p, path, FlakeFrame(10), Style{})
		assert.True(t, errors.Is(err, ErrUnsupportedFormat), "%s: got %v", name, err)
		assert.NoFileExists(t, path)
	}
}

func TestExport_FileRemovedOnFailure(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"empty.svg", "empty.png"} {
		path := filepath.Join(dir, name)
		err := ExportFile(&Path{}, path, FlakeFrame(10), Style{})
		assert.Error(t, err)
		assert.NoFileExists(t, path)
	}
}
