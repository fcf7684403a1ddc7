package flake

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when a path is exported to a file type
// that has no exporter.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Exporter serializes a path into a document format.
type Exporter interface {
	Export(p *Path, w io.Writer, s Style) error
}

// SVGExporter writes paths as standalone SVG documents whose view box is Frame.
type SVGExporter struct {
	Frame Rect
}

var _ Exporter = (*SVGExporter)(nil)

// printer wraps an io.Writer and remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Export writes p as an SVG document. The path is kept in its y-up
// coordinates and flipped by a group transform.
func (e *SVGExporter) Export(p *Path, w io.Writer, s Style) error {
	if p == nil || p.Len() == 0 {
		return errors.New("nothing to export: empty path")
	}
	f := e.Frame
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	dir := VecFromDegrees(0.5, s.GradientAngle)

	pr := &printer{w: w}
	pr.printf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	pr.printf("<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%s\" height=\"%s\" viewBox=\"%s %s %s %s\">\n",
		fmtFloat(f.Width()*scale), fmtFloat(f.Height()*scale),
		fmtFloat(f.X0), fmtFloat(f.Y0), fmtFloat(f.Width()), fmtFloat(f.Height()))
	pr.printf("  <defs>\n")
	pr.printf("    <linearGradient id=\"fill\" gradientUnits=\"objectBoundingBox\" x1=\"%s\" y1=\"%s\" x2=\"%s\" y2=\"%s\">\n",
		fmtFloat(0.5-dir.X), fmtFloat(0.5-dir.Y), fmtFloat(0.5+dir.X), fmtFloat(0.5+dir.Y))
	pr.printf("      <stop offset=\"0\" %s/>\n", svgPaint("stop-color", "stop-opacity", s.FillStart))
	pr.printf("      <stop offset=\"1\" %s/>\n", svgPaint("stop-color", "stop-opacity", s.FillEnd))
	pr.printf("    </linearGradient>\n")
	pr.printf("  </defs>\n")
	if s.BackgroundColor != nil {
		pr.printf("  <rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" %s/>\n",
			fmtFloat(f.X0), fmtFloat(f.Y0), fmtFloat(f.Width()), fmtFloat(f.Height()),
			svgPaint("fill", "fill-opacity", *s.BackgroundColor))
	}
	pr.printf("  <g transform=\"translate(0 %s) scale(1 -1)\">\n", fmtFloat(f.Y0+f.Y1))
	if s.StrokeWidth > 0 {
		pr.printf("    <path d=\"%s\" fill=\"none\" %s stroke-width=\"%s\" stroke-linejoin=\"round\" stroke-linecap=\"round\"/>\n",
			p, svgPaint("stroke", "stroke-opacity", s.Stroke), fmtFloat(s.StrokeWidth))
	}
	pr.printf("    <path d=\"%s\" fill=\"url(#fill)\" stroke=\"none\"/>\n", p)
	pr.printf("  </g>\n")
	pr.printf("</svg>\n")

	return pr.err
}

// svgPaint formats c as a color attribute plus, for translucent colors, an
// opacity attribute.
func svgPaint(colorAttr, opacityAttr string, c color.NRGBA) string {
	attr := fmt.Sprintf("%s=\"#%02x%02x%02x\"", colorAttr, c.R, c.G, c.B)
	if c.A != 0xff {
		attr += fmt.Sprintf(" %s=\"%s\"", opacityAttr, fmtFloat(float64(c.A)/255))
	}
	return attr
}

// ExportFile writes p into filePath, choosing the format from the file
// extension: SVG documents or raster images rendered into frame. The file is
// removed if the export fails.
func ExportFile(p *Path, filePath string, frame Rect, s Style) (err error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	var export func(w io.Writer) error
	switch ext {
	case ".svg":
		export = func(w io.Writer) error {
			return (&SVGExporter{Frame: frame}).Export(p, w, s)
		}
	case ".png", ".jpg", ".jpeg", ".bmp":
		export = func(w io.Writer) error {
			img, err := NewRasterizer(frame).StrokeAndFill(p, s)
			if err != nil {
				return err
			}
			return encodeImg(w, ext, img)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("unable to create the export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			os.Remove(filePath)
		}
	}()

	if err = export(f); err != nil {
		return fmt.Errorf("could not export the flake: %w", err)
	}
	return nil
}
