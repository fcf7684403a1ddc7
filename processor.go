package flake

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/esimov/flake/utils"
)

// Processor generates a flake from its options and writes it out.
type Processor struct {
	Options  Options
	Renderer Renderer
	Spinner  *utils.Spinner
	// GenTime is how long the last call to Generate spent building the path.
	GenTime time.Duration
}

// NewProcessor returns a processor rendering with a Rasterizer sized to the
// flake's frame.
func NewProcessor(opts Options) *Processor {
	return &Processor{
		Options:  opts,
		Renderer: NewRasterizer(opts.Frame()),
	}
}

// Generate builds the flake path and records the time it took.
func (p *Processor) Generate() (*Path, error) {
	now := time.Now()
	path, err := Generate(p.Options.Request())
	p.GenTime = time.Since(now)
	if err != nil {
		return nil, err
	}
	return path, nil
}

// Style resolves the render style, loading the background image if the
// background setting is a file or URL rather than a color.
func (p *Processor) Style() (Style, error) {
	s, err := p.Options.Style()
	if err != nil {
		return Style{}, err
	}
	if bg := p.Options.Background; bg != "" && s.BackgroundColor == nil {
		img, err := loadBackground(bg)
		if err != nil {
			return Style{}, fmt.Errorf("could not load the background: %w", err)
		}
		s.BackgroundImage = img
	}
	return s, nil
}

// Render generates the flake and rasterizes it.
func (p *Processor) Render() (*image.NRGBA, error) {
	path, err := p.Generate()
	if err != nil {
		return nil, err
	}
	s, err := p.Style()
	if err != nil {
		return nil, err
	}
	return p.renderer().StrokeAndFill(path, s)
}

// Process generates the flake and writes it to w. Files are encoded in the
// format named by their extension, .svg included. Anything else, like a pipe,
// receives a PNG image. If an export path is configured the flake is exported
// there as well.
func (p *Processor) Process(w io.Writer) error {
	path, err := p.Generate()
	if err != nil {
		return err
	}
	s, err := p.Style()
	if err != nil {
		return err
	}

	var ext string
	if f, ok := w.(*os.File); ok {
		ext = strings.ToLower(filepath.Ext(f.Name()))
	}
	if ext == ".svg" {
		err = (&SVGExporter{Frame: p.Options.Frame()}).Export(path, w, s)
	} else {
		var img *image.NRGBA
		img, err = p.renderer().StrokeAndFill(path, s)
		if err != nil {
			return err
		}
		err = encodeImg(w, ext, img)
	}
	if err != nil {
		return err
	}

	if p.Options.ExportPath != "" {
		return ExportFile(path, p.Options.ExportPath, p.Options.Frame(), s)
	}
	return nil
}

func (p *Processor) renderer() Renderer {
	if p.Renderer == nil {
		return NewRasterizer(p.Options.Frame())
	}
	return p.Renderer
}
