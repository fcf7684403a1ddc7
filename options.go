package flake

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strings"

	"github.com/esimov/flake/imop"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// GradientSpace names the color space the fill gradient is interpolated in.
type GradientSpace string

const (
	RGB GradientSpace = "rgb"
	Lab GradientSpace = "lab"
	HCL GradientSpace = "hcl"
)

// Options holds the appearance and output settings of a flake. It is passed by
// value to everything that needs it and never shared as mutable state.
type Options struct {
	Length        float64       `yaml:"length"`
	Depth         int           `yaml:"depth"`
	Angle         float64       `yaml:"angle"`
	StrokeColor   string        `yaml:"stroke"`
	StrokeWidth   float64       `yaml:"strokeWidth"`
	FillStart     string        `yaml:"fillStart"`
	FillEnd       string        `yaml:"fillEnd"`
	GradientAngle float64       `yaml:"gradientAngle"`
	GradientSpace GradientSpace `yaml:"gradientSpace"`
	Background    string        `yaml:"background"`
	Composite     string        `yaml:"composite"`
	BlendMode     string        `yaml:"blend"`
	Scale         float64       `yaml:"scale"`
	ExportPath    string        `yaml:"export"`
}

// DefaultOptions returns the settings of the classic dark gray bordered,
// blue to cyan flake.
func DefaultOptions() Options {
	return Options{
		Length:        175,
		Depth:         5,
		StrokeColor:   "#555555",
		StrokeWidth:   3,
		FillStart:     "blue",
		FillEnd:       "cyan",
		GradientAngle: 90,
		GradientSpace: RGB,
		Composite:     imop.SrcOver,
		Scale:         1,
	}
}

// LoadOptions decodes YAML encoded settings from r on top of the defaults.
// Unknown keys are rejected. An empty document yields the defaults.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("could not decode the options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadOptionsFile reads the settings from a YAML file.
func LoadOptionsFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, fmt.Errorf("unable to open the config file: %w", err)
	}
	defer f.Close()

	return LoadOptions(f)
}

// Frame returns the rectangle the flake described by o is drawn in.
func (o Options) Frame() Rect {
	return FlakeFrame(o.Length)
}

// Request returns the generation request placing the flake at its legacy
// starting point inside its frame.
func (o Options) Request() GenerationRequest {
	return GenerationRequest{
		Origin:    FlakeStart(o.Length, o.Frame()),
		Depth:     o.Depth,
		Length:    o.Length,
		BaseAngle: o.Angle,
	}
}

// Validate reports the first setting that cannot be used.
func (o Options) Validate() error {
	if err := o.Request().Validate(); err != nil {
		return err
	}
	if !(o.StrokeWidth >= 0) || math.IsInf(o.StrokeWidth, 0) {
		return fmt.Errorf("invalid stroke width: %v", o.StrokeWidth)
	}
	if !(o.Scale > 0) || math.IsInf(o.Scale, 0) {
		return fmt.Errorf("invalid scale factor: %v", o.Scale)
	}
	if _, err := checkCanvas(o.Frame(), o.Scale); err != nil {
		return err
	}
	if math.IsNaN(o.GradientAngle) || math.IsInf(o.GradientAngle, 0) {
		return fmt.Errorf("invalid gradient angle: %v", o.GradientAngle)
	}
	switch o.GradientSpace {
	case RGB, Lab, HCL:
	default:
		return fmt.Errorf("unsupported gradient color space: %q", o.GradientSpace)
	}
	if !imop.IsValidOp(o.Composite) {
		return fmt.Errorf("unsupported composite operation: %q", o.Composite)
	}
	if o.BlendMode != "" && !imop.IsValidBlend(o.BlendMode) {
		return fmt.Errorf("unsupported blend mode: %q", o.BlendMode)
	}
	for _, c := range []struct{ name, value string }{
		{"stroke", o.StrokeColor},
		{"fill start", o.FillStart},
		{"fill end", o.FillEnd},
	} {
		if _, err := ParseColor(c.value); err != nil {
			return fmt.Errorf("invalid %s color: %w", c.name, err)
		}
	}
	return nil
}

// Style converts the appearance settings into a render style. A background
// given as a color is resolved here; image backgrounds are loaded by the
// [Processor].
func (o Options) Style() (Style, error) {
	if err := o.Validate(); err != nil {
		return Style{}, err
	}
	s := Style{
		StrokeWidth:   o.StrokeWidth,
		GradientAngle: o.GradientAngle,
		GradientSpace: o.GradientSpace,
		Composite:     o.Composite,
		Blend:         o.BlendMode,
		Scale:         o.Scale,
	}
	// The colors were checked by Validate.
	s.Stroke, _ = ParseColor(o.StrokeColor)
	s.FillStart, _ = ParseColor(o.FillStart)
	s.FillEnd, _ = ParseColor(o.FillEnd)

	if o.Background != "" {
		if c, err := ParseColor(o.Background); err == nil {
			s.BackgroundColor = &c
		}
	}
	return s, nil
}

// ParseColor parses a hex triplet (#rgb or #rrggbb), an SVG color keyword
// or "transparent".
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return color.NRGBA{}, errors.New("empty color")
	case strings.EqualFold(s, "transparent"):
		return color.NRGBA{}, nil
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(strings.ToLower(s))
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("unknown color %q", s)
}
