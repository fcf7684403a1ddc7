package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/esimov/flake"
	"github.com/esimov/flake/utils"
)

const HelpBanner = `
┌─┐┬  ┌─┐┬┌─┌─┐
├┤ │  ├─┤├┴┐├┤
└  ┴─┘┴ ┴┴ ┴└─┘

Koch snowflake generator.
    Version: %s

`

// pipeName is the file name that indicates stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	destination   = flag.String("out", pipeName, "Destination file, pipe or directory (renders every depth up to -depth)")
	config        = flag.String("config", "", "YAML config file; flags set explicitly take precedence")
	length        = flag.Float64("len", 175, "Length of a single segment at depth 1")
	depth         = flag.Int("depth", 5, fmt.Sprintf("Recursion depth (0-%d)", flake.MaxDepth))
	angle         = flag.Float64("angle", 0, "Rotation of the flake in degrees")
	strokeColor   = flag.String("stroke", "#555555", "Stroke color")
	strokeWidth   = flag.Float64("width", 3, "Stroke width")
	fillStart     = flag.String("fill-start", "blue", "Gradient start color")
	fillEnd       = flag.String("fill-end", "cyan", "Gradient end color")
	gradientAngle = flag.Float64("grad-angle", 90, "Gradient angle in degrees")
	gradientSpace = flag.String("grad-space", "rgb", "Gradient interpolation color space (rgb, lab, hcl)")
	background    = flag.String("bg", "", "Background color, image file or image URL")
	composite     = flag.String("comp", "src_over", "Composite operation laying the fill over the stroke")
	blend         = flag.String("blend", "", "Blend mode mixing the fill with the stroke")
	scale         = flag.Float64("scale", 1, "Output scale factor")
	exportPath    = flag.String("export", "", "Also export the flake to this file (.svg, .png, .jpg, .bmp)")
	ext           = flag.String("ext", ".png", "File type of the images rendered in series mode")
	workers       = flag.Int("conc", runtime.NumCPU(), "Number of flakes to render concurrently in series mode")
	version       = flag.Bool("v", false, "Show the version")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Printf("flake version: %s\n", Version)
		return
	}

	opts, err := loadOptions()
	if err != nil {
		flag.Usage()
		log.Fatalf("%s %s",
			utils.DecorateText("\nInvalid settings:", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	p := flake.NewProcessor(opts)
	err = p.Execute(&flake.Ops{
		Dst:      *destination,
		PipeName: pipeName,
		Ext:      *ext,
		Workers:  *workers,
	})
	if err != nil {
		log.Fatalf("%s%s",
			utils.DecorateText("\nError generating the snowflake: ", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
		)
	}
}

// loadOptions layers the explicitly set flags over the config file, if any,
// over the default options.
func loadOptions() (flake.Options, error) {
	opts := flake.DefaultOptions()
	if *config != "" {
		var err error
		if opts, err = flake.LoadOptionsFile(*config); err != nil {
			return flake.Options{}, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "len":
			opts.Length = *length
		case "depth":
			opts.Depth = *depth
		case "angle":
			opts.Angle = *angle
		case "stroke":
			opts.StrokeColor = *strokeColor
		case "width":
			opts.StrokeWidth = *strokeWidth
		case "fill-start":
			opts.FillStart = *fillStart
		case "fill-end":
			opts.FillEnd = *fillEnd
		case "grad-angle":
			opts.GradientAngle = *gradientAngle
		case "grad-space":
			opts.GradientSpace = flake.GradientSpace(*gradientSpace)
		case "bg":
			opts.Background = *background
		case "comp":
			opts.Composite = *composite
		case "blend":
			opts.BlendMode = *blend
		case "scale":
			opts.Scale = *scale
		case "export":
			opts.ExportPath = *exportPath
		}
	})

	return opts, opts.Validate()
}
