package flake

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/esimov/flake/imop"
	"github.com/esimov/flake/utils"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/vector"
)

// Number of sides of the polygon approximating the round stroke joins.
const joinSides = 16

// MaxCanvasSize is the largest width or height, in pixels, a flake is
// rasterized at.
const MaxCanvasSize = 16384

// ErrCanvasTooLarge is returned when the frame scaled to pixels exceeds
// MaxCanvasSize in either direction.
var ErrCanvasTooLarge = errors.New("canvas too large")

// checkCanvas validates the pixel size of frame scaled by scale.
func checkCanvas(frame Rect, scale float64) (Size, error) {
	sz := frame.Size().Scale(scale).Ceil()
	if sz.Width > MaxCanvasSize || sz.Height > MaxCanvasSize {
		return sz, fmt.Errorf("%w: %v (at most %d pixels per side)", ErrCanvasTooLarge, sz, MaxCanvasSize)
	}
	if !(sz.Width > 0) || !(sz.Height > 0) {
		return sz, fmt.Errorf("invalid canvas size: %v", sz)
	}
	return sz, nil
}

// Style describes how a flake is painted.
type Style struct {
	Stroke        color.NRGBA
	StrokeWidth   float64
	FillStart     color.NRGBA
	FillEnd       color.NRGBA
	GradientAngle float64
	GradientSpace GradientSpace
	// Composite is the imop operation laying the fill (source) over the
	// stroke (backdrop).
	Composite string
	Blend     string
	Scale     float64

	BackgroundColor *color.NRGBA
	BackgroundImage image.Image
}

// Renderer paints a path.
type Renderer interface {
	StrokeAndFill(p *Path, s Style) (*image.NRGBA, error)
}

// Rasterizer renders paths into bitmaps the size of Frame multiplied by the
// style's scale factor. Paths are expected in y-up coordinates; the returned
// bitmap is y-down, as usual for images.
type Rasterizer struct {
	Frame Rect
}

var _ Renderer = (*Rasterizer)(nil)

// NewRasterizer returns a rasterizer drawing into frame.
func NewRasterizer(frame Rect) *Rasterizer {
	return &Rasterizer{Frame: frame}
}

// StrokeAndFill fills the closed path with the style's gradient and strokes
// its outline, then lays both over the background.
func (r *Rasterizer) StrokeAndFill(p *Path, s Style) (*image.NRGBA, error) {
	if p == nil || p.Len() == 0 {
		return nil, errors.New("nothing to render: empty path")
	}
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	sz, err := checkCanvas(r.Frame, scale)
	if err != nil {
		return nil, err
	}
	w, h := int(sz.Width), int(sz.Height)
	bounds := image.Rect(0, 0, w, h)

	// Device space: same orientation as the path, origin at the frame's corner.
	dp := p.Transform(scale, Vec(-r.Frame.X0*scale, -r.Frame.Y0*scale))

	fill := image.NewNRGBA(bounds)
	grad := newLinearGradient(bounds, dp.BoundingBox(), s)
	draw.DrawMask(fill, bounds, grad, image.Point{}, fillMask(dp, w, h), image.Point{}, draw.Over)

	stroke := image.NewNRGBA(bounds)
	if s.StrokeWidth > 0 {
		mask := strokeMask(dp, s.StrokeWidth*scale, w, h)
		draw.DrawMask(stroke, bounds, image.NewUniform(s.Stroke), image.Point{}, mask, image.Point{}, draw.Over)
	}

	comp := imop.InitOp()
	if s.Composite != "" {
		if err := comp.Set(s.Composite); err != nil {
			return nil, err
		}
	}
	var blend *imop.Blend
	if s.Blend != "" {
		blend = imop.NewBlend()
		if err := blend.Set(s.Blend); err != nil {
			return nil, err
		}
	}
	flake := imop.NewBitmap(bounds)
	comp.Draw(flake, fill, stroke, blend)

	img := flake.Img
	if bg := background(s, w, h); bg != nil {
		out := imop.NewBitmap(bounds)
		imop.InitOp().Draw(out, img, bg, nil)
		img = out.Img
	}

	return imaging.FlipV(img), nil
}

// fillMask rasterizes the area enclosed by p.
func fillMask(p *Path, w, h int) *image.Alpha {
	z := vector.NewRasterizer(w, h)
	start := p.Start()
	z.MoveTo(float32(start.X), float32(start.Y))
	for _, seg := range p.Segments() {
		z.LineTo(float32(seg.P1.X), float32(seg.P1.Y))
	}
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// strokeMask rasterizes the outline of p with the given width. Every segment
// becomes a quad and every vertex a round join. All of them are emitted with
// the same winding, so overlapping pieces saturate instead of cancelling out.
func strokeMask(p *Path, width float64, w, h int) *image.Alpha {
	z := vector.NewRasterizer(w, h)
	hw := width / 2

	addSegment := func(seg Segment) {
		d := seg.P1.Sub(seg.P0)
		l := d.Hypot()
		if l == 0 {
			return
		}
		n := d.Normal().Mul(hw / l)
		pts := [4]Point{
			seg.P0.Translate(n),
			seg.P1.Translate(n),
			seg.P1.Translate(n.Mul(-1)),
			seg.P0.Translate(n.Mul(-1)),
		}
		z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
		for _, pt := range pts[1:] {
			z.LineTo(float32(pt.X), float32(pt.Y))
		}
		z.ClosePath()
	}
	addJoin := func(c Point) {
		for i := 0; i < joinSides; i++ {
			// Clockwise, like the quads above.
			pt := c.Translate(VecFromDegrees(hw, -360*float64(i)/joinSides))
			if i == 0 {
				z.MoveTo(float32(pt.X), float32(pt.Y))
			} else {
				z.LineTo(float32(pt.X), float32(pt.Y))
			}
		}
		z.ClosePath()
	}

	addJoin(p.Start())
	for _, seg := range p.Segments() {
		addSegment(seg)
		addJoin(seg.P1)
	}
	if cs, ok := p.ClosingSegment(); ok {
		addSegment(cs)
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// background returns the backdrop the flake is laid over, or nil if the
// flake is drawn on a transparent canvas.
func background(s Style, w, h int) *image.NRGBA {
	switch {
	case s.BackgroundImage != nil:
		// The flake is flipped at the very end, so the backdrop is flipped too.
		return imaging.FlipV(imaging.Fill(s.BackgroundImage, w, h, imaging.Center, imaging.Lanczos))
	case s.BackgroundColor != nil:
		bg := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(bg, bg.Bounds(), image.NewUniform(*s.BackgroundColor), image.Point{}, draw.Src)
		return bg
	}
	return nil
}

// linearGradient paints a two color gradient across a rectangle along the
// given angle. Pixels beyond the rectangle take the color of the nearest end.
type linearGradient struct {
	bounds image.Rectangle
	center Point
	dir    Vec2
	span   float64
	lut    [256]color.NRGBA
}

func newLinearGradient(bounds image.Rectangle, area Rect, s Style) *linearGradient {
	g := &linearGradient{
		bounds: bounds,
		center: Pt((area.X0+area.X1)/2, (area.Y0+area.Y1)/2),
		dir:    VecFromDegrees(1, s.GradientAngle),
	}
	g.span = utils.Abs(area.Width()*g.dir.X) + utils.Abs(area.Height()*g.dir.Y)

	c0, _ := colorful.MakeColor(opaque(s.FillStart))
	c1, _ := colorful.MakeColor(opaque(s.FillEnd))
	for i := range g.lut {
		t := float64(i) / float64(len(g.lut)-1)
		var c colorful.Color
		switch s.GradientSpace {
		case Lab:
			c = c0.BlendLab(c1, t)
		case HCL:
			c = c0.BlendHcl(c1, t)
		default:
			c = c0.BlendRgb(c1, t)
		}
		r, gr, b := c.Clamped().RGB255()
		a := float64(s.FillStart.A)*(1-t) + float64(s.FillEnd.A)*t
		g.lut[i] = color.NRGBA{R: r, G: gr, B: b, A: uint8(math.Round(a))}
	}
	return g
}

func (g *linearGradient) ColorModel() color.Model { return color.NRGBAModel }
func (g *linearGradient) Bounds() image.Rectangle { return g.bounds }

func (g *linearGradient) At(x, y int) color.Color {
	t := 0.5
	if g.span > 0 {
		v := Pt(float64(x)+0.5, float64(y)+0.5).Sub(g.center)
		t = (v.X*g.dir.X+v.Y*g.dir.Y)/g.span + 0.5
	}
	i := int(math.Round(utils.Clamp(t, 0, 1) * float64(len(g.lut)-1)))
	return g.lut[i]
}

// opaque drops the alpha channel of c, which go-colorful does not model.
func opaque(c color.NRGBA) color.Color {
	c.A = 0xff
	return c
}
