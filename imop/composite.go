// Package imop implements the Porter-Duff composition operations used for
// laying the layers of a rendered flake over each other: the gradient fill, the
// stroke and the optional background.
//
// The image/draw core package implements only the source-over-destination and
// source operations. This package provides the rest of them, plus a handful of
// separable blend modes.
package imop

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/esimov/flake/utils"
)

const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// factors returns the Porter-Duff weights of the source and the backdrop,
// given their alpha values.
type factors func(as, ab float64) (fa, fb float64)

var compOps = map[string]factors{
	Clear:   func(as, ab float64) (float64, float64) { return 0, 0 },
	Copy:    func(as, ab float64) (float64, float64) { return 1, 0 },
	Dst:     func(as, ab float64) (float64, float64) { return 0, 1 },
	SrcOver: func(as, ab float64) (float64, float64) { return 1, 1 - as },
	DstOver: func(as, ab float64) (float64, float64) { return 1 - ab, 1 },
	SrcIn:   func(as, ab float64) (float64, float64) { return ab, 0 },
	DstIn:   func(as, ab float64) (float64, float64) { return 0, as },
	SrcOut:  func(as, ab float64) (float64, float64) { return 1 - ab, 0 },
	DstOut:  func(as, ab float64) (float64, float64) { return 0, 1 - as },
	SrcAtop: func(as, ab float64) (float64, float64) { return ab, 1 - as },
	DstAtop: func(as, ab float64) (float64, float64) { return 1 - ab, as },
	Xor:     func(as, ab float64) (float64, float64) { return 1 - ab, 1 - as },
}

// IsValidOp reports whether op names a supported composite operation.
func IsValidOp(op string) bool {
	_, ok := compOps[op]
	return ok
}

// Bitmap is the destination of a composite operation.
type Bitmap struct {
	Img *image.NRGBA
}

// NewBitmap allocates a transparent bitmap.
func NewBitmap(rect image.Rectangle) *Bitmap {
	return &Bitmap{
		Img: image.NewNRGBA(rect),
	}
}

// Composite holds the currently active composite operation.
type Composite struct {
	current string
}

// InitOp returns a Composite set to the default source-over operation.
func InitOp() *Composite {
	return &Composite{current: SrcOver}
}

// Set activates one of the supported composite operations.
func (op *Composite) Set(cop string) error {
	if !IsValidOp(cop) {
		return fmt.Errorf("unsupported composite operation: %q", cop)
	}
	op.current = cop
	return nil
}

// Get returns the currently active composite operation.
func (op *Composite) Get() string {
	return op.current
}

// Draw composes src over the dst backdrop into bitmap, pixel by pixel, using
// the active operation. If blend is not nil its mode is used to mix the source
// color with the backdrop color first. src and dst must have the same bounds
// as bitmap.
func (op *Composite) Draw(bitmap *Bitmap, src, dst *image.NRGBA, blend *Blend) {
	if bitmap == nil {
		bitmap = NewBitmap(src.Bounds())
	}
	fn := compOps[op.current]
	if fn == nil {
		fn = compOps[SrcOver]
	}
	var mix func(cs, cb float64) float64
	if blend != nil {
		mix = blendFns[blend.Get()]
	}

	b := bitmap.Img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s := src.NRGBAAt(x, y)
			d := dst.NRGBAAt(x, y)

			as, ab := norm(s.A), norm(d.A)
			cs := [3]float64{norm(s.R), norm(s.G), norm(s.B)}
			cb := [3]float64{norm(d.R), norm(d.G), norm(d.B)}

			if mix != nil {
				for i := range cs {
					cs[i] = (1-ab)*cs[i] + ab*mix(cs[i], cb[i])
				}
			}

			fa, fb := fn(as, ab)
			ao := fa*as + fb*ab
			if ao <= 0 {
				bitmap.Img.SetNRGBA(x, y, color.NRGBA{})
				continue
			}
			var co [3]float64
			for i := range co {
				co[i] = (fa*as*cs[i] + fb*ab*cb[i]) / ao
			}
			bitmap.Img.SetNRGBA(x, y, color.NRGBA{
				R: denorm(co[0]),
				G: denorm(co[1]),
				B: denorm(co[2]),
				A: denorm(ao),
			})
		}
	}
}

func norm(v uint8) float64 {
	return float64(v) / 255
}

func denorm(v float64) uint8 {
	return uint8(math.Round(utils.Clamp(v, 0, 1) * 255))
}
