package imop

import (
	"fmt"

	"github.com/esimov/flake/utils"
)

const (
	Normal   = "normal"
	Darken   = "darken"
	Lighten  = "lighten"
	Multiply = "multiply"
	Screen   = "screen"
	Overlay  = "overlay"
)

var blendFns = map[string]func(cs, cb float64) float64{
	Normal:   func(cs, cb float64) float64 { return cs },
	Darken:   utils.Min[float64],
	Lighten:  utils.Max[float64],
	Multiply: func(cs, cb float64) float64 { return cs * cb },
	Screen:   func(cs, cb float64) float64 { return 1 - (1-cs)*(1-cb) },
	Overlay: func(cs, cb float64) float64 {
		if cb <= 0.5 {
			return 2 * cs * cb
		}
		return 1 - 2*(1-cs)*(1-cb)
	},
}

// IsValidBlend reports whether mode names a supported blend mode.
func IsValidBlend(mode string) bool {
	_, ok := blendFns[mode]
	return ok
}

// Blend holds the currently active blend mode.
type Blend struct {
	OpType string
}

// NewBlend initializes a new Blend in normal mode.
func NewBlend() *Blend {
	return &Blend{OpType: Normal}
}

// Set activates one of the supported blend modes.
func (o *Blend) Set(opType string) error {
	if !IsValidBlend(opType) {
		return fmt.Errorf("unsupported blend mode: %q", opType)
	}
	o.OpType = opType
	return nil
}

// Get returns the currently active blend mode.
func (o *Blend) Get() string {
	if len(o.OpType) > 0 {
		return o.OpType
	}
	return Normal
}
