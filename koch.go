package flake

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// MaxDepth is the deepest recursion Snowflake accepts. A flake of depth d has
// 3·4^d segments, so anything deeper than this is impractical to draw.
const MaxDepth = 10

// Angles, in degrees, at which the three sides of a flake are drawn.
var sideAngles = [3]float64{0, -120, -240}

// Angle offsets, in degrees, of the four strokes of a Koch bump: _/\_
var bumpAngles = [4]float64{0, 60, -60, 0}

var (
	// ErrInvalidDepth is returned for negative or too deep recursion levels.
	ErrInvalidDepth = errors.New("invalid flake depth")
	// ErrInvalidLength is returned for segment lengths that are not finite and positive.
	ErrInvalidLength = errors.New("invalid segment length")
)

// GenerationRequest holds the parameters of a single flake generation.
type GenerationRequest struct {
	Origin    Point
	Depth     int
	Length    float64
	BaseAngle float64
}

// Validate checks the request's preconditions.
func (r GenerationRequest) Validate() error {
	if r.Depth < 0 || r.Depth > MaxDepth {
		return fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidDepth, r.Depth, MaxDepth)
	}
	if !(r.Length > 0) || math.IsInf(r.Length, 0) {
		return fmt.Errorf("%w: %v (must be a finite positive number)", ErrInvalidLength, r.Length)
	}
	if math.IsNaN(r.BaseAngle) || math.IsInf(r.BaseAngle, 0) {
		return fmt.Errorf("invalid base angle: %v", r.BaseAngle)
	}
	if r.Origin.IsNaN() {
		return fmt.Errorf("invalid origin: %v", r.Origin)
	}
	return nil
}

// SegmentCount returns the number of segments of a flake with the given depth.
// Depths outside [0, MaxDepth] have no flake and count 0 segments.
func SegmentCount(depth int) int {
	if depth < 0 || depth > MaxDepth {
		return 0
	}
	return 3 << (2 * depth)
}

// KochEdge draws one edge of the flake onto b, starting at the builder's pen.
//
// At depth 1 the edge is a single bump of four strokes of the given length,
// turning by +60° and -60° relative to baseAngle. Every further level replaces
// each stroke with a bump a third of its size. Depth 0 draws one straight
// stroke covering the same span as the bump would, 3·length.
//
// The edge always ends 3·length away from where it started, in the direction
// of baseAngle.
func KochEdge(b *PathBuilder, depth int, length, baseAngle float64) {
	switch {
	case depth == 0:
		b.RelLineTo(VecFromDegrees(3*length, baseAngle))
	case depth == 1:
		for _, a := range bumpAngles {
			b.RelLineTo(VecFromDegrees(length, baseAngle+a))
		}
	default:
		for _, a := range bumpAngles {
			KochEdge(b, depth-1, length/3, baseAngle+a)
		}
	}
}

// Generate builds the closed flake described by req. The three sides are drawn
// at req.BaseAngle plus 0°, -120° and -240°.
func Generate(req GenerationRequest) (*Path, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	b := NewPathBuilder(SegmentCount(req.Depth))
	b.MoveTo(req.Origin)
	for _, a := range sideAngles {
		KochEdge(b, req.Depth, req.Length, req.BaseAngle+a)
	}
	b.Close()

	return b.Path(), nil
}

// Snowflake builds a closed flake of the given depth starting at origin. The
// first side is drawn towards the positive x axis.
func Snowflake(origin Point, depth int, length float64) (*Path, error) {
	return Generate(GenerationRequest{
		Origin: origin,
		Depth:  depth,
		Length: length,
	})
}

// MustSnowflake is like Snowflake but panics if the parameters are invalid.
func MustSnowflake(origin Point, depth int, length float64) *Path {
	p, err := Snowflake(origin, depth, length)
	if err != nil {
		panic(err)
	}
	return p
}

// MeasureSnowflake builds a flake and reports the wall-clock time it took.
func MeasureSnowflake(origin Point, depth int, length float64) (*Path, time.Duration, error) {
	now := time.Now()
	p, err := Snowflake(origin, depth, length)
	return p, time.Since(now), err
}

// FlakeFrame returns the rectangle a flake of the given segment length is
// drawn into. It is four lengths wide and high, anchored at the origin.
func FlakeFrame(length float64) Rect {
	return NewRectFromOrigin(Point{}, Sz(4*length, 4*length))
}

// FlakeStart returns the legacy starting point used to place a flake inside
// rect. The horizontal offset is an empirical formula which roughly centers
// flakes of common sizes; it is not derived from the flake's geometry.
func FlakeStart(length float64, rect Rect) Point {
	return Point{
		X: length / math.Sqrt(2*length/50),
		Y: rect.MaxY() - length,
	}
}
