package flake

import (
	"fmt"
	"iter"
	"math"
	"strings"
)

// Segment is a straight line from P0 to P1, the atomic drawing unit of a flake.
type Segment struct {
	P0 Point
	P1 Point
}

func (s Segment) String() string {
	return fmt.Sprintf("%s→%s", s.P0, s.P1)
}

func (s Segment) Start() Point { return s.P0 }
func (s Segment) End() Point   { return s.P1 }

// Length returns the length of the segment.
func (s Segment) Length() float64 {
	return s.P1.Sub(s.P0).Hypot()
}

// Path is an ordered, connected sequence of segments. Every segment starts
// where the previous one ended. A closed path additionally carries an implicit
// segment from its last point back to its first one.
//
// Paths are built with a [PathBuilder] and are not modified afterwards.
type Path struct {
	start  Point
	segs   []Segment
	closed bool
}

// Len returns the number of explicit segments in the path. The implicit
// closing segment of a closed path is not counted.
func (p *Path) Len() int {
	return len(p.segs)
}

// At returns the i-th segment.
func (p *Path) At(i int) Segment {
	return p.segs[i]
}

// Closed reports whether the path has been closed.
func (p *Path) Closed() bool {
	return p.closed
}

// Start returns the point the pen was moved to before drawing.
func (p *Path) Start() Point {
	return p.start
}

// End returns the point where the last explicit segment ends.
func (p *Path) End() Point {
	if len(p.segs) == 0 {
		return p.start
	}
	return p.segs[len(p.segs)-1].P1
}

// ClosingSegment returns the implicit segment joining the end of a closed path
// back to its start. For a well formed flake it is degenerate up to floating
// point drift.
func (p *Path) ClosingSegment() (Segment, bool) {
	if !p.closed {
		return Segment{}, false
	}
	return Segment{P0: p.End(), P1: p.start}, true
}

// Segments returns an iterator over the explicit segments of the path.
func (p *Path) Segments() iter.Seq2[int, Segment] {
	return func(yield func(int, Segment) bool) {
		for i, s := range p.segs {
			if !yield(i, s) {
				return
			}
		}
	}
}

// Points returns the vertices of the path: the start point followed by the end
// point of every segment.
func (p *Path) Points() []Point {
	pts := make([]Point, 0, len(p.segs)+1)
	pts = append(pts, p.start)
	for _, s := range p.segs {
		pts = append(pts, s.P1)
	}
	return pts
}

// BoundingBox returns the smallest rectangle enclosing every vertex of the path.
func (p *Path) BoundingBox() Rect {
	bbox := Rect{X0: p.start.X, Y0: p.start.Y, X1: p.start.X, Y1: p.start.Y}
	for _, s := range p.segs {
		bbox = bbox.UnionPoint(s.P1)
	}
	return bbox
}

// Perimeter returns the summed length of all segments, including the closing
// segment of a closed path.
func (p *Path) Perimeter() float64 {
	var sum float64
	for _, s := range p.segs {
		sum += s.Length()
	}
	if cs, ok := p.ClosingSegment(); ok {
		sum += cs.Length()
	}
	return sum
}

// SignedArea computes the area enclosed by the path using the shoelace formula.
// The result is positive for counter clockwise paths in y-up space. Open paths
// are treated as if they were closed.
func (p *Path) SignedArea() float64 {
	var sum float64
	for _, s := range p.segs {
		sum += Vec2(s.P0).Cross(Vec2(s.P1))
	}
	sum += Vec2(p.End()).Cross(Vec2(p.start))
	return sum * 0.5
}

// Transform returns a new path with every point scaled by scale around the
// coordinate origin and then translated by offset.
func (p *Path) Transform(scale float64, offset Vec2) *Path {
	tr := func(pt Point) Point {
		return Point{
			X: pt.X*scale + offset.X,
			Y: pt.Y*scale + offset.Y,
		}
	}
	np := &Path{
		start:  tr(p.start),
		segs:   make([]Segment, len(p.segs)),
		closed: p.closed,
	}
	for i, s := range p.segs {
		np.segs[i] = Segment{P0: tr(s.P0), P1: tr(s.P1)}
	}
	return np
}

// IsNaN reports whether any vertex of the path has a NaN coordinate.
func (p *Path) IsNaN() bool {
	for _, pt := range p.Points() {
		if pt.IsNaN() {
			return true
		}
	}
	return false
}

// String renders the path as SVG path data, in the path's own coordinate space.
func (p *Path) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "M%s,%s", fmtFloat(p.start.X), fmtFloat(p.start.Y))
	for _, s := range p.segs {
		fmt.Fprintf(&sb, " L%s,%s", fmtFloat(s.P1.X), fmtFloat(s.P1.Y))
	}
	if p.closed {
		sb.WriteString(" Z")
	}
	return sb.String()
}

// PathBuilder accumulates segments into a [Path]. Positions are tracked
// relatively: every line starts at the current pen position, which is then
// advanced by the line's displacement.
//
// The zero value is a builder with the pen at (0, 0).
type PathBuilder struct {
	path Path
	pen  Point
}

// NewPathBuilder returns a builder with room for n segments.
func NewPathBuilder(n int) *PathBuilder {
	return &PathBuilder{
		path: Path{segs: make([]Segment, 0, n)},
	}
}

// MoveTo moves the pen to pt without emitting a segment. It may only be called
// before the first segment has been emitted.
func (b *PathBuilder) MoveTo(pt Point) {
	if len(b.path.segs) > 0 {
		panic("flake: MoveTo after the path has started")
	}
	b.pen = pt
	b.path.start = pt
}

// RelLineTo emits a segment from the current pen position to the pen position
// displaced by v.
func (b *PathBuilder) RelLineTo(v Vec2) {
	if b.path.closed {
		panic("flake: RelLineTo on a closed path")
	}
	next := b.pen.Translate(v)
	b.path.segs = append(b.path.segs, Segment{P0: b.pen, P1: next})
	b.pen = next
}

// Pen returns the current pen position.
func (b *PathBuilder) Pen() Point {
	return b.pen
}

// Close marks the path as closed.
func (b *PathBuilder) Close() {
	b.path.closed = true
}

// Path returns the accumulated path. The builder must not be used afterwards.
func (b *PathBuilder) Path() *Path {
	p := b.path
	b.path = Path{}
	return &p
}

// fmtFloat formats f with at most six decimals and without exponents.
func fmtFloat(f float64) string {
	if f == 0 || math.Abs(f) < 1e-9 {
		return "0"
	}
	s := fmt.Sprintf("%.6f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
