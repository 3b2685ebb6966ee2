package geo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
)

// Op identifies a path command.
type Op int

const (
	OpMove Op = iota
	OpLine
	OpQuad
	OpCubic
	OpClose
)

var opNames = [...]string{"M", "L", "Q", "C", "Z"}

// String returns the SVG letter for the command.
func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "?"
	}
	return opNames[o]
}

// MarshalText encodes the op as its SVG letter.
func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an SVG letter.
func (o *Op) UnmarshalText(b []byte) error {
	for i, name := range opNames {
		if name == string(b) {
			*o = Op(i)
			return nil
		}
	}
	return fmt.Errorf("unknown path op %q", b)
}

// Command is one renderer-neutral drawing instruction. Pts holds the control
// points followed by the end point: none for Close, one for Move/Line, two
// for Quad, three for Cubic.
type Command struct {
	Op  Op        `json:"op"`
	Pts []Point2D `json:"pts,omitempty"`
}

// End returns the point the pen rests on after the command.
func (c Command) End() (Point2D, bool) {
	if len(c.Pts) == 0 {
		return Point2D{}, false
	}
	return c.Pts[len(c.Pts)-1], true
}

// Path is an ordered command sequence.
type Path []Command

// MoveTo appends a Move command.
func (p *Path) MoveTo(pt Point2D) {
	*p = append(*p, Command{Op: OpMove, Pts: []Point2D{pt}})
}

// LineTo appends a Line command.
func (p *Path) LineTo(pt Point2D) {
	*p = append(*p, Command{Op: OpLine, Pts: []Point2D{pt}})
}

// QuadTo appends a quadratic Bezier command.
func (p *Path) QuadTo(ctrl, pt Point2D) {
	*p = append(*p, Command{Op: OpQuad, Pts: []Point2D{ctrl, pt}})
}

// CubicTo appends a cubic Bezier command.
func (p *Path) CubicTo(c1, c2, pt Point2D) {
	*p = append(*p, Command{Op: OpCubic, Pts: []Point2D{c1, c2, pt}})
}

// Close closes the current subpath.
func (p *Path) Close() {
	*p = append(*p, Command{Op: OpClose})
}

// PolygonPath returns a straight-edged closed path through ring. Fewer than
// two points produce an empty path.
func PolygonPath(ring []Point2D) Path {
	if len(ring) < 2 {
		return nil
	}
	var p Path
	p.MoveTo(ring[0])
	for _, pt := range ring[1:] {
		p.LineTo(pt)
	}
	p.Close()
	return p
}

// Translate returns a copy of the path shifted by d.
func (p Path) Translate(d Point2D) Path {
	out := make(Path, len(p))
	for i, c := range p {
		out[i] = Command{Op: c.Op, Pts: Translate(c.Pts, d)}
	}
	return out
}

// ControlBounds returns the bounding box of every point in the path,
// control points included. It always contains the rendered curve.
func (p Path) ControlBounds() r2.Rect {
	r := r2.EmptyRect()
	for _, c := range p {
		for _, pt := range c.Pts {
			r = r.AddPoint(pt.R2())
		}
	}
	return r
}

// SVG formats the path as SVG path data, e.g. "M 0 0 L 10 0 Z".
func (p Path) SVG() string {
	var sb strings.Builder
	for i, c := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.Op.String())
		for _, pt := range c.Pts {
			sb.WriteByte(' ')
			sb.WriteString(formatCoord(pt.X))
			sb.WriteByte(' ')
			sb.WriteString(formatCoord(pt.Y))
		}
	}
	return sb.String()
}

func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
