package geo

import (
	"math"

	"github.com/golang/geo/r2"
)

// Polygon is a closed polygon defined by its vertices in order.
type Polygon struct {
	Vertices []Point2D
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point2D) Polygon {
	return Polygon{Vertices: pts}
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.Vertices)
}

// IsEmpty returns true if the polygon has fewer than 3 vertices.
func (p Polygon) IsEmpty() bool {
	return len(p.Vertices) < 3
}

// Edge returns the i-th edge as (start, end). Wraps around.
func (p Polygon) Edge(i int) (Point2D, Point2D) {
	n := len(p.Vertices)
	return p.Vertices[i%n], p.Vertices[(i+1)%n]
}

// SignedArea returns the signed area using the shoelace formula.
// Positive for counterclockwise winding, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Vertices[i].X * p.Vertices[j].Y
		area -= p.Vertices[j].X * p.Vertices[i].Y
	}
	return area / 2
}

// Area returns the unsigned area of the polygon.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// IsCounterClockwise returns true if vertices are in CCW order.
func (p Polygon) IsCounterClockwise() bool {
	return p.SignedArea() > 0
}

// Reverse returns the polygon with reversed vertex order.
func (p Polygon) Reverse() Polygon {
	n := len(p.Vertices)
	rev := make([]Point2D, n)
	for i, v := range p.Vertices {
		rev[n-1-i] = v
	}
	return Polygon{Vertices: rev}
}

// VertexCentroid returns the arithmetic mean of the vertices. It is not the
// area centroid of a non-convex ring; editing uses it as the scaling anchor.
func (p Polygon) VertexCentroid() Point2D {
	n := len(p.Vertices)
	if n == 0 {
		return Point2D{}
	}
	sum := Point2D{}
	for _, v := range p.Vertices {
		sum = sum.Add(v)
	}
	return sum.Scale(1.0 / float64(n))
}

// Centroid returns the area centroid of the polygon, falling back to the
// vertex average for degenerate rings.
func (p Polygon) Centroid() Point2D {
	n := len(p.Vertices)
	if n < 3 {
		return p.VertexCentroid()
	}
	a := p.SignedArea()
	if math.Abs(a) < 1e-12 {
		return p.VertexCentroid()
	}
	cx, cy := 0.0, 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := p.Vertices[i].X*p.Vertices[j].Y - p.Vertices[j].X*p.Vertices[i].Y
		cx += (p.Vertices[i].X + p.Vertices[j].X) * cross
		cy += (p.Vertices[i].Y + p.Vertices[j].Y) * cross
	}
	f := 1.0 / (6.0 * a)
	return Point2D{cx * f, cy * f}
}

// Bounds returns the axis-aligned bounding box. An empty polygon yields an
// empty rectangle.
func (p Polygon) Bounds() r2.Rect {
	r := r2.EmptyRect()
	for _, v := range p.Vertices {
		r = r.AddPoint(v.R2())
	}
	return r
}

// Contains returns true if the point is inside the polygon using ray casting.
func (p Polygon) Contains(pt Point2D) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Perimeter returns the total perimeter length.
func (p Polygon) Perimeter() float64 {
	n := len(p.Vertices)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		total += p.Vertices[i].Distance(p.Vertices[j])
	}
	return total
}

// IsConvex reports whether every turn of the ring has the same orientation.
// Collinear vertices are tolerated.
func (p Polygon) IsConvex() bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		c := p.Vertices[(i+2)%n]
		cross := b.Sub(a).Cross(c.Sub(b))
		if math.Abs(cross) < 1e-9 {
			continue
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return false
		}
	}
	return sign != 0
}

// Area returns the unsigned shoelace area of ring. Rings with fewer than
// three points have zero area.
func Area(ring []Point2D) float64 {
	return Polygon{Vertices: ring}.Area()
}

// VertexCentroid returns the vertex average of ring.
func VertexCentroid(ring []Point2D) Point2D {
	return Polygon{Vertices: ring}.VertexCentroid()
}

// RectRing returns the four corners of a w x h rectangle anchored at the
// origin, in clockwise screen order (y grows downward).
func RectRing(w, h float64) []Point2D {
	return []Point2D{{0, 0}, {w, 0}, {w, h}, {0, h}}
}

// CircleRing returns n points evenly spaced on a circle of radius r around
// center, starting at angle zero.
func CircleRing(center Point2D, r float64, n int) []Point2D {
	if n < 3 {
		n = 3
	}
	pts := make([]Point2D, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point2D{center.X + r*math.Cos(a), center.Y + r*math.Sin(a)}
	}
	return pts
}
