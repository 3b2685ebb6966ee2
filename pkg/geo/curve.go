package geo

// Default samples per Bezier segment when an organic boundary has to be
// treated as a dense polygon.
const (
	DefaultCurveDetail = 5
	AreaCurveDetail    = 20
)

// BezierSegment is one cubic segment of a smoothed ring.
type BezierSegment struct {
	P0, C1, C2, P3 Point2D
}

// ClosedBezierSegments converts a ring into one cubic segment per edge by
// treating every vertex as a Catmull-Rom knot. Neighbors wrap around the ring;
// the 1/6 tangent factor makes the curve pass through every vertex.
func ClosedBezierSegments(ring []Point2D) []BezierSegment {
	n := len(ring)
	if n < 3 {
		return nil
	}
	segs := make([]BezierSegment, n)
	for i := 0; i < n; i++ {
		p0 := ring[(i-1+n)%n]
		p1 := ring[i]
		p2 := ring[(i+1)%n]
		p3 := ring[(i+2)%n]

		segs[i] = BezierSegment{
			P0: p1,
			C1: p1.Add(p2.Sub(p0).Scale(1.0 / 6)),
			C2: p2.Sub(p3.Sub(p1).Scale(1.0 / 6)),
			P3: p2,
		}
	}
	return segs
}

// Eval returns the point on the segment at t in [0,1].
func (s BezierSegment) Eval(t float64) Point2D {
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	return Point2D{
		X: mt3*s.P0.X + 3*mt2*t*s.C1.X + 3*mt*t2*s.C2.X + t3*s.P3.X,
		Y: mt3*s.P0.Y + 3*mt2*t*s.C1.Y + 3*mt*t2*s.C2.Y + t3*s.P3.Y,
	}
}

// SmoothClosedPath returns the Move + Cubic* + Close path of the smoothed
// ring. Rings with fewer than three points fall back to straight edges.
func SmoothClosedPath(ring []Point2D) Path {
	segs := ClosedBezierSegments(ring)
	if segs == nil {
		return PolygonPath(ring)
	}
	var p Path
	p.MoveTo(ring[0])
	for _, s := range segs {
		p.CubicTo(s.C1, s.C2, s.P3)
	}
	p.Close()
	return p
}

// SampleClosedCurve flattens the smoothed ring into k points per segment,
// starting at each knot. The result is an open list; the last point connects
// back to the first. Degenerate rings are returned as a copy.
func SampleClosedCurve(ring []Point2D, k int) []Point2D {
	segs := ClosedBezierSegments(ring)
	if segs == nil {
		return Clone(ring)
	}
	if k < 1 {
		k = 1
	}
	pts := make([]Point2D, 0, len(segs)*k)
	for _, s := range segs {
		for j := 0; j < k; j++ {
			pts = append(pts, s.Eval(float64(j)/float64(k)))
		}
	}
	return pts
}

// CurveArea approximates the area enclosed by the smoothed ring using the
// shoelace formula over k samples per segment.
func CurveArea(ring []Point2D, k int) float64 {
	return Area(SampleClosedCurve(ring, k))
}
