package geo

import "math"

// NearestEdge returns the edge of the closed ring closest to p, the closest
// point on it and the distance. Edge i runs from vertex i to vertex i+1.
// It returns -1 for rings with fewer than two points.
func NearestEdge(ring []Point2D, p Point2D) (edge int, at Point2D, dist float64) {
	n := len(ring)
	if n < 2 {
		return -1, Point2D{}, math.Inf(1)
	}
	edge, dist = -1, math.Inf(1)
	for i := 0; i < n; i++ {
		pt, d := nearestPointOnSegment(p, ring[i], ring[(i+1)%n])
		if d < dist {
			edge, at, dist = i, pt, d
		}
	}
	return edge, at, dist
}

// nearestPointOnSegment returns the closest point on segment ab to p.
func nearestPointOnSegment(p, a, b Point2D) (Point2D, float64) {
	ab := b.Sub(a)
	abLen2 := ab.Dot(ab)
	if abLen2 < 1e-12 {
		return a, p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / abLen2
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	closest := a.Add(ab.Scale(t))
	return closest, p.Distance(closest)
}
