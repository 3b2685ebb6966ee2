package geo

import "math"

// CornerRadii returns the rounding applied at each vertex of ring: the
// requested radius clamped to half the shorter of the two adjacent edges.
func CornerRadii(ring []Point2D, radius float64) []float64 {
	n := len(ring)
	if n < 3 {
		return nil
	}
	if radius < 0 {
		radius = 0
	}
	radii := make([]float64, n)
	for i := 0; i < n; i++ {
		prev := ring[(i-1+n)%n]
		next := ring[(i+1)%n]
		half := math.Min(ring[i].Distance(prev), ring[i].Distance(next)) / 2
		radii[i] = math.Min(radius, half)
	}
	return radii
}

// RoundedPath outlines ring with every corner replaced by a quadratic curve
// whose control point is the original vertex. Short edges get proportionally
// smaller rounding so the outline never folds over itself.
func RoundedPath(ring []Point2D, radius float64) Path {
	n := len(ring)
	if n < 3 {
		return nil
	}
	radii := CornerRadii(ring, radius)

	entry := func(i int) Point2D {
		prev := ring[(i-1+n)%n]
		return ring[i].Add(prev.Sub(ring[i]).Normalize().Scale(radii[i]))
	}
	exit := func(i int) Point2D {
		next := ring[(i+1)%n]
		return ring[i].Add(next.Sub(ring[i]).Normalize().Scale(radii[i]))
	}

	var p Path
	p.MoveTo(exit(0))
	for k := 1; k <= n; k++ {
		i := k % n
		if radii[i] <= 0 {
			p.LineTo(ring[i])
			continue
		}
		p.LineTo(entry(i))
		p.QuadTo(ring[i], exit(i))
	}
	p.Close()
	return p
}
