package geo

import "sort"

// PadPoints replaces every point with the four corners of a square of half
// side pad centred on it, so a hull over the result clears each source point
// by at least pad on both axes.
func PadPoints(pts []Point2D, pad float64) []Point2D {
	out := make([]Point2D, 0, len(pts)*4)
	for _, p := range pts {
		out = append(out,
			Point2D{p.X - pad, p.Y - pad},
			Point2D{p.X + pad, p.Y - pad},
			Point2D{p.X + pad, p.Y + pad},
			Point2D{p.X - pad, p.Y + pad},
		)
	}
	return out
}

// ConvexHull returns the convex hull of pts in counterclockwise order (for a
// y-up frame) using Andrew's monotone chain. Collinear points on hull edges
// are dropped. Fewer than three distinct points, or an all-collinear input,
// yield nil.
func ConvexHull(pts []Point2D) []Point2D {
	if len(pts) < 3 {
		return nil
	}
	sorted := make([]Point2D, 0, len(pts))
	for _, p := range pts {
		if p.IsFinite() {
			sorted = append(sorted, p)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X == sorted[j].X {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})
	sorted = dedupeSorted(sorted)
	if len(sorted) < 3 {
		return nil
	}

	var lower, upper []Point2D
	for _, p := range sorted {
		for len(lower) >= 2 && turn(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && turn(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	// Each chain ends where the other begins.
	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(hull) < 3 {
		return nil
	}
	return hull
}

func turn(a, b, c Point2D) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

func dedupeSorted(pts []Point2D) []Point2D {
	if len(pts) == 0 {
		return pts
	}
	out := pts[:1]
	for _, p := range pts[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
