// Package arrange places spaces without overlap by scanning an Archimedean
// spiral outward from the origin.
package arrange

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
	"github.com/khalidghaith/SOAP-sub000/pkg/geo"
	"github.com/khalidghaith/SOAP-sub000/pkg/space"
)

// Options controls the spiral search.
type Options struct {
	// Margin is added on every side of each bounding box before testing
	// for overlap.
	Margin float64 `yaml:"margin"`
	// AngleStep is the angular increment in radians between candidates.
	AngleStep float64 `yaml:"angle_step"`
	// RadiusPerRadian is the spiral pitch: rho = RadiusPerRadian * theta.
	RadiusPerRadian float64 `yaml:"radius_per_radian"`
	// MaxIterations caps the candidates tried per space.
	MaxIterations int `yaml:"max_iterations"`
}

// DefaultOptions returns the standard spiral with a 20-unit margin.
func DefaultOptions() Options {
	return Options{
		Margin:          20,
		AngleStep:       0.5,
		RadiusPerRadian: 5,
		MaxIterations:   5000,
	}
}

// Arrange repositions spaces with the default spiral and the given margin.
// The input is not modified.
func Arrange(spaces []space.Space, margin float64) []space.Space {
	opts := DefaultOptions()
	opts.Margin = margin
	out, _ := ArrangeWith(spaces, opts)
	return out
}

// ArrangeWith repositions spaces and returns the IDs of any that could not
// be placed without overlap within the iteration budget; those sit at the
// last candidate tried. Spaces on different floors never collide with each
// other. The result keeps the input order; only origins change.
func ArrangeWith(spaces []space.Space, opts Options) ([]space.Space, []string) {
	out := make([]space.Space, len(spaces))
	for i, s := range spaces {
		out[i] = s.Clone()
	}
	if len(out) == 0 {
		return out, nil
	}
	if opts.AngleStep <= 0 {
		opts.AngleStep = DefaultOptions().AngleStep
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 1
	}
	margin := math.Max(opts.Margin, 0)

	order := placementOrder(out)
	var unplaced []string
	accepted := make(map[string][]r2.Rect)
	for _, i := range order {
		s := out[i]
		box := s.Bounds()
		if box.IsEmpty() {
			continue
		}
		size := box.Size()
		center, ok := search(size, margin, accepted[s.Floor], opts)
		if !ok {
			unplaced = append(unplaced, s.ID)
		}
		delta := geo.FromR2(center.Sub(box.Center()))
		out[i].Origin = s.Origin.Add(delta)
		placed := r2.RectFromCenterSize(center, size).ExpandedByMargin(margin)
		accepted[s.Floor] = append(accepted[s.Floor], placed)
	}
	return out, unplaced
}

// placementOrder sorts by category, then descending area, so the largest
// space of each category anchors first.
func placementOrder(spaces []space.Space) []int {
	order := make([]int, len(spaces))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := spaces[order[a]], spaces[order[b]]
		if sa.Category != sb.Category {
			return sa.Category < sb.Category
		}
		return sa.Area() > sb.Area()
	})
	return order
}

// search walks the spiral and returns the first center whose expanded box
// is clear of every accepted box. When the budget runs out it returns the
// last candidate and false.
func search(size r2.Point, margin float64, accepted []r2.Rect, opts Options) (r2.Point, bool) {
	var c r2.Point
	for i := 0; i < opts.MaxIterations; i++ {
		theta := float64(i) * opts.AngleStep
		rho := opts.RadiusPerRadian * theta
		c = r2.Point{X: math.Cos(theta) * rho, Y: math.Sin(theta) * rho}
		if free(r2.RectFromCenterSize(c, size).ExpandedByMargin(margin), accepted) {
			return c, true
		}
	}
	return c, false
}

func free(box r2.Rect, accepted []r2.Rect) bool {
	for _, a := range accepted {
		if box.Intersects(a) {
			return false
		}
	}
	return true
}
