// Package declutter relaxes crowded layouts: overlapping or near spaces push
// apart while distant spaces of the same category drift together.
package declutter

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/khalidghaith/SOAP-sub000/pkg/geo"
	"github.com/khalidghaith/SOAP-sub000/pkg/space"
)

// Params is the force curve. Every field is tunable.
type Params struct {
	// Proximity is the box gap below which two spaces repel. Overlapping
	// boxes have a negative gap.
	Proximity float64 `yaml:"proximity"`
	// Repulsion scales the push: Repulsion / center distance per pair.
	Repulsion float64 `yaml:"repulsion"`
	// MaxStep caps any single space's displacement from one pair.
	MaxStep float64 `yaml:"max_step"`
	// AttractStrength is the fraction of excess gap closed per tick between
	// same-category spaces. Zero disables attraction.
	AttractStrength float64 `yaml:"attract_strength"`
	// AttractRange is the gap same-category spaces are pulled back to.
	AttractRange float64 `yaml:"attract_range"`
	// Epsilon is the displacement below which a tick is treated as idle.
	Epsilon float64 `yaml:"epsilon"`
}

// DefaultParams returns gentle forces suited to a 50 ms tick.
func DefaultParams() Params {
	return Params{
		Proximity:       10,
		Repulsion:       200,
		MaxStep:         5,
		AttractStrength: 0.05,
		AttractRange:    60,
		Epsilon:         0.01,
	}
}

type body struct {
	box    r2.Rect
	center geo.Point2D
}

// Tick computes one relaxation step. All pair displacements are summed
// first and applied together. When no space would move by more than
// Epsilon, Tick returns the input slice itself and false.
func Tick(spaces []space.Space, p Params) ([]space.Space, bool) {
	if len(spaces) < 2 {
		return spaces, false
	}
	bodies := make([]body, len(spaces))
	for i, s := range spaces {
		b := s.Bounds()
		bodies[i] = body{box: b}
		if !b.IsEmpty() {
			bodies[i].center = geo.FromR2(b.Center())
		}
	}

	disp := make([]geo.Point2D, len(spaces))
	for i := range spaces {
		if bodies[i].box.IsEmpty() {
			continue
		}
		for j := i + 1; j < len(spaces); j++ {
			if bodies[j].box.IsEmpty() || spaces[i].Floor != spaces[j].Floor {
				continue
			}
			d := pairForce(bodies[i], bodies[j], spaces[i].Category == spaces[j].Category && spaces[i].Category != "", p)
			disp[i] = disp[i].Add(d)
			disp[j] = disp[j].Sub(d)
		}
	}

	moved := false
	for _, d := range disp {
		if d.IsFinite() && d.Length() > p.Epsilon {
			moved = true
			break
		}
	}
	if !moved {
		return spaces, false
	}
	out := make([]space.Space, len(spaces))
	for i, s := range spaces {
		out[i] = s.Clone()
		if d := disp[i]; d.IsFinite() {
			out[i].Origin = s.Origin.Add(d)
		}
	}
	return out, true
}

// pairForce returns the displacement applied to a; b receives its negation.
func pairForce(a, b body, sameCategory bool, p Params) geo.Point2D {
	g := gap(a.box, b.box)
	delta := a.center.Sub(b.center)
	dist := delta.Length()

	if g < p.Proximity {
		if p.Repulsion <= 0 {
			return geo.Point2D{}
		}
		dir := geo.Pt(1, 0)
		if dist > 1e-9 {
			dir = delta.Scale(1 / dist)
		}
		m := p.Repulsion / math.Max(dist, 1)
		if p.MaxStep > 0 {
			m = math.Min(m, p.MaxStep)
		}
		return dir.Scale(m / 2)
	}

	rest := math.Max(p.AttractRange, p.Proximity)
	if !sameCategory || p.AttractStrength <= 0 || g <= rest || dist <= 1e-9 {
		return geo.Point2D{}
	}
	excess := g - rest
	// Each side closes at most half the excess so the pair never overshoots.
	m := math.Min(p.AttractStrength*excess, excess/2)
	if p.MaxStep > 0 {
		m = math.Min(m, p.MaxStep)
	}
	return delta.Scale(-m / dist)
}

// gap is the clearance between two boxes; negative when they overlap.
func gap(a, b r2.Rect) float64 {
	gx := math.Max(a.X.Lo-b.X.Hi, b.X.Lo-a.X.Hi)
	gy := math.Max(a.Y.Lo-b.Y.Hi, b.Y.Lo-a.Y.Hi)
	if gx < 0 && gy < 0 {
		return math.Max(gx, gy)
	}
	return math.Hypot(math.Max(gx, 0), math.Max(gy, 0))
}
