// Package zone derives one rounded convex outline per category and floor
// from the spaces that share them. Zones have no identity of their own and are rebuilt
// from scratch on every call.
package zone

import (
	"sort"

	"github.com/khalidghaith/SOAP-sub000/pkg/geo"
	"github.com/khalidghaith/SOAP-sub000/pkg/space"
)

// Params controls outline construction.
type Params struct {
	Padding      float64 // half side of the square added around every boundary point
	CornerRadius float64
	CurveDetail  int // samples per segment when flattening organic boundaries
}

// DefaultParams returns the editor's standard zone look.
func DefaultParams() Params {
	return Params{
		Padding:      20,
		CornerRadius: 24,
		CurveDetail:  geo.DefaultCurveDetail,
	}
}

// Outline is the rendered zone for one category.
type Outline struct {
	Floor    string        `json:"floor,omitempty"`
	Category string        `json:"category"`
	Color    string        `json:"color,omitempty"`
	Members  []string      `json:"members"`
	Hull     []geo.Point2D `json:"hull"`
	Path     geo.Path      `json:"-"`
}

type group struct {
	floor    string
	category string
}

// Outlines groups spaces by floor and category and returns one outline per
// group whose padded hull is non-degenerate, sorted by floor then category.
// Spaces on different floors never share a zone. Spaces with an empty
// category or a ring of fewer than three points are skipped.
func Outlines(spaces []space.Space, colors map[string]string, p Params) []Outline {
	detail := p.CurveDetail
	if detail < 1 {
		detail = geo.DefaultCurveDetail
	}

	points := make(map[group][]geo.Point2D)
	members := make(map[group][]string)
	for _, s := range spaces {
		if s.Category == "" {
			continue
		}
		ring := s.Outline(detail)
		if len(ring) < 3 {
			continue
		}
		g := group{floor: s.Floor, category: s.Category}
		points[g] = append(points[g], geo.PadPoints(ring, p.Padding)...)
		members[g] = append(members[g], s.ID)
	}

	groups := make([]group, 0, len(points))
	for g := range points {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].floor != groups[j].floor {
			return groups[i].floor < groups[j].floor
		}
		return groups[i].category < groups[j].category
	})

	var out []Outline
	for _, g := range groups {
		hull := geo.ConvexHull(points[g])
		if len(hull) < 3 {
			continue
		}
		out = append(out, Outline{
			Floor:    g.floor,
			Category: g.category,
			Color:    colors[g.category],
			Members:  members[g],
			Hull:     hull,
			Path:     geo.RoundedPath(hull, p.CornerRadius),
		})
	}
	return out
}
