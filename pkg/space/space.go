// Package space holds the boundary model for one placeable space and the
// single write path through which every component mutates a collection.
package space

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/khalidghaith/SOAP-sub000/pkg/geo"
)

// Kind identifies which boundary representation is authoritative.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindPolygon   Kind = "polygon"
	KindOrganic   Kind = "organic"
)

// Valid reports whether k is a known boundary kind.
func (k Kind) Valid() bool {
	switch k {
	case KindRectangle, KindPolygon, KindOrganic:
		return true
	}
	return false
}

// Extent is the width and height of a rectangle boundary.
type Extent struct {
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Space is one placeable entity on a floor.
type Space struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Category string `json:"category" yaml:"category"`
	Floor    string `json:"floor,omitempty" yaml:"floor,omitempty"`

	Origin geo.Point2D `json:"origin" yaml:"origin"`
	Kind   Kind        `json:"kind" yaml:"kind"`
	Extent Extent      `json:"extent,omitempty" yaml:"extent,omitempty"`

	// ControlPoints are relative to Origin; authoritative for polygon and
	// organic kinds.
	ControlPoints []geo.Point2D `json:"control_points,omitempty" yaml:"control_points,omitempty"`

	TargetArea float64 `json:"target_area" yaml:"target_area"`
	// Rotation in degrees about the local bounds center.
	Rotation float64 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
}

// Clone returns a deep copy of s.
func (s Space) Clone() Space {
	s.ControlPoints = geo.Clone(s.ControlPoints)
	return s
}

// String implements fmt.Stringer.
func (s Space) String() string {
	return fmt.Sprintf("%s[%s %s @%.1f,%.1f]", s.ID, s.Category, s.Kind, s.Origin.X, s.Origin.Y)
}

// BoundaryPoints returns the local ring of s: the control points, or the
// four implicit corners of a rectangle. The result never aliases s.
func BoundaryPoints(s Space) []geo.Point2D {
	if s.Kind == KindRectangle {
		return geo.RectRing(s.Extent.W, s.Extent.H)
	}
	return geo.Clone(s.ControlPoints)
}

// LocalCenter is the center of the local bounds, the pivot for rotation.
func (s Space) LocalCenter() geo.Point2D {
	if s.Kind == KindRectangle {
		return geo.Pt(s.Extent.W/2, s.Extent.H/2)
	}
	b := geo.NewPolygon(s.ControlPoints...).Bounds()
	if b.IsEmpty() {
		return geo.Point2D{}
	}
	return geo.FromR2(b.Center())
}

func (s Space) radians() float64 {
	return s.Rotation * math.Pi / 180
}

// ToWorld maps a local point to world coordinates.
func (s Space) ToWorld(p geo.Point2D) geo.Point2D {
	if s.Rotation != 0 {
		p = p.RotateAround(s.LocalCenter(), s.radians())
	}
	return p.Add(s.Origin)
}

// ToLocal maps a world point into the local frame of s.
func (s Space) ToLocal(p geo.Point2D) geo.Point2D {
	p = p.Sub(s.Origin)
	if s.Rotation != 0 {
		p = p.RotateAround(s.LocalCenter(), -s.radians())
	}
	return p
}

// DeltaToLocal rotates a world-space displacement into the local frame.
func (s Space) DeltaToLocal(d geo.Point2D) geo.Point2D {
	if s.Rotation == 0 {
		return d
	}
	return d.Rotate(-s.radians())
}

// WorldRing returns the boundary in world coordinates with rotation applied.
func (s Space) WorldRing() []geo.Point2D {
	ring := BoundaryPoints(s)
	for i, p := range ring {
		ring[i] = s.ToWorld(p)
	}
	return ring
}

// Outline returns the world ring used by polygon-only algorithms: organic
// boundaries are flattened to detail samples per segment.
func (s Space) Outline(detail int) []geo.Point2D {
	ring := s.WorldRing()
	if s.Kind == KindOrganic {
		return geo.SampleClosedCurve(ring, detail)
	}
	return ring
}

// Bounds returns the world axis-aligned bounding box.
func (s Space) Bounds() r2.Rect {
	return geo.NewPolygon(s.WorldRing()...).Bounds()
}

// Center returns the center of the world bounds.
func (s Space) Center() geo.Point2D {
	b := s.Bounds()
	if b.IsEmpty() {
		return s.Origin
	}
	return geo.FromR2(b.Center())
}

// Area returns the shoelace area of the boundary ring. This is the quantity
// TargetArea tracks for every kind.
func (s Space) Area() float64 {
	if s.Kind == KindRectangle {
		return s.Extent.W * s.Extent.H
	}
	return geo.Area(s.ControlPoints)
}

// CurveArea returns the area enclosed by the rendered outline: the smoothed
// curve for organic boundaries, the ring otherwise.
func (s Space) CurveArea() float64 {
	if s.Kind == KindOrganic {
		return geo.CurveArea(s.ControlPoints, geo.AreaCurveDetail)
	}
	return s.Area()
}

// PathCommands returns the world-space drawing commands for s. Organic
// boundaries are smoothed; detail > 0 flattens the curve into that many line
// segments per edge instead, for consumers that only understand polylines.
func PathCommands(s Space, detail int) geo.Path {
	ring := s.WorldRing()
	if s.Kind != KindOrganic {
		return geo.PolygonPath(ring)
	}
	if detail > 0 {
		return geo.PolygonPath(geo.SampleClosedCurve(ring, detail))
	}
	return geo.SmoothClosedPath(ring)
}

// ToOrganic converts s into an organic boundary of n control points on a
// circle whose polygon area matches the current target area (or measured
// area when no target is set). The circle is centered on the old local
// bounds center so the space stays in place.
func ToOrganic(s Space, n int) Space {
	if n < 3 {
		n = 3
	}
	area := s.TargetArea
	if area <= 0 {
		area = s.Area()
	}
	center := s.LocalCenter()
	out := s.Clone()
	out.Kind = KindOrganic
	out.Extent = Extent{}
	out.TargetArea = area
	if area <= 0 {
		out.ControlPoints = geo.CircleRing(center, 1, n)
		return out
	}
	// Area of a regular n-gon with circumradius r is n/2 * r^2 * sin(2pi/n).
	r := math.Sqrt(2 * area / (float64(n) * math.Sin(2*math.Pi/float64(n))))
	out.ControlPoints = geo.CircleRing(center, r, n)
	return out
}

// ToPolygon promotes a rectangle to a polygon using its implicit ring.
// Other kinds are returned unchanged.
func ToPolygon(s Space) Space {
	if s.Kind != KindRectangle {
		return s
	}
	out := s.Clone()
	out.ControlPoints = BoundaryPoints(s)
	out.Kind = KindPolygon
	if out.TargetArea <= 0 {
		out.TargetArea = s.Extent.W * s.Extent.H
	}
	out.Extent = Extent{}
	return out
}
