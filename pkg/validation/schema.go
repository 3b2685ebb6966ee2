package validation

import (
	"fmt"
	"math"

	"github.com/khalidghaith/SOAP-sub000/pkg/geo"
	"github.com/khalidghaith/SOAP-sub000/pkg/project"
	"github.com/khalidghaith/SOAP-sub000/pkg/space"
	"github.com/lucasb-eyer/go-colorful"
)

// areaDriftTolerance is the relative difference between a ring's measured
// area and its target area above which an info note is emitted.
const areaDriftTolerance = 0.01

// overlapEpsilon is the shared area below which two outlines count as
// touching.
const overlapEpsilon = 1e-6

// ValidateProject checks settings, floors and every space before any layout
// or rendering runs.
func ValidateProject(p *project.Project) *Report {
	r := NewReport()

	validateSettings(p.Settings, r)
	validateFloors(p, r)
	ids := make(map[string]string)
	for _, f := range p.Floors {
		for i, s := range f.Spaces {
			path := fmt.Sprintf("floors.%s.spaces[%d]", f.Name, i)
			validateSpace(s, path, ids, r)
		}
	}
	validateOverlaps(p, r)

	return r
}

func validateSettings(s project.Settings, r *Report) {
	if s.GridSize <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "grid_size must be greater than 0",
			Path:        "settings.grid_size",
			ActualValue: s.GridSize,
			Expected:    "> 0",
		})
	}
	nonNegative := map[string]float64{
		"zone_padding":   s.ZonePadding,
		"corner_radius":  s.CornerRadius,
		"arrange_margin": s.ArrangeMargin,
	}
	for name, v := range nonNegative {
		if v < 0 || math.IsNaN(v) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s must be non-negative", name),
				Path:        "settings." + name,
				ActualValue: v,
				Expected:    ">= 0",
			})
		}
	}
	if s.CurveDetail < 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "curve_detail must be at least 1",
			Path:        "settings.curve_detail",
			ActualValue: s.CurveDetail,
			Expected:    ">= 1",
		})
	}
	if s.OrganicPoints < 3 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "organic_points must be at least 3",
			Path:        "settings.organic_points",
			ActualValue: s.OrganicPoints,
			Expected:    ">= 3",
		})
	}

	d := s.Declutter
	if d.MaxStep <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "declutter.max_step must be greater than 0",
			Path:        "settings.declutter.max_step",
			ActualValue: d.MaxStep,
			Expected:    "> 0",
		})
	}
	if d.Epsilon <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "declutter.epsilon must be greater than 0",
			Path:        "settings.declutter.epsilon",
			ActualValue: d.Epsilon,
			Expected:    "> 0",
		})
	}
	if d.AttractStrength > 0.5 {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("declutter.attract_strength %.2f closes the full gap in one tick", d.AttractStrength),
			Path:        "settings.declutter.attract_strength",
			ActualValue: d.AttractStrength,
			Expected:    "<= 0.5",
		})
	}
	if d.AttractStrength > 0 && d.AttractRange < d.Proximity {
		r.AddInfo(Result{
			Level:       LevelSchema,
			Message:     "declutter.attract_range is below proximity; attraction stops at the proximity gap",
			Path:        "settings.declutter.attract_range",
			ActualValue: d.AttractRange,
			Expected:    fmt.Sprintf(">= %.1f", d.Proximity),
		})
	}

	for category, hex := range s.Colors {
		if _, err := colorful.Hex(hex); err != nil {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("color for %s is not a hex color", category),
				Path:        "settings.colors." + category,
				ActualValue: hex,
				Expected:    "#rrggbb",
			})
		}
	}
}

func validateFloors(p *project.Project, r *Report) {
	if len(p.Floors) == 0 {
		r.AddWarning(Result{
			Level:   LevelSchema,
			Message: "plan has no floors",
			Path:    "floors",
		})
		return
	}
	seen := make(map[string]bool)
	for i, f := range p.Floors {
		if seen[f.Name] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("floor name %q is used more than once", f.Name),
				Path:        fmt.Sprintf("floors[%d].name", i),
				ActualValue: f.Name,
			})
		}
		seen[f.Name] = true
	}
}

func validateSpace(s space.Space, path string, ids map[string]string, r *Report) {
	if prev, ok := ids[s.ID]; ok {
		r.AddError(Result{
			Level:        LevelSchema,
			Message:      fmt.Sprintf("space id %q is not unique", s.ID),
			Path:         path + ".id",
			ActualValue:  s.ID,
			ConflictWith: prev,
		})
	} else {
		ids[s.ID] = path
	}

	if !s.Kind.Valid() {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s: unknown kind %q", s.ID, s.Kind),
			Path:        path + ".kind",
			ActualValue: s.Kind,
			Expected:    "rectangle, polygon or organic",
		})
		return
	}
	if !s.Origin.IsFinite() || math.IsNaN(s.Rotation) || math.IsInf(s.Rotation, 0) {
		r.AddError(Result{
			Level:   LevelSchema,
			Message: fmt.Sprintf("%s: origin and rotation must be finite", s.ID),
			Path:    path + ".origin",
		})
	}
	if s.TargetArea <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s: target_area must be greater than 0", s.ID),
			Path:        path + ".target_area",
			ActualValue: s.TargetArea,
			Expected:    "> 0",
		})
	}

	if s.Kind == space.KindRectangle {
		if s.Extent.W <= 0 || s.Extent.H <= 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s: rectangle extent must be positive", s.ID),
				Path:        path + ".extent",
				ActualValue: s.Extent,
				Expected:    "w > 0, h > 0",
			})
		}
		if len(s.ControlPoints) > 0 {
			r.AddWarning(Result{
				Level:   LevelSchema,
				Message: fmt.Sprintf("%s: control_points are ignored for rectangles", s.ID),
				Path:    path + ".control_points",
			})
		}
		return
	}

	if len(s.ControlPoints) < 3 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s: a %s ring needs at least 3 control points", s.ID, s.Kind),
			Path:        path + ".control_points",
			ActualValue: len(s.ControlPoints),
			Expected:    ">= 3",
		})
		return
	}
	for i, p := range s.ControlPoints {
		if !p.IsFinite() {
			r.AddError(Result{
				Level:   LevelSchema,
				Message: fmt.Sprintf("%s: control point %d is not finite", s.ID, i),
				Path:    fmt.Sprintf("%s.control_points[%d]", path, i),
			})
			return
		}
	}

	area := geo.Area(s.ControlPoints)
	if area < 1e-9 {
		r.AddWarning(Result{
			Level:       LevelGeometry,
			Message:     fmt.Sprintf("%s: ring is degenerate and will be skipped by zone outlines", s.ID),
			Path:        path + ".control_points",
			ActualValue: area,
		})
		return
	}
	if s.TargetArea > 0 && math.Abs(area-s.TargetArea)/s.TargetArea > areaDriftTolerance {
		r.AddInfo(Result{
			Level:       LevelGeometry,
			Message:     fmt.Sprintf("%s: ring area %.1f differs from target_area %.1f", s.ID, area, s.TargetArea),
			Path:        path + ".target_area",
			ActualValue: area,
			Expected:    fmt.Sprintf("%.1f", s.TargetArea),
		})
	}
}

// validateOverlaps flags spaces on the same floor that overlap. Bounds are
// checked first; when either outline is convex the shared area is clipped
// exactly, so shapes that only share a bounding box pass. Touching edges are
// not overlaps.
func validateOverlaps(p *project.Project, r *Report) {
	detail := p.Settings.CurveDetail
	if detail < 1 {
		detail = project.DefaultSettings().CurveDetail
	}
	for _, f := range p.Floors {
		for i := 0; i < len(f.Spaces); i++ {
			a := f.Spaces[i]
			if !a.Kind.Valid() {
				continue
			}
			for j := i + 1; j < len(f.Spaces); j++ {
				b := f.Spaces[j]
				if !b.Kind.Valid() || !a.Bounds().InteriorIntersects(b.Bounds()) {
					continue
				}
				var actual any
				if area, ok := geo.OverlapArea(a.Outline(detail), b.Outline(detail)); ok {
					if area <= overlapEpsilon {
						continue
					}
					actual = area
				}
				r.AddWarning(Result{
					Level:        LevelPlacement,
					Message:      fmt.Sprintf("%s overlaps %s on floor %s", a.ID, b.ID, f.Name),
					Path:         fmt.Sprintf("floors.%s.spaces[%d]", f.Name, i),
					ActualValue:  actual,
					ConflictWith: b.ID,
					Suggestions:  []string{"Run arrange or declutter"},
				})
			}
		}
	}
}
