package scene2d

import (
	"math"
	"sort"
	"time"

	"github.com/khalidghaith/SOAP-sub000/pkg/geo"
	"github.com/khalidghaith/SOAP-sub000/pkg/project"
	"github.com/khalidghaith/SOAP-sub000/pkg/space"
	"github.com/khalidghaith/SOAP-sub000/pkg/zone"
)

// Assemble converts the current spaces into a 2D scene. Floors follow the
// project's floor order; floors present only in spaces are appended sorted.
// Zones are computed per floor from the project settings.
func Assemble(p *project.Project, spaces []space.Space) *Scene2D {
	settings := p.Settings
	byFloor := make(map[string][]space.Space)
	for _, s := range spaces {
		byFloor[s.Floor] = append(byFloor[s.Floor], s)
	}

	scene := &Scene2D{
		Metadata: Metadata{
			Name:        p.Name,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Floors: []Floor2D{},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, name := range floorOrder(p, byFloor) {
		members := byFloor[name]
		f := Floor2D{
			Name:   name,
			Spaces: make([]Space2D, 0, len(members)),
			Zones:  assembleZones(members, settings),
		}
		for _, s := range members {
			s2d := assembleSpace(s, settings)
			f.Spaces = append(f.Spaces, s2d)
			for _, pt := range s2d.Boundary {
				minX, minY = math.Min(minX, pt[0]), math.Min(minY, pt[1])
				maxX, maxY = math.Max(maxX, pt[0]), math.Max(maxY, pt[1])
			}
		}
		scene.Metadata.SpaceCount += len(f.Spaces)
		scene.Metadata.ZoneCount += len(f.Zones)
		scene.Floors = append(scene.Floors, f)
	}
	if scene.Metadata.SpaceCount > 0 && !math.IsInf(minX, 0) {
		scene.Metadata.Bounds = [4]float64{minX, minY, maxX, maxY}
	}
	return scene
}

func floorOrder(p *project.Project, byFloor map[string][]space.Space) []string {
	var order []string
	seen := make(map[string]bool)
	for _, name := range p.FloorNames() {
		if _, ok := byFloor[name]; ok && !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}
	var extra []string
	for name := range byFloor {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}

func assembleSpace(s space.Space, settings project.Settings) Space2D {
	path := space.PathCommands(s, 0)
	boundary := s.WorldRing()
	if s.Kind == space.KindOrganic {
		boundary = s.Outline(settings.CurveDetail)
	}
	c := s.Center()
	return Space2D{
		ID:         s.ID,
		Name:       s.Name,
		Category:   s.Category,
		Kind:       string(s.Kind),
		Color:      settings.Colors[s.Category],
		Center:     [2]float64{c.X, c.Y},
		Boundary:   pointsToCoords(boundary),
		Path:       path.SVG(),
		Commands:   commandsToCoords(path),
		Area:       s.Area(),
		TargetArea: s.TargetArea,
		Rotation:   s.Rotation,
	}
}

func assembleZones(spaces []space.Space, settings project.Settings) []Zone2D {
	outlines := zone.Outlines(spaces, settings.Colors, settings.ZoneParams())
	result := make([]Zone2D, 0, len(outlines))
	for _, o := range outlines {
		result = append(result, Zone2D{
			Category: o.Category,
			Color:    o.Color,
			Members:  o.Members,
			Hull:     pointsToCoords(o.Hull),
			Path:     o.Path.SVG(),
		})
	}
	return result
}

func pointsToCoords(pts []geo.Point2D) [][2]float64 {
	coords := make([][2]float64, len(pts))
	for i, p := range pts {
		coords[i] = [2]float64{p.X, p.Y}
	}
	return coords
}

func commandsToCoords(path geo.Path) []Command2D {
	out := make([]Command2D, len(path))
	for i, c := range path {
		out[i] = Command2D{Op: c.Op.String()}
		if len(c.Pts) > 0 {
			out[i].Points = pointsToCoords(c.Pts)
		}
	}
	return out
}
