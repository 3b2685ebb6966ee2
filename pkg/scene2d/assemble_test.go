package scene2d

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/khalidghaith/SOAP-sub000/pkg/geo"
	"github.com/khalidghaith/SOAP-sub000/pkg/project"
	"github.com/khalidghaith/SOAP-sub000/pkg/space"
)

func testProject() *project.Project {
	s := project.DefaultSettings()
	s.Colors = map[string]string{"living": "#f4a261", "private": "#2a9d8f"}
	return &project.Project{
		Name:     "test",
		Settings: s,
		Floors:   []project.Floor{{Name: "ground"}, {Name: "upper"}},
	}
}

func testSpaces() []space.Space {
	organic := space.ToOrganic(space.Space{
		ID: "patio", Category: "living", Floor: "ground", Origin: geo.Pt(100, 0),
		Kind: space.KindRectangle, Extent: space.Extent{W: 40, H: 40}, TargetArea: 1600,
	}, 6)
	return []space.Space{
		{ID: "bed", Category: "private", Floor: "upper", Kind: space.KindRectangle, Extent: space.Extent{W: 30, H: 30}, TargetArea: 900},
		{ID: "lounge", Name: "Lounge", Category: "living", Floor: "ground", Kind: space.KindRectangle, Extent: space.Extent{W: 60, H: 40}, TargetArea: 2400},
		organic,
		{ID: "loft", Category: "private", Floor: "mezzanine", Origin: geo.Pt(-50, -50), Kind: space.KindRectangle, Extent: space.Extent{W: 10, H: 10}, TargetArea: 100},
	}
}

func TestAssembleFloors(t *testing.T) {
	scene := Assemble(testProject(), testSpaces())

	var names []string
	for _, f := range scene.Floors {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"ground", "upper", "mezzanine"}, names); diff != "" {
		t.Errorf("floor order mismatch (-want +got):\n%s", diff)
	}
	if scene.Metadata.SpaceCount != 4 {
		t.Errorf("space_count = %d, want 4", scene.Metadata.SpaceCount)
	}
	if scene.Metadata.GeneratedAt == "" {
		t.Error("generated_at not set")
	}
	if scene.Metadata.Bounds[0] != -50 || scene.Metadata.Bounds[1] != -50 {
		t.Errorf("bounds = %v, want min corner at (-50,-50)", scene.Metadata.Bounds)
	}
}

func TestAssembleSpaces(t *testing.T) {
	scene := Assemble(testProject(), testSpaces())
	ground := scene.Floors[0]
	if len(ground.Spaces) != 2 {
		t.Fatalf("ground spaces = %d, want 2", len(ground.Spaces))
	}

	lounge := ground.Spaces[0]
	if lounge.Path != "M 0 0 L 60 0 L 60 40 L 0 40 Z" {
		t.Errorf("lounge path = %q", lounge.Path)
	}
	if lounge.Color != "#f4a261" || lounge.Area != 2400 {
		t.Errorf("lounge color/area = %q %v", lounge.Color, lounge.Area)
	}
	if lounge.Center != [2]float64{30, 20} {
		t.Errorf("lounge center = %v", lounge.Center)
	}
	if len(lounge.Commands) != 5 || lounge.Commands[4].Op != "Z" || lounge.Commands[4].Points != nil {
		t.Errorf("unexpected lounge commands: %+v", lounge.Commands)
	}

	patio := ground.Spaces[1]
	if strings.Count(patio.Path, "C ") != 6 {
		t.Errorf("organic path should have one cubic per knot: %q", patio.Path)
	}
	want := 6 * project.DefaultSettings().CurveDetail
	if len(patio.Boundary) != want {
		t.Errorf("organic boundary has %d samples, want %d", len(patio.Boundary), want)
	}
}

func TestAssembleZones(t *testing.T) {
	scene := Assemble(testProject(), testSpaces())
	ground := scene.Floors[0]
	if len(ground.Zones) != 1 {
		t.Fatalf("ground zones = %d, want 1", len(ground.Zones))
	}
	z := ground.Zones[0]
	if z.Category != "living" || z.Color != "#f4a261" {
		t.Errorf("zone = %s %s", z.Category, z.Color)
	}
	if diff := cmp.Diff([]string{"lounge", "patio"}, z.Members); diff != "" {
		t.Errorf("zone members mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(z.Path, "M ") || !strings.HasSuffix(z.Path, "Z") {
		t.Errorf("zone path = %q", z.Path)
	}
	if scene.Metadata.ZoneCount != 3 {
		t.Errorf("zone_count = %d, want 3", scene.Metadata.ZoneCount)
	}
}

func TestAssembleEmpty(t *testing.T) {
	scene := Assemble(testProject(), nil)
	if len(scene.Floors) != 0 || scene.Metadata.SpaceCount != 0 {
		t.Errorf("expected empty scene, got %+v", scene.Metadata)
	}
	data, err := json.Marshal(scene)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"floors":[]`) {
		t.Errorf("floors should encode as an empty array: %s", data)
	}
}
