package project

import (
	"time"

	"github.com/khalidghaith/SOAP-sub000/pkg/arrange"
	"github.com/khalidghaith/SOAP-sub000/pkg/declutter"
	"github.com/khalidghaith/SOAP-sub000/pkg/editor"
	"github.com/khalidghaith/SOAP-sub000/pkg/space"
	"github.com/khalidghaith/SOAP-sub000/pkg/zone"
)

// Project is a floor plan: settings plus the spaces on each floor.
type Project struct {
	Version  string   `yaml:"version" json:"version"`
	Name     string   `yaml:"name" json:"name"`
	Settings Settings `yaml:"settings" json:"settings"`
	Floors   []Floor  `yaml:"floors" json:"floors"`
}

// Floor is one level of the plan.
type Floor struct {
	Name   string        `yaml:"name" json:"name"`
	Spaces []space.Space `yaml:"spaces" json:"spaces"`
}

// Settings are the shared knobs every geometry call receives explicitly.
type Settings struct {
	GridSize      float64 `yaml:"grid_size" json:"grid_size"`
	Snap          bool    `yaml:"snap" json:"snap"`
	ZonePadding   float64 `yaml:"zone_padding" json:"zone_padding"`
	CornerRadius  float64 `yaml:"corner_radius" json:"corner_radius"`
	CurveDetail   int     `yaml:"curve_detail" json:"curve_detail"`
	OrganicPoints int     `yaml:"organic_points" json:"organic_points"`
	ArrangeMargin float64 `yaml:"arrange_margin" json:"arrange_margin"`

	DeclutterTickMS int              `yaml:"declutter_tick_ms" json:"declutter_tick_ms"`
	Declutter       declutter.Params `yaml:"declutter" json:"declutter"`

	// Colors maps category to a hex color. Categories without an entry get
	// one from the default palette on load.
	Colors map[string]string `yaml:"colors" json:"colors"`
}

// DefaultSettings returns the settings used when plan.yaml omits a field.
func DefaultSettings() Settings {
	zp := zone.DefaultParams()
	ec := editor.DefaultConfig()
	return Settings{
		GridSize:        ec.GridSize,
		Snap:            ec.Snap,
		ZonePadding:     zp.Padding,
		CornerRadius:    zp.CornerRadius,
		CurveDetail:     zp.CurveDetail,
		OrganicPoints:   8,
		ArrangeMargin:   arrange.DefaultOptions().Margin,
		DeclutterTickMS: int(declutter.DefaultPeriod / time.Millisecond),
		Declutter:       declutter.DefaultParams(),
	}
}

// ZoneParams returns the zone outline parameters.
func (s Settings) ZoneParams() zone.Params {
	return zone.Params{Padding: s.ZonePadding, CornerRadius: s.CornerRadius, CurveDetail: s.CurveDetail}
}

// EditorConfig returns the editor snapping configuration.
func (s Settings) EditorConfig() editor.Config {
	c := editor.DefaultConfig()
	c.GridSize = s.GridSize
	c.Snap = s.Snap
	return c
}

// ArrangeOptions returns the spiral placer options.
func (s Settings) ArrangeOptions() arrange.Options {
	o := arrange.DefaultOptions()
	o.Margin = s.ArrangeMargin
	return o
}

// TickPeriod returns the declutter tick interval.
func (s Settings) TickPeriod() time.Duration {
	if s.DeclutterTickMS <= 0 {
		return declutter.DefaultPeriod
	}
	return time.Duration(s.DeclutterTickMS) * time.Millisecond
}

// Spaces returns every space on every floor, with Floor set.
func (p *Project) Spaces() []space.Space {
	var out []space.Space
	for _, f := range p.Floors {
		for _, s := range f.Spaces {
			s = s.Clone()
			s.Floor = f.Name
			out = append(out, s)
		}
	}
	return out
}

// FloorNames returns the floor names in file order.
func (p *Project) FloorNames() []string {
	names := make([]string, len(p.Floors))
	for i, f := range p.Floors {
		names[i] = f.Name
	}
	return names
}

// SetSpaces replaces the floor contents with spaces, grouped by their Floor
// field. Floors keep their file order; new floor names are appended.
func (p *Project) SetSpaces(spaces []space.Space) {
	idx := make(map[string]int, len(p.Floors))
	for i := range p.Floors {
		idx[p.Floors[i].Name] = i
		p.Floors[i].Spaces = nil
	}
	for _, s := range spaces {
		i, ok := idx[s.Floor]
		if !ok {
			i = len(p.Floors)
			idx[s.Floor] = i
			p.Floors = append(p.Floors, Floor{Name: s.Floor})
		}
		s = s.Clone()
		s.Floor = ""
		p.Floors[i].Spaces = append(p.Floors[i].Spaces, s)
	}
}
