// Package project loads and saves floor plans stored as plan.yaml.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/khalidghaith/SOAP-sub000/pkg/space"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// FileName is the plan file looked up in a project directory.
const FileName = "plan.yaml"

// Load reads a project from a YAML file. Missing settings take their
// defaults, spaces without an ID get a fresh UUID, and categories without
// a color get one from the default palette.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// LoadProject loads plan.yaml from a project directory.
func LoadProject(projectDir string) (*Project, error) {
	return Load(filepath.Join(projectDir, FileName))
}

// Parse decodes and normalizes a plan document.
func Parse(data []byte) (*Project, error) {
	p := &Project{Settings: DefaultSettings()}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing plan YAML: %w", err)
	}
	p.normalize()
	return p, nil
}

// Save writes p to path as YAML.
func Save(path string, p *Project) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding plan YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing plan file: %w", err)
	}
	return nil
}

func (p *Project) normalize() {
	var categories []string
	seen := make(map[string]bool)
	for fi := range p.Floors {
		for si := range p.Floors[fi].Spaces {
			s := &p.Floors[fi].Spaces[si]
			if s.ID == "" {
				s.ID = uuid.NewString()
			}
			if s.Kind == "" {
				s.Kind = space.KindRectangle
				if len(s.ControlPoints) > 0 {
					s.Kind = space.KindPolygon
				}
			}
			if s.TargetArea <= 0 {
				s.TargetArea = s.Area()
			}
			if s.Category != "" && !seen[s.Category] {
				seen[s.Category] = true
				categories = append(categories, s.Category)
			}
		}
	}
	if p.Settings.Colors == nil {
		p.Settings.Colors = make(map[string]string)
	}
	for c, hex := range Palette(categories) {
		if _, ok := p.Settings.Colors[c]; !ok {
			p.Settings.Colors[c] = hex
		}
	}
}

// Palette assigns each category a pastel hue. Hues are spread by the golden
// angle over the sorted category names so the result is stable.
func Palette(categories []string) map[string]string {
	sorted := append([]string(nil), categories...)
	sort.Strings(sorted)
	out := make(map[string]string, len(sorted))
	for i, c := range sorted {
		hue := float64(i) * 137.508
		for hue >= 360 {
			hue -= 360
		}
		out[c] = colorful.Hsv(hue, 0.45, 0.95).Hex()
	}
	return out
}
