package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/khalidghaith/SOAP-sub000/pkg/arrange"
	"github.com/khalidghaith/SOAP-sub000/pkg/geo"
	"github.com/khalidghaith/SOAP-sub000/pkg/project"
	"github.com/khalidghaith/SOAP-sub000/pkg/raster"
	"github.com/khalidghaith/SOAP-sub000/pkg/scene2d"
	"github.com/khalidghaith/SOAP-sub000/pkg/space"
	"github.com/khalidghaith/SOAP-sub000/pkg/validation"
	"github.com/khalidghaith/SOAP-sub000/pkg/zone"
)

// spacesFor returns the spaces on the floor named by the "floor" query
// parameter, or every space when it is absent.
func (s *Server) spacesFor(c fiber.Ctx) []space.Space {
	if _, ok := c.Queries()["floor"]; ok {
		return s.store.OnFloor(c.Query("floor"))
	}
	return s.store.All()
}

// floorSpaces is spacesFor for views that draw a single floor: without a
// "floor" query it falls back to the first floor of the plan.
func (s *Server) floorSpaces(c fiber.Ctx) []space.Space {
	if _, ok := c.Queries()["floor"]; ok || len(s.project.Floors) == 0 {
		return s.spacesFor(c)
	}
	return s.store.OnFloor(s.project.Floors[0].Name)
}

// snapshot returns the project with its floors replaced by the store.
func (s *Server) snapshot() *project.Project {
	p := *s.project
	p.Floors = append([]project.Floor(nil), s.project.Floors...)
	p.SetSpaces(s.store.All())
	return &p
}

func (s *Server) handleScene(c fiber.Ctx) error {
	return c.JSON(scene2d.Assemble(s.project, s.spacesFor(c)))
}

func (s *Server) handleValidation(c fiber.Ctx) error {
	return c.JSON(validation.ValidateProject(s.snapshot()))
}

func (s *Server) handleSettings(c fiber.Ctx) error {
	return c.JSON(s.project.Settings)
}

type zonePayload struct {
	Floor    string       `json:"floor"`
	Category string       `json:"category"`
	Color    string       `json:"color,omitempty"`
	Members  []string     `json:"members"`
	Hull     [][2]float64 `json:"hull"`
	Path     string       `json:"path"`
}

func (s *Server) handleZones(c fiber.Ctx) error {
	settings := s.project.Settings
	params := settings.ZoneParams()
	if v := c.Query("padding"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return badRequest(c, "padding must be a number")
		}
		params.Padding = f
	}
	if v := c.Query("radius"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return badRequest(c, "radius must be a number")
		}
		params.CornerRadius = f
	}

	outlines := zone.Outlines(s.spacesFor(c), settings.Colors, params)
	out := make([]zonePayload, 0, len(outlines))
	for _, o := range outlines {
		hull := make([][2]float64, len(o.Hull))
		for i, p := range o.Hull {
			hull[i] = [2]float64{p.X, p.Y}
		}
		out = append(out, zonePayload{
			Floor:    o.Floor,
			Category: o.Category,
			Color:    o.Color,
			Members:  o.Members,
			Hull:     hull,
			Path:     o.Path.SVG(),
		})
	}
	return c.JSON(out)
}

func (s *Server) handlePreview(c fiber.Ctx) error {
	opts := raster.DefaultOptions()
	if v := c.Query("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "width must be an integer")
		}
		opts.Width = n
	}
	if v := c.Query("height"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "height must be an integer")
		}
		opts.Height = n
	}
	opts.Labels = c.Query("labels") != "false"

	var buf bytes.Buffer
	if err := raster.RenderPNG(&buf, s.project, s.floorSpaces(c), opts); err != nil {
		return badRequest(c, err.Error())
	}
	c.Set("Content-Type", "image/png")
	return c.Send(buf.Bytes())
}

func (s *Server) handleSave(c fiber.Ctx) error {
	if s.projectPath == "" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "server has no project path"})
	}
	p := s.snapshot()
	path := filepath.Join(s.projectPath, project.FileName)
	if err := project.Save(path, p); err != nil {
		log.Printf("[SAVE] %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	s.project.Floors = p.Floors
	return c.JSON(fiber.Map{"saved": path, "revision": s.store.Revision()})
}

func (s *Server) handleListSpaces(c fiber.Ctx) error {
	return c.JSON(s.spacesFor(c))
}

func (s *Server) handleGetSpace(c fiber.Ctx) error {
	sp, ok := s.store.Get(c.Params("id"))
	if !ok {
		return notFound(c, "space")
	}
	return c.JSON(sp)
}

func (s *Server) handleCreateSpace(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return badRequest(c, "body required")
	}
	var sp space.Space
	if err := json.Unmarshal(c.Body(), &sp); err != nil {
		return badRequest(c, "invalid JSON payload")
	}
	if sp.ID == "" {
		sp.ID = uuid.NewString()
	}
	if _, exists := s.store.Get(sp.ID); exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "space " + sp.ID + " already exists"})
	}
	if sp.Kind == "" {
		sp.Kind = space.KindRectangle
	}
	if sp.TargetArea <= 0 {
		sp.TargetArea = sp.Area()
	}
	if msg := checkSpace(sp); msg != "" {
		return badRequest(c, msg)
	}
	s.store.Add(sp)
	log.Printf("[SPACES] created %s", sp)
	return c.Status(fiber.StatusCreated).JSON(sp)
}

// spacePatch is the JSON form of space.Update.
type spacePatch struct {
	Name          *string       `json:"name"`
	Category      *string       `json:"category"`
	Floor         *string       `json:"floor"`
	Origin        *geo.Point2D  `json:"origin"`
	Kind          *space.Kind   `json:"kind"`
	Extent        *space.Extent `json:"extent"`
	ControlPoints []geo.Point2D `json:"control_points"`
	TargetArea    *float64      `json:"target_area"`
	Rotation      *float64      `json:"rotation"`
}

func (p spacePatch) update() space.Update {
	return space.Update{
		Name:          p.Name,
		Category:      p.Category,
		Floor:         p.Floor,
		Origin:        p.Origin,
		Kind:          p.Kind,
		Extent:        p.Extent,
		ControlPoints: p.ControlPoints,
		TargetArea:    p.TargetArea,
		Rotation:      p.Rotation,
	}
}

// checkSpace returns why sp may not enter the store, or "" when it may.
func checkSpace(sp space.Space) string {
	switch {
	case !sp.Kind.Valid() || sp.TargetArea <= 0:
		return "space needs a known kind and a positive area"
	case sp.Kind == space.KindRectangle && (sp.Extent.W <= 0 || sp.Extent.H <= 0):
		return "rectangles need a positive extent"
	case sp.Kind != space.KindRectangle && len(sp.ControlPoints) < 3:
		return "polygon and organic spaces need at least 3 control points"
	}
	return ""
}

func (s *Server) handlePatchSpace(c fiber.Ctx) error {
	id := c.Params("id")
	current, ok := s.store.Get(id)
	if !ok {
		return notFound(c, "space")
	}
	var patch spacePatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return badRequest(c, "invalid JSON payload")
	}
	if patch.Kind != nil && !patch.Kind.Valid() {
		return badRequest(c, "unknown kind")
	}
	if patch.ControlPoints != nil && len(patch.ControlPoints) < 3 {
		return badRequest(c, "a ring needs at least 3 control points")
	}
	u := patch.update()
	if u.IsZero() {
		return badRequest(c, "no fields to update")
	}
	if msg := checkSpace(u.ApplyTo(current)); msg != "" {
		return badRequest(c, msg)
	}
	s.store.UpdateSpace(id, u)
	sp, _ := s.store.Get(id)
	return c.JSON(sp)
}

func (s *Server) handleDeleteSpace(c fiber.Ctx) error {
	if !s.store.Remove(c.Params("id")) {
		return notFound(c, "space")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleSpacePath(c fiber.Ctx) error {
	sp, ok := s.store.Get(c.Params("id"))
	if !ok {
		return notFound(c, "space")
	}
	detail, err := strconv.Atoi(c.Query("detail", "0"))
	if err != nil || detail < 0 {
		return badRequest(c, "detail must be a non-negative integer")
	}
	path := space.PathCommands(sp, detail)
	return c.JSON(fiber.Map{
		"id":       sp.ID,
		"path":     path.SVG(),
		"commands": path,
	})
}

func (s *Server) handleToOrganic(c fiber.Ctx) error {
	id := c.Params("id")
	sp, ok := s.store.Get(id)
	if !ok {
		return notFound(c, "space")
	}
	n, err := strconv.Atoi(c.Query("points", strconv.Itoa(s.project.Settings.OrganicPoints)))
	if err != nil || n < 3 {
		return badRequest(c, "points must be an integer of at least 3")
	}
	organic := space.ToOrganic(sp, n)
	s.store.UpdateSpace(id, space.Full(organic))
	return c.JSON(organic)
}

func (s *Server) handleArrange(c fiber.Ctx) error {
	opts := s.project.Settings.ArrangeOptions()
	if v := c.Query("margin"); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil || m < 0 {
			return badRequest(c, "margin must be a non-negative number")
		}
		opts.Margin = m
	}
	before := s.spacesFor(c)
	after, unplaced := arrange.ArrangeWith(before, opts)
	n := s.store.Apply(space.Diff(before, after))
	log.Printf("[ARRANGE] moved %d of %d spaces", n, len(before))
	return c.JSON(fiber.Map{
		"moved":  n,
		"report": validation.Unplaced(unplaced),
	})
}

func (s *Server) handleDeclutterStatus(c fiber.Ctx) error {
	ticks, writes := s.sim.Stats()
	return c.JSON(fiber.Map{
		"running": s.sim.Running(),
		"ticks":   ticks,
		"writes":  writes,
	})
}

func (s *Server) handleDeclutterStart(c fiber.Ctx) error {
	s.sim.SetFloor(c.Query("floor"))
	started := s.sim.Start(context.Background())
	if started {
		log.Printf("[DECLUTTER] started on floor %q", c.Query("floor"))
	}
	return c.JSON(fiber.Map{"running": true, "started": started})
}

func (s *Server) handleDeclutterStop(c fiber.Ctx) error {
	s.sim.Stop()
	log.Printf("[DECLUTTER] stopped")
	return c.JSON(fiber.Map{"running": false})
}
