package server

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/khalidghaith/SOAP-sub000/pkg/declutter"
	"github.com/khalidghaith/SOAP-sub000/pkg/editor"
	"github.com/khalidghaith/SOAP-sub000/pkg/project"
	"github.com/khalidghaith/SOAP-sub000/pkg/space"
)

// Server is the local development server for interactive editing. Every
// write, whether from a gesture, the placer or the declutter timer, goes
// through the shared space.Store.
type Server struct {
	projectPath string
	port        int

	project *project.Project
	store   *space.Store

	editMu sync.Mutex
	editor *editor.Editor

	sim *declutter.Simulator

	app *fiber.App
}

// New loads the project in projectPath and creates a server for it.
func New(projectPath string, port int) (*Server, error) {
	p, err := project.LoadProject(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	s := NewWithProject(p)
	s.projectPath = projectPath
	s.port = port
	return s, nil
}

// NewWithProject creates a server around an already loaded project. It has
// no project path, so saving is disabled.
func NewWithProject(p *project.Project) *Server {
	st := space.NewStore(p.Spaces())
	s := &Server{
		project: p,
		store:   st,
		editor:  editor.New(st, p.Settings.EditorConfig()),
		sim:     declutter.NewSimulator(st, p.Settings.Declutter, p.Settings.TickPeriod()),
	}
	s.app = s.routes()
	return s
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Store returns the live space collection.
func (s *Server) Store() *space.Store { return s.store }

func (s *Server) routes() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "bubbleplan",
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"*"},
	}))

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	api := app.Group("/api")
	api.Get("/scene", s.handleScene)
	api.Get("/validation", s.handleValidation)
	api.Get("/zones", s.handleZones)
	api.Get("/preview.png", s.handlePreview)
	api.Get("/settings", s.handleSettings)
	api.Post("/save", s.handleSave)

	api.Get("/spaces", s.handleListSpaces)
	api.Post("/spaces", s.handleCreateSpace)
	api.Get("/spaces/:id", s.handleGetSpace)
	api.Patch("/spaces/:id", s.handlePatchSpace)
	api.Delete("/spaces/:id", s.handleDeleteSpace)
	api.Get("/spaces/:id/path", s.handleSpacePath)
	api.Post("/spaces/:id/organic", s.handleToOrganic)

	api.Post("/arrange", s.handleArrange)
	api.Get("/declutter", s.handleDeclutterStatus)
	api.Post("/declutter/start", s.handleDeclutterStart)
	api.Post("/declutter/stop", s.handleDeclutterStop)

	edit := api.Group("/edit")
	edit.Get("/", s.handleEditState)
	edit.Post("/select", s.handleSelect)
	edit.Post("/vertex", s.handleBeginVertex)
	edit.Post("/edge", s.handleBeginEdge)
	edit.Post("/move", s.handleMove)
	edit.Post("/end", s.handleEnd)
	edit.Post("/cancel", s.handleCancel)
	edit.Post("/insert", s.handleInsert)
	edit.Post("/split", s.handleSplit)
	edit.Post("/delete", s.handleDeleteVertices)

	app.Get("/", s.handleIndex)
	return app
}

// Start launches the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("bubbleplan server starting on http://localhost%s", addr)
	log.Printf("Project: %s (%d spaces on %d floors)", s.projectPath, len(s.store.All()), len(s.store.Floors()))
	return s.app.Listen(addr)
}

// Shutdown stops the declutter timer and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.sim.Stop()
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleIndex(c fiber.Ctx) error {
	c.Set("Content-Type", "text/html")
	return c.SendString(`<!DOCTYPE html>
<html><head><title>bubbleplan</title></head>
<body style="margin:0;background:#fafafa;color:#333;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>bubbleplan</h1>
<p><img src="/api/preview.png" alt="preview"></p>
<p>Scene JSON at <code>/api/scene</code>.</p>
</div>
</body></html>`)
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c fiber.Ctx, what string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": what + " not found"})
}
