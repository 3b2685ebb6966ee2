package server

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"github.com/khalidghaith/SOAP-sub000/pkg/geo"
	"github.com/khalidghaith/SOAP-sub000/pkg/space"
)

// editRequest carries every gesture's arguments; each endpoint reads the
// fields it needs.
type editRequest struct {
	ID      string  `json:"id"`
	Index   int     `json:"index"`
	Edge    int     `json:"edge"`
	Extrude bool    `json:"extrude"`
	Indices []int   `json:"indices"`
	Toggle  bool    `json:"toggle"`
	DX      float64 `json:"dx"`
	DY      float64 `json:"dy"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

type editState struct {
	State     string       `json:"state"`
	ActiveID  string       `json:"active_id,omitempty"`
	Dragged   []int        `json:"dragged,omitempty"`
	Selection []int        `json:"selection"`
	Space     *space.Space `json:"space,omitempty"`
}

func parseEdit(c fiber.Ctx) (editRequest, error) {
	var req editRequest
	if len(c.Body()) == 0 {
		return req, nil
	}
	err := json.Unmarshal(c.Body(), &req)
	return req, err
}

// state must be called with editMu held.
func (s *Server) state(id string) editState {
	if active := s.editor.ActiveID(); active != "" {
		id = active
	}
	st := editState{
		State:     s.editor.State().String(),
		ActiveID:  s.editor.ActiveID(),
		Dragged:   s.editor.DraggedIndices(),
		Selection: s.editor.Selection(id),
	}
	if st.Selection == nil {
		st.Selection = []int{}
	}
	if sp, ok := s.store.Get(id); ok {
		st.Space = &sp
	}
	return st
}

// withSpace parses the request and resolves its space, then runs fn with
// the editor locked.
func (s *Server) withSpace(c fiber.Ctx, fn func(req editRequest, sp space.Space) error) error {
	req, err := parseEdit(c)
	if err != nil {
		return badRequest(c, "invalid JSON payload")
	}
	sp, ok := s.store.Get(req.ID)
	if !ok {
		return notFound(c, "space")
	}
	s.editMu.Lock()
	defer s.editMu.Unlock()
	return fn(req, sp)
}

func conflict(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msg})
}

func (s *Server) handleEditState(c fiber.Ctx) error {
	s.editMu.Lock()
	defer s.editMu.Unlock()
	return c.JSON(s.state(c.Query("id")))
}

func (s *Server) handleSelect(c fiber.Ctx) error {
	return s.withSpace(c, func(req editRequest, sp space.Space) error {
		switch {
		case req.Toggle:
			for _, i := range req.Indices {
				s.editor.ToggleSelect(sp.ID, i)
			}
		default:
			s.editor.Select(sp.ID, req.Indices...)
		}
		return c.JSON(s.state(sp.ID))
	})
}

func (s *Server) handleBeginVertex(c fiber.Ctx) error {
	return s.withSpace(c, func(req editRequest, sp space.Space) error {
		if !s.editor.BeginVertexDrag(sp, req.Index) {
			return conflict(c, "cannot start vertex drag")
		}
		return c.JSON(s.state(sp.ID))
	})
}

func (s *Server) handleBeginEdge(c fiber.Ctx) error {
	return s.withSpace(c, func(req editRequest, sp space.Space) error {
		if !s.editor.BeginEdgeDrag(sp, req.Edge, req.Extrude) {
			return conflict(c, "cannot start edge drag")
		}
		return c.JSON(s.state(sp.ID))
	})
}

func (s *Server) handleMove(c fiber.Ctx) error {
	req, err := parseEdit(c)
	if err != nil {
		return badRequest(c, "invalid JSON payload")
	}
	s.editMu.Lock()
	defer s.editMu.Unlock()
	if _, ok := s.editor.Move(geo.Pt(req.DX, req.DY)); !ok {
		return conflict(c, "no gesture in progress")
	}
	return c.JSON(s.state(""))
}

func (s *Server) handleEnd(c fiber.Ctx) error {
	s.editMu.Lock()
	defer s.editMu.Unlock()
	id := s.editor.ActiveID()
	s.editor.End()
	return c.JSON(s.state(id))
}

func (s *Server) handleCancel(c fiber.Ctx) error {
	s.editMu.Lock()
	defer s.editMu.Unlock()
	id := s.editor.ActiveID()
	s.editor.Cancel()
	return c.JSON(s.state(id))
}

func (s *Server) handleInsert(c fiber.Ctx) error {
	return s.withSpace(c, func(req editRequest, sp space.Space) error {
		if _, ok := s.editor.InsertVertex(sp, req.Edge, geo.Pt(req.X, req.Y)); !ok {
			return conflict(c, "cannot insert vertex")
		}
		return c.JSON(s.state(sp.ID))
	})
}

// handleSplit inserts a vertex on whichever edge is closest to the pointer.
func (s *Server) handleSplit(c fiber.Ctx) error {
	return s.withSpace(c, func(req editRequest, sp space.Space) error {
		if _, ok := s.editor.InsertVertexNear(sp, geo.Pt(req.X, req.Y)); !ok {
			return conflict(c, "cannot split edge")
		}
		return c.JSON(s.state(sp.ID))
	})
}

func (s *Server) handleDeleteVertices(c fiber.Ctx) error {
	return s.withSpace(c, func(req editRequest, sp space.Space) error {
		var ok bool
		if len(req.Indices) > 0 {
			_, ok = s.editor.DeleteVertices(sp, req.Indices)
		} else {
			_, ok = s.editor.DeleteSelected(sp)
		}
		if !ok {
			return conflict(c, "nothing selected, or fewer than 3 vertices would remain")
		}
		return c.JSON(s.state(sp.ID))
	})
}
