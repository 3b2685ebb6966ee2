// Package editor implements interactive boundary editing as an explicit state
// machine. The editor never mutates shared state itself: every transition
// writes the full updated ring through a space.Updater.
package editor

import (
	"math"
	"sort"

	"github.com/khalidghaith/SOAP-sub000/pkg/geo"
	"github.com/khalidghaith/SOAP-sub000/pkg/space"
)

// State is the current gesture.
type State int

const (
	Idle State = iota
	VertexDrag
	EdgeDrag
	EdgeExtrude
)

func (s State) String() string {
	switch s {
	case VertexDrag:
		return "vertex-drag"
	case EdgeDrag:
		return "edge-drag"
	case EdgeExtrude:
		return "edge-extrude"
	default:
		return "idle"
	}
}

// Config holds snapping and numeric guards.
type Config struct {
	GridSize float64
	Snap     bool
	// AreaEpsilon is the smallest ring area that area preservation will
	// rescale; below it the raw drag is applied uncorrected.
	AreaEpsilon float64
}

// DefaultConfig returns a 10-unit grid with snapping off.
func DefaultConfig() Config {
	return Config{GridSize: 10, AreaEpsilon: 1e-6}
}

// Editor edits one space at a time.
type Editor struct {
	updater space.Updater
	cfg     Config

	state    State
	original space.Space // as passed to Begin*, restored by Cancel
	before   space.Space // ring snapshot the gesture is computed from
	indices  []int
	anchor   int

	selID     string
	selection map[int]bool
	savedSel  map[int]bool // selection at gesture start, restored by Cancel
}

// New creates an idle editor writing through u.
func New(u space.Updater, cfg Config) *Editor {
	return &Editor{updater: u, cfg: cfg, selection: make(map[int]bool)}
}

// State returns the current gesture state.
func (e *Editor) State() State { return e.state }

// ActiveID returns the ID of the space being dragged, or "" when idle.
func (e *Editor) ActiveID() string {
	if e.state == Idle {
		return ""
	}
	return e.before.ID
}

// DraggedIndices returns the ring indices moved by the current gesture.
func (e *Editor) DraggedIndices() []int {
	return append([]int(nil), e.indices...)
}

// Select replaces the vertex selection. Negative indices are ignored;
// indices past the end of the ring are dropped when a gesture starts.
func (e *Editor) Select(id string, indices ...int) {
	e.selID = id
	e.selection = make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 {
			e.selection[i] = true
		}
	}
}

// ToggleSelect adds or removes one vertex, as with a modifier-click.
func (e *Editor) ToggleSelect(id string, index int) {
	if e.selID != id {
		e.Select(id)
	}
	if index < 0 {
		return
	}
	if e.selection[index] {
		delete(e.selection, index)
	} else {
		e.selection[index] = true
	}
}

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() {
	e.Select("")
}

// Selection returns the selected indices of space id in ascending order.
func (e *Editor) Selection(id string) []int {
	if id != e.selID {
		return nil
	}
	out := make([]int, 0, len(e.selection))
	for i := range e.selection {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// BeginVertexDrag starts dragging vertex index of s. If the vertex is part
// of a multi-selection on s, every selected vertex moves with it.
// Rectangles are promoted to polygons first. It returns false when a
// gesture is already active or the index is out of range.
func (e *Editor) BeginVertexDrag(s space.Space, index int) bool {
	if e.state != Idle {
		return false
	}
	n := len(space.BoundaryPoints(s))
	if index < 0 || index >= n {
		return false
	}
	e.trimSelection(s.ID, n)
	work := e.promote(s)
	e.start(s, work, VertexDrag)
	e.anchor = index
	e.indices = []int{index}
	if sel := e.Selection(s.ID); len(sel) > 1 && e.selection[index] {
		e.indices = sel
	}
	return true
}

// BeginEdgeDrag starts dragging edge i (vertex i to vertex i+1) of s. With
// extrude set, the edge endpoints are first duplicated in place and the
// gesture drags the new edge, pulling a rectangular tab out of the boundary.
func (e *Editor) BeginEdgeDrag(s space.Space, edge int, extrude bool) bool {
	if e.state != Idle {
		return false
	}
	n := len(space.BoundaryPoints(s))
	if n < 3 || edge < 0 || edge >= n {
		return false
	}
	e.trimSelection(s.ID, n)
	e.savedSel = e.copySelection()
	work := e.promote(s)
	a, b := edge, (edge+1)%n
	state := EdgeDrag
	if extrude {
		ring := make([]geo.Point2D, 0, n+2)
		ring = append(ring, work.ControlPoints[:edge+1]...)
		ring = append(ring, work.ControlPoints[a], work.ControlPoints[b])
		ring = append(ring, work.ControlPoints[edge+1:]...)
		work.ControlPoints = ring
		a, b = edge+1, edge+2
		state = EdgeExtrude
		e.updater.UpdateSpace(work.ID, space.Update{ControlPoints: ring})
		e.shiftSelection(work.ID, edge+1, 2)
	}
	e.start(s, work, state)
	e.anchor = a
	e.indices = []int{a, b}
	return true
}

// promote turns a rectangle into a polygon and writes the promotion back.
func (e *Editor) promote(s space.Space) space.Space {
	if s.Kind != space.KindRectangle {
		return s.Clone()
	}
	p := space.ToPolygon(s)
	e.updater.UpdateSpace(p.ID, space.Full(p))
	return p
}

func (e *Editor) start(original, work space.Space, st State) {
	if st == VertexDrag {
		e.savedSel = e.copySelection()
	}
	e.original = original.Clone()
	e.before = work
	e.state = st
}

// Move applies the total pointer displacement since the gesture started,
// given in world units, and writes the result back. It returns the updated
// space; when idle it returns false.
func (e *Editor) Move(delta geo.Point2D) (space.Space, bool) {
	if e.state == Idle || !delta.IsFinite() {
		return space.Space{}, false
	}
	s := e.before
	local := s.DeltaToLocal(delta)

	var ring []geo.Point2D
	area := s.TargetArea
	switch {
	case e.state == VertexDrag && len(e.indices) == 1 && s.Kind == space.KindOrganic:
		ring = e.preserveArea(s, e.anchor, e.snap(s.ControlPoints[e.anchor].Add(local)))
		if area <= 0 {
			area = geo.Area(s.ControlPoints)
		}
	default:
		ring = geo.Clone(s.ControlPoints)
		for _, i := range e.indices {
			if i < 0 || i >= len(ring) {
				continue
			}
			ring[i] = e.snap(s.ControlPoints[i].Add(local))
		}
		// Organic multi-vertex drags keep the declared area untouched.
		if e.state != VertexDrag || s.Kind != space.KindOrganic {
			area = geo.Area(ring)
		}
	}

	u := space.Update{ControlPoints: ring, TargetArea: &area}
	e.updater.UpdateSpace(s.ID, u)
	return u.ApplyTo(s), true
}

// preserveArea relocates vertex k to target, rescales the ring about its
// vertex centroid back to the target area, then translates the ring so the
// dragged vertex sits exactly on target.
func (e *Editor) preserveArea(s space.Space, k int, target geo.Point2D) []geo.Point2D {
	ring := geo.Clone(s.ControlPoints)
	ring[k] = target

	want := s.TargetArea
	if want <= 0 {
		want = geo.Area(s.ControlPoints)
	}
	current := geo.Area(ring)
	if current < e.cfg.AreaEpsilon || want <= 0 {
		return ring
	}
	scale := math.Sqrt(want / current)
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return ring
	}
	ring = geo.ScaleAbout(ring, geo.VertexCentroid(ring), scale)
	return geo.Translate(ring, target.Sub(ring[k]))
}

func (e *Editor) snap(p geo.Point2D) geo.Point2D {
	if !e.cfg.Snap {
		return p
	}
	return geo.Snap(p, e.cfg.GridSize)
}

// End finishes the gesture and returns to idle.
func (e *Editor) End() {
	e.reset()
}

// Cancel abandons the gesture and writes back the space as it was before
// the gesture started, undoing promotion and extrusion.
func (e *Editor) Cancel() {
	if e.state == Idle {
		return
	}
	e.updater.UpdateSpace(e.original.ID, space.Full(e.original))
	e.selection = e.savedSel
	e.reset()
}

func (e *Editor) reset() {
	e.state = Idle
	e.before = space.Space{}
	e.original = space.Space{}
	e.indices = nil
	e.anchor = 0
	e.savedSel = nil
	if e.selection == nil {
		e.selection = make(map[int]bool)
	}
}

// InsertVertex splits edge i of s at the world point at (snapped when
// enabled) and writes the new ring back.
func (e *Editor) InsertVertex(s space.Space, edge int, at geo.Point2D) (space.Space, bool) {
	if e.state != Idle || !at.IsFinite() {
		return s, false
	}
	n := len(space.BoundaryPoints(s))
	if n < 3 || edge < 0 || edge >= n {
		return s, false
	}
	work := e.promote(s)
	p := e.snap(work.ToLocal(at))
	ring := make([]geo.Point2D, 0, n+1)
	ring = append(ring, work.ControlPoints[:edge+1]...)
	ring = append(ring, p)
	ring = append(ring, work.ControlPoints[edge+1:]...)

	u := space.Update{ControlPoints: ring}
	if work.Kind == space.KindPolygon {
		area := geo.Area(ring)
		u.TargetArea = &area
	}
	e.updater.UpdateSpace(work.ID, u)
	e.shiftSelection(work.ID, edge+1, 1)
	return u.ApplyTo(work), true
}

// InsertVertexNear splits the edge of s closest to the world point at,
// placing the new vertex on that edge.
func (e *Editor) InsertVertexNear(s space.Space, at geo.Point2D) (space.Space, bool) {
	if !at.IsFinite() {
		return s, false
	}
	edge, onEdge, _ := geo.NearestEdge(s.WorldRing(), at)
	if edge < 0 {
		return s, false
	}
	return e.InsertVertex(s, edge, onEdge)
}

// DeleteSelected removes the selected vertices of s. It is a no-op when
// nothing is selected or fewer than three vertices would remain.
func (e *Editor) DeleteSelected(s space.Space) (space.Space, bool) {
	out, ok := e.DeleteVertices(s, e.Selection(s.ID))
	if ok {
		e.Select(s.ID)
	}
	return out, ok
}

// DeleteVertices removes the given ring indices from s under the same rules
// as DeleteSelected.
func (e *Editor) DeleteVertices(s space.Space, indices []int) (space.Space, bool) {
	if e.state != Idle || len(indices) == 0 {
		return s, false
	}
	ring := space.BoundaryPoints(s)
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(ring) {
			drop[i] = true
		}
	}
	if len(drop) == 0 || len(ring)-len(drop) < 3 {
		return s, false
	}
	work := e.promote(s)
	kept := make([]geo.Point2D, 0, len(ring)-len(drop))
	for i, p := range work.ControlPoints {
		if !drop[i] {
			kept = append(kept, p)
		}
	}
	u := space.Update{ControlPoints: kept}
	if work.Kind == space.KindPolygon {
		area := geo.Area(kept)
		u.TargetArea = &area
	}
	e.updater.UpdateSpace(work.ID, u)
	e.renumberSelection(work.ID, drop)
	return u.ApplyTo(work), true
}

// trimSelection drops selected indices of space id that fall outside a ring
// of n vertices.
func (e *Editor) trimSelection(id string, n int) {
	if e.selID != id {
		return
	}
	for i := range e.selection {
		if i < 0 || i >= n {
			delete(e.selection, i)
		}
	}
}

func (e *Editor) copySelection() map[int]bool {
	out := make(map[int]bool, len(e.selection))
	for i := range e.selection {
		out[i] = true
	}
	return out
}

// renumberSelection removes deleted vertices from the selection and moves
// the remaining indices down past them.
func (e *Editor) renumberSelection(id string, dropped map[int]bool) {
	if e.selID != id || len(e.selection) == 0 {
		return
	}
	kept := make(map[int]bool, len(e.selection))
	for i := range e.selection {
		if dropped[i] {
			continue
		}
		below := 0
		for d := range dropped {
			if d < i {
				below++
			}
		}
		kept[i-below] = true
	}
	e.selection = kept
}

// shiftSelection keeps selected indices pointing at the same vertices after
// count vertices were inserted at position at.
func (e *Editor) shiftSelection(id string, at, count int) {
	if e.selID != id || len(e.selection) == 0 {
		return
	}
	shifted := make(map[int]bool, len(e.selection))
	for i := range e.selection {
		if i >= at {
			i += count
		}
		shifted[i] = true
	}
	e.selection = shifted
}
