package editor

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/khalidghaith/SOAP-sub000/pkg/geo"
	"github.com/khalidghaith/SOAP-sub000/pkg/space"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func organicSpace(t *testing.T) space.Space {
	t.Helper()
	rect := space.Space{
		ID:       "bubble",
		Category: "living",
		Kind:     space.KindRectangle,
		Extent:   space.Extent{W: 100, H: 100},
	}
	rect.TargetArea = 25
	return space.ToOrganic(rect, 8)
}

func polygonSpace() space.Space {
	return space.Space{
		ID:            "poly",
		Category:      "service",
		Origin:        geo.Pt(100, 100),
		Kind:          space.KindPolygon,
		ControlPoints: geo.RectRing(40, 20),
		TargetArea:    800,
	}
}

func newEditor(spaces ...space.Space) (*Editor, *space.Store) {
	st := space.NewStore(spaces)
	return New(st, DefaultConfig()), st
}

func TestOrganicVertexDragPreservesArea(t *testing.T) {
	s := organicSpace(t)
	ed, st := newEditor(s)

	start := s.ControlPoints[0]
	if !ed.BeginVertexDrag(s, 0) {
		t.Fatal("BeginVertexDrag refused")
	}
	got, ok := ed.Move(geo.Pt(50, 50))
	if !ok {
		t.Fatal("Move reported no change")
	}
	ed.End()

	if a := geo.Area(got.ControlPoints); !approxEqual(a, 25, 1e-9) {
		t.Errorf("ring area after drag = %f, want 25", a)
	}
	want := start.Add(geo.Pt(50, 50))
	if !approxEqual(got.ControlPoints[0].X, want.X, 1e-9) || !approxEqual(got.ControlPoints[0].Y, want.Y, 1e-9) {
		t.Errorf("dragged vertex at %v, want %v", got.ControlPoints[0], want)
	}
	stored, _ := st.Get("bubble")
	if diff := cmp.Diff(got, stored, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("store does not hold the returned space (-got +stored):\n%s", diff)
	}
	if stored.TargetArea != 25 {
		t.Errorf("target area changed to %f", stored.TargetArea)
	}
	if ed.State() != Idle {
		t.Errorf("state after End = %v, want idle", ed.State())
	}
}

func TestOrganicRepeatedDragsDoNotDrift(t *testing.T) {
	s := organicSpace(t)
	ed, st := newEditor(s)

	deltas := []geo.Point2D{
		geo.Pt(3, -7), geo.Pt(-12, 4), geo.Pt(20, 20), geo.Pt(-1.5, 0.25), geo.Pt(0, 9),
		geo.Pt(7, 7), geo.Pt(-30, 2), geo.Pt(5, -11), geo.Pt(0.1, 0.1), geo.Pt(14, -3),
	}
	for i, d := range deltas {
		cur, _ := st.Get("bubble")
		idx := (i * 3) % len(cur.ControlPoints)
		if !ed.BeginVertexDrag(cur, idx) {
			t.Fatalf("drag %d refused", i)
		}
		// Intermediate pointer moves must not accumulate error either.
		ed.Move(d.Scale(0.5))
		ed.Move(d)
		ed.End()
	}
	final, _ := st.Get("bubble")
	if a := geo.Area(final.ControlPoints); !approxEqual(a, 25, 1e-6) {
		t.Errorf("area after %d drags = %.12f, want 25", len(deltas), a)
	}
}

func TestOrganicDragCollapsedRingSkipsCorrection(t *testing.T) {
	s := space.Space{
		ID:            "thin",
		Kind:          space.KindOrganic,
		ControlPoints: []geo.Point2D{geo.Pt(0, 0), geo.Pt(10, 0), geo.Pt(5, 1)},
		TargetArea:    5,
	}
	ed, _ := newEditor(s)
	ed.BeginVertexDrag(s, 2)
	// Moving the apex onto the base makes the ring collinear.
	got, ok := ed.Move(geo.Pt(0, -1))
	if !ok {
		t.Fatal("Move refused")
	}
	for i, p := range got.ControlPoints {
		if !p.IsFinite() {
			t.Fatalf("vertex %d is not finite: %v", i, p)
		}
	}
	if got.ControlPoints[2] != geo.Pt(5, 0) {
		t.Errorf("raw drag not applied: %v", got.ControlPoints[2])
	}
}

func TestPolygonVertexDragRecomputesArea(t *testing.T) {
	s := polygonSpace()
	ed, _ := newEditor(s)
	ed.BeginVertexDrag(s, 2)
	got, _ := ed.Move(geo.Pt(20, 0))
	ed.End()

	if got.ControlPoints[2] != geo.Pt(60, 20) {
		t.Errorf("vertex 2 = %v, want (60,20)", got.ControlPoints[2])
	}
	want := geo.Area(got.ControlPoints)
	if got.TargetArea != want || approxEqual(want, 800, 1e-9) {
		t.Errorf("target area = %f, want recomputed %f", got.TargetArea, want)
	}
}

func TestMultiVertexDragMovesSelection(t *testing.T) {
	s := organicSpace(t)
	ed, _ := newEditor(s)
	ed.Select(s.ID, 1, 2, 5)

	ed.BeginVertexDrag(s, 2)
	if diff := cmp.Diff([]int{1, 2, 5}, ed.DraggedIndices()); diff != "" {
		t.Fatalf("dragged indices mismatch (-want +got):\n%s", diff)
	}
	got, _ := ed.Move(geo.Pt(4, -6))
	ed.End()

	for i, p := range got.ControlPoints {
		want := s.ControlPoints[i]
		if i == 1 || i == 2 || i == 5 {
			want = want.Add(geo.Pt(4, -6))
		}
		if !approxEqual(p.X, want.X, 1e-9) || !approxEqual(p.Y, want.Y, 1e-9) {
			t.Errorf("vertex %d = %v, want %v", i, p, want)
		}
	}
	if got.TargetArea != 25 {
		t.Errorf("multi-select drag changed organic target area to %f", got.TargetArea)
	}
}

func TestDragOutsideSelectionMovesSingleVertex(t *testing.T) {
	s := polygonSpace()
	ed, _ := newEditor(s)
	ed.Select(s.ID, 0, 1)
	ed.BeginVertexDrag(s, 3)
	if diff := cmp.Diff([]int{3}, ed.DraggedIndices()); diff != "" {
		t.Errorf("dragged indices mismatch (-want +got):\n%s", diff)
	}
}

func TestEdgeDrag(t *testing.T) {
	s := polygonSpace()
	ed, _ := newEditor(s)
	if !ed.BeginEdgeDrag(s, 1, false) {
		t.Fatal("BeginEdgeDrag refused")
	}
	if ed.State() != EdgeDrag {
		t.Errorf("state = %v, want edge-drag", ed.State())
	}
	got, _ := ed.Move(geo.Pt(10, 0))
	ed.End()

	want := []geo.Point2D{geo.Pt(0, 0), geo.Pt(50, 0), geo.Pt(50, 20), geo.Pt(0, 20)}
	if diff := cmp.Diff(want, got.ControlPoints); diff != "" {
		t.Errorf("ring mismatch (-want +got):\n%s", diff)
	}
	if got.TargetArea != 1000 {
		t.Errorf("target area = %f, want 1000", got.TargetArea)
	}
}

func TestEdgeExtrude(t *testing.T) {
	s := polygonSpace()
	ed, st := newEditor(s)
	if !ed.BeginEdgeDrag(s, 1, true) {
		t.Fatal("BeginEdgeDrag refused")
	}
	if ed.State() != EdgeExtrude {
		t.Errorf("state = %v, want edge-extrude", ed.State())
	}
	mid, _ := st.Get(s.ID)
	if len(mid.ControlPoints) != 6 {
		t.Fatalf("extrusion should insert two vertices, ring has %d", len(mid.ControlPoints))
	}
	got, _ := ed.Move(geo.Pt(15, 0))
	ed.End()

	want := []geo.Point2D{
		geo.Pt(0, 0), geo.Pt(40, 0),
		geo.Pt(55, 0), geo.Pt(55, 20),
		geo.Pt(40, 20), geo.Pt(0, 20),
	}
	if diff := cmp.Diff(want, got.ControlPoints); diff != "" {
		t.Errorf("ring mismatch (-want +got):\n%s", diff)
	}
	if got.TargetArea != 800+15*20 {
		t.Errorf("target area = %f, want %f", got.TargetArea, 800.0+15*20)
	}
}

func TestEdgeExtrudeClosingEdge(t *testing.T) {
	s := polygonSpace()
	ed, _ := newEditor(s)
	ed.BeginEdgeDrag(s, 3, true)
	got, _ := ed.Move(geo.Pt(-10, 0))
	ed.End()

	want := []geo.Point2D{
		geo.Pt(0, 0), geo.Pt(40, 0), geo.Pt(40, 20), geo.Pt(0, 20),
		geo.Pt(-10, 20), geo.Pt(-10, 0),
	}
	if diff := cmp.Diff(want, got.ControlPoints); diff != "" {
		t.Errorf("ring mismatch (-want +got):\n%s", diff)
	}
}

func TestCancelRestoresRectangle(t *testing.T) {
	r := space.Space{ID: "r", Kind: space.KindRectangle, Extent: space.Extent{W: 30, H: 10}, TargetArea: 300}
	ed, st := newEditor(r)
	ed.BeginEdgeDrag(r, 0, true)
	ed.Move(geo.Pt(0, -5))

	promoted, _ := st.Get("r")
	if promoted.Kind != space.KindPolygon {
		t.Fatalf("rectangle not promoted during gesture: %s", promoted.Kind)
	}
	ed.Cancel()

	restored, _ := st.Get("r")
	if restored.Kind != space.KindRectangle || restored.Extent != r.Extent {
		t.Errorf("cancel did not restore rectangle: %+v", restored)
	}
	if len(restored.ControlPoints) != 0 {
		t.Errorf("stale control points left after cancel: %v", restored.ControlPoints)
	}
}

func TestSecondGestureRejectedWhileActive(t *testing.T) {
	s := polygonSpace()
	ed, _ := newEditor(s)
	ed.BeginVertexDrag(s, 0)
	if ed.BeginEdgeDrag(s, 0, false) {
		t.Error("second gesture accepted while dragging")
	}
	if _, ok := ed.InsertVertex(s, 0, geo.Pt(120, 100)); ok {
		t.Error("vertex insertion accepted while dragging")
	}
	if ed.ActiveID() != s.ID {
		t.Errorf("ActiveID = %q, want %q", ed.ActiveID(), s.ID)
	}
}

func TestMoveWhenIdle(t *testing.T) {
	ed, _ := newEditor()
	if _, ok := ed.Move(geo.Pt(1, 1)); ok {
		t.Error("Move should do nothing while idle")
	}
}

func TestSnapping(t *testing.T) {
	s := polygonSpace()
	st := space.NewStore([]space.Space{s})
	ed := New(st, Config{GridSize: 10, Snap: true, AreaEpsilon: 1e-6})
	ed.BeginVertexDrag(s, 2)
	got, _ := ed.Move(geo.Pt(13.7, 4.2))
	ed.End()
	if got.ControlPoints[2] != geo.Pt(50, 20) {
		t.Errorf("snapped vertex = %v, want (50,20)", got.ControlPoints[2])
	}
}

func TestRotatedDragUsesLocalFrame(t *testing.T) {
	s := polygonSpace()
	s.Rotation = 90
	ed, _ := newEditor(s)
	ed.BeginVertexDrag(s, 1)
	// A world-space move straight down is a move along local +X after a
	// quarter turn.
	got, _ := ed.Move(geo.Pt(0, 10))
	ed.End()
	if !approxEqual(got.ControlPoints[1].X, 50, 1e-9) || !approxEqual(got.ControlPoints[1].Y, 0, 1e-9) {
		t.Errorf("vertex 1 = %v, want (50,0)", got.ControlPoints[1])
	}
}

func TestInsertVertex(t *testing.T) {
	s := polygonSpace()
	ed, st := newEditor(s)
	ed.Select(s.ID, 2)

	got, ok := ed.InsertVertex(s, 0, geo.Pt(120, 100))
	if !ok {
		t.Fatal("InsertVertex refused")
	}
	want := []geo.Point2D{geo.Pt(0, 0), geo.Pt(20, 0), geo.Pt(40, 0), geo.Pt(40, 20), geo.Pt(0, 20)}
	if diff := cmp.Diff(want, got.ControlPoints); diff != "" {
		t.Errorf("ring mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3}, ed.Selection(s.ID)); diff != "" {
		t.Errorf("selection not shifted (-want +got):\n%s", diff)
	}
	stored, _ := st.Get(s.ID)
	if len(stored.ControlPoints) != 5 {
		t.Errorf("store ring has %d points, want 5", len(stored.ControlPoints))
	}
}

func TestInsertVertexSnapped(t *testing.T) {
	s := polygonSpace()
	st := space.NewStore([]space.Space{s})
	ed := New(st, Config{GridSize: 10, Snap: true})
	got, _ := ed.InsertVertex(s, 0, geo.Pt(117, 101))
	if got.ControlPoints[1] != geo.Pt(20, 0) {
		t.Errorf("inserted vertex = %v, want (20,0)", got.ControlPoints[1])
	}
}

func TestInsertVertexNear(t *testing.T) {
	s := polygonSpace()
	ed, _ := newEditor(s)
	got, ok := ed.InsertVertexNear(s, geo.Pt(141, 110))
	if !ok {
		t.Fatal("InsertVertexNear refused")
	}
	want := []geo.Point2D{geo.Pt(0, 0), geo.Pt(40, 0), geo.Pt(40, 10), geo.Pt(40, 20), geo.Pt(0, 20)}
	if diff := cmp.Diff(want, got.ControlPoints); diff != "" {
		t.Errorf("ring mismatch (-want +got):\n%s", diff)
	}
	if !approxEqual(got.TargetArea, 800, 1e-9) {
		t.Errorf("area = %v, want 800", got.TargetArea)
	}
}

func TestDeleteSelected(t *testing.T) {
	s := polygonSpace()
	s.ControlPoints = append(s.ControlPoints, geo.Pt(-10, 10))
	ed, _ := newEditor(s)
	ed.Select(s.ID, 4)

	got, ok := ed.DeleteSelected(s)
	if !ok {
		t.Fatal("DeleteSelected refused")
	}
	if len(got.ControlPoints) != 4 {
		t.Errorf("ring has %d points, want 4", len(got.ControlPoints))
	}
	if got.TargetArea != 800 {
		t.Errorf("target area = %f, want 800", got.TargetArea)
	}
	if len(ed.Selection(s.ID)) != 0 {
		t.Error("selection should be cleared after delete")
	}
}

func TestDeleteBelowThreeIsNoop(t *testing.T) {
	s := polygonSpace()
	ed, st := newEditor(s)
	ed.Select(s.ID, 0, 1)

	if _, ok := ed.DeleteSelected(s); ok {
		t.Error("deleting two of four vertices must be rejected")
	}
	stored, _ := st.Get(s.ID)
	if len(stored.ControlPoints) != 4 {
		t.Errorf("ring changed to %d points", len(stored.ControlPoints))
	}
	if diff := cmp.Diff([]int{0, 1}, ed.Selection(s.ID)); diff != "" {
		t.Errorf("selection changed by rejected delete (-want +got):\n%s", diff)
	}
}

func TestToggleSelect(t *testing.T) {
	ed, _ := newEditor()
	ed.ToggleSelect("a", 1)
	ed.ToggleSelect("a", 3)
	ed.ToggleSelect("a", 1)
	if diff := cmp.Diff([]int{3}, ed.Selection("a")); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
	ed.ToggleSelect("b", 0)
	if ed.Selection("a") != nil {
		t.Error("selection on another space should reset the previous one")
	}
	ed.ClearSelection()
	if len(ed.Selection("b")) != 0 {
		t.Error("ClearSelection left indices behind")
	}
}

func TestOutOfRangeSelectionIsDropped(t *testing.T) {
	s := polygonSpace()
	ed, _ := newEditor(s)
	ed.Select(s.ID, 0, 7, -1)
	if !ed.BeginVertexDrag(s, 0) {
		t.Fatal("BeginVertexDrag refused")
	}
	got, ok := ed.Move(geo.Pt(5, 5))
	if !ok {
		t.Fatal("Move refused")
	}
	ed.End()
	if got.ControlPoints[0] != geo.Pt(5, 5) {
		t.Errorf("dragged vertex = %v, want (5,5)", got.ControlPoints[0])
	}
	if diff := cmp.Diff([]int{0}, ed.Selection(s.ID)); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}

	ed.Select(s.ID, 0, 1, 9)
	ed.BeginVertexDrag(got, 1)
	moved, _ := ed.Move(geo.Pt(0, 10))
	ed.End()
	want := []geo.Point2D{geo.Pt(5, 15), geo.Pt(40, 10), geo.Pt(40, 20), geo.Pt(0, 20)}
	if diff := cmp.Diff(want, moved.ControlPoints); diff != "" {
		t.Errorf("ring mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteVerticesRenumbersSelection(t *testing.T) {
	s := space.Space{
		ID: "strip", Category: "service", Kind: space.KindPolygon, TargetArea: 200,
		ControlPoints: []geo.Point2D{
			geo.Pt(0, 0), geo.Pt(10, 0), geo.Pt(20, 0),
			geo.Pt(20, 10), geo.Pt(10, 10), geo.Pt(0, 10),
		},
	}
	ed, _ := newEditor(s)
	ed.Select(s.ID, 0, 2, 5)
	after, ok := ed.DeleteVertices(s, []int{1, 2})
	if !ok {
		t.Fatal("DeleteVertices refused")
	}
	if diff := cmp.Diff([]int{0, 3}, ed.Selection(s.ID)); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}

	if !ed.BeginVertexDrag(after, 0) {
		t.Fatal("BeginVertexDrag refused")
	}
	got, _ := ed.Move(geo.Pt(1, 0))
	ed.End()
	want := []geo.Point2D{geo.Pt(1, 0), geo.Pt(20, 10), geo.Pt(10, 10), geo.Pt(1, 10)}
	if diff := cmp.Diff(want, got.ControlPoints); diff != "" {
		t.Errorf("ring mismatch (-want +got):\n%s", diff)
	}
}

func TestExtrudeShiftsSelection(t *testing.T) {
	s := polygonSpace()
	ed, st := newEditor(s)
	ed.Select(s.ID, 2, 3)
	if !ed.BeginEdgeDrag(s, 1, true) {
		t.Fatal("BeginEdgeDrag refused")
	}
	ed.End()
	if diff := cmp.Diff([]int{4, 5}, ed.Selection(s.ID)); diff != "" {
		t.Fatalf("selection not shifted (-want +got):\n%s", diff)
	}

	// The shifted selection still names the same corners.
	extruded, _ := st.Get(s.ID)
	ed.BeginVertexDrag(extruded, 4)
	got, _ := ed.Move(geo.Pt(0, 5))
	ed.End()
	if got.ControlPoints[4] != geo.Pt(40, 25) || got.ControlPoints[5] != geo.Pt(0, 25) {
		t.Errorf("moved corners = %v %v, want (40,25) (0,25)", got.ControlPoints[4], got.ControlPoints[5])
	}
}

func TestCancelExtrudeRestoresSelection(t *testing.T) {
	s := polygonSpace()
	ed, _ := newEditor(s)
	ed.Select(s.ID, 2, 3)
	ed.BeginEdgeDrag(s, 1, true)
	ed.Cancel()
	if diff := cmp.Diff([]int{2, 3}, ed.Selection(s.ID)); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleSelectIgnoresNegative(t *testing.T) {
	ed, _ := newEditor()
	ed.ToggleSelect("a", -2)
	if len(ed.Selection("a")) != 0 {
		t.Errorf("negative index selected: %v", ed.Selection("a"))
	}
}
