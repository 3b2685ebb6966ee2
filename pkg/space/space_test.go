package space

import (
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/khalidghaith/SOAP-sub000/pkg/geo"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func rectSpace(id string, w, h float64) Space {
	return Space{
		ID:         id,
		Category:   "living",
		Origin:     geo.Pt(10, 20),
		Kind:       KindRectangle,
		Extent:     Extent{W: w, H: h},
		TargetArea: w * h,
	}
}

func TestBoundaryPointsRectangle(t *testing.T) {
	s := rectSpace("a", 40, 30)
	got := BoundaryPoints(s)
	want := []geo.Point2D{geo.Pt(0, 0), geo.Pt(40, 0), geo.Pt(40, 30), geo.Pt(0, 30)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BoundaryPoints mismatch (-want +got):\n%s", diff)
	}
}

func TestBoundaryPointsDoesNotAlias(t *testing.T) {
	s := Space{ID: "p", Kind: KindPolygon, ControlPoints: geo.RectRing(10, 10)}
	ring := BoundaryPoints(s)
	ring[0] = geo.Pt(-99, -99)
	if s.ControlPoints[0] == ring[0] {
		t.Error("BoundaryPoints returned a slice aliasing ControlPoints")
	}
}

func TestWorldRingRotation(t *testing.T) {
	s := rectSpace("r", 40, 20)
	s.Rotation = 90
	b := s.Bounds()
	// Rotating about the local center swaps the extents around the same center.
	if !approxEqual(b.X.Length(), 20, 1e-9) || !approxEqual(b.Y.Length(), 40, 1e-9) {
		t.Errorf("rotated bounds size = %v x %v, want 20 x 40", b.X.Length(), b.Y.Length())
	}
	c := s.Center()
	if !approxEqual(c.X, 30, 1e-9) || !approxEqual(c.Y, 30, 1e-9) {
		t.Errorf("rotated center = %v, want (30,30)", c)
	}
}

func TestDeltaToLocal(t *testing.T) {
	s := rectSpace("r", 10, 10)
	s.Rotation = 90
	d := s.DeltaToLocal(geo.Pt(0, 5))
	if !approxEqual(d.X, 5, 1e-9) || !approxEqual(d.Y, 0, 1e-9) {
		t.Errorf("DeltaToLocal = %v, want (5,0)", d)
	}
}

func TestToOrganicPreservesArea(t *testing.T) {
	s := rectSpace("o", 100, 100)
	s.TargetArea = 25
	o := ToOrganic(s, 8)

	if o.Kind != KindOrganic {
		t.Fatalf("kind = %s, want organic", o.Kind)
	}
	if len(o.ControlPoints) != 8 {
		t.Fatalf("expected 8 control points, got %d", len(o.ControlPoints))
	}
	if !approxEqual(o.Area(), 25, 1e-9) {
		t.Errorf("organic ring area = %f, want 25", o.Area())
	}
	c := geo.VertexCentroid(o.ControlPoints)
	if !approxEqual(c.X, 50, 1e-9) || !approxEqual(c.Y, 50, 1e-9) {
		t.Errorf("organic ring centered at %v, want (50,50)", c)
	}
}

func TestToPolygon(t *testing.T) {
	p := ToPolygon(rectSpace("r", 10, 5))
	if p.Kind != KindPolygon || len(p.ControlPoints) != 4 {
		t.Fatalf("unexpected promotion result: %+v", p)
	}
	if !approxEqual(p.Area(), 50, 1e-9) {
		t.Errorf("promoted area = %f, want 50", p.Area())
	}
}

func TestPathCommandsOrganic(t *testing.T) {
	s := ToOrganic(rectSpace("o", 20, 20), 6)
	smooth := PathCommands(s, 0)
	if len(smooth) != 8 || smooth[1].Op != geo.OpCubic {
		t.Errorf("expected move + 6 cubics + close, got %d commands", len(smooth))
	}
	flat := PathCommands(s, 4)
	for _, c := range flat {
		if c.Op == geo.OpCubic {
			t.Fatal("flattened path should not contain cubic commands")
		}
	}
	if len(flat) != 6*4+1 {
		t.Errorf("expected %d flattened commands, got %d", 6*4+1, len(flat))
	}
}

func TestStoreUpdateSpace(t *testing.T) {
	st := NewStore([]Space{rectSpace("a", 10, 10), rectSpace("b", 20, 20)})
	cat := "service"
	if !st.UpdateSpace("a", Update{Category: &cat}) {
		t.Fatal("UpdateSpace reported no change")
	}
	if st.UpdateSpace("missing", Update{Category: &cat}) {
		t.Error("update of unknown id should report false")
	}
	a, _ := st.Get("a")
	if a.Category != "service" {
		t.Errorf("category = %q, want service", a.Category)
	}
	b, _ := st.Get("b")
	if b.Category != "living" {
		t.Errorf("untouched space changed category to %q", b.Category)
	}
}

func TestStoreUpdateSpaces(t *testing.T) {
	st := NewStore([]Space{rectSpace("a", 10, 10), rectSpace("b", 20, 20), rectSpace("c", 5, 5)})
	floor := "L2"
	if n := st.UpdateSpaces([]string{"a", "c"}, Update{Floor: &floor}); n != 2 {
		t.Fatalf("updated %d spaces, want 2", n)
	}
	if got := len(st.OnFloor("L2")); got != 2 {
		t.Errorf("OnFloor(L2) = %d spaces, want 2", got)
	}
	if diff := cmp.Diff([]string{"", "L2"}, st.Floors()); diff != "" {
		t.Errorf("Floors mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreDoesNotAliasCallerRing(t *testing.T) {
	ring := geo.RectRing(10, 10)
	st := NewStore([]Space{{ID: "p", Kind: KindPolygon, ControlPoints: ring, TargetArea: 100}})
	ring[0] = geo.Pt(50, 50)
	p, _ := st.Get("p")
	if p.ControlPoints[0] != geo.Pt(0, 0) {
		t.Errorf("store ring changed through caller slice: %v", p.ControlPoints[0])
	}
}

func TestStoreApplyRevision(t *testing.T) {
	st := NewStore([]Space{rectSpace("a", 10, 10)})
	before := st.Revision()
	if n := st.Apply(nil); n != 0 || st.Revision() != before {
		t.Error("empty batch must not bump revision")
	}
	st.Apply([]Change{{ID: "a", Update: MoveTo(geo.Pt(1, 1))}})
	if st.Revision() != before+1 {
		t.Errorf("revision = %d, want %d", st.Revision(), before+1)
	}
}

func TestStoreConcurrentApply(t *testing.T) {
	st := NewStore([]Space{rectSpace("a", 10, 10)})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st.UpdateSpace("a", MoveTo(geo.Pt(float64(i), 0)))
			_ = st.All()
		}(i)
	}
	wg.Wait()
	if st.Revision() != 50 {
		t.Errorf("revision = %d, want 50", st.Revision())
	}
}

func TestDiff(t *testing.T) {
	before := []Space{rectSpace("a", 10, 10), rectSpace("b", 10, 10)}
	after := []Space{before[0].Clone(), before[1].Clone()}
	after[1].Origin = geo.Pt(99, 99)

	changes := Diff(before, after)
	if len(changes) != 1 || changes[0].ID != "b" {
		t.Fatalf("expected a single change for b, got %+v", changes)
	}
	got := changes[0].Update.ApplyTo(before[1])
	if diff := cmp.Diff(after[1], got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("applied diff mismatch (-want +got):\n%s", diff)
	}
}
