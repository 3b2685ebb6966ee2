package space

import (
	"sort"
	"sync"

	"github.com/khalidghaith/SOAP-sub000/pkg/geo"
)

// Update is a partial set of fields. Nil fields are left untouched.
type Update struct {
	Name          *string
	Category      *string
	Floor         *string
	Origin        *geo.Point2D
	Kind          *Kind
	Extent        *Extent
	ControlPoints []geo.Point2D
	TargetArea    *float64
	Rotation      *float64
}

// IsZero reports whether the update changes nothing.
func (u Update) IsZero() bool {
	return u.Name == nil && u.Category == nil && u.Floor == nil && u.Origin == nil &&
		u.Kind == nil && u.Extent == nil && u.ControlPoints == nil &&
		u.TargetArea == nil && u.Rotation == nil
}

// ApplyTo returns s with the update applied. Control points are copied.
func (u Update) ApplyTo(s Space) Space {
	out := s.Clone()
	if u.Name != nil {
		out.Name = *u.Name
	}
	if u.Category != nil {
		out.Category = *u.Category
	}
	if u.Floor != nil {
		out.Floor = *u.Floor
	}
	if u.Origin != nil {
		out.Origin = *u.Origin
	}
	if u.Kind != nil {
		out.Kind = *u.Kind
	}
	if u.Extent != nil {
		out.Extent = *u.Extent
	}
	if u.ControlPoints != nil {
		out.ControlPoints = geo.Clone(u.ControlPoints)
	}
	if u.TargetArea != nil {
		out.TargetArea = *u.TargetArea
	}
	if u.Rotation != nil {
		out.Rotation = *u.Rotation
	}
	return out
}

// Full returns an update carrying every field of s. A missing ring is
// carried as an empty one so stale control points are cleared.
func Full(s Space) Update {
	ring := geo.Clone(s.ControlPoints)
	if ring == nil {
		ring = []geo.Point2D{}
	}
	return Update{
		Name:          &s.Name,
		Category:      &s.Category,
		Floor:         &s.Floor,
		Origin:        &s.Origin,
		Kind:          &s.Kind,
		Extent:        &s.Extent,
		ControlPoints: ring,
		TargetArea:    &s.TargetArea,
		Rotation:      &s.Rotation,
	}
}

// MoveTo returns an update that only repositions a space.
func MoveTo(origin geo.Point2D) Update {
	return Update{Origin: &origin}
}

// Change pairs a space ID with an update.
type Change struct {
	ID     string
	Update Update
}

// Updater is the mutation contract shared by the editor, the placer and the
// declutter simulator.
type Updater interface {
	UpdateSpace(id string, u Update) bool
	UpdateSpaces(ids []string, u Update) int
	Apply(changes []Change) int
}

// Store is an ordered, concurrency-safe collection of spaces. All writes go
// through UpdateSpace, UpdateSpaces or Apply.
type Store struct {
	mu     sync.RWMutex
	order  []string
	spaces map[string]Space
	rev    uint64
}

// NewStore creates a store holding copies of spaces. Later duplicates of an
// ID replace earlier ones.
func NewStore(spaces []Space) *Store {
	st := &Store{spaces: make(map[string]Space, len(spaces))}
	for _, s := range spaces {
		st.insert(s)
	}
	return st
}

func (st *Store) insert(s Space) {
	if _, ok := st.spaces[s.ID]; !ok {
		st.order = append(st.order, s.ID)
	}
	st.spaces[s.ID] = s.Clone()
}

// Add inserts or replaces a space.
func (st *Store) Add(s Space) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.insert(s)
	st.rev++
}

// Remove deletes a space. It reports whether the ID existed.
func (st *Store) Remove(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.spaces[id]; !ok {
		return false
	}
	delete(st.spaces, id)
	for i, o := range st.order {
		if o == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
	st.rev++
	return true
}

// Get returns a copy of the space with the given ID.
func (st *Store) Get(id string) (Space, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.spaces[id]
	if !ok {
		return Space{}, false
	}
	return s.Clone(), true
}

// All returns copies of every space in insertion order.
func (st *Store) All() []Space {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]Space, 0, len(st.order))
	for _, id := range st.order {
		out = append(out, st.spaces[id].Clone())
	}
	return out
}

// OnFloor returns copies of the spaces on floor in insertion order.
func (st *Store) OnFloor(floor string) []Space {
	st.mu.RLock()
	defer st.mu.RUnlock()
	var out []Space
	for _, id := range st.order {
		if s := st.spaces[id]; s.Floor == floor {
			out = append(out, s.Clone())
		}
	}
	return out
}

// Floors returns the distinct floor names, sorted.
func (st *Store) Floors() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	seen := make(map[string]bool)
	var floors []string
	for _, s := range st.spaces {
		if !seen[s.Floor] {
			seen[s.Floor] = true
			floors = append(floors, s.Floor)
		}
	}
	sort.Strings(floors)
	return floors
}

// Revision increments on every successful write.
func (st *Store) Revision() uint64 {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.rev
}

// UpdateSpace applies u to one space. Unknown IDs are ignored.
func (st *Store) UpdateSpace(id string, u Update) bool {
	return st.Apply([]Change{{ID: id, Update: u}}) == 1
}

// UpdateSpaces applies the same partial fields to every listed space.
func (st *Store) UpdateSpaces(ids []string, u Update) int {
	changes := make([]Change, len(ids))
	for i, id := range ids {
		changes[i] = Change{ID: id, Update: u}
	}
	return st.Apply(changes)
}

// Apply commits a batch atomically and returns how many spaces changed.
// Readers never observe a partially applied batch.
func (st *Store) Apply(changes []Change) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for _, c := range changes {
		s, ok := st.spaces[c.ID]
		if !ok || c.Update.IsZero() {
			continue
		}
		st.spaces[c.ID] = c.Update.ApplyTo(s)
		n++
	}
	if n > 0 {
		st.rev++
	}
	return n
}

// Diff returns the changes that turn before into after, matched by ID.
// Spaces whose origin and boundary are unchanged are skipped.
func Diff(before, after []Space) []Change {
	prev := make(map[string]Space, len(before))
	for _, s := range before {
		prev[s.ID] = s
	}
	var changes []Change
	for _, s := range after {
		old, ok := prev[s.ID]
		if ok && samePlacement(old, s) {
			continue
		}
		changes = append(changes, Change{ID: s.ID, Update: Full(s)})
	}
	return changes
}

func samePlacement(a, b Space) bool {
	if a.Origin != b.Origin || a.Kind != b.Kind || a.Extent != b.Extent ||
		a.Rotation != b.Rotation || a.TargetArea != b.TargetArea ||
		len(a.ControlPoints) != len(b.ControlPoints) {
		return false
	}
	for i := range a.ControlPoints {
		if a.ControlPoints[i] != b.ControlPoints[i] {
			return false
		}
	}
	return true
}
