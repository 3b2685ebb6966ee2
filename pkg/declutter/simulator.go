package declutter

import (
	"context"
	"sync"
	"time"

	"github.com/khalidghaith/SOAP-sub000/pkg/space"
)

// DefaultPeriod is the tick interval (20 Hz).
const DefaultPeriod = 50 * time.Millisecond

// Store is what the simulator reads from and writes to.
type Store interface {
	OnFloor(floor string) []space.Space
	space.Updater
}

// Simulator runs Tick on a fixed period for one floor while enabled.
type Simulator struct {
	store  Store
	params Params
	period time.Duration
	floor  string

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	stepMu sync.Mutex
	ticks  int
	writes int
}

// NewSimulator creates a stopped simulator. A non-positive period selects
// DefaultPeriod.
func NewSimulator(st Store, p Params, period time.Duration) *Simulator {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Simulator{store: st, params: p, period: period}
}

// SetFloor selects the floor to relax. It takes effect on the next tick.
func (s *Simulator) SetFloor(floor string) {
	s.stepMu.Lock()
	s.floor = floor
	s.stepMu.Unlock()
}

// SetParams replaces the force parameters.
func (s *Simulator) SetParams(p Params) {
	s.stepMu.Lock()
	s.params = p
	s.stepMu.Unlock()
}

// Start begins ticking until ctx is done or Stop is called. It reports
// false if the simulator was already running.
func (s *Simulator) Start(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return false
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
	return true
}

func (s *Simulator) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A stop that raced the ticker wins.
			if ctx.Err() != nil {
				return
			}
			s.Step()
		}
	}
}

// Stop halts the simulator and returns once any in-flight tick has been
// fully applied. It is safe to call when stopped.
func (s *Simulator) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the simulator is ticking.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Step runs one tick synchronously and reports how many spaces moved. Only
// origins are written, as one atomic batch.
func (s *Simulator) Step() int {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()
	s.ticks++

	spaces := s.store.OnFloor(s.floor)
	next, changed := Tick(spaces, s.params)
	if !changed {
		return 0
	}
	var changes []space.Change
	for i := range next {
		if next[i].Origin != spaces[i].Origin {
			changes = append(changes, space.Change{ID: next[i].ID, Update: space.MoveTo(next[i].Origin)})
		}
	}
	n := s.store.Apply(changes)
	if n > 0 {
		s.writes++
	}
	return n
}

// Stats returns the number of ticks run and the number that wrote.
func (s *Simulator) Stats() (ticks, writes int) {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()
	return s.ticks, s.writes
}
