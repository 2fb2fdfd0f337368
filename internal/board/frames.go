package board

import (
	"slices"
	"time"

	"github.com/safal938/board28-sub000/internal/camera"
)

// FrameScheduler is the board's per-frame callback queue. The board loop
// calls Tick once per frame interval while callbacks are pending. It is not
// safe for concurrent use.
type FrameScheduler struct {
	next    camera.FrameID
	order   []camera.FrameID
	pending map[camera.FrameID]func(time.Time)
}

// NewFrameScheduler returns an empty scheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{pending: make(map[camera.FrameID]func(time.Time))}
}

// RequestFrame registers fn for the next tick.
func (s *FrameScheduler) RequestFrame(fn func(now time.Time)) camera.FrameID {
	s.next++
	s.pending[s.next] = fn
	s.order = append(s.order, s.next)
	return s.next
}

// CancelFrame drops a registration. Unknown ids are ignored.
func (s *FrameScheduler) CancelFrame(id camera.FrameID) {
	if _, ok := s.pending[id]; !ok {
		return
	}
	delete(s.pending, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

// Pending returns the number of registered callbacks.
func (s *FrameScheduler) Pending() int { return len(s.pending) }

// Tick runs the callbacks registered before the tick in registration
// order and returns how many ran. Callbacks registered while ticking wait
// for the next tick.
func (s *FrameScheduler) Tick(now time.Time) int {
	batch := s.order
	s.order = nil
	ran := 0
	for _, id := range batch {
		fn, ok := s.pending[id]
		if !ok {
			continue
		}
		delete(s.pending, id)
		fn(now)
		ran++
	}
	return ran
}
