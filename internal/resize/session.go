// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package resize

import (
	"context"
	"sync/atomic"
)

// PointerEvent is one pointer sample delivered while a drag is captured.
type PointerEvent struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Up bool    `json:"up,omitempty"`
}

// Capture delivers pointer events for the duration of one drag. In a
// browser this is the pair of document-level move/up listeners.
type Capture interface {
	// Acquire starts delivery. The returned release func stops it and
	// must be called exactly once.
	Acquire() (events <-chan PointerEvent, release func())
}

// ApplyFunc receives every size produced during a drag.
type ApplyFunc func(width, height float64)

// Session is one in-progress resize.
type Session struct {
	start  Start
	apply  ApplyFunc
	onEnd  func()
	width  float64
	height float64
	done   bool
}

// Begin starts a session. apply is called on every move; onEnd (optional)
// is called once when the session ends.
func Begin(start Start, apply ApplyFunc, onEnd func()) *Session {
	return &Session{
		start:  start,
		apply:  apply,
		onEnd:  onEnd,
		width:  start.Width,
		height: start.Height,
	}
}

// Move applies a pointer position. Moves after End are ignored.
func (s *Session) Move(x, y float64) (width, height float64) {
	if s.done {
		return s.width, s.height
	}
	s.width, s.height = Compute(s.start, x, y)
	if s.apply != nil {
		s.apply(s.width, s.height)
	}
	return s.width, s.height
}

// End finishes the session. It is safe to call more than once.
func (s *Session) End() {
	if s.done {
		return
	}
	s.done = true
	if s.onEnd != nil {
		s.onEnd()
	}
}

// Active reports whether the session has not ended yet.
func (s *Session) Active() bool { return !s.done }

// Handle returns the handle being dragged.
func (s *Session) Handle() Handle { return s.start.Handle }

// Size returns the most recent size.
func (s *Session) Size() (width, height float64) { return s.width, s.height }

// Drag runs a whole gesture: it acquires the capture, applies moves until a
// pointer-up, the end of the event stream or ctx cancellation, then releases
// the capture and ends the session. Release happens even if apply panics.
func Drag(ctx context.Context, c Capture, s *Session) error {
	events, release := c.Acquire()
	defer release()
	defer s.End()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || ev.Up {
				return nil
			}
			s.Move(ev.X, ev.Y)
		}
	}
}

// Replay is a Capture that delivers a recorded list of events. It counts
// acquisitions and releases so callers can check nothing leaked.
type Replay struct {
	events   []PointerEvent
	acquired atomic.Int32
	released atomic.Int32
}

// NewReplay creates a capture over recorded events.
func NewReplay(events []PointerEvent) *Replay {
	return &Replay{events: events}
}

// Acquire implements Capture.
func (r *Replay) Acquire() (<-chan PointerEvent, func()) {
	r.acquired.Add(1)
	ch := make(chan PointerEvent, len(r.events))
	for _, ev := range r.events {
		ch <- ev
	}
	close(ch)

	var once atomic.Bool
	return ch, func() {
		if once.CompareAndSwap(false, true) {
			r.released.Add(1)
		}
	}
}

// Outstanding returns the number of acquisitions not yet released.
func (r *Replay) Outstanding() int {
	return int(r.acquired.Load() - r.released.Load())
}
