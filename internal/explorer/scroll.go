package explorer

import (
	"sync"
	"time"
)

const (
	DefaultScrollThreshold = 10
	DefaultScrollThrottle  = 100 * time.Millisecond
)

// Viewport is measured in rows (the terminal equivalent of pixels).
type Viewport struct {
	Offset        int `json:"offset"`
	Height        int `json:"height"`
	ContentHeight int `json:"contentHeight"`
}

func (v Viewport) DistanceToBottom() int {
	return v.ContentHeight - v.Offset - v.Height
}

type ScrollGuards struct {
	Connected bool
	Exhausted bool
	Fetching  bool
}

// ShouldFetchMore is the scroll trigger predicate.
func ShouldFetchMore(v Viewport, g ScrollGuards, threshold int) bool {
	if !g.Connected || g.Exhausted || g.Fetching {
		return false
	}
	return v.DistanceToBottom() < threshold
}

// Throttle runs fn at most once per interval. Calls that land inside the
// window collapse into a single trailing call.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	clock    Clock
	fn       func()
	last     time.Time
	timer    Timer
	stopped  bool
}

func NewThrottle(interval time.Duration, clock Clock, fn func()) *Throttle {
	return &Throttle{interval: interval, clock: clock, fn: fn}
}

func (t *Throttle) Call() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	now := t.clock.Now()
	remaining := t.interval - now.Sub(t.last)
	if remaining <= 0 || t.last.IsZero() {
		t.last = now
		t.mu.Unlock()
		t.fn()
		return
	}
	if t.timer == nil {
		t.timer = t.clock.AfterFunc(remaining, t.trailing)
	}
	t.mu.Unlock()
}

func (t *Throttle) trailing() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.last = t.clock.Now()
	t.timer = nil
	t.mu.Unlock()
	t.fn()
}

func (t *Throttle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// ScrollTrigger throttles raw viewport changes and forwards the latest one.
// The fetch decision itself is made by the state machine so that it sees the
// committed in-flight and exhaustion flags.
type ScrollTrigger struct {
	mu       sync.Mutex
	latest   Viewport
	throttle *Throttle
}

func NewScrollTrigger(interval time.Duration, clock Clock, emit func(Viewport)) *ScrollTrigger {
	st := &ScrollTrigger{}
	st.throttle = NewThrottle(interval, clock, func() {
		st.mu.Lock()
		v := st.latest
		st.mu.Unlock()
		emit(v)
	})
	return st
}

func (s *ScrollTrigger) Observe(v Viewport) {
	s.mu.Lock()
	s.latest = v
	s.mu.Unlock()
	s.throttle.Call()
}

func (s *ScrollTrigger) Stop() {
	s.throttle.Stop()
}
