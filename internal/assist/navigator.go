package assist

import (
	"log/slog"
	"sync"
	"time"
)

// NavState is the navigation state machine's current state.
type NavState int

const (
	NavIdle NavState = iota
	NavCounting
	NavCommitted
)

// initialCount is the number of one-second ticks before navigation fires.
const initialCount = 3

// Navigator is a timer-driven state machine that, once armed, counts down
// and then performs a page transition through its sink. Re-arming while
// counting replaces the destination and resets the counter; there is never
// more than one active countdown.
type Navigator struct {
	sink     NavigationSink
	interval time.Duration

	mu        sync.Mutex
	state     NavState
	path      string
	label     string
	remaining int
	gen       int // arm generation; stale ticks compare and bail
	timer     *time.Timer
}

// NewNavigator creates an idle Navigator with one-second ticks.
func NewNavigator(sink NavigationSink) *Navigator {
	return NewNavigatorWithInterval(sink, time.Second)
}

// NewNavigatorWithInterval creates a Navigator with a custom tick interval
// (for testing).
func NewNavigatorWithInterval(sink NavigationSink, interval time.Duration) *Navigator {
	if interval <= 0 {
		interval = time.Second
	}
	return &Navigator{sink: sink, interval: interval}
}

// Arm starts (or restarts) the countdown toward the given destination.
// An in-flight countdown is superseded, not stacked.
func (n *Navigator) Arm(path, label string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}

	n.gen++
	n.state = NavCounting
	n.path = path
	n.label = label
	n.remaining = initialCount
	n.scheduleLocked(n.gen)

	slog.Debug("navigation armed", "path", path, "remaining", n.remaining)
}

// Cancel invalidates any pending countdown. The host surface must call this
// on teardown so a navigation cannot fire after the surface is gone.
func (n *Navigator) Cancel() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.gen++
	n.state = NavIdle
	n.path = ""
	n.label = ""
	n.remaining = 0
}

// Pending returns the active NavigationIntent, if any.
func (n *Navigator) Pending() (NavigationIntent, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state != NavCounting {
		return NavigationIntent{}, false
	}
	return NavigationIntent{Path: n.path, Label: n.label, Remaining: n.remaining}, true
}

// State returns the current state.
func (n *Navigator) State() NavState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

func (n *Navigator) scheduleLocked(gen int) {
	n.timer = time.AfterFunc(n.interval, func() { n.tick(gen) })
}

func (n *Navigator) tick(gen int) {
	n.mu.Lock()

	// A re-arm or cancel happened after this tick was scheduled.
	if gen != n.gen || n.state != NavCounting {
		n.mu.Unlock()
		return
	}

	n.remaining--
	if n.remaining > 0 {
		n.scheduleLocked(gen)
		n.mu.Unlock()
		return
	}

	n.state = NavCommitted
	n.timer = nil
	path := n.path
	sink := n.sink
	n.mu.Unlock()

	// Sink runs outside the lock; it may call back into the Navigator.
	if sink != nil {
		sink(path)
	}
}
