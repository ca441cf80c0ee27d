// Package submit simulates an asynchronous submission with a timed
// transition.
//
// A Controller moves Idle -> Processing -> Confirmed (settle mode) or
// Idle -> Confirmed -> Idle (revert mode, used for acknowledgements that
// disappear on their own). The artifact is produced exactly once per
// transition and kept until Reset.
package submit

import (
	"sync"
	"time"

	"github.com/polaron/polaron/internal/logger"
	"github.com/polaron/polaron/internal/sim"
)

// Phase is the controller state.
type Phase int

const (
	Idle Phase = iota
	Processing
	Confirmed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Processing:
		return "processing"
	case Confirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Mode selects how the controller behaves once the delay elapses.
type Mode int

const (
	// Settle holds the artifact in Confirmed after the delay.
	Settle Mode = iota
	// Revert confirms at once and returns to Idle after the delay.
	Revert
)

// Option configures a Controller.
type Option func(*options)

type options struct {
	mode     Mode
	onChange func(Phase)
}

// WithRevert switches the controller to revert mode.
func WithRevert() Option {
	return func(o *options) { o.mode = Revert }
}

// WithOnChange registers a callback invoked after every phase change.
// It runs without the controller lock held, possibly on a timer goroutine.
func WithOnChange(fn func(Phase)) Option {
	return func(o *options) { o.onChange = fn }
}

// Controller runs one timed submission at a time.
type Controller[T any] struct {
	clock sim.Clock
	delay time.Duration
	opts  options

	mu      sync.Mutex
	phase   Phase
	result  T
	has     bool
	produce func() T
	timer   sim.Timer
	gen     uint64
	closed  bool
}

// New creates an idle controller.
func New[T any](clock sim.Clock, delay time.Duration, opts ...Option) *Controller[T] {
	if clock == nil {
		clock = sim.RealClock()
	}
	c := &Controller[T]{clock: clock, delay: delay}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

// Mode reports the configured mode.
func (c *Controller[T]) Mode() Mode { return c.opts.mode }

// Delay reports the configured delay.
func (c *Controller[T]) Delay() time.Duration { return c.delay }

// Submit starts a transition. It returns false, and schedules nothing, when
// the controller is closed or not Idle.
//
// In settle mode produce is called when the delay elapses; in revert mode it
// is called immediately.
func (c *Controller[T]) Submit(produce func() T) bool {
	c.mu.Lock()
	if c.closed || c.phase != Idle {
		c.mu.Unlock()
		return false
	}
	c.gen++
	gen := c.gen
	var next Phase
	if c.opts.mode == Revert {
		c.result = produce()
		c.has = true
		next = Confirmed
	} else {
		c.produce = produce
		next = Processing
	}
	c.phase = next
	c.mu.Unlock()

	logger.Debug("submit: %s (delay %s)", next, c.delay)
	c.notify(next)

	// AfterFunc runs outside the lock so a synchronous clock can fire inline.
	timer := c.clock.AfterFunc(c.delay, func() { c.fire(gen) })

	c.mu.Lock()
	if c.closed || c.gen != gen {
		c.mu.Unlock()
		timer.Stop()
		return true
	}
	if c.phase == next {
		c.timer = timer
	}
	c.mu.Unlock()
	return true
}

func (c *Controller[T]) fire(gen uint64) {
	c.mu.Lock()
	if c.closed || c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	var next Phase
	switch c.phase {
	case Processing:
		c.result = c.produce()
		c.has = true
		c.produce = nil
		next = Confirmed
	case Confirmed:
		if c.opts.mode != Revert {
			c.mu.Unlock()
			return
		}
		var zero T
		c.result = zero
		c.has = false
		next = Idle
	default:
		c.mu.Unlock()
		return
	}
	c.phase = next
	c.mu.Unlock()

	logger.Debug("submit: %s", next)
	c.notify(next)
}

// Reset cancels any pending timer, discards the artifact and returns to Idle.
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.gen++
	c.stopLocked()
	changed := c.phase != Idle
	var zero T
	c.result = zero
	c.has = false
	c.produce = nil
	c.phase = Idle
	c.mu.Unlock()

	if changed {
		c.notify(Idle)
	}
}

// Close cancels any pending timer. After Close no callback changes state
// and Submit always returns false. Close is idempotent.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.gen++
	c.stopLocked()
}

func (c *Controller[T]) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Phase reports the current phase.
func (c *Controller[T]) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Result returns the artifact, if one has been produced.
func (c *Controller[T]) Result() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.has
}

// Closed reports whether Close has been called.
func (c *Controller[T]) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller[T]) notify(p Phase) {
	if c.opts.onChange != nil {
		c.opts.onChange(p)
	}
}
