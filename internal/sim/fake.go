package sim

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a manually advanced Clock for tests.
// Scheduled callbacks only run from Advance, on the caller's goroutine.
type FakeClock struct {
	mu        sync.Mutex
	now       time.Time
	timers    []*fakeTimer
	scheduled int
	stopped   int
	fired     int
}

type fakeTimer struct {
	clock *FakeClock
	at    time.Time
	seq   int
	f     func()
	done  bool
}

// NewFakeClock creates a FakeClock set to now.
func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc records f to run once the clock is advanced past d.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), seq: c.scheduled, f: f}
	c.scheduled++
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and runs every callback that became due,
// in deadline order.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	remaining := c.timers[:0]
	for _, t := range c.timers {
		if !t.at.After(c.now) {
			t.done = true
			due = append(due, t)
			continue
		}
		remaining = append(remaining, t)
	}
	c.timers = remaining
	c.fired += len(due)
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	for _, t := range due {
		t.f()
	}
}

// Pending reports how many callbacks are scheduled and not yet run or stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Scheduled reports how many callbacks were ever scheduled.
func (c *FakeClock) Scheduled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scheduled
}

// Stopped reports how many pending callbacks were cancelled.
func (c *FakeClock) Stopped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

// Fired reports how many callbacks have run.
func (c *FakeClock) Fired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fired
}

func (t *fakeTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	c.stopped++
	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			break
		}
	}
	return true
}

// ImmediateClock runs every callback synchronously inside AfterFunc.
type ImmediateClock struct {
	At time.Time
}

// Now returns the configured instant.
func (c ImmediateClock) Now() time.Time { return c.At }

// AfterFunc runs f before returning.
func (c ImmediateClock) AfterFunc(_ time.Duration, f func()) Timer {
	f()
	return spentTimer{}
}

type spentTimer struct{}

func (spentTimer) Stop() bool { return false }

// FixedRand always returns the same value, clamped into [0, n).
type FixedRand int

// IntN returns r clamped into [0, n).
func (r FixedRand) IntN(n int) int {
	v := int(r)
	if v >= n {
		return n - 1
	}
	if v < 0 {
		return 0
	}
	return v
}

// SeqRand returns successive values, each reduced modulo n.
// It cycles once the values run out.
type SeqRand struct {
	mu     sync.Mutex
	values []int
	calls  int
}

// NewSeqRand creates a SeqRand over values.
func NewSeqRand(values ...int) *SeqRand {
	return &SeqRand{values: values}
}

// IntN returns the next value modulo n.
func (r *SeqRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		r.calls++
		return 0
	}
	v := r.values[r.calls%len(r.values)]
	r.calls++
	return ((v % n) + n) % n
}

// Calls reports how many values have been drawn.
func (r *SeqRand) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}
