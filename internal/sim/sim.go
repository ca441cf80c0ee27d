// Package sim holds the clock and randomness seams behind every simulated
// delay and every pseudo-random value in polaron.
//
// Production code uses RealClock and DefaultRand. Tests swap in FakeClock,
// ImmediateClock, FixedRand or SeqRand so timed transitions and generated
// values are deterministic.
package sim

import (
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
// *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Clock schedules non-blocking callbacks and reports the current time.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Rand is the subset of math/rand/v2 used for simulated values.
// *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by the time package.
// Callbacks run on their own goroutine.
func RealClock() Clock {
	return realClock{}
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand returns a Rand backed by the math/rand/v2 global source.
func DefaultRand() Rand {
	return globalRand{}
}

// Seeded returns a Rand whose sequence is fixed by key.
// The same key always yields the same values.
func Seeded(key string) Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	sum := h.Sum64()
	return rand.New(rand.NewPCG(sum, sum>>1|1))
}
