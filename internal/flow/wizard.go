// Package flow sequences a multi-step form.
//
// A Wizard owns the current step, the form state and a submission
// controller. Forward navigation is gated by the flow's validator; the final
// step exposes an explicit Confirm action instead of auto-computing.
package flow

import (
	"sync"

	"github.com/polaron/polaron/internal/form"
	"github.com/polaron/polaron/internal/submit"
)

// Wizard drives one flow instance from step 1 to its confirmation.
type Wizard[T any] struct {
	def     Definition
	ctrl    *submit.Controller[T]
	produce func(form.State) T

	mu    sync.Mutex
	step  int
	state form.State
}

// New creates a wizard at step 1 with the definition's initial state.
// produce turns the final form state into the confirmation artifact.
func New[T any](def Definition, ctrl *submit.Controller[T], produce func(form.State) T) *Wizard[T] {
	return &Wizard[T]{
		def:     def,
		ctrl:    ctrl,
		produce: produce,
		step:    1,
		state:   def.Initial,
	}
}

// Definition returns the static flow description.
func (w *Wizard[T]) Definition() Definition { return w.def }

// Steps returns N.
func (w *Wizard[T]) Steps() int { return w.def.Len() }

// Step returns the current 1-based step index.
func (w *Wizard[T]) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Current returns the schema of the current step.
func (w *Wizard[T]) Current() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.def.Steps[w.step-1]
}

// State returns the live form state.
func (w *Wizard[T]) State() form.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Valid evaluates the validator for step against the current state.
func (w *Wizard[T]) Valid(step int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.validLocked(step)
}

func (w *Wizard[T]) validLocked(step int) bool {
	if w.def.Validate == nil {
		return true
	}
	return w.def.Validate(step, w.state)
}

func (w *Wizard[T]) idle() bool { return w.ctrl.Phase() == submit.Idle }

// editable reports whether the form may change. A confirmed result of a
// non-terminal flow goes stale once the user edits, so it is dropped first
// when reopen is set.
func (w *Wizard[T]) editable(reopen bool) bool {
	switch w.ctrl.Phase() {
	case submit.Idle:
		return true
	case submit.Confirmed:
		if w.def.Terminal {
			return false
		}
		if reopen {
			w.ctrl.Reset()
		}
		return true
	default:
		return false
	}
}

// Apply stores a field update. It returns false while a submission is in
// flight and once a terminal flow has confirmed. Editing a confirmed
// non-terminal flow discards its result.
func (w *Wizard[T]) Apply(u form.Update) bool {
	if !w.editable(true) {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = w.state.Apply(u)
	return true
}

// CanNext reports whether Next would advance.
func (w *Wizard[T]) CanNext() bool {
	if !w.idle() {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step < w.def.Len() && w.validLocked(w.step)
}

// Next advances one step when the current step validates.
// At the last step it does nothing; confirmation is a separate action.
func (w *Wizard[T]) Next() bool {
	if !w.idle() {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step >= w.def.Len() || !w.validLocked(w.step) {
		return false
	}
	w.step++
	return true
}

// CanBack reports whether Back would retreat.
func (w *Wizard[T]) CanBack() bool {
	if !w.editable(false) {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step > 1
}

// Back retreats one step. It does nothing at step 1, while a submission is
// in flight, or once a terminal flow has confirmed. Retreating from a
// confirmed non-terminal flow discards its result.
func (w *Wizard[T]) Back() bool {
	w.mu.Lock()
	atStart := w.step <= 1
	w.mu.Unlock()
	if atStart || !w.editable(true) {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step--
	return true
}

// IsFinal reports whether the wizard is on its last step.
func (w *Wizard[T]) IsFinal() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step == w.def.Len()
}

// CanConfirm reports whether Confirm would start a submission.
func (w *Wizard[T]) CanConfirm() bool {
	if !w.idle() || w.ctrl.Closed() {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.readyLocked()
}

func (w *Wizard[T]) readyLocked() bool {
	if w.step != w.def.Len() {
		return false
	}
	for s := 1; s <= w.def.Len(); s++ {
		if !w.validLocked(s) {
			return false
		}
	}
	return true
}

// Confirm hands the final form state to the submission controller.
// It returns false when not on the last step, when any step is invalid, or
// when a submission already ran.
func (w *Wizard[T]) Confirm() bool {
	if !w.idle() {
		return false
	}
	w.mu.Lock()
	if !w.readyLocked() {
		w.mu.Unlock()
		return false
	}
	snapshot := w.state
	w.mu.Unlock()

	return w.ctrl.Submit(func() T { return w.produce(snapshot) })
}

// Discard drops a confirmed result so the user can modify the form and
// confirm again. An in-flight submission always runs to completion, and
// terminal flows refuse once confirmed.
func (w *Wizard[T]) Discard() bool {
	if w.def.Terminal || w.ctrl.Phase() != submit.Confirmed {
		return false
	}
	w.ctrl.Reset()
	return true
}

// Phase reports the submission phase.
func (w *Wizard[T]) Phase() submit.Phase { return w.ctrl.Phase() }

// Result returns the confirmation artifact once produced.
func (w *Wizard[T]) Result() (T, bool) { return w.ctrl.Result() }

// Close cancels any pending submission timer. Safe to call more than once.
func (w *Wizard[T]) Close() { w.ctrl.Close() }
