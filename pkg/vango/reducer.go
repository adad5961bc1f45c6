package vango

import "sync"

// ReduceFunc computes the next state from the current state and an action.
// It must be pure.
type ReduceFunc[S any, A any] func(state S, action A) S

// Reducer owns a piece of component-local state.
type Reducer[S any, A any] struct {
	mu     sync.RWMutex
	state  S
	reduce ReduceFunc[S, A]

	// Called after every Dispatch with the new state.
	onChange func(S)
}

// NewReducer creates a Reducer starting at initial.
func NewReducer[S any, A any](reduce func(S, A) S, initial S) *Reducer[S, A] {
	return &Reducer[S, A]{
		state:  initial,
		reduce: reduce,
	}
}

// State returns the current state.
func (r *Reducer[S, A]) State() S {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Dispatch applies action and returns the resulting state.
func (r *Reducer[S, A]) Dispatch(action A) S {
	r.mu.Lock()
	r.state = r.reduce(r.state, action)
	next := r.state
	onChange := r.onChange
	r.mu.Unlock()

	if onChange != nil {
		onChange(next)
	}
	return next
}

// OnChange registers a callback invoked after each Dispatch.
// Only one callback is kept; a later call replaces the earlier one.
func (r *Reducer[S, A]) OnChange(fn func(S)) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}
