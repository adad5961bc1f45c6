package vango

import (
	"context"
	"fmt"
	"sync"
)

// ActionState is the lifecycle state of an Action.
type ActionState int

const (
	ActionIdle ActionState = iota
	ActionRunning
	ActionSuccess
	ActionError
)

var actionStateNames = [...]string{"idle", "running", "success", "error"}

func (s ActionState) String() string {
	if s >= 0 && int(s) < len(actionStateNames) {
		return actionStateNames[s]
	}
	return "unknown"
}

// ConcurrencyPolicy decides what Run does while a run is in flight.
type ConcurrencyPolicy int

const (
	PolicyCancelLatest ConcurrencyPolicy = iota
	PolicyDropWhileRunning
)

var policyNames = [...]string{"cancel_latest", "drop_while_running"}

func (p ConcurrencyPolicy) String() string {
	if p >= 0 && int(p) < len(policyNames) {
		return policyNames[p]
	}
	return "unknown"
}

// Action runs one kind of asynchronous work for a component and tracks
// its outcome. The work function runs on its own goroutine; its result is
// applied on the session loop through Ctx.Dispatch, and dropped if the
// component context was cancelled or a newer run superseded it.
type Action[A, R any] struct {
	do  func(context.Context, A) (R, error)
	ctx Ctx
	cfg actionConfig

	mu     sync.Mutex
	state  ActionState
	result R
	err    error
	cancel context.CancelFunc
	// gen identifies the current run. Completions of other runs are stale.
	gen uint64
}

// NewAction binds do to the component's Ctx. It panics with ErrNilCtx if
// ctx is nil.
func NewAction[A, R any](ctx Ctx, do func(context.Context, A) (R, error), opts ...ActionOption) *Action[A, R] {
	if ctx == nil {
		panic(ErrNilCtx)
	}
	a := &Action[A, R]{do: do, ctx: ctx}
	for _, opt := range opts {
		opt(&a.cfg)
	}
	return a
}

// Run starts a run with arg and reports whether the call was accepted.
// It must be called on the session loop. Under DropWhileRunning a call
// made while running is rejected.
func (a *Action[A, R]) Run(arg A) bool {
	a.mu.Lock()
	if a.state == ActionRunning && a.cfg.policy == PolicyDropWhileRunning {
		a.mu.Unlock()
		return false
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.mu.Unlock()

	a.start(arg)
	return true
}

func (a *Action[A, R]) start(arg A) {
	parent := a.ctx.StdContext()
	if parent == nil {
		parent = context.Background()
	}
	runCtx, cancel := context.WithCancel(parent)

	a.mu.Lock()
	a.gen++
	gen := a.gen
	a.cancel = cancel
	a.state = ActionRunning
	a.err = nil
	a.mu.Unlock()

	if a.cfg.onStart != nil {
		a.cfg.onStart()
	}

	go func() {
		defer cancel()
		result, err := a.call(runCtx, arg)
		if runCtx.Err() != nil {
			return
		}
		a.ctx.Dispatch(func() { a.finish(gen, result, err) })
	}()
}

// call runs do, reporting a panic as an ErrActionPanic error.
func (a *Action[A, R]) call(ctx context.Context, arg A) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrActionPanic, a.Name(), r)
		}
	}()
	return a.do(ctx, arg)
}

// finish records the outcome of run gen. It runs on the session loop.
func (a *Action[A, R]) finish(gen uint64, result R, err error) {
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.cancel = nil
	if err != nil {
		a.state, a.err = ActionError, err
	} else {
		a.state, a.result = ActionSuccess, result
	}
	a.mu.Unlock()

	if err != nil {
		a.notifyError(err)
	} else if a.cfg.onSuccess != nil {
		a.cfg.onSuccess(result)
	}
}

func (a *Action[A, R]) notifyError(err error) {
	if a.cfg.onError != nil {
		a.cfg.onError(err)
	}
}

// Name returns the ActionName, or "action".
func (a *Action[A, R]) Name() string {
	if a.cfg.name == "" {
		return "action"
	}
	return a.cfg.name
}

func (a *Action[A, R]) State() ActionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Action[A, R]) IsRunning() bool { return a.State() == ActionRunning }

// Result returns the result of the last run if it succeeded.
func (a *Action[A, R]) Result() (R, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != ActionSuccess {
		var zero R
		return zero, false
	}
	return a.result, true
}

// Error returns the error of the last failed run.
func (a *Action[A, R]) Error() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Reset cancels any run in flight and returns the action to ActionIdle. A completion already dispatched is ignored.
func (a *Action[A, R]) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.gen++
	a.state = ActionIdle
	a.err = nil
	var zero R
	a.result = zero
}
