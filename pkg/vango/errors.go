package vango

import "errors"

// ErrActionPanic wraps the value recovered from a panicking Action.
var ErrActionPanic = errors.New("vango: action panicked")

// ErrNilCtx is the panic value of NewAction when no Ctx is given.
var ErrNilCtx = errors.New("vango: NewAction requires a non-nil Ctx")
