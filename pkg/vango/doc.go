// Package vango provides the component runtime primitives used by
// server-driven components.
//
// A component never touches its session directly. It receives a Ctx,
// which exposes the session event loop and a context that lives as long
// as the component is mounted:
//
//	type Ctx interface {
//	    Dispatch(fn func())
//	    StdContext() context.Context
//	}
//
// # Reducer
//
// Reducer[S, A] holds component-local state that only changes through a
// pure reduce function:
//
//	r := vango.NewReducer(reduce, initial)
//	r.Dispatch(action)
//	state := r.State()
//
// # Action
//
// Action[A, R] runs async work off the event loop and applies its outcome
// back on the loop via Ctx.Dispatch:
//
//	submit := vango.NewAction(ctx,
//	    func(ctx context.Context, v Values) (string, error) {
//	        return api.Login(ctx, v)
//	    },
//	    vango.DropWhileRunning(),
//	    vango.OnActionError(func(err error) { ... }),
//	)
//	submit.Run(values)
//
// Results of work that finishes after the component context is cancelled
// are discarded.
//
// # Thread Safety
//
// Reducer and Action may be read from any goroutine. Dispatch and Run are
// meant to be called from the session event loop.
package vango
