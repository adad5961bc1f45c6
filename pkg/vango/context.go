package vango

import "context"

// Ctx is the runtime context handed to a mounted component.
type Ctx interface {
	// Dispatch queues a function to run on the session's event loop.
	// Use this to apply results of work done on other goroutines:
	//
	//     go func() {
	//         user, err := api.Fetch(ctx.StdContext(), id)
	//         ctx.Dispatch(func() {
	//             // Safe to update component state here
	//         })
	//     }()
	Dispatch(fn func())

	// StdContext returns a context that is cancelled when the component
	// is unmounted.
	StdContext() context.Context
}

// Mounter is implemented by components that need their Ctx.
// Mount is called once, on the session loop, before the first render.
type Mounter interface {
	Mount(ctx Ctx)
}

// Unmounter is implemented by components that release resources when
// their session ends. Unmount is called after the Ctx has been cancelled.
type Unmounter interface {
	Unmount()
}
