package vango

// ActionOption configures an Action.
type ActionOption func(*actionConfig)

type actionConfig struct {
	policy    ConcurrencyPolicy
	name      string
	onStart   func()
	onSuccess func(any)
	onError   func(error)
}

// CancelLatest cancels the in-flight run when Run is called again. This
// is the default.
func CancelLatest() ActionOption {
	return func(c *actionConfig) { c.policy = PolicyCancelLatest }
}

// DropWhileRunning makes Run return false, doing nothing, while a run is
// in flight.
func DropWhileRunning() ActionOption {
	return func(c *actionConfig) { c.policy = PolicyDropWhileRunning }
}

// ActionName names the action in logs and metrics.
func ActionName(name string) ActionOption {
	return func(c *actionConfig) { c.name = name }
}

// OnActionStart runs inside Run, after the action has entered
// ActionRunning.
func OnActionStart(fn func()) ActionOption {
	return func(c *actionConfig) { c.onStart = fn }
}

// OnActionSuccess runs on the session loop with the result of a run.
// The result is passed as any; assert it to the action's result type.
func OnActionSuccess(fn func(any)) ActionOption {
	return func(c *actionConfig) { c.onSuccess = fn }
}

// OnActionError runs on the session loop with the error of a failed run.
func OnActionError(fn func(error)) ActionOption {
	return func(c *actionConfig) { c.onError = fn }
}
