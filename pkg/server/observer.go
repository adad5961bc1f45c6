package server

import "time"

// Observer receives session lifecycle and event notifications.
// Implementations must be safe for concurrent use; the metrics
// middleware provides one.
type Observer interface {
	SessionOpened()
	SessionClosed(lifetime time.Duration)
	EventHandled(eventType string, d time.Duration, err error)
	RenderSent(bytes int)
}

type nopObserver struct{}

func (nopObserver) SessionOpened()                            {}
func (nopObserver) SessionClosed(time.Duration)               {}
func (nopObserver) EventHandled(string, time.Duration, error) {}
func (nopObserver) RenderSent(int)                            {}
