package server

import (
	"errors"
	"fmt"
)

var (
	ErrSessionClosed      = errors.New("server: session closed")
	ErrHandlerNotFound    = errors.New("server: handler not found")
	ErrEventQueueFull     = errors.New("server: event queue full")
	ErrMaxSessionsReached = errors.New("server: max sessions reached")
	ErrNoRootComponent    = errors.New("server: no root component")
	ErrNoConnection       = errors.New("server: no connection")
)

// SessionError is a transport failure of one session.
type SessionError struct {
	SessionID string
	Op        string
	Err       error
}

func (e *SessionError) Error() string {
	where := "server"
	if e.SessionID != "" {
		where += ": session " + e.SessionID
	}
	return fmt.Sprintf("%s: %s: %v", where, e.Op, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// HandlerError is a recovered panic. HID and EventType are empty when the
// panic came from a dispatched function rather than an event handler.
type HandlerError struct {
	SessionID string
	HID       string
	EventType string
	Panic     any
	Stack     []byte
}

func (e *HandlerError) Error() string {
	if e.HID == "" {
		return fmt.Sprintf("server: session %s: dispatched function panicked: %v", e.SessionID, e.Panic)
	}
	return fmt.Sprintf("server: session %s: %s handler on %s panicked: %v",
		e.SessionID, e.EventType, e.HID, e.Panic)
}
