package server

import (
	"time"

	"github.com/vango-dev/loginform/pkg/protocol"
)

// Handler is an event handler after adaptation by wrapHandler.
type Handler func(event *Event)

// Event is a client event queued on a session.
type Event struct {
	Seq     uint64 // echoed in the render that answers the event
	Type    protocol.EventType
	HID     string
	Value   string // element value for input and change
	Session *Session
	Time    time.Time // receipt
}

// TypeString returns the DOM name of the event.
func (e *Event) TypeString() string { return e.Type.String() }

// handlerKey identifies the handler for one event on one element.
func handlerKey(hid string, et protocol.EventType) string {
	return et.String() + "@" + hid
}

// wrapHandler adapts the handler shapes components may register: func(),
// func(string) taking the element value, and func(*Event). Any other
// value yields nil.
func wrapHandler(value any) Handler {
	switch h := value.(type) {
	case Handler:
		return h
	case func(*Event):
		return h
	case func():
		return func(*Event) { h() }
	case func(string):
		return func(e *Event) { h(e.Value) }
	}
	return nil
}
