package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// EventType identifies the type of client event.
type EventType uint8

// Event type constants.
const (
	EventClick  EventType = 0x01
	EventInput  EventType = 0x10
	EventChange EventType = 0x11
	EventSubmit EventType = 0x12
)

// ErrUnknownEventType is returned for event types the server does not handle.
var ErrUnknownEventType = errors.New("protocol: unknown event type")

// String returns the DOM event name of the event type.
func (et EventType) String() string {
	switch et {
	case EventClick:
		return "click"
	case EventInput:
		return "input"
	case EventChange:
		return "change"
	case EventSubmit:
		return "submit"
	default:
		return fmt.Sprintf("EventType(0x%02x)", uint8(et))
	}
}

// ParseEventType maps a DOM event name ("input", "submit") to its EventType.
func ParseEventType(name string) (EventType, error) {
	switch strings.ToLower(name) {
	case "click":
		return EventClick, nil
	case "input":
		return EventInput, nil
	case "change":
		return EventChange, nil
	case "submit":
		return EventSubmit, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEventType, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (et EventType) MarshalText() ([]byte, error) {
	if !et.valid() {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownEventType, uint8(et))
	}
	return []byte(et.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (et *EventType) UnmarshalText(text []byte) error {
	parsed, err := ParseEventType(string(text))
	if err != nil {
		return err
	}
	*et = parsed
	return nil
}

func (et EventType) valid() bool {
	switch et {
	case EventClick, EventInput, EventChange, EventSubmit:
		return true
	}
	return false
}

// Event is a DOM event forwarded by the client.
//
// Payload format:
//
//	seq (varint) | type (1 byte) | hid (string) | value (string)
type Event struct {
	Seq   uint64    // Client sequence number, echoed in the answering render
	Type  EventType // Event kind
	HID   string    // Hydration ID of the target element
	Value string    // Input value for input/change events
}

// EncodeEvent encodes the payload of a FrameEvent.
func EncodeEvent(ev *Event) []byte {
	e := NewEncoder()
	e.PutUvarint(ev.Seq)
	e.PutByte(byte(ev.Type))
	e.PutString(ev.HID)
	e.PutString(ev.Value)
	return e.Bytes()
}

// maxHIDSize bounds the hydration id of an incoming event.
const maxHIDSize = 64

// DecodeEvent decodes an event payload, rejecting unknown event types
// and oversized values.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	var (
		ev  Event
		err error
	)
	if ev.Seq, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	tb, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if ev.Type = EventType(tb); !ev.Type.valid() {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownEventType, tb)
	}
	if ev.HID, err = d.ReadStringMax(maxHIDSize); err != nil {
		return nil, err
	}
	if ev.Value, err = d.ReadStringMax(MaxEventValueSize); err != nil {
		return nil, err
	}
	if err = d.finish(); err != nil {
		return nil, err
	}
	return &ev, nil
}
