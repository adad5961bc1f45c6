package vdom

import (
	"fmt"
	"strings"
)

// VKind says what a VNode holds.
type VKind uint8

const (
	KindElement VKind = iota
	KindText
	KindFragment
	KindComponent
)

var kindNames = [...]string{
	KindElement:   "Element",
	KindText:      "Text",
	KindFragment:  "Fragment",
	KindComponent: "Component",
}

func (k VKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// VNode is one node of a rendered tree. Elements use Tag, Props and
// Children; text nodes use Text; component nodes use Comp until Expand
// replaces them with their output.
type VNode struct {
	Kind     VKind
	Tag      string
	Props    Props
	Children []*VNode
	Text     string
	Comp     Component

	// HID is the hydration id, set by AssignHIDs.
	HID string
}

// Props maps attribute names to values and "on"+event names to handlers.
type Props map[string]any

// IsInteractive reports whether v is an element with at least one handler.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if IsEventKey(key) {
			return true
		}
	}
	return false
}

// Attr returns the attribute key as a string. A true boolean attribute
// reads as its own name; unset and false read as "".
func (v *VNode) Attr(key string) string {
	if v == nil {
		return ""
	}
	val, ok := v.Props[key]
	if !ok || val == nil || val == false {
		return ""
	}
	switch val := val.(type) {
	case string:
		return val
	case bool:
		return key
	}
	return fmt.Sprint(val)
}

// Handler returns the handler for event ("input", "submit"), or nil.
func (v *VNode) Handler(event string) any {
	if v == nil {
		return nil
	}
	return v.Props["on"+strings.ToLower(event)]
}

// IsEventKey reports whether a Props key holds a handler.
func IsEventKey(key string) bool {
	return len(key) > len("on") && strings.HasPrefix(key, "on")
}

// Attr is a single attribute argument to El. The zero Attr is skipped.
type Attr struct {
	Key   string
	Value any
}

func (a Attr) IsEmpty() bool { return a.Key == "" }

// EventHandler is a handler argument to El.
type EventHandler struct {
	Event   string
	Handler any
}

// Component renders a subtree.
type Component interface {
	Render() *VNode
}

type renderFunc func() *VNode

func (f renderFunc) Render() *VNode { return f() }

// Func turns a render function into a Component.
func Func(render func() *VNode) Component {
	return renderFunc(render)
}
