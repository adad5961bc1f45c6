package vtest

import (
	"strings"

	"github.com/vango-dev/loginform/pkg/vdom"
)

// Element is an element of one rendered snapshot. Queries made after an
// event see the new render; an Element does not update itself.
type Element struct {
	node *vdom.VNode
	root *vdom.VNode
}

// Tag returns the element tag name.
func (e *Element) Tag() string { return e.node.Tag }

// Attr returns an attribute value, or "" if unset.
func (e *Element) Attr(key string) string { return e.node.Attr(key) }

// Value returns the value attribute.
func (e *Element) Value() string { return e.node.Attr("value") }

// Text returns the trimmed text content.
func (e *Element) Text() string { return strings.TrimSpace(vdom.TextContent(e.node)) }

// HID returns the hydration ID.
func (e *Element) HID() string { return e.node.HID }

// Node returns the underlying VNode.
func (e *Element) Node() *vdom.VNode { return e.node }
