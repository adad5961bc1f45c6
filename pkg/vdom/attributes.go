package vdom

import "strings"

func ID(id string) Attr { return Attr{"id", id} }
func Name(name string) Attr { return Attr{"name", name} }
func Value(value string) Attr { return Attr{"value", value} }
func Type(t string) Attr { return Attr{"type", t} }
func Placeholder(text string) Attr { return Attr{"placeholder", text} }
func Autocomplete(value string) Attr { return Attr{"autocomplete", value} }
func Role(role string) Attr { return Attr{"role", role} }
func AriaLive(politeness string) Attr { return Attr{"aria-live", politeness} }

// For points a label at the control with the given id.
func For(id string) Attr { return Attr{"for", id} }

// Class joins class names with spaces.
func Class(names ...string) Attr { return Attr{"class", strings.Join(names, " ")} }

// Data sets data-key.
func Data(key, value string) Attr { return Attr{"data-" + key, value} }

// Disabled sets the boolean disabled attribute.
func Disabled() Attr { return Attr{"disabled", true} }

// AttrIf returns a when cond holds and the zero Attr otherwise.
func AttrIf(cond bool, a Attr) Attr {
	if !cond {
		return Attr{}
	}
	return a
}
