package vdom

// Event handler props are keyed "on"+event. A handler may be a func(),
// func(string) receiving the element value, or a function taking the
// server's event type; the session adapts it when the event arrives.

func on(event string, handler any) EventHandler {
	return EventHandler{Event: "on" + event, Handler: handler}
}

// OnClick handles clicks.
func OnClick(handler any) EventHandler { return on("click", handler) }

// OnInput handles every edit of a field's value.
func OnInput(handler any) EventHandler { return on("input", handler) }

// OnChange handles a committed value, e.g. on blur.
func OnChange(handler any) EventHandler { return on("change", handler) }

// OnSubmit handles form submission. The client never lets the browser
// navigate for a form with a submit handler.
func OnSubmit(handler any) EventHandler { return on("submit", handler) }
