// Package render writes vdom trees as HTML.
//
// Text and attribute values are escaped. Event handlers never appear as
// attributes; an element with handlers gets one data-on-<event> marker per
// event so the thin client knows which DOM events to forward, and every
// element the session numbered carries its data-hid.
//
//	r := render.NewRenderer(render.RendererConfig{})
//	html, err := r.RenderToString(tree)
//
// RenderPage wraps a tree in the full document served on first load.
package render
