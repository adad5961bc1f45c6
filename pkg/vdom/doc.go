// Package vdom provides the virtual DOM used by the login form runtime.
//
// Components build VNode trees on the server with variadic factory
// functions. The session assigns hydration IDs to every element, collects
// the event handlers found in Props and renders the tree to HTML that the
// thin client applies in the browser.
//
// # Element API
//
//	Form(OnSubmit(submit),
//	    Label(For("username"), Text("Username")),
//	    Input(Type("text"), ID("username"), Name("username"), Value(v), OnInput(change)),
//	    Button(Type("submit"), Text("Login")),
//	)
//
// # Queries
//
// FindAll, FindByID, TextContent and LabelTarget inspect rendered trees.
// They back the pkg/vtest component testing helpers.
package vdom
