package render

import (
	"strings"
	"testing"

	"github.com/vango-dev/loginform/pkg/vdom"
)

func TestRenderElement(t *testing.T) {
	r := NewRenderer(RendererConfig{})

	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{
			name: "nil node",
			node: nil,
			want: "",
		},
		{
			name: "text escaped",
			node: vdom.Text("<b>&</b>"),
			want: "&lt;b&gt;&amp;&lt;/b&gt;",
		},
		{
			name: "sorted attributes",
			node: vdom.Div(vdom.Class("box"), vdom.ID("main"), "Hi"),
			want: `<div class="box" id="main">Hi</div>`,
		},
		{
			name: "void element",
			node: vdom.Input(vdom.Type("text"), vdom.Name("username")),
			want: `<input name="username" type="text">`,
		},
		{
			name: "empty value kept",
			node: vdom.Input(vdom.Value("")),
			want: `<input value="">`,
		},
		{
			name: "empty attribute dropped",
			node: vdom.Div(vdom.Class()),
			want: `<div></div>`,
		},
		{
			name: "boolean attribute",
			node: vdom.Button(vdom.Disabled(), "Login"),
			want: `<button disabled>Login</button>`,
		},
		{
			name: "fragment",
			node: vdom.Fragment(vdom.P("a"), vdom.P("b")),
			want: `<p>a</p><p>b</p>`,
		},
		{
			name: "component",
			node: vdom.Div(vdom.Func(func() *vdom.VNode { return vdom.Span("inner") })),
			want: `<div><span>inner</span></div>`,
		},
		{
			name: "attribute escaped",
			node: vdom.Input(vdom.Value(`a"b` + "\n")),
			want: `<input value="a&quot;b&#10;">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.RenderToString(tt.node)
			if err != nil {
				t.Fatalf("RenderToString() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("RenderToString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderEventMarkers(t *testing.T) {
	r := NewRenderer(RendererConfig{})
	node := vdom.Form(
		vdom.OnSubmit(func() {}),
		vdom.Input(vdom.ID("username"), vdom.OnInput(func(string) {})),
	)
	vdom.AssignHIDs(node, vdom.NewHIDGenerator())

	got, err := r.RenderToString(node)
	if err != nil {
		t.Fatalf("RenderToString() error = %v", err)
	}

	want := `<form data-on-submit="true" data-hid="h1"><input id="username" data-on-input="true" data-hid="h2"></form>`
	if got != want {
		t.Errorf("RenderToString() =\n%s\nwant\n%s", got, want)
	}
	if strings.Contains(got, "onsubmit") || strings.Contains(got, "oninput") {
		t.Errorf("handler rendered as attribute: %s", got)
	}
}

func TestRenderPretty(t *testing.T) {
	r := NewRenderer(RendererConfig{Pretty: true})
	got, err := r.RenderToString(vdom.Div(vdom.Div()))
	if err != nil {
		t.Fatalf("RenderToString() error = %v", err)
	}
	want := "<div>\n  <div></div>\n</div>\n"
	if got != want {
		t.Errorf("pretty output = %q, want %q", got, want)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	r := NewRenderer(RendererConfig{})
	if _, err := r.RenderToString(&vdom.VNode{Kind: vdom.VKind(99)}); err == nil {
		t.Error("expected error for unknown node kind")
	}
}
