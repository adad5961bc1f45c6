package vtest

import (
	"strings"
	"testing"

	"github.com/vango-dev/loginform/pkg/render"
	"github.com/vango-dev/loginform/pkg/vdom"
)

var renderer = render.NewRenderer(render.RendererConfig{})

// maxShown bounds how much HTML a failure message quotes.
const maxShown = 500

// RenderToString renders node without mounting it. A render error yields "".
func RenderToString(node *vdom.VNode) string {
	html, err := renderer.RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

func shown(html string) string {
	if len(html) > maxShown {
		return html[:maxShown] + "..."
	}
	return html
}

// ExpectContains fails the test unless node renders to HTML containing want.
//
//	vtest.ExpectContains(t, form.Render(), `type="password"`)
func ExpectContains(t testing.TB, node *vdom.VNode, want string) {
	t.Helper()
	if html := RenderToString(node); !strings.Contains(html, want) {
		t.Errorf("rendered HTML lacks %q:\n%s", want, shown(html))
	}
}

func ExpectNotContains(t testing.TB, node *vdom.VNode, unwanted string) {
	t.Helper()
	if html := RenderToString(node); strings.Contains(html, unwanted) {
		t.Errorf("rendered HTML contains %q:\n%s", unwanted, shown(html))
	}
}

// ExpectElement fails the test unless the tree holds a <tag> element.
func ExpectElement(t testing.TB, node *vdom.VNode, tag string) {
	t.Helper()
	if len(vdom.FindAll(node, func(n *vdom.VNode) bool { return n.Tag == tag })) == 0 {
		t.Errorf("no <%s> element in:\n%s", tag, shown(RenderToString(node)))
	}
}
