package vtest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/loginform/pkg/protocol"
	"github.com/vango-dev/loginform/pkg/server"
	"github.com/vango-dev/loginform/pkg/vdom"
)

// DefaultTimeout bounds WaitFor and event delivery.
var DefaultTimeout = time.Second

// Screen is a component mounted on a connectionless server session.
// Events go through the session queue exactly as client events do, so
// handlers run on the session loop and every event is followed by a
// re-render.
type Screen struct {
	t       testing.TB
	session *server.Session
	timeout time.Duration
}

// Mount mounts c and starts its session loop. The session is closed when
// the test finishes.
func Mount(t testing.TB, c vdom.Component) *Screen {
	t.Helper()
	s := server.NewSession(c, nil, nil, nil)
	if err := s.Mount(); err != nil {
		t.Fatalf("vtest: mount: %v", err)
	}
	go s.EventLoop()
	t.Cleanup(s.Close)
	return &Screen{t: t, session: s, timeout: DefaultTimeout}
}

// Session returns the underlying session.
func (s *Screen) Session() *server.Session {
	return s.session
}

// Unmount closes the session, cancelling the component context.
func (s *Screen) Unmount() {
	s.session.Close()
}

// Tree returns the current rendered tree.
func (s *Screen) Tree() *vdom.VNode {
	return s.session.Tree()
}

// HTML returns the current rendered HTML.
func (s *Screen) HTML() string {
	return s.session.HTML()
}

// Sync waits for all queued events and dispatched work to be rendered.
func (s *Screen) Sync() {
	s.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.session.Sync(ctx); err != nil {
		s.t.Fatalf("vtest: sync: %v", err)
	}
}

// GetByLabelText returns the control labelled text. It fails the test
// if there is none.
func (s *Screen) GetByLabelText(text string) *Element {
	s.t.Helper()
	root := s.Tree()
	node := vdom.LabelTarget(root, text)
	if node == nil {
		s.t.Fatalf("vtest: no control labelled %q in:\n%s", text, s.HTML())
	}
	return &Element{node: node, root: root}
}

// GetByRole returns the element with the given ARIA role and accessible
// name. It fails the test if there is none.
func (s *Screen) GetByRole(role, name string) *Element {
	s.t.Helper()
	if el := s.QueryByRole(role, name); el != nil {
		return el
	}
	s.t.Fatalf("vtest: no %s named %q in:\n%s", role, name, s.HTML())
	return nil
}

// QueryByRole is GetByRole returning nil when nothing matches.
func (s *Screen) QueryByRole(role, name string) *Element {
	root := s.Tree()
	found := vdom.FindAll(root, func(n *vdom.VNode) bool {
		return roleOf(n) == role && accessibleName(root, n) == name
	})
	if len(found) == 0 {
		return nil
	}
	return &Element{node: found[0], root: root}
}

// GetByText returns the innermost element whose text is text. It fails
// the test if there is none.
func (s *Screen) GetByText(text string) *Element {
	s.t.Helper()
	if el := s.QueryByText(text); el != nil {
		return el
	}
	s.t.Fatalf("vtest: no element with text %q in:\n%s", text, s.HTML())
	return nil
}

// QueryByText is GetByText returning nil when nothing matches.
func (s *Screen) QueryByText(text string) *Element {
	found := s.QueryAllByText(text)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// QueryAllByText returns every innermost element whose trimmed text
// content equals text.
func (s *Screen) QueryAllByText(text string) []*Element {
	matches := func(n *vdom.VNode) bool {
		return n.Kind == vdom.KindElement && strings.TrimSpace(vdom.TextContent(n)) == text
	}
	root := s.Tree()
	nodes := vdom.FindAll(root, func(n *vdom.VNode) bool {
		if !matches(n) {
			return false
		}
		for _, child := range n.Children {
			if matches(child) {
				return false
			}
		}
		return true
	})
	return elements(root, nodes)
}

// QueryAllByTag returns every element with the given tag.
func (s *Screen) QueryAllByTag(tag string) []*Element {
	root := s.Tree()
	return elements(root, vdom.FindAll(root, func(n *vdom.VNode) bool { return n.Tag == tag }))
}

// Change sets the value of an input and fires its input event.
func (s *Screen) Change(el *Element, value string) {
	s.t.Helper()
	s.fire(el, protocol.EventInput, value)
	if el.node.Handler("change") != nil {
		s.fire(el, protocol.EventChange, value)
	}
}

// Click clicks el. Clicking a submit button also submits its form, as a
// browser would.
func (s *Screen) Click(el *Element) {
	s.t.Helper()
	var form *vdom.VNode
	if isSubmitter(el.node) {
		form = vdom.Ancestor(el.root, el.node, "form")
	}
	if el.node.Handler("click") != nil {
		s.fire(el, protocol.EventClick, "")
	}
	if form != nil {
		s.Submit(&Element{node: form, root: el.root})
	}
}

// Submit fires the submit event of a form.
func (s *Screen) Submit(form *Element) {
	s.t.Helper()
	if form.node.Tag != "form" {
		s.t.Fatalf("vtest: submit on <%s>, want <form>", form.node.Tag)
	}
	s.fire(form, protocol.EventSubmit, "")
}

func (s *Screen) fire(el *Element, et protocol.EventType, value string) {
	s.t.Helper()
	if el.node.HID == "" {
		s.t.Fatalf("vtest: <%s> has no hydration id", el.node.Tag)
	}
	err := s.session.QueueEvent(&server.Event{
		Type:  et,
		HID:   el.node.HID,
		Value: value,
	})
	if err != nil {
		s.t.Fatalf("vtest: %s on <%s>: %v", et, el.node.Tag, err)
	}
	s.Sync()
}

// WaitFor retries fn until it returns nil or the timeout expires, in
// which case the test fails with the last error. Work dispatched back to
// the session is rendered before each attempt.
func (s *Screen) WaitFor(fn func() error) {
	s.t.Helper()
	deadline := time.Now().Add(s.timeout)
	for {
		s.Sync()
		err := fn()
		if err == nil {
			return
		}
		if time.Now().After(deadline) {
			s.t.Fatalf("vtest: WaitFor timed out after %v: %v\n%s", s.timeout, err, s.HTML())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Expect returns a WaitFor callback that fails with the formatted message
// until cond holds:
//
//	screen.WaitFor(vtest.Expect(func() bool { return calls.Load() == 1 }, "client called"))
func Expect(cond func() bool, format string, args ...any) func() error {
	return func() error {
		if cond() {
			return nil
		}
		return fmt.Errorf(format, args...)
	}
}

func elements(root *vdom.VNode, nodes []*vdom.VNode) []*Element {
	out := make([]*Element, len(nodes))
	for i, n := range nodes {
		out[i] = &Element{node: n, root: root}
	}
	return out
}

// roleOf returns the explicit or implicit ARIA role of n.
func roleOf(n *vdom.VNode) string {
	if role := n.Attr("role"); role != "" {
		return role
	}
	switch n.Tag {
	case "button":
		return "button"
	case "form":
		return "form"
	case "textarea":
		return "textbox"
	case "input":
		switch n.Attr("type") {
		case "", "text", "email", "search", "tel", "url":
			return "textbox"
		case "button", "submit", "reset":
			return "button"
		case "checkbox":
			return "checkbox"
		}
	}
	return ""
}

// accessibleName resolves the name of n: aria-label, then the label
// pointing at it, then its text or value.
func accessibleName(root, n *vdom.VNode) string {
	if label := n.Attr("aria-label"); label != "" {
		return label
	}
	if id := n.Attr("id"); id != "" {
		labels := vdom.FindAll(root, func(l *vdom.VNode) bool {
			return l.Tag == "label" && l.Attr("for") == id
		})
		if len(labels) > 0 {
			return strings.TrimSpace(vdom.TextContent(labels[0]))
		}
	}
	if n.Tag == "input" {
		return n.Attr("value")
	}
	return strings.TrimSpace(vdom.TextContent(n))
}

func isSubmitter(n *vdom.VNode) bool {
	switch n.Tag {
	case "button":
		t := n.Attr("type")
		return t == "" || t == "submit"
	case "input":
		return n.Attr("type") == "submit"
	}
	return false
}
