package vdom

import "testing"

func TestCreateElement(t *testing.T) {
	t.Run("basic element", func(t *testing.T) {
		node := Div()
		if node.Kind != KindElement {
			t.Errorf("Kind = %v, want KindElement", node.Kind)
		}
		if node.Tag != "div" {
			t.Errorf("Tag = %v, want div", node.Tag)
		}
	})

	t.Run("with attributes", func(t *testing.T) {
		node := Input(Type("password"), ID("password"), Name("password"), Placeholder("password"))
		for key, want := range map[string]string{
			"type":        "password",
			"id":          "password",
			"name":        "password",
			"placeholder": "password",
		} {
			if got := node.Props[key]; got != want {
				t.Errorf("%s = %v, want %v", key, got, want)
			}
		}
	})

	t.Run("with attribute slice", func(t *testing.T) {
		node := Div([]Attr{Class("a", "b"), Data("role", "card")})
		if node.Props["class"] != "a b" {
			t.Errorf("class = %v, want 'a b'", node.Props["class"])
		}
		if node.Props["data-role"] != "card" {
			t.Errorf("data-role = %v, want card", node.Props["data-role"])
		}
	})

	t.Run("with string shorthand", func(t *testing.T) {
		node := Button("Login")
		if len(node.Children) != 1 {
			t.Fatalf("Children len = %v, want 1", len(node.Children))
		}
		if node.Children[0].Kind != KindText || node.Children[0].Text != "Login" {
			t.Errorf("child = %+v, want text Login", node.Children[0])
		}
	})

	t.Run("nil and empty attrs ignored", func(t *testing.T) {
		node := Div(nil, AttrIf(false, Class("hidden")), (*VNode)(nil))
		if len(node.Props) != 0 {
			t.Errorf("Props = %v, want empty", node.Props)
		}
		if len(node.Children) != 0 {
			t.Errorf("Children len = %v, want 0", len(node.Children))
		}
	})

	t.Run("with event handler", func(t *testing.T) {
		node := Form(OnSubmit(func() {}))
		if node.Handler("submit") == nil {
			t.Error("onsubmit handler not set")
		}
		if !node.IsInteractive() {
			t.Error("form with handler should be interactive")
		}
	})

	t.Run("with component child", func(t *testing.T) {
		node := Div(Func(func() *VNode { return P("inner") }))
		if len(node.Children) != 1 || node.Children[0].Kind != KindComponent {
			t.Fatalf("children = %+v, want one component node", node.Children)
		}
	})
}

func TestIsVoidElement(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"input", true},
		{"br", true},
		{"meta", true},
		{"div", false},
		{"button", false},
		{"label", false},
	}
	for _, tt := range tests {
		if got := IsVoidElement(tt.tag); got != tt.want {
			t.Errorf("IsVoidElement(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestVNodeAttr(t *testing.T) {
	node := Input(Value("abc"), Disabled(), Data("count", "3"))
	node.Props["tabindex"] = 2

	if got := node.Attr("value"); got != "abc" {
		t.Errorf("Attr(value) = %q, want abc", got)
	}
	if got := node.Attr("disabled"); got != "disabled" {
		t.Errorf("Attr(disabled) = %q, want disabled", got)
	}
	if got := node.Attr("tabindex"); got != "2" {
		t.Errorf("Attr(tabindex) = %q, want 2", got)
	}
	if got := node.Attr("missing"); got != "" {
		t.Errorf("Attr(missing) = %q, want empty", got)
	}

	var nilNode *VNode
	if nilNode.Attr("value") != "" || nilNode.Handler("click") != nil {
		t.Error("nil node should have no attrs or handlers")
	}
}

func TestVKindString(t *testing.T) {
	tests := map[VKind]string{
		KindElement:   "Element",
		KindText:      "Text",
		KindFragment:  "Fragment",
		KindComponent: "Component",
		VKind(99):     "Unknown",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("VKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestFragmentAndConditionals(t *testing.T) {
	frag := Fragment("a", nil, P("b"), []*VNode{Span("c"), nil})
	if len(frag.Children) != 3 {
		t.Fatalf("Fragment children = %d, want 3", len(frag.Children))
	}
	if If(false, P("x")) != nil {
		t.Error("If(false) should be nil")
	}
	if If(true, P("x")) == nil {
		t.Error("If(true) should return the node")
	}
	called := false
	When(false, func() *VNode { called = true; return nil })
	if called {
		t.Error("When(false) must not evaluate its function")
	}
	if got := Textf("%d items", 3).Text; got != "3 items" {
		t.Errorf("Textf = %q, want '3 items'", got)
	}
}
