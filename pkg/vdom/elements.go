package vdom

// voidElements never have children or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "wbr": true,
}

// IsVoidElement reports whether tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El builds an element. Each argument may be an Attr, []Attr, an
// EventHandler, a child (*VNode, []*VNode, Component or string) or nil,
// which is skipped so conditional arguments can be written inline.
func El(tag string, args ...any) *VNode {
	node := &VNode{Kind: KindElement, Tag: tag, Props: make(Props)}
	for _, arg := range args {
		switch v := arg.(type) {
		case Attr:
			node.setAttr(v)
		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}
		case EventHandler:
			node.Props[v.Event] = v.Handler
		default:
			node.Children = appendChild(node.Children, arg)
		}
	}
	return node
}

func (v *VNode) setAttr(a Attr) {
	if !a.IsEmpty() {
		v.Props[a.Key] = a.Value
	}
}

// appendChild appends the child form of arg to children. Values that are
// not children are dropped.
func appendChild(children []*VNode, arg any) []*VNode {
	switch v := arg.(type) {
	case *VNode:
		if v != nil {
			children = append(children, v)
		}
	case []*VNode:
		for _, c := range v {
			children = appendChild(children, c)
		}
	case string:
		children = append(children, Text(v))
	case Component:
		if v != nil {
			children = append(children, &VNode{Kind: KindComponent, Comp: v})
		}
	}
	return children
}

func Html(args ...any) *VNode { return El("html", args...) }
func Head(args ...any) *VNode { return El("head", args...) }
func Body(args ...any) *VNode { return El("body", args...) }
func Title(args ...any) *VNode { return El("title", args...) }
func Meta(args ...any) *VNode { return El("meta", args...) }
func Script(args ...any) *VNode { return El("script", args...) }

func Main(args ...any) *VNode { return El("main", args...) }
func Div(args ...any) *VNode { return El("div", args...) }
func P(args ...any) *VNode { return El("p", args...) }
func Span(args ...any) *VNode { return El("span", args...) }
func H1(args ...any) *VNode { return El("h1", args...) }

func Form(args ...any) *VNode { return El("form", args...) }
func Input(args ...any) *VNode { return El("input", args...) }
func Button(args ...any) *VNode { return El("button", args...) }
func Label(args ...any) *VNode { return El("label", args...) }
func Fieldset(args ...any) *VNode { return El("fieldset", args...) }
