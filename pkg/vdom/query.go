package vdom

import "strings"

// Walk visits every node depth-first. The parent of the root is nil.
// Returning false from fn stops descent into that node's children.
func Walk(node *VNode, fn func(node, parent *VNode) bool) {
	walk(node, nil, fn)
}

func walk(node, parent *VNode, fn func(node, parent *VNode) bool) {
	if node == nil {
		return
	}
	if !fn(node, parent) {
		return
	}
	for _, child := range node.Children {
		walk(child, node, fn)
	}
}

// FindAll returns every element for which match returns true, in document order.
func FindAll(root *VNode, match func(*VNode) bool) []*VNode {
	var out []*VNode
	Walk(root, func(n, _ *VNode) bool {
		if n.Kind == KindElement && match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FindByID returns the first element whose id attribute equals id.
func FindByID(root *VNode, id string) *VNode {
	found := FindAll(root, func(n *VNode) bool { return n.Attr("id") == id })
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// TextContent concatenates the text of all descendant text nodes.
func TextContent(node *VNode) string {
	var b strings.Builder
	Walk(node, func(n, _ *VNode) bool {
		if n.Kind == KindText {
			b.WriteString(n.Text)
		}
		return true
	})
	return b.String()
}

// LabelTarget resolves the control a label with the given text points to,
// either through its for attribute or by nesting.
func LabelTarget(root *VNode, text string) *VNode {
	labels := FindAll(root, func(n *VNode) bool {
		return n.Tag == "label" && strings.TrimSpace(TextContent(n)) == text
	})
	for _, label := range labels {
		if id := label.Attr("for"); id != "" {
			if target := FindByID(root, id); target != nil {
				return target
			}
			continue
		}
		nested := FindAll(label, isLabelable)
		if len(nested) > 0 {
			return nested[0]
		}
	}
	return nil
}

// Ancestor returns the nearest ancestor of target with the given tag.
func Ancestor(root, target *VNode, tag string) *VNode {
	var path []*VNode
	var search func(n *VNode) bool
	search = func(n *VNode) bool {
		if n == nil {
			return false
		}
		if n == target {
			return true
		}
		path = append(path, n)
		for _, child := range n.Children {
			if search(child) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if !search(root) {
		return nil
	}
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].Tag == tag {
			return path[i]
		}
	}
	return nil
}

func isLabelable(n *VNode) bool {
	switch n.Tag {
	case "input", "textarea", "select", "button":
		return true
	}
	return false
}
