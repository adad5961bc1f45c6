package vdom

import "fmt"

// Text creates a text node. Its content is escaped when rendered.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// Textf is Text with fmt.Sprintf formatting.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapper element. Arguments are
// children as accepted by El; anything else is ignored.
func Fragment(children ...any) *VNode {
	node := &VNode{Kind: KindFragment}
	for _, c := range children {
		node.Children = appendChild(node.Children, c)
	}
	return node
}

// When returns fn() if cond holds and nil otherwise, so the branch is only
// built when it is shown:
//
//	vdom.When(s.Error != nil, func() *vdom.VNode { return vdom.P(*s.Error) })
func When(cond bool, fn func() *VNode) *VNode {
	if !cond {
		return nil
	}
	return fn()
}

// If returns node if cond holds and nil otherwise. Unlike When, node is
// built either way.
func If(cond bool, node *VNode) *VNode {
	if cond {
		return node
	}
	return nil
}
