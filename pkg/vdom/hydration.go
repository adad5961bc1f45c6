package vdom

import (
	"strconv"
	"sync/atomic"
)

// HIDGenerator hands out hydration ids h1, h2, ... A session resets it
// before every render so ids follow document order.
type HIDGenerator struct {
	n atomic.Uint32
}

func NewHIDGenerator() *HIDGenerator {
	return new(HIDGenerator)
}

func (g *HIDGenerator) Next() string {
	return "h" + strconv.FormatUint(uint64(g.n.Add(1)), 10)
}

func (g *HIDGenerator) Reset() { g.n.Store(0) }

// Current returns the number of ids handed out since the last Reset.
func (g *HIDGenerator) Current() uint32 { return g.n.Load() }

// AssignHIDs gives every element of an expanded tree the next id in
// document order. Elements before the first structural difference between
// two renders keep their ids.
func AssignHIDs(root *VNode, gen *HIDGenerator) {
	Walk(root, func(n, _ *VNode) bool {
		if n.Kind == KindElement {
			n.HID = gen.Next()
		}
		return true
	})
}

// Expand renders component nodes in place until none remain. Components
// rendering nil disappear from their parent.
func Expand(node *VNode) *VNode {
	for node != nil && node.Kind == KindComponent {
		if node.Comp == nil {
			return nil
		}
		node = node.Comp.Render()
	}
	if node == nil || len(node.Children) == 0 {
		return node
	}
	kept := node.Children[:0]
	for _, child := range node.Children {
		if c := Expand(child); c != nil {
			kept = append(kept, c)
		}
	}
	node.Children = kept
	return node
}

// CollectHIDs indexes the nodes of a tree by hydration id.
func CollectHIDs(root *VNode) map[string]*VNode {
	index := make(map[string]*VNode)
	Walk(root, func(n, _ *VNode) bool {
		if n.HID != "" {
			index[n.HID] = n
		}
		return true
	})
	return index
}

// FindByHID returns the node with the given hydration id, or nil.
func FindByHID(root *VNode, hid string) *VNode {
	var found *VNode
	Walk(root, func(n, _ *VNode) bool {
		if found != nil {
			return false
		}
		if n.HID == hid {
			found = n
		}
		return found == nil
	})
	return found
}

func CountInteractive(root *VNode) int {
	count := 0
	Walk(root, func(n, _ *VNode) bool {
		if n.IsInteractive() {
			count++
		}
		return true
	})
	return count
}
