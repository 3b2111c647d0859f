package vdom

import (
	"fmt"
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Structural text node
	KindTextValue              // Bare text inside a children list
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindTextValue:
		return "TextValue"
	default:
		return "Unknown"
	}
}

// VNode is a tree description node.
//
// Nodes are compared by pointer identity between passes, so a render should
// build a fresh tree and reuse a *VNode only for a subtree it knows is
// unchanged.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes and event handlers
	Children []*VNode // Child nodes
	Key      string   // Identity key, mirrors Props["key"]
	Text     string   // For KindText and KindTextValue
}

// Props holds attributes and event handlers.
type Props map[string]any

// IsElement reports whether v is an element description.
func (v *VNode) IsElement() bool { return v != nil && v.Kind == KindElement }

// IsText reports whether v is a structural text node.
func (v *VNode) IsText() bool { return v != nil && v.Kind == KindText }

// IsTextValue reports whether v is a bare text value.
func (v *VNode) IsTextValue() bool { return v != nil && v.Kind == KindTextValue }

// IsInteractive returns true if this node has event handlers.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if IsEventProp(key) {
			return true
		}
	}
	return false
}

// String returns a compact, debug-oriented rendering of the node.
func (v *VNode) String() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindText:
		return fmt.Sprintf("Text(%q)", v.Text)
	case KindTextValue:
		return fmt.Sprintf("%q", v.Text)
	case KindElement:
		var b strings.Builder
		b.WriteString("<")
		b.WriteString(v.Tag)
		if key := KeyOf(v); key != "" {
			fmt.Fprintf(&b, " key=%q", key)
		}
		fmt.Fprintf(&b, " children=%d>", len(v.Children))
		return b.String()
	default:
		return "Unknown"
	}
}

// KeyOf returns the identity key of a node, or "" when it has none.
// The Key field wins over Props["key"].
func KeyOf(node *VNode) string {
	if node == nil {
		return ""
	}
	if node.Key != "" {
		return node.Key
	}
	if node.Props == nil {
		return ""
	}
	switch k := node.Props["key"].(type) {
	case nil:
		return ""
	case string:
		return k
	default:
		return Stringify(k)
	}
}

// IsEventProp returns true if the key names an event handler ("onclick").
// Case-insensitive so onClick, ONCLICK and OnLoad all match.
func IsEventProp(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// Walk visits node and all of its descendants in pre-order.
// Returning false from fn skips the node's children.
func Walk(node *VNode, fn func(*VNode) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for _, child := range node.Children {
		Walk(child, fn)
	}
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event handler.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any    // Function to call
}
