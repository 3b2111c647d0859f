package dom

import "fmt"

// NodeType mirrors the DOM nodeType values the reconciler cares about.
type NodeType uint8

const (
	ElementNode NodeType = 1
	TextNode    NodeType = 3
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	default:
		return fmt.Sprintf("NodeType(%d)", uint8(t))
	}
}

// Node is a live document node.
//
// Mutating methods silently ignore nodes that belong to a different
// implementation or are not children of the receiver.
type Node interface {
	NodeType() NodeType
	// NodeName is the lower-case tag for elements and "#text" for text.
	NodeName() string
	// NodeValue is the text content of a text node and "" for elements.
	NodeValue() string
	// ParentNode returns nil for detached nodes.
	ParentNode() Node
	ChildCount() int
	// ChildAt returns nil when i is out of range.
	ChildAt(i int) Node
	ChildNodes() []Node
	AppendChild(child Node)
	RemoveChild(child Node)
	ReplaceChild(newChild, oldChild Node)
}

// Element is a live element node.
type Element interface {
	Node
	GetAttribute(name string) (string, bool)
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	// AttributeNames returns attribute names in sorted order.
	AttributeNames() []string
	// SetListener installs handler for event ("click"), replacing any
	// previous handler for the same event.
	SetListener(event string, handler any)
	RemoveListener(event string)
	Listener(event string) (any, bool)
	// ListenerNames returns event names in sorted order.
	ListenerNames() []string
}

// Document creates live nodes and owns the root the reconciler renders into.
type Document interface {
	Root() Element
	CreateElement(tag string) Element
	CreateTextNode(text string) Node
}

// AsElement returns n as an Element when it is an element node.
func AsElement(n Node) (Element, bool) {
	if n == nil || n.NodeType() != ElementNode {
		return nil, false
	}
	el, ok := n.(Element)
	return el, ok
}

// ReplaceWith swaps old for replacement under old's parent.
// It reports false when old is detached.
func ReplaceWith(old, replacement Node) bool {
	if old == nil || replacement == nil {
		return false
	}
	parent := old.ParentNode()
	if parent == nil {
		return false
	}
	parent.ReplaceChild(replacement, old)
	return true
}

// IndexOf returns the position of child under parent, or -1.
func IndexOf(parent, child Node) int {
	if parent == nil || child == nil {
		return -1
	}
	for i := 0; i < parent.ChildCount(); i++ {
		if parent.ChildAt(i) == child {
			return i
		}
	}
	return -1
}

// Walk calls fn for n and then for each of its descendants in document
// order.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	for i := 0; i < n.ChildCount(); i++ {
		Walk(n.ChildAt(i), fn)
	}
}
