package dom

import (
	"reflect"
	"slices"
	"sort"
	"sync"
)

// MutationOp is the kind of change recorded by the in-memory document.
type MutationOp uint8

const (
	MutAppend     MutationOp = iota + 1 // Child appended
	MutRemove                           // Child removed
	MutReplace                          // Child replaced in place
	MutSetAttr                          // Attribute added or changed
	MutRemoveAttr                       // Attribute removed
	MutSetListener                      // Listener added or changed
	MutRemoveListener                   // Listener removed
)

// String returns the string representation of the MutationOp.
func (op MutationOp) String() string {
	switch op {
	case MutAppend:
		return "append"
	case MutRemove:
		return "remove"
	case MutReplace:
		return "replace"
	case MutSetAttr:
		return "set-attr"
	case MutRemoveAttr:
		return "remove-attr"
	case MutSetListener:
		return "set-listener"
	case MutRemoveListener:
		return "remove-listener"
	default:
		return "unknown"
	}
}

// MutationRecord describes one change under the document root.
type MutationRecord struct {
	Op     MutationOp
	Target Node   // Parent for structural ops, element for attribute ops
	Node   Node   // Added/removed child, or the replacement
	Old    Node   // Replaced child (MutReplace only)
	Key    string // Attribute name or event name
	Value  string // New attribute value
}

// MemoryDocument is an in-memory Document.
//
// Only mutations on nodes connected to the root are recorded, the same
// scope a browser MutationObserver on the root would see. Building a
// detached subtree and then attaching it yields a single record.
type MemoryDocument struct {
	root *memNode

	mu        sync.Mutex
	observers map[int]func(MutationRecord)
	nextObs   int
}

// NewDocument creates an in-memory document whose root is an element with
// the given tag ("body" when empty).
func NewDocument(rootTag string) *MemoryDocument {
	if rootTag == "" {
		rootTag = "body"
	}
	d := &MemoryDocument{observers: make(map[int]func(MutationRecord))}
	d.root = &memNode{doc: d, typ: ElementNode, tag: rootTag}
	return d
}

// Root returns the document root element.
func (d *MemoryDocument) Root() Element { return d.root }

// CreateElement creates a detached element.
func (d *MemoryDocument) CreateElement(tag string) Element {
	return &memNode{doc: d, typ: ElementNode, tag: tag}
}

// CreateTextNode creates a detached text node.
func (d *MemoryDocument) CreateTextNode(text string) Node {
	return &memNode{doc: d, typ: TextNode, text: text}
}

// Observe registers fn for every future mutation record and returns a
// function that unregisters it.
func (d *MemoryDocument) Observe(fn func(MutationRecord)) (cancel func()) {
	d.mu.Lock()
	id := d.nextObs
	d.nextObs++
	d.observers[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.observers, id)
		d.mu.Unlock()
	}
}

func (d *MemoryDocument) emit(target *memNode, rec MutationRecord) {
	if !target.connected() {
		return
	}
	d.mu.Lock()
	ids := make([]int, 0, len(d.observers))
	for id := range d.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(MutationRecord), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, d.observers[id])
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(rec)
	}
}

var _ Document = (*MemoryDocument)(nil)

// memNode backs both elements and text nodes.
type memNode struct {
	doc       *MemoryDocument
	typ       NodeType
	tag       string
	text      string
	parent    *memNode
	children  []*memNode
	attrs     map[string]string
	listeners map[string]any
}

var (
	_ Node    = (*memNode)(nil)
	_ Element = (*memNode)(nil)
)

func (n *memNode) NodeType() NodeType { return n.typ }

func (n *memNode) NodeName() string {
	if n.typ == TextNode {
		return "#text"
	}
	return n.tag
}

func (n *memNode) NodeValue() string {
	if n.typ == TextNode {
		return n.text
	}
	return ""
}

func (n *memNode) ParentNode() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *memNode) ChildCount() int { return len(n.children) }

func (n *memNode) ChildAt(i int) Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *memNode) ChildNodes() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *memNode) AppendChild(child Node) {
	c := n.own(child)
	if c == nil || n.typ != ElementNode || c.contains(n) {
		return
	}
	c.detach()
	c.parent = n
	n.children = append(n.children, c)
	n.doc.emit(n, MutationRecord{Op: MutAppend, Target: n, Node: c})
}

func (n *memNode) RemoveChild(child Node) {
	c := n.own(child)
	if c == nil || c.parent != n {
		return
	}
	idx := slices.Index(n.children, c)
	n.children = slices.Delete(n.children, idx, idx+1)
	c.parent = nil
	n.doc.emit(n, MutationRecord{Op: MutRemove, Target: n, Node: c})
}

func (n *memNode) ReplaceChild(newChild, oldChild Node) {
	nc, oc := n.own(newChild), n.own(oldChild)
	if nc == nil || oc == nil || oc.parent != n || nc == oc || nc.contains(n) {
		return
	}
	nc.detach()
	idx := slices.Index(n.children, oc)
	n.children[idx] = nc
	nc.parent = n
	oc.parent = nil
	n.doc.emit(n, MutationRecord{Op: MutReplace, Target: n, Node: nc, Old: oc})
}

func (n *memNode) GetAttribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *memNode) SetAttribute(name, value string) {
	if n.typ != ElementNode {
		return
	}
	if old, ok := n.attrs[name]; ok && old == value {
		return
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
	n.doc.emit(n, MutationRecord{Op: MutSetAttr, Target: n, Key: name, Value: value})
}

func (n *memNode) RemoveAttribute(name string) {
	if _, ok := n.attrs[name]; !ok {
		return
	}
	delete(n.attrs, name)
	n.doc.emit(n, MutationRecord{Op: MutRemoveAttr, Target: n, Key: name})
}

func (n *memNode) AttributeNames() []string {
	names := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (n *memNode) SetListener(event string, handler any) {
	if n.typ != ElementNode {
		return
	}
	old, had := n.listeners[event]
	if n.listeners == nil {
		n.listeners = make(map[string]any)
	}
	n.listeners[event] = handler
	if had && sameHandler(old, handler) {
		return
	}
	n.doc.emit(n, MutationRecord{Op: MutSetListener, Target: n, Key: event})
}

func (n *memNode) RemoveListener(event string) {
	if _, ok := n.listeners[event]; !ok {
		return
	}
	delete(n.listeners, event)
	n.doc.emit(n, MutationRecord{Op: MutRemoveListener, Target: n, Key: event})
}

func (n *memNode) Listener(event string) (any, bool) {
	h, ok := n.listeners[event]
	return h, ok
}

func (n *memNode) ListenerNames() []string {
	names := make([]string, 0, len(n.listeners))
	for k := range n.listeners {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// sameHandler reports whether replacing a with b changes nothing observable.
// Functions match on type and code pointer, so re-rendering the same
// function literal is not a change.
func sameHandler(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Func && vb.Kind() == reflect.Func {
		return va.Type() == vb.Type() && va.Pointer() == vb.Pointer()
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.TypeOf(a) == reflect.TypeOf(b) && reflect.TypeOf(a).Comparable() && a == b
}

// own returns child as a node of this document, or nil.
func (n *memNode) own(child Node) *memNode {
	c, ok := child.(*memNode)
	if !ok || c == nil || c.doc != n.doc {
		return nil
	}
	return c
}

// detach removes n from its current parent, if any.
func (n *memNode) detach() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

func (n *memNode) contains(other *memNode) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func (n *memNode) connected() bool {
	for p := n; p != nil; p = p.parent {
		if p == n.doc.root {
			return true
		}
	}
	return false
}
