//go:build js && wasm

package dom

import (
	"sort"
	"strings"
	"syscall/js"
)

// idProp is the expando property that links a JS node to its Go wrapper.
const idProp = "__vdomID"

// BrowserDocument is a Document backed by the page's DOM.
//
// Wrappers are cached per JS node so the same DOM node always maps to the
// same Node value and identity comparisons keep working.
type BrowserDocument struct {
	document js.Value
	root     *browserNode
	nextID   int
	nodes    map[int]*browserNode
}

// NewBrowserDocument wraps document and renders into the element matched by
// selector (the body when selector is empty or matches nothing).
func NewBrowserDocument(selector string) *BrowserDocument {
	document := js.Global().Get("document")
	d := &BrowserDocument{
		document: document,
		nextID:   1,
		nodes:    make(map[int]*browserNode),
	}

	rootValue := js.Null()
	if selector != "" {
		rootValue = document.Call("querySelector", selector)
	}
	if rootValue.IsNull() || rootValue.IsUndefined() {
		rootValue = document.Get("body")
	}
	d.root = d.wrap(rootValue)
	return d
}

// Root returns the element passes render into.
func (d *BrowserDocument) Root() Element { return d.root }

// CreateElement creates a detached element.
func (d *BrowserDocument) CreateElement(tag string) Element {
	return d.wrap(d.document.Call("createElement", tag))
}

// CreateTextNode creates a detached text node.
func (d *BrowserDocument) CreateTextNode(text string) Node {
	return d.wrap(d.document.Call("createTextNode", text))
}

func (d *BrowserDocument) wrap(v js.Value) *browserNode {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	if id := v.Get(idProp); id.Type() == js.TypeNumber {
		if n, ok := d.nodes[id.Int()]; ok {
			return n
		}
	}
	id := d.nextID
	d.nextID++
	v.Set(idProp, id)
	n := &browserNode{doc: d, id: id, v: v}
	d.nodes[id] = n
	return n
}

// forget drops the wrappers of a subtree leaving the document and releases
// every js.Func its listeners hold.
func (d *BrowserDocument) forget(n *browserNode) {
	Walk(n, func(child Node) {
		if c, ok := child.(*browserNode); ok {
			c.release()
			delete(d.nodes, c.id)
		}
	})
}

var _ Document = (*BrowserDocument)(nil)

type browserNode struct {
	doc       *BrowserDocument
	id        int
	v         js.Value
	handlers  map[string]js.Func
	listeners map[string]any
}

var _ Element = (*browserNode)(nil)

func (n *browserNode) NodeType() NodeType { return NodeType(n.v.Get("nodeType").Int()) }

func (n *browserNode) NodeName() string {
	if n.NodeType() == TextNode {
		return "#text"
	}
	return strings.ToLower(n.v.Get("nodeName").String())
}

func (n *browserNode) NodeValue() string {
	if n.NodeType() != TextNode {
		return ""
	}
	return n.v.Get("nodeValue").String()
}

func (n *browserNode) ParentNode() Node {
	p := n.doc.wrap(n.v.Get("parentNode"))
	if p == nil {
		return nil
	}
	return p
}

func (n *browserNode) ChildCount() int { return n.v.Get("childNodes").Get("length").Int() }

func (n *browserNode) ChildAt(i int) Node {
	if i < 0 || i >= n.ChildCount() {
		return nil
	}
	c := n.doc.wrap(n.v.Get("childNodes").Index(i))
	if c == nil {
		return nil
	}
	return c
}

func (n *browserNode) ChildNodes() []Node {
	count := n.ChildCount()
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		if c := n.ChildAt(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (n *browserNode) AppendChild(child Node) {
	if c, ok := child.(*browserNode); ok && c != nil {
		n.v.Call("appendChild", c.v)
	}
}

func (n *browserNode) RemoveChild(child Node) {
	c, ok := child.(*browserNode)
	if !ok || c == nil || !c.v.Get("parentNode").Equal(n.v) {
		return
	}
	n.v.Call("removeChild", c.v)
	n.doc.forget(c)
}

func (n *browserNode) ReplaceChild(newChild, oldChild Node) {
	nc, ok1 := newChild.(*browserNode)
	oc, ok2 := oldChild.(*browserNode)
	if !ok1 || !ok2 || nc == nil || oc == nil || !oc.v.Get("parentNode").Equal(n.v) {
		return
	}
	n.v.Call("replaceChild", nc.v, oc.v)
	n.doc.forget(oc)
}

func (n *browserNode) GetAttribute(name string) (string, bool) {
	if n.NodeType() != ElementNode || !n.v.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return n.v.Call("getAttribute", name).String(), true
}

// SetAttribute also writes the live property for form state, since the
// attribute alone does not update a control the user has touched.
func (n *browserNode) SetAttribute(name, value string) {
	if n.NodeType() != ElementNode {
		return
	}
	n.v.Call("setAttribute", name, value)
	switch name {
	case "value":
		n.v.Set("value", value)
	case "checked", "selected", "disabled":
		n.v.Set(name, true)
	}
}

func (n *browserNode) RemoveAttribute(name string) {
	if n.NodeType() != ElementNode {
		return
	}
	n.v.Call("removeAttribute", name)
	switch name {
	case "checked", "selected", "disabled":
		n.v.Set(name, false)
	}
}

func (n *browserNode) AttributeNames() []string {
	if n.NodeType() != ElementNode {
		return nil
	}
	names := n.v.Call("getAttributeNames")
	out := make([]string, 0, names.Length())
	for i := 0; i < names.Length(); i++ {
		out = append(out, names.Index(i).String())
	}
	sort.Strings(out)
	return out
}

func (n *browserNode) SetListener(event string, handler any) {
	if n.NodeType() != ElementNode {
		return
	}
	fn, ok := wrapHandler(event, handler)
	if !ok {
		return
	}
	n.RemoveListener(event)
	if n.handlers == nil {
		n.handlers = make(map[string]js.Func)
		n.listeners = make(map[string]any)
	}
	n.v.Call("addEventListener", event, fn)
	n.handlers[event] = fn
	n.listeners[event] = handler
}

func (n *browserNode) RemoveListener(event string) {
	fn, ok := n.handlers[event]
	if !ok {
		return
	}
	n.v.Call("removeEventListener", event, fn)
	fn.Release()
	delete(n.handlers, event)
	delete(n.listeners, event)
}

func (n *browserNode) release() {
	for event, fn := range n.handlers {
		n.v.Call("removeEventListener", event, fn)
		fn.Release()
	}
	n.handlers = nil
	n.listeners = nil
}

func (n *browserNode) Listener(event string) (any, bool) {
	h, ok := n.listeners[event]
	return h, ok
}

func (n *browserNode) ListenerNames() []string {
	names := make([]string, 0, len(n.listeners))
	for k := range n.listeners {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// wrapHandler adapts the supported Go handler signatures to a js.Func.
func wrapHandler(event string, handler any) (js.Func, bool) {
	switch h := handler.(type) {
	case func():
		return js.FuncOf(func(this js.Value, args []js.Value) any {
			h()
			return nil
		}), true
	case func(js.Value):
		return js.FuncOf(func(this js.Value, args []js.Value) any {
			if len(args) > 0 {
				h(args[0])
			} else {
				h(js.Undefined())
			}
			return nil
		}), true
	case func(string):
		return js.FuncOf(func(this js.Value, args []js.Value) any {
			var s string
			if len(args) > 0 {
				ev := args[0]
				switch event {
				case "input", "change":
					if tgt := ev.Get("target"); tgt.Truthy() {
						s = tgt.Get("value").String()
					}
				case "keydown", "keyup", "keypress":
					s = ev.Get("key").String()
				default:
					s = ev.Get("type").String()
				}
			}
			h(s)
			return nil
		}), true
	default:
		return js.Func{}, false
	}
}
