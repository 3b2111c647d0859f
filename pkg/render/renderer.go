package render

import (
	"bytes"
	"io"
	"strings"

	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Config configures the HTML renderer.
type Config struct {
	// Pretty puts block elements on their own lines, indented by depth.
	// Text content is written as-is, so pretty output is for reading, not
	// for round-tripping.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces.
	Indent string

	// ListenerMarkers writes a data-on-<event> attribute for every
	// installed event listener.
	ListenerMarkers bool
}

// Renderer serializes live nodes to HTML. It holds no per-render state and
// is safe for concurrent use, but the tree must not change while it is
// being rendered.
type Renderer struct {
	config Config
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config Config) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

var compact = NewRenderer(Config{})

// HTML returns the outer HTML of node.
func HTML(node dom.Node) string {
	s, _ := compact.RenderToString(node)
	return s
}

// InnerHTML returns the HTML of node's children.
func InnerHTML(node dom.Node) string {
	if node == nil {
		return ""
	}
	var buf bytes.Buffer
	w := &errWriter{w: &buf}
	for _, child := range node.ChildNodes() {
		compact.renderNode(w, child, 0)
	}
	return buf.String()
}

// RenderToString renders node and its subtree to a string.
func (r *Renderer) RenderToString(node dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams node and its subtree to w. A nil node writes
// nothing.
func (r *Renderer) RenderToWriter(w io.Writer, node dom.Node) error {
	ew := &errWriter{w: w}
	r.renderNode(ew, node, 0)
	return ew.err
}

func (r *Renderer) renderNode(w *errWriter, node dom.Node, depth int) {
	if node == nil {
		return
	}
	if node.NodeType() == dom.TextNode {
		w.writeString(escapeHTML(node.NodeValue()))
		return
	}
	if el, ok := dom.AsElement(node); ok {
		r.renderElement(w, el, depth)
	}
}

func (r *Renderer) renderElement(w *errWriter, el dom.Element, depth int) {
	tag := el.NodeName()

	w.writeString("<" + tag)
	r.renderAttributes(w, el)
	w.writeString(">")

	if vdom.IsVoidElement(tag) {
		return
	}

	children := el.ChildNodes()
	if !r.config.Pretty || !hasBlockChild(children) {
		for _, child := range children {
			r.renderNode(w, child, depth+1)
		}
		w.writeString("</" + tag + ">")
		return
	}

	for _, child := range children {
		w.writeString("\n")
		r.writeIndent(w, depth+1)
		r.renderNode(w, child, depth+1)
	}
	w.writeString("\n")
	r.writeIndent(w, depth)
	w.writeString("</" + tag + ">")
}

func (r *Renderer) renderAttributes(w *errWriter, el dom.Element) {
	for _, name := range el.AttributeNames() {
		value, _ := el.GetAttribute(name)
		// Empty values are written bare; boolean props are stored empty.
		if value == "" {
			w.writeString(" " + name)
			continue
		}
		w.writeString(" " + name + `="` + escapeAttr(value) + `"`)
	}

	if !r.config.ListenerMarkers {
		return
	}
	for _, event := range el.ListenerNames() {
		w.writeString(` data-on-` + event + `="true"`)
	}
}

// hasBlockChild reports whether any child is an element that pretty output
// should put on its own line.
func hasBlockChild(children []dom.Node) bool {
	for _, child := range children {
		if child != nil && child.NodeType() == dom.ElementNode && !isInlineElement(child.NodeName()) {
			return true
		}
	}
	return false
}

func (r *Renderer) writeIndent(w *errWriter, depth int) {
	w.writeString(strings.Repeat(r.config.Indent, depth))
}

// errWriter remembers the first write error and drops everything after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) writeString(s string) {
	if w.err != nil || s == "" {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}
