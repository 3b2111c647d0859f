package dom

import "github.com/vango-dev/reconcile/pkg/vdom"

// StampFunc records that desc is now represented by live.
type StampFunc func(desc *vdom.VNode, live Node)

// Factory builds live nodes from tree descriptions.
type Factory struct {
	Doc Document
}

// NewFactory creates a Factory for doc.
func NewFactory(doc Document) *Factory {
	return &Factory{Doc: doc}
}

// Build creates a new, unattached live node for node and its children.
//
// stamp, when non-nil, is called for every element and text description in
// the subtree so that later passes can find the live nodes again. Text
// values are built but never stamped. Build returns nil for a nil node or
// an unknown kind.
func (f *Factory) Build(node *vdom.VNode, stamp StampFunc) Node {
	if node == nil || f == nil || f.Doc == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindText:
		live := f.Doc.CreateTextNode(node.Text)
		if stamp != nil {
			stamp(node, live)
		}
		return live

	case vdom.KindTextValue:
		return f.Doc.CreateTextNode(node.Text)

	case vdom.KindElement:
		el := f.Doc.CreateElement(node.Tag)
		ApplyProps(node.Props, el)
		for _, child := range node.Children {
			if c := f.Build(child, stamp); c != nil {
				el.AppendChild(c)
			}
		}
		if stamp != nil {
			stamp(node, el)
		}
		return el

	default:
		return nil
	}
}
