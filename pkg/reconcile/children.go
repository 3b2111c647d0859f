package reconcile

import (
	"strings"

	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// reconcileChildren diffs two child lists by position.
//
// Bare text children are checked against whatever the live element holds at
// the same position. Every other pair goes through the decision table unless
// prev and next are the same description, in which case the subtree is
// assumed to be up to date.
func (w *walker) reconcileChildren(el dom.Element, next, prev *vdom.VNode) {
	n := max(len(prev.Children), len(next.Children))
	for i := 0; i < n; i++ {
		var prevChild, nextChild *vdom.VNode
		if i < len(prev.Children) {
			prevChild = prev.Children[i]
		}
		if i < len(next.Children) {
			nextChild = next.Children[i]
		}

		if nextChild.IsTextValue() {
			w.syncTextValue(el, i, nextChild, prevChild)
			continue
		}
		if prevChild != nil && nextChild == prevChild {
			w.stats.add(ActionSkip)
			continue
		}
		w.reconcile(el, nextChild, prevChild)
	}
}

// syncTextValue puts a text node for next at position i of el.
func (w *walker) syncTextValue(el dom.Element, i int, next, prev *vdom.VNode) {
	live := el.ChildAt(i)

	if live != nil && w.r.cfg.TextCompare == CompareDescriptions &&
		isText(prev) && prev.Text == next.Text {
		w.stats.add(ActionKeep)
		return
	}
	if live != nil && live.NodeType() == dom.TextNode && live.NodeValue() == next.Text {
		w.stats.add(ActionKeep)
		return
	}

	text, _ := w.buildNode(next)
	if text == nil {
		w.miss("text: nothing built", next)
		return
	}
	if live != nil {
		el.ReplaceChild(text, live)
		w.stats.add(ActionReplace)
		return
	}
	el.AppendChild(text)
	w.stats.add(ActionAppend)
}

// findText returns the first text child of parent whose trimmed content
// equals text.
func findText(parent dom.Node, text string) dom.Node {
	if parent == nil {
		return nil
	}
	for i := 0; i < parent.ChildCount(); i++ {
		child := parent.ChildAt(i)
		if child != nil && child.NodeType() == dom.TextNode &&
			strings.TrimSpace(child.NodeValue()) == text {
			return child
		}
	}
	return nil
}
