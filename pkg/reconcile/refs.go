package reconcile

import (
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Refs maps description nodes to the live nodes they currently represent.
//
// Entries are keyed by pointer identity. Text values never get an entry;
// they are found again by searching the parent's text children.
type Refs struct {
	m map[*vdom.VNode]dom.Node
}

// NewRefs creates an empty table.
func NewRefs() *Refs {
	return &Refs{m: make(map[*vdom.VNode]dom.Node)}
}

// Get returns the live node recorded for node.
func (r *Refs) Get(node *vdom.VNode) (dom.Node, bool) {
	if r == nil || node == nil {
		return nil, false
	}
	live, ok := r.m[node]
	return live, ok
}

// Set records live as the node's back-reference. It ignores nil arguments
// and text values.
func (r *Refs) Set(node *vdom.VNode, live dom.Node) {
	if r == nil || node == nil || live == nil || node.IsTextValue() {
		return
	}
	r.m[node] = live
}

// Delete drops the entry for node.
func (r *Refs) Delete(node *vdom.VNode) {
	if r == nil {
		return
	}
	delete(r.m, node)
}

// Len returns the number of entries.
func (r *Refs) Len() int {
	if r == nil {
		return 0
	}
	return len(r.m)
}

// Prune keeps only the entries for nodes reachable from tree and returns the
// number removed.
func (r *Refs) Prune(tree *vdom.VNode) int {
	if r == nil {
		return 0
	}
	reachable := make(map[*vdom.VNode]struct{}, len(r.m))
	vdom.Walk(tree, func(n *vdom.VNode) bool {
		reachable[n] = struct{}{}
		return true
	})

	removed := 0
	for node := range r.m {
		if _, ok := reachable[node]; !ok {
			delete(r.m, node)
			removed++
		}
	}
	return removed
}

// Clear drops every entry.
func (r *Refs) Clear() {
	if r == nil {
		return
	}
	clear(r.m)
}
