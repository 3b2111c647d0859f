// Package reconcile brings a live document subtree in line with a new tree
// description.
//
// A pass walks the previous and next descriptions side by side together with
// the live nodes they produced, and applies only four kinds of mutation:
// replace, update in place, append and remove. There is no move detection;
// children are matched by position.
//
// # Sessions
//
// All state that survives between passes lives in a Session: the live root,
// the previous and next snapshots, the back-reference table linking
// description nodes to live nodes, and per-pass index counters that are reset
// at the start of every pass.
//
//	doc := dom.NewDocument("body")
//	s := reconcile.NewSession(doc.Root())
//	r := reconcile.New(dom.NewFactory(doc))
//
//	r.ReconcileRoot(ctx, s, vdom.Div(vdom.Text("hello")))
//	r.ReconcileRoot(ctx, s, vdom.Div(vdom.Text("world")))
//
// # Decision Table
//
// For every (next, prev) pair the first matching row wins:
//
//  1. next absent: remove the live node.
//  2. prev absent: build, append and record the new node.
//  3. both text: replace when the text differs, otherwise keep the node.
//  4. element against text: replace.
//  5. elements with a different tag, key or props: replace.
//  6. otherwise: sync attributes, reconcile children, keep the node.
//
// WithPropSync narrows row 5 to tag and key so that a props change is applied
// in place by row 6.
//
// # Failure Handling
//
// Passes never fail. A missing live node or a node the builder cannot create
// skips that branch. WithDevWarnings logs each skipped branch through slog.
//
// # Concurrency
//
// Passes on one Session are serialized. A pass started from inside another
// pass on the same Session (detected through the context) is dropped with a
// warning instead of deadlocking.
package reconcile
