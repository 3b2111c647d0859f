package reconcile

import (
	"context"
	"time"

	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/vdom"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Reconciler applies tree descriptions to live documents. It holds no
// per-root state and may be shared by any number of sessions.
type Reconciler struct {
	build Builder
	cfg   Config
}

// New creates a Reconciler that builds new live nodes with build.
func New(build Builder, opts ...Option) *Reconciler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.resolve()
	return &Reconciler{build: build, cfg: cfg}
}

// Config returns the resolved configuration.
func (r *Reconciler) Config() Config {
	return r.cfg
}

// ReconcileRoot makes s.Root show next.
//
// The session's index counters are reset before anything else happens.
// Then next is reconciled against s.Prev under s.Root, committed as the new
// s.Prev, and back-references no longer reachable from it are dropped.
func (r *Reconciler) ReconcileRoot(ctx context.Context, s *Session, next *vdom.VNode) PassStats {
	return r.runPass(ctx, s, func(*Pass) *vdom.VNode { return next })
}

// Reconcile applies one (next, prev) pair under parent as a pass of its own
// on s. Unlike ReconcileRoot it neither commits a snapshot nor prunes
// back-references; it is meant for subtrees the caller tracks itself. It
// does take the next pass number.
func (r *Reconciler) Reconcile(ctx context.Context, s *Session, parent dom.Node, next, prev *vdom.VNode) PassStats {
	return r.run(ctx, s, func(p *Pass, w *walker) {
		w.reconcile(parent, next, prev)
		s.passes.Add(1)
	})
}

// runPass renders the next tree inside the pass and commits it.
func (r *Reconciler) runPass(ctx context.Context, s *Session, render RenderFunc) PassStats {
	return r.run(ctx, s, func(p *Pass, w *walker) {
		next := render(p)
		s.Next = next

		if s.Root == nil {
			w.miss("no root", next)
			return
		}

		w.reconcile(s.Root, next, s.Prev)
		s.Prev = next
		if pruned := s.Refs.Prune(next); pruned > 0 {
			r.cfg.Logger.Debug("reconcile: pruned back-references",
				"session", s.ID, "pass", p.number, "count", pruned)
		}
		s.passes.Add(1)
	})
}

// run serializes fn with every other pass on s and wraps it in a span.
func (r *Reconciler) run(ctx context.Context, s *Session, fn func(p *Pass, w *walker)) PassStats {
	if s == nil {
		return PassStats{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if active, ok := PassFromContext(ctx); ok && active.session == s {
		stats := PassStats{Session: s.ID, Pass: active.number, Dropped: true}
		r.cfg.Logger.Warn("reconcile: re-entrant pass dropped",
			"session", s.ID, "pass", active.number)
		r.notify(stats)
		return stats
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	number := s.passes.Load() + 1
	ctx, span := r.cfg.Tracer.Start(ctx, "reconcile.pass",
		trace.WithAttributes(
			attribute.String("reconcile.session", s.ID),
			attribute.Int64("reconcile.pass", int64(number)),
		),
	)
	defer span.End()

	start := time.Now()
	s.Indexes.Reset()

	stats := PassStats{Session: s.ID, Pass: number}
	p := &Pass{session: s, number: number}
	p.ctx = context.WithValue(ctx, passKey{}, p)
	w := &walker{r: r, s: s, stats: &stats}

	fn(p, w)

	stats.Duration = time.Since(start)
	attrs := make([]attribute.KeyValue, 0, len(Actions))
	for _, a := range Actions {
		attrs = append(attrs, attribute.Int("reconcile."+a.String(), stats.Count(a)))
	}
	span.SetAttributes(attrs...)

	r.notify(stats)
	return stats
}

func (r *Reconciler) notify(stats PassStats) {
	for _, o := range r.cfg.Observers {
		o.ObservePass(stats)
	}
}

// walker carries the state of one pass through the recursion.
type walker struct {
	r     *Reconciler
	s     *Session
	stats *PassStats
}

// reconcile applies the decision table to one (next, prev) pair.
func (w *walker) reconcile(parent dom.Node, next, prev *vdom.VNode) {
	current := w.resolve(parent, prev)

	// Removed.
	if next == nil {
		if prev == nil {
			return
		}
		if current == nil || parent == nil {
			w.miss("remove: no live node", prev)
			return
		}
		parent.RemoveChild(current)
		w.stats.add(ActionRemove)
		return
	}

	if !known(next) || (prev != nil && !known(prev)) {
		w.miss("unknown node kind", next)
		return
	}

	// Added.
	if prev == nil {
		if parent == nil {
			w.miss("append: no parent", next)
			return
		}
		live, commit := w.buildNode(next)
		if live == nil {
			w.miss("append: nothing built", next)
			return
		}
		parent.AppendChild(live)
		commit(live)
		w.stats.add(ActionAppend)
		return
	}

	// Text against text.
	if isText(prev) && isText(next) {
		if prev.Text != next.Text {
			w.replace(current, next)
			return
		}
		w.s.Refs.Set(next, current)
		w.stats.add(ActionKeep)
		return
	}

	// Element against text.
	if prev.IsElement() != next.IsElement() {
		w.replace(current, next)
		return
	}

	// Element identity.
	if prev.Tag != next.Tag ||
		vdom.KeyOf(prev) != vdom.KeyOf(next) ||
		(!w.r.cfg.PropSync && !vdom.DeepEqual(prev.Props, next.Props)) {
		w.replace(current, next)
		return
	}

	// Same element: update in place.
	el, ok := dom.AsElement(current)
	if !ok {
		w.miss("update: no live element", next)
		return
	}
	w.r.cfg.Sync(next.Props, el)
	w.reconcileChildren(el, next, prev)
	w.s.Refs.Set(next, el)
	w.stats.add(ActionUpdate)
}

// resolve finds the live node prev currently represents.
func (w *walker) resolve(parent dom.Node, prev *vdom.VNode) dom.Node {
	if prev == nil {
		return nil
	}
	if live, ok := w.s.Refs.Get(prev); ok {
		if w.r.cfg.DevWarnings && parent != nil && live.ParentNode() != parent {
			w.r.cfg.Logger.Warn("reconcile: back-reference points outside its parent",
				"session", w.s.ID, "node", prev.String())
		}
		return live
	}
	if prev.IsTextValue() {
		return findText(parent, prev.Text)
	}
	return nil
}

// replace swaps current for a node built from next.
func (w *walker) replace(current dom.Node, next *vdom.VNode) {
	if current == nil {
		w.miss("replace: no live node", next)
		return
	}
	live, commit := w.buildNode(next)
	if live == nil {
		w.miss("replace: nothing built", next)
		return
	}
	if !dom.ReplaceWith(current, live) {
		w.miss("replace: live node is detached", next)
		return
	}
	commit(live)
	w.stats.add(ActionReplace)
}

// buildNode builds next and returns a commit function that records the
// back-references for the built subtree once the node is attached.
func (w *walker) buildNode(next *vdom.VNode) (dom.Node, func(dom.Node)) {
	type stamp struct {
		desc *vdom.VNode
		live dom.Node
	}
	var stamps []stamp

	var live dom.Node
	if w.r.build != nil {
		live = w.r.build.Build(next, func(desc *vdom.VNode, n dom.Node) {
			stamps = append(stamps, stamp{desc, n})
		})
	}

	return live, func(attached dom.Node) {
		for _, st := range stamps {
			w.s.Refs.Set(st.desc, st.live)
		}
		w.s.Refs.Set(next, attached)
	}
}

func (w *walker) miss(msg string, node *vdom.VNode) {
	w.stats.add(ActionMiss)
	if w.r.cfg.DevWarnings {
		w.r.cfg.Logger.Warn("reconcile: "+msg, "session", w.s.ID, "node", node.String())
	}
}

func known(n *vdom.VNode) bool {
	switch n.Kind {
	case vdom.KindElement, vdom.KindText, vdom.KindTextValue:
		return true
	}
	return false
}

// isText reports whether n renders as a text node.
func isText(n *vdom.VNode) bool {
	return n.IsText() || n.IsTextValue()
}
