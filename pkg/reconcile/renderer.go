package reconcile

import (
	"context"
	"strconv"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

// RenderFunc produces the tree for one pass.
type RenderFunc func(p *Pass) *vdom.VNode

// Pass is the context of one running pass.
type Pass struct {
	ctx     context.Context
	session *Session
	number  uint64
}

type passKey struct{}

// PassFromContext returns the pass running on ctx, if any.
func PassFromContext(ctx context.Context) (*Pass, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(passKey{}).(*Pass)
	return p, ok && p != nil
}

// Context returns the pass context. Starting another pass on the same
// session with it is detected and dropped.
func (p *Pass) Context() context.Context { return p.ctx }

// Session returns the session the pass runs on.
func (p *Pass) Session() *Session { return p.session }

// Number returns the 1-based pass number within the session.
func (p *Pass) Number() uint64 { return p.number }

// Index returns the next value of the per-pass counter for scope.
func (p *Pass) Index(scope string) int {
	return p.session.Indexes.Next(scope)
}

// Key returns a key of the form "scope-N" built from Index. Rendering the
// same tree twice yields the same keys.
func (p *Pass) Key(scope string) string {
	return scope + "-" + strconv.Itoa(p.Index(scope))
}

// Renderer re-renders a tree into a session on demand.
type Renderer struct {
	rec     *Reconciler
	session *Session
	render  RenderFunc
}

// NewRenderer creates a Renderer that calls render on every Update.
func NewRenderer(rec *Reconciler, session *Session, render RenderFunc) *Renderer {
	return &Renderer{rec: rec, session: session, render: render}
}

// Session returns the renderer's session.
func (r *Renderer) Session() *Session { return r.session }

// Update renders a fresh tree and reconciles the session root to it.
//
// render runs while the session is locked. Calling Update from inside
// render with the pass context is dropped; calling it with an unrelated
// context blocks forever.
func (r *Renderer) Update(ctx context.Context) PassStats {
	if r.render == nil {
		return PassStats{}
	}
	return r.rec.runPass(ctx, r.session, r.render)
}
