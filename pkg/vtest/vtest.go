package vtest

import (
	"context"
	"strings"
	"testing"

	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/reconcile"
	"github.com/vango-dev/reconcile/pkg/render"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Harness reconciles trees into an in-memory document and records the
// mutations of the latest pass.
type Harness struct {
	t testing.TB

	Doc        *dom.MemoryDocument
	Session    *reconcile.Session
	Reconciler *reconcile.Reconciler

	last    reconcile.PassStats
	journal []dom.MutationRecord
}

// New creates a harness whose reconciler uses opts. The document observer
// is removed when the test ends.
func New(t testing.TB, opts ...reconcile.Option) *Harness {
	t.Helper()
	doc := dom.NewDocument("")
	h := &Harness{
		t:          t,
		Doc:        doc,
		Session:    reconcile.NewSession(doc.Root()),
		Reconciler: reconcile.New(dom.NewFactory(doc), opts...),
	}
	cancel := doc.Observe(func(rec dom.MutationRecord) {
		h.journal = append(h.journal, rec)
	})
	t.Cleanup(cancel)
	return h
}

// Apply runs one pass to next and returns its statistics.
func (h *Harness) Apply(next *vdom.VNode) reconcile.PassStats {
	h.t.Helper()
	h.journal = nil
	h.last = h.Reconciler.ReconcileRoot(context.Background(), h.Session, next)
	return h.last
}

// Stats returns the statistics of the latest pass.
func (h *Harness) Stats() reconcile.PassStats { return h.last }

// Mutations returns the mutations of the latest pass.
func (h *Harness) Mutations() []dom.MutationRecord { return h.journal }

// Ops returns the operation names of the latest pass's mutations.
func (h *Harness) Ops() []string {
	ops := make([]string, len(h.journal))
	for i, rec := range h.journal {
		ops[i] = rec.Op.String()
	}
	return ops
}

// HTML returns the markup under the document root.
func (h *Harness) HTML() string {
	return render.InnerHTML(h.Doc.Root())
}

// Live returns the live node the committed tree holds for node.
func (h *Harness) Live(node *vdom.VNode) dom.Node {
	live, _ := h.Session.Live(node)
	return live
}

// ExpectHTML asserts that the document markup equals want.
func (h *Harness) ExpectHTML(want string) {
	h.t.Helper()
	if got := h.HTML(); got != want {
		h.t.Errorf("html = %s\nwant   %s", truncate(got, 500), truncate(want, 500))
	}
}

// ExpectOps asserts the exact sequence of mutation operations made by the
// latest pass.
func (h *Harness) ExpectOps(want ...string) {
	h.t.Helper()
	got := h.Ops()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		h.t.Errorf("ops = %v, want %v", got, want)
	}
}

// ExpectNoMutations asserts that the latest pass left the document alone.
func (h *Harness) ExpectNoMutations() {
	h.t.Helper()
	if len(h.journal) > 0 {
		h.t.Errorf("expected no mutations, got %v", h.Ops())
	}
}

// ExpectCount asserts how often the latest pass took action a.
func (h *Harness) ExpectCount(a reconcile.Action, want int) {
	h.t.Helper()
	if got := h.last.Count(a); got != want {
		h.t.Errorf("%s = %d, want %d", a, got, want)
	}
}

// ExpectContains asserts that the document markup contains expected.
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	if html := h.HTML(); !strings.Contains(html, expected) {
		h.t.Errorf("expected document to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the document markup does not contain
// unexpected.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	if html := h.HTML(); strings.Contains(html, unexpected) {
		h.t.Errorf("expected document to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectAttribute asserts that the first element with tag has attr set to
// value.
func (h *Harness) ExpectAttribute(tag, attr, value string) {
	h.t.Helper()
	el := find(h.Doc.Root(), tag)
	if el == nil {
		h.t.Errorf("no <%s> element in:\n%s", tag, truncate(h.HTML(), 500))
		return
	}
	got, ok := el.GetAttribute(attr)
	if !ok || got != value {
		h.t.Errorf("<%s> %s = %q (set: %v), want %q", tag, attr, got, ok, value)
	}
}

// find returns the first element under n, in document order, with tag.
func find(n dom.Node, tag string) dom.Element {
	for _, child := range n.ChildNodes() {
		if el, ok := dom.AsElement(child); ok {
			if el.NodeName() == tag {
				return el
			}
			if found := find(el, tag); found != nil {
				return found
			}
		}
	}
	return nil
}

// RenderToString builds node into a scratch document and returns its HTML.
func RenderToString(node *vdom.VNode) string {
	live := dom.NewFactory(dom.NewDocument("")).Build(node, nil)
	return render.HTML(live)
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
