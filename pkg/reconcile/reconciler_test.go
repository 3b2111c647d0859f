package reconcile

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

type fixture struct {
	doc *dom.MemoryDocument
	s   *Session
	r   *Reconciler
}

func newFixture(opts ...Option) *fixture {
	doc := dom.NewDocument("body")
	return &fixture{
		doc: doc,
		s:   NewSession(doc.Root()),
		r:   New(dom.NewFactory(doc), opts...),
	}
}

// render reconciles tree and returns the mutations it caused.
func (f *fixture) render(t *testing.T, tree *vdom.VNode) []dom.MutationRecord {
	t.Helper()
	var recs []dom.MutationRecord
	cancel := f.doc.Observe(func(r dom.MutationRecord) { recs = append(recs, r) })
	defer cancel()
	f.r.ReconcileRoot(context.Background(), f.s, tree)
	return recs
}

func (f *fixture) live(t *testing.T, node *vdom.VNode) dom.Node {
	t.Helper()
	n, ok := f.s.Live(node)
	if !ok {
		t.Fatalf("no back-reference for %s", node)
	}
	return n
}

func ops(recs []dom.MutationRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Op.String()
	}
	return out
}

func wantOps(t *testing.T, recs []dom.MutationRecord, want ...string) {
	t.Helper()
	got := ops(recs)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("mutations = %v, want %v", got, want)
	}
}

func page() *vdom.VNode {
	return vdom.Div(vdom.ID("app"), vdom.Class("page"),
		vdom.Style(map[string]string{"color": "red"}),
		vdom.H1(vdom.Text("Title")),
		vdom.P("count: ", 3),
		vdom.Ul(
			vdom.Li(vdom.Key("a"), "one"),
			vdom.Li(vdom.Key("b"), "two"),
		),
		vdom.Button(vdom.OnClick(func() {}), "go"),
	)
}

func TestIdempotenceSameTree(t *testing.T) {
	f := newFixture()
	tree := page()
	f.render(t, tree)

	recs := f.render(t, tree)
	wantOps(t, recs)
}

func TestIdempotenceEqualTrees(t *testing.T) {
	for _, mode := range []TextCompare{CompareLive, CompareDescriptions} {
		t.Run(mode.String(), func(t *testing.T) {
			f := newFixture(WithTextCompare(mode))
			f.render(t, page())
			recs := f.render(t, page())
			wantOps(t, recs)
		})
	}
}

func TestAddition(t *testing.T) {
	f := newFixture()
	tree := page()
	recs := f.render(t, tree)

	wantOps(t, recs, "append")
	if f.doc.Root().ChildCount() != 1 {
		t.Fatalf("root has %d children, want 1", f.doc.Root().ChildCount())
	}
	if f.live(t, tree) != f.doc.Root().ChildAt(0) {
		t.Error("back-reference should point at the appended node")
	}
	title := tree.Children[0].Children[0]
	if f.live(t, title).NodeValue() != "Title" {
		t.Error("descendants built by the factory should be stamped")
	}
	if f.s.Prev != tree || f.s.Next != tree {
		t.Error("tree should be committed as the previous snapshot")
	}
}

func TestRemovalAtRoot(t *testing.T) {
	f := newFixture()
	tree := page()
	f.render(t, tree)
	div := f.live(t, tree)

	recs := f.render(t, nil)
	wantOps(t, recs, "remove")
	if recs[0].Node != div {
		t.Error("removed node should be the one built for the tree")
	}
	if f.doc.Root().ChildCount() != 0 {
		t.Error("root should be empty")
	}
	if f.s.Refs.Len() != 0 {
		t.Errorf("refs after removal = %d, want 0", f.s.Refs.Len())
	}
}

func TestRemovalTouchesNothingElse(t *testing.T) {
	f := newFixture()
	a, b, c := vdom.Li("a"), vdom.Li("b"), vdom.Li("c")
	list := vdom.Ul(a, b, c)
	f.render(t, list)
	ul := f.live(t, list)
	liveA, liveC := f.live(t, a), f.live(t, c)

	var recs []dom.MutationRecord
	cancel := f.doc.Observe(func(r dom.MutationRecord) { recs = append(recs, r) })
	f.r.Reconcile(context.Background(), f.s, ul, nil, b)
	cancel()

	wantOps(t, recs, "remove")
	if ul.ChildCount() != 2 || ul.ChildAt(0) != liveA || ul.ChildAt(1) != liveC {
		t.Errorf("siblings changed: %v", ul.ChildNodes())
	}
}

func TestTextEqualityShortCircuit(t *testing.T) {
	f := newFixture()
	prevText := vdom.Text("same")
	f.render(t, vdom.P(prevText))
	before := f.live(t, prevText)

	nextText := vdom.Text("same")
	recs := f.render(t, vdom.P(nextText))

	wantOps(t, recs)
	if f.live(t, nextText) != before {
		t.Error("back-reference should carry over unchanged")
	}
}

func TestTextChangeReplaces(t *testing.T) {
	f := newFixture()
	f.render(t, vdom.P(vdom.Text("old")))
	p := f.doc.Root().ChildAt(0)

	next := vdom.Text("new")
	recs := f.render(t, vdom.P(next))

	wantOps(t, recs, "replace")
	if got := f.live(t, next); got.NodeValue() != "new" || got.ParentNode() != p {
		t.Errorf("replacement = %q under %v", got.NodeValue(), got.ParentNode())
	}
}

func TestKeySensitivity(t *testing.T) {
	for _, propSync := range []bool{false, true} {
		name := "table"
		if propSync {
			name = "prop-sync"
		}
		t.Run(name, func(t *testing.T) {
			f := newFixture(WithPropSync(propSync))
			f.render(t, vdom.Ul(vdom.Li(vdom.Key(1), vdom.Class("row"), "x")))
			oldLi := f.doc.Root().ChildAt(0).ChildAt(0)

			li := vdom.Li(vdom.Key(2), vdom.Class("row"), "x")
			recs := f.render(t, vdom.Ul(li))

			wantOps(t, recs, "replace")
			if f.live(t, li) == oldLi {
				t.Error("a key change must build a new node")
			}
		})
	}
}

func TestKeyFieldAndPropAgree(t *testing.T) {
	f := newFixture()
	f.render(t, vdom.Div(&vdom.VNode{Kind: vdom.KindElement, Tag: "i", Props: vdom.Props{"key": "k"}}))
	recs := f.render(t, vdom.Div(&vdom.VNode{Kind: vdom.KindElement, Tag: "i", Props: vdom.Props{"key": "k"}, Key: "k"}))
	wantOps(t, recs)
}

func TestTagChangeReplaces(t *testing.T) {
	f := newFixture()
	f.render(t, vdom.Div(vdom.Span("x")))
	recs := f.render(t, vdom.Div(vdom.Link("x")))
	wantOps(t, recs, "replace")
}

func TestVariantChangeReplaces(t *testing.T) {
	f := newFixture()
	f.render(t, vdom.Div(vdom.Text("x")))
	em := vdom.El("em", "x")
	recs := f.render(t, vdom.Div(em))

	wantOps(t, recs, "replace")
	if f.live(t, em).NodeName() != "em" {
		t.Error("element should replace the text node")
	}

	recs = f.render(t, vdom.Div(vdom.Text("x")))
	wantOps(t, recs, "replace")
}

func TestDeepEqualPropsKeepElement(t *testing.T) {
	f := newFixture()
	mk := func() *vdom.VNode {
		return vdom.Div(vdom.Attribute("data-cfg", map[string]any{"a": 1, "b": []any{"x", 2.0}}))
	}
	f.render(t, mk())
	recs := f.render(t, mk())
	wantOps(t, recs)
}

func TestPositionalChildDiff(t *testing.T) {
	f := newFixture()
	f.render(t, vdom.Ul(vdom.Li("A"), vdom.Li("B"), vdom.Li("C")))
	ul := f.doc.Root().ChildAt(0)
	liveA := ul.ChildAt(0)

	x := vdom.Span("X")
	recs := f.render(t, vdom.Ul(vdom.Li("A"), x))

	wantOps(t, recs, "replace", "remove")
	if ul.ChildCount() != 2 {
		t.Fatalf("ul has %d children, want 2", ul.ChildCount())
	}
	if ul.ChildAt(0) != liveA {
		t.Error("position 0 should be untouched")
	}
	if ul.ChildAt(1) != f.live(t, x) || ul.ChildAt(1).NodeName() != "span" {
		t.Error("position 1 should hold the new span")
	}
}

func TestScenarioBareTextChild(t *testing.T) {
	f := newFixture()
	f.render(t, vdom.Div("hello"))
	div := f.doc.Root().ChildAt(0)

	next := vdom.Div("world")
	recs := f.render(t, next)

	wantOps(t, recs, "replace")
	if recs[0].Target != div {
		t.Error("the text child should be replaced under the same div")
	}
	if f.live(t, next) != div {
		t.Error("div back-reference should be preserved")
	}
	if got := div.ChildAt(0).NodeValue(); got != "world" {
		t.Errorf("text = %q, want world", got)
	}
}

func TestScenarioClassChange(t *testing.T) {
	t.Run("prop-sync", func(t *testing.T) {
		f := newFixture(WithPropSync(true))
		prev := vdom.Span(vdom.Class("a"))
		f.render(t, prev)
		span := f.live(t, prev)

		next := vdom.Span(vdom.Class("b"))
		recs := f.render(t, next)

		wantOps(t, recs, "set-attr")
		if f.live(t, next) != span {
			t.Error("back-reference should be preserved")
		}
		if v, _ := span.(dom.Element).GetAttribute("class"); v != "b" {
			t.Errorf("class = %q, want b", v)
		}
	})

	t.Run("table", func(t *testing.T) {
		f := newFixture()
		f.render(t, vdom.Span(vdom.Class("a")))
		recs := f.render(t, vdom.Span(vdom.Class("b")))
		wantOps(t, recs, "replace")
	})
}

func TestListenerUpdatedInPlace(t *testing.T) {
	f := newFixture()
	f.render(t, vdom.Button(vdom.OnClick(func() {}), "go"))
	btn := f.doc.Root().ChildAt(0).(dom.Element)

	called := false
	recs := f.render(t, vdom.Button(vdom.OnClick(func() { called = true }), "go"))

	wantOps(t, recs, "set-listener")
	h, ok := btn.Listener("click")
	if !ok {
		t.Fatal("listener missing")
	}
	h.(func())()
	if !called {
		t.Error("the new handler should be installed")
	}
}

func TestIdenticalChildSkipped(t *testing.T) {
	f := newFixture()
	shared := vdom.P(vdom.Text("stable"))
	f.render(t, vdom.Div(shared, vdom.Text("a")))

	stats := f.r.ReconcileRoot(context.Background(), f.s, vdom.Div(shared, vdom.Text("b")))
	if stats.Count(ActionSkip) != 1 {
		t.Errorf("skips = %d, want 1", stats.Count(ActionSkip))
	}
	if _, ok := f.s.Live(shared); !ok {
		t.Error("skipped child keeps its back-reference")
	}
	if _, ok := f.s.Live(shared.Children[0]); !ok {
		t.Error("skipped subtree keeps its back-references")
	}
}

func TestAppendedChildren(t *testing.T) {
	f := newFixture()
	f.render(t, vdom.Ul(vdom.Li("1")))
	three := vdom.Li("3")
	recs := f.render(t, vdom.Ul(vdom.Li("1"), "two", three))

	wantOps(t, recs, "append", "append")
	ul := f.doc.Root().ChildAt(0)
	if ul.ChildAt(1).NodeValue() != "two" || ul.ChildAt(2) != f.live(t, three) {
		t.Errorf("children = %v", ul.ChildNodes())
	}
}

func TestTrailingTextValueRemoved(t *testing.T) {
	f := newFixture()
	f.render(t, vdom.P("a", "b"))
	recs := f.render(t, vdom.P("a"))

	wantOps(t, recs, "remove")
	p := f.doc.Root().ChildAt(0)
	if p.ChildCount() != 1 || p.ChildAt(0).NodeValue() != "a" {
		t.Errorf("children = %v", p.ChildNodes())
	}
}

func TestTextValueLookupIsTrimmed(t *testing.T) {
	f := newFixture()
	parent := f.doc.CreateElement("p")
	f.doc.Root().AppendChild(parent)
	parent.AppendChild(f.doc.CreateElement("b"))
	padded := f.doc.CreateTextNode("  hi \n")
	parent.AppendChild(padded)

	f.r.Reconcile(context.Background(), f.s, parent, nil, vdom.TextValue("hi"))
	if parent.ChildCount() != 1 || padded.ParentNode() != nil {
		t.Error("trimmed text match should be removed")
	}
}

func TestCompareDescriptionsKeepsLiveText(t *testing.T) {
	tests := []struct {
		mode TextCompare
		want string
	}{
		{CompareLive, "a"},
		{CompareDescriptions, "edited"},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			f := newFixture(WithTextCompare(tt.mode))
			f.render(t, vdom.P("a"))
			p := f.doc.Root().ChildAt(0)
			p.ReplaceChild(f.doc.CreateTextNode("edited"), p.ChildAt(0))

			f.render(t, vdom.P("a"))
			if got := p.ChildAt(0).NodeValue(); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

type nilBuilder struct{}

func (nilBuilder) Build(*vdom.VNode, dom.StampFunc) dom.Node { return nil }

func TestSilentDegradation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	doc := dom.NewDocument("")
	s := NewSession(doc.Root())
	r := New(nilBuilder{}, WithDevWarnings(true), WithLogger(logger))

	stats := r.ReconcileRoot(context.Background(), s, vdom.Div("x"))
	if doc.Root().ChildCount() != 0 {
		t.Error("nothing should be appended")
	}
	if stats.Count(ActionMiss) != 1 {
		t.Errorf("misses = %d, want 1", stats.Count(ActionMiss))
	}
	if !strings.Contains(buf.String(), "append: nothing built") {
		t.Errorf("missing dev warning, log: %s", buf.String())
	}

	// Without dev warnings the same pass is silent.
	buf.Reset()
	quiet := New(nilBuilder{}, WithLogger(logger))
	quiet.ReconcileRoot(context.Background(), NewSession(doc.Root()), vdom.Div("x"))
	if buf.Len() != 0 {
		t.Errorf("unexpected log output: %s", buf.String())
	}
}

func TestMissingLiveNodeIsSkipped(t *testing.T) {
	f := newFixture()
	prev := vdom.Div(vdom.Text("x"))
	f.s.Prev = prev // never rendered, no back-references

	stats := f.r.ReconcileRoot(context.Background(), f.s, vdom.Div(vdom.Text("y")))
	if stats.Mutations() != 0 || stats.Count(ActionMiss) == 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestUnknownKindFallsThrough(t *testing.T) {
	f := newFixture()
	f.render(t, vdom.Div())
	recs := f.render(t, vdom.Div(&vdom.VNode{Kind: 77}))
	wantOps(t, recs)
}

func TestNilSessionAndRoot(t *testing.T) {
	r := New(dom.NewFactory(dom.NewDocument("")))
	if stats := r.ReconcileRoot(context.Background(), nil, vdom.Div()); stats.Pass != 0 {
		t.Error("nil session should be ignored")
	}

	s := NewSession(nil)
	r.ReconcileRoot(context.Background(), s, vdom.Div())
	if s.Prev != nil || s.Passes() != 0 {
		t.Error("a session without a root should not commit")
	}
}

func TestSubtreePassesAdvanceNumbering(t *testing.T) {
	var got []uint64
	f := newFixture(WithObserver(ObserverFunc(func(s PassStats) { got = append(got, s.Pass) })))
	b := vdom.Li("b")
	list := vdom.Ul(vdom.Li("a"), b)
	f.render(t, list)

	f.r.Reconcile(context.Background(), f.s, f.live(t, list), nil, b)
	f.render(t, vdom.Ul(vdom.Li("a")))

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("pass numbers = %v, want [1 2 3]", got)
	}
	if f.s.Passes() != 3 {
		t.Errorf("Passes = %d, want 3", f.s.Passes())
	}
}

func TestObserverReceivesStats(t *testing.T) {
	var got []PassStats
	f := newFixture(WithObserver(ObserverFunc(func(s PassStats) { got = append(got, s) })))
	f.render(t, vdom.Ul(vdom.Li("a"), vdom.Li("b")))
	f.render(t, vdom.Ul(vdom.Li("a")))

	if len(got) != 2 {
		t.Fatalf("observed %d passes, want 2", len(got))
	}
	if got[0].Count(ActionAppend) != 1 || got[0].Pass != 1 {
		t.Errorf("first pass = %+v", got[0])
	}
	if got[1].Count(ActionRemove) != 1 || got[1].Count(ActionUpdate) != 2 || got[1].Pass != 2 {
		t.Errorf("second pass = %+v", got[1])
	}
	if got[1].Session != f.s.ID {
		t.Errorf("session = %q, want %q", got[1].Session, f.s.ID)
	}
}

func TestPassesPruneRefs(t *testing.T) {
	f := newFixture()
	f.render(t, vdom.Ul(vdom.Li("a"), vdom.Li("b"), vdom.Li("c")))
	if f.s.Refs.Len() != 4 {
		t.Fatalf("refs = %d, want 4", f.s.Refs.Len())
	}
	f.render(t, vdom.Ul(vdom.Li("a")))
	if f.s.Refs.Len() != 2 {
		t.Errorf("refs = %d, want 2", f.s.Refs.Len())
	}
}

func TestSessionReset(t *testing.T) {
	f := newFixture()
	f.render(t, vdom.Div())
	f.s.Reset()
	if f.s.Prev != nil || f.s.Refs.Len() != 0 {
		t.Error("Reset should forget the committed tree")
	}
}
