package vtest_test

import (
	"fmt"
	"testing"

	"github.com/vango-dev/reconcile/pkg/reconcile"
	"github.com/vango-dev/reconcile/pkg/vdom"
	"github.com/vango-dev/reconcile/pkg/vtest"
)

// recorder captures failures instead of failing the test.
type recorder struct {
	testing.TB
	errors []string
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func TestHarnessApply(t *testing.T) {
	h := vtest.New(t)

	stats := h.Apply(vdom.Ul(vdom.Li("a"), vdom.Li("b"), vdom.Li("c")))
	if stats.Pass != 1 {
		t.Errorf("pass = %d", stats.Pass)
	}
	h.ExpectOps("append")
	h.ExpectHTML("<ul><li>a</li><li>b</li><li>c</li></ul>")

	h.Apply(vdom.Ul(vdom.Li("a"), vdom.Li("x")))
	h.ExpectOps("replace", "remove")
	h.ExpectHTML("<ul><li>a</li><li>x</li></ul>")
	h.ExpectCount(reconcile.ActionRemove, 1)
	h.ExpectContains("<li>x</li>")
	h.ExpectNotContains("<li>c</li>")
}

func TestHarnessIdempotent(t *testing.T) {
	h := vtest.New(t)
	tree := func() *vdom.VNode { return vdom.Div(vdom.Class("card"), vdom.P("hello")) }

	h.Apply(tree())
	h.Apply(tree())
	h.ExpectNoMutations()
	h.ExpectCount(reconcile.ActionUpdate, 2)
}

func TestHarnessPropSync(t *testing.T) {
	h := vtest.New(t, reconcile.WithPropSync(true))
	first := vdom.Span(vdom.Class("a"))

	h.Apply(first)
	live := h.Live(first)
	h.Apply(vdom.Span(vdom.Class("b")))

	h.ExpectOps("set-attr")
	h.ExpectAttribute("span", "class", "b")
	if h.Doc.Root().ChildAt(0) != live {
		t.Error("span should be updated in place")
	}
	if len(h.Mutations()) != 1 || h.Mutations()[0].Key != "class" {
		t.Errorf("mutations = %+v", h.Mutations())
	}
}

func TestExpectationsReportFailures(t *testing.T) {
	rec := &recorder{TB: t}
	h := vtest.New(rec)
	h.Apply(vdom.Div(vdom.Link(vdom.Href("/a"), "home")))

	h.ExpectHTML("<div></div>")
	h.ExpectOps("remove")
	h.ExpectNoMutations()
	h.ExpectCount(reconcile.ActionAppend, 2)
	h.ExpectContains("missing")
	h.ExpectNotContains("home")
	h.ExpectAttribute("a", "href", "/b")
	h.ExpectAttribute("img", "src", "x")

	if len(rec.errors) != 8 {
		t.Errorf("recorded %d failures, want 8: %q", len(rec.errors), rec.errors)
	}
}

func TestRenderToString(t *testing.T) {
	node := vdom.Div(
		vdom.Class("container"),
		vdom.H1("Hello World"),
		vdom.P("Welcome to the test"),
	)

	want := `<div class="container"><h1>Hello World</h1><p>Welcome to the test</p></div>`
	if got := vtest.RenderToString(node); got != want {
		t.Errorf("RenderToString() = %q, want %q", got, want)
	}
	if got := vtest.RenderToString(nil); got != "" {
		t.Errorf("RenderToString(nil) = %q", got)
	}
}
