package reconcile

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

func TestRendererKeysAreStablePerPass(t *testing.T) {
	f := newFixture()
	items := []string{"a", "b", "c"}
	var keys [][]string

	rr := NewRenderer(f.r, f.s, func(p *Pass) *vdom.VNode {
		var pass []string
		list := vdom.Ul(vdom.Range(items, func(item string, _ int) *vdom.VNode {
			k := p.Key("item")
			pass = append(pass, k)
			return vdom.Li(vdom.Key(k), item)
		}))
		keys = append(keys, pass)
		return list
	})

	rr.Update(context.Background())

	var recs []dom.MutationRecord
	cancel := f.doc.Observe(func(r dom.MutationRecord) { recs = append(recs, r) })
	stats := rr.Update(context.Background())
	cancel()

	if len(recs) != 0 {
		t.Errorf("second update produced %d mutations", len(recs))
	}
	if stats.Pass != 2 {
		t.Errorf("pass = %d, want 2", stats.Pass)
	}
	for i, k := range keys[1] {
		if want := fmt.Sprintf("item-%d", i); k != want || keys[0][i] != want {
			t.Errorf("key %d = %q / %q, want %q", i, keys[0][i], k, want)
		}
	}
}

func TestRendererDropsReentrantPass(t *testing.T) {
	var observed []PassStats
	f := newFixture(WithObserver(ObserverFunc(func(s PassStats) { observed = append(observed, s) })))

	var rr *Renderer
	var inner PassStats
	depth := 0
	rr = NewRenderer(f.r, f.s, func(p *Pass) *vdom.VNode {
		depth++
		if depth == 1 {
			inner = rr.Update(p.Context())
		}
		return vdom.Div("ok")
	})

	outer := rr.Update(context.Background())

	if !inner.Dropped {
		t.Error("nested update should be dropped")
	}
	if outer.Dropped || outer.Count(ActionAppend) != 1 {
		t.Errorf("outer = %+v", outer)
	}
	if depth != 1 {
		t.Errorf("render ran %d times, want 1", depth)
	}
	if len(observed) != 2 || !observed[0].Dropped {
		t.Errorf("observed = %+v", observed)
	}
}

func TestPassFromContext(t *testing.T) {
	if _, ok := PassFromContext(context.Background()); ok {
		t.Error("background context has no pass")
	}

	f := newFixture()
	var got *Pass
	rr := NewRenderer(f.r, f.s, func(p *Pass) *vdom.VNode {
		got, _ = PassFromContext(p.Context())
		return nil
	})
	rr.Update(context.Background())

	if got == nil || got.Session() != f.s || got.Number() != 1 {
		t.Errorf("pass = %+v", got)
	}
}

func TestOtherSessionIsNotReentrant(t *testing.T) {
	f := newFixture()
	other := NewSession(f.doc.CreateElement("div"))

	var inner PassStats
	rr := NewRenderer(f.r, f.s, func(p *Pass) *vdom.VNode {
		inner = f.r.ReconcileRoot(p.Context(), other, vdom.Span())
		return vdom.Div()
	})
	rr.Update(context.Background())

	if inner.Dropped || other.Passes() != 1 {
		t.Errorf("pass on another session should run: %+v", inner)
	}
}

func TestConcurrentPassesAreSerialized(t *testing.T) {
	f := newFixture()
	const n = 32

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.r.ReconcileRoot(context.Background(), f.s,
				vdom.Div(vdom.Class(fmt.Sprintf("c%d", i%3)), vdom.P(vdom.Textf("%d", i))))
		}(i)
	}
	wg.Wait()

	if f.s.Passes() != n {
		t.Errorf("passes = %d, want %d", f.s.Passes(), n)
	}
	root := f.doc.Root()
	if root.ChildCount() != 1 {
		t.Fatalf("root has %d children, want 1", root.ChildCount())
	}
	if f.live(t, f.s.Prev) != root.ChildAt(0) {
		t.Error("committed tree should own the live root child")
	}
}

func TestNilRenderFunc(t *testing.T) {
	f := newFixture()
	if stats := NewRenderer(f.r, f.s, nil).Update(context.Background()); stats.Pass != 0 {
		t.Errorf("stats = %+v", stats)
	}
}
