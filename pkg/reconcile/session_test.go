package reconcile

import (
	"testing"

	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

func TestRefs(t *testing.T) {
	doc := dom.NewDocument("")
	refs := NewRefs()

	el := vdom.Div()
	tv := vdom.TextValue("x")
	live := doc.CreateElement("div")

	refs.Set(el, live)
	refs.Set(tv, doc.CreateTextNode("x"))
	refs.Set(nil, live)
	refs.Set(vdom.Span(), nil)

	if refs.Len() != 1 {
		t.Fatalf("Len = %d, want 1", refs.Len())
	}
	if got, ok := refs.Get(el); !ok || got != live {
		t.Error("Get should return the recorded node")
	}
	if _, ok := refs.Get(tv); ok {
		t.Error("text values never get a back-reference")
	}

	refs.Delete(el)
	if refs.Len() != 0 {
		t.Error("Delete should drop the entry")
	}

	var nilRefs *Refs
	nilRefs.Set(el, live)
	if _, ok := nilRefs.Get(el); ok || nilRefs.Len() != 0 || nilRefs.Prune(el) != 0 {
		t.Error("nil table should be inert")
	}
}

func TestRefsPrune(t *testing.T) {
	doc := dom.NewDocument("")
	refs := NewRefs()

	kept := vdom.Li("a")
	tree := vdom.Ul(kept)
	dropped := vdom.Li("b")
	for _, n := range []*vdom.VNode{tree, kept, dropped} {
		refs.Set(n, doc.CreateElement(n.Tag))
	}

	if removed := refs.Prune(tree); removed != 1 {
		t.Errorf("Prune removed %d, want 1", removed)
	}
	if _, ok := refs.Get(dropped); ok {
		t.Error("unreachable node should be pruned")
	}
	if _, ok := refs.Get(kept); !ok {
		t.Error("reachable node should be kept")
	}
}

func TestIndexes(t *testing.T) {
	ix := NewIndexes()
	if ix.Next("a") != 0 || ix.Next("a") != 1 || ix.Next("b") != 0 {
		t.Error("counters should start at zero and advance per scope")
	}
	if ix.Peek("a") != 2 {
		t.Errorf("Peek(a) = %d, want 2", ix.Peek("a"))
	}
	ix.Reset()
	if ix.Next("a") != 0 {
		t.Error("Reset should zero every counter")
	}
}

func TestNewSessionIDsAreUnique(t *testing.T) {
	a, b := NewSession(nil), NewSession(nil)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("IDs = %q, %q", a.ID, b.ID)
	}
}

func TestParseTextCompare(t *testing.T) {
	tests := []struct {
		in   string
		want TextCompare
		ok   bool
	}{
		{"", CompareLive, true},
		{"live", CompareLive, true},
		{"descriptions", CompareDescriptions, true},
		{"fuzzy", CompareLive, false},
	}
	for _, tt := range tests {
		got, ok := ParseTextCompare(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseTextCompare(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestActionStrings(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range Actions {
		s := a.String()
		if s == "unknown" || seen[s] {
			t.Errorf("bad or duplicate action name %q", s)
		}
		seen[s] = true
	}
	var stats PassStats
	if stats.Count(Action(200)) != 0 {
		t.Error("out of range action should count zero")
	}
}
