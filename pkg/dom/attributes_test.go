package dom

import (
	"testing"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

func TestAttributeValue(t *testing.T) {
	tests := []struct {
		name    string
		attr    string
		value   any
		want    string
		present bool
	}{
		{"nil", "title", nil, "", false},
		{"true", "disabled", true, "", true},
		{"false", "disabled", false, "", false},
		{"string", "title", "hello", "hello", true},
		{"int", "tabindex", 3, "3", true},
		{"float", "data-x", 1.5, "1.5", true},
		{"style map", "style", map[string]string{"width": "1px", "color": "red"}, "color: red; width: 1px;", true},
		{"style any map", "style", map[string]any{"z-index": 2}, "z-index: 2;", true},
		{"style string", "style", "color: blue", "color: blue", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AttributeValue(tt.attr, tt.value)
			if got != tt.want || ok != tt.present {
				t.Errorf("AttributeValue(%q, %v) = %q, %v; want %q, %v",
					tt.attr, tt.value, got, ok, tt.want, tt.present)
			}
		})
	}
}

func TestApplyProps(t *testing.T) {
	doc := NewDocument("")
	el := doc.CreateElement("input")
	doc.Root().AppendChild(el)

	clicked := 0
	ApplyProps(vdom.Props{
		"key":       "k1",
		"className": "field",
		"htmlFor":   "name",
		"disabled":  true,
		"checked":   false,
		"onClick":   func() { clicked++ },
	}, el)

	if got := el.AttributeNames(); len(got) != 3 || got[0] != "class" || got[1] != "disabled" || got[2] != "for" {
		t.Errorf("AttributeNames = %v, want [class disabled for]", got)
	}
	h, ok := el.Listener("click")
	if !ok {
		t.Fatal("click listener not installed")
	}
	h.(func())()
	if clicked != 1 {
		t.Error("installed listener should be the prop value")
	}

	ApplyProps(vdom.Props{"class": "field wide"}, el)
	if got := el.AttributeNames(); len(got) != 1 || got[0] != "class" {
		t.Errorf("stale attributes not removed: %v", got)
	}
	if v, _ := el.GetAttribute("class"); v != "field wide" {
		t.Errorf("class = %q", v)
	}
	if len(el.ListenerNames()) != 0 {
		t.Errorf("stale listeners not removed: %v", el.ListenerNames())
	}
}

func TestApplyPropsUnchangedIsSilent(t *testing.T) {
	doc := NewDocument("")
	el := doc.CreateElement("div")
	doc.Root().AppendChild(el)
	props := vdom.Props{"id": "a", "style": map[string]string{"color": "red"}, "onclick": func() {}}
	ApplyProps(props, el)

	recs, cancel := record(doc)
	defer cancel()
	ApplyProps(props, el)

	if len(*recs) != 0 {
		t.Errorf("re-applying identical props produced %d mutations", len(*recs))
	}
}

func TestApplyPropsRecordsListenerChanges(t *testing.T) {
	doc := NewDocument("")
	btn := doc.CreateElement("button")
	doc.Root().AppendChild(btn)

	recs, cancel := record(doc)
	defer cancel()

	ApplyProps(vdom.Props{"onclick": func() {}}, btn)
	ApplyProps(vdom.Props{}, btn)

	if len(*recs) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(*recs), *recs)
	}
	if (*recs)[0].Op != MutSetListener || (*recs)[1].Op != MutRemoveListener {
		t.Errorf("ops = %v, %v", (*recs)[0].Op, (*recs)[1].Op)
	}
	if (*recs)[1].Key != "click" {
		t.Errorf("key = %q, want click", (*recs)[1].Key)
	}
}

func TestApplyPropsNilElement(t *testing.T) {
	// Must not panic.
	ApplyProps(vdom.Props{"id": "x"}, nil)
}
