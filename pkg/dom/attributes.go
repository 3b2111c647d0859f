package dom

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

// propAliases maps property-style names to attribute names.
var propAliases = map[string]string{
	"className": "class",
	"htmlFor":   "for",
}

// ApplyProps makes el's attributes and event listeners match props.
//
//   - "key" is never rendered.
//   - "on*" props become listeners keyed by the lower-cased event name.
//   - true renders as an empty boolean attribute; false and nil remove it.
//   - a map under "style" renders as "name: value;" pairs in key order.
//
// Attributes and listeners missing from props are removed. Attributes
// whose rendered value is unchanged are not touched.
func ApplyProps(props vdom.Props, el Element) {
	if el == nil {
		return
	}

	attrs := make(map[string]string, len(props))
	listeners := make(map[string]any)

	for key, value := range props {
		if key == "key" {
			continue
		}
		if vdom.IsEventProp(key) {
			if value != nil {
				listeners[strings.ToLower(key[2:])] = value
			}
			continue
		}

		name := key
		if alias, ok := propAliases[key]; ok {
			name = alias
		}
		if rendered, ok := AttributeValue(name, value); ok {
			attrs[name] = rendered
		}
	}

	for _, name := range el.AttributeNames() {
		if _, keep := attrs[name]; !keep {
			el.RemoveAttribute(name)
		}
	}
	for _, name := range sortedKeys(attrs) {
		if cur, ok := el.GetAttribute(name); !ok || cur != attrs[name] {
			el.SetAttribute(name, attrs[name])
		}
	}

	for _, event := range el.ListenerNames() {
		if _, keep := listeners[event]; !keep {
			el.RemoveListener(event)
		}
	}
	for _, event := range sortedKeys(listeners) {
		el.SetListener(event, listeners[event])
	}
}

// AttributeValue renders a prop value as attribute text. It reports false
// when the attribute should be absent.
func AttributeValue(name string, value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case bool:
		return "", v
	case map[string]string:
		if name == "style" {
			return styleString(v), true
		}
	case map[string]any:
		if name == "style" {
			m := make(map[string]string, len(v))
			for k, val := range v {
				m[k] = vdom.Stringify(val)
			}
			return styleString(m), true
		}
	}
	return vdom.Stringify(value), true
}

func styleString(styles map[string]string) string {
	var b strings.Builder
	for i, k := range sortedKeys(styles) {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s: %s;", k, styles[k])
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
