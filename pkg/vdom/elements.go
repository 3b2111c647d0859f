package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element description.
//
// Arguments can be: nil, Attr, []Attr, Props, EventHandler, *VNode, []*VNode,
// or a bare string or number, which becomes a KindTextValue child.
func El(tag string, args ...any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    make(Props),
		Children: make([]*VNode, 0, len(args)),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
			continue

		case Attr:
			node.setProp(v.Key, v.Value)

		case []Attr:
			for _, a := range v {
				node.setProp(a.Key, a.Value)
			}

		case Props:
			for k, val := range v {
				node.setProp(k, val)
			}

		case EventHandler:
			node.setProp(v.Event, v.Handler)

		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}

		case []*VNode:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}

		default:
			if tv := TextValue(v); tv != nil {
				node.Children = append(node.Children, tv)
			}
		}
	}

	return node
}

func (v *VNode) setProp(key string, value any) {
	if key == "" {
		return
	}
	if key == "key" {
		v.Key = Stringify(value)
	}
	v.Props[key] = value
}

// Element constructors for the common tags. Use El for anything else.

func Div(args ...any) *VNode     { return El("div", args...) }
func Span(args ...any) *VNode    { return El("span", args...) }
func P(args ...any) *VNode       { return El("p", args...) }
func H1(args ...any) *VNode      { return El("h1", args...) }
func H2(args ...any) *VNode      { return El("h2", args...) }
func Ul(args ...any) *VNode      { return El("ul", args...) }
func Ol(args ...any) *VNode      { return El("ol", args...) }
func Li(args ...any) *VNode      { return El("li", args...) }
func Link(args ...any) *VNode    { return El("a", args...) }
func Button(args ...any) *VNode  { return El("button", args...) }
func Input(args ...any) *VNode   { return El("input", args...) }
func Label(args ...any) *VNode   { return El("label", args...) }
func Form(args ...any) *VNode    { return El("form", args...) }
func Section(args ...any) *VNode { return El("section", args...) }
func Table(args ...any) *VNode   { return El("table", args...) }
func Tr(args ...any) *VNode      { return El("tr", args...) }
func Td(args ...any) *VNode      { return El("td", args...) }
func Img(args ...any) *VNode     { return El("img", args...) }
func Br(args ...any) *VNode      { return El("br", args...) }
