package render

// inlineElements stay on their parent's line in pretty output. Any other
// element child puts its siblings on separate lines.
var inlineElements = map[string]bool{
	"a":      true,
	"b":      true,
	"br":     true,
	"code":   true,
	"em":     true,
	"i":      true,
	"label":  true,
	"small":  true,
	"span":   true,
	"strong": true,
	"sub":    true,
	"sup":    true,
}

func isInlineElement(tag string) bool {
	return inlineElements[tag]
}
