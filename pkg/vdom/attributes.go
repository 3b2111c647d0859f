package vdom

import (
	"fmt"
	"strings"
)

// Attribute builds an Attr with an arbitrary name.
func Attribute(key string, value any) Attr { return Attr{Key: key, Value: value} }

// Key sets the reserved identity key. Two elements with different keys are
// never updated in place, even when every other prop matches.
func Key(key any) Attr { return Attribute("key", fmt.Sprintf("%v", key)) }

// ID sets the id attribute.
func ID(id string) Attr { return Attribute("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return Attribute("class", strings.Join(classes, " ")) }

// Style sets the style prop from a property map; it is rendered as
// "name: value;" pairs in key order.
func Style(styles map[string]string) Attr { return Attribute("style", styles) }

// StyleAttr sets the style attribute from a raw string.
func StyleAttr(style string) Attr { return Attribute("style", style) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return Attribute("data-"+key, value) }

// Href sets the href attribute.
func Href(url string) Attr { return Attribute("href", url) }

// Type sets the type attribute.
func Type(t string) Attr { return Attribute("type", t) }

// Value sets the value attribute.
func Value(value string) Attr { return Attribute("value", value) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return Attribute("placeholder", text) }

// Disabled sets or clears the disabled boolean attribute.
func Disabled(disabled bool) Attr { return Attribute("disabled", disabled) }

// Checked sets or clears the checked boolean attribute.
func Checked(checked bool) Attr { return Attribute("checked", checked) }

// Hidden sets or clears the hidden boolean attribute.
func Hidden(hidden bool) Attr { return Attribute("hidden", hidden) }

// Role sets the role attribute.
func Role(role string) Attr { return Attribute("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return Attribute("aria-label", label) }

// TabIndex sets the tabindex attribute.
func TabIndex(index int) Attr { return Attribute("tabindex", index) }
