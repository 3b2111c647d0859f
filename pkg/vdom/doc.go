// Package vdom provides the tree descriptions consumed by the reconciler.
//
// A tree description is a lightweight, declarative picture of what the live
// document should look like. It is rebuilt on every render and compared
// against the previous render's description to decide which live nodes to
// replace, update in place, append or remove.
//
// # Node Variants
//
// VNode is a tagged union discriminated by Kind:
//
//   - KindElement: Tag, Props (may include the reserved "key") and Children
//   - KindText: a structural text node whose content is in Text
//   - KindTextValue: a bare string or number placed directly in a children
//     list; it is rendered as text but never keeps a back-reference to the
//     live node it produced
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), Key("row-1"),
//	    H1(Text("Title")),
//	    "implicit text",
//	    OnClick(handler),
//	)
//
// # Equality
//
// DeepEqual compares prop values structurally. The reconciler uses it to
// decide between an in-place update and a full replacement.
//
// # Wire Format
//
// Decode and Encode read and write descriptions as JSON or YAML so fixtures
// and tools can exchange trees without Go code.
package vdom
