// Package render serializes live document subtrees to HTML.
//
// It is the read side of the reconciler: after a pass, render shows what
// the live tree actually holds, which is what vdomctl prints and what the
// inspector streams to the browser.
//
//	html, err := render.HTML(doc.Root())
//
// Attributes are written in sorted order, text and attribute values are
// escaped, and void elements get no closing tag. Event listeners are not
// part of the markup; with Config.ListenerMarkers each one is shown as a
// data-on-<event> attribute instead.
//
// Pretty output indents block elements and leaves inline elements on one
// line:
//
//	r := render.NewRenderer(render.Config{Pretty: true})
//	err := r.RenderToWriter(os.Stdout, doc.Root())
package render
