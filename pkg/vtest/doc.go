// Package vtest provides testing helpers for code that drives the
// reconciler.
//
// A Harness owns an in-memory document, a session rendering into its root
// and a reconciler. Every Apply records the mutations the pass made, so
// tests can assert on both the resulting markup and the exact patch:
//
//	func TestToggle(t *testing.T) {
//	    h := vtest.New(t, reconcile.WithPropSync(true))
//	    h.Apply(Button(false))
//	    h.Apply(Button(true))
//	    h.ExpectOps("set-attr")
//	    h.ExpectAttribute("button", "aria-pressed", "true")
//	}
//
// # Render Assertions
//
// RenderToString builds a description into a scratch document and returns
// its HTML, for tests that only care about markup:
//
//	html := vtest.RenderToString(Card("title"))
package vtest
