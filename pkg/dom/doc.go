// Package dom defines the live document the reconciler mutates.
//
// The reconciler only talks to the small Node, Element and Document
// interfaces declared here. Two implementations ship with the package:
//
//   - NewDocument returns an in-memory document. It records every structural
//     and attribute mutation made under its root and delivers them to
//     observers, which is what tests, metrics and the inspector rely on.
//   - NewBrowserDocument (js/wasm builds only) wraps the page's real DOM
//     through syscall/js.
//
// The package also provides the two collaborators the reconciler calls
// into: Factory.Build, which turns a tree description into a fresh,
// unattached live node, and ApplyProps, which brings an element's attributes
// and event listeners in line with a Props map.
package dom
