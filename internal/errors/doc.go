// Package errors provides structured, actionable errors for vdomctl and the
// packages around the reconciler.
//
// The reconciler itself never fails; everything that reads files, parses
// configuration, watches the file system or serves the inspector reports
// failures through this package so the CLI can show them consistently.
//
// # Error Categories
//
//   - decode: tree description files that cannot be read or parsed
//   - config: invalid reconcile.json settings
//   - watch: file system watcher failures
//   - inspector: HTTP and WebSocket failures
//   - cli: command line usage errors
//
// # Error Codes
//
// Each error has a unique code (e.g., "E001") that maps to a short message
// and a detailed explanation.
//
// # Usage
//
//	err := errors.New("E001").
//	    WithLocation("tree.yaml", 4, 0).
//	    WithSuggestion("Every element needs a tag field").
//	    Wrap(cause)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E001: Invalid tree description
//	//
//	//   tree.yaml:4
//	//
//	//        2 │   - tag: ul
//	//        3 │     children:
//	//   →    4 │       - props: {class: item}
//	//        5 │         children: [one]
//	//
//	//   Hint: Every element needs a tag field
package errors
