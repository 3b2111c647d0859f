// Package watch reports changes to tree description files.
//
// A Watcher follows individual files and directories. Editors that save by
// writing a temp file and renaming it over the original are handled by
// watching the parent directory rather than the file itself. Bursts of
// events for the same path are collapsed into one Change after the
// debounce delay.
//
//	w := watch.New(watch.Config{Paths: []string{"tree.yaml"}})
//	w.OnChange(func(c watch.Change) { ... })
//	err := w.Start(ctx)
package watch
