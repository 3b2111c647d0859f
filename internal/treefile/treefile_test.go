package treefile

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/reconcile/internal/errors"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func code(t *testing.T, err error) string {
	t.Helper()
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("err = %v, want *errors.Error", err)
	}
	return e.Code
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		tag     string
	}{
		{"yaml", "tree.yaml", "tag: ul\nchildren:\n  - tag: li\n    children: [a]\n", "ul"},
		{"json", "tree.json", `{"tag":"div","props":{"class":"x"}}`, "div"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Load(write(t, tt.file, tt.content))
			if err != nil {
				t.Fatal(err)
			}
			if node.Tag != tt.tag {
				t.Errorf("tag = %q, want %q", node.Tag, tt.tag)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if got := code(t, err); got != "E002" {
		t.Errorf("code = %s, want E002", got)
	}
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Error("should wrap the read error")
	}
}

func TestLoadInvalidShape(t *testing.T) {
	_, err := Load(write(t, "tree.yaml", "props: {a: 1}\n"))
	if got := code(t, err); got != "E001" {
		t.Errorf("code = %s, want E001", got)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := write(t, "tree.yaml", "tag: div\nchildren: [\n  - a\n")
	_, err := Load(path)
	if got := code(t, err); got != "E003" {
		t.Fatalf("code = %s, want E003", got)
	}
	var e *errors.Error
	stderrors.As(err, &e)
	if e.Location == nil || e.Location.File != path {
		t.Errorf("location = %+v, want file %s", e.Location, path)
	}
}
