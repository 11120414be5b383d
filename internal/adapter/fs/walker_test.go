package fs

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func walkNames(t *testing.T, w *Walker, root string) []string {
	t.Helper()
	files, err := w.Walk(root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f.Path)
	}
	sort.Strings(names)
	return names
}

func TestWalkerDefaultIncludesTxtOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "faq.txt", "faq content")
	writeFile(t, dir, "notes.md", "markdown")
	writeFile(t, dir, "sub/policy.txt", "policy content")

	names := walkNames(t, NewWalker(nil, nil), dir)

	want := []string{"faq.txt", "policy.txt"}
	if len(names) != len(want) {
		t.Fatalf("Walk() found %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Walk() found %v, want %v", names, want)
		}
	}
}

func TestWalkerExcludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.txt", "x")
	writeFile(t, dir, "drafts/skip.txt", "x")

	names := walkNames(t, NewWalker([]string{"**/*.txt"}, []string{"drafts/**"}), dir)

	if len(names) != 1 || names[0] != "keep.txt" {
		t.Errorf("Walk() found %v, want [keep.txt]", names)
	}
}

func TestWalkerCustomIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x")
	writeFile(t, dir, "b.md", "x")

	names := walkNames(t, NewWalker([]string{"**/*.md"}, nil), dir)

	if len(names) != 1 || names[0] != "b.md" {
		t.Errorf("Walk() found %v, want [b.md]", names)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.txt", "hello")

	content, err := ReadFile(filepath.Join(dir, "doc.txt"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if content != "hello" {
		t.Errorf("ReadFile() = %q, want hello", content)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("ReadFile() on missing file should fail")
	}
}
