package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"a.epub",
		"notes.txt",
		"upper.EPUB",
		"nested/b.epub",
		"nested/deeper/c.epub",
		"nested/c.epub.bak",
	}
	for _, name := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	// A directory with the extension is not a candidate.
	if err := os.MkdirAll(filepath.Join(root, "dir.epub"), 0755); err != nil {
		t.Fatal(err)
	}

	other := t.TempDir()
	if err := os.WriteFile(filepath.Join(other, "z.epub"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Discover(root, other)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	expected := []string{
		filepath.Join(root, "a.epub"),
		filepath.Join(root, "nested", "b.epub"),
		filepath.Join(root, "nested", "deeper", "c.epub"),
		filepath.Join(other, "z.epub"),
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for a missing root")
	}
}
