package upload

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestFinderMatchesDocumentGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "lease.pdf")
	writeFile(t, root, "contracts/nda.docx")
	writeFile(t, root, "notes/readme.md")
	writeFile(t, root, "image.png")

	f := NewFinder([]string{"**/*.pdf", "**/*.docx"}, nil)
	found, err := f.Find(root)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 documents, got %v", found)
	}
}

func TestFinderHonorsExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.pdf")
	writeFile(t, root, "archive/old.pdf")
	writeFile(t, root, "~$temp.pdf")

	f := NewFinder([]string{"**/*.pdf"}, []string{"archive/**", "~$*"})
	found, err := f.Find(root)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 1 || filepath.Base(found[0]) != "keep.pdf" {
		t.Errorf("expected only keep.pdf, got %v", found)
	}
}

func TestFinderEmptyIncludeMatchesEverything(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt")
	writeFile(t, root, "b.rtf")

	f := NewFinder(nil, nil)
	found, err := f.Find(root)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("expected everything, got %v", found)
	}
}
