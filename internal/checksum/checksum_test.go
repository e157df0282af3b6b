package checksum

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSum(t *testing.T) {
	a := Sum([]byte("alias ll='ls -la'\n"))
	b := Sum([]byte("alias ll='ls -la'\n"))
	c := Sum([]byte("alias ll='ls -lah'\n"))

	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
	if a != b {
		t.Error("same input produced different digests")
	}
	if a == c {
		t.Error("different inputs produced the same digest")
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.sh")
	content := []byte("export EDITOR=vim\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	got, err := File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if got != Sum(content) {
		t.Errorf("File = %q, want %q", got, Sum(content))
	}

	if _, err := File(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
