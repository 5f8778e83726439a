package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSet_AddVirtual(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("worker.ex", []byte("defmodule W do\nend\n"))

	f := fs.Get(id)
	if f.Path != "worker.ex" {
		t.Errorf("Path = %q, want %q", f.Path, "worker.ex")
	}
	if f.Flags&FileVirtual == 0 {
		t.Errorf("expected FileVirtual flag to be set")
	}
	if len(f.LineIdx) != 2 {
		t.Errorf("LineIdx length = %d, want 2", len(f.LineIdx))
	}
}

func TestFileSet_Load_NormalizesCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.ex")
	if err := os.WriteFile(path, []byte("defmodule W do\r\nend\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	f := fs.Get(id)
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("expected FileNormalizedCRLF flag to be set")
	}
	if string(f.Content) != "defmodule W do\nend\n" {
		t.Errorf("Content = %q, want normalized LF content", f.Content)
	}
}

func TestFileSet_Resolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("w.ex", []byte("a\nbb\nccc\n"))

	// "bb" occupies bytes 2..4
	start, end := fs.Resolve(Span{File: id, Start: 2, End: 4})
	if start != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("start = %v, want 2:1", start)
	}
	if end != (LineCol{Line: 2, Col: 3}) {
		t.Errorf("end = %v, want 2:3", end)
	}
}

func TestFile_GetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("w.ex", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	tests := []struct {
		line     uint32
		expected string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.line); got != tt.expected {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.expected)
		}
	}
}

func TestFileSet_GetByPath(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("a/b.ex", []byte("x"))

	if _, ok := fs.GetByPath("a/b.ex"); !ok {
		t.Errorf("expected a/b.ex to be found")
	}
	if _, ok := fs.GetByPath("missing.ex"); ok {
		t.Errorf("did not expect missing.ex to be found")
	}
}
