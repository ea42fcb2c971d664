package source

import (
	"testing"
)

func TestFileSetAddVirtual(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("req.sg", []byte("type Point struct {\n    x: int;\n}\n"))

	f := fs.Get(id)
	if f == nil {
		t.Fatalf("expected file for id %d", id)
	}
	if f.Flags&FileVirtual == 0 {
		t.Fatalf("virtual flag not set")
	}
	if f.Path != "req.sg" {
		t.Fatalf("unexpected path %q", f.Path)
	}
	if got, ok := fs.GetByPath("req.sg"); !ok || got.ID != id {
		t.Fatalf("GetByPath failed: %v %v", got, ok)
	}
}

func TestFileSetGetOutOfRange(t *testing.T) {
	fs := NewFileSet()
	if f := fs.Get(7); f != nil {
		t.Fatalf("expected nil for unknown id, got %v", f)
	}
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	content := []byte("line one\nline two\nline three\n")
	id := fs.AddVirtual("r.sg", content)

	tests := []struct {
		name      string
		span      Span
		startLine uint32
		startCol  uint32
		endLine   uint32
		endCol    uint32
	}{
		{"start of file", Span{File: id, Start: 0, End: 4}, 1, 1, 1, 5},
		{"second line", Span{File: id, Start: 9, End: 13}, 2, 1, 2, 5},
		{"interior of third line", Span{File: id, Start: 23, End: 28}, 3, 6, 3, 11},
		{"offset on newline stays on its line", Span{File: id, Start: 8, End: 8}, 1, 9, 1, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := fs.Resolve(tt.span)
			if start.Line != tt.startLine || start.Col != tt.startCol {
				t.Fatalf("start = %v, want %d:%d", start, tt.startLine, tt.startCol)
			}
			if end.Line != tt.endLine || end.Col != tt.endCol {
				t.Fatalf("end = %v, want %d:%d", end, tt.endLine, tt.endCol)
			}
		})
	}
}

func TestFileGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.sg", []byte("alpha\nbeta\ngamma"))
	f := fs.Get(id)

	tests := []struct {
		line     uint32
		expected string
	}{
		{0, ""},
		{1, "alpha"},
		{2, "beta"},
		{3, "gamma"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.line); got != tt.expected {
			t.Fatalf("GetLine(%d) = %q, want %q", tt.line, got, tt.expected)
		}
	}
}
