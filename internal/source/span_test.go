package source

import (
	"testing"
)

func TestSpanBasics(t *testing.T) {
	s := Span{File: 1, Start: 4, End: 9}
	if s.Empty() {
		t.Fatalf("span %v reported empty", s)
	}
	if s.Len() != 5 {
		t.Fatalf("expected len 5, got %d", s.Len())
	}
	if got := s.String(); got != "1:4-9" {
		t.Fatalf("unexpected String: %q", got)
	}
	if c := s.Collapse(); !c.Empty() || c.Start != 4 {
		t.Fatalf("collapse produced %v", c)
	}
}

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "disjoint later span extends end",
			a:        Span{File: 1, Start: 2, End: 5},
			b:        Span{File: 1, Start: 8, End: 12},
			expected: Span{File: 1, Start: 2, End: 12},
		},
		{
			name:     "earlier span extends start",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 1, Start: 3, End: 12},
			expected: Span{File: 1, Start: 3, End: 20},
		},
		{
			name:     "contained span is a no-op",
			a:        Span{File: 1, Start: 0, End: 30},
			b:        Span{File: 1, Start: 5, End: 6},
			expected: Span{File: 1, Start: 0, End: 30},
		},
		{
			name:     "different file is ignored",
			a:        Span{File: 1, Start: 5, End: 6},
			b:        Span{File: 2, Start: 0, End: 100},
			expected: Span{File: 1, Start: 5, End: 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Fatalf("Cover(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{File: 3, Start: 10, End: 20}
	if !outer.Contains(Span{File: 3, Start: 10, End: 20}) {
		t.Fatalf("span should contain itself")
	}
	if !outer.Contains(Span{File: 3, Start: 12, End: 12}) {
		t.Fatalf("span should contain interior empty span")
	}
	if outer.Contains(Span{File: 3, Start: 9, End: 11}) {
		t.Fatalf("span should not contain overlapping prefix")
	}
	if outer.Contains(Span{File: 4, Start: 12, End: 13}) {
		t.Fatalf("span should not contain span from another file")
	}
}
