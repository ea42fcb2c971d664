package ui

import (
	"strings"
	"testing"
)

func TestSummaryCountsTotals(t *testing.T) {
	lines := []Line{
		{Path: "a.json", Declared: 2},
		{Path: "b.json", Errors: 1},
		{Path: "c.json", Declared: 1, CacheHit: true},
	}
	out := Summary("expand", lines, 80)

	for _, want := range []string{
		"expand",
		"a.json",
		"b.json",
		"c.json",
		"(cached)",
		"3 requests, 3 declarations, 1 errors, 0 warnings, 1 cached",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryTruncatesLongPaths(t *testing.T) {
	long := strings.Repeat("x", 200)
	out := Summary("expand", []Line{{Path: long}}, 60)
	if strings.Contains(out, long) {
		t.Fatalf("long path was not truncated")
	}
	if !strings.Contains(out, "...") {
		t.Fatalf("expected ellipsis in truncated path")
	}
}
