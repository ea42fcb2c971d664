package diagfmt

import (
	"strings"
	"testing"

	"equate/internal/diag"
	"equate/internal/source"
)

func setup(t *testing.T, src string) (*source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("w.sg", []byte(src))
	return fs, id
}

func TestPrettyHeaderAndUnderline(t *testing.T) {
	src := "type W struct {\n    onTap: fn() -> unit;\n}\n"
	fs, id := setup(t, src)
	start := uint32(strings.Index(src, "onTap"))
	span := source.Span{File: id, Start: start, End: start + 5}

	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.CmpFunctionUnsupported, span, "function-valued field 'onTap' is not supported in generated comparisons"))

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{})
	out := sb.String()

	if !strings.Contains(out, "w.sg:2:5: ERROR CMP4006:") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "    onTap: fn() -> unit;\n") {
		t.Fatalf("missing source line:\n%s", out)
	}
	if !strings.Contains(out, "\n        ^~~~~\n") {
		t.Fatalf("underline misplaced:\n%s", out)
	}
}

func TestPrettyUnderlineUsesDisplayWidth(t *testing.T) {
	src := "    名前: int;\n"
	fs, id := setup(t, src)
	start := uint32(strings.Index(src, "名前"))
	span := source.Span{File: id, Start: start, End: start + uint32(len("名前"))}

	bag := diag.NewBag(2)
	bag.Add(diag.NewError(diag.CmpInfo, span, "m"))

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{})

	// Two double-width runes cover four columns.
	if !strings.Contains(sb.String(), "\n        ^~~~\n") {
		t.Fatalf("underline not sized by display width:\n%s", sb.String())
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	src := "let x = 1;\n"
	fs, id := setup(t, src)
	span := source.Span{File: id, Start: 4, End: 5}

	d := diag.NewError(diag.CmpNotProperty, span, "@skip_compare can only be applied to properties").
		WithNote(span, "attached to a let declaration").
		WithFix(diag.Fix{ID: "f1", Title: "remove the marker"})
	bag := diag.NewBag(4)
	bag.Add(d)

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{ShowNotes: true, ShowFixes: true})
	out := sb.String()

	if !strings.Contains(out, "note: w.sg:1:5: attached to a let declaration") {
		t.Fatalf("missing note:\n%s", out)
	}
	if !strings.Contains(out, "fix available: remove the marker [f1]") {
		t.Fatalf("missing fix line:\n%s", out)
	}
}

func TestPrettyWithoutColorHasNoEscapes(t *testing.T) {
	src := "a\n"
	fs, id := setup(t, src)
	bag := diag.NewBag(2)
	bag.Add(diag.NewError(diag.CmpInfo, source.Span{File: id, Start: 0, End: 1}, "m"))

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{Color: false})
	if strings.Contains(sb.String(), "\x1b[") {
		t.Fatalf("escape codes in colorless output:\n%q", sb.String())
	}
}

func TestJSONIncludesFixEdits(t *testing.T) {
	src := "    onTap: fn();\n"
	fs, id := setup(t, src)
	span := source.Span{File: id, Start: 4, End: 9}

	d := diag.NewError(diag.CmpFunctionUnsupported, span, "m").
		WithFix(diag.Fix{
			ID:    "fix-1",
			Title: "insert marker",
			Edits: []diag.TextEdit{{Span: span.Collapse(), NewText: "@unsafe_fn_compare "}},
		})
	bag := diag.NewBag(2)
	bag.Add(d)

	var sb strings.Builder
	if err := JSON(&sb, bag, fs, JSONOpts{IncludePositions: true, IncludeFixes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	out := sb.String()
	for _, want := range []string{
		`"code": "CMP4006"`,
		`"start_byte": 4`,
		`"new_text": "@unsafe_fn_compare "`,
		`"start_line": 1`,
		`"safe": true`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in:\n%s", want, out)
		}
	}
}

func TestJSONDeterministic(t *testing.T) {
	src := "abc\n"
	fs, id := setup(t, src)
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.CmpInfo, source.Span{File: id, Start: 0, End: 1}, "m1"))
	bag.Add(diag.NewError(diag.CmpInfo, source.Span{File: id, Start: 1, End: 2}, "m2"))
	bag.Sort()

	var first, second strings.Builder
	if err := JSON(&first, bag, fs, JSONOpts{}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if err := JSON(&second, bag, fs, JSONOpts{}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if first.String() != second.String() {
		t.Fatalf("output differs between runs")
	}
}
