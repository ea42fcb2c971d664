package expand

import (
	"strings"
	"testing"

	"equate/internal/decl"
	"equate/internal/diag"
	"equate/internal/markers"
	"equate/internal/source"
	"equate/internal/synth"
)

func path(name string) *decl.TypeExpr {
	return &decl.TypeExpr{Kind: decl.TypePath, Name: name}
}

func fnType() *decl.TypeExpr {
	return &decl.TypeExpr{Kind: decl.TypeFn}
}

func stored(name string, t *decl.TypeExpr, mks ...decl.Marker) decl.Member {
	return decl.Member{Name: name, Kind: decl.MemberStored, Type: t, Markers: mks}
}

func newRequest(bag *diag.Bag) Request {
	return Request{
		MarkerSpan: source.Span{File: 0, Start: 0, End: 11},
		Reporter:   diag.BagReporter{Bag: bag},
	}
}

func TestComparisonFullPipeline(t *testing.T) {
	agg := &decl.Aggregate{
		Name:   "User",
		Kind:   decl.KindStruct,
		Traits: []string{"Equatable", "Hashable"},
		Members: []decl.Member{
			stored("name", path("string")),
			stored("id", path("Uuid")),
			stored("age", path("int")),
		},
	}
	bag := diag.NewBag(8)
	decls := Comparison(agg, newRequest(bag))
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if len(decls) != 2 {
		t.Fatalf("expected equality + hash, got %d decls", len(decls))
	}
	if decls[0].Kind != synth.DeclEquality || decls[1].Kind != synth.DeclHash {
		t.Fatalf("unexpected decl kinds: %v, %v", decls[0].Kind, decls[1].Kind)
	}
	// id first, then int before string
	wantEq := "fn __equals(lhs: User, rhs: User) -> bool {\n" +
		"    return lhs.id == rhs.id\n" +
		"        && lhs.age == rhs.age\n" +
		"        && lhs.name == rhs.name;\n" +
		"}\n"
	if decls[0].Text != wantEq {
		t.Fatalf("unexpected equality:\n%s", decls[0].Text)
	}
	wantHash := "fn __hash(self: User, h: &Hasher) {\n" +
		"    h.combine(self.id);\n" +
		"    h.combine(self.age);\n" +
		"    h.combine(self.name);\n" +
		"}\n"
	if decls[1].Text != wantHash {
		t.Fatalf("unexpected hash:\n%s", decls[1].Text)
	}
}

func TestComparisonWithoutHashCapability(t *testing.T) {
	agg := &decl.Aggregate{
		Name:    "Pair",
		Kind:    decl.KindStruct,
		Traits:  []string{"Equatable"},
		Members: []decl.Member{stored("a", path("int")), stored("b", path("int"))},
	}
	bag := diag.NewBag(8)
	decls := Comparison(agg, newRequest(bag))
	if len(decls) != 1 || decls[0].Kind != synth.DeclEquality {
		t.Fatalf("expected only the equality companion, got %+v", decls)
	}
}

func TestComparisonRejectsNonStruct(t *testing.T) {
	agg := &decl.Aggregate{Name: "Shape", Kind: decl.KindUnion}
	bag := diag.NewBag(8)
	decls := Comparison(agg, newRequest(bag))
	if decls != nil {
		t.Fatalf("expected no declarations, got %+v", decls)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.CmpNotStruct {
		t.Fatalf("expected struct-shape diagnostic, got %+v", bag.Items())
	}
	if !strings.Contains(bag.Items()[0].Message, "can only be applied to structs") {
		t.Fatalf("unexpected message %q", bag.Items()[0].Message)
	}
}

func TestComparisonAllFieldsExcludedAborts(t *testing.T) {
	agg := &decl.Aggregate{
		Name: "Opaque",
		Kind: decl.KindStruct,
		Members: []decl.Member{
			stored("a", path("int"), decl.Marker{Name: markers.SkipCompare}),
			stored("b", path("int"), decl.Marker{Name: "tracked_state"}),
		},
	}
	bag := diag.NewBag(8)
	decls := Comparison(agg, newRequest(bag))
	if decls != nil {
		t.Fatalf("expected zero declarations, got %+v", decls)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.CmpNoComparableFields {
		t.Fatalf("expected exactly one emptiness diagnostic, got %+v", bag.Items())
	}
}

func TestComparisonNoStoredFieldsAborts(t *testing.T) {
	agg := &decl.Aggregate{
		Name: "OnlyComputed",
		Kind: decl.KindStruct,
		Members: []decl.Member{
			{Name: "area", Kind: decl.MemberComputed, Type: path("int")},
		},
	}
	bag := diag.NewBag(8)
	if decls := Comparison(agg, newRequest(bag)); decls != nil {
		t.Fatalf("expected no declarations")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.CmpNoComparableFields {
		t.Fatalf("expected emptiness diagnostic, got %+v", bag.Items())
	}
}

func TestComparisonIsDeterministic(t *testing.T) {
	agg := &decl.Aggregate{
		Name:   "Det",
		Kind:   decl.KindStruct,
		Traits: []string{"Hashable"},
		Members: []decl.Member{
			stored("z", path("string")),
			stored("a", path("string")),
			stored("m", nil),
		},
	}
	first := Comparison(agg, newRequest(diag.NewBag(8)))
	second := Comparison(agg, newRequest(diag.NewBag(8)))
	if len(first) != len(second) {
		t.Fatalf("decl count differs between runs")
	}
	for i := range first {
		if first[i].Text != second[i].Text {
			t.Fatalf("run output differs:\n%s\nvs\n%s", first[i].Text, second[i].Text)
		}
	}
}

func TestFunctionFieldFixRoundTrip(t *testing.T) {
	// an unmarked function-valued field diagnoses with a fix; applying the
	// suggested splice and re-running yields zero diagnostics and drops the
	// field from comparison
	src := "type Widget struct {\n    onTap: fn() -> unit;\n    id: Uuid;\n}\n"
	fieldStart := uint32(strings.Index(src, "onTap"))
	agg := func(withAllowance bool) *decl.Aggregate {
		var mks []decl.Marker
		if withAllowance {
			mks = []decl.Marker{{Name: markers.UnsafeFnCompare}}
		}
		return &decl.Aggregate{
			Name: "Widget",
			Kind: decl.KindStruct,
			Members: []decl.Member{
				{
					Name:    "onTap",
					Kind:    decl.MemberStored,
					Type:    fnType(),
					Span:    source.Span{Start: fieldStart, End: fieldStart + 20},
					Markers: mks,
				},
				stored("id", path("Uuid")),
			},
		}
	}

	bag := diag.NewBag(8)
	decls := Comparison(agg(false), newRequest(bag))
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %+v", bag.Items())
	}
	d := bag.Items()[0]
	if d.Code != diag.CmpFunctionUnsupported || len(d.Fixes) != 1 {
		t.Fatalf("expected function diagnostic with a fix, got %+v", d)
	}
	if len(decls) != 1 || strings.Contains(decls[0].Text, "onTap") {
		t.Fatalf("function field must not appear in generated code:\n%v", decls)
	}

	// splice the suggested edit and confirm it lands exactly before the field
	edit := d.Fixes[0].Edits[0]
	patched := src[:edit.Span.Start] + edit.NewText + src[edit.Span.Start:]
	if !strings.Contains(patched, "@unsafe_fn_compare onTap:") {
		t.Fatalf("splice landed wrong:\n%s", patched)
	}

	// re-run as the host would after re-parsing the patched source
	bag2 := diag.NewBag(8)
	decls2 := Comparison(agg(true), newRequest(bag2))
	if bag2.Len() != 0 {
		t.Fatalf("re-run after fix must be clean, got %+v", bag2.Items())
	}
	if len(decls2) != 1 || strings.Contains(decls2[0].Text, "onTap") {
		t.Fatalf("field must stay dropped after fix:\n%v", decls2)
	}
}

func TestExcludedFieldEntryPoint(t *testing.T) {
	member := stored("onTap", fnType(), decl.Marker{Name: markers.SkipCompare, Span: source.Span{Start: 5, End: 18}})
	bag := diag.NewBag(8)
	ExcludedField(Target{Member: &member}, newRequest(bag))
	if bag.Len() != 1 || bag.Items()[0].Code != diag.CmpSkipOnFunction {
		t.Fatalf("expected skip-on-function diagnostic, got %+v", bag.Items())
	}
}

func TestExcludedFieldOnNonProperty(t *testing.T) {
	bag := diag.NewBag(8)
	ExcludedField(Target{Kind: decl.KindFn, Span: source.Span{Start: 20, End: 60}}, newRequest(bag))
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.CmpNotProperty {
		t.Fatalf("unexpected code %v", d.Code)
	}
	if !strings.Contains(d.Message, "can only be applied to properties") {
		t.Fatalf("unexpected message %q", d.Message)
	}
}

func TestAllowedFunctionFieldEntryPoint(t *testing.T) {
	member := stored("count", path("int"), decl.Marker{Name: markers.UnsafeFnCompare})
	bag := diag.NewBag(8)
	AllowedFunctionField(Target{Member: &member}, newRequest(bag))
	if bag.Len() != 1 || bag.Items()[0].Code != diag.CmpAllowanceNotFunction {
		t.Fatalf("expected allowance diagnostic, got %+v", bag.Items())
	}
}

func TestAllowedFunctionFieldOnNonProperty(t *testing.T) {
	bag := diag.NewBag(8)
	AllowedFunctionField(Target{Kind: decl.KindLet}, newRequest(bag))
	if bag.Len() != 1 || bag.Items()[0].Code != diag.CmpNotProperty {
		t.Fatalf("expected property-shape diagnostic, got %+v", bag.Items())
	}
}

func TestExcludedFieldCleanCaseIsSilent(t *testing.T) {
	member := stored("cache", path("int"), decl.Marker{Name: markers.SkipCompare})
	bag := diag.NewBag(8)
	ExcludedField(Target{Member: &member}, newRequest(bag))
	if bag.Len() != 0 {
		t.Fatalf("clean exclusion must not diagnose: %+v", bag.Items())
	}
}
