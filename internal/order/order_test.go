package order

import (
	"testing"

	"equate/internal/decl"
)

func path(name string, args ...*decl.TypeExpr) *decl.TypeExpr {
	return &decl.TypeExpr{Kind: decl.TypePath, Name: name, Args: args}
}

func qualified(ns, name string) *decl.TypeExpr {
	return &decl.TypeExpr{Kind: decl.TypePath, Qualifier: ns, Name: name}
}

func optional(elem *decl.TypeExpr) *decl.TypeExpr {
	return &decl.TypeExpr{Kind: decl.TypeOptional, Elem: elem}
}

func field(name string, t *decl.TypeExpr) decl.Field {
	return decl.Field{Name: name, Type: t}
}

func names(fields []decl.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

func assertOrder(t *testing.T, got []decl.Field, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d fields, got %v", len(want), names(got))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("position %d: expected %q, got %v", i, name, names(got))
		}
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		name     string
		t        *decl.TypeExpr
		expected int
	}{
		{"bool", path("bool"), 1},
		{"int", path("int"), 2},
		{"i64", path("i64"), 2},
		{"uint", path("uint"), 3},
		{"u8", path("u8"), 3},
		{"f64", path("f64"), 4},
		{"string", path("string"), 5},
		{"char", path("char"), 6},
		{"timestamp", path("Timestamp"), 7},
		{"bytes", path("Bytes"), 8},
		{"url", path("Url"), 9},
		{"uuid", path("Uuid"), 10},
		{"std qualified uuid", qualified("std", "Uuid"), 10},
		{"other namespace is opaque", qualified("my", "Uuid"), 50},
		{"optional int", optional(path("int")), 22},
		{"optional optional string", optional(optional(path("string"))), 45},
		{"array sugar", &decl.TypeExpr{Kind: decl.TypeArraySugar, Elem: path("int")}, 30},
		{"named Array", path("Array", path("int")), 30},
		{"map sugar", &decl.TypeExpr{Kind: decl.TypeMapSugar, Key: path("string"), Value: path("int")}, 40},
		{"named struct", path("NamedStruct"), 50},
		{"generic over scalar name", path("int", path("int")), 50},
		{"fn type", &decl.TypeExpr{Kind: decl.TypeFn}, 50},
		{"no annotation", nil, 50},
		{"optional array", optional(&decl.TypeExpr{Kind: decl.TypeArraySugar, Elem: path("int")}), 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rank(tt.t); got != tt.expected {
				t.Fatalf("Rank(%s) = %d, want %d", tt.t.Render(), got, tt.expected)
			}
		})
	}
}

func TestIdentityFieldLeadsRegardlessOfRank(t *testing.T) {
	// uuid outranks string numerically, yet id still leads; the text fields
	// tie at rank 5 and fall back to name order.
	got := Fields([]decl.Field{
		field("name", path("string")),
		field("lastName", path("string")),
		field("random", path("string")),
		field("id", path("Uuid")),
	})
	assertOrder(t, got, "id", "lastName", "name", "random")
}

func TestComplexityOrdering(t *testing.T) {
	got := Fields([]decl.Field{
		field("nestedType", path("NamedStruct")),
		field("array", path("Array", path("int"))),
		field("basicInt", path("int")),
		field("basicString", path("string")),
	})
	assertOrder(t, got, "basicInt", "basicString", "array", "nestedType")
}

func TestIdentityMatchIsCaseSensitive(t *testing.T) {
	got := Fields([]decl.Field{
		field("ID", path("Uuid")),
		field("flag", path("bool")),
	})
	// "ID" is not the identity field; bool rank 1 beats uuid rank 10
	assertOrder(t, got, "flag", "ID")
}

func TestFieldsDoesNotMutateInput(t *testing.T) {
	in := []decl.Field{
		field("b", path("string")),
		field("a", path("string")),
	}
	_ = Fields(in)
	if in[0].Name != "b" {
		t.Fatalf("input slice was reordered")
	}
}

func TestOrderingIsTotal(t *testing.T) {
	in := []decl.Field{
		field("gamma", nil),
		field("beta", nil),
		field("alpha", nil),
	}
	first := Fields(in)
	second := Fields(in)
	assertOrder(t, first, "alpha", "beta", "gamma")
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Fatalf("two runs disagree at %d: %v vs %v", i, names(first), names(second))
		}
	}
}
