package decl

import (
	"testing"

	"equate/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func pathType(name string) *TypeExpr {
	return &TypeExpr{Kind: TypePath, Name: name}
}

func TestExtractFieldsKeepsStoredOnly(t *testing.T) {
	agg := &Aggregate{
		Name: "Point",
		Kind: KindStruct,
		Members: []Member{
			{Name: "x", Kind: MemberStored, Type: pathType("int"), Span: span(0, 5)},
			{Name: "area", Kind: MemberComputed, Type: pathType("int"), Span: span(6, 20)},
			{Name: "origin", Kind: MemberStatic, Type: pathType("Point"), Span: span(21, 40)},
			{Name: "a", Kind: MemberPattern, Span: span(41, 55)},
			{Name: "y", Kind: MemberStored, Type: pathType("int"), Span: span(56, 61)},
		},
	}

	fields := ExtractFields(agg)
	if len(fields) != 2 {
		t.Fatalf("expected 2 stored fields, got %d", len(fields))
	}
	if fields[0].Name != "x" || fields[1].Name != "y" {
		t.Fatalf("declaration order not preserved: %q, %q", fields[0].Name, fields[1].Name)
	}
}

func TestExtractFieldsCarriesMarkersAndInitializerShape(t *testing.T) {
	agg := &Aggregate{
		Name: "Handler",
		Kind: KindStruct,
		Members: []Member{
			{
				Name:            "onTap",
				Kind:            MemberStored,
				HasInitializer:  true,
				InitIsFnLiteral: true,
				Markers:         []Marker{{Name: "skip_compare", Span: span(0, 13)}},
				Span:            span(0, 40),
			},
			{
				Name:           "count",
				Kind:           MemberStored,
				Type:           pathType("int"),
				HasInitializer: true,
				Span:           span(41, 55),
			},
		},
	}

	fields := ExtractFields(agg)
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if !fields[0].InitIsFnLiteral {
		t.Fatalf("function-literal initializer shape lost")
	}
	if fields[1].InitIsFnLiteral {
		t.Fatalf("plain initializer misreported as function literal")
	}
	if !fields[0].HasMarker("skip_compare") {
		t.Fatalf("marker lost during extraction")
	}
	if mk, ok := fields[0].FindMarker("skip_compare"); !ok || mk.Span != span(0, 13) {
		t.Fatalf("marker span lost: %+v %v", mk, ok)
	}
}

func TestDeclaresHashable(t *testing.T) {
	agg := &Aggregate{Name: "A", Traits: []string{"Equatable", "Hashable"}}
	if !agg.DeclaresHashable() {
		t.Fatalf("expected hash capability")
	}
	agg2 := &Aggregate{Name: "B", Traits: []string{"Equatable"}}
	if agg2.DeclaresHashable() {
		t.Fatalf("unexpected hash capability")
	}
}
