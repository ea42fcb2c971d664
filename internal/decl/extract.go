package decl

import (
	"equate/internal/source"
)

// Field is a candidate stored instance field, as produced by ExtractFields.
type Field struct {
	Name            string
	Span            source.Span
	Type            *TypeExpr // nil when inferred from an initializer
	InitIsFnLiteral bool
	Markers         []Marker
}

// HasMarker reports whether the field carries a marker with the exact name.
func (f *Field) HasMarker(name string) bool {
	_, ok := f.FindMarker(name)
	return ok
}

// FindMarker returns the first marker with the exact name.
func (f *Field) FindMarker(name string) (Marker, bool) {
	for _, mk := range f.Markers {
		if mk.Name == name {
			return mk, true
		}
	}
	return Marker{}, false
}

// ExtractFields turns an aggregate's member list into candidate stored
// instance fields, in declaration order. Computed members, static members and
// pattern bindings are dropped silently: they are not comparable stored
// fields, which is a shaping condition rather than a misuse, so no diagnostic
// is produced here.
func ExtractFields(a *Aggregate) []Field {
	fields := make([]Field, 0, len(a.Members))
	for i := range a.Members {
		m := &a.Members[i]
		if m.Kind != MemberStored {
			continue
		}
		fields = append(fields, Field{
			Name:            m.Name,
			Span:            m.Span,
			Type:            m.Type,
			InitIsFnLiteral: m.HasInitializer && m.InitIsFnLiteral,
			Markers:         m.Markers,
		})
	}
	return fields
}
