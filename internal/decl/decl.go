// Package decl holds the parsed-declaration model the engine consumes. The
// host frontend produces these values; nothing in this module parses source
// text.
package decl

import (
	"equate/internal/source"
)

// Kind describes the shape of the declaration a marker is attached to.
type Kind uint8

const (
	KindStruct Kind = iota
	KindUnion
	KindAlias
	KindFn
	KindLet
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindAlias:
		return "alias"
	case KindFn:
		return "fn"
	case KindLet:
		return "let"
	}
	return "unknown"
}

// Marker is one attached `@name` annotation. Name may carry a namespace
// qualifier (`reactive::tracked_state`).
type Marker struct {
	Name string
	Span source.Span
}

// MemberKind classifies how a member stores its value.
type MemberKind uint8

const (
	// MemberStored is a plain instance value holder.
	MemberStored MemberKind = iota
	// MemberComputed has an accessor body instead of storage.
	MemberComputed
	// MemberStatic is type-level, not per-instance.
	MemberStatic
	// MemberPattern binds a tuple/destructuring pattern; not representable
	// as a single field.
	MemberPattern
)

// Member is one declared member of an aggregate, in declaration order.
type Member struct {
	Name            string
	Span            source.Span
	Kind            MemberKind
	Type            *TypeExpr // nil when the type is inferred from an initializer
	HasInitializer  bool
	InitIsFnLiteral bool // initializer is syntactically a function literal
	Markers         []Marker
}

// Aggregate is a product-type declaration targeted for comparison synthesis.
type Aggregate struct {
	Name    string
	Kind    Kind
	Span    source.Span
	Traits  []string // declared trait list
	Members []Member
}

// DeclaresHashable reports whether the trait list names the hash capability.
func (a *Aggregate) DeclaresHashable() bool {
	for _, tr := range a.Traits {
		if tr == "Hashable" {
			return true
		}
	}
	return false
}

// HasMarker reports whether the member carries a marker with the given name
// (exact match, including any qualifier).
func (m *Member) HasMarker(name string) bool {
	_, ok := m.FindMarker(name)
	return ok
}

// FindMarker returns the first marker with the given exact name.
func (m *Member) FindMarker(name string) (Marker, bool) {
	for _, mk := range m.Markers {
		if mk.Name == name {
			return mk, true
		}
	}
	return Marker{}, false
}
