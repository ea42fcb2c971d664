// Package synth emits the comparison companions for an ordered retained
// field set. All policy failures are caught upstream; nothing here
// diagnoses.
package synth

import (
	"strings"

	"equate/internal/decl"
)

// DeclKind identifies which companion a synthesized declaration implements.
type DeclKind uint8

const (
	DeclEquality DeclKind = iota
	DeclHash
)

func (k DeclKind) String() string {
	switch k {
	case DeclEquality:
		return "equality"
	case DeclHash:
		return "hash"
	}
	return "unknown"
}

// Decl is one synthesized declaration, as emitted text. Output is a pure
// function of (type name, ordered fields): two runs over the same input are
// byte-identical.
type Decl struct {
	Kind DeclKind
	Name string
	Text string
}

// Equality emits the equality companion: a single short-circuiting
// conjunction of per-field tests in the given order. Validation aborts on an
// empty field list upstream; if one still arrives the body is constant true.
func Equality(typeName string, ordered []decl.Field) Decl {
	var sb strings.Builder
	sb.WriteString("fn __equals(lhs: ")
	sb.WriteString(typeName)
	sb.WriteString(", rhs: ")
	sb.WriteString(typeName)
	sb.WriteString(") -> bool {\n")
	if len(ordered) == 0 {
		sb.WriteString("    return true;\n")
	} else {
		sb.WriteString("    return lhs.")
		sb.WriteString(ordered[0].Name)
		sb.WriteString(" == rhs.")
		sb.WriteString(ordered[0].Name)
		for _, f := range ordered[1:] {
			sb.WriteString("\n        && lhs.")
			sb.WriteString(f.Name)
			sb.WriteString(" == rhs.")
			sb.WriteString(f.Name)
		}
		sb.WriteString(";\n")
	}
	sb.WriteString("}\n")
	return Decl{Kind: DeclEquality, Name: "__equals", Text: sb.String()}
}

// Hash emits the hash companion: one combine statement per field, in exactly
// the order used for equality, so equal values always fold the same
// accumulator sequence.
func Hash(typeName string, ordered []decl.Field) Decl {
	var sb strings.Builder
	sb.WriteString("fn __hash(self: ")
	sb.WriteString(typeName)
	sb.WriteString(", h: &Hasher) {\n")
	for _, f := range ordered {
		sb.WriteString("    h.combine(self.")
		sb.WriteString(f.Name)
		sb.WriteString(");\n")
	}
	sb.WriteString("}\n")
	return Decl{Kind: DeclHash, Name: "__hash", Text: sb.String()}
}
