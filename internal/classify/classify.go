// Package classify decides, for a written type annotation, whether it denotes
// a function value, an ordered container, or a keyed container.
//
// Classification is purely syntactic. A user-defined alias around one of
// these shapes is not recognized; reproducing the reference behavior means
// keeping that approximation rather than adding a type-resolution pass.
package classify

import (
	"equate/internal/decl"
)

// StdNamespace qualifies the standard container names (std::Array).
const StdNamespace = "std"

const (
	orderedContainerName = "Array"
	keyedContainerName   = "Map"
)

// IsFunctionValue reports whether t is written as a function type. An
// optional wrapping a single-element tuple recurses into that element (the
// common "optional function" sugar), and an implicitly-unwrapped optional
// recurses into its wrapped type.
func IsFunctionValue(t *decl.TypeExpr) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case decl.TypeFn:
		return true
	case decl.TypeOptional:
		if t.Elem != nil && t.Elem.Kind == decl.TypeTuple && len(t.Elem.Elems) == 1 {
			return IsFunctionValue(t.Elem.Elems[0])
		}
		return false
	case decl.TypeIUO:
		return IsFunctionValue(t.Elem)
	default:
		return false
	}
}

// IsOrderedContainer reports whether t is the `[T]` sugar or the standard
// ordered-sequence type, bare or std-qualified.
func IsOrderedContainer(t *decl.TypeExpr) bool {
	if t == nil {
		return false
	}
	if t.Kind == decl.TypeArraySugar {
		return true
	}
	return t.PathIs(StdNamespace, orderedContainerName)
}

// IsKeyedContainer reports whether t is the `[K:V]` sugar or the standard
// keyed-mapping type, bare or std-qualified.
func IsKeyedContainer(t *decl.TypeExpr) bool {
	if t == nil {
		return false
	}
	if t.Kind == decl.TypeMapSugar {
		return true
	}
	return t.PathIs(StdNamespace, keyedContainerName)
}
