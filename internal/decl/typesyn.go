package decl

import (
	"strings"

	"equate/internal/source"
)

// TypeKind discriminates the written shape of a type annotation.
type TypeKind uint8

const (
	// TypePath is a (possibly qualified, possibly generic) named type.
	TypePath TypeKind = iota
	// TypeOptional is the `T?` sugar.
	TypeOptional
	// TypeIUO is the implicitly-unwrapped `T!` sugar.
	TypeIUO
	// TypeTuple is a parenthesized element list; one element is paren sugar.
	TypeTuple
	// TypeArraySugar is the `[T]` single-element container form.
	TypeArraySugar
	// TypeMapSugar is the `[K:V]` keyed container form.
	TypeMapSugar
	// TypeFn is a written function type.
	TypeFn
)

// TypeExpr is a purely syntactic type tree. No symbol resolution happens
// anywhere in the engine: aliases around these shapes are not seen through,
// which is a documented limitation inherited from the reference behavior.
type TypeExpr struct {
	Kind      TypeKind
	Span      source.Span
	Qualifier string      // namespace for TypePath ("std" in std::Array)
	Name      string      // base name for TypePath
	Args      []*TypeExpr // generic arguments for TypePath
	Elem      *TypeExpr   // TypeOptional, TypeIUO, TypeArraySugar
	Key       *TypeExpr   // TypeMapSugar
	Value     *TypeExpr   // TypeMapSugar
	Elems     []*TypeExpr // TypeTuple
	Params    []*TypeExpr // TypeFn
	Result    *TypeExpr   // TypeFn, nil for no written result
}

// PathIs reports whether t is a path named name, either bare or qualified by
// ns.
func (t *TypeExpr) PathIs(ns, name string) bool {
	if t == nil || t.Kind != TypePath {
		return false
	}
	if t.Name != name {
		return false
	}
	return t.Qualifier == "" || t.Qualifier == ns
}

// Render prints the type back in source syntax. Used only for test failure
// output and the JSON renderer; generated code never embeds field types.
func (t *TypeExpr) Render() string {
	if t == nil {
		return "_"
	}
	var sb strings.Builder
	t.render(&sb)
	return sb.String()
}

func (t *TypeExpr) render(sb *strings.Builder) {
	switch t.Kind {
	case TypePath:
		if t.Qualifier != "" {
			sb.WriteString(t.Qualifier)
			sb.WriteString("::")
		}
		sb.WriteString(t.Name)
		if len(t.Args) > 0 {
			sb.WriteByte('<')
			for i, a := range t.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				a.render(sb)
			}
			sb.WriteByte('>')
		}
	case TypeOptional:
		t.Elem.render(sb)
		sb.WriteByte('?')
	case TypeIUO:
		t.Elem.render(sb)
		sb.WriteByte('!')
	case TypeTuple:
		sb.WriteByte('(')
		for i, e := range t.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.render(sb)
		}
		sb.WriteByte(')')
	case TypeArraySugar:
		sb.WriteByte('[')
		t.Elem.render(sb)
		sb.WriteByte(']')
	case TypeMapSugar:
		sb.WriteByte('[')
		t.Key.render(sb)
		sb.WriteString(": ")
		t.Value.render(sb)
		sb.WriteByte(']')
	case TypeFn:
		sb.WriteString("fn(")
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.render(sb)
		}
		sb.WriteByte(')')
		if t.Result != nil {
			sb.WriteString(" -> ")
			t.Result.render(sb)
		}
	}
}
