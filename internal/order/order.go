// Package order sorts retained fields into the deterministic comparison
// order shared by the equality and hash companions.
package order

import (
	"sort"

	"equate/internal/classify"
	"equate/internal/decl"
)

// identityFieldName sorts first unconditionally. The match is the exact
// lowercase identifier only; "ID" or "Id" rank like any other field. Do not
// generalize without confirming intent.
const identityFieldName = "id"

// Rank boundaries. Cheap, narrow scalars compare first to maximize
// short-circuit savings in the generated conjunction.
const (
	rankBool      = 1
	rankSigned    = 2
	rankUnsigned  = 3
	rankFloat     = 4
	rankString    = 5
	rankChar      = 6
	rankTimestamp = 7
	rankBytes     = 8
	rankURL       = 9
	rankUUID      = 10

	optionalPenalty = 20
	rankOrdered     = 30
	rankKeyed       = 40
	rankOpaque      = 50
)

var scalarRanks = map[string]int{
	"bool":      rankBool,
	"int":       rankSigned,
	"i8":        rankSigned,
	"i16":       rankSigned,
	"i32":       rankSigned,
	"i64":       rankSigned,
	"uint":      rankUnsigned,
	"u8":        rankUnsigned,
	"u16":       rankUnsigned,
	"u32":       rankUnsigned,
	"u64":       rankUnsigned,
	"f32":       rankFloat,
	"f64":       rankFloat,
	"string":    rankString,
	"char":      rankChar,
	"Timestamp": rankTimestamp,
	"Bytes":     rankBytes,
	"Url":       rankURL,
	"Uuid":      rankUUID,
}

// Key is the derived ordering key for one retained field. It exists only for
// sorting and is never persisted.
type Key struct {
	Identity bool
	Rank     int
}

// KeyFor derives the ordering key for a retained field.
func KeyFor(f *decl.Field) Key {
	return Key{
		Identity: f.Name == identityFieldName,
		Rank:     Rank(f.Type),
	}
}

// Rank returns the complexity rank of a written type annotation. Fields with
// no annotation, unresolved names, tuples and functions all land in the
// opaque bucket.
func Rank(t *decl.TypeExpr) int {
	if t == nil {
		return rankOpaque
	}
	if t.Kind == decl.TypeOptional {
		return Rank(t.Elem) + optionalPenalty
	}
	if classify.IsOrderedContainer(t) {
		return rankOrdered
	}
	if classify.IsKeyedContainer(t) {
		return rankKeyed
	}
	if t.Kind == decl.TypePath && len(t.Args) == 0 {
		if rank, ok := scalarRanks[t.Name]; ok {
			if t.Qualifier == "" || t.Qualifier == classify.StdNamespace {
				return rank
			}
		}
	}
	return rankOpaque
}

// Fields returns the retained set in comparison order: the identity field
// first, then ascending complexity rank, ties broken by ascending field name.
// The input slice is not modified. The result is a strict total order, so any
// two runs over the same retained set agree.
func Fields(retained []decl.Field) []decl.Field {
	ordered := make([]decl.Field, len(retained))
	copy(ordered, retained)
	sort.SliceStable(ordered, func(i, j int) bool {
		ki, kj := KeyFor(&ordered[i]), KeyFor(&ordered[j])
		if ki.Identity != kj.Identity {
			return ki.Identity
		}
		if ki.Rank != kj.Rank {
			return ki.Rank < kj.Rank
		}
		return ordered[i].Name < ordered[j].Name
	})
	return ordered
}
