package driver

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"fortio.org/safecast"

	"equate/internal/decl"
	"equate/internal/source"
)

// Entry names which engine entry point a request triggers.
type Entry string

const (
	EntryComparison     Entry = "comparison"
	EntryExcludedField  Entry = "excluded_field"
	EntryAllowedFnField Entry = "allowed_fn_field"
)

var (
	// ErrSpanOutOfRange indicates a request span outside the embedded source.
	ErrSpanOutOfRange = errors.New("span outside embedded source")
	// ErrBadRequest indicates a structurally invalid request document.
	ErrBadRequest = errors.New("invalid expansion request")
)

// Request is one expansion request document: the exact source bytes the host
// frontend parsed plus the parsed declaration, with byte spans into the
// source. The engine never sees raw text; this file format is how a host
// hands over its parse results.
type Request struct {
	Path       string
	Source     []byte
	Entry      Entry
	MarkerSpan spanJSON
	Aggregate  *aggregateJSON
	Target     *targetJSON
}

type spanJSON [2]uint32

type requestJSON struct {
	Path       string         `json:"path"`
	Source     string         `json:"source"`
	Entry      string         `json:"entry"`
	MarkerSpan spanJSON       `json:"marker_span"`
	Aggregate  *aggregateJSON `json:"aggregate,omitempty"`
	Target     *targetJSON    `json:"target,omitempty"`
}

type aggregateJSON struct {
	Name    string       `json:"name"`
	Kind    string       `json:"kind"`
	Span    spanJSON     `json:"span"`
	Traits  []string     `json:"traits,omitempty"`
	Members []memberJSON `json:"members"`
}

type memberJSON struct {
	Name     string        `json:"name"`
	Kind     string        `json:"kind"`
	Span     spanJSON      `json:"span"`
	Type     *typeExprJSON `json:"type,omitempty"`
	HasInit  bool          `json:"has_init,omitempty"`
	InitIsFn bool          `json:"init_is_fn,omitempty"`
	Markers  []markerJSON  `json:"markers,omitempty"`
}

type markerJSON struct {
	Name string   `json:"name"`
	Span spanJSON `json:"span"`
}

type typeExprJSON struct {
	Kind      string         `json:"kind"`
	Span      spanJSON       `json:"span"`
	Qualifier string         `json:"qualifier,omitempty"`
	Name      string         `json:"name,omitempty"`
	Args      []typeExprJSON `json:"args,omitempty"`
	Elem      *typeExprJSON  `json:"elem,omitempty"`
	Key       *typeExprJSON  `json:"key,omitempty"`
	Value     *typeExprJSON  `json:"value,omitempty"`
	Elems     []typeExprJSON `json:"elems,omitempty"`
	Params    []typeExprJSON `json:"params,omitempty"`
	Result    *typeExprJSON  `json:"result,omitempty"`
}

// targetJSON points a single-field check either at a member (by index) or at
// a non-property declaration shape.
type targetJSON struct {
	Member *int     `json:"member,omitempty"`
	Kind   string   `json:"kind,omitempty"`
	Span   spanJSON `json:"span"`
}

// LoadRequest reads and validates one request document.
func LoadRequest(path string) (*Request, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRequest(path, raw)
}

// ParseRequest decodes a request document from memory and validates every
// span against the embedded source.
func ParseRequest(path string, raw []byte) (*Request, error) {
	var doc requestJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrBadRequest, err)
	}

	req := &Request{
		Path:       doc.Path,
		Source:     []byte(doc.Source),
		Entry:      Entry(doc.Entry),
		MarkerSpan: doc.MarkerSpan,
		Aggregate:  doc.Aggregate,
		Target:     doc.Target,
	}
	if req.Path == "" {
		req.Path = path
	}

	switch req.Entry {
	case EntryComparison:
		if req.Aggregate == nil {
			return nil, fmt.Errorf("%s: %w: comparison request without aggregate", path, ErrBadRequest)
		}
	case EntryExcludedField, EntryAllowedFnField:
		if req.Target == nil {
			return nil, fmt.Errorf("%s: %w: field request without target", path, ErrBadRequest)
		}
		if req.Target.Member != nil {
			if req.Aggregate == nil {
				return nil, fmt.Errorf("%s: %w: member target without aggregate", path, ErrBadRequest)
			}
			if idx := *req.Target.Member; idx < 0 || idx >= len(req.Aggregate.Members) {
				return nil, fmt.Errorf("%s: %w: member index %d out of range", path, ErrBadRequest, idx)
			}
		}
	default:
		return nil, fmt.Errorf("%s: %w: unknown entry %q", path, ErrBadRequest, doc.Entry)
	}

	if err := req.validateSpans(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

func (r *Request) validateSpans() error {
	limit, err := safecast.Conv[uint32](len(r.Source))
	if err != nil {
		return fmt.Errorf("source too large: %w", err)
	}
	check := func(s spanJSON, what string) error {
		if s[0] > s[1] || s[1] > limit {
			return fmt.Errorf("%w: %s [%d,%d) in %d bytes", ErrSpanOutOfRange, what, s[0], s[1], limit)
		}
		return nil
	}
	if err := check(r.MarkerSpan, "marker span"); err != nil {
		return err
	}
	if r.Aggregate != nil {
		if err := check(r.Aggregate.Span, "aggregate span"); err != nil {
			return err
		}
		for _, m := range r.Aggregate.Members {
			if err := check(m.Span, "member span"); err != nil {
				return err
			}
			for _, mk := range m.Markers {
				if err := check(mk.Span, "marker span"); err != nil {
					return err
				}
			}
		}
	}
	if r.Target != nil {
		if err := check(r.Target.Span, "target span"); err != nil {
			return err
		}
	}
	return nil
}

func (s spanJSON) toSpan(file source.FileID) source.Span {
	return source.Span{File: file, Start: s[0], End: s[1]}
}

func declKind(kind string) decl.Kind {
	switch kind {
	case "struct":
		return decl.KindStruct
	case "union":
		return decl.KindUnion
	case "alias":
		return decl.KindAlias
	case "fn":
		return decl.KindFn
	default:
		return decl.KindLet
	}
}

func memberKind(kind string) decl.MemberKind {
	switch kind {
	case "computed":
		return decl.MemberComputed
	case "static":
		return decl.MemberStatic
	case "pattern":
		return decl.MemberPattern
	default:
		return decl.MemberStored
	}
}

func (a *aggregateJSON) toDecl(file source.FileID) *decl.Aggregate {
	out := &decl.Aggregate{
		Name:    a.Name,
		Kind:    declKind(a.Kind),
		Span:    a.Span.toSpan(file),
		Traits:  a.Traits,
		Members: make([]decl.Member, 0, len(a.Members)),
	}
	for i := range a.Members {
		out.Members = append(out.Members, a.Members[i].toDecl(file))
	}
	return out
}

func (m *memberJSON) toDecl(file source.FileID) decl.Member {
	out := decl.Member{
		Name:            m.Name,
		Kind:            memberKind(m.Kind),
		Span:            m.Span.toSpan(file),
		Type:            m.Type.toDecl(file),
		HasInitializer:  m.HasInit,
		InitIsFnLiteral: m.InitIsFn,
	}
	for _, mk := range m.Markers {
		out.Markers = append(out.Markers, decl.Marker{Name: mk.Name, Span: mk.Span.toSpan(file)})
	}
	return out
}

func (t *typeExprJSON) toDecl(file source.FileID) *decl.TypeExpr {
	if t == nil {
		return nil
	}
	out := &decl.TypeExpr{
		Span:      t.Span.toSpan(file),
		Qualifier: t.Qualifier,
		Name:      t.Name,
		Elem:      t.Elem.toDecl(file),
		Key:       t.Key.toDecl(file),
		Value:     t.Value.toDecl(file),
		Result:    t.Result.toDecl(file),
	}
	switch t.Kind {
	case "path":
		out.Kind = decl.TypePath
	case "optional":
		out.Kind = decl.TypeOptional
	case "iuo":
		out.Kind = decl.TypeIUO
	case "tuple":
		out.Kind = decl.TypeTuple
	case "array":
		out.Kind = decl.TypeArraySugar
	case "map":
		out.Kind = decl.TypeMapSugar
	case "fn":
		out.Kind = decl.TypeFn
	default:
		out.Kind = decl.TypePath
	}
	for i := range t.Args {
		out.Args = append(out.Args, t.Args[i].toDecl(file))
	}
	for i := range t.Elems {
		out.Elems = append(out.Elems, t.Elems[i].toDecl(file))
	}
	for i := range t.Params {
		out.Params = append(out.Params, t.Params[i].toDecl(file))
	}
	return out
}
