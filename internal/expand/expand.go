// Package expand wires the pipeline behind the three marker-triggered entry
// points: comparison-companion synthesis and the two single-field marker
// checks.
//
// Every entry point is a pure function from (marker reference, declaration,
// reporter) to synthesized declarations. Nothing is cached or shared between
// calls, so concurrent expansion of unrelated declarations needs no locking.
package expand

import (
	"fmt"

	"equate/internal/decl"
	"equate/internal/diag"
	"equate/internal/markers"
	"equate/internal/order"
	"equate/internal/policy"
	"equate/internal/source"
	"equate/internal/synth"
)

// Request carries the invocation context the host frontend supplies with a
// marker reference.
type Request struct {
	// MarkerSpan anchors structural-misuse diagnostics and the
	// aggregate-level emptiness diagnostic.
	MarkerSpan source.Span
	Registry   *markers.Registry
	Reporter   diag.Reporter
}

func (r Request) registry() *markers.Registry {
	if r.Registry == nil {
		return markers.Default()
	}
	return r.Registry
}

// Comparison runs the full pipeline for one aggregate declaration: extract,
// validate, order, synthesize. It returns the equality companion and, when
// the aggregate declares the hash capability, the hash companion in the
// identical field order. On any aborting violation it returns nil and the
// findings sit in the reporter.
func Comparison(agg *decl.Aggregate, req Request) []synth.Decl {
	rep := req.Reporter
	if agg.Kind != decl.KindStruct {
		diag.ReportError(rep, diag.CmpNotStruct, req.MarkerSpan,
			"comparison synthesis can only be applied to structs").
			WithNote(agg.Span, fmt.Sprintf("'%s' is declared as a %s", agg.Name, agg.Kind)).
			Emit()
		return nil
	}

	fields := decl.ExtractFields(agg)
	retained, ok := policy.Validate(fields, req.registry(), req.MarkerSpan, rep)
	if !ok {
		return nil
	}
	ordered := order.Fields(retained)

	decls := []synth.Decl{synth.Equality(agg.Name, ordered)}
	if agg.DeclaresHashable() {
		decls = append(decls, synth.Hash(agg.Name, ordered))
	}
	return decls
}

// Target is the declaration a single-field marker check runs against. A
// marker attached to anything but a property leaves Member nil, with Kind
// naming the offending shape.
type Target struct {
	Member *decl.Member
	Kind   decl.Kind
	Span   source.Span
}

// ExcludedField checks an exclusion marker attached to a single declaration:
// the declaration must be a property, and the exclusion must not hit a
// function-valued or externally-bound field. No declarations are emitted.
func ExcludedField(target Target, req Request) {
	member, ok := requireProperty(target, req, markers.SkipCompare)
	if !ok {
		return
	}
	f := fieldFromMember(member)
	exclusion, found := markerCategorized(f, req.registry(), markers.CategoryExclusion)
	if !found {
		exclusion = decl.Marker{Name: markers.SkipCompare, Span: req.MarkerSpan}
	}
	policy.CheckExcludedField(&f, exclusion, req.registry(), req.Reporter)
}

// AllowedFunctionField checks the unsafe-function-allowance marker attached
// to a single declaration: property shape first, then the annotation must be
// function-valued when written.
func AllowedFunctionField(target Target, req Request) {
	member, ok := requireProperty(target, req, markers.UnsafeFnCompare)
	if !ok {
		return
	}
	f := fieldFromMember(member)
	allowance, found := markerCategorized(f, req.registry(), markers.CategoryFnAllowance)
	if !found {
		allowance = decl.Marker{Name: markers.UnsafeFnCompare, Span: req.MarkerSpan}
	}
	policy.CheckAllowanceField(&f, allowance, req.Reporter)
}

func requireProperty(target Target, req Request, markerName string) (*decl.Member, bool) {
	if target.Member == nil {
		diag.ReportError(req.Reporter, diag.CmpNotProperty, req.MarkerSpan,
			fmt.Sprintf("@%s can only be applied to properties", markerName)).
			WithNote(target.Span, fmt.Sprintf("attached to a %s declaration", target.Kind)).
			Emit()
		return nil, false
	}
	return target.Member, true
}

func fieldFromMember(m *decl.Member) decl.Field {
	return decl.Field{
		Name:            m.Name,
		Span:            m.Span,
		Type:            m.Type,
		InitIsFnLiteral: m.HasInitializer && m.InitIsFnLiteral,
		Markers:         m.Markers,
	}
}

func markerCategorized(f decl.Field, reg *markers.Registry, cat markers.Category) (decl.Marker, bool) {
	for _, mk := range f.Markers {
		if reg.Categorize(mk.Name) == cat {
			return mk, true
		}
	}
	return decl.Marker{}, false
}
