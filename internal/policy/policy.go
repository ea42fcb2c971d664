// Package policy applies the marker exclusion/allowance rules that decide
// which stored fields participate in generated comparisons.
package policy

import (
	"fmt"

	"equate/internal/classify"
	"equate/internal/decl"
	"equate/internal/diag"
	"equate/internal/fix"
	"equate/internal/markers"
	"equate/internal/source"
)

// IsFunctionValued reports whether a field holds a function value: by its
// written type annotation when present, otherwise by an initializer that is
// syntactically a function literal.
func IsFunctionValued(f *decl.Field) bool {
	if f.Type != nil {
		return classify.IsFunctionValue(f.Type)
	}
	return f.InitIsFnLiteral
}

// markerByCategory returns the first marker on f with the given category.
func markerByCategory(f *decl.Field, reg *markers.Registry, cat markers.Category) (decl.Marker, bool) {
	for _, mk := range f.Markers {
		if reg.Categorize(mk.Name) == cat {
			return mk, true
		}
	}
	return decl.Marker{}, false
}

// Validate applies the per-field rules to every candidate field and returns
// the retained set in declaration order. requestSpan anchors the
// aggregate-level emptiness diagnostic; when the retained set comes back
// empty, ok is false and the caller must not synthesize any code.
//
// Every rule is fail-soft: a violating field is dropped (never retained by
// accident) and validation continues, so one expansion reports all findings.
func Validate(fields []decl.Field, reg *markers.Registry, requestSpan source.Span, rep diag.Reporter) (retained []decl.Field, ok bool) {
	retained = make([]decl.Field, 0, len(fields))
	for i := range fields {
		if keepField(&fields[i], reg, rep) {
			retained = append(retained, fields[i])
		}
	}
	if len(retained) == 0 {
		diag.ReportError(rep, diag.CmpNoComparableFields, requestSpan,
			"comparison synthesis requires at least one comparable stored property").Emit()
		return nil, false
	}
	return retained, true
}

// keepField evaluates one field against the policy rules, emitting
// diagnostics as it goes, and reports whether the field stays in the
// comparison.
func keepField(f *decl.Field, reg *markers.Registry, rep diag.Reporter) bool {
	exclusion, hasExclusion := markerByCategory(f, reg, markers.CategoryExclusion)
	_, hasFrameworkState := markerByCategory(f, reg, markers.CategoryFrameworkState)
	allowance, hasAllowance := markerByCategory(f, reg, markers.CategoryFnAllowance)

	if hasExclusion {
		CheckExcludedField(f, exclusion, reg, rep)
		return false
	}
	if hasFrameworkState {
		// framework-managed state never participates; no diagnostic
		return false
	}
	if hasAllowance {
		CheckAllowanceField(f, allowance, rep)
		return false
	}
	if IsFunctionValued(f) {
		fix := insertAllowanceFix(f)
		diag.ReportError(rep, diag.CmpFunctionUnsupported, f.Span,
			fmt.Sprintf("function-valued field '%s' is not supported in generated comparisons", f.Name)).
			WithFix(fix).
			Emit()
		return false
	}
	return true
}

// CheckExcludedField verifies an exclusion marker against a single field:
// the marker must not sit on a function-valued or externally-bound field.
// The field stays excluded regardless of any diagnostic.
func CheckExcludedField(f *decl.Field, exclusion decl.Marker, reg *markers.Registry, rep diag.Reporter) {
	if IsFunctionValued(f) {
		diag.ReportError(rep, diag.CmpSkipOnFunction, exclusion.Span,
			fmt.Sprintf("@%s cannot be applied to function-valued fields", markers.SkipCompare)).
			WithNote(f.Span, fmt.Sprintf("field '%s' holds a function value", f.Name)).
			Emit()
	}
	if binding, ok := markerByCategory(f, reg, markers.CategoryExternalBinding); ok {
		diag.ReportError(rep, diag.CmpSkipOnExternalBinding, exclusion.Span,
			fmt.Sprintf("@%s cannot be applied to externally-bound fields", markers.SkipCompare)).
			WithNote(binding.Span, fmt.Sprintf("field '%s' is externally bound here", f.Name)).
			Emit()
	}
}

// CheckAllowanceField verifies the unsafe-function-allowance marker against a
// single field: it only makes sense on function-valued fields. A written
// non-function annotation is diagnosed; an absent annotation is accepted as
// is. The field is dropped from comparison in every case.
func CheckAllowanceField(f *decl.Field, allowance decl.Marker, rep diag.Reporter) {
	if f.Type != nil && !classify.IsFunctionValue(f.Type) {
		diag.ReportError(rep, diag.CmpAllowanceNotFunction, allowance.Span,
			fmt.Sprintf("@%s can only be applied to function-valued fields", markers.UnsafeFnCompare)).
			WithNote(f.Type.Span, fmt.Sprintf("field '%s' is declared as '%s'", f.Name, f.Type.Render())).
			Emit()
	}
}

// insertAllowanceFix builds the suggested edit for an unmarked
// function-valued field: splice the allowance marker directly before the
// field declaration, leaving surrounding bytes untouched.
func insertAllowanceFix(f *decl.Field) diag.Fix {
	at := f.Span.Collapse()
	return fix.InsertText(
		fmt.Sprintf("mark '%s' with @%s", f.Name, markers.UnsafeFnCompare),
		at,
		"@"+markers.UnsafeFnCompare+" ",
		fix.WithID(fmt.Sprintf("%s-%d-%d", diag.CmpFunctionUnsupported.ID(), at.File, at.Start)),
		fix.Preferred(),
	)
}
