// Package diag defines the diagnostic model shared by every expansion phase.
//
// Diagnostic is the central record: severity, a compact numeric Code with a
// stable string form, a human message, the primary source.Span, optional
// secondary Notes, and optional Fixes. The engine emits error severity only;
// the enum keeps the full ladder so renderers and future checks stay
// compatible with the common tri-level convention.
//
// Fix suggestions are data-only: a titled list of TextEdits (span plus
// replacement text, with OldText acting as a guard the fix engine validates
// before splicing). The expansion engine attaches at most one fix per
// diagnostic. Application of edits lives in internal/fix; rendering lives in
// internal/diagfmt. This package performs no IO and no formatting.
//
// Producers report through the Reporter interface, either directly or via
// ReportBuilder chaining (WithNote / WithFix / Emit). BagReporter aggregates
// into a Bag, which supports deterministic Sort and Dedup so two runs over the
// same input always render identically.
package diag
