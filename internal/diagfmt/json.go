package diagfmt

import (
	"encoding/json"
	"io"

	"equate/internal/diag"
	"equate/internal/source"
)

// LocationJSON is a span resolved for JSON output.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is a secondary note for JSON output.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON is a single text edit for JSON output.
type FixEditJSON struct {
	Location LocationJSON `json:"location"`
	NewText  string       `json:"new_text"`
	OldText  string       `json:"old_text,omitempty"`
}

// FixJSON is a fix suggestion for JSON output.
type FixJSON struct {
	ID          string        `json:"id,omitempty"`
	Title       string        `json:"title"`
	Kind        string        `json:"kind"`
	Safe        bool          `json:"safe"`
	IsPreferred bool          `json:"is_preferred,omitempty"`
	Edits       []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON is one diagnostic for JSON output.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// JSON renders the bag as an indented JSON array. The bag is expected to be
// sorted already so output stays deterministic.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	out := make([]DiagnosticJSON, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, diagnosticJSON(d, fs, opts))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func diagnosticJSON(d diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.String(),
		Message:  d.Message,
		Location: locationJSON(fs, d.Primary, opts),
	}
	if opts.IncludeNotes {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{
				Message:  n.Msg,
				Location: locationJSON(fs, n.Span, opts),
			})
		}
	}
	if opts.IncludeFixes {
		for _, f := range d.Fixes {
			fj := FixJSON{
				ID:          f.ID,
				Title:       f.Title,
				Kind:        f.Kind.String(),
				Safe:        f.Applicability == diag.FixApplicabilityAlwaysSafe,
				IsPreferred: f.IsPreferred,
			}
			for _, e := range f.Edits {
				fj.Edits = append(fj.Edits, FixEditJSON{
					Location: locationJSON(fs, e.Span, opts),
					NewText:  e.NewText,
					OldText:  e.OldText,
				})
			}
			out.Fixes = append(out.Fixes, fj)
		}
	}
	return out
}

func locationJSON(fs *source.FileSet, span source.Span, opts JSONOpts) LocationJSON {
	out := LocationJSON{
		StartByte: span.Start,
		EndByte:   span.End,
	}
	file := fs.Get(span.File)
	if file == nil {
		return out
	}
	out.File = file.FormatPath(opts.PathMode.formatMode(), fs.BaseDir())
	if opts.IncludePositions {
		start, end := fs.Resolve(span)
		out.StartLine = start.Line
		out.StartCol = start.Col
		out.EndLine = end.Line
		out.EndCol = end.Col
	}
	return out
}
