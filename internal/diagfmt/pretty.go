package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"equate/internal/diag"
	"equate/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	codeColor    = color.New(color.FgWhite, color.Bold)
	noteColor    = color.New(color.FgCyan)
	fixColor     = color.New(color.FgGreen)
)

// Pretty renders diagnostics in a human-readable form. The bag is expected
// to be sorted already. Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the offending source line with a ^~~~ underline sized by
// display width, then notes and fix titles when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		prettyDiagnostic(w, d, fs, opts)
	}
}

func prettyDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		location(fs, d.Primary, opts.PathMode),
		paint(severityColor(d.Severity), d.Severity.String(), opts.Color),
		paint(codeColor, d.Code.String(), opts.Color),
		d.Message,
	)
	underlineSpan(w, fs, d.Primary, opts.Color)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			fmt.Fprintf(w, "  %s: %s: %s\n",
				paint(noteColor, "note", opts.Color),
				location(fs, note.Span, opts.PathMode),
				note.Msg,
			)
		}
	}
	if opts.ShowFixes {
		for _, f := range d.Fixes {
			fmt.Fprintf(w, "  %s: %s [%s]\n",
				paint(fixColor, "fix available", opts.Color),
				f.Title,
				f.ID,
			)
		}
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

func paint(c *color.Color, s string, enabled bool) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}

func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	file := fs.Get(span.File)
	if file == nil {
		return span.String()
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", file.FormatPath(mode.formatMode(), fs.BaseDir()), start.Line, start.Col)
}

// underlineSpan prints the source line the span starts on, then a caret line
// underneath. Widths are display widths, so multi-byte identifiers line up.
func underlineSpan(w io.Writer, fs *source.FileSet, span source.Span, colorize bool) {
	file := fs.Get(span.File)
	if file == nil {
		return
	}
	start, end := fs.Resolve(span)
	line := file.GetLine(start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "    %s\n", line)

	prefixBytes := int(start.Col) - 1
	if prefixBytes > len(line) {
		prefixBytes = len(line)
	}
	prefix := runewidth.StringWidth(line[:prefixBytes])

	spanEnd := len(line)
	if end.Line == start.Line && int(end.Col)-1 < spanEnd {
		spanEnd = int(end.Col) - 1
	}
	covered := 1
	if spanEnd > prefixBytes {
		covered = runewidth.StringWidth(line[prefixBytes:spanEnd])
		if covered < 1 {
			covered = 1
		}
	}

	marker := "^" + strings.Repeat("~", covered-1)
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", prefix), paint(errorColor, marker, colorize))
}
