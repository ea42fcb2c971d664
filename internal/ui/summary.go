// Package ui renders terminal summaries for batch expansion runs.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Line is one request's outcome in the summary table.
type Line struct {
	Path     string
	Declared int
	Errors   int
	Warnings int
	CacheHit bool
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// Summary renders a bordered block with one line per request and a totals
// footer. width bounds the path column; pass 0 for the default.
func Summary(title string, lines []Line, width int) string {
	if width <= 0 {
		width = 80
	}
	pathWidth := width - 24
	if pathWidth < 20 {
		pathWidth = 20
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	var totalDecls, totalErrs, totalWarns, hits int
	for _, ln := range lines {
		status := okStyle.Render(fmt.Sprintf("%3d decl", ln.Declared))
		if ln.Errors > 0 {
			status = errStyle.Render(fmt.Sprintf("%3d err ", ln.Errors))
		} else if ln.Warnings > 0 {
			status = warnStyle.Render(fmt.Sprintf("%3d warn", ln.Warnings))
		}
		suffix := ""
		if ln.CacheHit {
			suffix = dimStyle.Render(" (cached)")
		}
		fmt.Fprintf(&b, "  %s  %s%s\n", status, truncate(ln.Path, pathWidth), suffix)

		totalDecls += ln.Declared
		totalErrs += ln.Errors
		totalWarns += ln.Warnings
		if ln.CacheHit {
			hits++
		}
	}

	footer := fmt.Sprintf("%d requests, %d declarations, %d errors, %d warnings, %d cached",
		len(lines), totalDecls, totalErrs, totalWarns, hits)
	b.WriteString(dimStyle.Render(footer))

	return boxStyle.Width(width).Render(b.String())
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
