package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"equate/internal/diag"
	"equate/internal/diagfmt"
	"equate/internal/driver"
	"equate/internal/ui"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] <request.json|directory>",
	Short: "Expand comparison markers in request documents",
	Long:  `Run the expansion pipeline over one request document or every *.json request in a directory, printing synthesized declarations and diagnostics`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExpand,
}

func init() {
	expandCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	expandCmd.Flags().Bool("no-cache", false, "bypass the expansion result cache")
	expandCmd.Flags().String("cache-dir", "", "cache directory (default: user cache dir)")
	expandCmd.Flags().Bool("summary", false, "print a per-request summary block")
	expandCmd.Flags().Bool("quiet", false, "suppress synthesized declaration output")
	expandCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

func runExpand(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	cacheDir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return err
	}
	showSummary, err := cmd.Flags().GetBool("summary")
	if err != nil {
		return err
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	colorize, err := colorEnabled(cmd, os.Stderr)
	if err != nil {
		return err
	}
	registry, err := loadRegistry(cmd)
	if err != nil {
		return err
	}

	opts := driver.Options{
		Registry:       registry,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
	}
	if !noCache {
		cache, cerr := driver.OpenDiskCache(cacheDir)
		if cerr != nil {
			return fmt.Errorf("expand: %w", cerr)
		}
		opts.Cache = cache
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("expand: %w", err)
	}

	var results []*driver.Result
	if info.IsDir() {
		results, err = driver.ExpandDir(cmd.Context(), targetPath, opts)
	} else {
		var res *driver.Result
		res, err = driver.ExpandFile(targetPath, opts)
		if res != nil {
			results = []*driver.Result{res}
		}
	}
	if err != nil {
		return fmt.Errorf("expand: %w", err)
	}

	hasErrors := false
	for _, res := range results {
		if err := printResult(res, format, colorize, quiet); err != nil {
			return err
		}
		if res.HasErrors() {
			hasErrors = true
		}
	}

	if showSummary {
		fmt.Fprintln(os.Stderr, ui.Summary("expand "+targetPath, summaryLines(results), 80))
	}

	if hasErrors {
		return fmt.Errorf("expand: %d request(s) reported errors", countFailed(results))
	}
	return nil
}

func printResult(res *driver.Result, format string, colorize, quiet bool) error {
	if res.Bag.Len() > 0 {
		switch format {
		case "json":
			if err := diagfmt.JSON(os.Stderr, res.Bag, res.FS, diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     true,
				IncludeFixes:     true,
			}); err != nil {
				return err
			}
		default:
			diagfmt.Pretty(os.Stderr, res.Bag, res.FS, diagfmt.PrettyOpts{
				Color:     colorize,
				ShowNotes: true,
				ShowFixes: true,
			})
		}
	}
	if quiet {
		return nil
	}
	for _, d := range res.Generated {
		if _, err := fmt.Fprint(os.Stdout, d.Text); err != nil {
			return err
		}
	}
	return nil
}

func summaryLines(results []*driver.Result) []ui.Line {
	lines := make([]ui.Line, 0, len(results))
	for _, res := range results {
		ln := ui.Line{
			Path:     res.Path,
			Declared: len(res.Generated),
			CacheHit: res.CacheHit,
		}
		for _, d := range res.Bag.Items() {
			switch d.Severity {
			case diag.SevError:
				ln.Errors++
			case diag.SevWarning:
				ln.Warnings++
			}
		}
		lines = append(lines, ln)
	}
	return lines
}

func countFailed(results []*driver.Result) int {
	n := 0
	for _, res := range results {
		if res.HasErrors() {
			n++
		}
	}
	return n
}
