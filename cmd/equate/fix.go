package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"equate/internal/driver"
	"equate/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <request.json>",
	Short: "Apply suggested fixes to the embedded source of a request",
	Long:  "Run the expansion pipeline, collect fix suggestions from the diagnostics, and splice the selected ones into the request's embedded source.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all safe fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
	fixCmd.Flags().Bool("dry-run", false, "print the patched source instead of writing it")
	fixCmd.Flags().String("output", "", "write patched source to this path (default: stdout)")
}

func runFix(cmd *cobra.Command, args []string) error {
	requestPath := args[0]

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnceFlag, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	if targetID != "" && (applyAll || applyOnceFlag) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnceFlag {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	registry, err := loadRegistry(cmd)
	if err != nil {
		return err
	}

	// Fixes mutate the source, so the result cache stays out of the loop.
	result, err := driver.ExpandFile(requestPath, driver.Options{
		Registry:       registry,
		MaxDiagnostics: maxDiagnostics,
	})
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}

	res, applyErr := fix.Apply(result.FS, result.Bag.Items(), fix.ApplyOptions{
		Mode:     mode,
		TargetID: targetID,
	})
	if errors.Is(applyErr, fix.ErrNoFixes) {
		fmt.Fprintln(os.Stdout, "no applicable fixes found")
		return nil
	}
	if applyErr != nil {
		return fmt.Errorf("fix: %w", applyErr)
	}

	reportApplied(res)

	patched, ok := res.Buffers[result.FileID]
	if !ok {
		return nil
	}
	if dryRun || outputPath == "" {
		_, err := os.Stdout.Write(patched)
		return err
	}
	if err := os.WriteFile(outputPath, patched, 0o644); err != nil {
		return fmt.Errorf("fix: write %s: %w", outputPath, err)
	}
	fmt.Fprintf(os.Stdout, "wrote %s (%d bytes)\n", outputPath, len(patched))
	return nil
}

func reportApplied(res *fix.ApplyResult) {
	if len(res.Applied) > 0 {
		fmt.Fprintf(os.Stderr, "Applied %d fix(es):\n", len(res.Applied))
		for _, item := range res.Applied {
			location := item.Path
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(os.Stderr, "  %s [%s] %s (%d edits)\n",
				item.Title, item.ID, location, item.EditCount)
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(os.Stderr, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(os.Stderr, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(os.Stderr, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}
}
