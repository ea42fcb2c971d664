package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"equate/internal/markers"
	"equate/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "equate",
	Short: "Comparison companion synthesizer",
	Long:  `equate expands comparison markers over parsed declarations: it validates field markers, orders the comparable fields, and emits equality and hash companions`,
}

func main() {
	rootCmd.Version = version.Version
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(markersCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("markers", "", "path to a TOML marker allow-list")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func colorEnabled(cmd *cobra.Command, f *os.File) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("unsupported color mode %q (must be auto, on, or off)", mode)
	}
}

// loadRegistry resolves the marker registry from the --markers flag, falling
// back to the built-in defaults.
func loadRegistry(cmd *cobra.Command) (*markers.Registry, error) {
	path, err := cmd.Root().PersistentFlags().GetString("markers")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return markers.Default(), nil
	}
	return markers.LoadConfig(path)
}
