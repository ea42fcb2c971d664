package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"equate/internal/markers"
)

var markersCmd = &cobra.Command{
	Use:   "markers",
	Short: "Show the active marker registry",
	Long:  "Print the marker names the expansion pipeline recognizes, including the framework-state allow-list from the --markers config.",
	Args:  cobra.NoArgs,
	RunE:  runMarkers,
}

func init() {
	markersCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type markersPayload struct {
	Namespace      string   `json:"namespace"`
	Exclusion      string   `json:"exclusion"`
	ExternalBind   string   `json:"external_binding"`
	FnAllowance    string   `json:"fn_allowance"`
	FrameworkState []string `json:"framework_state"`
}

func runMarkers(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	registry, err := loadRegistry(cmd)
	if err != nil {
		return err
	}

	payload := markersPayload{
		Namespace:      registry.Namespace(),
		Exclusion:      markers.SkipCompare,
		ExternalBind:   markers.ExternalBinding,
		FnAllowance:    markers.UnsafeFnCompare,
		FrameworkState: registry.FrameworkStateNames(),
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "pretty":
		fmt.Printf("namespace: %s\n", payload.Namespace)
		fmt.Printf("exclusion: @%s\n", payload.Exclusion)
		fmt.Printf("external binding: @%s\n", payload.ExternalBind)
		fmt.Printf("function allowance: @%s\n", payload.FnAllowance)
		fmt.Println("framework state:")
		for _, name := range payload.FrameworkState {
			fmt.Printf("  @%s (also @%s::%s)\n", name, payload.Namespace, name)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}
