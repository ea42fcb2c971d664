package markers

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ErrEmptyFrameworkState indicates a config that defines [markers] but lists
// no framework-state markers.
var ErrEmptyFrameworkState = errors.New("[markers].framework_state is empty")

type configFile struct {
	Markers markersSection `toml:"markers"`
}

type markersSection struct {
	Namespace      string   `toml:"namespace"`
	FrameworkState []string `toml:"framework_state"`
}

// LoadConfig reads a marker allow-list from a TOML file:
//
//	[markers]
//	namespace = "reactive"
//	framework_state = ["tracked_state", "ignored_state"]
//
// A file without a [markers] section yields the default registry.
func LoadConfig(path string) (*Registry, error) {
	var cfg configFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("markers") {
		return Default(), nil
	}
	if meta.IsDefined("markers", "framework_state") && len(cfg.Markers.FrameworkState) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyFrameworkState)
	}
	return NewRegistry(cfg.Markers.Namespace, cfg.Markers.FrameworkState), nil
}
