// Package markers categorizes field annotations for the comparison policy.
// The Framework-State set is a closed allow-list injected at construction so
// new framework markers can be added without touching policy logic.
package markers

import (
	"sort"
	"strings"
)

// Category is the policy role a marker plays.
type Category uint8

const (
	// CategoryNone: the marker has no comparison-policy meaning.
	CategoryNone Category = iota
	// CategoryExclusion removes a field from generated comparisons.
	CategoryExclusion
	// CategoryFrameworkState marks externally managed state; auto-excluded.
	CategoryFrameworkState
	// CategoryExternalBinding marks a field whose storage is proxied
	// elsewhere; incompatible with exclusion.
	CategoryExternalBinding
	// CategoryFnAllowance permits a function-valued field to be dropped
	// from comparison while staying in the aggregate.
	CategoryFnAllowance
)

func (c Category) String() string {
	switch c {
	case CategoryExclusion:
		return "exclusion"
	case CategoryFrameworkState:
		return "framework-state"
	case CategoryExternalBinding:
		return "external-binding"
	case CategoryFnAllowance:
		return "fn-allowance"
	}
	return "none"
}

// Fixed marker spellings. These are part of the engine's contract with the
// host language and are not configurable.
const (
	SkipCompare     = "skip_compare"
	ExternalBinding = "external_binding"
	UnsafeFnCompare = "unsafe_fn_compare"
)

// DefaultFrameworkNamespace qualifies framework-state markers
// (reactive::tracked_state).
const DefaultFrameworkNamespace = "reactive"

// DefaultFrameworkState is the built-in closed list of framework-state
// markers, matched bare or namespace-qualified.
var DefaultFrameworkState = []string{
	"tracked_state",
	"ignored_state",
	"projected_state",
}

// Registry resolves marker names to categories.
type Registry struct {
	namespace      string
	frameworkState map[string]struct{}
}

// NewRegistry builds a registry with the given framework namespace and
// framework-state allow-list. Empty arguments fall back to the defaults.
func NewRegistry(namespace string, frameworkState []string) *Registry {
	if namespace == "" {
		namespace = DefaultFrameworkNamespace
	}
	if len(frameworkState) == 0 {
		frameworkState = DefaultFrameworkState
	}
	set := make(map[string]struct{}, len(frameworkState))
	for _, name := range frameworkState {
		set[name] = struct{}{}
	}
	return &Registry{namespace: namespace, frameworkState: set}
}

// Default returns a registry with the built-in framework-state list.
func Default() *Registry {
	return NewRegistry("", nil)
}

// Namespace returns the framework namespace the registry matches.
func (r *Registry) Namespace() string {
	return r.namespace
}

// FrameworkStateNames returns the allow-list in sorted order.
func (r *Registry) FrameworkStateNames() []string {
	names := make([]string, 0, len(r.frameworkState))
	for name := range r.frameworkState {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Categorize maps a marker name to its policy category. Framework-state
// markers match bare or qualified by the framework namespace; all other
// markers match their exact spelling only.
func (r *Registry) Categorize(name string) Category {
	switch name {
	case SkipCompare:
		return CategoryExclusion
	case ExternalBinding:
		return CategoryExternalBinding
	case UnsafeFnCompare:
		return CategoryFnAllowance
	}

	base := name
	if ns, rest, ok := strings.Cut(name, "::"); ok {
		if ns != r.namespace {
			return CategoryNone
		}
		base = rest
	}
	if _, ok := r.frameworkState[base]; ok {
		return CategoryFrameworkState
	}
	return CategoryNone
}
