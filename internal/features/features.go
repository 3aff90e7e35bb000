// Package features resolves what an install run should do.
//
// A FeatureSet maps each Component to whether it is enabled. It is built
// either from individual command-line flags or by looking up a named Preset
// from configuration.
package features

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Component is one optional piece of the front-end stack.
type Component string

const (
	Bootstrap Component = "bootstrap"
	Alpine    Component = "alpine"
	Livewire  Component = "livewire"
	Sass      Component = "sass"
	Auth      Component = "auth"
)

// All lists every component in installation order.
var All = []Component{Bootstrap, Alpine, Livewire, Sass, Auth}

// PackageComponents are the components installed through a package manager.
var PackageComponents = []Component{Bootstrap, Alpine, Livewire, Sass}

var displayNames = map[Component]string{
	Alpine: "Alpine.js",
	Sass:   "SASS",
}

// ParseComponent converts a name to a Component.
func ParseComponent(name string) (Component, error) {
	c := Component(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range All {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown component %q (valid: %s)", name, strings.Join(Names(), ", "))
}

// Names returns the component names in installation order.
func Names() []string {
	names := make([]string, len(All))
	for i, c := range All {
		names[i] = string(c)
	}
	return names
}

// DisplayName returns the human readable name of the component.
func (c Component) DisplayName() string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return cases.Title(language.English).String(string(c))
}

// FeatureSet maps components to whether they are enabled. A component that
// is absent from the map is disabled.
type FeatureSet map[Component]bool

// NewFeatureSet returns a set with the given components enabled and every
// other component explicitly disabled.
func NewFeatureSet(enabled ...Component) FeatureSet {
	fs := make(FeatureSet, len(All))
	for _, c := range All {
		fs[c] = false
	}
	for _, c := range enabled {
		fs[c] = true
	}
	return fs
}

// Enabled reports whether c is enabled.
func (fs FeatureSet) Enabled(c Component) bool {
	return fs[c]
}

// Empty reports whether no component is enabled.
func (fs FeatureSet) Empty() bool {
	for _, on := range fs {
		if on {
			return false
		}
	}
	return true
}

// EnabledComponents returns the enabled components in installation order.
func (fs FeatureSet) EnabledComponents() []Component {
	var out []Component
	for _, c := range All {
		if fs[c] {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns an independent copy.
func (fs FeatureSet) Clone() FeatureSet {
	out := make(FeatureSet, len(fs))
	for k, v := range fs {
		out[k] = v
	}
	return out
}

// String renders the enabled components, e.g. "bootstrap, alpine".
func (fs FeatureSet) String() string {
	enabled := fs.EnabledComponents()
	if len(enabled) == 0 {
		return "none"
	}
	names := make([]string, len(enabled))
	for i, c := range enabled {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// Preset is a named, immutable FeatureSet.
type Preset struct {
	Name     string
	Features FeatureSet
}

// DefaultPresets returns the presets that ship with balkit.
func DefaultPresets() map[string]Preset {
	return map[string]Preset{
		"minimal": {
			Name:     "minimal",
			Features: NewFeatureSet(Bootstrap, Alpine),
		},
		"standard": {
			Name:     "standard",
			Features: NewFeatureSet(Bootstrap, Alpine, Livewire, Sass),
		},
		"full": {
			Name:     "full",
			Features: NewFeatureSet(Bootstrap, Alpine, Livewire, Sass, Auth),
		},
	}
}

// PresetNames returns the sorted preset names.
func PresetNames(presets map[string]Preset) []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
