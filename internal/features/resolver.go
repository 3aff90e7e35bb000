package features

import (
	"strings"

	kiterrors "github.com/conneroisu/balkit/internal/errors"
)

// Options are the raw selections made on the command line.
type Options struct {
	Bootstrap bool
	Alpine    bool
	Livewire  bool
	Sass      bool
	Auth      bool
	Preset    string
}

// HasSelection reports whether any flag or a preset was supplied.
func (o Options) HasSelection() bool {
	return o.Bootstrap || o.Alpine || o.Livewire || o.Sass || o.Auth || strings.TrimSpace(o.Preset) != ""
}

// Resolve turns options into a FeatureSet.
//
// A preset takes precedence over individual flags. An unknown preset yields a
// configuration error and an empty set. With neither flags nor a preset the
// result is an empty set and a nil error; callers treat that as nothing to do.
func Resolve(opts Options, presets map[string]Preset) (FeatureSet, error) {
	if name := strings.TrimSpace(opts.Preset); name != "" {
		preset, ok := presets[name]
		if !ok {
			return FeatureSet{}, kiterrors.ErrUnknownPreset(name, PresetNames(presets))
		}
		return preset.Features.Clone(), nil
	}

	fs := FeatureSet{}
	flags := map[Component]bool{
		Bootstrap: opts.Bootstrap,
		Alpine:    opts.Alpine,
		Livewire:  opts.Livewire,
		Sass:      opts.Sass,
		Auth:      opts.Auth,
	}
	for _, c := range All {
		if flags[c] {
			fs[c] = true
		}
	}
	return fs, nil
}
