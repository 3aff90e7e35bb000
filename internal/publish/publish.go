// Package publish exports the bundled BAL Kit resources into a host
// application under named tags.
package publish

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/conneroisu/balkit/internal/config"
	kiterrors "github.com/conneroisu/balkit/internal/errors"
	"github.com/conneroisu/balkit/internal/logging"
	"github.com/conneroisu/balkit/internal/stubs"
	"github.com/conneroisu/balkit/internal/version"
)

// Tag names.
const (
	TagConfig     = "bal-kit-config"
	TagStubs      = "bal-kit-stubs"
	TagSass       = "bal-kit-sass"
	TagJS         = "bal-kit-js"
	TagLayouts    = "bal-kit-layouts"
	TagComponents = "bal-kit-components"
	TagAuth       = "bal-kit-auth"
	TagPages      = "bal-kit-pages"
	TagVite       = "bal-kit-vite"

	// TagAll publishes config and stubs together. It is accepted but not listed.
	TagAll = "bal-kit"
)

// Entry maps a template path to its destination in the host. Dir entries
// copy a whole template directory.
type Entry struct {
	Source      string
	Destination string
	Dir         bool
}

// Tag is a named group of publishable resources.
type Tag struct {
	Name        string
	Description string
	Entries     []Entry
	// Config marks the tag that writes the configuration file.
	Config bool
}

var registry = []Tag{
	{
		Name:        TagConfig,
		Description: "Configuration file (" + config.FileName + ")",
		Config:      true,
	},
	{
		Name:        TagStubs,
		Description: "All templates, editable copies used by install",
		Entries:     []Entry{{Source: ".", Destination: stubs.PublishedDir, Dir: true}},
	},
	{
		Name:        TagSass,
		Description: "SASS 7-1 architecture files",
		Entries:     []Entry{{Source: stubs.SassSource, Destination: stubs.SassDestination, Dir: true}},
	},
	{
		Name:        TagJS,
		Description: "JavaScript entry point and Bootstrap/Alpine setup",
		Entries:     []Entry{{Source: "js", Destination: "resources/js", Dir: true}},
	},
	{
		Name:        TagLayouts,
		Description: "Blade layout using the SASS assets",
		Entries:     []Entry{{Source: "layouts", Destination: "resources/views/layouts", Dir: true}},
	},
	{
		Name:        TagComponents,
		Description: "Example Livewire counter component",
		Entries: []Entry{
			{Source: "components/Counter.php", Destination: "app/Livewire/Counter.php"},
			{Source: "components/counter.blade.php", Destination: "resources/views/livewire/counter.blade.php"},
		},
	},
	{
		Name:        TagAuth,
		Description: "Login and registration views",
		Entries:     []Entry{{Source: "auth", Destination: "resources/views/auth", Dir: true}},
	},
	{
		Name:        TagPages,
		Description: "Welcome page",
		Entries:     []Entry{{Source: stubs.Welcome.Source, Destination: stubs.Welcome.Destination}},
	},
	{
		Name:        TagVite,
		Description: "Vite configuration compiling the SASS entry",
		Entries:     []Entry{{Source: stubs.ViteConfig.Source, Destination: stubs.ViteConfig.Destination}},
	},
}

// Tags returns the listed tags in registration order.
func Tags() []Tag {
	out := make([]Tag, len(registry))
	copy(out, registry)
	return out
}

// Lookup resolves a tag name to the tags it publishes.
func Lookup(name string) ([]Tag, error) {
	if name == TagAll {
		cfgTag, _ := find(TagConfig)
		stubsTag, _ := find(TagStubs)
		return []Tag{cfgTag, stubsTag}, nil
	}
	if tag, ok := find(name); ok {
		return []Tag{tag}, nil
	}
	return nil, kiterrors.ErrUnknownTag(name).WithSuggestions("Available tags: " + joinNames())
}

func find(name string) (Tag, bool) {
	for _, tag := range registry {
		if tag.Name == name {
			return tag, true
		}
	}
	return Tag{}, false
}

func joinNames() string {
	names := make([]string, 0, len(registry))
	for _, tag := range registry {
		names = append(names, tag.Name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Result lists the host paths a publish wrote and the ones it left alone.
type Result struct {
	Written []string
	Skipped []string
}

func (r *Result) merge(other Result) {
	r.Written = append(r.Written, other.Written...)
	r.Skipped = append(r.Skipped, other.Skipped...)
}

// Publisher writes tags into a host filesystem.
type Publisher struct {
	fs     afero.Fs
	copier *stubs.Copier
	config *config.Config
	logger logging.Logger
}

// NewPublisher creates a publisher copying from the bundled templates. cfg
// is rendered by the config tag; nil renders the defaults.
func NewPublisher(host afero.Fs, cfg *config.Config, logger logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &Publisher{
		fs:     host,
		copier: stubs.NewCopier(stubs.Embedded(), host, logger),
		config: cfg,
		logger: logger.WithComponent("publish"),
	}
}

// Publish writes every resource of the named tag. Existing files are kept
// unless force is set.
func (p *Publisher) Publish(ctx context.Context, name string, force bool) (Result, error) {
	tags, err := Lookup(name)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for _, tag := range tags {
		r, err := p.publishTag(ctx, tag, force)
		result.merge(r)
		if err != nil {
			return result, err
		}
	}
	p.logger.Debug(ctx, "Published tag", "tag", name, "written", len(result.Written), "skipped", len(result.Skipped))
	return result, nil
}

func (p *Publisher) publishTag(ctx context.Context, tag Tag, force bool) (Result, error) {
	var result Result

	if tag.Config {
		written, err := p.writeConfig(force)
		if err != nil {
			return result, err
		}
		if written {
			result.Written = append(result.Written, config.FileName)
		} else {
			result.Skipped = append(result.Skipped, config.FileName)
		}
	}

	opts := stubs.CopyOptions{SkipExisting: !force}
	for _, entry := range tag.Entries {
		if entry.Dir {
			tree, err := p.copier.CopyTree(ctx, entry.Source, entry.Destination, opts)
			if err != nil {
				return result, err
			}
			result.Written = append(result.Written, tree.Written...)
			result.Skipped = append(result.Skipped, tree.Kept...)
			result.Skipped = append(result.Skipped, tree.Unchanged...)
			continue
		}

		outcome, err := p.copier.CopyFile(ctx, entry.Source, entry.Destination, opts)
		if err != nil {
			return result, err
		}
		switch outcome {
		case stubs.Written:
			result.Written = append(result.Written, entry.Destination)
		case stubs.Kept, stubs.Unchanged:
			result.Skipped = append(result.Skipped, entry.Destination)
		}
	}

	return result, nil
}

func (p *Publisher) writeConfig(force bool) (bool, error) {
	exists, err := afero.Exists(p.fs, config.FileName)
	if err != nil {
		return false, kiterrors.WrapIO(err, config.FileName, "failed to stat configuration file")
	}
	if exists && !force {
		return false, nil
	}

	cfg := *p.config
	cfg.Version = version.Current()
	data, err := cfg.Marshal()
	if err != nil {
		return false, err
	}
	if err := afero.WriteFile(p.fs, config.FileName, data, os.FileMode(0o644)); err != nil {
		return false, kiterrors.WrapIO(err, config.FileName, "failed to write configuration file")
	}
	return true, nil
}
