package installer

import (
	"context"
	"path/filepath"

	"github.com/conneroisu/balkit/internal/features"
	"github.com/conneroisu/balkit/internal/manifest"
	"github.com/conneroisu/balkit/internal/runner"
	"github.com/conneroisu/balkit/internal/stubs"
)

const livewirePackage = "livewire/livewire"

func (in *Installer) installPackages(ctx context.Context, r *Report, set features.FeatureSet) {
	steps := map[features.Component]func(context.Context, *Report){
		features.Bootstrap: func(ctx context.Context, r *Report) {
			in.installNPMPackage(ctx, r, features.Bootstrap, runner.NPMInstallBootstrap)
		},
		features.Alpine: func(ctx context.Context, r *Report) {
			in.installNPMPackage(ctx, r, features.Alpine, runner.NPMInstallAlpine)
		},
		features.Livewire: in.installLivewire,
		features.Sass:     in.installSass,
	}

	for _, c := range features.PackageComponents {
		if set.Enabled(c) {
			steps[c](ctx, r)
		}
	}
}

func (in *Installer) installNPMPackage(ctx context.Context, r *Report, c features.Component, cmd runner.Command) {
	r.info("Installing " + c.DisplayName() + "...")
	in.run(ctx, r, phasePackages, cmd)
	r.info(c.DisplayName() + " installed")
}

func (in *Installer) installLivewire(ctx context.Context, r *Report) {
	r.info("Installing Livewire...")

	if in.composerRequires(livewirePackage, false) {
		r.info("Livewire already installed")
	} else {
		r.info("Installing Livewire package...")
		in.run(ctx, r, phasePackages, runner.ComposerRequireLivewire)

		r.info("Refreshing Laravel command cache...")
		in.refreshFramework(ctx, r, phasePackages)
	}

	publish := runner.Artisan("livewire:publish", "--config")
	available, err := in.framework.HasCommand(ctx, "livewire:")
	switch {
	case err != nil:
		in.logger.Warn(ctx, err, "Could not list framework commands")
		r.Notices.Warn(phasePackages, err)
		r.warn("Could not publish Livewire config. You can run it manually:")
		r.line("  " + publish.String())
	case available:
		r.info("Publishing Livewire configuration...")
		in.call(ctx, r, phasePackages, publish, in.framework.PublishLivewireConfig)
	default:
		r.warn("Livewire commands not yet available. You can publish config manually:")
		r.line("  " + publish.String())
	}

	r.info("Livewire installed")
}

// composerRequires reports whether composer.json lists pkg in require, or
// also in require-dev when dev is set. A missing or invalid composer.json
// requires nothing.
func (in *Installer) composerRequires(pkg string, dev bool) bool {
	m, err := manifest.Load(in.fs, manifest.ComposerFile)
	if err != nil {
		return false
	}
	if dev {
		return m.RequiresAny(pkg)
	}
	return m.Requires(pkg)
}

// installSass installs the compiler and materializes the 7-1 tree.
func (in *Installer) installSass(ctx context.Context, r *Report) {
	r.info("Setting up SASS with 7-1 architecture...")

	in.run(ctx, r, phasePackages, runner.NPMInstallSass)

	for _, dir := range in.config.Sass.Directories {
		path := filepath.Join(stubs.SassDestination, dir)
		if err := in.fs.MkdirAll(path, 0o755); err != nil {
			in.ioWarning(ctx, r, phasePackages, path, err)
		}
	}

	opts := stubs.CopyOptions{SkipExisting: !in.force}
	result, err := in.copier.CopyTree(ctx, stubs.SassSource, stubs.SassDestination, opts)
	if err != nil {
		in.ioWarning(ctx, r, phasePackages, stubs.SassDestination, err)
	}
	in.logger.Debug(ctx, "Copied SASS templates",
		"written", len(result.Written), "unchanged", len(result.Unchanged), "kept", len(result.Kept))

	r.info("SASS configured with 7-1 architecture")
}
