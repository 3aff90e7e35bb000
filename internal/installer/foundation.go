package installer

import (
	"context"

	"github.com/spf13/afero"

	kiterrors "github.com/conneroisu/balkit/internal/errors"
	"github.com/conneroisu/balkit/internal/manifest"
	"github.com/conneroisu/balkit/internal/stubs"
	"github.com/conneroisu/balkit/internal/toolchain"
)

func (in *Installer) installFoundation(ctx context.Context, r *Report) {
	in.installJavaScript(ctx, r)
	in.updatePackageJSON(ctx, r)
	in.updateViteConfig(ctx, r)
	in.createAppLayout(ctx, r)
	in.createWelcomePage(ctx, r)
}

// copy writes a template, overwriting the destination.
func (in *Installer) copy(ctx context.Context, r *Report, phase string, tf stubs.TemplateFile) stubs.Outcome {
	outcome, err := in.copier.Copy(ctx, tf, stubs.CopyOptions{})
	if err != nil {
		in.ioWarning(ctx, r, phase, tf.Destination, err)
	}
	return outcome
}

func (in *Installer) installJavaScript(ctx context.Context, r *Report) {
	r.info("Setting up BAL Kit JavaScript utilities...")

	in.copy(ctx, r, phaseFoundation, stubs.JSApp)
	in.copy(ctx, r, phaseFoundation, stubs.JSBootstrap)

	r.info("BAL Kit JavaScript utilities installed")
}

// updatePackageJSON merges the bal:* scripts. Nothing happens when the host
// has no package.json.
func (in *Installer) updatePackageJSON(ctx context.Context, r *Report) {
	m, err := manifest.Load(in.fs, manifest.PackageFile)
	if err != nil {
		if kiterrors.IsMissingInput(err) {
			return
		}
		in.ioWarning(ctx, r, phaseFoundation, manifest.PackageFile, err)
		return
	}

	changed, err := m.MergeScripts(manifest.BalKitScripts)
	if err != nil {
		in.ioWarning(ctx, r, phaseFoundation, manifest.PackageFile, err)
		return
	}
	if !changed {
		in.logger.Debug(ctx, "package.json already has the BAL Kit scripts")
		return
	}
	if err := m.Save(in.fs); err != nil {
		in.ioWarning(ctx, r, phaseFoundation, manifest.PackageFile, err)
		return
	}

	r.info("Updated package.json")
}

// updateViteConfig replaces an existing bundler config. A host without one
// does not get one.
func (in *Installer) updateViteConfig(ctx context.Context, r *Report) {
	if !in.exists(stubs.ViteConfig.Destination) {
		return
	}
	if in.copy(ctx, r, phaseFoundation, stubs.ViteConfig) == stubs.Written {
		r.info("Updated Vite configuration")
	}
}

// createAppLayout installs the layout unless one exists and force is off.
func (in *Installer) createAppLayout(ctx context.Context, r *Report) {
	if in.exists(stubs.Layout.Destination) && !in.force {
		return
	}
	if in.copy(ctx, r, phaseFoundation, stubs.Layout) == stubs.Written {
		r.info("Created application layout")
	}
}

// createWelcomePage installs the landing page. A page that is not already
// BAL Kit's is first copied aside with the original suffix.
func (in *Installer) createWelcomePage(ctx context.Context, r *Report) {
	r.comment("Creating BAL Kit welcome page...")

	path := stubs.Welcome.Destination
	if in.exists(path) && !in.welcomeIsBalKit(path) {
		dst, err := in.copyAside(path, OriginalSuffix)
		if err != nil {
			// never replace a page that could not be saved
			in.ioWarning(ctx, r, phaseFoundation, path, err)
			return
		}
		r.comment("Backed up original welcome page to " + dst)
	}

	in.copy(ctx, r, phaseFoundation, stubs.Welcome)
	r.comment("BAL Kit welcome page created")
}

func (in *Installer) welcomeIsBalKit(path string) bool {
	if in.copier.Identical(stubs.Welcome.Source, path) {
		return true
	}
	content, err := afero.ReadFile(in.fs, path)
	if err != nil {
		return false
	}
	return toolchain.Classify(content, toolchain.Page) == toolchain.BalKit
}
