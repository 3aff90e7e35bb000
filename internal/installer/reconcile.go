package installer

import (
	"context"
	"os"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/afero"

	kiterrors "github.com/conneroisu/balkit/internal/errors"
	"github.com/conneroisu/balkit/internal/manifest"
	"github.com/conneroisu/balkit/internal/runner"
	"github.com/conneroisu/balkit/internal/stubs"
	"github.com/conneroisu/balkit/internal/toolchain"
)

// Artifacts left in the host by the incompatible toolchain.
var (
	TailwindFiles  = []string{"tailwind.config.js", "postcss.config.js"}
	TailwindCSSDir = "resources/css"
)

// reconcile repairs what a third-party scaffolder may have overwritten.
func (in *Installer) reconcile(ctx context.Context, r *Report) {
	r.info("Cleaning up post-authentication installation...")

	in.removeTailwindArtifacts(ctx, r)
	in.ensureLayout(ctx, r, phaseReconcile)
	in.ensureViteConfig(ctx, r)
	in.ensureBootstrapInstallation(ctx, r)
}

// removeTailwindArtifacts moves the incompatible toolchain's files aside.
func (in *Installer) removeTailwindArtifacts(ctx context.Context, r *Report) {
	r.comment("Removing Tailwind CSS artifacts...")

	for _, file := range TailwindFiles {
		if !in.exists(file) {
			continue
		}
		dst, err := in.moveAside(file)
		if err != nil {
			in.ioWarning(ctx, r, phaseReconcile, file, err)
			continue
		}
		r.comment("Moved " + file + " to " + dst)
	}

	if in.isDir(TailwindCSSDir) {
		dst, err := in.moveAside(TailwindCSSDir)
		if err != nil {
			in.ioWarning(ctx, r, phaseReconcile, TailwindCSSDir, err)
			return
		}
		r.comment("Moved " + TailwindCSSDir + " to " + dst + " (using SASS instead)")
	}
}

// ensureLayout restores a layout that carries incompatible markers and
// creates a missing one. Any other layout is left untouched.
func (in *Installer) ensureLayout(ctx context.Context, r *Report, phase string) {
	path := stubs.Layout.Destination

	content, err := afero.ReadFile(in.fs, path)
	if err != nil {
		if !os.IsNotExist(err) {
			in.ioWarning(ctx, r, phase, path, kiterrors.WrapIO(err, path, "failed to read layout"))
			return
		}
		if in.copy(ctx, r, phase, stubs.Layout) == stubs.Written {
			r.comment("BAL Kit layout created")
		}
		return
	}

	marker, found := toolchain.Layout.IncompatibleMarker(content)
	if !found {
		return
	}
	in.logger.Debug(ctx, "Incompatible layout detected", "error", kiterrors.NewIncompatibleError(path, marker))

	r.comment("Restoring BAL Kit layout (Breeze overwrote it)...")
	if in.restore(ctx, r, phase, stubs.Layout, content) {
		r.comment("BAL Kit layout restored")
	}
}

// ensureViteConfig restores a bundler config that points at the CSS entry.
func (in *Installer) ensureViteConfig(ctx context.Context, r *Report) {
	path := stubs.ViteConfig.Destination

	content, err := afero.ReadFile(in.fs, path)
	if err != nil {
		return
	}
	marker, found := toolchain.Bundler.IncompatibleMarker(content)
	if !found {
		return
	}
	in.logger.Debug(ctx, "Incompatible bundler config detected", "error", kiterrors.NewIncompatibleError(path, marker))

	r.comment("Fixing Vite configuration to use SASS...")
	if in.restore(ctx, r, phaseReconcile, stubs.ViteConfig, content) {
		r.comment("Vite configuration fixed")
	}
}

// ensureBootstrapInstallation swaps the incompatible toolchain's packages for
// Bootstrap when package.json still lists any of them.
func (in *Installer) ensureBootstrapInstallation(ctx context.Context, r *Report) {
	m, err := manifest.Load(in.fs, manifest.PackageFile)
	if err != nil {
		return
	}
	if !m.HasAnyDependency(manifest.TailwindPackages...) {
		return
	}

	r.comment("Removing Tailwind packages and ensuring Bootstrap...")
	in.run(ctx, r, phaseReconcile, runner.NPMUninstallTailwind)
	in.run(ctx, r, phaseReconcile, runner.NPMInstallBootstrap)
	r.comment("Package dependencies corrected")
}

// restore overwrites tf's destination with the template and logs the
// difference against previous.
func (in *Installer) restore(ctx context.Context, r *Report, phase string, tf stubs.TemplateFile, previous []byte) bool {
	outcome, err := in.copier.Copy(ctx, tf, stubs.CopyOptions{})
	if err != nil {
		in.ioWarning(ctx, r, phase, tf.Destination, err)
		return false
	}
	if outcome != stubs.Written {
		return false
	}

	if restored, err := in.copier.Content(tf.Source); err == nil {
		diff := udiff.Unified(tf.Destination, tf.Destination, string(previous), string(restored))
		in.logger.Debug(ctx, "Restored template", "path", tf.Destination, "diff", diff)
	}
	return true
}
