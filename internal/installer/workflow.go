// Package installer runs the BAL Kit install workflow against a host
// application.
//
// The workflow is a fixed sequence of phases: backup, package installs,
// foundation, auth, reconciliation and verify. Which phases do work depends
// only on the selected features. Every step is idempotent and no failure is
// fatal: subprocess and I/O errors become warnings in the Report and the run
// continues. Re-running the workflow is the recovery path.
package installer

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/conneroisu/balkit/internal/config"
	"github.com/conneroisu/balkit/internal/console"
	kiterrors "github.com/conneroisu/balkit/internal/errors"
	"github.com/conneroisu/balkit/internal/features"
	"github.com/conneroisu/balkit/internal/framework"
	"github.com/conneroisu/balkit/internal/logging"
	"github.com/conneroisu/balkit/internal/prompt"
	"github.com/conneroisu/balkit/internal/runner"
	"github.com/conneroisu/balkit/internal/stubs"
)

// Phase names, used for logging and notices.
const (
	phaseBackup     = "backup"
	phasePackages   = "packages"
	phaseFoundation = "foundation"
	phaseAuth       = "auth"
	phaseReconcile  = "reconcile"
	phaseVerify     = "verify"
)

// Options configures an Installer. Fs and Runner are required; everything
// else has a default.
type Options struct {
	// Fs is the host application rooted at its base path.
	Fs afero.Fs
	// Templates overrides the template tree. When nil the tree is resolved
	// from Config.Stubs.Path, the published stubs, then the embedded files.
	Templates fs.FS
	Runner    runner.Runner
	// Framework defaults to `php artisan` through Runner.
	Framework framework.Framework
	// Prompter asks the auth question. Nil never prompts.
	Prompter prompt.Prompter
	// Printer streams messages as they are produced. Nil only records them.
	Printer *console.Printer
	Logger  logging.Logger
	Config  *config.Config
	// Now is the clock used for backup timestamps.
	Now func() time.Time

	// Force overwrites files that are otherwise kept.
	Force bool
	// AuthMode is breeze, views or empty to use config and then the prompt.
	AuthMode string
}

// Installer runs the install workflow.
type Installer struct {
	fs        afero.Fs
	copier    *stubs.Copier
	runner    runner.Runner
	framework framework.Framework
	prompter  prompt.Prompter
	printer   *console.Printer
	logger    logging.Logger
	config    *config.Config
	now       func() time.Time
	force     bool
	authMode  string
}

// New creates an Installer.
func New(opts Options) *Installer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.WithComponent("installer")

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	templates := opts.Templates
	if templates == nil {
		var dir string
		templates, dir = stubs.Resolve(opts.Fs, cfg.Stubs.Path)
		if dir != "" {
			logger.Debug(context.Background(), "Using template override", "dir", dir)
		}
	}

	fw := opts.Framework
	if fw == nil {
		fw = framework.NewArtisan(opts.Runner)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	authMode := strings.ToLower(strings.TrimSpace(opts.AuthMode))
	if authMode == "" {
		authMode = cfg.Install.AuthMode
	}

	return &Installer{
		fs:        opts.Fs,
		copier:    stubs.NewCopier(templates, opts.Fs, logger),
		runner:    opts.Runner,
		framework: fw,
		prompter:  opts.Prompter,
		printer:   opts.Printer,
		logger:    logger,
		config:    cfg,
		now:       now,
		force:     opts.Force,
		authMode:  authMode,
	}
}

// Install resolves the selection and runs the workflow. Selecting nothing or
// an unknown preset is reported without touching the host.
func (in *Installer) Install(ctx context.Context, sel features.Options) *Report {
	r := NewReport(in.printer)
	sel.Preset = strings.TrimSpace(sel.Preset)

	r.info("Installing BAL Kit for Laravel...")
	r.newLine()

	presets := in.config.PresetMap()
	set, err := features.Resolve(sel, presets)
	if err != nil {
		r.error("Unknown preset: " + sel.Preset)
		for _, hint := range kiterrors.Suggestions(err) {
			r.info(hint)
		}
		r.Notices.Add(kiterrors.Notice{Err: err, Severity: kiterrors.SeverityError, Phase: "resolve"})
		in.logger.Debug(ctx, "Preset resolution failed", "preset", sel.Preset, "error", err)
		return r
	}

	if sel.Preset != "" {
		r.info(fmt.Sprintf("Installing '%s' preset...", sel.Preset))
		r.newLine()
	} else if !sel.HasSelection() {
		r.info("No components specified. Use --bootstrap, --alpine, --livewire, --sass, or --auth")
		r.info("   Or use a preset: --preset=" + strings.Join(features.PresetNames(presets), "|"))
		return r
	}

	in.runPhases(ctx, set, r)
	if ctx.Err() == nil {
		in.completionMessage(r)
	}
	return r
}

// Run executes every phase for set.
func (in *Installer) Run(ctx context.Context, set features.FeatureSet) *Report {
	r := NewReport(in.printer)
	in.runPhases(ctx, set, r)
	return r
}

func (in *Installer) runPhases(ctx context.Context, set features.FeatureSet, r *Report) {
	in.logger.Info(ctx, "Starting install", "features", set.String(), "force", in.force)
	r.Performed = true

	phases := []struct {
		name string
		run  func(context.Context, *Report)
		skip bool
	}{
		{phaseBackup, in.backupExistingFiles, false},
		{phasePackages, func(ctx context.Context, r *Report) { in.installPackages(ctx, r, set) }, false},
		{phaseFoundation, in.installFoundation, false},
		{phaseAuth, in.installAuth, !set.Enabled(features.Auth)},
		{phaseReconcile, in.reconcile, false},
		{phaseVerify, func(ctx context.Context, r *Report) { in.verifyAndFix(ctx, r) }, false},
	}

	for _, phase := range phases {
		if phase.skip {
			continue
		}
		if err := ctx.Err(); err != nil {
			r.warn("Installation interrupted before the " + phase.name + " phase")
			r.Notices.Warn(phase.name, err)
			return
		}
		op := logging.StartOperation(in.logger, "install."+phase.name)
		phase.run(ctx, r)
		op.End(ctx)
	}
}

// run executes a command, downgrading a failure to a warning. It reports
// whether the command succeeded.
func (in *Installer) run(ctx context.Context, r *Report, phase string, cmd runner.Command) bool {
	if _, err := in.runner.Run(ctx, cmd); err != nil {
		r.warn("Command failed: " + cmd.String())
		r.Notices.Warn(phase, err)
		in.logger.Warn(ctx, err, "Command failed", "command", cmd.String())
		return false
	}
	return true
}

// call runs a framework operation like run does for plain commands.
func (in *Installer) call(ctx context.Context, r *Report, phase string, cmd runner.Command, op func(context.Context) error) bool {
	if err := op(ctx); err != nil {
		r.warn("Command failed: " + cmd.String())
		r.Notices.Warn(phase, err)
		in.logger.Warn(ctx, err, "Framework command failed", "command", cmd.String())
		return false
	}
	return true
}

// refreshFramework makes commands from freshly required packages visible.
func (in *Installer) refreshFramework(ctx context.Context, r *Report, phase string) {
	in.call(ctx, r, phase, runner.Artisan("config:clear"), in.framework.ClearConfig)
	in.call(ctx, r, phase, runner.Artisan("package:discover"), in.framework.DiscoverPackages)
}

// ioWarning records an I/O failure on path.
func (in *Installer) ioWarning(ctx context.Context, r *Report, phase, path string, err error) {
	r.Notices.Warn(phase, err)
	in.logger.Warn(ctx, err, "File operation failed", "phase", phase, "path", path)
	r.warn(fmt.Sprintf("Could not update %s: %s", path, kiterrors.FormatError(err)))
}

func (in *Installer) completionMessage(r *Report) {
	r.newLine()
	r.info("BAL Kit installation completed!")
	r.newLine()

	r.comment("Next steps:")
	r.line("  1. Run: npm install && npm run bal:build")
	r.line("  2. Visit your application in the browser")
	r.line("  3. Start building with Bootstrap + Alpine + Livewire!")
	r.newLine()

	r.comment("Available commands:")
	r.line("  balkit publish             # Publish additional stubs")
	r.line("  npm run bal:dev            # Start development server")
	r.line("  npm run bal:build          # Build for production")
}
