package installer

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/conneroisu/balkit/internal/runner"
	"github.com/conneroisu/balkit/internal/stubs"
	"github.com/conneroisu/balkit/internal/toolchain"
)

// Issue names reported by Diagnose.
const (
	IssueSassMissing         = "SASS directory missing"
	IssueJavaScriptMissing   = "BAL Kit JavaScript missing"
	IssueWelcomeIncompatible = "Welcome page incompatible with BAL Kit"
	IssueLayoutNotSass       = "Layout not using SASS assets"
)

// Diagnose runs the verify checks without fixing anything.
func (in *Installer) Diagnose(ctx context.Context) []Issue {
	var issues []Issue

	if !in.isDir(stubs.SassDestination) {
		issues = append(issues, Issue{
			Name:        IssueSassMissing,
			Description: stubs.SassDestination + " does not exist",
			Path:        stubs.SassDestination,
			fix:         in.installSass,
		})
	}

	if !in.exists(stubs.JSBootstrap.Destination) {
		issues = append(issues, Issue{
			Name:        IssueJavaScriptMissing,
			Description: stubs.JSBootstrap.Destination + " does not exist",
			Path:        stubs.JSBootstrap.Destination,
			fix:         in.installJavaScript,
		})
	}

	welcome := stubs.Welcome.Destination
	if content, err := afero.ReadFile(in.fs, welcome); err == nil {
		if marker, found := toolchain.Page.IncompatibleMarker(content); found {
			issues = append(issues, Issue{
				Name:        IssueWelcomeIncompatible,
				Description: fmt.Sprintf("%s references %q", welcome, marker),
				Path:        welcome,
				fix:         in.createWelcomePage,
			})
		}
	}

	layout := stubs.Layout.Destination
	if content, err := afero.ReadFile(in.fs, layout); err == nil {
		if !strings.Contains(string(content), toolchain.SassEntry) {
			issues = append(issues, Issue{
				Name:        IssueLayoutNotSass,
				Description: fmt.Sprintf("%s does not reference %s", layout, toolchain.SassEntry),
				Path:        layout,
				fix:         in.fixLayout,
			})
		}
	}

	in.logger.Debug(ctx, "Diagnosed host", "issues", len(issues))
	return issues
}

// Fix remediates issues and reports what was done.
func (in *Installer) Fix(ctx context.Context, issues []Issue) *Report {
	r := NewReport(in.printer)
	r.Performed = len(issues) > 0
	in.remediate(ctx, r, issues)
	return r
}

func (in *Installer) remediate(ctx context.Context, r *Report, issues []Issue) {
	for _, issue := range issues {
		if ctx.Err() != nil {
			return
		}
		in.logger.Info(ctx, "Auto-fixing issue", "issue", issue.Name, "path", issue.Path)
		issue.Remediate(ctx, r)
		r.Issues = append(r.Issues, issue)
	}
}

// verifyAndFix checks the result of the run, fixes what it can and finishes
// with a silent build.
func (in *Installer) verifyAndFix(ctx context.Context, r *Report) {
	r.info("Verifying installation and auto-fixing issues...")

	issues := in.Diagnose(ctx)
	in.remediate(ctx, r, issues)

	if len(issues) == 0 {
		r.info("All checks passed! BAL Kit is properly installed.")
	} else {
		r.info(fmt.Sprintf("Auto-fixed %d issues:", len(issues)))
		for _, issue := range issues {
			r.comment("  - " + issue.Name)
		}
	}

	in.testBuild(ctx, r)
}

// fixLayout applies the reconcile rule: only a layout carrying incompatible
// markers is restored, after a backup.
func (in *Installer) fixLayout(ctx context.Context, r *Report) {
	path := stubs.Layout.Destination
	if content, err := afero.ReadFile(in.fs, path); err == nil {
		if _, found := toolchain.Layout.IncompatibleMarker(content); found {
			dst, err := in.copyAside(path, BackupSuffix)
			if err != nil {
				in.ioWarning(ctx, r, phaseVerify, path, err)
				return
			}
			r.comment("Backed up " + path + " to " + dst)
		}
	}
	in.ensureLayout(ctx, r, phaseVerify)
}

// testBuild runs the configured build command silently.
func (in *Installer) testBuild(ctx context.Context, r *Report) {
	cmd := runner.Parse(in.config.Install.BuildCommand).Quiet()
	if cmd.Name == "" {
		return
	}

	r.comment("Testing asset compilation...")
	if _, err := in.runner.Run(ctx, cmd); err != nil {
		r.Notices.Warn(phaseVerify, err)
		in.logger.Debug(ctx, "Build failed", "command", cmd.String(), "error", err)
		r.warn(fmt.Sprintf("Asset compilation failed. Run %q to see details.", cmd.String()))
		r.comment("This might be due to missing node_modules. Try: " + runner.NPMInstall.String())
		return
	}
	r.info("Assets compile successfully!")
}
