package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/conneroisu/balkit/internal/config"
	kiterrors "github.com/conneroisu/balkit/internal/errors"
	"github.com/conneroisu/balkit/internal/installer"
	"github.com/conneroisu/balkit/internal/stubs"
	"github.com/conneroisu/balkit/internal/watcher"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check an installation and optionally repair it",
	Long: heredoc.Doc(`
		Run the checks install finishes with, without installing anything:

		- the SASS directory exists
		- the BAL Kit JavaScript is in place
		- the welcome page does not reference the Tailwind toolchain
		- the layout loads the SASS entry point

		Examples:
		  balkit doctor                    # Report problems
		  balkit doctor --fix              # Repair them, backing up first
		  balkit doctor --fix --watch      # Keep the application healthy while editing
	`),
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

var (
	doctorFix   bool
	doctorWatch bool
)

// doctorDebounce groups editor saves into one check.
const doctorDebounce = 300 * time.Millisecond

// watchedPaths are the host directories doctor --watch observes.
var watchedPaths = []string{
	"resources/views",
	"resources/views/layouts",
	"resources/js",
	stubs.SassDestination,
	".",
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Automatically fix the issues found")
	doctorCmd.Flags().BoolVar(&doctorWatch, "watch", false, "Re-run the checks when application files change")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	in := installer.New(installer.Options{
		Fs:      s.fs,
		Runner:  newRunner(s.dir, s.logger),
		Printer: s.printer,
		Logger:  s.logger,
		Config:  s.config,
	})

	reportConfiguration(s)
	remaining := checkInstallation(ctx, s, in)
	if !doctorWatch {
		if remaining > 0 {
			return kiterrors.NewValidationError(kiterrors.ErrCodeValidationFailed,
				fmt.Sprintf("%d issues found, run with --fix to repair them", remaining))
		}
		return nil
	}

	return watchInstallation(ctx, s, in)
}

// reportConfiguration prints configuration warnings. Errors cannot occur
// here: Load already rejected an invalid configuration.
func reportConfiguration(s *session) {
	result := config.ValidateConfigWithDetails(s.fs, s.config)
	for _, warning := range result.Warnings {
		s.printer.Warn(fmt.Sprintf("Configuration: %s: %s", warning.Field, warning.Message))
		for _, hint := range warning.Suggestions {
			s.printer.Line("   " + hint)
		}
	}
}

// checkInstallation prints the issues found, fixes them when --fix is set,
// and returns how many are left.
func checkInstallation(ctx context.Context, s *session, in *installer.Installer) int {
	issues := in.Diagnose(ctx)
	if len(issues) == 0 {
		s.printer.Info("All checks passed! BAL Kit is properly installed.")
		return 0
	}

	s.printer.Warn(fmt.Sprintf("Found %d issues:", len(issues)))
	for _, issue := range issues {
		s.printer.Line(fmt.Sprintf("  - %s: %s", issue.Name, issue.Description))
	}
	if !doctorFix {
		return len(issues)
	}

	s.printer.NewLine()
	report := in.Fix(ctx, issues)
	left := len(in.Diagnose(ctx))
	s.printer.Info(fmt.Sprintf("Fixed %d issues", len(report.Issues)-left))
	return left
}

func watchInstallation(ctx context.Context, s *session, in *installer.Installer) error {
	fw, err := watcher.NewFileWatcher(s.dir, doctorDebounce, s.logger)
	if err != nil {
		return err
	}
	defer fw.Stop()

	fw.AddFilter(watcher.AssetFilter)
	fw.AddFilter(watcher.NoBackupFilter)
	fw.AddFilter(watcher.NoDependencyFilter)

	watched, err := fw.AddPaths(watchedPaths...)
	if err != nil {
		return err
	}

	fw.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		s.printer.NewLine()
		s.printer.Comment(fmt.Sprintf("%d files changed, checking again...", len(events)))
		checkInstallation(ctx, s, in)
		return nil
	})

	if err := fw.Start(ctx); err != nil {
		return err
	}

	s.printer.NewLine()
	s.printer.Comment(fmt.Sprintf("Watching %d directories for changes. Press Ctrl+C to stop.", len(watched)))
	<-ctx.Done()
	s.printer.Comment("Stopped watching")
	return nil
}
