package cmd

import (
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/conneroisu/balkit/internal/config"
	kiterrors "github.com/conneroisu/balkit/internal/errors"
	"github.com/conneroisu/balkit/internal/features"
	"github.com/conneroisu/balkit/internal/installer"
	"github.com/conneroisu/balkit/internal/prompt"
)

var (
	installBootstrap     bool
	installAlpine        bool
	installLivewire      bool
	installSass          bool
	installAuth          bool
	installPreset        string
	installForce         bool
	installAuthMode      string
	installNoInteraction bool
)

var installCmd = &cobra.Command{
	Use:     "install",
	Aliases: []string{"i"},
	Short:   "Install BAL Kit (Bootstrap + Alpine + Livewire) components",
	Long: heredoc.Doc(`
		Install BAL Kit components into the Laravel application.

		Existing files are backed up before they are replaced, the Tailwind
		toolchain is moved aside, and the result is verified with a build.
		Failures of individual steps are reported as warnings and the install
		continues; running it again is always safe.

		Examples:
		  balkit install --preset=full                 # Everything
		  balkit install --bootstrap --alpine          # Pick components
		  balkit install --auth --auth-mode=views      # Auth views without Breeze
		  balkit install --preset=standard --force     # Overwrite kept files
	`),
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().BoolVar(&installBootstrap, "bootstrap", false, "Install Bootstrap CSS framework")
	installCmd.Flags().BoolVar(&installAlpine, "alpine", false, "Install Alpine.js")
	installCmd.Flags().BoolVar(&installLivewire, "livewire", false, "Install Livewire")
	installCmd.Flags().BoolVar(&installSass, "sass", false, "Setup SASS with 7-1 architecture")
	installCmd.Flags().BoolVar(&installAuth, "auth", false, "Install authentication scaffolding")
	installCmd.Flags().StringVar(&installPreset, "preset", "", "Use a preset configuration (minimal|standard|full)")
	installCmd.Flags().BoolVar(&installForce, "force", false, "Overwrite existing files")
	installCmd.Flags().StringVar(&installAuthMode, "auth-mode", "", "Authentication install (breeze|views); asks when unset")
	installCmd.Flags().BoolVarP(&installNoInteraction, "no-interaction", "n", false, "Never prompt; use Breeze unless --auth-mode says otherwise")
}

// runInstall always exits successfully: every problem is reported in the
// output instead.
func runInstall(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return nil
	}
	ctx := commandContext(cmd)

	authMode := strings.ToLower(strings.TrimSpace(installAuthMode))
	if authMode != "" && authMode != config.AuthModeBreeze && authMode != config.AuthModeViews {
		s.printer.Error("Invalid auth mode: " + installAuthMode)
		s.printer.Info("   Use --auth-mode=breeze or --auth-mode=views")
		return nil
	}

	in := installer.New(installer.Options{
		Fs:       s.fs,
		Runner:   newRunner(s.dir, s.logger),
		Prompter: prompt.NewSurvey(!installNoInteraction),
		Printer:  s.printer,
		Logger:   s.logger,
		Config:   s.config,
		Force:    installForce,
		AuthMode: authMode,
	})

	report := in.Install(ctx, features.Options{
		Bootstrap: installBootstrap,
		Alpine:    installAlpine,
		Livewire:  installLivewire,
		Sass:      installSass,
		Auth:      installAuth,
		Preset:    installPreset,
	})

	s.logger.Debug(ctx, "Install finished",
		"performed", report.Performed,
		"warnings", len(report.Warnings()),
		"failed_commands", len(report.Notices.ByType(kiterrors.ErrorTypeSubprocess)),
		"fixed", len(report.Issues))
	return nil
}
