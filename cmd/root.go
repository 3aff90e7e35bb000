// Package cmd provides the command-line interface for balkit.
//
// Configuration System:
//
//	Configuration is read from several sources with clear precedence:
//	1. --config-file flag: explicit configuration file path
//	2. BALKIT_CONFIG_FILE environment variable: custom configuration file path
//	3. Individual environment variables (BALKIT_INSTALL_AUTH_MODE, etc.)
//	4. .balkit.yml in the application root - lowest priority
//
// Environment Variables:
//
//	BALKIT_CONFIG_FILE: Path to a custom configuration file
//	BALKIT_INSTALL_BUILD_COMMAND: Override the build run at the end of an install
//	BALKIT_INSTALL_AUTH_MODE: breeze or views
//	BALKIT_STUBS_PATH: Directory replacing the bundled templates
package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/balkit/internal/config"
	"github.com/conneroisu/balkit/internal/console"
	kiterrors "github.com/conneroisu/balkit/internal/errors"
	"github.com/conneroisu/balkit/internal/logging"
	"github.com/conneroisu/balkit/internal/runner"
)

var (
	cfgFile  string
	hostPath string
)

// newRunner builds the command runner for a host directory. Tests replace it
// with a recorder.
var newRunner = func(dir string, logger logging.Logger) runner.Runner {
	return runner.NewExecRunner(dir, logger)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "balkit",
	Short: "Install Bootstrap, Alpine.js, Livewire and SASS into a Laravel application",
	Long: heredoc.Doc(`
		BAL Kit replaces the default Tailwind scaffolding of a Laravel application
		with Bootstrap, Alpine.js and Livewire, styled with a SASS 7-1 architecture.

		Quick Start:
		  balkit install --preset=full     Install everything
		  balkit install --bootstrap --sass
		  balkit publish --stubs           Export the templates for customization
		  balkit doctor --fix              Repair an existing installation

		Presets:
		  minimal    Bootstrap and Alpine.js
		  standard   Bootstrap, Alpine.js, Livewire and SASS
		  full       Everything, including authentication

		Documentation: https://github.com/get-tony/bal-kit
	`),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file (default is .balkit.yml, can also use BALKIT_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringVar(&hostPath, "path", ".", "Laravel application root")
	rootCmd.PersistentFlags().StringP("log-level", "l", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// normalizeFlagName accepts underscores for dashes, as in --auth_mode.
func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// initConfig points viper at the configuration file.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config-file flag
//  2. BALKIT_CONFIG_FILE environment variable
//  3. .balkit.yml in the application root given by --path
//
// Every key can also be set with a BALKIT_ prefixed environment variable,
// dots replaced by underscores (install.auth_mode is BALKIT_INSTALL_AUTH_MODE).
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("BALKIT_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(hostPath)
		viper.SetConfigType("yaml")
		viper.SetConfigName(strings.TrimSuffix(config.FileName, filepath.Ext(config.FileName)))
	}

	viper.SetEnvPrefix("BALKIT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing file leaves the defaults in place
	_ = viper.ReadInConfig()
}

// session bundles what every subcommand needs for one host application.
type session struct {
	dir     string
	fs      afero.Fs
	config  *config.Config
	logger  logging.Logger
	printer *console.Printer
}

// newSession resolves the host directory and loads the configuration. Any
// problem is printed before it is returned.
func newSession(cmd *cobra.Command) (*session, error) {
	printer := console.New(cmd.OutOrStdout())
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLevel(viper.GetString("log-level")),
		Format:    viper.GetString("log-format"),
		Output:    cmd.ErrOrStderr(),
		Component: "balkit",
	})

	dir, err := filepath.Abs(hostPath)
	if err != nil {
		err = kiterrors.WrapIO(err, hostPath, "failed to resolve application path")
		printer.Error(kiterrors.FormatError(err))
		return nil, err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		err = kiterrors.NewMissingInputError(kiterrors.ErrCodeFileNotFound, dir)
		printer.Error("Application directory not found: " + dir)
		return nil, err
	}

	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug(commandContext(cmd), "Using config file", "path", used)
	}
	cfg, err := config.Load()
	if err != nil {
		printer.Error(kiterrors.FormatErrorWithSuggestions(err))
		return nil, err
	}

	return &session{
		dir:     dir,
		fs:      afero.NewBasePathFs(afero.NewOsFs(), dir),
		config:  cfg,
		logger:  logger,
		printer: printer,
	}, nil
}

// commandContext returns the command's context, or a background context for
// commands run outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
