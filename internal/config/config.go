// Package config provides configuration management for balkit using Viper
// for loading from files, environment variables, and command-line flags.
//
// The configuration file is .balkit.yml in the host application root. Values
// can be overridden with BALKIT_ prefixed environment variables. It manages
// the install presets, the SASS directory layout, the list of files backed up
// before an install, the template override directory, and install behavior
// such as the final build command.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	kiterrors "github.com/conneroisu/balkit/internal/errors"
	"github.com/conneroisu/balkit/internal/features"
	"github.com/conneroisu/balkit/internal/version"
)

// FileName is the configuration file looked up in the host root.
const FileName = ".balkit.yml"

// Auth modes accepted by install.auth_mode and --auth-mode.
const (
	AuthModeBreeze = "breeze"
	AuthModeViews  = "views"
)

type Config struct {
	// Version is the balkit release that wrote the file.
	Version string                  `mapstructure:"version" yaml:"version,omitempty"`
	Presets map[string]PresetConfig `mapstructure:"presets" yaml:"presets"`
	Sass    SassConfig              `mapstructure:"sass" yaml:"sass"`
	Backup  BackupConfig            `mapstructure:"backup" yaml:"backup"`
	Stubs   StubsConfig             `mapstructure:"stubs" yaml:"stubs"`
	Install InstallConfig           `mapstructure:"install" yaml:"install"`
}

// PresetConfig maps component names to whether the preset enables them.
type PresetConfig map[string]bool

type SassConfig struct {
	Directories []string `mapstructure:"directories" yaml:"directories"`
}

type BackupConfig struct {
	Files []string `mapstructure:"files" yaml:"files"`
}

type StubsConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type InstallConfig struct {
	BuildCommand string `mapstructure:"build_command" yaml:"build_command"`
	AuthMode     string `mapstructure:"auth_mode" yaml:"auth_mode"`
}

// DefaultSassDirectories is the 7-1 SASS layout created under resources/sass.
func DefaultSassDirectories() []string {
	return []string{"abstracts", "base", "components", "layout", "pages", "themes", "vendors"}
}

// DefaultBackupFiles are the host files copied aside before an install.
func DefaultBackupFiles() []string {
	return []string{
		"resources/views/layouts/app.blade.php",
		"vite.config.js",
		"resources/js/app.js",
		"resources/js/bootstrap.js",
		"package.json",
	}
}

// DefaultBuildCommand is run silently at the end of an install.
const DefaultBuildCommand = "npm run build"

// Default returns the configuration used when no file or override is present.
func Default() *Config {
	presets := make(map[string]PresetConfig)
	for name, preset := range features.DefaultPresets() {
		presets[name] = presetConfigFrom(preset.Features)
	}

	return &Config{
		Version: version.Current(),
		Presets: presets,
		Sass:    SassConfig{Directories: DefaultSassDirectories()},
		Backup:  BackupConfig{Files: DefaultBackupFiles()},
		Install: InstallConfig{BuildCommand: DefaultBuildCommand},
	}
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, kiterrors.WrapConfig(err, kiterrors.ErrCodeConfigInvalid, "failed to decode configuration")
	}

	defaults := Default()

	// User presets are merged over the defaults by name
	merged := defaults.Presets
	for name, preset := range config.Presets {
		merged[strings.ToLower(name)] = normalizePreset(preset)
	}
	config.Presets = merged

	// Handle slices set via viper (workaround for viper slice handling with env values)
	if viper.IsSet("sass.directories") && len(config.Sass.Directories) == 0 {
		config.Sass.Directories = viper.GetStringSlice("sass.directories")
	}
	if viper.IsSet("backup.files") && len(config.Backup.Files) == 0 {
		config.Backup.Files = viper.GetStringSlice("backup.files")
	}

	if len(config.Sass.Directories) == 0 {
		config.Sass.Directories = defaults.Sass.Directories
	}
	if len(config.Backup.Files) == 0 {
		config.Backup.Files = defaults.Backup.Files
	}
	if config.Install.BuildCommand == "" {
		config.Install.BuildCommand = defaults.Install.BuildCommand
	}
	config.Install.AuthMode = strings.ToLower(strings.TrimSpace(config.Install.AuthMode))

	if err := validateConfig(&config); err != nil {
		return nil, kiterrors.WrapConfig(err, kiterrors.ErrCodeConfigInvalid, "invalid configuration")
	}

	return &config, nil
}

// Marshal renders the configuration as a .balkit.yml document.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, kiterrors.WrapInternal(err, kiterrors.ErrCodeInternalError, "failed to encode configuration")
	}
	return data, nil
}

// PresetMap converts the configured presets into resolver presets.
func (c *Config) PresetMap() map[string]features.Preset {
	out := make(map[string]features.Preset, len(c.Presets))
	for name, preset := range c.Presets {
		fs := features.NewFeatureSet()
		for component, enabled := range preset {
			fs[features.Component(component)] = enabled
		}
		out[name] = features.Preset{Name: name, Features: fs}
	}
	return out
}

func presetConfigFrom(fs features.FeatureSet) PresetConfig {
	pc := make(PresetConfig, len(features.All))
	for _, c := range features.All {
		pc[string(c)] = fs.Enabled(c)
	}
	return pc
}

func normalizePreset(preset PresetConfig) PresetConfig {
	out := make(PresetConfig, len(features.All))
	for _, c := range features.All {
		out[string(c)] = false
	}
	for name, enabled := range preset {
		out[strings.ToLower(strings.TrimSpace(name))] = enabled
	}
	return out
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validatePresets(config.Presets); err != nil {
		return fmt.Errorf("presets: %w", err)
	}

	for _, dir := range config.Sass.Directories {
		if err := validatePath(dir); err != nil {
			return fmt.Errorf("sass directory '%s': %w", dir, err)
		}
	}

	for _, file := range config.Backup.Files {
		if err := validatePath(file); err != nil {
			return fmt.Errorf("backup file '%s': %w", file, err)
		}
	}

	if config.Stubs.Path != "" {
		if err := validateStubsPath(config.Stubs.Path); err != nil {
			return fmt.Errorf("stubs path: %w", err)
		}
	}

	if err := validateInstallConfig(&config.Install); err != nil {
		return fmt.Errorf("install: %w", err)
	}

	return nil
}

func validatePresets(presets map[string]PresetConfig) error {
	for name, preset := range presets {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("empty preset name")
		}
		for component := range preset {
			if _, err := features.ParseComponent(component); err != nil {
				return fmt.Errorf("preset '%s': %w", name, err)
			}
		}
	}
	return nil
}

func validateInstallConfig(config *InstallConfig) error {
	if strings.TrimSpace(config.BuildCommand) == "" {
		return fmt.Errorf("build_command must not be empty")
	}
	switch config.AuthMode {
	case "", AuthModeBreeze, AuthModeViews:
	default:
		return fmt.Errorf("auth_mode %q is not one of %s, %s", config.AuthMode, AuthModeBreeze, AuthModeViews)
	}
	return nil
}

// validateStubsPath allows absolute override directories but rejects traversal
func validateStubsPath(path string) error {
	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}
	return nil
}

// validatePath validates a host-relative path
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	// Reject path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	// Host paths are relative to the application root
	if filepath.IsAbs(cleanPath) {
		return fmt.Errorf("path should be relative: %s", path)
	}

	// Reject dangerous characters
	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
