package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/conneroisu/balkit/internal/features"
	"github.com/conneroisu/balkit/internal/version"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if len(vr.Errors) > 0 {
		builder.WriteString("Validation errors:\n")
		for _, err := range vr.Errors {
			builder.WriteString(fmt.Sprintf("  - %s: %s\n", err.Field, err.Message))
			for _, suggestion := range err.Suggestions {
				builder.WriteString(fmt.Sprintf("    hint: %s\n", suggestion))
			}
		}
		builder.WriteString("\n")
	}

	if len(vr.Warnings) > 0 {
		builder.WriteString("Validation warnings:\n")
		for _, warning := range vr.Warnings {
			builder.WriteString(fmt.Sprintf("  - %s: %s\n", warning.Field, warning.Message))
			for _, suggestion := range warning.Suggestions {
				builder.WriteString(fmt.Sprintf("    hint: %s\n", suggestion))
			}
		}
	}

	return builder.String()
}

// ValidateConfigWithDetails performs comprehensive validation with detailed
// feedback. Unlike Load it never fails; doctor uses it to explain problems.
// Relative paths are checked against host.
func ValidateConfigWithDetails(host afero.Fs, config *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	validateVersionDetails(config.Version, result)
	validatePresetsDetails(config.Presets, result)
	validateSassConfigDetails(&config.Sass, result)
	validateBackupConfigDetails(&config.Backup, result)
	validateStubsConfigDetails(host, &config.Stubs, result)
	validateInstallConfigDetails(&config.Install, result)

	result.Valid = !result.HasErrors()

	return result
}

func validateVersionDetails(v string, result *ValidationResult) {
	if v == "" || version.IsCompatible(v) {
		return
	}
	result.Warnings = append(result.Warnings, ValidationError{
		Field:   "version",
		Value:   v,
		Message: fmt.Sprintf("written by an unsupported release, %s or later is required", version.MinimumCompatible),
		Suggestions: []string{
			"Run 'balkit publish --config --force' to regenerate the configuration file",
		},
	})
}

func validatePresetsDetails(presets map[string]PresetConfig, result *ValidationResult) {
	if len(presets) == 0 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "presets",
			Message: "no presets configured",
			Suggestions: []string{
				"Remove the presets key to fall back to minimal, standard and full",
			},
		})
		return
	}

	for name, preset := range presets {
		enabled := 0
		for component, on := range preset {
			if _, err := features.ParseComponent(component); err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Field:   "presets." + name,
					Value:   component,
					Message: err.Error(),
					Suggestions: []string{
						"Available components: " + strings.Join(features.Names(), ", "),
					},
				})
				continue
			}
			if on {
				enabled++
			}
		}
		if enabled == 0 {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "presets." + name,
				Message: "preset enables no components",
				Suggestions: []string{
					fmt.Sprintf("Set at least one component to true, e.g. presets.%s.bootstrap: true", name),
				},
			})
		}
	}
}

func validateSassConfigDetails(config *SassConfig, result *ValidationResult) {
	for _, dir := range config.Directories {
		if err := validatePath(dir); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "sass.directories",
				Value:   dir,
				Message: err.Error(),
				Suggestions: []string{
					"Directories are created under resources/sass and must be relative",
				},
			})
		}
	}
}

func validateBackupConfigDetails(config *BackupConfig, result *ValidationResult) {
	if len(config.Files) == 0 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "backup.files",
			Message: "no files will be backed up before installing",
		})
	}
	for _, file := range config.Files {
		if err := validatePath(file); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "backup.files",
				Value:   file,
				Message: err.Error(),
				Suggestions: []string{
					"Use paths relative to the application root",
				},
			})
		}
	}
}

func validateStubsConfigDetails(host afero.Fs, config *StubsConfig, result *ValidationResult) {
	if config.Path == "" {
		return
	}
	if err := validateStubsPath(config.Path); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "stubs.path",
			Value:   config.Path,
			Message: err.Error(),
		})
		return
	}
	fsys := host
	if fsys == nil || filepath.IsAbs(config.Path) {
		fsys = afero.NewOsFs()
	}
	if ok, err := afero.DirExists(fsys, config.Path); err != nil || !ok {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "stubs.path",
			Value:   config.Path,
			Message: "stub directory does not exist, bundled templates will be used",
			Suggestions: []string{
				"Run 'balkit publish --stubs' to export the bundled templates",
			},
		})
	}
}

func validateInstallConfigDetails(config *InstallConfig, result *ValidationResult) {
	if strings.TrimSpace(config.BuildCommand) == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "install.build_command",
			Message: "build command cannot be empty",
			Suggestions: []string{
				"Use '" + DefaultBuildCommand + "' for Vite projects",
			},
		})
	}

	switch config.AuthMode {
	case "", AuthModeBreeze, AuthModeViews:
	default:
		result.Errors = append(result.Errors, ValidationError{
			Field:   "install.auth_mode",
			Value:   config.AuthMode,
			Message: "unknown auth mode",
			Suggestions: []string{
				"Use '" + AuthModeBreeze + "' for the full Breeze scaffolding",
				"Use '" + AuthModeViews + "' for simple login and register views",
			},
		})
	}
}
