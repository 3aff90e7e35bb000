package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeConfig        ErrorType = "config"
	ErrorTypeSubprocess    ErrorType = "subprocess"
	ErrorTypeMissingInput  ErrorType = "missing_input"
	ErrorTypeIncompatible  ErrorType = "incompatible"
	ErrorTypeIO            ErrorType = "io"
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeInternal      ErrorType = "internal"
	ErrorTypeInteractivity ErrorType = "interactivity"
)

// KitError is a structured error type with context.
type KitError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Path        string
	Suggestions []string
	Recoverable bool
}

// Error implements the error interface.
func (e *KitError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Path != "" {
		parts = append(parts, e.Path)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *KitError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *KitError) Is(target error) bool {
	var t *KitError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *KitError) WithContext(key string, value interface{}) *KitError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithPath attaches the host path the error is about.
func (e *KitError) WithPath(path string) *KitError {
	e.Path = path

	return e
}

// WithSuggestions attaches hints that are shown to the user next to the error.
func (e *KitError) WithSuggestions(suggestions ...string) *KitError {
	e.Suggestions = append(e.Suggestions, suggestions...)

	return e
}

// Common error codes.
const (
	ErrCodeUnknownPreset     = "ERR_UNKNOWN_PRESET"
	ErrCodeConfigInvalid     = "ERR_CONFIG_INVALID"
	ErrCodeSubprocessFailed  = "ERR_SUBPROCESS_FAILED"
	ErrCodeTemplateMissing   = "ERR_TEMPLATE_MISSING"
	ErrCodeFileNotFound      = "ERR_FILE_NOT_FOUND"
	ErrCodeFileOperation     = "ERR_FILE_OPERATION"
	ErrCodeManifestInvalid   = "ERR_MANIFEST_INVALID"
	ErrCodeIncompatible      = "ERR_INCOMPATIBLE_TOOLCHAIN"
	ErrCodeUnknownTag        = "ERR_UNKNOWN_TAG"
	ErrCodeValidationFailed  = "ERR_VALIDATION_FAILED"
	ErrCodePromptUnavailable = "ERR_PROMPT_UNAVAILABLE"
	ErrCodePromptAborted     = "ERR_PROMPT_ABORTED"
	ErrCodeInternalError     = "ERR_INTERNAL"
)

// Error creation functions

// NewConfigError creates a configuration error. Configuration errors are
// reported to the user; the workflow continues with no action.
func NewConfigError(code, message string) *KitError {
	return &KitError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewSubprocessError creates an error for an external command that failed.
func NewSubprocessError(command string, cause error) *KitError {
	return &KitError{
		Type:        ErrorTypeSubprocess,
		Code:        ErrCodeSubprocessFailed,
		Message:     "command failed: " + command,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewMissingInputError creates an error for an absent template or host file.
func NewMissingInputError(code, path string) *KitError {
	return &KitError{
		Type:        ErrorTypeMissingInput,
		Code:        code,
		Message:     "missing input",
		Path:        path,
		Recoverable: true,
	}
}

// NewIncompatibleError records that a file was produced by the incompatible toolchain.
func NewIncompatibleError(path, marker string) *KitError {
	return &KitError{
		Type:        ErrorTypeIncompatible,
		Code:        ErrCodeIncompatible,
		Message:     fmt.Sprintf("incompatible toolchain marker %q", marker),
		Path:        path,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(path, message string, cause error) *KitError {
	return &KitError{
		Type:        ErrorTypeIO,
		Code:        ErrCodeFileOperation,
		Message:     message,
		Path:        path,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *KitError {
	return &KitError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewInteractivityError creates an error for a prompt that could not be shown
// or answered.
func NewInteractivityError(code, message string) *KitError {
	return &KitError{
		Type:        ErrorTypeInteractivity,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *KitError {
	return &KitError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// Helper functions for common errors

// ErrUnknownPreset creates the configuration error reported for an unknown preset name.
func ErrUnknownPreset(name string, available []string) *KitError {
	return NewConfigError(ErrCodeUnknownPreset, "unknown preset: "+name).
		WithContext("preset", name).
		WithSuggestions("Available presets: " + strings.Join(available, ", "))
}

// ErrUnknownTag creates the error reported for an unknown publish tag.
func ErrUnknownTag(tag string) *KitError {
	return NewValidationError(ErrCodeUnknownTag, "unknown publish tag: "+tag).
		WithContext("tag", tag).
		WithSuggestions("Run 'balkit publish --list' to see available tags")
}

// Predicates

// IsType reports whether err is a KitError of the given type.
func IsType(err error, errType ErrorType) bool {
	var ke *KitError
	if errors.As(err, &ke) {
		return ke.Type == errType
	}

	return false
}

// IsMissingInput checks if an error is about an absent template or host file.
func IsMissingInput(err error) bool {
	return IsType(err, ErrorTypeMissingInput)
}

// HasCode reports whether err is a KitError carrying code.
func HasCode(err error, code string) bool {
	var ke *KitError
	if errors.As(err, &ke) {
		return ke.Code == code
	}

	return false
}
