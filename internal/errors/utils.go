package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Wrap wraps an error with additional context, creating a KitError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *KitError {
	if err == nil {
		return nil
	}

	// If it's already a KitError, preserve its properties but update the message
	var ke *KitError
	if errors.As(err, &ke) {
		return &KitError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       ke,
			Context:     ke.Context,
			Path:        ke.Path,
			Suggestions: ke.Suggestions,
			Recoverable: ke.Recoverable,
		}
	}

	return &KitError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType != ErrorTypeInternal,
	}
}

// WrapIO wraps an error as an I/O error on path
func WrapIO(err error, path, message string) *KitError {
	kitErr := Wrap(err, ErrorTypeIO, ErrCodeFileOperation, message)
	if kitErr != nil {
		kitErr.Path = path
	}
	return kitErr
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, code, message string) *KitError {
	return Wrap(err, ErrorTypeConfig, code, message)
}

// WrapValidation wraps an error as a validation error
func WrapValidation(err error, code, message string) *KitError {
	return Wrap(err, ErrorTypeValidation, code, message)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(err error, code, message string) *KitError {
	kitErr := Wrap(err, ErrorTypeInternal, code, message)
	if kitErr != nil {
		kitErr.Recoverable = false
	}
	return kitErr
}

// FormatError formats an error for user display
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var ke *KitError
	if errors.As(err, &ke) {
		return ke.Message
	}

	return err.Error()
}

// FormatErrorWithSuggestions formats an error followed by its suggestions, one per line
func FormatErrorWithSuggestions(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(FormatError(err))

	var ke *KitError
	if errors.As(err, &ke) {
		for _, s := range ke.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %s", s))
		}
	}

	return b.String()
}

// Suggestions returns the hints attached to err, if any
func Suggestions(err error) []string {
	var ke *KitError
	if errors.As(err, &ke) {
		return ke.Suggestions
	}
	return nil
}
