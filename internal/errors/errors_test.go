package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityString(t *testing.T) {
	testCases := []struct {
		severity Severity
		expected string
	}{
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(999), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.severity.String())
		})
	}
}

func TestKitErrorError(t *testing.T) {
	tests := []struct {
		name     string
		err      *KitError
		expected string
	}{
		{
			name:     "code and message",
			err:      NewConfigError(ErrCodeUnknownPreset, "unknown preset: huge"),
			expected: "[ERR_UNKNOWN_PRESET] unknown preset: huge",
		},
		{
			name:     "with path and cause",
			err:      NewIOError("package.json", "cannot write", fmt.Errorf("disk full")),
			expected: "[ERR_FILE_OPERATION] package.json cannot write: disk full",
		},
		{
			name:     "subprocess",
			err:      NewSubprocessError("npm install alpinejs", fmt.Errorf("exit status 1")),
			expected: "[ERR_SUBPROCESS_FAILED] command failed: npm install alpinejs: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestKitErrorIsAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("exit status 2")
	err := NewSubprocessError("composer require livewire/livewire", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, &KitError{Type: ErrorTypeSubprocess, Code: ErrCodeSubprocessFailed}))
	assert.False(t, errors.Is(err, &KitError{Type: ErrorTypeConfig, Code: ErrCodeSubprocessFailed}))

	wrapped := fmt.Errorf("phase packages: %w", err)
	assert.True(t, IsType(wrapped, ErrorTypeSubprocess))
	assert.False(t, IsType(wrapped, ErrorTypeConfig))
}

func TestErrUnknownPreset(t *testing.T) {
	err := ErrUnknownPreset("huge", []string{"full", "minimal", "standard"})

	assert.True(t, IsType(err, ErrorTypeConfig))
	assert.True(t, HasCode(err, ErrCodeUnknownPreset))
	assert.Equal(t, "huge", err.Context["preset"])
	require.Len(t, Suggestions(err), 1)
	assert.Equal(t, "Available presets: full, minimal, standard", Suggestions(err)[0])
	assert.Equal(t, "unknown preset: huge\n  Available presets: full, minimal, standard", FormatErrorWithSuggestions(err))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeIO, ErrCodeFileOperation, "nothing"))

	plain := fmt.Errorf("permission denied")
	ioErr := WrapIO(plain, "vite.config.js", "cannot replace bundler config")
	require.NotNil(t, ioErr)
	assert.Equal(t, "vite.config.js", ioErr.Path)
	assert.True(t, ioErr.Recoverable)
	assert.ErrorIs(t, ioErr, plain)

	rewrapped := WrapConfig(ErrUnknownTag("bal-kit-nope"), ErrCodeConfigInvalid, "publish failed")
	assert.Equal(t, ErrorTypeConfig, rewrapped.Type)
	assert.NotEmpty(t, rewrapped.Suggestions)

	internal := WrapInternal(plain, ErrCodeInternalError, "boom")
	assert.False(t, internal.Recoverable)
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "", FormatError(nil))
	assert.Equal(t, "plain", FormatError(fmt.Errorf("plain")))
	assert.Equal(t, "unknown preset: x", FormatError(ErrUnknownPreset("x", nil)))
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	assert.Empty(t, c.Notices())

	c.Warn("packages", NewSubprocessError("npm install bootstrap @popperjs/core", fmt.Errorf("exit status 1")))
	c.Warn("foundation", NewIOError("package.json", "cannot write", nil))
	c.Warn("ignored", nil)

	notices := c.Notices()
	require.Len(t, notices, 2)
	assert.Equal(t, "packages", notices[0].Phase)
	assert.Equal(t, SeverityWarning, notices[0].Severity)
	assert.False(t, notices[0].Timestamp.IsZero())

	assert.Len(t, c.ByType(ErrorTypeSubprocess), 1)
	assert.Len(t, c.ByType(ErrorTypeIO), 1)
	assert.Len(t, c.Errors(), 2)
}
