// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/lintara-tui/internal/api"
	"github.com/jeranaias/lintara-tui/internal/storage"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitUsageError    = 2 // bad flags, arguments or input
	ExitConfigError   = 3
	ExitAuthError     = 4 // not logged in or token rejected
	ExitNetworkError  = 5
	ExitNotFoundError = 7
	ExitTimeoutError  = 8
)

// ErrNotLoggedIn is returned by commands that need a session when there is
// none for the configured service.
var ErrNotLoggedIn = errors.New("not logged in, run `lintara login`")

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a failed command with context.
type CommandError struct {
	Command string // e.g. "submit"
	Reason  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Command, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Command, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents invalid user input.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string // optional
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// ConfigError wraps a configuration load or save failure.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// usageError marks argument and flag parsing errors from cobra.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// NewCommandError creates a new command error.
func NewCommandError(command, reason string, err error) error {
	return &CommandError{Command: command, Reason: reason, Err: err}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// NewValidationErrorWithExample creates a validation error with an example.
func NewValidationErrorWithExample(field, value, reason, example string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason, Example: example}
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// ExitCodeFor maps an error returned by a command to a process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		ve  *ValidationError
		ue  *usageError
		cfg *ConfigError
	)
	switch {
	case errors.Is(err, ErrNotLoggedIn), api.IsUnauthorized(err):
		return ExitAuthError
	case errors.As(err, &ve), errors.As(err, &ue), errors.Is(err, api.ErrValidation):
		return ExitUsageError
	case errors.As(err, &cfg):
		return ExitConfigError
	case api.IsNotFound(err), errors.Is(err, storage.ErrRecordNotFound):
		return ExitNotFoundError
	case api.IsTimeout(err):
		return ExitTimeoutError
	case errors.Is(err, api.ErrConnection):
		return ExitNetworkError
	}
	return ExitGeneralError
}

// =============================================================================
// DISPLAY
// =============================================================================

// DisplayError writes err to w, as a JSON envelope in JSON mode.
func DisplayError(w io.Writer, st outputStyles, command string, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		_ = NewJSONErrorResponse(command, err).Print(w)
		return
	}
	fmt.Fprintf(w, "%s %s\n", st.Error.Render("[ERROR]"), err.Error())
	if hint := errorHint(err); hint != "" {
		fmt.Fprintf(w, "%s\n", st.Dim.Render(hint))
	}
}

// errorHint suggests a next step for common failures.
func errorHint(err error) string {
	switch {
	case errors.Is(err, ErrNotLoggedIn):
		return ""
	case api.IsUnauthorized(err):
		return "Your session may have expired. Run `lintara login`."
	case errors.Is(err, api.ErrConnection):
		return "Check the service URL with `lintara config get api.base_url`, or use --offline."
	case errors.Is(err, storage.ErrRecordNotFound):
		return "The record is not in the offline cache. Run `lintara list` while online first."
	}
	return ""
}
