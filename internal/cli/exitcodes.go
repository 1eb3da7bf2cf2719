package cli

import (
	"errors"

	"github.com/yaklabco/kbdfmt/internal/configloader"
	"github.com/yaklabco/kbdfmt/pkg/runner"
)

// Exit codes for kbdfmt.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFailure indicates files that need formatting in check mode, files
	// that could not be formatted, or a lookup without a result.
	ExitFailure = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70
)

// Sentinel errors that select an exit code.
var (
	// ErrFilesNeedFormatting is returned in check mode when a file would change.
	ErrFilesNeedFormatting = errors.New("files need formatting")

	// ErrFilesFailed is returned when at least one file could not be formatted.
	ErrFilesFailed = errors.New("some files could not be formatted")

	// ErrNoMatch is returned when a lookup command finds nothing.
	ErrNoMatch = errors.New("no match")

	// ErrInvalidUsage marks command-line usage errors.
	ErrInvalidUsage = errors.New("invalid usage")

	// ErrConfig marks configuration errors.
	ErrConfig = errors.New("invalid configuration")
)

// ExitCodeFromResult determines the exit code of a formatting run.
func ExitCodeFromResult(result *runner.Result, check bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasErrors() {
		return ExitFailure
	}

	if check && result.HasChanges() {
		return ExitFailure
	}

	return ExitSuccess
}

// ExitCodeFromError maps a command error to an exit code.
func ExitCodeFromError(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrFilesNeedFormatting), errors.Is(err, ErrFilesFailed), errors.Is(err, ErrNoMatch):
		return ExitFailure
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.As(err, &validationErr):
		return ExitConfigError
	default:
		return ExitInternalError
	}
}

// IsReported reports whether err only signals an exit status whose cause was
// already shown to the user.
func IsReported(err error) bool {
	return errors.Is(err, ErrFilesNeedFormatting) || errors.Is(err, ErrFilesFailed) || errors.Is(err, ErrNoMatch)
}

// resultError converts a run result to the error that selects its exit code.
func resultError(result *runner.Result, check bool) error {
	if ExitCodeFromResult(result, check) == ExitSuccess {
		return nil
	}
	if result.HasErrors() {
		return ErrFilesFailed
	}
	return ErrFilesNeedFormatting
}
