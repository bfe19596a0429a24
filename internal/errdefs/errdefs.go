// Package errdefs defines the error kinds surfaced by the pipeline and the
// archiver, and maps them to process exit codes.
package errdefs

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks a missing credential, database id or invalid setting.
	ErrConfiguration = errors.New("configuration error")
	// ErrInput marks a missing or unreadable input file.
	ErrInput = errors.New("input error")
	// ErrExternalService marks a failed call to ffmpeg, whisper, the LLM or Notion.
	ErrExternalService = errors.New("external service error")
	// ErrArchiveIO marks a failed archive move.
	ErrArchiveIO = errors.New("archive io error")
)

// Exit codes returned by the CLI.
const (
	ExitOK        = 0
	ExitGeneric   = 1
	ExitConfig    = 2
	ExitInput     = 3
	ExitExternal  = 4
	ExitArchiveIO = 5
)

// StageError reports which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *StageError) Unwrap() []error {
	return []error{ErrExternalService, e.Err}
}

// Stage wraps err as an external service failure of the named stage.
func Stage(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// Configf builds an ErrConfiguration with a formatted message.
func Configf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// Inputf builds an ErrInput with a formatted message.
func Inputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInput, fmt.Sprintf(format, args...))
}

// Kind returns a short label for logging.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrInput):
		return "input"
	case errors.Is(err, ErrExternalService):
		return "external-service"
	case errors.Is(err, ErrArchiveIO):
		return "archive-io"
	default:
		return "internal"
	}
}

// ExitCode maps err to the CLI exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrConfiguration):
		return ExitConfig
	case errors.Is(err, ErrInput):
		return ExitInput
	case errors.Is(err, ErrExternalService):
		return ExitExternal
	case errors.Is(err, ErrArchiveIO):
		return ExitArchiveIO
	default:
		return ExitGeneric
	}
}
