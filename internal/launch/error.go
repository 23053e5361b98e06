package launch

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNoScript indicates no command script was given
	ErrNoScript = errors.New("a command script is required")

	// ErrScriptNotFound indicates the command script was not found
	ErrScriptNotFound = errors.New("command script not found")

	// ErrNoCommands indicates the command script held no commands
	ErrNoCommands = errors.New("command script contains no commands")

	// ErrSerialUnsupported indicates a single-command (serial) job was requested
	ErrSerialUnsupported = errors.New("serial jobs are not supported")

	// ErrInvalidRuntime indicates the runtime string could not be parsed
	ErrInvalidRuntime = errors.New("invalid runtime")

	// ErrLauncherEnvMissing indicates the launcher module is not loaded
	ErrLauncherEnvMissing = errors.New("launcher environment not set")
)

// ScriptFormatError reports a malformed command script, such as a blank
// line. Rejected before rendering so a broken sweep never reaches the
// scheduler.
type ScriptFormatError struct {
	Path   string
	Line   int
	Reason string
}

func (e *ScriptFormatError) Error() string {
	return fmt.Sprintf("invalid command script %s: line %d: %s", e.Path, e.Line, e.Reason)
}

// NewScriptFormatError creates a ScriptFormatError.
func NewScriptFormatError(path string, line int, reason string) *ScriptFormatError {
	return &ScriptFormatError{Path: path, Line: line, Reason: reason}
}

// IsScriptFormatError checks if an error is a ScriptFormatError.
func IsScriptFormatError(err error) bool {
	var sfe *ScriptFormatError
	return errors.As(err, &sfe)
}

// RenderError reports a failure writing the batch-control file.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to write control file %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// NewRenderError creates a RenderError.
func NewRenderError(path string, err error) *RenderError {
	return &RenderError{Path: path, Err: err}
}

// IsRenderError checks if an error is a RenderError.
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}
