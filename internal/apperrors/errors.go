// Package apperrors defines the error taxonomy for the generator pipeline.
//
// Errors fall into two classes: fatal errors that abort the run
// (ConfigurationError, GeneratorError) and recoverable errors that are
// logged and skipped (SourceError for a whole input file, UnitError for a
// single unit's remaining work).
package apperrors

import (
	"errors"
	"fmt"
)

// ConfigurationError indicates a missing or broken runtime prerequisite.
// It is fatal: the run exits with status 1.
type ConfigurationError struct {
	Resource string // Path or variable that is missing or invalid
	Message  string
	Cause    error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %s: %v", e.Resource, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Resource, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(resource, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Resource: resource,
		Message:  message,
		Cause:    cause,
	}
}

// GeneratorError indicates the external generator was missing or exited
// non-zero. It is fatal and its exit code becomes the run's exit code.
type GeneratorError struct {
	Path     string // Generator executable path
	ExitCode int
	Output   string // Captured combined stdout/stderr, may be empty
	Cause    error
}

func (e *GeneratorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generator %s failed with exit code %d: %v", e.Path, e.ExitCode, e.Cause)
	}
	return fmt.Sprintf("generator %s failed with exit code %d", e.Path, e.ExitCode)
}

func (e *GeneratorError) Unwrap() error {
	return e.Cause
}

// NewGeneratorError creates a new generator error.
func NewGeneratorError(path string, exitCode int, output string, cause error) *GeneratorError {
	return &GeneratorError{
		Path:     path,
		ExitCode: exitCode,
		Output:   output,
		Cause:    cause,
	}
}

// SourceError indicates one input source file could not be processed.
// It is recoverable: the source is skipped entirely and the run continues.
type SourceError struct {
	Source  string // Path of the offending source file
	Message string
	Cause   error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("source %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("source %s: %s", e.Source, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// NewSourceError creates a new per-source error.
func NewSourceError(source, message string, cause error) *SourceError {
	return &SourceError{
		Source:  source,
		Message: message,
		Cause:   cause,
	}
}

// UnitError indicates one generated unit's rewriting, placement or install
// resolution failed. It is recoverable: that unit's remaining work for the
// failing step is abandoned and the run continues with other units.
type UnitError struct {
	Unit    string // Unit file name
	Message string
	Cause   error
}

func (e *UnitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unit %s: %s: %v", e.Unit, e.Message, e.Cause)
	}
	return fmt.Sprintf("unit %s: %s", e.Unit, e.Message)
}

func (e *UnitError) Unwrap() error {
	return e.Cause
}

// NewUnitError creates a new per-unit error.
func NewUnitError(unit, message string, cause error) *UnitError {
	return &UnitError{
		Unit:    unit,
		Message: message,
		Cause:   cause,
	}
}

// ExitCode maps an error to the process exit status: nil is 0, a
// GeneratorError propagates the external generator's code verbatim, and
// everything else is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var genErr *GeneratorError
	if errors.As(err, &genErr) && genErr.ExitCode != 0 {
		return genErr.ExitCode
	}
	return 1
}
