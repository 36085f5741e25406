package thermoraw

import (
	"fmt"
	"strings"
)

// Error is implemented by every error originating from this package.
// Callers that want to treat any failure from this layer uniformly can
// use errors.As with a value of this type.
type Error interface {
	error
	thermorawError()
}

// InstallationError is returned when the ThermoRawFileParser executable
// or docker image cannot be located or launched, or when its reported
// version does not satisfy the required range.
type InstallationError struct {
	Detail string
	Cause  error
}

func (e *InstallationError) Error() string {
	msg := "thermorawfileparser installation error"
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *InstallationError) Unwrap() error { return e.Cause }

func (e *InstallationError) thermorawError() {}

// RunError is returned when the tool launched but exited non-zero, or
// exited zero yet produced output that failed to decode. It carries the
// full attempted command line and captured stderr for debugging.
type RunError struct {
	Command []string
	Stderr  string
	Cause   error
}

func (e *RunError) Error() string {
	msg := fmt.Sprintf("error running command %q", strings.Join(e.Command, " "))
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *RunError) Unwrap() error { return e.Cause }

func (e *RunError) thermorawError() {}

// UnknownFormatError is returned when an output format name is not in
// the supported set.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown output format %q (supported: %s)",
		e.Format, strings.Join(supportedFormats(), ", "))
}

func (e *UnknownFormatError) thermorawError() {}
