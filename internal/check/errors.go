package check

import (
	"fmt"
)

// CommandNotFoundExitCode is recorded for a check whose tool could not be started.
// It matches the status a POSIX shell reports for an unknown command.
const CommandNotFoundExitCode = 127

// CheckFailedError is returned when the external tool exits with a non-zero status.
// Tool crashes, missing tools and genuine format or lint findings are not distinguished.
type CheckFailedError struct {
	Tool     string
	Command  string
	Entry    string
	ExitCode int
	Cause    error // set when the tool could not be started
}

func (e *CheckFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s check failed for %s: %v", e.Tool, e.Entry, e.Cause)
	}
	return fmt.Sprintf("%s check failed for %s: %s exited with status %d", e.Tool, e.Entry, e.Command, e.ExitCode)
}

func (e *CheckFailedError) Unwrap() error {
	return e.Cause
}

// ListDirError is returned when the target directory cannot be enumerated.
type ListDirError struct {
	Dir     string
	Wrapped error
}

func (e *ListDirError) Error() string {
	return fmt.Sprintf("cannot list directory %s: %v", e.Dir, e.Wrapped)
}

func (e *ListDirError) Unwrap() error {
	return e.Wrapped
}
