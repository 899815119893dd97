package main

import (
	"fmt"
)

// Exit codes.
const (
	// ExitClean means no diagnostics were reported.
	ExitClean = 0
	// ExitUsage means invalid arguments or configuration.
	ExitUsage = 1
	// ExitFailure means an I/O or parse failure aborted the run.
	ExitFailure = 2
	// ExitFindings means diagnostics were reported.
	ExitFindings = 3
)

// ExitError wraps an error with the process exit code.
type ExitError struct {
	Err  error
	Code int

	// Silent errors are not printed; the output already explains them.
	Silent bool
}

func usageError(err error) *ExitError {
	return &ExitError{Err: err, Code: ExitUsage}
}

func failure(err error) *ExitError {
	return &ExitError{Err: err, Code: ExitFailure}
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}
