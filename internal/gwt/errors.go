package gwt

import "fmt"

// ExitError reports a toolchain process that exited with a non-zero status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("GWT exited with status %d", e.Code)
}

// StartError reports a toolchain process that could not be started.
type StartError struct {
	Program string
	Err     error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("program %s start failed: %v", e.Program, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }
