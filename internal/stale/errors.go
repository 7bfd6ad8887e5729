package stale

import (
	"errors"
	"fmt"
)

// ErrMissingInput matches any MissingInputError through errors.Is.
var ErrMissingInput = errors.New("missing input")

// MissingInputError reports a declared single-file input that does not exist.
// It means the build graph is inconsistent, not that the target is stale.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing input: %s", e.Path)
}

func (e *MissingInputError) Is(target error) bool { return target == ErrMissingInput }

// ScanError wraps a filesystem failure hit while reading timestamps.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("error scanning %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }
