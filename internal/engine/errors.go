package engine

import (
	"errors"
	"fmt"
)

// FatalError marks an environment or job-description defect that makes
// the whole run unusable: non-absolute paths, missing executables or
// inputs, unwritable output directories, an exhausted temp-name
// budget, an unknown filetype tag, an unknown text encoding. Task
// failures (non-zero exit, missing promised output) are recoverable at
// the task loop and never carry this type.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func fatalf(op, format string, args ...any) error {
	return &FatalError{Op: op, Err: fmt.Errorf(format, args...)}
}

// IsFatal reports whether err carries a FatalError anywhere in its
// chain.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
