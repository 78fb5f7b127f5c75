package gitservice

import (
	"errors"
	"fmt"
)

// ErrSSHKeyMissing is returned when the configured SSH key file cannot be read.
var ErrSSHKeyMissing = errors.New("ssh key file could not be read")

// SyncError wraps a failed Git operation with the step that failed.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("git %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
