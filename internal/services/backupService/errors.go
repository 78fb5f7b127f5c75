package backupservice

import (
	"errors"
	"fmt"
)

// ErrSourceMissing is returned when the database file does not exist.
var ErrSourceMissing = errors.New("database file does not exist")

// ErrInsufficientSpace is returned when the backup directory's filesystem
// cannot hold a copy of the database.
var ErrInsufficientSpace = errors.New("not enough free space in backup directory")

// IOError wraps a failed filesystem operation during a snapshot.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
