package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors. Wrapped errors stay matchable with errors.Is.
var (
	// ErrNotFound means the identifier pattern (or the config key) is absent.
	ErrNotFound = errors.New("steam id not found")

	// ErrInvalidFormat means a value was found but is not a 17-digit "7656" id.
	ErrInvalidFormat = errors.New("invalid steam id")

	// ErrAlreadyExists means the folder a save would be moved to is taken.
	ErrAlreadyExists = errors.New("folder already exists")

	// ErrBackupFailed aborts a replacement before anything is modified.
	ErrBackupFailed = errors.New("backup failed")

	// ErrWriteFailed means the edited save could not be written; the backup is intact.
	ErrWriteFailed = errors.New("write failed")

	ErrNoFile      = errors.New("no save file loaded")
	ErrNoCurrentID = errors.New("current steam id not found in file")
	ErrNoNewID     = errors.New("no valid new steam id")
)

// InvalidFormatError carries the value that failed validation.
type InvalidFormatError struct {
	Value string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%v: must be %d digits starting with %s, got %q",
		ErrInvalidFormat, IdentifierLength, IdentifierPrefix, e.Value)
}

func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}
