package urlmap

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every lookup miss
	ErrNotFound = errors.New("namespace not found")

	// ErrEmptyNamespace indicates an entry or lookup with an empty namespace
	ErrEmptyNamespace = errors.New("namespace is empty")

	// ErrInvalidNamespace indicates a namespace containing whitespace or control characters
	ErrInvalidNamespace = errors.New("invalid namespace")

	// ErrDuplicateNamespace indicates two entries sharing a namespace
	ErrDuplicateNamespace = errors.New("duplicate namespace")

	// ErrInvalidBaseURL indicates a base URL that cannot be used as a link prefix
	ErrInvalidBaseURL = errors.New("invalid base URL")

	// ErrMalformed indicates serialized table data that could not be decoded
	ErrMalformed = errors.New("malformed table data")
)

// NotFoundError is returned by Lookup when the namespace is not in the table.
type NotFoundError struct {
	Namespace string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("namespace %q not found", e.Namespace)
}

// Is reports whether target is ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// EntryError describes an entry rejected while building a table.
type EntryError struct {
	Index int   // Position of the entry in the input
	Entry Entry // The rejected entry
	Err   error // One of the sentinel errors above, possibly wrapped
}

// Error implements the error interface
func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d (%q): %v", e.Index, e.Entry.Namespace, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *EntryError) Unwrap() error {
	return e.Err
}
