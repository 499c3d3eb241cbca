package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the link store and its adapters.

// ErrInvalidInput is returned when a field is missing, too long or malformed.
var ErrInvalidInput = errors.New("invalid input")

// ErrDuplicateHash is returned by the store when the hash is already taken.
// Callers treat it as retryable by drawing a new candidate.
var ErrDuplicateHash = errors.New("hash already exists")

// ErrAllocationExhausted is returned when no free hash was found up to the maximum length.
var ErrAllocationExhausted = errors.New("hash allocation exhausted")

// ErrNotFound is returned when no link matches the given hash
var ErrNotFound = errors.New("link not found")

// ErrNotOwner is returned when the requester is not the owner of the link.
var ErrNotOwner = errors.New("requester is not the owner of the link")

// ErrStorageUnavailable is returned when the backing database failed.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrUnreachableURL is returned when the target URL did not answer with HTTP 200.
var ErrUnreachableURL = errors.New("url is not reachable")

// ValidationError describes which field was rejected and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError wraps a driver failure with the store operation that produced it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports StorageError as ErrStorageUnavailable so callers can match the category
// while errors.As still reaches the driver error.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

// NewStorageError wraps err, or returns nil when err is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// ErrURLCheckFailed is returned when URL reachability check fails
type ErrURLCheckFailed struct {
	URL    string
	Reason string
}

func (e ErrURLCheckFailed) Error() string {
	return fmt.Sprintf("failed to check URL %s: %s", e.URL, e.Reason)
}

func (e ErrURLCheckFailed) Unwrap() error {
	return ErrUnreachableURL
}

// ErrConfigLoad is returned when configuration loading fails
type ErrConfigLoad struct {
	Path   string
	Reason string
}

func (e ErrConfigLoad) Error() string {
	return fmt.Sprintf("failed to load config from %s: %s", e.Path, e.Reason)
}
