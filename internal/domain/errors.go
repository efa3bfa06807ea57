package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a document missing both locally and remotely.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable signals that the engine stayed unreachable across retries.
	ErrUnavailable = errors.New("engine unavailable")
	// ErrIdentityConflict signals two live instances claiming the same identity.
	ErrIdentityConflict = errors.New("identity conflict")
	// ErrUnknownKind signals a document kind with no registered constructor.
	ErrUnknownKind = errors.New("unknown kind")
)

// UnavailableError wraps ErrUnavailable with the attempt count and last cause.
type UnavailableError struct {
	Attempts int
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %v", ErrUnavailable.Error(), e.Attempts, e.Err)
}

func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

// NewUnavailable creates an unavailable error carrying the attempt count.
func NewUnavailable(attempts int, err error) error {
	return &UnavailableError{Attempts: attempts, Err: err}
}

// IdentityConflictError wraps ErrIdentityConflict with the colliding identity.
type IdentityConflictError struct {
	Kind string
	ID   string
}

func (e *IdentityConflictError) Error() string {
	return fmt.Sprintf("%s: another live instance owns %s/%s", ErrIdentityConflict.Error(), e.Kind, e.ID)
}

func (e *IdentityConflictError) Unwrap() error { return ErrIdentityConflict }

// NewIdentityConflict creates an identity conflict error for the given identity.
func NewIdentityConflict(kind, id string) error {
	return &IdentityConflictError{Kind: kind, ID: id}
}
